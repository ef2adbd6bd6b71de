// Copyright 2024 The Larch Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ramfs provides a flat, in-memory filesystem backing the openat
// path. Paths are plain names resolved from the root; there are no
// directories.
package ramfs

import (
	"io"
	"strings"
	"sync"

	"github.com/larchos/larch/pkg/abi/linux"
	"github.com/larchos/larch/pkg/errors/linuxerr"
)

// inode is a regular file's contents.
type inode struct {
	mu   sync.Mutex
	data []byte
}

// Filesystem is a flat namespace of regular files.
type Filesystem struct {
	mu    sync.Mutex
	files map[string]*inode
}

// New returns an empty filesystem.
func New() *Filesystem {
	return &Filesystem{files: make(map[string]*inode)}
}

// clean strips leading "/" and "./" so that guests using absolute and
// relative paths agree on a name.
func clean(path string) string {
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimPrefix(path, "./")
	return path
}

// Create installs a file with the given contents, replacing any previous
// one. Used to seed the filesystem at boot.
func (fs *Filesystem) Create(path string, data []byte) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[clean(path)] = &inode{data: append([]byte(nil), data...)}
}

// Open opens path with open(2) flag semantics and returns a File with an
// independent cursor. Missing files are created under O_CREAT and are
// ENOENT otherwise.
func (fs *Filesystem) Open(path string, flags uint32) (*File, error) {
	name := clean(path)
	if name == "" {
		return nil, linuxerr.ENOENT
	}
	fs.mu.Lock()
	in, ok := fs.files[name]
	if !ok {
		if flags&linux.O_CREAT == 0 {
			fs.mu.Unlock()
			return nil, linuxerr.ENOENT
		}
		in = &inode{}
		fs.files[name] = in
	}
	fs.mu.Unlock()

	if flags&linux.O_TRUNC != 0 {
		in.mu.Lock()
		in.data = in.data[:0]
		in.mu.Unlock()
	}
	accmode := flags & linux.O_ACCMODE
	return &File{
		inode:    in,
		readable: accmode == linux.O_RDONLY || accmode == linux.O_RDWR,
		writable: accmode == linux.O_WRONLY || accmode == linux.O_RDWR,
		append:   flags&linux.O_APPEND != 0,
	}, nil
}

// File is an open handle: an inode plus a cursor.
type File struct {
	inode    *inode
	readable bool
	writable bool
	append   bool

	// pos is the I/O cursor. Guarded by the inode lock so Seek observes
	// a stable size.
	pos int64
}

// Read implements kernel.File.Read. It returns io.EOF only at end of file
// with no bytes transferred.
func (f *File) Read(b []byte) (int, error) {
	if !f.readable {
		return 0, linuxerr.EBADF
	}
	f.inode.mu.Lock()
	defer f.inode.mu.Unlock()
	if f.pos >= int64(len(f.inode.data)) {
		return 0, io.EOF
	}
	n := copy(b, f.inode.data[f.pos:])
	f.pos += int64(n)
	return n, nil
}

// Write implements kernel.File.Write, growing the file as needed.
func (f *File) Write(b []byte) (int, error) {
	if !f.writable {
		return 0, linuxerr.EBADF
	}
	f.inode.mu.Lock()
	defer f.inode.mu.Unlock()
	if f.append {
		f.pos = int64(len(f.inode.data))
	}
	end := f.pos + int64(len(b))
	if grow := end - int64(len(f.inode.data)); grow > 0 {
		f.inode.data = append(f.inode.data, make([]byte, grow)...)
	}
	n := copy(f.inode.data[f.pos:], b)
	f.pos += int64(n)
	return n, nil
}

// Seek implements kernel.File.Seek.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	f.inode.mu.Lock()
	defer f.inode.mu.Unlock()
	var base int64
	switch whence {
	case linux.SEEK_SET:
		base = 0
	case linux.SEEK_CUR:
		base = f.pos
	case linux.SEEK_END:
		base = int64(len(f.inode.data))
	default:
		return 0, linuxerr.EINVAL
	}
	pos := base + offset
	if pos < 0 {
		return 0, linuxerr.EINVAL
	}
	f.pos = pos
	return pos, nil
}

// Size returns the current file size.
func (f *File) Size() int64 {
	f.inode.mu.Lock()
	defer f.inode.mu.Unlock()
	return int64(len(f.inode.data))
}
