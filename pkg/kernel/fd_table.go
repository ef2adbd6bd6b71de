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

package kernel

import (
	"sync"

	"github.com/larchos/larch/pkg/errors/linuxerr"
)

// maxFDs bounds the descriptor table.
const maxFDs = 1024

// FDTable maps descriptor numbers to Files.
type FDTable struct {
	mu    sync.Mutex
	files map[int32]File
}

// NewFDTable returns an empty table.
func NewFDTable() *FDTable {
	return &FDTable{files: make(map[int32]File)}
}

// NewFD installs file at the lowest available descriptor and returns it.
func (f *FDTable) NewFD(file File) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for fd := int32(0); fd < maxFDs; fd++ {
		if _, ok := f.files[fd]; !ok {
			f.files[fd] = file
			return fd, nil
		}
	}
	return 0, linuxerr.EMFILE
}

// NewFDAt installs file at exactly fd, replacing any prior entry. Used to
// seed the standard descriptors at boot.
func (f *FDTable) NewFDAt(fd int32, file File) error {
	if fd < 0 || fd >= maxFDs {
		return linuxerr.EBADF
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[fd] = file
	return nil
}

// GetFile returns the file at fd, or nil if fd is not a valid descriptor.
func (f *FDTable) GetFile(fd int32) File {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.files[fd]
}

// Remove removes and returns the file at fd, or nil if fd is not a valid
// descriptor.
func (f *FDTable) Remove(fd int32) File {
	f.mu.Lock()
	defer f.mu.Unlock()
	file := f.files[fd]
	delete(f.files, fd)
	return file
}
