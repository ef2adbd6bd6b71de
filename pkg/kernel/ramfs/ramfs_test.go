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

package ramfs

import (
	"bytes"
	"io"
	"testing"

	"github.com/larchos/larch/pkg/abi/linux"
	"github.com/larchos/larch/pkg/errors/linuxerr"
)

func TestOpenMissing(t *testing.T) {
	fs := New()
	if _, err := fs.Open("nope", linux.O_RDONLY); err != linuxerr.ENOENT {
		t.Errorf("Open(missing): got err %v, want ENOENT", err)
	}
}

func TestCreateAndRead(t *testing.T) {
	fs := New()
	fs.Create("etc/motd", []byte("hello"))

	// Absolute and relative spellings resolve to the same file.
	for _, path := range []string{"etc/motd", "/etc/motd", "./etc/motd"} {
		f, err := fs.Open(path, linux.O_RDONLY)
		if err != nil {
			t.Fatalf("Open(%q): %v", path, err)
		}
		got, err := io.ReadAll(readerOf(f))
		if err != nil {
			t.Fatalf("read %q: %v", path, err)
		}
		if !bytes.Equal(got, []byte("hello")) {
			t.Errorf("Open(%q): got %q, want %q", path, got, "hello")
		}
	}
}

// readerOf adapts File to io.Reader for test convenience.
func readerOf(f *File) io.Reader {
	return readerFunc(func(b []byte) (int, error) { return f.Read(b) })
}

type readerFunc func([]byte) (int, error)

func (r readerFunc) Read(b []byte) (int, error) { return r(b) }

func TestWriteReadSeek(t *testing.T) {
	fs := New()
	f, err := fs.Open("scratch", linux.O_RDWR|linux.O_CREAT)
	if err != nil {
		t.Fatalf("Open(O_CREAT): %v", err)
	}
	if n, err := f.Write([]byte("0123456789")); n != 10 || err != nil {
		t.Fatalf("Write: got (%d, %v), want (10, nil)", n, err)
	}

	// Reads at EOF return io.EOF with no bytes.
	if n, err := f.Read(make([]byte, 4)); n != 0 || err != io.EOF {
		t.Fatalf("Read at EOF: got (%d, %v), want (0, io.EOF)", n, err)
	}

	pos, err := f.Seek(2, linux.SEEK_SET)
	if pos != 2 || err != nil {
		t.Fatalf("Seek(2, SET): got (%d, %v)", pos, err)
	}
	buf := make([]byte, 4)
	if n, err := f.Read(buf); n != 4 || err != nil {
		t.Fatalf("Read after seek: got (%d, %v)", n, err)
	}
	if string(buf) != "2345" {
		t.Errorf("Read after seek: got %q, want %q", buf, "2345")
	}

	pos, err = f.Seek(-3, linux.SEEK_END)
	if pos != 7 || err != nil {
		t.Fatalf("Seek(-3, END): got (%d, %v)", pos, err)
	}
	pos, err = f.Seek(1, linux.SEEK_CUR)
	if pos != 8 || err != nil {
		t.Fatalf("Seek(1, CUR): got (%d, %v)", pos, err)
	}

	if _, err := f.Seek(-1, linux.SEEK_SET); err != linuxerr.EINVAL {
		t.Errorf("Seek to negative: got err %v, want EINVAL", err)
	}
	if _, err := f.Seek(0, 9); err != linuxerr.EINVAL {
		t.Errorf("Seek bad whence: got err %v, want EINVAL", err)
	}
}

func TestIndependentCursors(t *testing.T) {
	fs := New()
	fs.Create("f", []byte("abcdef"))
	f1, err := fs.Open("f", linux.O_RDONLY)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f2, err := fs.Open("f", linux.O_RDONLY)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	buf := make([]byte, 3)
	if _, err := f1.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if _, err := f2.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf) != "abc" {
		t.Errorf("second handle read %q, want %q", buf, "abc")
	}
}

func TestAccessModes(t *testing.T) {
	fs := New()
	fs.Create("f", []byte("data"))

	ro, err := fs.Open("f", linux.O_RDONLY)
	if err != nil {
		t.Fatalf("Open(O_RDONLY): %v", err)
	}
	if _, err := ro.Write([]byte("x")); err != linuxerr.EBADF {
		t.Errorf("Write on O_RDONLY: got err %v, want EBADF", err)
	}

	wo, err := fs.Open("f", linux.O_WRONLY)
	if err != nil {
		t.Fatalf("Open(O_WRONLY): %v", err)
	}
	if _, err := wo.Read(make([]byte, 1)); err != linuxerr.EBADF {
		t.Errorf("Read on O_WRONLY: got err %v, want EBADF", err)
	}
}

func TestTruncateAndAppend(t *testing.T) {
	fs := New()
	fs.Create("f", []byte("old contents"))

	f, err := fs.Open("f", linux.O_WRONLY|linux.O_TRUNC)
	if err != nil {
		t.Fatalf("Open(O_TRUNC): %v", err)
	}
	if got := f.Size(); got != 0 {
		t.Fatalf("Size after O_TRUNC: got %d, want 0", got)
	}
	if _, err := f.Write([]byte("ab")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	ap, err := fs.Open("f", linux.O_WRONLY|linux.O_APPEND)
	if err != nil {
		t.Fatalf("Open(O_APPEND): %v", err)
	}
	if _, err := ap.Write([]byte("cd")); err != nil {
		t.Fatalf("append Write: %v", err)
	}
	r, err := fs.Open("f", linux.O_RDONLY)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, err := io.ReadAll(readerOf(r))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "abcd" {
		t.Errorf("contents after append: got %q, want %q", got, "abcd")
	}
}
