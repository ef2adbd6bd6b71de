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

// Package kernel provides task bookkeeping: the Task object owning an
// address space and a file descriptor table.
package kernel

// File is the opaque POSIX-style I/O surface the syscall layer consumes.
// Implementations return counts of bytes transferred and linuxerr errors
// (io.EOF marks end of file on Read).
type File interface {
	// Read reads up to len(b) bytes into b from the current position and
	// advances it.
	Read(b []byte) (int, error)

	// Write writes len(b) bytes from b at the current position and
	// advances it.
	Write(b []byte) (int, error)

	// Seek repositions the I/O cursor per lseek(2) whence semantics and
	// returns the new absolute position.
	Seek(offset int64, whence int) (int64, error)
}
