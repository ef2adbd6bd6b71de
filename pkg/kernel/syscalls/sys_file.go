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

package syscalls

import (
	"encoding/binary"
	"io"

	"github.com/larchos/larch/pkg/abi/linux"
	"github.com/larchos/larch/pkg/errors/linuxerr"
	"github.com/larchos/larch/pkg/hostarch"
	"github.com/larchos/larch/pkg/kernel"
	"github.com/larchos/larch/pkg/log"
)

// Openat implements openat(2). Only AT_FDCWD is accepted as dirfd: paths
// are resolved from the filesystem root, and there are no directory
// descriptors to be relative to.
func Openat(t *kernel.Task, args SyscallArguments) (uintptr, error) {
	dirfd := args[0].Int()
	pathAddr := args[1].Pointer()
	flags := args[2].Uint()

	if dirfd != linux.AT_FDCWD {
		return 0, linuxerr.EINVAL
	}
	path, err := t.CopyInString(pathAddr, linux.PATH_MAX)
	if err != nil {
		return 0, err
	}
	file, err := t.Root().Open(path, flags)
	if err != nil {
		return 0, err
	}
	fd, err := t.FDTable().NewFD(file)
	if err != nil {
		return 0, err
	}
	return uintptr(fd), nil
}

// Close implements close(2).
func Close(t *kernel.Task, args SyscallArguments) (uintptr, error) {
	fd := args[0].Int()
	if file := t.FDTable().Remove(fd); file == nil {
		return 0, linuxerr.EBADF
	}
	return 0, nil
}

// Read implements read(2).
func Read(t *kernel.Task, args SyscallArguments) (uintptr, error) {
	fd := args[0].Int()
	addr := args[1].Pointer()
	size := clampCount(args[2].SizeT())

	file := t.GetFile(fd)
	if file == nil {
		return 0, linuxerr.EBADF
	}
	if err := checkTransfer(t, addr, size); err != nil {
		return 0, err
	}
	buf := make([]byte, size)
	n, err := file.Read(buf)
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if err := t.CopyOutBytes(addr, buf[:n]); err != nil {
		return 0, err
	}
	return uintptr(n), nil
}

// Write implements write(2).
func Write(t *kernel.Task, args SyscallArguments) (uintptr, error) {
	fd := args[0].Int()
	addr := args[1].Pointer()
	size := clampCount(args[2].SizeT())

	file := t.GetFile(fd)
	if file == nil {
		return 0, linuxerr.EBADF
	}
	if err := checkTransfer(t, addr, size); err != nil {
		return 0, err
	}
	buf := make([]byte, size)
	if err := t.CopyInBytes(addr, buf); err != nil {
		return 0, err
	}
	n, err := file.Write(buf)
	if err != nil {
		return 0, err
	}
	return uintptr(n), nil
}

// Writev implements writev(2).
func Writev(t *kernel.Task, args SyscallArguments) (uintptr, error) {
	fd := args[0].Int()
	iovAddr := args[1].Pointer()
	iovCnt := args[2].Int()

	file := t.GetFile(fd)
	if file == nil {
		return 0, linuxerr.EBADF
	}
	if iovCnt < 0 || iovCnt > linux.UIO_MAXIOV {
		return 0, linuxerr.EINVAL
	}

	raw := make([]byte, int(iovCnt)*linux.SizeOfIovec)
	if err := t.CopyInBytes(iovAddr, raw); err != nil {
		return 0, err
	}
	var total uintptr
	for i := 0; i < int(iovCnt); i++ {
		iov := linux.Iovec{
			Base: binary.LittleEndian.Uint64(raw[i*linux.SizeOfIovec:]),
			Len:  binary.LittleEndian.Uint64(raw[i*linux.SizeOfIovec+8:]),
		}
		// The whole vector is subject to the same transfer cap as a
		// single write; the tail past it is dropped.
		if remaining := uint64(linux.MAX_RW_COUNT) - uint64(total); iov.Len > remaining {
			iov.Len = remaining
		}
		if iov.Len == 0 {
			continue
		}
		if err := checkTransfer(t, hostarch.Addr(iov.Base), uint(iov.Len)); err != nil {
			if total > 0 {
				return total, nil
			}
			return 0, err
		}
		buf := make([]byte, iov.Len)
		if err := t.CopyInBytes(hostarch.Addr(iov.Base), buf); err != nil {
			return 0, err
		}
		n, err := file.Write(buf)
		total += uintptr(n)
		if err != nil {
			if total > 0 {
				// Partial writev result wins over the error.
				return total, nil
			}
			return 0, err
		}
		if n < len(buf) {
			break
		}
	}
	return total, nil
}

// Lseek implements lseek(2) semantics over the descriptor table. It is not
// wired into Table (the supported numeric ABI does not include lseek); it
// exists for in-kernel callers and mirrors the cursor protocol the mmap
// path relies on.
func Lseek(t *kernel.Task, args SyscallArguments) (uintptr, error) {
	fd := args[0].Int()
	offset := args[1].Int64()
	whence := args[2].Int()

	file := t.GetFile(fd)
	if file == nil {
		return 0, linuxerr.EBADF
	}
	switch whence {
	case linux.SEEK_SET, linux.SEEK_CUR, linux.SEEK_END:
	default:
		return 0, linuxerr.EINVAL
	}
	pos, err := file.Seek(offset, int(whence))
	if err != nil {
		return 0, err
	}
	return uintptr(pos), nil
}

// Ioctl implements ioctl(2) as a stub: every request is acknowledged and
// ignored.
func Ioctl(t *kernel.Task, args SyscallArguments) (uintptr, error) {
	log.Debugf("ignoring ioctl(%d, %#x)", args[0].Int(), args[1].Uint64())
	return 0, nil
}

// clampCount truncates a user-supplied transfer count to MAX_RW_COUNT,
// as Linux does for read(2) and write(2).
func clampCount(size uint) uint {
	if size > linux.MAX_RW_COUNT {
		return linux.MAX_RW_COUNT
	}
	return size
}

// checkTransfer rejects with EFAULT any transfer whose guest range cannot
// lie inside the task's address space. Guest copies are all-or-nothing, so
// such a range could never be satisfied; checking up front keeps staging
// allocations bounded by the address-space size.
func checkTransfer(t *kernel.Task, addr hostarch.Addr, size uint) error {
	if size == 0 {
		return nil
	}
	as := t.MemoryManager()
	ar, ok := addr.ToRange(uint64(size))
	if !ok {
		return linuxerr.EFAULT
	}
	spaceEnd, ok := as.Base().AddLength(as.Size())
	if !ok || !(hostarch.AddrRange{Start: as.Base(), End: spaceEnd}).IsSupersetOf(ar) {
		return linuxerr.EFAULT
	}
	return nil
}
