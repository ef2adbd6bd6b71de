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
	"io"

	"github.com/larchos/larch/pkg/abi/linux"
	"github.com/larchos/larch/pkg/errors"
	"github.com/larchos/larch/pkg/errors/linuxerr"
	"github.com/larchos/larch/pkg/hostarch"
	"github.com/larchos/larch/pkg/kernel"
	"github.com/larchos/larch/pkg/kernel/mm"
)

// Mmap implements mmap(2) for anonymous and file-backed mappings.
//
// The address-space lock is held from address resolution through content
// population, so concurrent mmap calls on one task serialize and the
// mapping cannot change under the file copy-in.
func Mmap(t *kernel.Task, args SyscallArguments) (uintptr, error) {
	addr := args[0].Pointer()
	length := args[1].Uint64()
	prot := args[2].Uint64()
	flags := args[3].Uint64()
	fd := args[4].Int()
	offset := args[5].Int64()

	mmapFlags, ok := linux.MmapFlagsFromBits(flags)
	if !ok {
		return 0, linuxerr.EINVAL
	}
	mmapProt, ok := linux.MmapProtFromBits(prot)
	if !ok {
		return 0, linuxerr.EINVAL
	}

	alignedLength, ok := hostarch.Addr(length).RoundUp()
	if !ok {
		return 0, linuxerr.ENOMEM
	}
	if alignedLength == 0 {
		return 0, linuxerr.EINVAL
	}

	as := t.MemoryManager()
	as.Lock()
	defer as.Unlock()

	var startAddr hostarch.Addr
	if mmapFlags.Fixed() {
		// The address is used exactly as given; collisions are left to
		// the installer.
		if !addr.IsPageAligned() {
			return 0, linuxerr.EINVAL
		}
		startAddr = addr
	} else {
		limit := hostarch.AddrRange{
			Start: as.Base(),
			End:   as.Base() + hostarch.Addr(as.Size()),
		}
		startAddr, ok = as.FindFreeArea(addr, uint64(alignedLength), limit)
		if !ok {
			return 0, linuxerr.ENOMEM
		}
	}

	perms := hostarch.AccessType{
		Read:    mmapProt.Read(),
		Write:   mmapProt.Write(),
		Execute: mmapProt.Exec(),
		User:    true,
	}

	if mmapFlags.Anonymous() {
		if err := as.MapAlloc(startAddr, uint64(alignedLength), perms, true); err != nil {
			return 0, installerError(err)
		}
		return uintptr(startAddr), nil
	}

	// File-backed: reserve and populate the region first, then copy the
	// file contents over the zeroed pages.
	if fd < 0 {
		return 0, linuxerr.EBADF
	}
	file := t.GetFile(fd)
	if file == nil {
		return 0, linuxerr.EBADF
	}
	if err := as.MapAlloc(startAddr, uint64(alignedLength), perms, true); err != nil {
		return 0, installerError(err)
	}

	// Stage exactly the requested (unaligned) length; anything the file
	// cannot supply stays zero in the mapping.
	fileData := make([]byte, length)

	// The mapping must not disturb the descriptor's cursor. Only a
	// nonzero offset forces a seek, so only then is there a position to
	// save and restore.
	savedPos := int64(-1)
	if offset != 0 {
		cur, err := file.Seek(0, linux.SEEK_CUR)
		if err != nil {
			return 0, fileError(err)
		}
		if _, err := file.Seek(offset, linux.SEEK_SET); err != nil {
			return 0, fileError(err)
		}
		savedPos = cur
	}

	totalRead := 0
	for totalRead < len(fileData) {
		n, err := file.Read(fileData[totalRead:])
		totalRead += n
		if err == io.EOF || (err == nil && n == 0) {
			break
		}
		if err != nil {
			return 0, fileError(err)
		}
	}

	if savedPos >= 0 {
		if _, err := file.Seek(savedPos, linux.SEEK_SET); err != nil {
			return 0, fileError(err)
		}
	}

	if err := as.Write(startAddr, fileData[:totalRead]); err != nil {
		return 0, linuxerr.EFAULT
	}
	return uintptr(startAddr), nil
}

// installerError translates the address-space installer's error set to the
// three errnos the ABI distinguishes. The installer's set is broader than
// these, so anything unrecognized conservatively becomes EAGAIN rather
// than a fabricated code.
func installerError(err error) error {
	switch err {
	case mm.ErrNoMemory:
		return linuxerr.ENOMEM
	case mm.ErrInvalidArgs:
		return linuxerr.EINVAL
	default:
		return linuxerr.EAGAIN
	}
}

// fileError passes through file-layer errnos; anything else (a host I/O
// failure outside the closed error set) surfaces as EIO.
func fileError(err error) error {
	if _, ok := err.(*errors.Error); ok {
		return err
	}
	return linuxerr.EIO
}
