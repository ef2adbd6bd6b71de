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

package mm

import (
	"sync"

	"github.com/google/btree"

	"github.com/larchos/larch/pkg/hostarch"
	"github.com/larchos/larch/pkg/log"
)

// vma is one mapped virtual region and its backing position.
type vma struct {
	ar      hostarch.AddrRange
	perms   hostarch.AccessType
	backing uintptr
}

// AddressSpace is a per-task virtual memory map.
//
// AddressSpace uses an external locking discipline: callers acquire the
// space with Lock for the full duration of an operation sequence (for mmap,
// from address resolution through content population) and release it on
// every exit path. Methods below assume the lock is held and do not nest
// acquisitions, so a single mmap call can never deadlock against itself.
type AddressSpace struct {
	mu sync.Mutex

	// base and size bound the virtual region this space may map.
	// Immutable.
	base hostarch.Addr
	size uint64

	// source provides backing pages; mem holds their contents. mem covers
	// positions [memBase, memBase+len(mem)).
	source  PageSource
	mem     []byte
	memBase uintptr

	// vmas is ordered by ar.Start. Entries never overlap.
	vmas *btree.BTreeG[*vma]
}

// NewAddressSpace returns an empty address space covering the virtual range
// [base, base+size). Backing pages come from source, whose positions must
// fall inside mem's extent [memBase, memBase+len(mem)).
func NewAddressSpace(base hostarch.Addr, size uint64, source PageSource, mem []byte, memBase uintptr) *AddressSpace {
	return &AddressSpace{
		base:    base,
		size:    size,
		source:  source,
		mem:     mem,
		memBase: memBase,
		vmas: btree.NewG(8, func(a, b *vma) bool {
			return a.ar.Start < b.ar.Start
		}),
	}
}

// Lock acquires the address space for a sequence of operations.
func (as *AddressSpace) Lock() {
	as.mu.Lock()
}

// Unlock releases the address space.
func (as *AddressSpace) Unlock() {
	as.mu.Unlock()
}

// Base returns the lowest mappable address.
func (as *AddressSpace) Base() hostarch.Addr {
	return as.base
}

// Size returns the size of the mappable region in bytes.
func (as *AddressSpace) Size() uint64 {
	return as.size
}

// MappedBytes returns the total length of all mappings.
//
// Preconditions: as is locked.
func (as *AddressSpace) MappedBytes() uint64 {
	var total uint64
	as.vmas.Ascend(func(v *vma) bool {
		total += v.ar.Length()
		return true
	})
	return total
}

// FindFreeArea searches for an unmapped, page-aligned region of the given
// length within limit, preferring addresses at or above hint. It falls back
// to the bottom of limit when nothing is free above the hint.
//
// Preconditions: as is locked.
func (as *AddressSpace) FindFreeArea(hint hostarch.Addr, length uint64, limit hostarch.AddrRange) (hostarch.Addr, bool) {
	if length == 0 || !limit.WellFormed() {
		return 0, false
	}
	start := hint.RoundDown()
	if start < limit.Start {
		start = limit.Start
	}
	if addr, ok := as.findFreeAfter(start, length, limit); ok {
		return addr, true
	}
	if start > limit.Start {
		return as.findFreeAfter(limit.Start, length, limit)
	}
	return 0, false
}

func (as *AddressSpace) findFreeAfter(start hostarch.Addr, length uint64, limit hostarch.AddrRange) (hostarch.Addr, bool) {
	candidate, ok := start.RoundUp()
	if !ok {
		return 0, false
	}
	as.vmas.Ascend(func(v *vma) bool {
		if v.ar.End <= candidate {
			return true
		}
		if end, ok := candidate.AddLength(length); ok && v.ar.Start >= end {
			return false
		}
		candidate = v.ar.End
		return true
	})
	end, ok := candidate.AddLength(length)
	if !ok || end > limit.End || candidate < limit.Start {
		return 0, false
	}
	return candidate, true
}

// overlapsLocked returns true if any existing vma overlaps ar.
func (as *AddressSpace) overlapsLocked(ar hostarch.AddrRange) bool {
	overlap := false
	as.vmas.Ascend(func(v *vma) bool {
		if v.ar.End <= ar.Start {
			return true
		}
		overlap = v.ar.Overlaps(ar)
		return false
	})
	return overlap
}

// MapAlloc installs a mapping of length bytes at addr with the given
// permissions, backed by freshly allocated pages. If populate is true the
// backing is zeroed eagerly; otherwise the contents are whatever the page
// source returns.
//
// addr and length must be page-aligned, length must be nonzero, the range
// must lie inside [Base, Base+Size), and it must not overlap an existing
// mapping; violations return ErrInvalidArgs. Page exhaustion returns
// ErrNoMemory.
//
// Preconditions: as is locked.
func (as *AddressSpace) MapAlloc(addr hostarch.Addr, length uint64, perms hostarch.AccessType, populate bool) error {
	if !addr.IsPageAligned() || length == 0 || length%hostarch.PageSize != 0 {
		return ErrInvalidArgs
	}
	ar, ok := addr.ToRange(length)
	if !ok {
		return ErrInvalidArgs
	}
	spaceEnd, ok := as.base.AddLength(as.size)
	if !ok || !(hostarch.AddrRange{Start: as.base, End: spaceEnd}).IsSupersetOf(ar) {
		return ErrInvalidArgs
	}
	if as.overlapsLocked(ar) {
		return ErrInvalidArgs
	}

	numPages := int(length / hostarch.PageSize)
	pos, err := as.source.AllocPages(numPages, hostarch.PageSize)
	if err != nil {
		return ErrNoMemory
	}
	if populate {
		b := as.slice(pos, uintptr(length))
		for i := range b {
			b[i] = 0
		}
	}
	as.vmas.ReplaceOrInsert(&vma{ar: ar, perms: perms, backing: pos})
	log.Debugf("mm: mapped [%#x, %#x) %s backing=%#x", ar.Start, ar.End, perms, pos)
	return nil
}

// Unmap removes the mapping previously installed at exactly [addr,
// addr+length) and returns its backing pages to the source. Partial or
// spanning unmaps are not supported and return ErrInvalidArgs; ErrNoMapping
// is returned if no mapping starts at addr.
//
// Preconditions: as is locked.
func (as *AddressSpace) Unmap(addr hostarch.Addr, length uint64) error {
	probe := &vma{ar: hostarch.AddrRange{Start: addr}}
	v, ok := as.vmas.Get(probe)
	if !ok {
		return ErrNoMapping
	}
	if v.ar.Length() != length {
		return ErrInvalidArgs
	}
	as.vmas.Delete(probe)
	as.source.DeallocPages(v.backing, int(length/hostarch.PageSize))
	log.Debugf("mm: unmapped [%#x, %#x)", v.ar.Start, v.ar.End)
	return nil
}

// Write copies b into mapped memory starting at addr. The entire
// destination range must be mapped; otherwise ErrNoMapping is returned and
// the contents of the range are unspecified.
//
// Preconditions: as is locked.
func (as *AddressSpace) Write(addr hostarch.Addr, b []byte) error {
	return as.walk(addr, uint64(len(b)), func(dst []byte, off uint64) {
		copy(dst, b[off:])
	})
}

// Read copies len(b) bytes of mapped memory starting at addr into b. The
// entire source range must be mapped; otherwise ErrNoMapping is returned.
//
// Preconditions: as is locked.
func (as *AddressSpace) Read(addr hostarch.Addr, b []byte) error {
	return as.walk(addr, uint64(len(b)), func(src []byte, off uint64) {
		copy(b[off:], src)
	})
}

// walk applies f to the backing of each mapped sub-range of [addr,
// addr+length), in order. f receives the backing slice and the offset of
// the sub-range from addr.
func (as *AddressSpace) walk(addr hostarch.Addr, length uint64, f func(backing []byte, off uint64)) error {
	if length == 0 {
		return nil
	}
	ar, ok := addr.ToRange(length)
	if !ok {
		return ErrNoMapping
	}
	cur := ar.Start
	for cur < ar.End {
		v := as.findLocked(cur)
		if v == nil {
			return ErrNoMapping
		}
		chunkEnd := v.ar.End
		if chunkEnd > ar.End {
			chunkEnd = ar.End
		}
		vmaOff := uintptr(cur - v.ar.Start)
		n := uintptr(chunkEnd - cur)
		f(as.slice(v.backing+vmaOff, n), uint64(cur-ar.Start))
		cur = chunkEnd
	}
	return nil
}

// findLocked returns the vma containing addr, or nil.
func (as *AddressSpace) findLocked(addr hostarch.Addr) *vma {
	var found *vma
	probe := &vma{ar: hostarch.AddrRange{Start: addr}}
	as.vmas.DescendLessOrEqual(probe, func(v *vma) bool {
		// First visited item has the greatest Start <= addr.
		if v.ar.Contains(addr) {
			found = v
		}
		return false
	})
	return found
}

// slice returns the backing bytes for [pos, pos+length).
func (as *AddressSpace) slice(pos, length uintptr) []byte {
	return as.mem[pos-as.memBase:][:length]
}
