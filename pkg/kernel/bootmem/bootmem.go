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

// Package bootmem implements the early-boot memory allocator, used between
// the discovery of physical memory and the handoff to the general-purpose
// allocator.
//
// One contiguous extent serves two disciplines: byte allocations grow up
// from the low end, page allocations grow down from the high end, and the
// two cursors must never cross.
//
//	[ bytes-used | avail-area | pages-used ]
//	|            | -->    <-- |            |
//	start       bpos         ppos         end
//
// The byte zone holds a count of live allocations and is reclaimed in one
// step when the count returns to zero; individual byte frees do not reuse
// space. The page zone is reclaimed in stack order only: a freed block is
// returned iff it is the most recently allocated one still outstanding.
// Only a small bounded number of allocations happen before handoff, so
// neither zone keeps a free list.
package bootmem

import (
	"errors"

	"github.com/larchos/larch/pkg/hostarch"
	"github.com/larchos/larch/pkg/log"
)

// ErrNoMemory is returned when a request cannot be satisfied without the
// byte and page zones colliding.
var ErrNoMemory = errors.New("bootmem: no memory")

// EarlyAllocator hands out byte- and page-granular allocations from a
// single extent. The zero value is inert; Init must be called before any
// allocation. It is not safe for concurrent use: early boot is
// single-threaded and the allocator adds no locking of its own.
type EarlyAllocator struct {
	// start and size bound the extent. Set by Init, immutable afterwards.
	start uintptr
	size  uintptr

	// bpos is the next free byte-allocation cursor. Invariant:
	// start <= bpos <= ppos <= start+size after every operation.
	bpos uintptr

	// ppos is the low boundary of the page zone.
	ppos uintptr

	// count is the number of live byte allocations. count == 0 iff
	// bpos == start.
	count uint64
}

// NewEarlyAllocator returns an inert allocator.
func NewEarlyAllocator() *EarlyAllocator {
	return &EarlyAllocator{}
}

// Init activates the allocator over [start, start+size). Re-initializing
// discards all prior allocation state; callers own the consequences.
func (a *EarlyAllocator) Init(start, size uintptr) {
	a.start = start
	a.size = size
	a.bpos = start
	a.ppos = start + size
	a.count = 0
	log.Debugf("bootmem: init extent [%#x, %#x)", start, start+size)
}

// AddMemory raises the page-zone boundary to start+size. The new boundary
// must stay within the extent given to Init; this is an extend-within-
// ceiling operation, not an unbounded grow.
func (a *EarlyAllocator) AddMemory(start, size uintptr) error {
	if start+size > a.start+a.size {
		return ErrNoMemory
	}
	a.ppos = start + size
	log.Debugf("bootmem: extended page boundary to %#x", a.ppos)
	return nil
}

// Alloc allocates size bytes aligned to align from the byte zone. align
// must be a power of two; callers own layout validity and a bad alignment
// gives an undefined result, matching the allocation contract this wraps.
func (a *EarlyAllocator) Alloc(size, align uintptr) (uintptr, error) {
	alignedPos := (a.bpos + align - 1) &^ (align - 1)
	if alignedPos+size > a.ppos {
		log.Debugf("bootmem: byte alloc of %d (align %d) would collide with page zone at %#x", size, align, a.ppos)
		return 0, ErrNoMemory
	}
	a.bpos = alignedPos + size
	a.count++
	return alignedPos, nil
}

// Dealloc releases one byte allocation. The freed block's position is
// irrelevant: space is only reclaimed when the live count returns to zero,
// at which point the whole byte zone resets in one step.
func (a *EarlyAllocator) Dealloc(pos uintptr) {
	_ = pos
	if a.count > 0 {
		a.count--
	}
	if a.count == 0 {
		a.bpos = a.start
	}
}

// AllocPages allocates numPages whole pages from the page zone, aligned
// down to alignPow2.
func (a *EarlyAllocator) AllocPages(numPages int, alignPow2 uintptr) (uintptr, error) {
	required := uintptr(numPages) * hostarch.PageSize
	if required > a.ppos-a.bpos {
		return 0, ErrNoMemory
	}
	alignedPos := (a.ppos - required) &^ (alignPow2 - 1)
	if alignedPos < a.bpos {
		log.Debugf("bootmem: page alloc of %d pages (align %#x) would invade byte zone at %#x", numPages, alignPow2, a.bpos)
		return 0, ErrNoMemory
	}
	a.ppos = alignedPos
	return alignedPos, nil
}

// DeallocPages returns numPages pages starting at pos to the page zone.
// Only the most recently allocated contiguous block can be reclaimed; any
// other block is silently leaked until the allocator is abandoned.
func (a *EarlyAllocator) DeallocPages(pos uintptr, numPages int) {
	end := pos + uintptr(numPages)*hostarch.PageSize
	if pos != a.ppos {
		return
	}
	a.ppos = end
}

// TotalBytes returns the size of the extent.
func (a *EarlyAllocator) TotalBytes() uintptr {
	return a.size
}

// UsedBytes returns the bytes consumed by the byte zone.
func (a *EarlyAllocator) UsedBytes() uintptr {
	return a.bpos - a.start
}

// AvailableBytes returns the bytes left between the two zones.
func (a *EarlyAllocator) AvailableBytes() uintptr {
	return a.ppos - a.bpos
}

// TotalPages returns the extent size in pages.
func (a *EarlyAllocator) TotalPages() int {
	return int(a.size / hostarch.PageSize)
}

// UsedPages returns the pages consumed by the page zone.
func (a *EarlyAllocator) UsedPages() int {
	return int((a.start + a.size - a.ppos) / hostarch.PageSize)
}

// AvailablePages returns the whole pages left between the two zones.
func (a *EarlyAllocator) AvailablePages() int {
	return int((a.ppos - a.bpos) / hostarch.PageSize)
}
