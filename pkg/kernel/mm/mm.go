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

// Package mm provides the per-task virtual address space: a set of mapped
// regions over page-granular backing memory, with free-region search and
// content access.
package mm

import "errors"

// The closed set of address-space error kinds. Callers at the syscall
// boundary translate these to errnos; anything outside this set is an
// unclassified installer failure.
var (
	// ErrNoMemory indicates that backing pages or virtual space are
	// exhausted.
	ErrNoMemory = errors.New("mm: out of memory")

	// ErrInvalidArgs indicates a malformed request: misaligned or
	// out-of-range addresses, zero or unaligned lengths, or an overlap
	// with an existing mapping.
	ErrInvalidArgs = errors.New("mm: invalid arguments")

	// ErrNoMapping indicates an access to an address with no mapping.
	ErrNoMapping = errors.New("mm: no mapping at address")
)

// PageSource provides page-granular backing memory. During early boot it is
// satisfied by bootmem.(*EarlyAllocator); after handoff, by the
// general-purpose allocator.
type PageSource interface {
	// AllocPages allocates numPages contiguous pages aligned to alignPow2
	// and returns the position of the first page.
	AllocPages(numPages int, alignPow2 uintptr) (uintptr, error)

	// DeallocPages returns numPages pages at pos.
	DeallocPages(pos uintptr, numPages int)
}
