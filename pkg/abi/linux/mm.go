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

package linux

import "strings"

// Protections for mmap(2), from uapi/asm-generic/mman-common.h.
const (
	PROT_READ  = 1 << 0
	PROT_WRITE = 1 << 1
	PROT_EXEC  = 1 << 2
)

// Flags for mmap(2), from uapi/asm-generic/mman-common.h and mman.h.
const (
	MAP_SHARED    = 1 << 0
	MAP_PRIVATE   = 1 << 1
	MAP_FIXED     = 1 << 4
	MAP_ANONYMOUS = 1 << 5
	MAP_NORESERVE = 1 << 14
	MAP_STACK     = 0x20000
)

// MmapProt is the typed set of mmap protection bits.
type MmapProt uint32

const mmapProtAll = PROT_READ | PROT_WRITE | PROT_EXEC

// MmapProtFromBits parses raw protection bits. ok is false if raw contains
// bits outside the defined set; PROT_NONE (no bits) is a valid value.
func MmapProtFromBits(raw uint64) (p MmapProt, ok bool) {
	if raw&^uint64(mmapProtAll) != 0 {
		return 0, false
	}
	return MmapProt(raw), true
}

// Read returns true if PROT_READ is set.
func (p MmapProt) Read() bool { return p&PROT_READ != 0 }

// Write returns true if PROT_WRITE is set.
func (p MmapProt) Write() bool { return p&PROT_WRITE != 0 }

// Exec returns true if PROT_EXEC is set.
func (p MmapProt) Exec() bool { return p&PROT_EXEC != 0 }

// String implements fmt.Stringer.
func (p MmapProt) String() string {
	if p == 0 {
		return "PROT_NONE"
	}
	var s []string
	if p.Read() {
		s = append(s, "PROT_READ")
	}
	if p.Write() {
		s = append(s, "PROT_WRITE")
	}
	if p.Exec() {
		s = append(s, "PROT_EXEC")
	}
	return strings.Join(s, "|")
}

// MmapFlags is the typed set of mmap mapping flags.
type MmapFlags uint32

const mmapFlagsAll = MAP_SHARED | MAP_PRIVATE | MAP_FIXED | MAP_ANONYMOUS | MAP_NORESERVE | MAP_STACK

// MmapFlagsFromBits parses raw mapping flags. ok is false if raw contains
// bits outside the defined set.
func MmapFlagsFromBits(raw uint64) (f MmapFlags, ok bool) {
	if raw&^uint64(mmapFlagsAll) != 0 {
		return 0, false
	}
	return MmapFlags(raw), true
}

// Shared returns true if MAP_SHARED is set.
func (f MmapFlags) Shared() bool { return f&MAP_SHARED != 0 }

// Private returns true if MAP_PRIVATE is set.
func (f MmapFlags) Private() bool { return f&MAP_PRIVATE != 0 }

// Fixed returns true if MAP_FIXED is set.
func (f MmapFlags) Fixed() bool { return f&MAP_FIXED != 0 }

// Anonymous returns true if MAP_ANONYMOUS is set.
func (f MmapFlags) Anonymous() bool { return f&MAP_ANONYMOUS != 0 }

// NoReserve returns true if MAP_NORESERVE is set.
func (f MmapFlags) NoReserve() bool { return f&MAP_NORESERVE != 0 }

// Stack returns true if MAP_STACK is set.
func (f MmapFlags) Stack() bool { return f&MAP_STACK != 0 }

// String implements fmt.Stringer.
func (f MmapFlags) String() string {
	var s []string
	for _, fl := range []struct {
		bit  MmapFlags
		name string
	}{
		{MAP_SHARED, "MAP_SHARED"},
		{MAP_PRIVATE, "MAP_PRIVATE"},
		{MAP_FIXED, "MAP_FIXED"},
		{MAP_ANONYMOUS, "MAP_ANONYMOUS"},
		{MAP_NORESERVE, "MAP_NORESERVE"},
		{MAP_STACK, "MAP_STACK"},
	} {
		if f&fl.bit != 0 {
			s = append(s, fl.name)
		}
	}
	if len(s) == 0 {
		return "0"
	}
	return strings.Join(s, "|")
}
