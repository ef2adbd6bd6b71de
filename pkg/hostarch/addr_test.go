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

package hostarch

import "testing"

func TestRoundUp(t *testing.T) {
	for _, test := range []struct {
		addr Addr
		want Addr
		ok   bool
	}{
		{0, 0, true},
		{1, PageSize, true},
		{PageSize - 1, PageSize, true},
		{PageSize, PageSize, true},
		{PageSize + 1, 2 * PageSize, true},
		{^Addr(0), 0, false},
		{^Addr(0) - PageMask + 1, 0, false},
	} {
		got, ok := test.addr.RoundUp()
		if got != test.want || ok != test.ok {
			t.Errorf("RoundUp(%#x): got (%#x, %t), want (%#x, %t)", test.addr, got, ok, test.want, test.ok)
		}
	}
}

func TestAddLengthOverflow(t *testing.T) {
	if _, ok := Addr(^uintptr(0)).AddLength(1); ok {
		t.Error("AddLength at the top of the address space did not report overflow")
	}
	if end, ok := Addr(0x1000).AddLength(0x2000); !ok || end != 0x3000 {
		t.Errorf("AddLength: got (%#x, %t), want (0x3000, true)", end, ok)
	}
}

func TestAddrRange(t *testing.T) {
	ar := AddrRange{Start: 0x1000, End: 0x3000}
	if !ar.WellFormed() {
		t.Error("WellFormed: got false")
	}
	if got := ar.Length(); got != 0x2000 {
		t.Errorf("Length: got %#x, want 0x2000", got)
	}
	for addr, want := range map[Addr]bool{
		0xFFF:  false,
		0x1000: true,
		0x2FFF: true,
		0x3000: false,
	} {
		if got := ar.Contains(addr); got != want {
			t.Errorf("Contains(%#x): got %t, want %t", addr, got, want)
		}
	}
	for other, want := range map[AddrRange]bool{
		{0x0, 0x1000}:    false,
		{0x0, 0x1001}:    true,
		{0x2000, 0x4000}: true,
		{0x3000, 0x4000}: false,
	} {
		if got := ar.Overlaps(other); got != want {
			t.Errorf("Overlaps(%v): got %t, want %t", other, got, want)
		}
	}
}

func TestAccessTypeString(t *testing.T) {
	for _, test := range []struct {
		a    AccessType
		want string
	}{
		{NoAccess, "----"},
		{UserRead, "r--u"},
		{UserReadWrite, "rw-u"},
		{AccessType{Read: true, Write: true, Execute: true, User: true}, "rwxu"},
	} {
		if got := test.a.String(); got != test.want {
			t.Errorf("%+v.String(): got %q, want %q", test.a, got, test.want)
		}
	}
}
