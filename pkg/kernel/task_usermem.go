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
	"github.com/larchos/larch/pkg/errors/linuxerr"
	"github.com/larchos/larch/pkg/hostarch"
)

// Guest memory accessors. Each call acquires the address-space lock for its
// own duration; callers must not already hold it.

// CopyInBytes copies len(b) bytes from guest memory at addr into b.
func (t *Task) CopyInBytes(addr hostarch.Addr, b []byte) error {
	t.mm.Lock()
	defer t.mm.Unlock()
	if err := t.mm.Read(addr, b); err != nil {
		return linuxerr.EFAULT
	}
	return nil
}

// CopyOutBytes copies b into guest memory at addr.
func (t *Task) CopyOutBytes(addr hostarch.Addr, b []byte) error {
	t.mm.Lock()
	defer t.mm.Unlock()
	if err := t.mm.Write(addr, b); err != nil {
		return linuxerr.EFAULT
	}
	return nil
}

// CopyInString copies a NUL-terminated string of at most maxLen bytes from
// guest memory at addr. A missing terminator within maxLen is ENAMETOOLONG;
// an unmapped byte before the terminator is EFAULT.
func (t *Task) CopyInString(addr hostarch.Addr, maxLen int) (string, error) {
	t.mm.Lock()
	defer t.mm.Unlock()
	var buf []byte
	var one [1]byte
	for i := 0; i < maxLen; i++ {
		if err := t.mm.Read(addr+hostarch.Addr(i), one[:]); err != nil {
			return "", linuxerr.EFAULT
		}
		if one[0] == 0 {
			return string(buf), nil
		}
		buf = append(buf, one[0])
	}
	return "", linuxerr.ENAMETOOLONG
}
