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

package linuxerr

import (
	"fmt"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/larchos/larch/pkg/abi/linux/errno"
	"github.com/larchos/larch/pkg/errors"
)

// TestHostParity checks every sentinel against the host's errno numbering.
// The ABI is the Linux generic one, so on a Linux host the numbers must be
// identical.
func TestHostParity(t *testing.T) {
	for _, test := range []struct {
		err  *errors.Error
		host unix.Errno
	}{
		{EPERM, unix.EPERM},
		{ENOENT, unix.ENOENT},
		{ESRCH, unix.ESRCH},
		{EINTR, unix.EINTR},
		{EIO, unix.EIO},
		{ENXIO, unix.ENXIO},
		{E2BIG, unix.E2BIG},
		{ENOEXEC, unix.ENOEXEC},
		{EBADF, unix.EBADF},
		{ECHILD, unix.ECHILD},
		{EAGAIN, unix.EAGAIN},
		{ENOMEM, unix.ENOMEM},
		{EACCES, unix.EACCES},
		{EFAULT, unix.EFAULT},
		{ENOTBLK, unix.ENOTBLK},
		{EBUSY, unix.EBUSY},
		{EEXIST, unix.EEXIST},
		{EXDEV, unix.EXDEV},
		{ENODEV, unix.ENODEV},
		{ENOTDIR, unix.ENOTDIR},
		{EISDIR, unix.EISDIR},
		{EINVAL, unix.EINVAL},
		{ENFILE, unix.ENFILE},
		{EMFILE, unix.EMFILE},
		{ENOTTY, unix.ENOTTY},
		{ETXTBSY, unix.ETXTBSY},
		{EFBIG, unix.EFBIG},
		{ENOSPC, unix.ENOSPC},
		{ESPIPE, unix.ESPIPE},
		{EROFS, unix.EROFS},
		{EMLINK, unix.EMLINK},
		{EPIPE, unix.EPIPE},
		{EDOM, unix.EDOM},
		{ERANGE, unix.ERANGE},
		{EDEADLK, unix.EDEADLK},
		{ENAMETOOLONG, unix.ENAMETOOLONG},
		{ENOLCK, unix.ENOLCK},
		{ENOSYS, unix.ENOSYS},
		{ENOTEMPTY, unix.ENOTEMPTY},
		{ELOOP, unix.ELOOP},
		{ENOMSG, unix.ENOMSG},
		{EIDRM, unix.EIDRM},
		{EWOULDBLOCK, unix.EWOULDBLOCK},
	} {
		t.Run(test.err.Error(), func(t *testing.T) {
			if got, want := uint32(test.err.Errno()), uint32(test.host); got != want {
				t.Errorf("errno mismatch: got %d, want %d", got, want)
			}
		})
	}
}

func TestErrorFromErrno(t *testing.T) {
	for e := errno.Errno(errno.EPERM); e <= errno.EIDRM; e++ {
		if e == errno.Errno(41) {
			// Hole in the generic numbering.
			continue
		}
		err := ErrorFromErrno(e)
		if err == nil {
			t.Fatalf("ErrorFromErrno(%d): nil", e)
		}
		if got := err.Errno(); got != e {
			t.Errorf("ErrorFromErrno(%d).Errno(): got %d", e, got)
		}
	}
}

func TestErrorFromErrnoInvalidPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("ErrorFromErrno on an out-of-range errno did not panic")
		}
	}()
	ErrorFromErrno(errno.Errno(9999))
}

func TestEquals(t *testing.T) {
	for _, test := range []struct {
		name string
		e    *errors.Error
		err  error
		want bool
	}{
		{"same sentinel", EINVAL, EINVAL, true},
		{"different sentinel", EINVAL, ENOMEM, false},
		{"alias", EAGAIN, EWOULDBLOCK, true},
		{"nil against sentinel", EINVAL, nil, false},
		{"both nil", nil, nil, true},
		{"foreign error", EINVAL, fmt.Errorf("invalid argument"), false},
	} {
		t.Run(test.name, func(t *testing.T) {
			if got := Equals(test.e, test.err); got != test.want {
				t.Errorf("Equals: got %t, want %t", got, test.want)
			}
		})
	}
}
