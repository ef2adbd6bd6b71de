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

// Package syscalls implements the syscall dispatch table and handlers for
// the generic (riscv64/arm64) Linux syscall ABI.
package syscalls

import (
	"github.com/larchos/larch/pkg/abi/linux"
	"github.com/larchos/larch/pkg/abi/linux/errno"
	"github.com/larchos/larch/pkg/errors"
	"github.com/larchos/larch/pkg/errors/linuxerr"
	"github.com/larchos/larch/pkg/kernel"
	"github.com/larchos/larch/pkg/log"
)

// SyscallFn is a syscall handler: a fallible computation producing the
// non-negative success payload.
type SyscallFn func(t *kernel.Task, args SyscallArguments) (uintptr, error)

// Syscall is one table entry.
type Syscall struct {
	Name string
	Fn   SyscallFn
}

// Table maps syscall numbers from the generic Linux table to handlers. Any
// number outside the table returns -ENOSYS.
var Table = map[uintptr]Syscall{
	linux.SYS_IOCTL:           {"ioctl", Ioctl},
	linux.SYS_OPENAT:          {"openat", Openat},
	linux.SYS_CLOSE:           {"close", Close},
	linux.SYS_READ:            {"read", Read},
	linux.SYS_WRITE:           {"write", Write},
	linux.SYS_WRITEV:          {"writev", Writev},
	linux.SYS_EXIT:            {"exit", Exit},
	linux.SYS_EXIT_GROUP:      {"exit_group", ExitGroup},
	linux.SYS_SET_TID_ADDRESS: {"set_tid_address", SetTidAddress},
	linux.SYS_MMAP:            {"mmap", Mmap},
}

// Dispatch routes one decoded trap to its handler and encodes the result
// for the caller's return register: the success payload as-is, or the
// negated errno.
func Dispatch(t *kernel.Task, sysno uintptr, args SyscallArguments) int64 {
	sc, ok := Table[sysno]
	if !ok {
		log.Warningf("unimplemented syscall: %d", sysno)
		return -int64(errno.ENOSYS)
	}
	log.Debugf("handle_syscall [%d] %s", sysno, sc.Name)
	val, err := sc.Fn(t, args)
	return encode(sc.Name, val, err)
}

// encode implements the uniform fallible-to-ABI-integer convention shared
// by every handler. Successes and EAGAIN log at debug level, other
// failures at info, mirroring their significance; logging never changes
// the return value.
func encode(name string, val uintptr, err error) int64 {
	if err == nil {
		log.Debugf("%s => %#x", name, val)
		return int64(val)
	}
	e, ok := err.(*errors.Error)
	if !ok {
		// A handler let an unclassified error reach the boundary. The
		// error set is supposed to be closed; refuse to invent a number
		// for it.
		log.Warningf("%s => unclassified error: %v", name, err)
		e = linuxerr.EINVAL
	}
	if e == linuxerr.EAGAIN {
		log.Debugf("%s => %v", name, e)
	} else {
		log.Infof("%s => %v", name, e)
	}
	return -int64(e.Errno())
}
