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
	"github.com/larchos/larch/pkg/kernel"
	"github.com/larchos/larch/pkg/log"
)

// Exit implements exit(2). The task is marked exited; the trap loop stops
// delivering syscalls to it.
func Exit(t *kernel.Task, args SyscallArguments) (uintptr, error) {
	status := args[0].Int()
	log.Infof("exit: task %d terminating with status %d", t.ID(), status)
	t.Exit(status)
	return 0, nil
}

// ExitGroup implements exit_group(2). With single-threaded tasks it is
// identical to Exit.
func ExitGroup(t *kernel.Task, args SyscallArguments) (uintptr, error) {
	status := args[0].Int()
	log.Infof("exit_group: task %d terminating with status %d", t.ID(), status)
	t.Exit(status)
	return 0, nil
}

// SetTidAddress implements set_tid_address(2): records the clear-child-TID
// pointer for task teardown and returns the caller's TID.
func SetTidAddress(t *kernel.Task, args SyscallArguments) (uintptr, error) {
	t.SetClearChildTID(args[0].Pointer())
	return uintptr(t.ID()), nil
}
