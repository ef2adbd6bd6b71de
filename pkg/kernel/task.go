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
	"github.com/larchos/larch/pkg/hostarch"
	"github.com/larchos/larch/pkg/kernel/mm"
	"github.com/larchos/larch/pkg/kernel/ramfs"
	"github.com/larchos/larch/pkg/log"
)

// Task is one schedulable entity: an ID, an address space and a descriptor
// table. Trap delivery is serialized per task, so Task does no locking of
// its own beyond the address-space lock handed out by MemoryManager.
type Task struct {
	id   uint64
	mm   *mm.AddressSpace
	fds  *FDTable
	root *ramfs.Filesystem

	// clearChildTID is the address registered by set_tid_address, consumed
	// by task teardown.
	clearChildTID hostarch.Addr

	exited     bool
	exitStatus int32
}

// NewTask returns a task owning the given address space, descriptor table
// and filesystem root.
func NewTask(id uint64, aspace *mm.AddressSpace, fds *FDTable, root *ramfs.Filesystem) *Task {
	return &Task{id: id, mm: aspace, fds: fds, root: root}
}

// Root returns the filesystem paths are resolved against.
func (t *Task) Root() *ramfs.Filesystem {
	return t.root
}

// ID returns the task's numeric identifier.
func (t *Task) ID() uint64 {
	return t.id
}

// MemoryManager returns the task's address space. Callers own the lock
// discipline documented on mm.AddressSpace.
func (t *Task) MemoryManager() *mm.AddressSpace {
	return t.mm
}

// FDTable returns the task's descriptor table.
func (t *Task) FDTable() *FDTable {
	return t.fds
}

// GetFile returns the open file at fd, or nil.
func (t *Task) GetFile(fd int32) File {
	return t.fds.GetFile(fd)
}

// SetClearChildTID records the "clear child TID" address for teardown.
func (t *Task) SetClearChildTID(addr hostarch.Addr) {
	t.clearChildTID = addr
}

// ClearChildTID returns the address recorded by SetClearChildTID.
func (t *Task) ClearChildTID() hostarch.Addr {
	return t.clearChildTID
}

// Exit marks the task exited with the given status. The embedding trap loop
// must stop delivering syscalls to an exited task.
func (t *Task) Exit(status int32) {
	if t.exited {
		return
	}
	t.exited = true
	t.exitStatus = status
	log.Infof("task %d exiting with status %d", t.id, status)
}

// Exited returns whether Exit has been called.
func (t *Task) Exited() bool {
	return t.exited
}

// ExitStatus returns the status passed to Exit.
func (t *Task) ExitStatus() int32 {
	return t.exitStatus
}
