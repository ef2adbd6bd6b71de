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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/larchos/larch/pkg/abi/linux"
	"github.com/larchos/larch/pkg/hostarch"
	"github.com/larchos/larch/pkg/kernel"
	"github.com/larchos/larch/pkg/kernel/bootmem"
	"github.com/larchos/larch/pkg/kernel/mm"
	"github.com/larchos/larch/pkg/kernel/ramfs"
	"github.com/larchos/larch/pkg/kernel/syscalls"
	"github.com/larchos/larch/pkg/log"
)

// Boot implements subcommands.Command for the "boot" command.
type Boot struct {
	configPath string
	probe      bool
}

// Name implements subcommands.Command.Name.
func (*Boot) Name() string {
	return "boot"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Boot) Synopsis() string {
	return "bring up a machine from a TOML description"
}

// Usage implements subcommands.Command.Usage.
func (*Boot) Usage() string {
	return `boot -config <file> [-probe] - bring up a machine.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (b *Boot) SetFlags(f *flag.FlagSet) {
	f.StringVar(&b.configPath, "config", "", "path to the machine description.")
	f.BoolVar(&b.probe, "probe", false, "run a memory and syscall self check after boot.")
}

// Execute implements subcommands.Command.Execute.
func (b *Boot) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if b.configPath == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	cfg, err := LoadConfig(b.configPath)
	if err != nil {
		Fatalf("%v", err)
	}
	applyLogLevel(cfg.LogLevel)

	task, alloc, err := buildMachine(cfg)
	if err != nil {
		Fatalf("boot failed: %v", err)
	}
	log.Infof("booted task %d: %d/%d pages free, %d bytes used in the byte zone",
		task.ID(), alloc.AvailablePages(), alloc.TotalPages(), alloc.UsedBytes())

	if b.probe {
		if err := probe(task); err != nil {
			Fatalf("probe failed: %v", err)
		}
		log.Infof("probe passed")
	}

	replayTrace(task, cfg.Trace)

	log.Infof("shutdown: %d/%d pages free, %d bytes mapped",
		alloc.AvailablePages(), alloc.TotalPages(), mappedBytes(task))
	return subcommands.ExitSuccess
}

// replayTrace feeds the configured syscalls through the dispatcher in
// order. Delivery stops once the task exits, like a real trap loop.
func replayTrace(task *kernel.Task, trace []TraceConfig) {
	for i, tr := range trace {
		if task.Exited() {
			log.Infof("trace: task exited with status %d, %d entries undelivered",
				task.ExitStatus(), len(trace)-i)
			return
		}
		sysno, _ := parseAddr(tr.Sysno)
		var args syscalls.SyscallArguments
		for j, arg := range tr.Args {
			v, _ := parseAddr(arg)
			args[j] = syscalls.SyscallArgument{Value: uintptr(v)}
		}
		ret := syscalls.Dispatch(task, uintptr(sysno), args)
		log.Infof("trace[%d]: syscall %d => %d", i, sysno, ret)
	}
}

func mappedBytes(task *kernel.Task) uint64 {
	as := task.MemoryManager()
	as.Lock()
	defer as.Unlock()
	return as.MappedBytes()
}

func applyLogLevel(level string) {
	switch level {
	case "debug":
		log.SetLevel(log.Debug)
	case "warning":
		log.SetLevel(log.Warning)
	case "info":
		log.SetLevel(log.Info)
	}
}

// buildMachine wires the allocator, address space, filesystem and first
// task from the machine description.
func buildMachine(cfg *Config) (*kernel.Task, *bootmem.EarlyAllocator, error) {
	memBase, _ := parseAddr(cfg.Memory.Base)
	memSize, _ := parseSize(cfg.Memory.Size)
	vmBase, _ := parseAddr(cfg.VM.Base)
	vmSize, _ := parseSize(cfg.VM.Size)
	alloc := bootmem.NewEarlyAllocator()
	alloc.Init(uintptr(memBase), uintptr(memSize))
	mem := make([]byte, memSize)
	as := mm.NewAddressSpace(hostarch.Addr(vmBase), vmSize, alloc, mem, uintptr(memBase))

	fsys := ramfs.New()
	for _, fc := range cfg.Files {
		data, err := os.ReadFile(fc.Source)
		if err != nil {
			return nil, nil, err
		}
		fsys.Create(fc.Path, data)
		log.Debugf("preloaded %q (%d bytes) from %s", fc.Path, len(data), fc.Source)
	}

	fds := kernel.NewFDTable()
	fsys.Create("console", nil)
	for fd := int32(0); fd < 3; fd++ {
		console, err := fsys.Open("console", linux.O_RDWR|linux.O_APPEND)
		if err != nil {
			return nil, nil, err
		}
		if err := fds.NewFDAt(fd, console); err != nil {
			return nil, nil, err
		}
	}

	return kernel.NewTask(1, as, fds, fsys), alloc, nil
}

// probe exercises the booted machine: an anonymous mapping, a guest
// memory round trip and a write through the console descriptor.
func probe(task *kernel.Task) error {
	noFD := int64(-1)
	ret := syscalls.Dispatch(task, linux.SYS_MMAP, syscalls.SyscallArguments{
		{Value: 0},
		{Value: hostarch.PageSize},
		{Value: linux.PROT_READ | linux.PROT_WRITE},
		{Value: linux.MAP_PRIVATE | linux.MAP_ANONYMOUS},
		{Value: uintptr(noFD)},
		{Value: 0},
	})
	if ret < 0 {
		return fmt.Errorf("mmap returned %d", ret)
	}
	addr := hostarch.Addr(ret)

	msg := []byte("probe")
	if err := task.CopyOutBytes(addr, msg); err != nil {
		return err
	}
	back := make([]byte, len(msg))
	if err := task.CopyInBytes(addr, back); err != nil {
		return err
	}
	if string(back) != string(msg) {
		return fmt.Errorf("guest memory round trip corrupted: %q", back)
	}

	args := syscalls.SyscallArguments{
		{Value: 1},
		{Value: uintptr(addr)},
		{Value: uintptr(len(msg))},
	}
	if ret := syscalls.Dispatch(task, linux.SYS_WRITE, args); ret != int64(len(msg)) {
		return fmt.Errorf("console write returned %d", ret)
	}
	return nil
}
