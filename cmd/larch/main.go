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

// Binary larch boots a minimal in-process kernel: an early boot
// allocator, a virtual address space, a flat in-memory filesystem and a
// syscall dispatcher, wired together from a TOML machine description.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/larchos/larch/pkg/log"
)

var debug = flag.Bool("debug", false, "enable debug logging.")

// Fatalf logs to stderr and exits. Subcommands use it for unrecoverable
// setup failures.
func Fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "larch: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(new(Boot), "")
	subcommands.Register(new(Version), "")

	flag.Parse()

	if *debug {
		log.SetLevel(log.Debug)
	}

	os.Exit(int(subcommands.Execute(context.Background())))
}
