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

// Syscall numbers from the generic syscall table (asm-generic/unistd.h),
// as used on riscv64 and arm64.
const (
	SYS_IOCTL           = 29
	SYS_OPENAT          = 56
	SYS_CLOSE           = 57
	SYS_READ            = 63
	SYS_WRITE           = 64
	SYS_WRITEV          = 66
	SYS_EXIT            = 93
	SYS_EXIT_GROUP      = 94
	SYS_SET_TID_ADDRESS = 96
	SYS_MMAP            = 222
)
