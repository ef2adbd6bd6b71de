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

// Constants for open(2) and openat(2).
const (
	O_RDONLY  = 0x0
	O_WRONLY  = 0x1
	O_RDWR    = 0x2
	O_ACCMODE = 0x3
	O_CREAT   = 0x40
	O_TRUNC   = 0x200
	O_APPEND  = 0x400
)

// MAX_RW_COUNT is the maximum size of a single read(2), write(2) or
// writev(2) transfer: INT_MAX with the low page bits cleared, from
// include/linux/fs.h. Larger counts are silently truncated.
const MAX_RW_COUNT = (1<<31 - 1) &^ (4096 - 1)

// Constants for openat(2).
const (
	// AT_FDCWD refers to the current working directory. The only dirfd the
	// kernel accepts; all paths are resolved from the filesystem root.
	AT_FDCWD = -100
)

// Constants for lseek(2), from include/uapi/linux/fs.h.
const (
	SEEK_SET = 0
	SEEK_CUR = 1
	SEEK_END = 2
)
