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

// Package linux contains the constants and types needed to interface with a
// Linux user binary. The values here are the guest ABI: they must match the
// Linux uapi headers for the target architecture bit for bit, and are
// therefore defined locally rather than taken from the host.
package linux

// PATH_MAX is the maximum length of a pathname, including the terminating
// NUL byte.
const PATH_MAX = 4096
