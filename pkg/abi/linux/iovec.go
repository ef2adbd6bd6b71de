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

// SizeOfIovec is the size of a 64-bit struct iovec on the wire.
const SizeOfIovec = 16

// UIO_MAXIOV is the maximum number of struct iovec elements accepted by
// readv/writev style calls.
const UIO_MAXIOV = 1024

// Iovec is a 64-bit struct iovec: a (guest base address, length) pair.
type Iovec struct {
	Base uint64
	Len  uint64
}
