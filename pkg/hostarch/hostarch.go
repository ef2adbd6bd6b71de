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

// Package hostarch defines properties of the guest architecture relevant to
// memory management: page geometry, virtual address arithmetic and access
// types.
package hostarch

const (
	// PageShift is the binary log of the guest page size.
	// 4K pages: 2^12 = 4096
	PageShift = 12

	// PageSize is the guest page size.
	PageSize = 1 << PageShift

	// PageMask selects the offset-within-page bits of an address.
	PageMask = PageSize - 1
)
