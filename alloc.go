// fitz - a device-abstraction graphics pipeline for page-oriented documents
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package fitz

// Allocator is the trio of allocation callbacks a Context uses for
// byte-buffer sized allocations it wants to be able to account for and
// scavenge against (§4.1). The zero value is not usable; use
// DefaultAllocator for the Go-heap-backed implementation.
type Allocator struct {
	Malloc  func(n int) []byte
	Realloc func(buf []byte, n int) []byte
	Free    func(buf []byte)
	Cookie  any
}

// DefaultAllocator allocates directly from the Go heap.
var DefaultAllocator = Allocator{
	Malloc: func(n int) []byte { return make([]byte, n) },
	Realloc: func(buf []byte, n int) []byte {
		if n <= cap(buf) {
			return buf[:n]
		}
		out := make([]byte, n)
		copy(out, buf)
		return out
	},
	Free: func(buf []byte) {},
}

// allocate performs a Malloc call, retrying once against the store's
// scavenger on failure, per §4.1: "(a) attempt to free memory by evicting
// from the store, (b) retry once, (c) if still failing, surface as an
// error of kind out-of-memory."
//
// The Go heap allocator as used by DefaultAllocator never actually fails
// (it panics instead), so this retry loop only has observable effect for
// a caller-supplied Allocator that can return nil to signal failure.
func (ctx *Context) allocate(n int) ([]byte, error) {
	buf := ctx.alloc.Malloc(n)
	if buf != nil {
		return buf, nil
	}

	phase := 0
	for attempt := 0; attempt < 1; attempt++ {
		var freed bool
		phase, freed = ctx.store.Scavenge(n, phase)
		buf = ctx.alloc.Malloc(n)
		if buf != nil {
			return buf, nil
		}
		if !freed {
			break
		}
	}
	return nil, Errorf(OutOfMemory, "failed to allocate %d bytes", n)
}
