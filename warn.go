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

// warner de-duplicates consecutive identical warnings (§7): "identical
// consecutive messages are counted, not reprinted, until a different
// message or an explicit flush."
type warner struct {
	sink func(msg string, count int)

	last  string
	count int
}

func newWarner(sink func(msg string, count int)) *warner {
	if sink == nil {
		sink = func(string, int) {}
	}
	return &warner{sink: sink}
}

// Warn records msg, coalescing runs of identical messages.
func (w *warner) Warn(msg string) {
	if msg == w.last && w.count > 0 {
		w.count++
		return
	}
	w.Flush()
	w.last = msg
	w.count = 1
}

// Flush emits the pending coalesced warning, if any, and resets the
// de-duplication state.
func (w *warner) Flush() {
	if w.count == 0 {
		return
	}
	w.sink(w.last, w.count)
	w.last = ""
	w.count = 0
}

// Warn records a warning on ctx's de-duplicating warning sink.
func (ctx *Context) Warn(msg string) {
	ctx.warn.Warn(msg)
}

// FlushWarnings forces out any pending coalesced warning.
func (ctx *Context) FlushWarnings() {
	ctx.warn.Flush()
}
