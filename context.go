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

import (
	"sync"

	"github.com/inkfold/fitz/store"
)

// sharedState is everything a family of cloned contexts holds in common:
// allocator, locks, resource store, and font engine handle. Only the
// error stack and warning buffer are per-context (§4.1).
type sharedState struct {
	alloc Allocator
	locks *Locks
	store *store.Store

	mu       sync.Mutex
	refs     int
	fontLock sync.Mutex // serializes the (not reentrant) font engine; see §9 "FreeType lock"
}

// Context bundles the process-wide state used by every other package in
// this module: an allocator, a lock set, a resource store, an
// antialiasing level, and per-context error/warning state (§4.1).
//
// Invariant: while an operation runs on a Context, no other goroutine may
// use the same Context. Goroutines share work only through cloned
// sibling contexts (Context.Clone).
type Context struct {
	shared *sharedState
	locks  *lockTracker

	alloc Allocator    // convenience alias for shared.alloc, read in alloc.go
	store *store.Store // convenience alias for shared.store

	aaLevel int
	warn    *warner
}

// NewContext creates a new Context. alloc may be nil to use
// DefaultAllocator; locks may be nil for single-threaded use.
// storeMaxBytes bounds the resource store (§4.12); 0 means unbounded.
func NewContext(alloc *Allocator, locks *Locks, storeMaxBytes int64) *Context {
	a := DefaultAllocator
	if alloc != nil {
		a = *alloc
	}
	l := locks
	if l == nil {
		l = newDefaultLocks()
	}

	shared := &sharedState{
		alloc: a,
		locks: l,
		refs:  1,
	}
	shared.store = store.New(storeMaxBytes)

	return &Context{
		shared: shared,
		locks:  newLockTracker(l),
		alloc:  a,
		store:  shared.store,
		warn:   newWarner(nil),
	}
}

// Clone returns a sibling context sharing the allocator, lock set, store,
// and font engine lock, but with fresh per-context error/warning state.
// Clones are the unit of thread-safe concurrent work (§4.1, §5).
func (ctx *Context) Clone() *Context {
	ctx.shared.mu.Lock()
	ctx.shared.refs++
	ctx.shared.mu.Unlock()

	return &Context{
		shared:  ctx.shared,
		locks:   newLockTracker(ctx.shared.locks),
		alloc:   ctx.shared.alloc,
		store:   ctx.shared.store,
		aaLevel: ctx.aaLevel,
		warn:    newWarner(nil),
	}
}

// Close decrements the shared state's reference count, freeing the
// store and allocator bookkeeping when the last sibling closes.
func (ctx *Context) Close() {
	ctx.warn.Flush()

	ctx.shared.mu.Lock()
	ctx.shared.refs--
	last := ctx.shared.refs == 0
	ctx.shared.mu.Unlock()

	if last {
		ctx.shared.store.Clear()
	}
}

// SetAALevel sets the antialiasing level used by the draw device, a
// value in [0, 8]; out-of-range values are clamped silently (§4.1).
func (ctx *Context) SetAALevel(n int) {
	if n < 0 {
		n = 0
	}
	if n > 8 {
		n = 8
	}
	ctx.aaLevel = n
}

// AALevel returns the current antialiasing level.
func (ctx *Context) AALevel() int { return ctx.aaLevel }

// Store returns the context's resource store (§4.12).
func (ctx *Context) Store() *store.Store { return ctx.store }

// WithFontEngineLock serializes access to the (not reentrant) font
// engine, matching the lock order alloc -> font-engine (§9).
func (ctx *Context) WithFontEngineLock(fn func()) {
	ctx.shared.fontLock.Lock()
	defer ctx.shared.fontLock.Unlock()
	fn()
}

// SetWarningSink installs sink as the destination for de-duplicated
// warnings (§7). sink receives the message text and the number of times
// it occurred consecutively before being flushed.
func (ctx *Context) SetWarningSink(sink func(msg string, count int)) {
	ctx.warn.Flush()
	ctx.warn = newWarner(sink)
}
