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

import "sync/atomic"

// Cookie is a shared progress/abort channel between a caller and the
// rendering core (§4.11). The core polls Aborted at scanline boundaries,
// at each node during display list replay, and at the top of each
// text-run processing step. All fields are safe for concurrent use:
// Abort is write-once 0→1 by the caller, everything else is written by
// the core and read by the caller.
type Cookie struct {
	abort atomic.Bool

	progress    atomic.Int64
	progressMax atomic.Int64
	errors      atomic.Int64

	// IncompleteOK, when true, tells the core to swallow TryLater errors
	// and set Incomplete instead of propagating them (for progressive
	// rendering of partially-loaded documents).
	IncompleteOK bool
	incomplete   atomic.Bool
}

// Abort sets the abort flag. It is monotonic: once set it cannot be
// cleared on the same Cookie.
func (c *Cookie) Abort() { c.abort.Store(true) }

// Aborted reports whether Abort has been called.
func (c *Cookie) Aborted() bool {
	if c == nil {
		return false
	}
	return c.abort.Load()
}

// SetProgress records how far rendering has advanced, satisfying the
// invariant progress <= progress_max at all times (§8.6): callers should
// set ProgressMax before advancing Progress past it.
func (c *Cookie) SetProgress(n int64) {
	if c == nil {
		return
	}
	c.progress.Store(n)
}

// AddProgress advances the progress counter by delta.
func (c *Cookie) AddProgress(delta int64) {
	if c == nil {
		return
	}
	c.progress.Add(delta)
}

// Progress returns the current progress counter.
func (c *Cookie) Progress() int64 {
	if c == nil {
		return 0
	}
	return c.progress.Load()
}

// SetProgressMax records the expected total, so callers can render a
// progress bar.
func (c *Cookie) SetProgressMax(n int64) {
	if c == nil {
		return
	}
	c.progressMax.Store(n)
}

// ProgressMax returns the expected total set by SetProgressMax, or 0 if
// it is not known.
func (c *Cookie) ProgressMax() int64 {
	if c == nil {
		return 0
	}
	return c.progressMax.Load()
}

// RecordError increments the count of errors the core recovered from
// while honouring this cookie. Abort itself never counts as an error
// (§8.6): the renderer must not call RecordError on the path that
// unwinds because of Aborted.
func (c *Cookie) RecordError() {
	if c == nil {
		return
	}
	c.errors.Add(1)
}

// Errors returns the number of recovered errors.
func (c *Cookie) Errors() int64 {
	if c == nil {
		return 0
	}
	return c.errors.Load()
}

// SetIncomplete records that a TryLater error was swallowed because
// IncompleteOK is set.
func (c *Cookie) SetIncomplete() {
	if c == nil {
		return
	}
	c.incomplete.Store(true)
}

// Incomplete reports whether SetIncomplete has been called.
func (c *Cookie) Incomplete() bool {
	if c == nil {
		return false
	}
	return c.incomplete.Load()
}

// CheckAbort returns an *Error of Kind Abort if the cookie has been
// aborted, and nil otherwise. It is the core's standard way to turn a
// polled cookie into a propagated error at scanline boundaries, display
// list nodes, and text-run steps.
func (c *Cookie) CheckAbort() error {
	if c.Aborted() {
		return &Error{Kind: Abort, Msg: "cookie aborted"}
	}
	return nil
}
