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

package device

import "github.com/inkfold/fitz/geom"

// Base is the embeddable scissor-stack and error-depth tracker every
// Device implementation composes (§4.7, §9 "device.c's error-depth
// stack"). A concrete device embeds Base, calls PushClip/PushFailed at
// the top of every pushing method (ClipPath, ClipStrokePath, ClipText,
// ClipStrokeText, ClipImageMask, BeginMask, BeginGroup, BeginTile,
// BeginLayer) and Pop at the matching pop (PopClip, EndMask, EndGroup,
// EndTile, EndLayer), and checks Skip() at the top of every non-pushing
// method (FillPath, StrokePath, FillText, ..., FillShade, FillImage,
// FillImageMask) to silently drop calls nested inside a failed region.
type Base struct {
	scissors   []geom.Rect
	errorDepth int
	hints      Hints
}

// Skip reports whether the caller is nested inside a region whose push
// failed; non-pushing drawing ops should do nothing when this is true.
func (b *Base) Skip() bool { return b.errorDepth > 0 }

// PushClip records a new clip scissor, intersected with the current top
// of stack (or the infinite rect, if the stack is empty). Call this once
// the pushing operation has succeeded.
func (b *Base) PushClip(rect geom.Rect) {
	if b.errorDepth > 0 {
		b.errorDepth++
		return
	}
	top := geom.InfiniteRect
	if n := len(b.scissors); n > 0 {
		top = b.scissors[n-1]
	}
	b.scissors = append(b.scissors, top.Intersect(rect))
}

// PushFailed marks the region about to be entered as failed: Skip
// reports true, and nested pushes increment the same error depth rather
// than growing the real scissor stack, until the matching Pop.
func (b *Base) PushFailed() {
	if b.errorDepth == 0 {
		b.errorDepth = 1
		return
	}
	b.errorDepth++
}

// Pop undoes the most recent PushClip or PushFailed.
func (b *Base) Pop() {
	if b.errorDepth > 0 {
		b.errorDepth--
		return
	}
	if n := len(b.scissors); n > 0 {
		b.scissors = b.scissors[:n-1]
	}
}

// Scissor returns the current clip scissor (geom.InfiniteRect if no clip
// is active).
func (b *Base) Scissor() geom.Rect {
	if n := len(b.scissors); n > 0 {
		return b.scissors[n-1]
	}
	return geom.InfiniteRect
}

// Depth reports the current scissor-stack depth, for tests and for
// back-ends (like the display list) that need to emit matching pops even
// when nodes were culled during replay.
func (b *Base) Depth() int { return len(b.scissors) + b.errorDepth }

// SetHints enables (set) and disables (clear) device hint bits.
func (b *Base) SetHints(set, clear Hints) {
	b.hints |= set
	b.hints &^= clear
}

// Hints returns the currently enabled hint bits.
func (b *Base) Hints() Hints { return b.hints }
