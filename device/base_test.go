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

import (
	"testing"

	"github.com/inkfold/fitz/geom"
)

func TestPushClipIntersectsWithParent(t *testing.T) {
	var b Base
	b.PushClip(geom.Rect{X0: 0, Y0: 0, X1: 100, Y1: 100})
	b.PushClip(geom.Rect{X0: 50, Y0: 50, X1: 200, Y1: 200})

	got := b.Scissor()
	want := geom.Rect{X0: 50, Y0: 50, X1: 100, Y1: 100}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
	b.Pop()
	if b.Scissor() != (geom.Rect{X0: 0, Y0: 0, X1: 100, Y1: 100}) {
		t.Fatalf("pop did not restore parent scissor: %+v", b.Scissor())
	}
}

func TestPushFailedSkipsUntilMatchingPop(t *testing.T) {
	var b Base
	b.PushClip(geom.Rect{X0: 0, Y0: 0, X1: 10, Y1: 10})
	b.PushFailed()
	if !b.Skip() {
		t.Fatalf("expected Skip() after a failed push")
	}

	// A nested push inside the failed region only deepens error_depth,
	// it must not touch the real scissor stack.
	b.PushClip(geom.Rect{X0: 1, Y0: 1, X1: 2, Y1: 2})
	if !b.Skip() {
		t.Fatalf("expected Skip() still true while nested inside the failure")
	}

	b.Pop() // undoes the nested push
	if !b.Skip() {
		t.Fatalf("expected Skip() true: the outer failed push is still active")
	}

	b.Pop() // undoes PushFailed
	if b.Skip() {
		t.Fatalf("expected Skip() false once the failed region's pop is reached")
	}
	if b.Scissor() != (geom.Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}) {
		t.Fatalf("real scissor stack should be untouched by the failed region: %+v", b.Scissor())
	}
}

func TestSetHintsAndClear(t *testing.T) {
	var b Base
	b.SetHints(IgnoreImages|NoCache, 0)
	if b.Hints()&IgnoreImages == 0 || b.Hints()&NoCache == 0 {
		t.Fatalf("expected both hints set, got %v", b.Hints())
	}
	b.SetHints(0, IgnoreImages)
	if b.Hints()&IgnoreImages != 0 {
		t.Fatalf("expected IgnoreImages cleared, got %v", b.Hints())
	}
	if b.Hints()&NoCache == 0 {
		t.Fatalf("expected NoCache to remain set, got %v", b.Hints())
	}
}
