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

package display

import (
	"testing"

	"github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/devbbox"
	"github.com/inkfold/fitz/device"
	"github.com/inkfold/fitz/geom"
	"github.com/inkfold/fitz/path"
)

func TestRecorderOmitsUnchangedState(t *testing.T) {
	rec := NewRecorder()
	p := path.New()
	p.RectTo(0, 0, 10, 10)

	rec.FillPath(p, false, geom.IdentityMatrix, color.DeviceGray, []float64{0}, 1, device.ColorParams{})
	rec.FillPath(p, false, geom.IdentityMatrix, color.DeviceGray, []float64{0}, 1, device.ColorParams{})

	if len(rec.List.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(rec.List.Nodes))
	}
	second := rec.List.Nodes[1]
	if second.ColorSpace != nil || second.Color != nil || second.Path != nil || second.CTMSet {
		t.Fatalf("expected second identical fill to carry no deltas, got %+v", second)
	}
}

func TestPlayReproducesBounds(t *testing.T) {
	rec := NewRecorder()
	p := path.New()
	p.RectTo(0, 0, 10, 10)
	rec.FillPath(p, false, geom.IdentityMatrix, color.DeviceGray, []float64{0}, 1, device.ColorParams{})

	p2 := path.New()
	p2.RectTo(20, 20, 30, 30)
	rec.FillPath(p2, false, geom.IdentityMatrix, color.DeviceGray, []float64{0}, 1, device.ColorParams{})

	bb := devbbox.New()
	if err := rec.List.Play(bb, geom.InfiniteRect, nil); err != nil {
		t.Fatalf("play: %v", err)
	}
	want := geom.Rect{X0: 0, Y0: 0, X1: 30, Y1: 30}
	if bb.Bounds != want {
		t.Fatalf("got %+v want %+v", bb.Bounds, want)
	}
}

func TestPlayCullsClipSubtreeOutsideArea(t *testing.T) {
	rec := NewRecorder()
	rec.ClipPath(nil, false, geom.IdentityMatrix, geom.Rect{X0: 100, Y0: 100, X1: 110, Y1: 110})
	p := path.New()
	p.RectTo(100, 100, 110, 110)
	rec.FillPath(p, false, geom.IdentityMatrix, color.DeviceGray, []float64{0}, 1, device.ColorParams{})
	rec.PopClip()

	p2 := path.New()
	p2.RectTo(0, 0, 5, 5)
	rec.FillPath(p2, false, geom.IdentityMatrix, color.DeviceGray, []float64{0}, 1, device.ColorParams{})

	bb := devbbox.New()
	area := geom.Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}
	if err := rec.List.Play(bb, area, nil); err != nil {
		t.Fatalf("play: %v", err)
	}
	want := geom.Rect{X0: 0, Y0: 0, X1: 5, Y1: 5}
	if bb.Bounds != want {
		t.Fatalf("expected culled clip subtree to leave only the outer fill, got %+v want %+v", bb.Bounds, want)
	}
}
