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

package devbbox

import (
	"testing"

	"github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/device"
	"github.com/inkfold/fitz/geom"
	"github.com/inkfold/fitz/path"
)

func TestFillPathAccumulatesBounds(t *testing.T) {
	d := New()
	p := path.New()
	p.RectTo(0, 0, 10, 10)

	d.FillPath(p, false, geom.IdentityMatrix, color.DeviceGray, []float64{0}, 1, device.ColorParams{})
	if d.Bounds != (geom.Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}) {
		t.Fatalf("got %+v", d.Bounds)
	}

	p2 := path.New()
	p2.RectTo(20, 20, 30, 30)
	d.FillPath(p2, false, geom.IdentityMatrix, color.DeviceGray, []float64{0}, 1, device.ColorParams{})
	want := geom.Rect{X0: 0, Y0: 0, X1: 30, Y1: 30}
	if d.Bounds != want {
		t.Fatalf("got %+v want %+v", d.Bounds, want)
	}
}

func TestClipRestrictsSubsequentBounds(t *testing.T) {
	d := New()
	d.ClipPath(nil, false, geom.IdentityMatrix, geom.Rect{X0: 0, Y0: 0, X1: 5, Y1: 5})

	p := path.New()
	p.RectTo(0, 0, 100, 100)
	d.FillPath(p, false, geom.IdentityMatrix, color.DeviceGray, []float64{0}, 1, device.ColorParams{})

	want := geom.Rect{X0: 0, Y0: 0, X1: 5, Y1: 5}
	if d.Bounds != want {
		t.Fatalf("expected clip-restricted bounds %+v, got %+v", want, d.Bounds)
	}
	d.PopClip()
}

func TestSkipSuppressesFillInsideFailedRegion(t *testing.T) {
	d := New()
	d.PushFailed()

	p := path.New()
	p.RectTo(0, 0, 10, 10)
	d.FillPath(p, false, geom.IdentityMatrix, color.DeviceGray, []float64{0}, 1, device.ColorParams{})

	if !d.Bounds.IsEmpty() {
		t.Fatalf("expected no accumulation while skipping, got %+v", d.Bounds)
	}
}
