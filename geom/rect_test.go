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

package geom

import "testing"

func TestRectEmptyInfinite(t *testing.T) {
	if !EmptyRect.IsEmpty() {
		t.Error("EmptyRect should be empty")
	}
	if !InfiniteRect.IsInfinite() {
		t.Error("InfiniteRect should be infinite")
	}
	if EmptyRect.IsInfinite() {
		t.Error("EmptyRect should not be infinite")
	}
}

func TestRectUnionAbsorbsEmpty(t *testing.T) {
	r := Rect{X0: 1, Y0: 1, X1: 2, Y1: 2}
	if got := r.Union(EmptyRect); got != r {
		t.Errorf("Union with empty should be identity, got %+v", got)
	}
}

func TestRectUnionInfects(t *testing.T) {
	r := Rect{X0: 1, Y0: 1, X1: 2, Y1: 2}
	if got := r.Union(InfiniteRect); !got.IsInfinite() {
		t.Errorf("Union with infinite should be infinite, got %+v", got)
	}
}

func TestRectIntersectDisjoint(t *testing.T) {
	a := Rect{X0: 0, Y0: 0, X1: 1, Y1: 1}
	b := Rect{X0: 5, Y0: 5, X1: 6, Y1: 6}
	if got := a.Intersect(b); !got.IsEmpty() {
		t.Errorf("disjoint rects should intersect to empty, got %+v", got)
	}
}

// TestTransformRoundTrip checks that, for a rectilinear matrix,
// Rect.Transform equals the bbox of the rect's two opposite corners
// mapped through the same matrix.
func TestTransformRoundTrip(t *testing.T) {
	r := Rect{X0: 0, Y0: 0, X1: 10, Y1: 20}
	m := Translate(3, 4).Mul(Scale(2, 0.5))

	got := r.Transform(m)

	p0 := m.Apply(r.X0, r.Y0)
	p1 := m.Apply(r.X1, r.Y1)
	want := Rect{
		X0: min64(p0.X, p1.X), Y0: min64(p0.Y, p1.Y),
		X1: max64(p0.X, p1.X), Y1: max64(p0.Y, p1.Y),
	}
	if got != want {
		t.Errorf("Transform() = %+v, want %+v", got, want)
	}
}

func TestTransformPreservesSentinels(t *testing.T) {
	m := Rotate(1.2)
	if got := EmptyRect.Transform(m); !got.IsEmpty() {
		t.Errorf("transforming EmptyRect should stay empty, got %+v", got)
	}
	if got := InfiniteRect.Transform(m); !got.IsInfinite() {
		t.Errorf("transforming InfiniteRect should stay infinite, got %+v", got)
	}
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
