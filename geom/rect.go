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

import "math"

// Point is a location in some coordinate space.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle given by two opposite corners. A
// rect is empty iff X0==X1 or Y0==Y1, and infinite iff X0>X1 or Y0>Y1;
// these sentinels short-circuit Intersect/Union/Transform (§3).
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// EmptyRect is the canonical empty rectangle.
var EmptyRect = Rect{}

// InfiniteRect is the canonical infinite rectangle: every real point is
// "outside" the usual corner ordering, which is exactly how it signals
// "unbounded" to IsInfinite.
var InfiniteRect = Rect{X0: 1, Y0: 1, X1: -1, Y1: -1}

// IsEmpty reports whether r is empty.
func (r Rect) IsEmpty() bool { return r.X0 == r.X1 || r.Y0 == r.Y1 }

// IsInfinite reports whether r is the infinite sentinel.
func (r Rect) IsInfinite() bool { return r.X0 > r.X1 || r.Y0 > r.Y1 }

// Width returns X1-X0.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns Y1-Y0.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Union returns the smallest rect containing both r and s, preserving
// the empty/infinite sentinels: an infinite operand makes the union
// infinite, and an empty operand is absorbed without effect.
func (r Rect) Union(s Rect) Rect {
	if r.IsInfinite() || s.IsInfinite() {
		return InfiniteRect
	}
	if r.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return r
	}
	return Rect{
		X0: math.Min(r.X0, s.X0),
		Y0: math.Min(r.Y0, s.Y0),
		X1: math.Max(r.X1, s.X1),
		Y1: math.Max(r.Y1, s.Y1),
	}
}

// Intersect returns the largest rect contained in both r and s. An
// infinite operand is the identity for Intersect; two disjoint rects
// intersect to EmptyRect.
func (r Rect) Intersect(s Rect) Rect {
	if r.IsInfinite() {
		return s
	}
	if s.IsInfinite() {
		return r
	}
	x0 := math.Max(r.X0, s.X0)
	y0 := math.Max(r.Y0, s.Y0)
	x1 := math.Min(r.X1, s.X1)
	y1 := math.Min(r.Y1, s.Y1)
	if x0 >= x1 || y0 >= y1 {
		return EmptyRect
	}
	return Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Transform maps r through m by transforming its four corners and
// taking the axis-aligned bounding box. Empty and infinite rects are
// preserved unchanged (§4.2).
func (r Rect) Transform(m Matrix) Rect {
	if r.IsEmpty() || r.IsInfinite() {
		return r
	}
	p0 := m.Apply(r.X0, r.Y0)
	p1 := m.Apply(r.X1, r.Y0)
	p2 := m.Apply(r.X1, r.Y1)
	p3 := m.Apply(r.X0, r.Y1)
	x0 := math.Min(math.Min(p0.X, p1.X), math.Min(p2.X, p3.X))
	y0 := math.Min(math.Min(p0.Y, p1.Y), math.Min(p2.Y, p3.Y))
	x1 := math.Max(math.Max(p0.X, p1.X), math.Max(p2.X, p3.X))
	y1 := math.Max(math.Max(p0.Y, p1.Y), math.Max(p2.Y, p3.Y))
	return Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Contains reports whether p lies within r (inclusive of the boundary).
func (r Rect) Contains(p Point) bool {
	if r.IsEmpty() {
		return false
	}
	if r.IsInfinite() {
		return true
	}
	return p.X >= r.X0 && p.X <= r.X1 && p.Y >= r.Y0 && p.Y <= r.Y1
}

// IRect is the integer-pixel analogue of Rect, used for pixmap bounds.
type IRect struct {
	X0, Y0, X1, Y1 int
}

// IsEmpty reports whether r is empty.
func (r IRect) IsEmpty() bool { return r.X0 >= r.X1 || r.Y0 >= r.Y1 }

// Width returns X1-X0, or 0 if r is empty.
func (r IRect) Width() int {
	if r.IsEmpty() {
		return 0
	}
	return r.X1 - r.X0
}

// Height returns Y1-Y0, or 0 if r is empty.
func (r IRect) Height() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Y1 - r.Y0
}

// Round returns the smallest IRect containing r (floor of the lower
// corner, ceiling of the upper corner).
func (r Rect) Round() IRect {
	if r.IsEmpty() {
		return IRect{}
	}
	if r.IsInfinite() {
		return IRect{X0: math.MinInt32 / 2, Y0: math.MinInt32 / 2, X1: math.MaxInt32 / 2, Y1: math.MaxInt32 / 2}
	}
	return IRect{
		X0: int(math.Floor(r.X0)),
		Y0: int(math.Floor(r.Y0)),
		X1: int(math.Ceil(r.X1)),
		Y1: int(math.Ceil(r.Y1)),
	}
}

// Rect widens an IRect back into a floating-point Rect.
func (r IRect) Rect() Rect {
	return Rect{X0: float64(r.X0), Y0: float64(r.Y0), X1: float64(r.X1), Y1: float64(r.Y1)}
}

// Intersect returns the largest IRect contained in both r and s.
func (r IRect) Intersect(s IRect) IRect {
	x0 := max(r.X0, s.X0)
	y0 := max(r.Y0, s.Y0)
	x1 := min(r.X1, s.X1)
	y1 := min(r.Y1, s.Y1)
	if x0 >= x1 || y0 >= y1 {
		return IRect{}
	}
	return IRect{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Union returns the smallest IRect containing both r and s.
func (r IRect) Union(s IRect) IRect {
	if r.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return r
	}
	return IRect{
		X0: min(r.X0, s.X0),
		Y0: min(r.Y0, s.Y0),
		X1: max(r.X1, s.X1),
		Y1: max(r.Y1, s.Y1),
	}
}
