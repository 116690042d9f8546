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

// Package geom implements the affine geometry (§4.2) that flows through
// every stage of the pipeline: matrices, points, and axis-aligned
// rectangles with infinite/empty sentinels.
package geom

import "math"

// Matrix is a row-major 3x3 affine transform with an implicit last row
// [0 0 1], stored as six scalars:
//
//	[ A B 0 ]
//	[ C D 0 ]
//	[ E F 1 ]
//
// so that a point (x, y) maps to (A*x + C*y + E, B*x + D*y + F).
type Matrix struct {
	A, B, C, D, E, F float64
}

// IdentityMatrix is the matrix that maps every point to itself.
var IdentityMatrix = Matrix{A: 1, D: 1}

// Mul returns l.Mul(r) = l·r under the convention that applying the
// result to a point is the same as applying l first, then r:
// p.Apply(l.Mul(r)) == p.Apply(l).Apply(r).
func (l Matrix) Mul(r Matrix) Matrix {
	return Matrix{
		A: l.A*r.A + l.B*r.C,
		B: l.A*r.B + l.B*r.D,
		C: l.C*r.A + l.D*r.C,
		D: l.C*r.B + l.D*r.D,
		E: l.E*r.A + l.F*r.C + r.E,
		F: l.E*r.B + l.F*r.D + r.F,
	}
}

// Inv returns the inverse of m. If m is singular (determinant exactly 0) Inv
// returns m unchanged, signalling an ill-conditioned matrix to the
// caller (§4.2).
func (m Matrix) Inv() Matrix {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return m
	}
	invDet := 1 / det
	a := m.D * invDet
	b := -m.B * invDet
	c := -m.C * invDet
	d := m.A * invDet
	e := -(m.E*a + m.F*c)
	f := -(m.E*b + m.F*d)
	return Matrix{A: a, B: b, C: c, D: d, E: e, F: f}
}

// Translate returns a matrix that translates by (dx, dy).
func Translate(dx, dy float64) Matrix {
	return Matrix{A: 1, D: 1, E: dx, F: dy}
}

// Scale returns a matrix that scales by (sx, sy) about the origin.
func Scale(sx, sy float64) Matrix {
	return Matrix{A: sx, D: sy}
}

// Rotate returns a matrix that rotates by angle radians about the
// origin (counter-clockwise, in a conventional y-up coordinate system).
func Rotate(angle float64) Matrix {
	s, c := math.Sincos(angle)
	return Matrix{A: c, B: s, C: -s, D: c}
}

// Shear returns a matrix that shears by (sx, sy).
func Shear(sx, sy float64) Matrix {
	return Matrix{A: 1, B: sy, C: sx, D: 1}
}

// PreTranslate returns Translate(dx, dy).Mul(m): translate first, then
// apply m.
func (m Matrix) PreTranslate(dx, dy float64) Matrix {
	return Translate(dx, dy).Mul(m)
}

// PreScale returns Scale(sx, sy).Mul(m).
func (m Matrix) PreScale(sx, sy float64) Matrix {
	return Scale(sx, sy).Mul(m)
}

// PreRotate returns Rotate(angle).Mul(m).
func (m Matrix) PreRotate(angle float64) Matrix {
	return Rotate(angle).Mul(m)
}

// PreShear returns Shear(sx, sy).Mul(m).
func (m Matrix) PreShear(sx, sy float64) Matrix {
	return Shear(sx, sy).Mul(m)
}

// Apply transforms the point (x, y) by m.
func (m Matrix) Apply(x, y float64) Point {
	return Point{X: m.A*x + m.C*y + m.E, Y: m.B*x + m.D*y + m.F}
}

// ApplyVector transforms the vector (x, y) by m's linear part only,
// ignoring translation. Used for advance vectors and normals.
func (m Matrix) ApplyVector(x, y float64) Point {
	return Point{X: m.A*x + m.C*y, Y: m.B*x + m.D*y}
}

// Expansion returns sqrt(|ad-bc|), the average linear scale factor of m,
// used to pick the antialiasing kernel width and image subsample factor
// (§4.2).
func (m Matrix) Expansion() float64 {
	return math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
}

// IsRectilinear reports whether m maps axis-aligned rectangles to
// axis-aligned rectangles: true iff (b~=0 and c~=0) or (a~=0 and d~=0).
func (m Matrix) IsRectilinear() bool {
	const eps = 1e-9
	return (nearZero(m.B, eps) && nearZero(m.C, eps)) ||
		(nearZero(m.A, eps) && nearZero(m.D, eps))
}

func nearZero(v, eps float64) bool {
	return v > -eps && v < eps
}
