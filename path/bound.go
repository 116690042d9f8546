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

package path

import "github.com/inkfold/fitz/geom"

// boundWalker accumulates a bounding box over every control point it
// sees. Curves are bounded by their (generally loose, but always
// conservative) control polygon rather than by solving for extrema,
// matching the source's cheap bound_path approach.
type boundWalker struct {
	x0, y0, x1, y1 float64
	has            bool
}

func (b *boundWalker) addPoint(x, y float64) {
	if !b.has {
		b.x0, b.y0, b.x1, b.y1 = x, y, x, y
		b.has = true
		return
	}
	if x < b.x0 {
		b.x0 = x
	}
	if y < b.y0 {
		b.y0 = y
	}
	if x > b.x1 {
		b.x1 = x
	}
	if y > b.y1 {
		b.y1 = y
	}
}

func (b *boundWalker) MoveTo(x, y float64) { b.addPoint(x, y) }
func (b *boundWalker) LineTo(x, y float64) { b.addPoint(x, y) }
func (b *boundWalker) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	b.addPoint(x1, y1)
	b.addPoint(x2, y2)
	b.addPoint(x3, y3)
}
func (b *boundWalker) ClosePath() {}

func (b *boundWalker) rect() geom.Rect {
	if !b.has {
		return geom.EmptyRect
	}
	return geom.Rect{X0: b.x0, Y0: b.y0, X1: b.x1, Y1: b.y1}
}

// Bound computes the path's bounding box under ctm, widened by stroke's
// expansion if stroke is non-nil (§4.4). A trailing MoveTo with no
// following draw still contributes its point: mupdf's bounder includes
// it (it is a valid, visible cursor position per PDF), so a lone
// isolated moveto bounds to a degenerate point rather than an empty
// rect.
func (p *Path) Bound(stroke *StrokeState, ctm geom.Matrix) geom.Rect {
	var b boundWalker
	p.Walk(&boundTransformVisitor{m: ctm, b: &b})

	r := b.rect()
	if !b.has || stroke == nil {
		return r
	}

	expansion := ctm.Expansion()
	amount := stroke.LineWidth / 2 * expansion
	if stroke.Join == JoinMiter && stroke.MiterLimit > 1 {
		amount *= stroke.MiterLimit
	}
	return geom.Rect{
		X0: r.X0 - amount,
		Y0: r.Y0 - amount,
		X1: r.X1 + amount,
		Y1: r.Y1 + amount,
	}
}

// boundTransformVisitor applies m to every control point Walk reports
// before folding it into the running bound, so Bound needs only one
// pass over the path regardless of ctm.
type boundTransformVisitor struct {
	m geom.Matrix
	b *boundWalker
}

func (v *boundTransformVisitor) MoveTo(x, y float64) {
	q := v.m.Apply(x, y)
	v.b.addPoint(q.X, q.Y)
}

func (v *boundTransformVisitor) LineTo(x, y float64) {
	q := v.m.Apply(x, y)
	v.b.addPoint(q.X, q.Y)
}

func (v *boundTransformVisitor) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	q1 := v.m.Apply(x1, y1)
	q2 := v.m.Apply(x2, y2)
	q3 := v.m.Apply(x3, y3)
	v.b.addPoint(q1.X, q1.Y)
	v.b.addPoint(q2.X, q2.Y)
	v.b.addPoint(q3.X, q3.Y)
}

func (v *boundTransformVisitor) ClosePath() {}
