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

// Transform returns a new path with m applied to every coordinate. The
// source's transform_path walked the command stream once to size the
// destination buffers and a second time to fill them; here the
// destination's folding construction methods absorb that sizing pass,
// so Transform walks p exactly once, re-building through the ordinary
// MoveTo/LineTo/CurveTo/ClosePath API (which re-applies the same fold
// rules that built p originally, keeping the invariant that packing and
// transforming commute up to folding).
func (p *Path) Transform(m geom.Matrix) *Path {
	out := New()
	t := &pathTransformer{dst: out, m: m}
	p.Walk(t)
	return out
}

type pathTransformer struct {
	dst *Path
	m   geom.Matrix
}

func (t *pathTransformer) MoveTo(x, y float64) {
	q := t.m.Apply(x, y)
	t.dst.MoveTo(q.X, q.Y)
}

func (t *pathTransformer) LineTo(x, y float64) {
	q := t.m.Apply(x, y)
	t.dst.LineTo(q.X, q.Y)
}

func (t *pathTransformer) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	q1 := t.m.Apply(x1, y1)
	q2 := t.m.Apply(x2, y2)
	q3 := t.m.Apply(x3, y3)
	t.dst.CurveTo(q1.X, q1.Y, q2.X, q2.Y, q3.X, q3.Y)
}

func (t *pathTransformer) ClosePath() {
	t.dst.ClosePath()
}
