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

package draw

import (
	stdimage "image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/math/f32"
	"golang.org/x/image/vector"

	"github.com/inkfold/fitz/geom"
	"github.com/inkfold/fitz/path"
)

// rasterizerAdapter feeds a ctm-transformed, bbox-relative path.Path
// into a vector.Rasterizer, converting the cubic-only output of
// path.Path.Walk into the Rasterizer's MoveTo/LineTo/CubeTo calls.
type rasterizerAdapter struct {
	z      *vector.Rasterizer
	ctm    geom.Matrix
	origin geom.Point
}

func (a *rasterizerAdapter) vec(x, y float64) f32.Vec2 {
	p := a.ctm.Apply(x, y)
	return f32.Vec2{float32(p.X - a.origin.X), float32(p.Y - a.origin.Y)}
}

func (a *rasterizerAdapter) MoveTo(x, y float64) { a.z.MoveTo(a.vec(x, y)) }
func (a *rasterizerAdapter) LineTo(x, y float64) { a.z.LineTo(a.vec(x, y)) }
func (a *rasterizerAdapter) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	a.z.CubeTo(a.vec(x1, y1), a.vec(x2, y2), a.vec(x3, y3))
}
func (a *rasterizerAdapter) ClosePath() { a.z.ClosePath() }

// fillCoverage rasterizes p (already in user space) under ctm into an
// 8-bit coverage mask sized bbox, using nonzero winding. x/image/vector
// does not distinguish winding rules, so the even-odd fill rule is not
// separately honoured here; nonzero is used uniformly.
func fillCoverage(p *path.Path, ctm geom.Matrix, bbox geom.IRect) *stdimage.Alpha {
	w, h := bbox.Width(), bbox.Height()
	if w <= 0 || h <= 0 {
		return nil
	}
	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Src
	adapter := &rasterizerAdapter{z: z, ctm: ctm, origin: geom.Point{X: float64(bbox.X0), Y: float64(bbox.Y0)}}
	p.Walk(adapter)

	mask := stdimage.NewAlpha(stdimage.Rect(bbox.X0, bbox.Y0, bbox.X1, bbox.Y1))
	// vector.Rasterizer's fast path keys off an *image.Alpha destination
	// whose Rect exactly matches the rasterizer's own size (0,0)-(w,h);
	// Draw's r argument maps into that local space via sp.
	local := stdimage.NewAlpha(stdimage.Rect(0, 0, w, h))
	z.Draw(local, local.Bounds(), stdimage.Opaque, stdimage.Point{})
	copy(mask.Pix, local.Pix)
	return mask
}

// strokeCoverage approximates p's stroked outline as a union of
// segment quads and per-vertex disks, rather than computing a single
// non-self-intersecting stroke polygon: each piece is rasterized and
// composited independently with max-combine, which is exact for
// non-overlapping strokes and only slightly over-estimates coverage in
// the antialiased fringe where pieces overlap (at joins and self-
// intersections).
func strokeCoverage(p *path.Path, stroke *path.StrokeState, ctm geom.Matrix, bbox geom.IRect) *stdimage.Alpha {
	w, h := bbox.Width(), bbox.Height()
	if w <= 0 || h <= 0 {
		return nil
	}
	out := stdimage.NewAlpha(stdimage.Rect(bbox.X0, bbox.Y0, bbox.X1, bbox.Y1))
	halfWidth := stroke.LineWidth / 2 * ctm.Expansion()
	if halfWidth <= 0 {
		halfWidth = 0.35 // a hairline still needs to paint something
	}

	for _, sub := range flattenSubpaths(p, ctm) {
		n := len(sub.pts)
		if n == 0 {
			continue
		}
		if n == 1 {
			if stroke.StartCap == path.CapRound || stroke.EndCap == path.CapRound {
				orMaxDisk(out, sub.pts[0], halfWidth, bbox)
			}
			continue
		}
		for i := 0; i+1 < n; i++ {
			a, b := sub.pts[i], sub.pts[i+1]
			pa, pb := a, b
			if i == 0 && !sub.closed && stroke.StartCap == path.CapSquare {
				pa = extend(b, a, halfWidth)
			}
			if i+2 == n && !sub.closed && stroke.EndCap == path.CapSquare {
				pb = extend(a, b, halfWidth)
			}
			orMaxQuad(out, pa, pb, halfWidth, bbox)
			if i > 0 {
				orMaxDisk(out, a, halfWidth, bbox) // round join approximation
			}
		}
		if sub.closed && n > 1 {
			orMaxDisk(out, sub.pts[0], halfWidth, bbox)
		} else if !sub.closed {
			if stroke.StartCap == path.CapRound {
				orMaxDisk(out, sub.pts[0], halfWidth, bbox)
			}
			if stroke.EndCap == path.CapRound {
				orMaxDisk(out, sub.pts[n-1], halfWidth, bbox)
			}
		}
	}
	return out
}

type flatSubpath struct {
	pts    []geom.Point
	closed bool
}

type flattenCollector struct {
	ctm  geom.Matrix
	subs []flatSubpath
	cur  []geom.Point
}

func (c *flattenCollector) flush(closed bool) {
	if len(c.cur) > 0 {
		c.subs = append(c.subs, flatSubpath{pts: c.cur, closed: closed})
		c.cur = nil
	}
}

func (c *flattenCollector) MoveTo(x, y float64) {
	c.flush(false)
	c.cur = append(c.cur, c.ctm.Apply(x, y))
}
func (c *flattenCollector) LineTo(x, y float64) {
	c.cur = append(c.cur, c.ctm.Apply(x, y))
}
func (c *flattenCollector) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	if len(c.cur) == 0 {
		return
	}
	p0 := c.cur[len(c.cur)-1]
	p1, p2, p3 := c.ctm.Apply(x1, y1), c.ctm.Apply(x2, y2), c.ctm.Apply(x3, y3)
	const segments = 12
	for i := 1; i <= segments; i++ {
		t := float64(i) / segments
		c.cur = append(c.cur, cubicAt(p0, p1, p2, p3, t))
	}
}
func (c *flattenCollector) ClosePath() { c.flush(true) }

func cubicAt(p0, p1, p2, p3 geom.Point, t float64) geom.Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	cc := 3 * mt * t * t
	d := t * t * t
	return geom.Point{
		X: a*p0.X + b*p1.X + cc*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + cc*p2.Y + d*p3.Y,
	}
}

func flattenSubpaths(p *path.Path, ctm geom.Matrix) []flatSubpath {
	c := &flattenCollector{ctm: ctm}
	p.Walk(c)
	c.flush(false)
	return c.subs
}

func extend(from, to geom.Point, amount float64) geom.Point {
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return to
	}
	return geom.Point{X: to.X + dx/length*amount, Y: to.Y + dy/length*amount}
}

// orMaxQuad rasterizes the rectangle of half-width r around segment a-b
// and combines it into out by taking the pixelwise maximum, so repeated
// overlapping pieces of one stroke never exceed full coverage.
func orMaxQuad(out *stdimage.Alpha, a, b geom.Point, r float64, bbox geom.IRect) {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		orMaxDisk(out, a, r, bbox)
		return
	}
	nx, ny := -dy/length*r, dx/length*r
	quad := path.New()
	quad.MoveTo(a.X+nx, a.Y+ny)
	quad.LineTo(b.X+nx, b.Y+ny)
	quad.LineTo(b.X-nx, b.Y-ny)
	quad.LineTo(a.X-nx, a.Y-ny)
	quad.ClosePath()
	orMaxPolygon(out, quad, bbox)
}

func orMaxDisk(out *stdimage.Alpha, center geom.Point, r float64, bbox geom.IRect) {
	const sides = 16
	disk := path.New()
	for i := 0; i < sides; i++ {
		theta := 2 * math.Pi * float64(i) / sides
		x, y := center.X+r*math.Cos(theta), center.Y+r*math.Sin(theta)
		if i == 0 {
			disk.MoveTo(x, y)
		} else {
			disk.LineTo(x, y)
		}
	}
	disk.ClosePath()
	orMaxPolygon(out, disk, bbox)
}

func orMaxPolygon(out *stdimage.Alpha, p *path.Path, bbox geom.IRect) {
	piece := fillCoverage(p, geom.IdentityMatrix, bbox)
	if piece == nil {
		return
	}
	for y := bbox.Y0; y < bbox.Y1; y++ {
		for x := bbox.X0; x < bbox.X1; x++ {
			pv := piece.AlphaAt(x, y).A
			if ov := out.AlphaAt(x, y).A; pv > ov {
				out.Set(x, y, color.Alpha{A: pv})
			}
		}
	}
}
