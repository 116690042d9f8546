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

package shade

import (
	"math"

	"github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/geom"
	"github.com/inkfold/fitz/store"
)

// Type names a shading's geometry family, mirroring the PDF shading
// dictionary's ShadingType entry.
type Type int

const (
	FunctionBased Type = 1 + iota
	Axial
	Radial
	Gouraud
)

// Vertex is one Gouraud mesh corner: a position plus its color, already
// evaluated in Shading's ColorSpace.
type Vertex struct {
	X, Y  float64
	Color []float64
}

// Triangle is one free-form Gouraud triangle (PDF shading type 4/5),
// flattened into three vertices; lattice-form meshes (type 5) are
// triangulated into this same representation at construction time.
type Triangle struct {
	A, B, C Vertex
}

// Shading is a reference-counted shading dictionary (§4.7 fill_shade):
// either a 2-D domain evaluated through Functions (FunctionBased, one
// function per output component or one multi-output function), a 1-D
// Functions evaluated along an axial or radial geometry, or an explicit
// Gouraud-shaded triangle mesh.
type Shading struct {
	rc store.RefCount

	Type       Type
	ColorSpace color.Space
	Background []float64 // nil means "no background, leave unpainted outside domain/extend"
	BBox       geom.Rect  // empty means "no clip"

	// FunctionBased
	Domain []float64 // [x0,x1,y0,y1]
	Matrix geom.Matrix
	Fn     []Function // one multi-output function, or ColorSpace.N() single-output functions

	// Axial/Radial
	Coords []float64 // [x0,y0,x1,y1] (axial) or [x0,y0,r0,x1,y1,r1] (radial)
	Extend [2]bool
	FnT    []float64 // [t0, t1], domain for Fn along the axis

	// Gouraud
	Triangles []Triangle
}

// New returns an empty Shading with one reference.
func New(typ Type, cs color.Space) *Shading {
	s := &Shading{Type: typ, ColorSpace: cs}
	s.rc.Init()
	return s
}

func (s *Shading) Keep()         { s.rc.Keep() }
func (s *Shading) Drop() bool    { return s.rc.Drop() }
func (s *Shading) Refs() int64   { return s.rc.Count() }
func (s *Shading) Size() int     { return 64 + len(s.Triangles)*96 }
func (s *Shading) Bounds() geom.Rect { return s.BBox }

// evalFn evaluates s.Fn at the scalar or vector input t, returning
// ColorSpace.N() components, honoring both the "one multi-output
// function" and "one function per component" PDF conventions.
func (s *Shading) evalFn(in []float64) ([]float64, error) {
	if len(s.Fn) == 1 {
		return s.Fn[0].Eval(in)
	}
	out := make([]float64, len(s.Fn))
	for i, fn := range s.Fn {
		v, err := fn.Eval(in)
		if err != nil {
			return nil, err
		}
		if len(v) > 0 {
			out[i] = v[0]
		}
	}
	return out, nil
}

// Eval returns the shading's color at point (x, y) in shading space, and
// false if the point falls outside the shading's painted region (outside
// Domain with no Background, or outside Coords with Extend false).
func (s *Shading) Eval(x, y float64) ([]float64, bool, error) {
	switch s.Type {
	case FunctionBased:
		return s.evalFunctionBased(x, y)
	case Axial:
		return s.evalAxial(x, y)
	case Radial:
		return s.evalRadial(x, y)
	case Gouraud:
		return s.evalGouraud(x, y)
	default:
		return nil, false, nil
	}
}

func (s *Shading) evalFunctionBased(x, y float64) ([]float64, bool, error) {
	inv := s.Matrix.Inv()
	p := inv.Apply(x, y)
	if len(s.Domain) == 4 {
		if p.X < s.Domain[0] || p.X > s.Domain[1] || p.Y < s.Domain[2] || p.Y > s.Domain[3] {
			if s.Background != nil {
				return s.Background, true, nil
			}
			return nil, false, nil
		}
	}
	c, err := s.evalFn([]float64{p.X, p.Y})
	return c, true, err
}

func (s *Shading) axisParam(x, y float64) (t float64, inRange bool) {
	x0, y0, x1, y1 := s.Coords[0], s.Coords[1], s.Coords[2], s.Coords[3]
	dx, dy := x1-x0, y1-y0
	denom := dx*dx + dy*dy
	if denom == 0 {
		return 0, true
	}
	t = ((x-x0)*dx + (y-y0)*dy) / denom
	if t < 0 {
		if !s.Extend[0] {
			return t, false
		}
		t = 0
	}
	if t > 1 {
		if !s.Extend[1] {
			return t, false
		}
		t = 1
	}
	return t, true
}

func (s *Shading) evalAxial(x, y float64) ([]float64, bool, error) {
	t, ok := s.axisParam(x, y)
	if !ok {
		if s.Background != nil {
			return s.Background, true, nil
		}
		return nil, false, nil
	}
	t0, t1 := 0.0, 1.0
	if len(s.FnT) == 2 {
		t0, t1 = s.FnT[0], s.FnT[1]
	}
	c, err := s.evalFn([]float64{t0 + t*(t1-t0)})
	return c, true, err
}

// evalRadial solves for the largest s in [0,1] (extended per Extend) such
// that (x,y) lies on the circle interpolated between the two Coords
// circles at parameter s, per the PDF radial-shading definition.
func (s *Shading) evalRadial(x, y float64) ([]float64, bool, error) {
	x0, y0, r0 := s.Coords[0], s.Coords[1], s.Coords[2]
	x1, y1, r1 := s.Coords[3], s.Coords[4], s.Coords[5]
	dx, dy, dr := x1-x0, y1-y0, r1-r0

	a := dx*dx + dy*dy - dr*dr
	fx, fy := x-x0, y-y0
	b := 2 * (fx*dx + fy*dy + r0*dr)
	c := fx*fx + fy*fy - r0*r0

	var candidates []float64
	if a == 0 {
		if b != 0 {
			candidates = append(candidates, -c/b)
		}
	} else {
		disc := b*b - 4*a*c
		if disc >= 0 {
			sq := math.Sqrt(disc)
			candidates = append(candidates, (-b+sq)/(2*a), (-b-sq)/(2*a))
		}
	}

	best, found := 0.0, false
	for _, t := range candidates {
		if r0+t*dr < 0 {
			continue
		}
		tc := t
		if tc < 0 {
			if !s.Extend[0] {
				continue
			}
			tc = 0
		}
		if tc > 1 {
			if !s.Extend[1] {
				continue
			}
			tc = 1
		}
		if !found || t > best {
			best, found = t, true
		}
	}
	if !found {
		if s.Background != nil {
			return s.Background, true, nil
		}
		return nil, false, nil
	}
	if best < 0 {
		best = 0
	}
	if best > 1 {
		best = 1
	}
	t0, t1 := 0.0, 1.0
	if len(s.FnT) == 2 {
		t0, t1 = s.FnT[0], s.FnT[1]
	}
	col, err := s.evalFn([]float64{t0 + best*(t1-t0)})
	return col, true, err
}

// evalGouraud finds the first triangle containing (x, y) and returns the
// barycentric-interpolated color.
func (s *Shading) evalGouraud(x, y float64) ([]float64, bool, error) {
	for _, tri := range s.Triangles {
		if u, v, w, ok := barycentric(tri, x, y); ok {
			n := len(tri.A.Color)
			out := make([]float64, n)
			for i := 0; i < n; i++ {
				out[i] = u*comp(tri.A.Color, i) + v*comp(tri.B.Color, i) + w*comp(tri.C.Color, i)
			}
			return out, true, nil
		}
	}
	return nil, false, nil
}

func barycentric(tri Triangle, x, y float64) (u, v, w float64, ok bool) {
	x1, y1 := tri.A.X, tri.A.Y
	x2, y2 := tri.B.X, tri.B.Y
	x3, y3 := tri.C.X, tri.C.Y
	det := (y2-y3)*(x1-x3) + (x3-x2)*(y1-y3)
	if det == 0 {
		return 0, 0, 0, false
	}
	u = ((y2-y3)*(x-x3) + (x3-x2)*(y-y3)) / det
	v = ((y3-y1)*(x-x3) + (x1-x3)*(y-y3)) / det
	w = 1 - u - v
	const eps = 1e-9
	if u < -eps || v < -eps || w < -eps {
		return 0, 0, 0, false
	}
	return u, v, w, true
}
