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

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/inkfold/fitz/geom"
)

// recordingWalker captures the canonical primitive sequence a Walk call
// produces, so construction-folding equivalence can be checked by deep
// comparison rather than by poking at internal command buffers.
type recordingWalker struct {
	ops []opRecord
}

type opRecord struct {
	kind string
	x1, y1, x2, y2, x3, y3 float64
}

func (r *recordingWalker) MoveTo(x, y float64) {
	r.ops = append(r.ops, opRecord{kind: "move", x1: x, y1: y})
}
func (r *recordingWalker) LineTo(x, y float64) {
	r.ops = append(r.ops, opRecord{kind: "line", x1: x, y1: y})
}
func (r *recordingWalker) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	r.ops = append(r.ops, opRecord{kind: "curve", x1: x1, y1: y1, x2: x2, y2: y2, x3: x3, y3: y3})
}
func (r *recordingWalker) ClosePath() {
	r.ops = append(r.ops, opRecord{kind: "close"})
}

func walkToRecord(p *Path) []opRecord {
	var rw recordingWalker
	p.Walk(&rw)
	return rw.ops
}

// TestConstructionCanonical checks spec property 2: moveto;lineto and
// moveto;moveto;lineto walk identically, since a moveto immediately
// following another moveto with no intervening draw replaces it.
func TestConstructionCanonical(t *testing.T) {
	a := New()
	a.MoveTo(0, 0)
	a.LineTo(5, 5)

	b := New()
	b.MoveTo(1, 1) // discarded by the following MoveTo
	b.MoveTo(0, 0)
	b.LineTo(5, 5)

	if diff := cmp.Diff(walkToRecord(a), walkToRecord(b), cmp.AllowUnexported(opRecord{})); diff != "" {
		t.Errorf("construction not canonical (-a +b):\n%s", diff)
	}
}

// TestS2StrokeBound reproduces scenario S2: a horizontal unit segment
// stroked with width 2, miter join, miter limit 1, under the identity
// ctm, bounds to (-1,-1,11,1).
func TestS2StrokeBound(t *testing.T) {
	p := New()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)

	s := NewStrokeState()
	s.LineWidth = 2
	s.MiterLimit = 1
	s.Join = JoinMiter

	got := p.Bound(s, geom.IdentityMatrix)
	want := geom.Rect{X0: -1, Y0: -1, X1: 11, Y1: 1}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("S2 bound mismatch (-want +got):\n%s", diff)
	}
}

// TestS4RectPacking reproduces scenario S4: a bare RECTTO path packs to
// at most 40 bytes and, once packed, walks to the canonical rectangle
// decomposition.
func TestS4RectPacking(t *testing.T) {
	p := New()
	p.RectTo(0, 0, 1, 1)

	if size := p.PackedSize(); size > 40 {
		t.Errorf("packed_path_size = %d, want <= 40", size)
	}

	p.Pack()
	if !p.IsPacked() {
		t.Fatal("Pack did not mark the path packed")
	}

	got := walkToRecord(p)
	want := []opRecord{
		{kind: "move", x1: 0, y1: 0},
		{kind: "line", x1: 1, y1: 0},
		{kind: "line", x1: 1, y1: 1},
		{kind: "line", x1: 0, y1: 1},
		{kind: "close"},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(opRecord{})); diff != "" {
		t.Errorf("S4 canonical decomposition mismatch (-want +got):\n%s", diff)
	}
}

// TestTransformRoundTrip checks spec property 3 for a rectilinear
// matrix: bounding the transformed path under the identity matches
// bounding the original path under the transform.
func TestTransformRoundTrip(t *testing.T) {
	p := New()
	p.MoveTo(1, 2)
	p.LineTo(7, 2)
	p.CurveTo(7, 5, 3, 9, 0, 9)
	p.ClosePath()

	m := geom.Translate(3, -4).Mul(geom.Scale(2, 2))

	lhs := p.Transform(m).Bound(nil, geom.IdentityMatrix)
	rhs := p.Bound(nil, m)

	if diff := cmp.Diff(rhs, lhs, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("transform round-trip mismatch (-direct +transformed):\n%s", diff)
	}
}

func TestRefCountConservation(t *testing.T) {
	p := New()
	p.Keep()
	p.Keep()
	if p.Drop() {
		t.Fatal("Drop reported zero with refs still outstanding")
	}
	if p.Drop() {
		t.Fatal("Drop reported zero with refs still outstanding")
	}
	if !p.Drop() {
		t.Fatal("Drop did not report zero on the final release")
	}
}

func TestMutateSharedPanics(t *testing.T) {
	p := New()
	p.MoveTo(0, 0)
	p.Keep()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic mutating a shared path")
		}
	}()
	p.LineTo(1, 1)
}

func TestMutatePackedPanics(t *testing.T) {
	p := New()
	p.MoveTo(0, 0)
	p.LineTo(1, 1)
	p.Pack()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic mutating a packed path")
		}
	}()
	p.LineTo(2, 2)
}
