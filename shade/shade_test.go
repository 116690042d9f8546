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
	"testing"

	"github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/geom"
)

func TestExponentialFunctionLinear(t *testing.T) {
	fn := &ExponentialFunction{Domain_: []float64{0, 1}, C0: []float64{0}, C1: []float64{1}, N: 1}
	out, err := fn.Eval([]float64{0.25})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(out[0]-0.25) > 1e-9 {
		t.Fatalf("got %v", out)
	}
}

func TestStitchingFunctionPicksSegment(t *testing.T) {
	lo := &ExponentialFunction{Domain_: []float64{0, 1}, C0: []float64{0}, C1: []float64{1}, N: 1}
	hi := &ExponentialFunction{Domain_: []float64{0, 1}, C0: []float64{1}, C1: []float64{0}, N: 1}
	st := &StitchingFunction{
		Domain_:   []float64{0, 1},
		Functions: []Function{lo, hi},
		Bounds:    []float64{0.5},
		Encode:    []float64{0, 1, 0, 1},
	}
	out, err := st.Eval([]float64{0.75})
	if err != nil {
		t.Fatal(err)
	}
	// segment 1 covers [0.5,1] encoded to [0,1]: x=0.75 -> xe=0.5 -> hi(0.5)=0.5
	if math.Abs(out[0]-0.5) > 1e-9 {
		t.Fatalf("got %v", out)
	}
}

func TestPostScriptFunctionEvaluatesCalculatorProgram(t *testing.T) {
	fn := &PostScriptFunction{Domain_: []float64{0, 1}, Program: "{ 2 mul }"}
	out, err := fn.Eval([]float64{0.3})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(out[0]-0.6) > 1e-9 {
		t.Fatalf("got %v", out)
	}
}

func TestAxialShadingExtendsPastEndpoints(t *testing.T) {
	fn := &ExponentialFunction{Domain_: []float64{0, 1}, C0: []float64{0}, C1: []float64{1}, N: 1}
	s := New(Axial, color.DeviceGray)
	s.Coords = []float64{0, 0, 10, 0}
	s.Fn = []Function{fn}
	s.Extend = [2]bool{true, true}

	c, ok, err := s.Eval(-5, 0)
	if err != nil || !ok {
		t.Fatalf("expected extend to cover x<0, err=%v ok=%v", err, ok)
	}
	if c[0] != 0 {
		t.Fatalf("expected clamped-to-t0 color 0, got %v", c)
	}

	c, ok, err = s.Eval(20, 0)
	if err != nil || !ok {
		t.Fatalf("expected extend to cover x>10, err=%v ok=%v", err, ok)
	}
	if c[0] != 1 {
		t.Fatalf("expected clamped-to-t1 color 1, got %v", c)
	}
}

func TestAxialShadingNoExtendMisses(t *testing.T) {
	fn := &ExponentialFunction{Domain_: []float64{0, 1}, C0: []float64{0}, C1: []float64{1}, N: 1}
	s := New(Axial, color.DeviceGray)
	s.Coords = []float64{0, 0, 10, 0}
	s.Fn = []Function{fn}

	_, ok, err := s.Eval(-5, 0)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatalf("expected miss without Extend")
	}
}

func TestGouraudEvalInterpolatesVertexColors(t *testing.T) {
	s := New(Gouraud, color.DeviceGray)
	s.Triangles = []Triangle{{
		A: Vertex{X: 0, Y: 0, Color: []float64{0}},
		B: Vertex{X: 10, Y: 0, Color: []float64{1}},
		C: Vertex{X: 0, Y: 10, Color: []float64{1}},
	}}
	c, ok, err := s.Eval(0, 0)
	if err != nil || !ok {
		t.Fatalf("expected vertex A to hit, err=%v ok=%v", err, ok)
	}
	if math.Abs(c[0]-0) > 1e-9 {
		t.Fatalf("got %v", c)
	}

	_, ok, err = s.Eval(100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatalf("expected outside-triangle miss")
	}
}

func TestFunctionBasedShadingAppliesMatrix(t *testing.T) {
	fn := &ExponentialFunction{Domain_: []float64{0, 10}, C0: []float64{0}, C1: []float64{1}, N: 1}
	s := New(FunctionBased, color.DeviceGray)
	s.Domain = []float64{0, 10, 0, 10}
	s.Matrix = geom.IdentityMatrix
	s.Fn = []Function{fn}

	c, ok, err := s.Eval(5, 5)
	if err != nil || !ok {
		t.Fatalf("err=%v ok=%v", err, ok)
	}
	// a type 2 function does not rescale by its Domain: 0 + 5^1*(1-0) = 5.
	if math.Abs(c[0]-5) > 1e-9 {
		t.Fatalf("got %v", c)
	}
}
