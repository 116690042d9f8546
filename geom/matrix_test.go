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

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var testMatrices = []Matrix{
	IdentityMatrix,
	{A: 2, B: 3, C: 4, D: 5, E: 6, F: 7},
	Translate(-0.5, 0.5),
	Translate(0, 1),
	Translate(1, 0),
	Scale(0.5, 0.5),
	Scale(2, 1),
	Scale(1, 2),
	Scale(-1, -1),
	Rotate(0.1),
	Rotate(math.Pi / 2),
	Rotate(math.Pi),
}

func TestIdentityMatrix(t *testing.T) {
	for i, A := range testMatrices {
		t.Run(fmt.Sprintf("mat%d", i), func(t *testing.T) {
			B := A.Mul(IdentityMatrix)
			if d := cmp.Diff(A, B); d != "" {
				t.Error(d)
			}
			C := IdentityMatrix.Mul(A)
			if d := cmp.Diff(A, C); d != "" {
				t.Error(d)
			}
		})
	}
}

func TestMatrixInverse(t *testing.T) {
	for i, A := range testMatrices {
		t.Run(fmt.Sprintf("mat%d", i), func(t *testing.T) {
			Ainv := A.Inv()

			B := Ainv.Mul(A)
			if d := cmp.Diff(IdentityMatrix, B, cmpopts.EquateApprox(1e-6, 1e-6)); d != "" {
				t.Error(d)
			}
			C := A.Mul(Ainv)
			if d := cmp.Diff(IdentityMatrix, C, cmpopts.EquateApprox(1e-6, 1e-6)); d != "" {
				t.Error(d)
			}

			D := Ainv.Inv()
			if d := cmp.Diff(A, D, cmpopts.EquateApprox(1e-6, 1e-6)); d != "" {
				t.Error(d)
			}
		})
	}
}

func TestSingularInverse(t *testing.T) {
	m := Matrix{A: 1, B: 1, C: 1, D: 1} // determinant 0
	if got := m.Inv(); got != m {
		t.Errorf("Inv of a singular matrix should return it unchanged, got %+v", got)
	}
}

func TestIsRectilinear(t *testing.T) {
	cases := []struct {
		m    Matrix
		want bool
	}{
		{IdentityMatrix, true},
		{Scale(2, 3), true},
		{Rotate(math.Pi / 2), true},
		{Rotate(math.Pi / 4), false},
		{Matrix{A: 1, B: 0.5, C: 0, D: 1}, false},
	}
	for i, c := range cases {
		if got := c.m.IsRectilinear(); got != c.want {
			t.Errorf("case %d: IsRectilinear() = %v, want %v", i, got, c.want)
		}
	}
}

func TestExpansion(t *testing.T) {
	m := Scale(2, 3)
	if got := m.Expansion(); math.Abs(got-math.Sqrt(6)) > 1e-9 {
		t.Errorf("Expansion() = %v, want sqrt(6)", got)
	}
}
