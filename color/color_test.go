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

package color

import (
	"math"
	"testing"
)

func TestSingletonIdentity(t *testing.T) {
	if DeviceGray != DeviceGray {
		t.Fatal("DeviceGray should compare equal to itself")
	}
	if DeviceGray == DeviceRGB {
		t.Fatal("distinct singletons must not compare equal")
	}
}

func TestConvertSameSpaceIsIdentity(t *testing.T) {
	v := []float64{0.25, 0.5, 0.75}
	out := Convert(DeviceRGB, DeviceRGB, v)
	for i := range v {
		if out[i] != v[i] {
			t.Fatalf("same-space convert should copy unchanged, got %v want %v", out, v)
		}
	}
}

func TestConvertGrayToRGB(t *testing.T) {
	out := Convert(DeviceRGB, DeviceGray, []float64{0.5})
	for _, c := range out {
		if math.Abs(c-0.5) > 1e-9 {
			t.Errorf("gray 0.5 -> rgb should be (0.5,0.5,0.5), got %v", out)
		}
	}
}

func TestConvertDeterministic(t *testing.T) {
	v := []float64{0.1, 0.2, 0.3, 0.4}
	a := Convert(DeviceRGB, DeviceCMYK, v)
	b := Convert(DeviceRGB, DeviceCMYK, v)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("conversion must be deterministic: %v != %v", a, b)
		}
	}
}

func TestCMYKBlackRoundTrip(t *testing.T) {
	r, g, b := DeviceCMYK.ToRGB([]float64{0, 0, 0, 1})
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("full black K should map to rgb black, got (%v,%v,%v)", r, g, b)
	}
}

func TestIndexedLookup(t *testing.T) {
	idx := &Indexed{
		Base: DeviceRGB,
		Table: [][]float64{
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
	}
	r, g, b := idx.ToRGB([]float64{1})
	if r != 0 || g != 1 || b != 0 {
		t.Errorf("index 1 should be green, got (%v,%v,%v)", r, g, b)
	}
	// out of range indices clamp rather than panic
	r, g, b = idx.ToRGB([]float64{99})
	if r != 0 || g != 0 || b != 1 {
		t.Errorf("out-of-range index should clamp to last entry, got (%v,%v,%v)", r, g, b)
	}
}
