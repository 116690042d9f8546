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

package raster

import (
	"testing"

	"github.com/inkfold/fitz/color"
)

func TestClearWithValueOpaque(t *testing.T) {
	p := NewPixmap(color.DeviceGray, 2, 2, nil, true)
	p.ClearWithValue(200)
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			off := p.pixelOffset(x, y)
			if p.Samples[off] != 200 {
				t.Fatalf("pixel (%d,%d) gray = %d, want 200", x, y, p.Samples[off])
			}
			if p.Samples[off+1] != 255 {
				t.Fatalf("pixel (%d,%d) alpha = %d, want 255", x, y, p.Samples[off+1])
			}
		}
	}
}

func TestUnmultiplyZeroAlpha(t *testing.T) {
	p := NewPixmap(color.DeviceRGB, 1, 1, nil, true)
	p.Samples[0], p.Samples[1], p.Samples[2], p.Samples[3] = 50, 60, 70, 0
	p.Unmultiply()
	for i := 0; i < 3; i++ {
		if p.Samples[i] != 0 {
			t.Fatalf("component %d = %d, want 0 when alpha=0", i, p.Samples[i])
		}
	}
}

func TestPremultiplyInvariant(t *testing.T) {
	p := NewPixmap(color.DeviceRGB, 1, 1, nil, true)
	p.Samples[0], p.Samples[1], p.Samples[2], p.Samples[3] = 255, 200, 10, 128
	p.Premultiply()
	for i := 0; i < 3; i++ {
		if p.Samples[i] > p.Samples[3] {
			t.Fatalf("component %d = %d exceeds alpha %d after premultiply", i, p.Samples[i], p.Samples[3])
		}
	}
}

func TestInvertLeavesAlpha(t *testing.T) {
	p := NewPixmap(color.DeviceGray, 1, 1, nil, true)
	p.Samples[0], p.Samples[1] = 10, 77
	p.Invert()
	if p.Samples[0] != 245 {
		t.Fatalf("gray = %d, want 245", p.Samples[0])
	}
	if p.Samples[1] != 77 {
		t.Fatalf("alpha changed by Invert: %d, want 77", p.Samples[1])
	}
}

func TestSubsampleAverages(t *testing.T) {
	p := NewPixmap(color.DeviceGray, 2, 2, nil, false)
	p.Samples = []byte{0, 100, 200, 255}
	p.Subsample(1)
	if p.W != 1 || p.H != 1 {
		t.Fatalf("subsample(1) size = %dx%d, want 1x1", p.W, p.H)
	}
	want := byte((0 + 100 + 200 + 255) / 4)
	if p.Samples[0] != want {
		t.Fatalf("subsampled value = %d, want %d", p.Samples[0], want)
	}
}

func TestMD5Deterministic(t *testing.T) {
	p1 := NewPixmap(color.DeviceGray, 4, 4, nil, false)
	p2 := NewPixmap(color.DeviceGray, 4, 4, nil, false)
	for i := range p1.Samples {
		p1.Samples[i] = byte(i * 7)
		p2.Samples[i] = byte(i * 7)
	}
	if p1.MD5() != p2.MD5() {
		t.Fatal("identical pixmaps produced different digests")
	}
}

func TestHalftoneStandardTile(t *testing.T) {
	p := NewPixmap(color.DeviceGray, 8, 8, nil, false)
	for i := range p.Samples {
		p.Samples[i] = 255
	}
	b := p.HalftonePixmap(nil)
	count := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if b.Get(x, y) {
				count++
			}
		}
	}
	if count != 64 {
		t.Fatalf("fully white pixmap halftoned to %d set bits, want 64", count)
	}
}
