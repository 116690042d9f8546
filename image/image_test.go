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

package image

import (
	"testing"

	"github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/raster"
	"github.com/inkfold/fitz/store"
)

func TestGetPixmapPureWrapperIgnoresRequestedSize(t *testing.T) {
	pix := raster.NewPixmap(color.DeviceGray, 100, 100, nil, false)
	img := NewFromPixmap(store.New(0), pix)

	got, err := img.GetPixmap(4, 4)
	if err != nil {
		t.Fatalf("GetPixmap: %v", err)
	}
	if got != pix {
		t.Fatalf("expected the wrapped pixmap itself, got a different one")
	}
	got.Drop()
}

func TestL2FactorCapsAtEight(t *testing.T) {
	if got := l2Factor(1<<20, 1<<20, 1, 1); got != 8 {
		t.Fatalf("expected cap of 8, got %d", got)
	}
}

func TestL2FactorZeroWhenAlreadySmall(t *testing.T) {
	if got := l2Factor(10, 10, 100, 100); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestL2FactorPicksSmallestSatisfyingFactor(t *testing.T) {
	// w=256, wantW=60: 256>>1=128>=62, 256>>2=64>=62, 256>>3=32<62 so l2=2.
	got := l2Factor(256, 256, 60, 60)
	if got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

type constDecoder struct {
	w, h int
}

func (d constDecoder) Info(buf []byte) (int, int, float64, float64, color.Space, error) {
	return d.w, d.h, 72, 72, color.DeviceGray, nil
}

func (d constDecoder) Decode(buf []byte, targetSubsample int) (*raster.Pixmap, error) {
	return raster.NewPixmap(color.DeviceGray, d.w, d.h, nil, false), nil
}

func (d constDecoder) SupportsNativeSubsample() bool { return false }

func TestGetPixmapDecodesAndCachesCompressedSource(t *testing.T) {
	RegisterDecoder(CodecPNG, constDecoder{w: 16, h: 16})
	s := store.New(0)
	img := NewCompressed(s, 16, 16, 8, color.DeviceGray, CodecPNG, []byte{0x89, 'P', 'N', 'G'})

	pix, err := img.GetPixmap(16, 16)
	if err != nil {
		t.Fatalf("GetPixmap: %v", err)
	}
	if pix.W != 16 || pix.H != 16 {
		t.Fatalf("unexpected decoded size %dx%d", pix.W, pix.H)
	}
	pix.Drop()

	pix2, err := img.GetPixmap(16, 16)
	if err != nil {
		t.Fatalf("second GetPixmap: %v", err)
	}
	if pix2 != pix {
		t.Fatalf("expected the cached tile back on a second call")
	}
	pix2.Drop()
}

func TestApplyColorKeyZeroesMatchingPixels(t *testing.T) {
	pix := raster.NewPixmap(color.DeviceGray, 1, 1, nil, true)
	pix.Samples[0] = 200
	pix.Samples[1] = 255

	img := &Image{ColorKey: []int{190, 210}}
	img.applyColorKey(pix)

	if pix.Samples[1] != 0 {
		t.Fatalf("expected alpha zeroed by color key, got %d", pix.Samples[1])
	}
}
