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

// Halftone is a threshold tile: a w x h array of 0-255 thresholds tiled
// periodically across the pixmap being halftoned. A nil Halftone passed
// to HalftonePixmap means "use the standard tile" (StandardHalftone).
type Halftone struct {
	W, H      int
	Threshold []byte // len == W*H
}

// StandardHalftone is an 8x8 clustered-dot ordered-dither tile, the
// "standard" threshold set referred to by halftone_pixmap(p, nil).
var StandardHalftone = &Halftone{
	W: 8,
	H: 8,
	Threshold: []byte{
		24, 8, 24, 40, 88, 104, 88, 72,
		8, 0, 8, 24, 104, 120, 104, 88,
		24, 8, 24, 40, 88, 104, 88, 72,
		40, 24, 40, 56, 72, 88, 72, 56,
		88, 104, 88, 72, 24, 8, 24, 40,
		104, 120, 104, 88, 8, 0, 8, 24,
		88, 104, 88, 72, 24, 8, 24, 40,
		72, 56, 72, 56, 40, 24, 40, 56,
	},
}

// HalftonePixmap thresholds a single-channel pixmap into a Bitmap using
// ht (StandardHalftone if nil). p's first color component at each pixel
// is compared against the tiled threshold (scaled to 0-255).
func (p *Pixmap) HalftonePixmap(ht *Halftone) *Bitmap {
	if ht == nil {
		ht = StandardHalftone
	}
	out := NewBitmap(p.W, p.H)
	n := p.Components()
	for y := 0; y < p.H; y++ {
		row := p.rowOffset(p.Y + y)
		ty := y % ht.H
		for x := 0; x < p.W; x++ {
			v := p.Samples[row+x*n]
			tx := x % ht.W
			threshold := ht.Threshold[ty*ht.W+tx]
			out.Set(x, y, v > threshold)
		}
	}
	return out
}
