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

package output

import (
	stdimage "image"
	"image/png"
	"io"

	"github.com/inkfold/fitz/raster"
)

// EncodePNG writes p through Go's standard image/png encoder (§6).
// saveAlpha controls whether p's alpha channel, if any, is preserved in
// the output or composited away against an opaque white background.
func EncodePNG(w io.Writer, p *raster.Pixmap, saveAlpha bool) error {
	return png.Encode(w, toNRGBA(p, saveAlpha))
}

// toNRGBA converts p to a stdlib image.Image by routing every pixel
// through its colorspace's ToRGB, unpremultiplying first when p carries
// an alpha channel.
func toNRGBA(p *raster.Pixmap, saveAlpha bool) *stdimage.NRGBA {
	img := stdimage.NewNRGBA(stdimage.Rect(0, 0, p.W, p.H))
	n := p.Components()
	colorN := p.ColorSpace.N()
	vec := make([]float64, colorN)
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			off := p.PixelOffset(p.X+x, p.Y+y)
			a := byte(255)
			if p.HasAlpha {
				a = p.Samples[off+n-1]
			}
			for c := 0; c < colorN; c++ {
				v := p.Samples[off+c]
				if p.HasAlpha {
					if a != 0 {
						v = clampByte(int(v) * 255 / int(a))
					} else {
						v = 0
					}
				}
				vec[c] = float64(v) / 255
			}
			r, g, b := p.ColorSpace.ToRGB(vec)
			if p.HasAlpha && !saveAlpha {
				af := float64(a) / 255
				r, g, b = r*af+1-af, g*af+1-af, b*af+1-af
			}
			outA := byte(255)
			if saveAlpha && p.HasAlpha {
				outA = a
			}
			idx := img.PixOffset(x, y)
			img.Pix[idx+0] = clampByte(int(r * 255))
			img.Pix[idx+1] = clampByte(int(g * 255))
			img.Pix[idx+2] = clampByte(int(b * 255))
			img.Pix[idx+3] = outA
		}
	}
	return img
}
