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
	"math"

	fitzcolor "github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/device"
	"github.com/inkfold/fitz/geom"
	"github.com/inkfold/fitz/raster"
)

// intersectMasks multiplies mask (nil meaning fully opaque) by parent
// (the enclosing clip level's already-combined mask) over bbox,
// producing the mask effective at the new, deeper clip level.
func intersectMasks(mask, parent *stdimage.Alpha, bbox geom.IRect) *stdimage.Alpha {
	out := stdimage.NewAlpha(stdimage.Rect(bbox.X0, bbox.Y0, bbox.X1, bbox.Y1))
	for y := bbox.Y0; y < bbox.Y1; y++ {
		for x := bbox.X0; x < bbox.X1; x++ {
			m := uint32(255)
			if mask != nil {
				m = uint32(mask.AlphaAt(x, y).A)
			}
			p := uint32(parent.AlphaAt(x, y).A)
			out.Set(x, y, color.Alpha{A: uint8(m * p / 255)})
		}
	}
	return out
}

// paint composites a solid color (cs, col), modulated by cov (device-
// space coverage over bbox) and alpha, into the current target: the top
// transparency group's buffer if one is open, else Dest. The clip mask
// and any active soft mask further attenuate coverage.
func (d *Device) paint(bbox geom.IRect, cov *stdimage.Alpha, cs fitzcolor.Space, col []float64, alpha float64, blend device.BlendMode) {
	if cov == nil || alpha <= 0 {
		return
	}
	dest := d.target()
	bbox = bbox.Intersect(dest.Bounds())
	if bbox.IsEmpty() {
		return
	}
	clip := d.clipMask()
	smask := d.activeSoftMask()
	r, g, b := 0.0, 0.0, 0.0
	if cs != nil {
		r, g, b = cs.ToRGB(col)
	}
	srcCol := dest.ColorSpace.FromRGB(r, g, b)

	for y := bbox.Y0; y < bbox.Y1; y++ {
		for x := bbox.X0; x < bbox.X1; x++ {
			c := float64(cov.AlphaAt(x, y).A) / 255
			if c == 0 {
				continue
			}
			if clip != nil {
				c *= float64(clip.AlphaAt(x, y).A) / 255
			}
			if smask != nil {
				c *= smask.sample(x, y)
			}
			c *= alpha
			if c <= 0 {
				continue
			}
			blendPixel(dest, x, y, srcCol, c, blend)
		}
	}
}

// target returns the pixmap currently receiving paint calls: the
// innermost open transparency group's buffer, or Dest.
func (d *Device) target() *raster.Pixmap {
	if n := len(d.groups); n > 0 {
		return d.groups[n-1].buf
	}
	return d.Dest
}

// blendPixel composites srcCol (in dest's colorspace, unpremultiplied)
// over the pixel at (x, y) with source coverage sa, applying blend.
// Separable PDF blend modes (§4.9 begin_group) are evaluated by
// round-tripping through RGB via the colorspace's To/FromRGB, which
// lets one formula serve every Pixmap colorspace at the cost of an
// extra conversion per blended pixel.
func blendPixel(dest *raster.Pixmap, x, y int, srcCol []float64, sa float64, mode device.BlendMode) {
	off := dest.PixelOffset(x, y)
	n := dest.ColorSpace.N()
	da := 1.0
	if dest.HasAlpha {
		da = float64(dest.Samples[off+n]) / 255
	}

	dstCol := make([]float64, n)
	for i := 0; i < n; i++ {
		v := float64(dest.Samples[off+i]) / 255
		if dest.HasAlpha && da > 0 {
			v /= da
		}
		dstCol[i] = v
	}

	blended := srcCol
	if mode != device.BlendNormal && da > 0 {
		blended = applyBlendMode(dest.ColorSpace, srcCol, dstCol, mode)
	}

	outA := sa + da*(1-sa)
	for i := 0; i < n; i++ {
		mix := (1-da)*srcCol[i] + da*blended[i]
		mixed := mix*sa + dstCol[i]*da*(1-sa)
		var out float64
		if outA > 0 {
			out = mixed / outA
		}
		if dest.HasAlpha {
			out *= outA
		}
		dest.Samples[off+i] = clampByteLocal(out * 255)
	}
	if dest.HasAlpha {
		dest.Samples[off+n] = clampByteLocal(outA * 255)
	}
}

func clampByteLocal(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v + 0.5)
}

// applyBlendMode evaluates one of the PDF separable blend functions in
// RGB space and converts the result back into cs's component space.
func applyBlendMode(cs fitzcolor.Space, src, dst []float64, mode device.BlendMode) []float64 {
	sr, sg, sb := cs.ToRGB(src)
	dr, dg, db := cs.ToRGB(dst)
	f := blendFunc(mode)
	r, g, b := f(sr, dr), f(sg, dg), f(sb, db)
	return cs.FromRGB(r, g, b)
}

func blendFunc(mode device.BlendMode) func(s, b float64) float64 {
	switch mode {
	case device.BlendMultiply:
		return func(s, b float64) float64 { return s * b }
	case device.BlendScreen:
		return func(s, b float64) float64 { return s + b - s*b }
	case device.BlendOverlay:
		return func(s, b float64) float64 { return hardLight(b, s) }
	case device.BlendDarken:
		return math.Min
	case device.BlendLighten:
		return math.Max
	case device.BlendColorDodge:
		return colorDodge
	case device.BlendColorBurn:
		return colorBurn
	case device.BlendHardLight:
		return hardLight
	case device.BlendSoftLight:
		return softLight
	case device.BlendDifference:
		return func(s, b float64) float64 { return math.Abs(s - b) }
	case device.BlendExclusion:
		return func(s, b float64) float64 { return s + b - 2*s*b }
	default:
		return func(s, b float64) float64 { return s }
	}
}

func colorDodge(s, b float64) float64 {
	if b == 0 {
		return 0
	}
	if s == 1 {
		return 1
	}
	return math.Min(1, b/(1-s))
}

func colorBurn(s, b float64) float64 {
	if b == 1 {
		return 1
	}
	if s == 0 {
		return 0
	}
	return 1 - math.Min(1, (1-b)/s)
}

func hardLight(s, b float64) float64 {
	if s <= 0.5 {
		return 2 * s * b
	}
	return 1 - 2*(1-s)*(1-b)
}

func softLight(s, b float64) float64 {
	if s <= 0.5 {
		return b - (1-2*s)*b*(1-b)
	}
	var d float64
	if b <= 0.25 {
		d = ((16*b-12)*b + 4) * b
	} else {
		d = math.Sqrt(b)
	}
	return b + (2*s-1)*(d-b)
}
