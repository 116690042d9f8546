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
	"crypto/md5"
	"math"

	"github.com/inkfold/fitz/geom"
)

// Clear zeroes every component of every pixel, including alpha.
func (p *Pixmap) Clear() {
	for i := range p.Samples {
		p.Samples[i] = 0
	}
}

// ClearWithValue sets every color component to v and alpha (if present)
// to 255, so the canvas starts fully opaque before compositing onto a
// surface with no alpha channel of its own (§4.3).
func (p *Pixmap) ClearWithValue(v byte) {
	n := p.Components()
	colorN := n
	if p.HasAlpha {
		colorN--
	}
	for y := 0; y < p.H; y++ {
		row := p.rowOffset(p.Y + y)
		for x := 0; x < p.W; x++ {
			off := row + x*n
			for c := 0; c < colorN; c++ {
				p.Samples[off+c] = v
			}
			if p.HasAlpha {
				p.Samples[off+colorN] = 255
			}
		}
	}
}

// Invert inverts color components in place, leaving alpha untouched.
func (p *Pixmap) Invert() {
	p.InvertRect(p.Bounds())
}

// InvertRect inverts color components within rect (clipped to p's
// bounds), leaving alpha untouched.
func (p *Pixmap) InvertRect(rect geom.IRect) {
	r := rect.Intersect(p.Bounds())
	if r.IsEmpty() {
		return
	}
	n := p.Components()
	colorN := n
	if p.HasAlpha {
		colorN--
	}
	for y := r.Y0; y < r.Y1; y++ {
		row := p.rowOffset(y)
		for x := r.X0; x < r.X1; x++ {
			off := row + (x-p.X)*n
			for c := 0; c < colorN; c++ {
				p.Samples[off+c] = 255 - p.Samples[off+c]
			}
		}
	}
}

// Gamma applies an exponential gamma curve to every color component
// (alpha untouched). gamma==1 is a no-op.
func (p *Pixmap) Gamma(gamma float64) {
	if gamma == 1 {
		return
	}
	var lut [256]byte
	for i := range lut {
		v := math.Pow(float64(i)/255, gamma)
		lut[i] = clampByte(v * 255)
	}
	n := p.Components()
	colorN := n
	if p.HasAlpha {
		colorN--
	}
	for y := 0; y < p.H; y++ {
		row := p.rowOffset(p.Y + y)
		for x := 0; x < p.W; x++ {
			off := row + x*n
			for c := 0; c < colorN; c++ {
				p.Samples[off+c] = lut[p.Samples[off+c]]
			}
		}
	}
}

// Unmultiply converts premultiplied color components to unpremultiplied
// form. Pixels with alpha == 0 become all-zero color, since unmultiply
// is undefined there (§4.3).
func (p *Pixmap) Unmultiply() {
	if !p.HasAlpha {
		return
	}
	n := p.Components()
	colorN := n - 1
	for y := 0; y < p.H; y++ {
		row := p.rowOffset(p.Y + y)
		for x := 0; x < p.W; x++ {
			off := row + x*n
			a := p.Samples[off+colorN]
			if a == 0 {
				for c := 0; c < colorN; c++ {
					p.Samples[off+c] = 0
				}
				continue
			}
			for c := 0; c < colorN; c++ {
				v := int(p.Samples[off+c]) * 255 / int(a)
				p.Samples[off+c] = clampByte(float64(v))
			}
		}
	}
}

// Premultiply converts unpremultiplied color components to premultiplied
// form (the inverse of Unmultiply).
func (p *Pixmap) Premultiply() {
	if !p.HasAlpha {
		return
	}
	n := p.Components()
	colorN := n - 1
	for y := 0; y < p.H; y++ {
		row := p.rowOffset(p.Y + y)
		for x := 0; x < p.W; x++ {
			off := row + x*n
			a := p.Samples[off+colorN]
			for c := 0; c < colorN; c++ {
				v := int(p.Samples[off+c]) * int(a) / 255
				p.Samples[off+c] = byte(v)
			}
		}
	}
}

// Tint multiplies a gray or RGB pixmap's color components by (r,g,b).
func (p *Pixmap) Tint(r, g, b byte) {
	n := p.Components()
	switch p.ColorSpace.N() {
	case 1:
		// gray: tint is the average of r,g,b, applied to the single channel.
		avg := (int(r) + int(g) + int(b)) / 3
		for y := 0; y < p.H; y++ {
			row := p.rowOffset(p.Y + y)
			for x := 0; x < p.W; x++ {
				off := row + x*n
				v := int(p.Samples[off]) * avg / 255
				p.Samples[off] = byte(v)
			}
		}
	case 3:
		tints := [3]byte{r, g, b}
		for y := 0; y < p.H; y++ {
			row := p.rowOffset(p.Y + y)
			for x := 0; x < p.W; x++ {
				off := row + x*n
				for c := 0; c < 3; c++ {
					v := int(p.Samples[off+c]) * int(tints[c]) / 255
					p.Samples[off+c] = byte(v)
				}
			}
		}
	}
}

// MD5 returns a stable digest of the pixmap's sample data, used for
// regression testing (§4.3); row padding beyond W*Components() is
// excluded so it does not perturb the digest.
func (p *Pixmap) MD5() [16]byte {
	h := md5.New()
	n := p.Components()
	rowBytes := p.W * n
	for y := 0; y < p.H; y++ {
		row := p.rowOffset(p.Y + y)
		h.Write(p.Samples[row : row+rowBytes])
	}
	var out [16]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Subsample box-downsamples the pixmap in place by 2^factor along each
// axis. factor==0 is a no-op.
func (p *Pixmap) Subsample(factor int) {
	if factor <= 0 {
		return
	}
	f := 1 << uint(factor)
	n := p.Components()
	newW := (p.W + f - 1) / f
	newH := (p.H + f - 1) / f
	newStride := newW * n
	out := make([]byte, newStride*newH)

	for ny := 0; ny < newH; ny++ {
		y0 := ny * f
		y1 := min(y0+f, p.H)
		for nx := 0; nx < newW; nx++ {
			x0 := nx * f
			x1 := min(x0+f, p.W)
			count := (y1 - y0) * (x1 - x0)
			var sums [32]int // supports up to 32 interleaved components
			for y := y0; y < y1; y++ {
				row := p.rowOffset(p.Y + y)
				for x := x0; x < x1; x++ {
					off := row + x*n
					for c := 0; c < n; c++ {
						sums[c] += int(p.Samples[off+c])
					}
				}
			}
			outOff := ny*newStride + nx*n
			for c := 0; c < n; c++ {
				out[outOff+c] = byte(sums[c] / count)
			}
		}
	}

	p.W, p.H, p.Stride = newW, newH, newStride
	p.Samples = out
}

// Scale resamples the pixmap into a new w x h pixmap covering clip (in
// the destination's pixel space), using a separable box filter. The
// filter is deterministic: identical inputs always produce identical
// output, satisfying the contract that callers may cache scaled tiles
// keyed only by (source identity, target size) (§4.3, §4.6).
func (p *Pixmap) Scale(x, y, w, h int, clip geom.IRect) *Pixmap {
	out := NewPixmapWithBBox(p.ColorSpace, geom.IRect{X0: x, Y0: y, X1: x + w, Y1: y + h}, p.Seps, p.HasAlpha)
	dst := out.Bounds().Intersect(clip)
	n := p.Components()

	scaleX := float64(p.W) / float64(w)
	scaleY := float64(p.H) / float64(h)

	for dy := dst.Y0; dy < dst.Y1; dy++ {
		srcY0 := int(float64(dy-y) * scaleY)
		srcY1 := int(float64(dy-y+1) * scaleY)
		if srcY1 <= srcY0 {
			srcY1 = srcY0 + 1
		}
		srcY1 = min(srcY1, p.H)
		for dx := dst.X0; dx < dst.X1; dx++ {
			srcX0 := int(float64(dx-x) * scaleX)
			srcX1 := int(float64(dx-x+1) * scaleX)
			if srcX1 <= srcX0 {
				srcX1 = srcX0 + 1
			}
			srcX1 = min(srcX1, p.W)

			count := (srcY1 - srcY0) * (srcX1 - srcX0)
			var sums [32]int
			for sy := srcY0; sy < srcY1; sy++ {
				row := p.rowOffset(p.Y + sy)
				for sx := srcX0; sx < srcX1; sx++ {
					off := row + sx*n
					for c := 0; c < n; c++ {
						sums[c] += int(p.Samples[off+c])
					}
				}
			}
			outOff := out.pixelOffset(dx, dy)
			if count == 0 {
				continue
			}
			for c := 0; c < n; c++ {
				out.Samples[outOff+c] = byte(sums[c] / count)
			}
		}
	}
	return out
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
