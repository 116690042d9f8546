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
	stdcolor "image/color"
	"math"

	"github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/device"
	"github.com/inkfold/fitz/geom"
	fitzimage "github.com/inkfold/fitz/image"
	"github.com/inkfold/fitz/raster"
	"github.com/inkfold/fitz/shade"
)

// Affine image compositing (§4.9 paint_affine): FillImage, FillImageMask
// and ClipImageMask all walk their device-space bbox through a 16.16
// fixed-point step of the inverse CTM, (fa, fb) advancing one image
// pixel-space column per device column and (fc, fd) advancing one row
// per device row, exactly mirroring fz_paint_image's scanline loop.

const fixedShift = 16
const fixedOne = int64(1) << fixedShift

func toFixed(v float64) int64 { return int64(math.Round(v * float64(fixedOne))) }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// imageDevToPix composes ctm's inverse with the unit-square-to-pixel
// map of a w x h image (row 0 at the top, v=0 at the bottom of the PDF
// unit square), producing the matrix that sends a device point directly
// to image pixel-space (fa=A, fb=B step per device x; fc=C, fd=D step
// per device y).
func imageDevToPix(ctm geom.Matrix, w, h int) geom.Matrix {
	unitToPixel := geom.Matrix{A: float64(w), B: 0, C: 0, D: -float64(h), E: 0, F: float64(h)}
	return ctm.Inv().Mul(unitToPixel)
}

// gridFitEpsilon bounds how far a rectilinear ctm's scale factor may
// stray from an integer and still be snapped to the pixel grid.
const gridFitEpsilon = 1e-3

func nearZeroLocal(v float64) bool {
	const eps = 1e-9
	return v > -eps && v < eps
}

// gridFit implements the rectilinear-boundary policy for paint_affine:
// a ctm that maps axis-aligned rectangles to axis-aligned rectangles
// (geom.Matrix.IsRectilinear) and whose scale is within gridFitEpsilon
// of an integer is snapped to that integer, with the translation moved
// to a half-pixel-centered origin, so the nearest-neighbor sampler below
// lands exactly on source texels instead of blurring across them. It
// reports whether snapping happened; callers use that to decide between
// nearest and bilinear sampling (the unresolved policy question: snap
// whenever the matrix is rectilinear within tolerance, matching
// golang.org/x/image/draw's own tolerance-based dispatch between its
// nearest-neighbor and bilinear kernels).
func gridFit(ctm geom.Matrix) (geom.Matrix, bool) {
	if !ctm.IsRectilinear() {
		return ctm, false
	}
	snapAxis := func(v float64) (float64, bool) {
		r := math.Round(v)
		if r == 0 {
			return v, false
		}
		if math.Abs(v-r) < gridFitEpsilon*math.Abs(r) {
			return r, true
		}
		return v, false
	}
	out := ctm
	if nearZeroLocal(ctm.B) && nearZeroLocal(ctm.C) {
		a, oka := snapAxis(ctm.A)
		d, okd := snapAxis(ctm.D)
		if !oka || !okd {
			return ctm, false
		}
		out.A, out.B, out.C, out.D = a, 0, 0, d
	} else {
		b, okb := snapAxis(ctm.B)
		c, okc := snapAxis(ctm.C)
		if !okb || !okc {
			return ctm, false
		}
		out.A, out.B, out.C, out.D = 0, b, c, 0
	}
	out.E = math.Floor(ctm.E) + 0.5
	out.F = math.Floor(ctm.F) + 0.5
	return out, true
}

// fetchTexel returns the unpremultiplied components and coverage of p's
// pixel at (ix, iy), clamping out-of-range coordinates to the image's
// edge (§4.9's "nearest vs bilinear sampling with edge clamping").
func fetchTexel(p *raster.Pixmap, ix, iy int) ([]float64, float64) {
	ix = clampInt(ix, 0, p.W-1)
	iy = clampInt(iy, 0, p.H-1)
	off := p.PixelOffset(p.X+ix, p.Y+iy)
	n := p.ColorSpace.N()
	comps := unpackComponents(p, off, n)
	a := 1.0
	if p.HasAlpha {
		a = float64(p.Samples[off+n]) / 255
	}
	return comps, a
}

// nearestSample rounds a 16.16 fixed-point pixel coordinate to the
// nearest texel.
func nearestSample(p *raster.Pixmap, colFixed, rowFixed int64) ([]float64, float64) {
	ix := int((colFixed + fixedOne/2) >> fixedShift)
	iy := int((rowFixed + fixedOne/2) >> fixedShift)
	return fetchTexel(p, ix, iy)
}

// bilinearSample interpolates the four texels surrounding a 16.16
// fixed-point pixel coordinate.
func bilinearSample(p *raster.Pixmap, colFixed, rowFixed int64) ([]float64, float64) {
	ix0 := int(colFixed >> fixedShift)
	iy0 := int(rowFixed >> fixedShift)
	tx := float64(colFixed&(fixedOne-1)) / float64(fixedOne)
	ty := float64(rowFixed&(fixedOne-1)) / float64(fixedOne)

	c00, a00 := fetchTexel(p, ix0, iy0)
	c10, a10 := fetchTexel(p, ix0+1, iy0)
	c01, a01 := fetchTexel(p, ix0, iy0+1)
	c11, a11 := fetchTexel(p, ix0+1, iy0+1)

	out := make([]float64, len(c00))
	for i := range out {
		top := c00[i] + (c10[i]-c00[i])*tx
		bot := c01[i] + (c11[i]-c01[i])*tx
		out[i] = top + (bot-top)*ty
	}
	atop := a00 + (a10-a00)*tx
	abot := a01 + (a11-a01)*tx
	return out, atop + (abot-atop)*ty
}

// sampleMode reports the sampler paint_affine should use for an image
// painted under ctm: bilinear only when interpolation is requested, the
// NoInterpolate hint is clear, and the ctm did not grid-fit to an
// integer pixel grid (where nearest sampling is already exact).
func (d *Device) sampleMode(img *fitzimage.Image, ctm geom.Matrix) (fitted geom.Matrix, bilinear bool) {
	fitted, snapped := gridFit(ctm)
	bilinear = img.Interpolate && d.Hints()&device.NoInterpolate == 0 && !snapped
	return fitted, bilinear
}

func (d *Device) FillImage(img *fitzimage.Image, ctm geom.Matrix, alpha float64, cp device.ColorParams) {
	if d.Skip() || d.aborted() || img == nil || alpha <= 0 {
		return
	}
	if d.Hints()&device.IgnoreImages != 0 {
		return
	}
	unit := geom.Rect{X0: 0, Y0: 0, X1: 1, Y1: 1}
	bbox := d.deviceBBox(unit.Transform(ctm))
	if bbox.IsEmpty() {
		return
	}
	pix, err := img.GetPixmap(bbox.Width(), bbox.Height())
	if err != nil || pix == nil {
		return
	}
	defer pix.Drop()

	var softPix *raster.Pixmap
	if img.SoftMask != nil {
		if sp, serr := img.SoftMask.GetPixmap(bbox.Width(), bbox.Height()); serr == nil && sp != nil {
			softPix = sp
			defer softPix.Drop()
		}
	}

	fitted, bilinear := d.sampleMode(img, ctm)
	devToPix := imageDevToPix(fitted, pix.W, pix.H)
	var softDevToPix geom.Matrix
	if softPix != nil {
		softDevToPix = imageDevToPix(fitted, softPix.W, softPix.H)
	}

	dest := d.target()
	bbox = bbox.Intersect(dest.Bounds())
	if bbox.IsEmpty() {
		return
	}
	clip := d.clipMask()
	smask := d.activeSoftMask()

	for y := bbox.Y0; y < bbox.Y1; y++ {
		if d.aborted() {
			return
		}
		start := devToPix.Apply(float64(bbox.X0)+0.5, float64(y)+0.5)
		colFixed, rowFixed := toFixed(start.X), toFixed(start.Y)
		faFixed, fbFixed := toFixed(devToPix.A), toFixed(devToPix.B)

		var softColFixed, softRowFixed, softFaFixed, softFbFixed int64
		if softPix != nil {
			s := softDevToPix.Apply(float64(bbox.X0)+0.5, float64(y)+0.5)
			softColFixed, softRowFixed = toFixed(s.X), toFixed(s.Y)
			softFaFixed, softFbFixed = toFixed(softDevToPix.A), toFixed(softDevToPix.B)
		}

		for x := bbox.X0; x < bbox.X1; x++ {
			var comps []float64
			var a float64
			if bilinear {
				comps, a = bilinearSample(pix, colFixed, rowFixed)
			} else {
				comps, a = nearestSample(pix, colFixed, rowFixed)
			}
			if softPix != nil {
				var sComps []float64
				if bilinear {
					sComps, _ = bilinearSample(softPix, softColFixed, softRowFixed)
				} else {
					sComps, _ = nearestSample(softPix, softColFixed, softRowFixed)
				}
				if len(sComps) > 0 {
					a *= sComps[0]
				}
				softColFixed += softFaFixed
				softRowFixed += softFbFixed
			}

			if a > 0 {
				c := a * alpha
				if clip != nil {
					c *= float64(clip.AlphaAt(x, y).A) / 255
				}
				if smask != nil {
					c *= smask.sample(x, y)
				}
				if c > 0 {
					r, g, b := pix.ColorSpace.ToRGB(comps)
					srcCol := dest.ColorSpace.FromRGB(r, g, b)
					blendPixel(dest, x, y, srcCol, c, device.BlendNormal)
				}
			}

			colFixed += faFixed
			rowFixed += fbFixed
		}
	}
}

// FillImageMask implements §4.9's image-as-stencil form: the image's
// single sampled component is treated as coverage (already oriented by
// the image's own Decode array, §4.6 step 5) and composited as
// D_k := blend(color_k, D_k, cov*Sa) for a constant color everywhere the
// stencil is open.
func (d *Device) FillImageMask(img *fitzimage.Image, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	if d.Skip() || d.aborted() || img == nil || alpha <= 0 {
		return
	}
	if d.Hints()&device.IgnoreImages != 0 {
		return
	}
	unit := geom.Rect{X0: 0, Y0: 0, X1: 1, Y1: 1}
	bbox := d.deviceBBox(unit.Transform(ctm))
	if bbox.IsEmpty() {
		return
	}
	pix, err := img.GetPixmap(bbox.Width(), bbox.Height())
	if err != nil || pix == nil {
		return
	}
	defer pix.Drop()

	fitted, bilinear := d.sampleMode(img, ctm)
	devToPix := imageDevToPix(fitted, pix.W, pix.H)

	dest := d.target()
	bbox = bbox.Intersect(dest.Bounds())
	if bbox.IsEmpty() {
		return
	}
	clip := d.clipMask()
	smask := d.activeSoftMask()

	var r, g, b float64
	if cs != nil {
		r, g, b = cs.ToRGB(col)
	}
	srcCol := dest.ColorSpace.FromRGB(r, g, b)

	for y := bbox.Y0; y < bbox.Y1; y++ {
		if d.aborted() {
			return
		}
		start := devToPix.Apply(float64(bbox.X0)+0.5, float64(y)+0.5)
		colFixed, rowFixed := toFixed(start.X), toFixed(start.Y)
		faFixed, fbFixed := toFixed(devToPix.A), toFixed(devToPix.B)

		for x := bbox.X0; x < bbox.X1; x++ {
			var comps []float64
			if bilinear {
				comps, _ = bilinearSample(pix, colFixed, rowFixed)
			} else {
				comps, _ = nearestSample(pix, colFixed, rowFixed)
			}
			cov := 0.0
			if len(comps) > 0 {
				cov = comps[0]
			}
			if cov > 0 {
				c := cov * alpha
				if clip != nil {
					c *= float64(clip.AlphaAt(x, y).A) / 255
				}
				if smask != nil {
					c *= smask.sample(x, y)
				}
				if c > 0 {
					blendPixel(dest, x, y, srcCol, c, device.BlendNormal)
				}
			}
			colFixed += faFixed
			rowFixed += fbFixed
		}
	}
}

// ClipImageMask pushes a new clip level whose coverage mask is the
// image's sampled stencil value, exactly like ClipPath/ClipText but
// sourced from an image instead of a rasterized outline.
func (d *Device) ClipImageMask(img *fitzimage.Image, ctm geom.Matrix, scissor geom.Rect) {
	bbox := d.deviceBBox(scissor)
	var mask *stdimage.Alpha
	if img != nil && !bbox.IsEmpty() {
		if pix, err := img.GetPixmap(bbox.Width(), bbox.Height()); err == nil && pix != nil {
			fitted, bilinear := d.sampleMode(img, ctm)
			devToPix := imageDevToPix(fitted, pix.W, pix.H)
			mask = stdimage.NewAlpha(stdimage.Rect(bbox.X0, bbox.Y0, bbox.X1, bbox.Y1))
			for y := bbox.Y0; y < bbox.Y1; y++ {
				start := devToPix.Apply(float64(bbox.X0)+0.5, float64(y)+0.5)
				colFixed, rowFixed := toFixed(start.X), toFixed(start.Y)
				faFixed, fbFixed := toFixed(devToPix.A), toFixed(devToPix.B)
				for x := bbox.X0; x < bbox.X1; x++ {
					var comps []float64
					if bilinear {
						comps, _ = bilinearSample(pix, colFixed, rowFixed)
					} else {
						comps, _ = nearestSample(pix, colFixed, rowFixed)
					}
					cov := 0.0
					if len(comps) > 0 {
						cov = comps[0]
					}
					mask.SetAlpha(x, y, stdcolor.Alpha{A: clampByteLocal(cov * 255)})
					colFixed += faFixed
					rowFixed += fbFixed
				}
			}
			pix.Drop()
		}
	}
	d.pushClipMask(bbox, mask, scissor)
}

// FillShade implements §4.7 fill_shade for the raster device: every
// device pixel in the shading's (clipped) footprint is mapped back to
// shading space through ctm's inverse and evaluated via shade.Eval,
// skipping points outside the shading's domain/extend that have no
// Background.
func (d *Device) FillShade(shd *shade.Shading, ctm geom.Matrix, alpha float64, cp device.ColorParams) {
	if d.Skip() || d.aborted() || shd == nil || alpha <= 0 {
		return
	}
	if d.Hints()&device.IgnoreShades != 0 {
		return
	}
	area := shd.Bounds()
	if area.IsEmpty() {
		area = d.Scissor()
	} else {
		area = area.Transform(ctm)
	}
	bbox := d.deviceBBox(area)
	if bbox.IsEmpty() {
		return
	}

	dest := d.target()
	bbox = bbox.Intersect(dest.Bounds())
	if bbox.IsEmpty() {
		return
	}
	clip := d.clipMask()
	smask := d.activeSoftMask()
	inv := ctm.Inv()

	for y := bbox.Y0; y < bbox.Y1; y++ {
		if d.aborted() {
			return
		}
		for x := bbox.X0; x < bbox.X1; x++ {
			p := inv.Apply(float64(x)+0.5, float64(y)+0.5)
			comps, inRange, err := shd.Eval(p.X, p.Y)
			if err != nil || !inRange || comps == nil {
				continue
			}
			c := alpha
			if clip != nil {
				c *= float64(clip.AlphaAt(x, y).A) / 255
			}
			if smask != nil {
				c *= smask.sample(x, y)
			}
			if c <= 0 {
				continue
			}
			r, g, b := shd.ColorSpace.ToRGB(comps)
			srcCol := dest.ColorSpace.FromRGB(r, g, b)
			blendPixel(dest, x, y, srcCol, c, device.BlendNormal)
		}
	}
}
