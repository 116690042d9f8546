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
	"image"

	"github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/device"
	"github.com/inkfold/fitz/geom"
	"github.com/inkfold/fitz/path"
	"github.com/inkfold/fitz/raster"
	"github.com/inkfold/fitz/text"
)

// maskLevel accumulates the appearance stream a BeginMask/EndMask pair
// brackets, rendered into its own offscreen buffer exactly like a group.
type maskLevel struct {
	buf        *raster.Pixmap
	bbox       geom.IRect
	luminosity bool
}

// finishedMask is the softmask produced by EndMask, waiting to be
// attached to the next BeginGroup (mirrors the PDF content-stream idiom
// of defining a mask immediately before the group it modulates).
type finishedMask struct {
	buf        *raster.Pixmap
	bbox       geom.IRect
	luminosity bool
}

// sample returns the mask's coverage contribution at device pixel
// (x, y) in [0, 1]: the luminosity (for a luminosity mask) or the
// alpha channel (for an alpha mask) of the mask's rendered content.
func (m *finishedMask) sample(x, y int) float64 {
	if x < m.bbox.X0 || x >= m.bbox.X1 || y < m.bbox.Y0 || y >= m.bbox.Y1 {
		if m.luminosity {
			return 0
		}
		return 0
	}
	off := m.buf.PixelOffset(x, y)
	n := m.buf.ColorSpace.N()
	if m.luminosity {
		r, g, b := m.buf.ColorSpace.ToRGB(unpackComponents(m.buf, off, n))
		return 0.3*r + 0.59*g + 0.11*b
	}
	if m.buf.HasAlpha {
		return float64(m.buf.Samples[off+n]) / 255
	}
	return 1
}

func unpackComponents(p *raster.Pixmap, off, n int) []float64 {
	out := make([]float64, n)
	da := 1.0
	if p.HasAlpha {
		da = float64(p.Samples[off+n]) / 255
	}
	for i := 0; i < n; i++ {
		v := float64(p.Samples[off+i]) / 255
		if p.HasAlpha && da > 0 {
			v /= da
		}
		out[i] = v
	}
	return out
}

// groupLevel is one open transparency group or tile recording.
type groupLevel struct {
	buf       *raster.Pixmap
	bbox      geom.IRect
	rect      geom.Rect
	alpha     float64
	blend     device.BlendMode
	softMask  *finishedMask
	isTile    bool
	tileArea  geom.Rect
	tileView  geom.Rect
	tileXStep float64
	tileYStep float64
	tileCTM   geom.Matrix
}

func (d *Device) activeSoftMask() *finishedMask {
	if n := len(d.groups); n > 0 {
		return d.groups[n-1].softMask
	}
	return nil
}

func (d *Device) BeginMask(rect geom.Rect, luminosity bool, cs color.Space, bc []float64, cp device.ColorParams) {
	bbox := d.deviceBBox(rect)
	buf := newLayerBuf(bbox, cs, luminosity)
	if bc != nil && cs != nil {
		r, g, b := cs.ToRGB(bc)
		fillBackdrop(buf, buf.ColorSpace.FromRGB(r, g, b))
	}
	d.masks = append(d.masks, &maskLevel{buf: buf, bbox: bbox, luminosity: luminosity})
	d.PushClip(rect)
}

func (d *Device) EndMask() {
	if n := len(d.masks); n > 0 {
		top := d.masks[n-1]
		d.masks = d.masks[:n-1]
		d.pendingMask = &finishedMask{buf: top.buf, bbox: top.bbox, luminosity: top.luminosity}
	}
	d.Pop()
}

func (d *Device) BeginGroup(rect geom.Rect, cs color.Space, isolated, knockout bool, blend device.BlendMode, alpha float64) {
	bbox := d.deviceBBox(rect)
	buf := newLayerBuf(bbox, cs, false)
	g := &groupLevel{buf: buf, bbox: bbox, rect: rect, alpha: alpha, blend: blend, softMask: d.pendingMask}
	d.pendingMask = nil
	d.groups = append(d.groups, g)
	d.PushClip(rect)
}

func (d *Device) EndGroup() {
	if n := len(d.groups); n > 0 {
		g := d.groups[n-1]
		d.groups = d.groups[:n-1]
		d.compositeGroup(g)
	}
	d.Pop()
}

// compositeGroup paints g's offscreen buffer into whatever is now the
// current target (the enclosing group, or Dest), using g's blend mode
// and alpha, and a coverage mask taken from the group buffer's own
// alpha channel.
func (d *Device) compositeGroup(g *groupLevel) {
	dest := d.target()
	bbox := g.bbox.Intersect(dest.Bounds())
	if bbox.IsEmpty() {
		return
	}
	n := g.buf.ColorSpace.N()
	for y := bbox.Y0; y < bbox.Y1; y++ {
		for x := bbox.X0; x < bbox.X1; x++ {
			off := g.buf.PixelOffset(x, y)
			ga := 1.0
			if g.buf.HasAlpha {
				ga = float64(g.buf.Samples[off+n]) / 255
			}
			if ga == 0 {
				continue
			}
			comps := unpackComponents(g.buf, off, n)
			r, gg, b := g.buf.ColorSpace.ToRGB(comps)
			srcCol := dest.ColorSpace.FromRGB(r, gg, b)
			blendPixel(dest, x, y, srcCol, ga*g.alpha, g.blend)
		}
	}
}

func (d *Device) BeginTile(area, view geom.Rect, xstep, ystep float64, ctm geom.Matrix, id int64) int64 {
	bbox := d.deviceBBox(view.Transform(ctm))
	buf := newLayerBuf(bbox, d.target().ColorSpace, false)
	g := &groupLevel{buf: buf, bbox: bbox, alpha: 1, blend: device.BlendNormal,
		isTile: true, tileArea: area, tileView: view, tileXStep: xstep, tileYStep: ystep, tileCTM: ctm}
	d.groups = append(d.groups, g)
	d.PushClip(geom.InfiniteRect)
	return 0
}

func (d *Device) EndTile() {
	n := len(d.groups)
	if n == 0 {
		d.Pop()
		return
	}
	g := d.groups[n-1]
	d.groups = d.groups[:n-1]
	d.Pop()
	d.replicateTile(g)
}

// replicateTile stamps a single rendered tile cell across its area at
// xstep/ystep device-space increments, the simplest faithful rendering
// of a PDF tiling pattern that does not special-case tiles whose xstep
// exactly matches their cell width (the common, seamless case), paying
// a redundant composite per step either way.
func (d *Device) replicateTile(g *groupLevel) {
	areaDev := d.deviceBBox(g.tileArea.Transform(g.tileCTM))
	if areaDev.IsEmpty() || g.tileXStep == 0 || g.tileYStep == 0 {
		d.stampTile(g, 0, 0)
		return
	}
	step := g.tileCTM.ApplyVector(g.tileXStep, g.tileYStep)
	stepX, stepY := step.X, step.Y
	if stepX == 0 {
		stepX = float64(g.bbox.Width())
	}
	if stepY == 0 {
		stepY = float64(g.bbox.Height())
	}
	const maxInstances = 4096
	count := 0
	for oy := float64(areaDev.Y0 - g.bbox.Y1); oy < float64(areaDev.Y1-g.bbox.Y0); oy += absF(stepY) {
		for ox := float64(areaDev.X0 - g.bbox.X1); ox < float64(areaDev.X1-g.bbox.X0); ox += absF(stepX) {
			if d.aborted() || count >= maxInstances {
				return
			}
			d.stampTile(g, int(ox), int(oy))
			count++
		}
	}
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func (d *Device) stampTile(g *groupLevel, dx, dy int) {
	dest := d.target()
	n := g.buf.ColorSpace.N()
	bbox := geom.IRect{X0: g.bbox.X0 + dx, Y0: g.bbox.Y0 + dy, X1: g.bbox.X1 + dx, Y1: g.bbox.Y1 + dy}.Intersect(dest.Bounds())
	for y := bbox.Y0; y < bbox.Y1; y++ {
		for x := bbox.X0; x < bbox.X1; x++ {
			off := g.buf.PixelOffset(x-dx, y-dy)
			ga := 1.0
			if g.buf.HasAlpha {
				ga = float64(g.buf.Samples[off+n]) / 255
			}
			if ga == 0 {
				continue
			}
			comps := unpackComponents(g.buf, off, n)
			r, gg, b := g.buf.ColorSpace.ToRGB(comps)
			srcCol := dest.ColorSpace.FromRGB(r, gg, b)
			blendPixel(dest, x, y, srcCol, ga, device.BlendNormal)
		}
	}
}

func newLayerBuf(bbox geom.IRect, cs color.Space, forceGray bool) *raster.Pixmap {
	if bbox.IsEmpty() {
		bbox = geom.IRect{X0: 0, Y0: 0, X1: 1, Y1: 1}
	}
	if forceGray || cs == nil {
		cs = color.DeviceGray
	}
	return raster.NewPixmapWithBBox(cs, bbox, nil, true)
}

func fillBackdrop(p *raster.Pixmap, col []float64) {
	n := p.ColorSpace.N()
	for y := p.Y; y < p.Y+p.H; y++ {
		for x := p.X; x < p.X+p.W; x++ {
			off := p.PixelOffset(x, y)
			for i := 0; i < n; i++ {
				p.Samples[off+i] = clampByteLocal(col[i] * 255)
			}
			if p.HasAlpha {
				p.Samples[off+n] = 255
			}
		}
	}
}

// glyphOutlinePath unions every glyph's outline (already in run-local
// text space) into one device-space path under ctm, letting text reuse
// the same antialiased fill machinery as ordinary path fills.
func glyphOutlinePath(run *text.Run, ctm geom.Matrix) *path.Path {
	if run.Font == nil {
		return nil
	}
	full := run.TRM.Mul(ctm)
	out := path.New()
	any := false
	for _, g := range run.Glyphs {
		glyphCTM := geom.Matrix{A: 1, B: 0, C: 0, D: 1, E: g.X, F: g.Y}.Mul(full)
		outline := run.Font.GlyphOutline(g.GID, glyphCTM)
		if outline == nil || outline.IsEmpty() {
			continue
		}
		any = true
		outline.Walk(&pathAppender{dst: out})
	}
	if !any {
		return nil
	}
	return out
}

type pathAppender struct{ dst *path.Path }

func (a *pathAppender) MoveTo(x, y float64) { a.dst.MoveTo(x, y) }
func (a *pathAppender) LineTo(x, y float64) { a.dst.LineTo(x, y) }
func (a *pathAppender) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	a.dst.CurveTo(x1, y1, x2, y2, x3, y3)
}
func (a *pathAppender) ClosePath() { a.dst.ClosePath() }

func (d *Device) FillText(run *text.Run, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	if d.Skip() || d.aborted() {
		return
	}
	p := glyphOutlinePath(run, ctm)
	if p == nil {
		return
	}
	bbox := d.deviceBBox(p.Bound(nil, geom.IdentityMatrix))
	if bbox.IsEmpty() {
		return
	}
	cov := fillCoverage(p, geom.IdentityMatrix, bbox)
	d.paint(bbox, cov, cs, col, alpha, device.BlendNormal)
}

func (d *Device) StrokeText(run *text.Run, stroke *path.StrokeState, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	if d.Skip() || d.aborted() {
		return
	}
	p := glyphOutlinePath(run, ctm)
	if p == nil {
		return
	}
	bbox := d.deviceBBox(p.Bound(stroke, geom.IdentityMatrix))
	if bbox.IsEmpty() {
		return
	}
	cov := strokeCoverage(p, stroke, geom.IdentityMatrix, bbox)
	d.paint(bbox, cov, cs, col, alpha, device.BlendNormal)
}

func (d *Device) ClipText(run *text.Run, ctm geom.Matrix, scissor geom.Rect) {
	bbox := d.deviceBBox(scissor)
	var mask *image.Alpha
	if p := glyphOutlinePath(run, ctm); p != nil && !bbox.IsEmpty() {
		mask = fillCoverage(p, geom.IdentityMatrix, bbox)
	}
	d.pushClipMask(bbox, mask, scissor)
}

func (d *Device) ClipStrokeText(run *text.Run, stroke *path.StrokeState, ctm geom.Matrix, scissor geom.Rect) {
	bbox := d.deviceBBox(scissor)
	var mask *image.Alpha
	if p := glyphOutlinePath(run, ctm); p != nil && !bbox.IsEmpty() {
		mask = strokeCoverage(p, stroke, geom.IdentityMatrix, bbox)
	}
	d.pushClipMask(bbox, mask, scissor)
}

func (d *Device) IgnoreText(run *text.Run, ctm geom.Matrix) {}
