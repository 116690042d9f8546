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

// Package draw implements the CPU rasterizing Device (§4.9): it paints
// fills, strokes, text, images and shadings into a raster.Pixmap using
// golang.org/x/image/vector for antialiased edge coverage, and supports
// transparency groups, soft masks and tiling on top of that core.
package draw

import (
	"image"

	"github.com/inkfold/fitz"
	"github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/device"
	"github.com/inkfold/fitz/geom"
	"github.com/inkfold/fitz/path"
	"github.com/inkfold/fitz/raster"
)

// clipLevel is one entry of the clip stack: a rectangular scissor (kept
// in device.Base) paired with an optional non-rectangular coverage mask.
// A nil Mask means "fully opaque within the scissor", the common case
// for rectangle clips, avoiding a mask allocation.
type clipLevel struct {
	mask    *image.Alpha // device-space, offset by bbox.Min
	bbox    geom.IRect
	combined *image.Alpha // mask intersected with every enclosing level's mask
}

// Device rasterizes directly into Dest. Cookie, if non-nil, is polled
// between paint operations so a caller can abort a long render.
type Device struct {
	device.Base

	Dest   *raster.Pixmap
	Cookie *fitz.Cookie

	clips  []clipLevel
	groups []*groupLevel
	masks  []*maskLevel

	// pendingMask holds the softmask produced by the most recent EndMask,
	// waiting to be attached to the next BeginGroup (§4.9 begin_mask).
	pendingMask *finishedMask
}

var _ device.Device = (*Device)(nil)

// New returns a rasterizing device painting into dest.
func New(dest *raster.Pixmap, cookie *fitz.Cookie) *Device {
	return &Device{Dest: dest, Cookie: cookie}
}

func (d *Device) aborted() bool {
	return d.Cookie != nil && d.Cookie.Aborted()
}

func (d *Device) Close() error { return nil }

func (d *Device) BeginPage(rect geom.Rect, ctm geom.Matrix) {}
func (d *Device) EndPage()                                  {}

// clipMask returns the coverage mask in effect at the current depth, or
// nil if the clip is a plain rectangle (use d.Scissor() alone).
func (d *Device) clipMask() *image.Alpha {
	if n := len(d.clips); n > 0 {
		return d.clips[n-1].combined
	}
	return nil
}

func (d *Device) deviceBBox(r geom.Rect) geom.IRect {
	bbox := r.Intersect(d.Scissor()).Round()
	return bbox.Intersect(d.Dest.Bounds())
}

func (d *Device) FillPath(p *path.Path, evenOdd bool, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	if d.Skip() || d.aborted() || p == nil {
		return
	}
	bbox := d.deviceBBox(p.Bound(nil, ctm))
	if bbox.IsEmpty() {
		return
	}
	cov := fillCoverage(p, ctm, bbox)
	d.paint(bbox, cov, cs, col, alpha, device.BlendNormal)
}

func (d *Device) StrokePath(p *path.Path, stroke *path.StrokeState, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	if d.Skip() || d.aborted() || p == nil {
		return
	}
	bbox := d.deviceBBox(p.Bound(stroke, ctm))
	if bbox.IsEmpty() {
		return
	}
	cov := strokeCoverage(p, stroke, ctm, bbox)
	d.paint(bbox, cov, cs, col, alpha, device.BlendNormal)
}

func (d *Device) pushClipMask(bbox geom.IRect, mask *image.Alpha, scissor geom.Rect) {
	parent := d.clipMask()
	d.PushClip(scissor)
	combined := mask
	if parent != nil {
		combined = intersectMasks(mask, parent, bbox)
	}
	d.clips = append(d.clips, clipLevel{mask: mask, bbox: bbox, combined: combined})
}

func (d *Device) popClipLevel() {
	if n := len(d.clips); n > 0 {
		d.clips = d.clips[:n-1]
	}
}

func (d *Device) ClipPath(p *path.Path, evenOdd bool, ctm geom.Matrix, scissor geom.Rect) {
	bbox := d.deviceBBox(scissor)
	var mask *image.Alpha
	if p != nil && !bbox.IsEmpty() {
		mask = fillCoverage(p, ctm, bbox)
	}
	d.pushClipMask(bbox, mask, scissor)
}

func (d *Device) ClipStrokePath(p *path.Path, stroke *path.StrokeState, ctm geom.Matrix, scissor geom.Rect) {
	bbox := d.deviceBBox(scissor)
	var mask *image.Alpha
	if p != nil && !bbox.IsEmpty() {
		mask = strokeCoverage(p, stroke, ctm, bbox)
	}
	d.pushClipMask(bbox, mask, scissor)
}

func (d *Device) PopClip() {
	d.popClipLevel()
	d.Pop()
}

func (d *Device) RenderFlags(set, clear device.Hints) { d.SetHints(set, clear) }

func (d *Device) SetDefaultColorSpaces(defaults device.DefaultColorSpaces) {}

func (d *Device) BeginLayer(name string) { d.PushClip(geom.InfiniteRect) }
func (d *Device) EndLayer()              { d.Pop() }
