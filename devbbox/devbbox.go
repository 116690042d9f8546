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

// Package devbbox implements a Device (§4.7, §1 "bbox") that draws
// nothing: it only accumulates the union of every painted operation's
// transformed bounding box, intersected with the current clip scissor.
package devbbox

import (
	"github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/device"
	"github.com/inkfold/fitz/geom"
	"github.com/inkfold/fitz/image"
	"github.com/inkfold/fitz/path"
	"github.com/inkfold/fitz/shade"
	"github.com/inkfold/fitz/text"
)

// Device accumulates Bounds, the union of every visible paint's bbox.
type Device struct {
	device.Base
	Bounds geom.Rect
}

var _ device.Device = (*Device)(nil)

// New returns a bbox device with an empty accumulated Bounds.
func New() *Device { return &Device{} }

func (d *Device) add(r geom.Rect) {
	d.Bounds = d.Bounds.Union(r.Intersect(d.Scissor()))
}

func (d *Device) Close() error                        { return nil }
func (d *Device) BeginPage(rect geom.Rect, ctm geom.Matrix) {}
func (d *Device) EndPage()                             {}

func (d *Device) FillPath(p *path.Path, evenOdd bool, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	if d.Skip() {
		return
	}
	d.add(p.Bound(nil, ctm))
}

func (d *Device) StrokePath(p *path.Path, stroke *path.StrokeState, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	if d.Skip() {
		return
	}
	d.add(p.Bound(stroke, ctm))
}

func (d *Device) ClipPath(p *path.Path, evenOdd bool, ctm geom.Matrix, scissor geom.Rect) {
	d.PushClip(scissor)
}

func (d *Device) ClipStrokePath(p *path.Path, stroke *path.StrokeState, ctm geom.Matrix, scissor geom.Rect) {
	d.PushClip(scissor)
}

func (d *Device) FillText(run *text.Run, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	if d.Skip() {
		return
	}
	d.add(run.BoundText(nil, ctm))
}

func (d *Device) StrokeText(run *text.Run, stroke *path.StrokeState, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	if d.Skip() {
		return
	}
	d.add(run.BoundText(stroke, ctm))
}

func (d *Device) ClipText(run *text.Run, ctm geom.Matrix, scissor geom.Rect) {
	d.PushClip(scissor)
}

func (d *Device) ClipStrokeText(run *text.Run, stroke *path.StrokeState, ctm geom.Matrix, scissor geom.Rect) {
	d.PushClip(scissor)
}

func (d *Device) IgnoreText(run *text.Run, ctm geom.Matrix) {}

func (d *Device) FillShade(shd *shade.Shading, ctm geom.Matrix, alpha float64, cp device.ColorParams) {
	if d.Skip() {
		return
	}
	d.add(shd.Bounds().Transform(ctm))
}

func (d *Device) FillImage(img *image.Image, ctm geom.Matrix, alpha float64, cp device.ColorParams) {
	if d.Skip() {
		return
	}
	d.add(geom.Rect{X0: 0, Y0: 0, X1: 1, Y1: 1}.Transform(ctm))
}

func (d *Device) FillImageMask(img *image.Image, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	d.FillImage(img, ctm, alpha, cp)
}

func (d *Device) ClipImageMask(img *image.Image, ctm geom.Matrix, scissor geom.Rect) {
	d.PushClip(scissor)
}

func (d *Device) PopClip() { d.Pop() }

func (d *Device) BeginMask(rect geom.Rect, luminosity bool, cs color.Space, bc []float64, cp device.ColorParams) {
	d.PushClip(rect)
}
func (d *Device) EndMask() { d.Pop() }

func (d *Device) BeginGroup(rect geom.Rect, cs color.Space, isolated, knockout bool, blend device.BlendMode, alpha float64) {
	d.PushClip(rect)
}
func (d *Device) EndGroup() { d.Pop() }

func (d *Device) BeginTile(area, view geom.Rect, xstep, ystep float64, ctm geom.Matrix, id int64) int64 {
	d.PushClip(area)
	return 0
}
func (d *Device) EndTile() { d.Pop() }

func (d *Device) RenderFlags(set, clear device.Hints)                     { d.SetHints(set, clear) }
func (d *Device) SetDefaultColorSpaces(defaults device.DefaultColorSpaces) {}

func (d *Device) BeginLayer(name string) { d.PushClip(geom.InfiniteRect) }
func (d *Device) EndLayer()              { d.Pop() }
