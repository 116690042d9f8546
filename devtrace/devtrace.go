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

// Package devtrace implements a Device (§4.7, §1 "trace") that writes a
// one-line-per-call textual log of every drawing command to an io.Writer,
// for debugging a page's command stream without rasterizing it.
package devtrace

import (
	"fmt"
	"io"

	"github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/device"
	"github.com/inkfold/fitz/geom"
	"github.com/inkfold/fitz/image"
	"github.com/inkfold/fitz/path"
	"github.com/inkfold/fitz/shade"
	"github.com/inkfold/fitz/text"
)

// Device writes a trace of every drawing call to W, indented by the
// current scissor-stack depth.
type Device struct {
	device.Base
	W io.Writer
}

var _ device.Device = (*Device)(nil)

// New returns a trace device writing to w.
func New(w io.Writer) *Device { return &Device{W: w} }

func (d *Device) line(format string, args ...any) {
	for i := 0; i < d.Depth(); i++ {
		fmt.Fprint(d.W, "  ")
	}
	fmt.Fprintf(d.W, format+"\n", args...)
}

func (d *Device) Close() error { return nil }

func (d *Device) BeginPage(rect geom.Rect, ctm geom.Matrix) {
	d.line("begin_page %+v ctm=%+v", rect, ctm)
}
func (d *Device) EndPage() { d.line("end_page") }

func (d *Device) FillPath(p *path.Path, evenOdd bool, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	if d.Skip() {
		return
	}
	d.line("fill_path even_odd=%v alpha=%v cs=%s", evenOdd, alpha, csName(cs))
}

func (d *Device) StrokePath(p *path.Path, stroke *path.StrokeState, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	if d.Skip() {
		return
	}
	d.line("stroke_path width=%v alpha=%v cs=%s", stroke.LineWidth, alpha, csName(cs))
}

func (d *Device) ClipPath(p *path.Path, evenOdd bool, ctm geom.Matrix, scissor geom.Rect) {
	d.line("clip_path even_odd=%v scissor=%+v", evenOdd, scissor)
	d.PushClip(scissor)
}

func (d *Device) ClipStrokePath(p *path.Path, stroke *path.StrokeState, ctm geom.Matrix, scissor geom.Rect) {
	d.line("clip_stroke_path scissor=%+v", scissor)
	d.PushClip(scissor)
}

func (d *Device) FillText(run *text.Run, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	if d.Skip() {
		return
	}
	d.line("fill_text glyphs=%d alpha=%v", len(run.Glyphs), alpha)
}

func (d *Device) StrokeText(run *text.Run, stroke *path.StrokeState, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	if d.Skip() {
		return
	}
	d.line("stroke_text glyphs=%d alpha=%v", len(run.Glyphs), alpha)
}

func (d *Device) ClipText(run *text.Run, ctm geom.Matrix, scissor geom.Rect) {
	d.line("clip_text glyphs=%d scissor=%+v", len(run.Glyphs), scissor)
	d.PushClip(scissor)
}

func (d *Device) ClipStrokeText(run *text.Run, stroke *path.StrokeState, ctm geom.Matrix, scissor geom.Rect) {
	d.line("clip_stroke_text glyphs=%d scissor=%+v", len(run.Glyphs), scissor)
	d.PushClip(scissor)
}

func (d *Device) IgnoreText(run *text.Run, ctm geom.Matrix) {
	d.line("ignore_text glyphs=%d", len(run.Glyphs))
}

func (d *Device) FillShade(shd *shade.Shading, ctm geom.Matrix, alpha float64, cp device.ColorParams) {
	if d.Skip() {
		return
	}
	d.line("fill_shade type=%d alpha=%v", shd.Type, alpha)
}

func (d *Device) FillImage(img *image.Image, ctm geom.Matrix, alpha float64, cp device.ColorParams) {
	if d.Skip() {
		return
	}
	d.line("fill_image %dx%d alpha=%v", img.W, img.H, alpha)
}

func (d *Device) FillImageMask(img *image.Image, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	if d.Skip() {
		return
	}
	d.line("fill_image_mask %dx%d alpha=%v", img.W, img.H, alpha)
}

func (d *Device) ClipImageMask(img *image.Image, ctm geom.Matrix, scissor geom.Rect) {
	d.line("clip_image_mask scissor=%+v", scissor)
	d.PushClip(scissor)
}

func (d *Device) PopClip() {
	d.line("pop_clip")
	d.Pop()
}

func (d *Device) BeginMask(rect geom.Rect, luminosity bool, cs color.Space, bc []float64, cp device.ColorParams) {
	d.line("begin_mask luminosity=%v rect=%+v", luminosity, rect)
	d.PushClip(rect)
}
func (d *Device) EndMask() {
	d.line("end_mask")
	d.Pop()
}

func (d *Device) BeginGroup(rect geom.Rect, cs color.Space, isolated, knockout bool, blend device.BlendMode, alpha float64) {
	d.line("begin_group isolated=%v knockout=%v blend=%v alpha=%v", isolated, knockout, blend, alpha)
	d.PushClip(rect)
}
func (d *Device) EndGroup() {
	d.line("end_group")
	d.Pop()
}

func (d *Device) BeginTile(area, view geom.Rect, xstep, ystep float64, ctm geom.Matrix, id int64) int64 {
	d.line("begin_tile id=%d xstep=%v ystep=%v", id, xstep, ystep)
	d.PushClip(area)
	return 0
}
func (d *Device) EndTile() {
	d.line("end_tile")
	d.Pop()
}

func (d *Device) RenderFlags(set, clear device.Hints) {
	d.line("render_flags set=%v clear=%v", set, clear)
	d.SetHints(set, clear)
}

func (d *Device) SetDefaultColorSpaces(defaults device.DefaultColorSpaces) {
	d.line("set_default_colorspaces")
}

func (d *Device) BeginLayer(name string) {
	d.line("begin_layer %q", name)
	d.PushClip(geom.InfiniteRect)
}
func (d *Device) EndLayer() {
	d.line("end_layer")
	d.Pop()
}

func csName(cs color.Space) string {
	if cs == nil {
		return "<nil>"
	}
	return cs.Name()
}
