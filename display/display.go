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

// Package display implements a display list (§4.8): a Device that
// records every call it receives instead of painting, and a List.Play
// method that replays the recording against any other Device, optionally
// restricted to an area of interest for cheap clip-subtree culling.
//
// The node layout is adapted from a packed 32-bit C bitfield
// (cmd/size/rect/path/cs/color/alpha/ctm/stroke/flags, one node per
// graphics call) into an idiomatic Go struct: each Node carries only the
// fields that changed since the previous node (a nil ColorSpace, a zero
// Path, an AlphaSet of false all mean "reuse the previous value"), which
// is the same state-compression idea expressed without hand-packed bits.
package display

import (
	"github.com/inkfold/fitz"
	"github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/device"
	"github.com/inkfold/fitz/geom"
	"github.com/inkfold/fitz/image"
	"github.com/inkfold/fitz/path"
	"github.com/inkfold/fitz/shade"
	"github.com/inkfold/fitz/text"
)

// Command names the kind of call a Node records.
type Command int

const (
	CmdBeginPage Command = iota
	CmdEndPage
	CmdFillPath
	CmdStrokePath
	CmdClipPath
	CmdClipStrokePath
	CmdFillText
	CmdStrokeText
	CmdClipText
	CmdClipStrokeText
	CmdIgnoreText
	CmdFillShade
	CmdFillImage
	CmdFillImageMask
	CmdClipImageMask
	CmdPopClip
	CmdBeginMask
	CmdEndMask
	CmdBeginGroup
	CmdEndGroup
	CmdBeginTile
	CmdEndTile
	CmdRenderFlags
	CmdSetDefaultColorSpaces
	CmdBeginLayer
	CmdEndLayer
)

// Node is one recorded call. Only the fields relevant to Cmd are
// populated; state fields (ColorSpace, Color, CTM, Stroke, Path) are left
// zero/nil when the call did not change them, and the replayer reuses the
// value carried forward from the previous node that did set them.
type Node struct {
	Cmd Command

	RectSet bool
	Rect    geom.Rect

	Path    *path.Path
	EvenOdd bool

	Stroke *path.StrokeState

	ColorSpace color.Space
	Color      []float64

	AlphaSet bool
	Alpha    float64
	CP       device.ColorParams

	CTMSet bool
	CTM    geom.Matrix

	Run *text.Run

	Shading *shade.Shading
	Image   *image.Image

	Luminosity bool
	Isolated   bool
	Knockout   bool
	Blend      device.BlendMode

	XStep, YStep float64
	TileID       int64

	Name string

	SetHints, ClearHints device.Hints
	Defaults             device.DefaultColorSpaces
}

func isPush(cmd Command) bool {
	switch cmd {
	case CmdClipPath, CmdClipStrokePath, CmdClipText, CmdClipStrokeText, CmdClipImageMask,
		CmdBeginMask, CmdBeginGroup, CmdBeginTile, CmdBeginLayer:
		return true
	}
	return false
}

func isPop(cmd Command) bool {
	switch cmd {
	case CmdPopClip, CmdEndMask, CmdEndGroup, CmdEndTile, CmdEndLayer:
		return true
	}
	return false
}

// List is a recorded sequence of device calls, reusable across any
// number of Play calls and independent of the device that recorded it.
type List struct {
	Nodes []Node
}

// Recorder is a Device that appends every call it receives to a List as
// a delta-compressed Node, tracking the same "what changed since last
// time" state the C implementation tracked in fz_list_device.
type Recorder struct {
	device.Base

	List *List

	haveCTM   bool
	lastCTM   geom.Matrix
	lastCS    color.Space
	lastColor []float64
	haveAlpha bool
	lastAlpha float64
	lastPath  *path.Path
	lastStroke *path.StrokeState
}

var _ device.Device = (*Recorder)(nil)

// NewRecorder returns a Recorder appending to a freshly allocated List.
func NewRecorder() *Recorder {
	return &Recorder{List: &List{}}
}

func (r *Recorder) append(n Node) {
	r.List.Nodes = append(r.List.Nodes, n)
}

func (r *Recorder) ctmDelta(ctm geom.Matrix) (geom.Matrix, bool) {
	if r.haveCTM && ctm == r.lastCTM {
		return geom.Matrix{}, false
	}
	r.haveCTM = true
	r.lastCTM = ctm
	return ctm, true
}

func (r *Recorder) pathDelta(p *path.Path) *path.Path {
	if p == r.lastPath {
		return nil
	}
	r.lastPath = p
	return p
}

func (r *Recorder) strokeDelta(s *path.StrokeState) *path.StrokeState {
	if s == r.lastStroke {
		return nil
	}
	r.lastStroke = s
	return s
}

func (r *Recorder) colorDelta(cs color.Space, col []float64) (color.Space, []float64) {
	if cs == r.lastCS && sameColor(col, r.lastColor) {
		return nil, nil
	}
	r.lastCS = cs
	r.lastColor = col
	return cs, col
}

func sameColor(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (r *Recorder) alphaDelta(alpha float64) (float64, bool) {
	if r.haveAlpha && alpha == r.lastAlpha {
		return 0, false
	}
	r.haveAlpha = true
	r.lastAlpha = alpha
	return alpha, true
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) BeginPage(rect geom.Rect, ctm geom.Matrix) {
	newCTM, ctmSet := r.ctmDelta(ctm)
	r.append(Node{Cmd: CmdBeginPage, RectSet: true, Rect: rect, CTMSet: ctmSet, CTM: newCTM})
}

func (r *Recorder) EndPage() { r.append(Node{Cmd: CmdEndPage}) }

func (r *Recorder) FillPath(p *path.Path, evenOdd bool, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	if r.Skip() {
		return
	}
	ncs, ncol := r.colorDelta(cs, col)
	newCTM, ctmSet := r.ctmDelta(ctm)
	na, aSet := r.alphaDelta(alpha)
	r.append(Node{Cmd: CmdFillPath, Path: r.pathDelta(p), EvenOdd: evenOdd, ColorSpace: ncs, Color: ncol,
		CTMSet: ctmSet, CTM: newCTM, AlphaSet: aSet, Alpha: na, CP: cp})
}

func (r *Recorder) StrokePath(p *path.Path, stroke *path.StrokeState, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	if r.Skip() {
		return
	}
	ncs, ncol := r.colorDelta(cs, col)
	newCTM, ctmSet := r.ctmDelta(ctm)
	na, aSet := r.alphaDelta(alpha)
	r.append(Node{Cmd: CmdStrokePath, Path: r.pathDelta(p), Stroke: r.strokeDelta(stroke), ColorSpace: ncs, Color: ncol,
		CTMSet: ctmSet, CTM: newCTM, AlphaSet: aSet, Alpha: na, CP: cp})
}

func (r *Recorder) ClipPath(p *path.Path, evenOdd bool, ctm geom.Matrix, scissor geom.Rect) {
	newCTM, ctmSet := r.ctmDelta(ctm)
	r.append(Node{Cmd: CmdClipPath, Path: r.pathDelta(p), EvenOdd: evenOdd, CTMSet: ctmSet, CTM: newCTM,
		RectSet: true, Rect: scissor})
	r.PushClip(scissor)
}

func (r *Recorder) ClipStrokePath(p *path.Path, stroke *path.StrokeState, ctm geom.Matrix, scissor geom.Rect) {
	newCTM, ctmSet := r.ctmDelta(ctm)
	r.append(Node{Cmd: CmdClipStrokePath, Path: r.pathDelta(p), Stroke: r.strokeDelta(stroke), CTMSet: ctmSet, CTM: newCTM,
		RectSet: true, Rect: scissor})
	r.PushClip(scissor)
}

func (r *Recorder) FillText(run *text.Run, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	if r.Skip() {
		return
	}
	ncs, ncol := r.colorDelta(cs, col)
	newCTM, ctmSet := r.ctmDelta(ctm)
	na, aSet := r.alphaDelta(alpha)
	r.append(Node{Cmd: CmdFillText, Run: run, ColorSpace: ncs, Color: ncol, CTMSet: ctmSet, CTM: newCTM, AlphaSet: aSet, Alpha: na, CP: cp})
}

func (r *Recorder) StrokeText(run *text.Run, stroke *path.StrokeState, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	if r.Skip() {
		return
	}
	ncs, ncol := r.colorDelta(cs, col)
	newCTM, ctmSet := r.ctmDelta(ctm)
	na, aSet := r.alphaDelta(alpha)
	r.append(Node{Cmd: CmdStrokeText, Run: run, Stroke: r.strokeDelta(stroke), ColorSpace: ncs, Color: ncol,
		CTMSet: ctmSet, CTM: newCTM, AlphaSet: aSet, Alpha: na, CP: cp})
}

func (r *Recorder) ClipText(run *text.Run, ctm geom.Matrix, scissor geom.Rect) {
	newCTM, ctmSet := r.ctmDelta(ctm)
	r.append(Node{Cmd: CmdClipText, Run: run, CTMSet: ctmSet, CTM: newCTM, RectSet: true, Rect: scissor})
	r.PushClip(scissor)
}

func (r *Recorder) ClipStrokeText(run *text.Run, stroke *path.StrokeState, ctm geom.Matrix, scissor geom.Rect) {
	newCTM, ctmSet := r.ctmDelta(ctm)
	r.append(Node{Cmd: CmdClipStrokeText, Run: run, Stroke: r.strokeDelta(stroke), CTMSet: ctmSet, CTM: newCTM,
		RectSet: true, Rect: scissor})
	r.PushClip(scissor)
}

func (r *Recorder) IgnoreText(run *text.Run, ctm geom.Matrix) {
	newCTM, ctmSet := r.ctmDelta(ctm)
	r.append(Node{Cmd: CmdIgnoreText, Run: run, CTMSet: ctmSet, CTM: newCTM})
}

func (r *Recorder) FillShade(shd *shade.Shading, ctm geom.Matrix, alpha float64, cp device.ColorParams) {
	if r.Skip() {
		return
	}
	newCTM, ctmSet := r.ctmDelta(ctm)
	na, aSet := r.alphaDelta(alpha)
	r.append(Node{Cmd: CmdFillShade, Shading: shd, CTMSet: ctmSet, CTM: newCTM, AlphaSet: aSet, Alpha: na, CP: cp})
}

func (r *Recorder) FillImage(img *image.Image, ctm geom.Matrix, alpha float64, cp device.ColorParams) {
	if r.Skip() {
		return
	}
	newCTM, ctmSet := r.ctmDelta(ctm)
	na, aSet := r.alphaDelta(alpha)
	r.append(Node{Cmd: CmdFillImage, Image: img, CTMSet: ctmSet, CTM: newCTM, AlphaSet: aSet, Alpha: na, CP: cp})
}

func (r *Recorder) FillImageMask(img *image.Image, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	if r.Skip() {
		return
	}
	ncs, ncol := r.colorDelta(cs, col)
	newCTM, ctmSet := r.ctmDelta(ctm)
	na, aSet := r.alphaDelta(alpha)
	r.append(Node{Cmd: CmdFillImageMask, Image: img, ColorSpace: ncs, Color: ncol, CTMSet: ctmSet, CTM: newCTM, AlphaSet: aSet, Alpha: na, CP: cp})
}

func (r *Recorder) ClipImageMask(img *image.Image, ctm geom.Matrix, scissor geom.Rect) {
	newCTM, ctmSet := r.ctmDelta(ctm)
	r.append(Node{Cmd: CmdClipImageMask, Image: img, CTMSet: ctmSet, CTM: newCTM, RectSet: true, Rect: scissor})
	r.PushClip(scissor)
}

func (r *Recorder) PopClip() {
	r.append(Node{Cmd: CmdPopClip})
	r.Pop()
}

func (r *Recorder) BeginMask(rect geom.Rect, luminosity bool, cs color.Space, bc []float64, cp device.ColorParams) {
	ncs, ncol := r.colorDelta(cs, bc)
	r.append(Node{Cmd: CmdBeginMask, RectSet: true, Rect: rect, Luminosity: luminosity, ColorSpace: ncs, Color: ncol, CP: cp})
	r.PushClip(rect)
}
func (r *Recorder) EndMask() {
	r.append(Node{Cmd: CmdEndMask})
	r.Pop()
}

func (r *Recorder) BeginGroup(rect geom.Rect, cs color.Space, isolated, knockout bool, blend device.BlendMode, alpha float64) {
	na, aSet := r.alphaDelta(alpha)
	if cs != nil {
		r.lastCS = cs
	}
	r.append(Node{Cmd: CmdBeginGroup, RectSet: true, Rect: rect, ColorSpace: cs, Isolated: isolated, Knockout: knockout,
		Blend: blend, AlphaSet: aSet, Alpha: na})
	r.PushClip(rect)
}
func (r *Recorder) EndGroup() {
	r.append(Node{Cmd: CmdEndGroup})
	r.Pop()
}

func (r *Recorder) BeginTile(area, view geom.Rect, xstep, ystep float64, ctm geom.Matrix, id int64) int64 {
	newCTM, ctmSet := r.ctmDelta(ctm)
	r.append(Node{Cmd: CmdBeginTile, RectSet: true, Rect: area, XStep: xstep, YStep: ystep, CTMSet: ctmSet, CTM: newCTM, TileID: id})
	r.PushClip(geom.InfiniteRect)
	return 0
}
func (r *Recorder) EndTile() {
	r.append(Node{Cmd: CmdEndTile})
	r.Pop()
}

func (r *Recorder) RenderFlags(set, clear device.Hints) {
	r.append(Node{Cmd: CmdRenderFlags, SetHints: set, ClearHints: clear})
	r.SetHints(set, clear)
}

func (r *Recorder) SetDefaultColorSpaces(defaults device.DefaultColorSpaces) {
	r.append(Node{Cmd: CmdSetDefaultColorSpaces, Defaults: defaults})
}

func (r *Recorder) BeginLayer(name string) {
	r.append(Node{Cmd: CmdBeginLayer, Name: name})
	r.PushClip(geom.InfiniteRect)
}
func (r *Recorder) EndLayer() {
	r.append(Node{Cmd: CmdEndLayer})
	r.Pop()
}

// Play replays the list against dev, restricted to area: any clip-style
// subtree (Clip*, BeginMask, BeginGroup, BeginTile, BeginLayer) whose
// recorded Rect does not intersect area is skipped wholesale, along with
// every node nested inside it up to its matching terminator, mirroring
// the byte-skip culling fz_run_page_with_cookie performs against a
// display list's per-node rect. Pass geom.InfiniteRect for no culling.
// cookie, if non-nil, is polled between nodes and aborts the replay.
func (l *List) Play(dev device.Device, area geom.Rect, cookie *fitz.Cookie) error {
	var (
		curCTM     geom.Matrix
		curCS      color.Space
		curColor   []float64
		curAlpha   float64
		curPath    *path.Path
		curStroke  *path.StrokeState
		skipDepth  int
	)

	for _, n := range l.Nodes {
		if cookie != nil && cookie.Aborted() {
			return fitz.Errorf(fitz.Abort, "display list replay aborted")
		}

		if n.CTMSet {
			curCTM = n.CTM
		}
		if n.ColorSpace != nil {
			curCS = n.ColorSpace
		}
		if n.Color != nil {
			curColor = n.Color
		}
		if n.AlphaSet {
			curAlpha = n.Alpha
		}
		if n.Path != nil {
			curPath = n.Path
		}
		if n.Stroke != nil {
			curStroke = n.Stroke
		}

		if skipDepth > 0 {
			if isPush(n.Cmd) {
				skipDepth++
			}
			if isPop(n.Cmd) {
				skipDepth--
			}
			continue
		}

		if isPush(n.Cmd) && n.RectSet && !area.IsInfinite() && !rectsIntersect(n.Rect, area) {
			skipDepth = 1
			continue
		}

		switch n.Cmd {
		case CmdBeginPage:
			dev.BeginPage(n.Rect, curCTM)
		case CmdEndPage:
			dev.EndPage()
		case CmdFillPath:
			dev.FillPath(curPath, n.EvenOdd, curCTM, curCS, curColor, curAlpha, n.CP)
		case CmdStrokePath:
			dev.StrokePath(curPath, curStroke, curCTM, curCS, curColor, curAlpha, n.CP)
		case CmdClipPath:
			dev.ClipPath(curPath, n.EvenOdd, curCTM, n.Rect)
		case CmdClipStrokePath:
			dev.ClipStrokePath(curPath, curStroke, curCTM, n.Rect)
		case CmdFillText:
			dev.FillText(n.Run, curCTM, curCS, curColor, curAlpha, n.CP)
		case CmdStrokeText:
			dev.StrokeText(n.Run, curStroke, curCTM, curCS, curColor, curAlpha, n.CP)
		case CmdClipText:
			dev.ClipText(n.Run, curCTM, n.Rect)
		case CmdClipStrokeText:
			dev.ClipStrokeText(n.Run, curStroke, curCTM, n.Rect)
		case CmdIgnoreText:
			dev.IgnoreText(n.Run, curCTM)
		case CmdFillShade:
			dev.FillShade(n.Shading, curCTM, curAlpha, n.CP)
		case CmdFillImage:
			dev.FillImage(n.Image, curCTM, curAlpha, n.CP)
		case CmdFillImageMask:
			dev.FillImageMask(n.Image, curCTM, curCS, curColor, curAlpha, n.CP)
		case CmdClipImageMask:
			dev.ClipImageMask(n.Image, curCTM, n.Rect)
		case CmdPopClip:
			dev.PopClip()
		case CmdBeginMask:
			dev.BeginMask(n.Rect, n.Luminosity, curCS, curColor, n.CP)
		case CmdEndMask:
			dev.EndMask()
		case CmdBeginGroup:
			dev.BeginGroup(n.Rect, curCS, n.Isolated, n.Knockout, n.Blend, curAlpha)
		case CmdEndGroup:
			dev.EndGroup()
		case CmdBeginTile:
			dev.BeginTile(n.Rect, n.Rect, n.XStep, n.YStep, curCTM, n.TileID)
		case CmdEndTile:
			dev.EndTile()
		case CmdRenderFlags:
			dev.RenderFlags(n.SetHints, n.ClearHints)
		case CmdSetDefaultColorSpaces:
			dev.SetDefaultColorSpaces(n.Defaults)
		case CmdBeginLayer:
			dev.BeginLayer(n.Name)
		case CmdEndLayer:
			dev.EndLayer()
		}
	}
	return nil
}

func rectsIntersect(a, b geom.Rect) bool {
	if a.IsInfinite() || b.IsInfinite() {
		return true
	}
	return !a.Intersect(b).IsEmpty()
}
