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

// Package device defines the polymorphic drawing sink (§4.7): every
// back-end (raster, text extraction, bounding-box, trace, display-list
// recording) implements Device, and Base supplies the shared error-depth
// and scissor-stack bookkeeping every back-end embeds.
package device

import (
	"github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/geom"
	"github.com/inkfold/fitz/image"
	"github.com/inkfold/fitz/path"
	"github.com/inkfold/fitz/shade"
	"github.com/inkfold/fitz/text"
)

// ColorParams carries the color-management hints accompanying every
// paint operation: the ICC rendering intent, whether black-point
// compensation applies, and overprint behavior for separations.
type ColorParams struct {
	RenderingIntent        RenderingIntent
	BlackPointCompensation bool
	OverprintMode          bool
	OverprintControl       bool
}

// RenderingIntent selects an ICC rendering intent.
type RenderingIntent int

const (
	Perceptual RenderingIntent = iota
	RelativeColorimetric
	Saturation
	AbsoluteColorimetric
)

// BlendMode names a PDF transparency blend mode (§4.9 begin_group).
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
)

// Hints is a bitmask of device-wide behavior toggles (§4.7).
type Hints int

const (
	IgnoreImages Hints = 1 << iota
	IgnoreShades
	MaintainContainerStack
	NoCache
	NoInterpolate
)

// DefaultColorSpaces supplies the page's default Gray/RGB/CMYK spaces,
// used when content specifies the generic "DeviceGray"-style name rather
// than an explicit ICC profile (§4.7 set_default_colorspaces).
type DefaultColorSpaces struct {
	Gray, RGB, CMYK color.Space
}

// Device is the polymorphic sink every drawing command is dispatched to
// (§4.7). Every push (ClipPath, ClipStrokePath, ClipText, ClipStrokeText,
// ClipImageMask, BeginMask, BeginGroup, BeginTile, BeginLayer) has a
// matching pop (PopClip, EndMask, EndGroup, EndTile, EndLayer).
type Device interface {
	Close() error

	BeginPage(rect geom.Rect, ctm geom.Matrix)
	EndPage()

	FillPath(p *path.Path, evenOdd bool, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp ColorParams)
	StrokePath(p *path.Path, stroke *path.StrokeState, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp ColorParams)
	ClipPath(p *path.Path, evenOdd bool, ctm geom.Matrix, scissor geom.Rect)
	ClipStrokePath(p *path.Path, stroke *path.StrokeState, ctm geom.Matrix, scissor geom.Rect)

	FillText(run *text.Run, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp ColorParams)
	StrokeText(run *text.Run, stroke *path.StrokeState, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp ColorParams)
	ClipText(run *text.Run, ctm geom.Matrix, scissor geom.Rect)
	ClipStrokeText(run *text.Run, stroke *path.StrokeState, ctm geom.Matrix, scissor geom.Rect)
	IgnoreText(run *text.Run, ctm geom.Matrix)

	FillShade(shd *shade.Shading, ctm geom.Matrix, alpha float64, cp ColorParams)
	FillImage(img *image.Image, ctm geom.Matrix, alpha float64, cp ColorParams)
	FillImageMask(img *image.Image, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp ColorParams)
	ClipImageMask(img *image.Image, ctm geom.Matrix, scissor geom.Rect)

	PopClip()

	BeginMask(rect geom.Rect, luminosity bool, cs color.Space, bc []float64, cp ColorParams)
	EndMask()

	BeginGroup(rect geom.Rect, cs color.Space, isolated, knockout bool, blend BlendMode, alpha float64)
	EndGroup()

	// BeginTile returns a nonzero cached id if id has already been
	// rasterised; the caller must then skip re-emitting the tile body.
	BeginTile(area, view geom.Rect, xstep, ystep float64, ctm geom.Matrix, id int64) (cached int64)
	EndTile()

	RenderFlags(set, clear Hints)
	SetDefaultColorSpaces(defaults DefaultColorSpaces)

	BeginLayer(name string)
	EndLayer()
}
