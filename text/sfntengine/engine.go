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

// Package sfntengine adapts a seehuhn.de/go/sfnt.Font (the module the
// teacher's own font stack is layered on top of) to the text.FontEngine
// contract (§6). The core treats glyph outline rasterization as an
// external collaborator's concern (§1); this adapter supplies the
// metrics seehuhn.de/go/sfnt reports directly (advance widths, the
// cmap, ascent/descent) and falls back to a flat box rasterization for
// RenderGlyph/RenderStrokedGlyph, since true scan-conversion of glyf/CFF
// outlines belongs to the font engine the spec keeps out of scope, not
// to this wiring adapter.
package sfntengine

import (
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/glyph"

	"github.com/inkfold/fitz/geom"
	"github.com/inkfold/fitz/path"
	"github.com/inkfold/fitz/raster"
	"github.com/inkfold/fitz/text"
)

// Engine wraps a parsed sfnt.Font to satisfy text.FontEngine.
type Engine struct {
	info       *sfnt.Font
	unitsPerEm float64
	lookup     func(rune) glyph.ID
}

var _ text.FontEngine = (*Engine)(nil)

// New wraps info. If info exposes a usable cmap subtable, GetCharIndex
// consults it; otherwise it always returns glyph 0 (".notdef").
func New(info *sfnt.Font) *Engine {
	e := &Engine{info: info, unitsPerEm: float64(info.UnitsPerEm)}
	if info.CMapTable != nil {
		if cm, _ := info.CMapTable.GetBest(); cm != nil {
			e.lookup = cm.Lookup
		}
	}
	return e
}

func (e *Engine) GetCharIndex(r rune) int32 {
	if e.lookup == nil {
		return 0
	}
	return int32(e.lookup(r))
}

func (e *Engine) GetGlyphAdvance(gid int32, vertical bool) float64 {
	w := e.info.GlyphWidth(glyph.ID(gid))
	if e.unitsPerEm == 0 {
		return 0
	}
	return float64(w) / e.unitsPerEm
}

func (e *Engine) Ascent() float64 {
	if e.unitsPerEm == 0 {
		return 0
	}
	return float64(e.info.Ascent) / e.unitsPerEm
}

func (e *Engine) Descent() float64 {
	if e.unitsPerEm == 0 {
		return 0
	}
	return float64(e.info.Descent) / e.unitsPerEm
}

// GlyphOutline approximates gid's outline as its advance-box rectangle
// transformed by m: a conservative stand-in for the real glyf/CFF
// contour decomposition a production font engine would return.
func (e *Engine) GlyphOutline(gid int32, m geom.Matrix) *path.Path {
	adv := e.GetGlyphAdvance(gid, false)
	p0 := m.Apply(0, e.Descent())
	p1 := m.Apply(adv, e.Ascent())
	p := path.New()
	p.RectTo(min2(p0.X, p1.X), min2(p0.Y, p1.Y), max2(p0.X, p1.X), max2(p0.Y, p1.Y))
	return p
}

// RenderGlyph produces a single flat-coverage bitmap covering gid's
// advance box, scaled by m's expansion. It stands in for a real hinted
// rasterization, which requires the glyf/CFF outline engine this
// package does not implement (see package doc).
func (e *Engine) RenderGlyph(gid int32, m geom.Matrix, aaLevel int) (*raster.Bitmap, int, int) {
	return e.boxBitmap(gid, m)
}

func (e *Engine) RenderStrokedGlyph(gid int32, m geom.Matrix, stroke *path.StrokeState) (*raster.Bitmap, int, int) {
	return e.boxBitmap(gid, m)
}

func (e *Engine) boxBitmap(gid int32, m geom.Matrix) (*raster.Bitmap, int, int) {
	adv := e.GetGlyphAdvance(gid, false)
	if adv <= 0 {
		adv = 0.5
	}
	p0 := m.Apply(0, e.Descent())
	p1 := m.Apply(adv, e.Ascent())
	w := int(abs(p1.X - p0.X))
	h := int(abs(p1.Y - p0.Y))
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	bmp := raster.NewBitmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			bmp.Set(x, y, true)
		}
	}
	return bmp, int(min2(p0.X, p1.X)), int(min2(p0.Y, p1.Y))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
