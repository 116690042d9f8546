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

// Package text implements the positioned-glyph text run (§4.5): an
// ordered array of glyph records sharing a writing mode and a text
// matrix, plus the FontEngine contract (§6) an external font shaping
// engine must satisfy to back it.
package text

import (
	"github.com/inkfold/fitz/geom"
	"github.com/inkfold/fitz/path"
	"github.com/inkfold/fitz/raster"
	"github.com/inkfold/fitz/store"
)

// WritingMode selects the baseline direction shared by every glyph in a
// Run.
type WritingMode int

const (
	Horizontal WritingMode = 0
	Vertical   WritingMode = 1
)

// NoUnicode is the sentinel Unicode value recorded for a glyph that is a
// non-initial member of a multi-glyph cluster, e.g. the second and third
// glyphs of a ligature (§3).
const NoUnicode rune = -1

// GlyphRecord is one positioned glyph: a font-internal glyph id, the
// originating Unicode scalar (NoUnicode for cluster continuations), and
// an x/y position in text space.
type GlyphRecord struct {
	GID     int32
	Unicode rune
	X, Y    float64
}

// FontEngine is the external collaborator contract (§6) the core
// requires from a font shaping/rasterization engine. The core never
// introspects font file contents; it only calls the methods below.
type FontEngine interface {
	// GetGlyphAdvance returns gid's advance width (horizontal) or height
	// (vertical, when vertical is true) in text-space units (1 em = 1.0).
	GetGlyphAdvance(gid int32, vertical bool) float64
	// RenderGlyph rasterizes gid under matrix m at the given
	// antialiasing level, returning a bitmap plus its offset (left, top)
	// from the origin m maps (0,0) to.
	RenderGlyph(gid int32, m geom.Matrix, aaLevel int) (bmp *raster.Bitmap, left, top int)
	// RenderStrokedGlyph rasterizes the outline of gid, stroked by
	// stroke, under matrix m.
	RenderStrokedGlyph(gid int32, m geom.Matrix, stroke *path.StrokeState) (bmp *raster.Bitmap, left, top int)
	// GetCharIndex maps a Unicode scalar to a glyph id.
	GetCharIndex(r rune) int32
	// GlyphOutline returns gid's outline as a fillable Path under matrix m.
	GlyphOutline(gid int32, m geom.Matrix) *path.Path
	// Ascent and Descent report the font's vertical metrics in em units,
	// used to build a per-glyph bounding box when the engine cannot
	// report one more precisely (§4.10 step 3).
	Ascent() float64
	Descent() float64
}

// Run is a reference-counted, ordered array of positioned glyphs sharing
// one font, writing mode, and text matrix (§3, §4.5).
type Run struct {
	rc store.RefCount

	Font FontEngine
	Mode WritingMode
	TRM  geom.Matrix // the run's own 2x2 (plus translation) text matrix

	Glyphs []GlyphRecord
}

// NewRun returns an empty Run with one reference.
func NewRun(font FontEngine, mode WritingMode, trm geom.Matrix) *Run {
	r := &Run{Font: font, Mode: mode, TRM: trm}
	r.rc.Init()
	return r
}

// Keep increments the reference count.
func (t *Run) Keep() { t.rc.Keep() }

// Drop decrements the reference count; the caller should stop using t
// once Drop returns true.
func (t *Run) Drop() bool { return t.rc.Drop() }

// Refs returns the current reference count.
func (t *Run) Refs() int64 { return t.rc.Count() }

// Size reports an approximate byte footprint, used by the resource store
// when a text run participates in a cached entry.
func (t *Run) Size() int { return len(t.Glyphs) * 24 }

// AddText appends one positioned glyph to the run.
func (t *Run) AddText(gid int32, ucs rune, x, y float64) {
	t.Glyphs = append(t.Glyphs, GlyphRecord{GID: gid, Unicode: ucs, X: x, Y: y})
}

// MeasureText sums the run's glyph advances (from the font engine) and
// returns the transformed extent of that total advance along the run's
// baseline under t.TRM.Mul(m); it is a cheap metric distinct from the
// ink-bounded BoundText.
func (t *Run) MeasureText(m geom.Matrix) geom.Rect {
	if len(t.Glyphs) == 0 || t.Font == nil {
		return geom.EmptyRect
	}
	vertical := t.Mode == Vertical
	total := 0.0
	for _, g := range t.Glyphs {
		total += t.Font.GetGlyphAdvance(g.GID, vertical)
	}
	ctm := t.TRM.Mul(m)
	first := t.Glyphs[0]
	var endX, endY float64
	if vertical {
		endX, endY = first.X, first.Y+total
	} else {
		endX, endY = first.X+total, first.Y
	}
	p0 := ctm.Apply(first.X, first.Y)
	p1 := ctm.Apply(endX, endY)
	return geom.Rect{
		X0: min2(p0.X, p1.X), Y0: min2(p0.Y, p1.Y),
		X1: max2(p0.X, p1.X), Y1: max2(p0.Y, p1.Y),
	}
}

// BoundText unions a per-glyph advance-based box (using the font
// engine's ascent/descent and advance, per §4.5) over every glyph,
// transformed by t.TRM.Mul(ctm) and widened by stroke's expansion when
// stroke is non-nil.
func (t *Run) BoundText(stroke *path.StrokeState, ctm geom.Matrix) geom.Rect {
	if t.Font == nil {
		return geom.EmptyRect
	}
	full := t.TRM.Mul(ctm)
	vertical := t.Mode == Vertical
	ascent, descent := t.Font.Ascent(), t.Font.Descent()

	var out geom.Rect
	for _, g := range t.Glyphs {
		adv := t.Font.GetGlyphAdvance(g.GID, vertical)
		var box geom.Rect
		if vertical {
			box = geom.Rect{X0: g.X + descent, Y0: g.Y, X1: g.X + ascent, Y1: g.Y + adv}
		} else {
			box = geom.Rect{X0: g.X, Y0: g.Y + descent, X1: g.X + adv, Y1: g.Y + ascent}
		}
		out = out.Union(box.Transform(full))
	}
	if out.IsEmpty() || stroke == nil {
		return out
	}
	amount := stroke.LineWidth / 2 * full.Expansion()
	return geom.Rect{X0: out.X0 - amount, Y0: out.Y0 - amount, X1: out.X1 + amount, Y1: out.Y1 + amount}
}

// GlyphVisitor receives a Run's glyphs one at a time, in addition order
// (§4.5 "walk_text").
type GlyphVisitor interface {
	Glyph(rec GlyphRecord)
}

// Walk is a read-only visitor for back-ends that need per-glyph access
// (text extraction, outline export). Glyphs are visited in the order
// AddText appended them, not necessarily layout order.
func (t *Run) Walk(v GlyphVisitor) {
	for _, g := range t.Glyphs {
		v.Glyph(g)
	}
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
