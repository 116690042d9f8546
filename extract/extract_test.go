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

package extract

import (
	"testing"

	"github.com/inkfold/fitz/device"
	"github.com/inkfold/fitz/geom"
	"github.com/inkfold/fitz/path"
	"github.com/inkfold/fitz/raster"
	"github.com/inkfold/fitz/text"
)

// stubFont is a minimal text.FontEngine that reports a fixed advance
// and ascent/descent, enough to drive the bbox arithmetic in §4.10 step
// 3 without a real glyph shaper.
type stubFont struct {
	advance         float64
	ascent, descent float64
}

func (f *stubFont) GetGlyphAdvance(gid int32, vertical bool) float64 { return f.advance }
func (f *stubFont) RenderGlyph(gid int32, m geom.Matrix, aaLevel int) (*raster.Bitmap, int, int) {
	return nil, 0, 0
}
func (f *stubFont) RenderStrokedGlyph(gid int32, m geom.Matrix, stroke *path.StrokeState) (*raster.Bitmap, int, int) {
	return nil, 0, 0
}
func (f *stubFont) GetCharIndex(r rune) int32           { return int32(r) }
func (f *stubFont) GlyphOutline(gid int32, m geom.Matrix) *path.Path { return nil }
func (f *stubFont) Ascent() float64                     { return f.ascent }
func (f *stubFont) Descent() float64                    { return f.descent }

var _ text.FontEngine = (*stubFont)(nil)

// TestLigatureSplit covers S8.S6: a single ffi ligature glyph at
// Unicode 0xFB03 with bbox (0,0,30,10) must split into three chars.
func TestLigatureSplit(t *testing.T) {
	font := &stubFont{advance: 30, ascent: 10, descent: 0}
	run := text.NewRun(font, text.Horizontal, geom.IdentityMatrix)
	run.AddText(1, 0xFB03, 0, 0)

	d := New()
	d.FillText(run, geom.IdentityMatrix, nil, nil, 1, device.ColorParams{})
	page := d.Page()

	if len(page.Blocks) != 1 || len(page.Blocks[0].Lines) != 1 || len(page.Blocks[0].Lines[0].Spans) != 1 {
		t.Fatalf("expected one block/line/span, got %+v", page)
	}
	chars := page.Blocks[0].Lines[0].Spans[0].Chars
	want := []Char{
		{Rune: 'f', Bbox: geom.Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}},
		{Rune: 'f', Bbox: geom.Rect{X0: 10, Y0: 0, X1: 20, Y1: 10}},
		{Rune: 'i', Bbox: geom.Rect{X0: 20, Y0: 0, X1: 30, Y1: 10}},
	}
	if len(chars) != len(want) {
		t.Fatalf("got %d chars, want %d: %+v", len(chars), len(want), chars)
	}
	for i := range want {
		if chars[i] != want[i] {
			t.Fatalf("char %d: got %+v want %+v", i, chars[i], want[i])
		}
	}
}

// TestSpaceInsertion checks that a wide pen jump along the baseline
// (beyond SPACE_DIST*size but under LINE_DIST*size) inserts a single
// synthetic space rather than breaking the line.
func TestSpaceInsertion(t *testing.T) {
	font := &stubFont{advance: 1, ascent: 1, descent: 0}
	run := text.NewRun(font, text.Horizontal, geom.IdentityMatrix)
	run.AddText(1, 'a', 0, 0)
	// 'a' advances the pen to x=1; a gap of 0.5 is beyond spaceDist*size
	// (0.2) but short of lineDist*size (0.9), so a single space is
	// inserted rather than a line break.
	run.AddText(2, 'b', 1.5, 0)

	d := New()
	d.FillText(run, geom.IdentityMatrix, nil, nil, 1, device.ColorParams{})
	page := d.Page()

	if len(page.Blocks) != 1 || len(page.Blocks[0].Lines) != 1 || len(page.Blocks[0].Lines[0].Spans) != 1 {
		t.Fatalf("expected a single block/line/span, got %+v", page)
	}
	chars := page.Blocks[0].Lines[0].Spans[0].Chars
	if len(chars) != 3 || chars[0].Rune != 'a' || chars[1].Rune != ' ' || chars[2].Rune != 'b' {
		t.Fatalf("expected [a, space, b], got %+v", chars)
	}
}

// TestLineBreakOnLargePenJump checks that a pen jump larger than
// LINE_DIST*size starts a new line.
func TestLineBreakOnLargePenJump(t *testing.T) {
	font := &stubFont{advance: 1, ascent: 1, descent: 0}
	run := text.NewRun(font, text.Horizontal, geom.IdentityMatrix)
	run.AddText(1, 'a', 0, 0)
	run.AddText(2, 'b', 0, -5) // far away vertically: triggers newline, not space

	d := New()
	d.FillText(run, geom.IdentityMatrix, nil, nil, 1, device.ColorParams{})
	page := d.Page()
	if len(page.Blocks) == 0 {
		t.Fatalf("expected blocks, got none")
	}
	// Two distinct characters should end up in two separate lines.
	lineCount := 0
	for _, b := range page.Blocks {
		lineCount += len(b.Lines)
	}
	if lineCount < 2 {
		t.Fatalf("expected at least 2 lines from a large pen jump, got %d (%+v)", lineCount, page)
	}
}

func TestClipStackBalance(t *testing.T) {
	d := New()
	d.ClipPath(nil, false, geom.IdentityMatrix, geom.Rect{X0: 0, Y0: 0, X1: 1, Y1: 1})
	d.BeginGroup(geom.Rect{X0: 0, Y0: 0, X1: 1, Y1: 1}, nil, false, false, device.BlendNormal, 1)
	d.EndGroup()
	d.PopClip()
	if d.Depth() != 0 {
		t.Fatalf("expected balanced clip stack, got depth %d", d.Depth())
	}
}
