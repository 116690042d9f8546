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

package text

import (
	"testing"

	"github.com/inkfold/fitz/geom"
	"github.com/inkfold/fitz/path"
	"github.com/inkfold/fitz/raster"
)

type fakeEngine struct {
	advance, ascent, descent float64
}

func (f *fakeEngine) GetGlyphAdvance(gid int32, vertical bool) float64 { return f.advance }
func (f *fakeEngine) RenderGlyph(int32, geom.Matrix, int) (*raster.Bitmap, int, int) {
	return nil, 0, 0
}
func (f *fakeEngine) RenderStrokedGlyph(int32, geom.Matrix, *path.StrokeState) (*raster.Bitmap, int, int) {
	return nil, 0, 0
}
func (f *fakeEngine) GetCharIndex(r rune) int32                  { return int32(r) }
func (f *fakeEngine) GlyphOutline(int32, geom.Matrix) *path.Path { return nil }
func (f *fakeEngine) Ascent() float64                            { return f.ascent }
func (f *fakeEngine) Descent() float64                           { return f.descent }

type visitorFunc func(GlyphRecord)

func (f visitorFunc) Glyph(g GlyphRecord) { f(g) }

func TestRunWalkOrder(t *testing.T) {
	run := NewRun(nil, Horizontal, geom.IdentityMatrix)
	run.AddText(1, 'f', 0, 0)
	run.AddText(2, NoUnicode, 10, 0)
	run.AddText(3, 'i', 20, 0)

	var got []rune
	run.Walk(visitorFunc(func(g GlyphRecord) { got = append(got, g.Unicode) }))
	want := []rune{'f', NoUnicode, 'i'}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("glyph %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestBoundTextUnionsPerGlyphBoxes(t *testing.T) {
	eng := &fakeEngine{advance: 10, ascent: 8, descent: -2}
	run := NewRun(eng, Horizontal, geom.IdentityMatrix)
	run.AddText(1, 'A', 0, 0)
	run.AddText(2, 'B', 10, 0)

	r := run.BoundText(nil, geom.IdentityMatrix)
	if r.X0 != 0 || r.X1 != 20 || r.Y0 != -2 || r.Y1 != 8 {
		t.Fatalf("unexpected bound: %+v", r)
	}
}

func TestBoundTextWidensForStroke(t *testing.T) {
	eng := &fakeEngine{advance: 10, ascent: 8, descent: -2}
	run := NewRun(eng, Horizontal, geom.IdentityMatrix)
	run.AddText(1, 'A', 0, 0)

	stroke := path.NewStrokeState()
	stroke.LineWidth = 2
	r := run.BoundText(stroke, geom.IdentityMatrix)
	if r.X0 != -1 || r.Y0 != -3 {
		t.Fatalf("stroke should widen bound by linewidth/2, got %+v", r)
	}
}

func TestMeasureTextUsesTotalAdvance(t *testing.T) {
	eng := &fakeEngine{advance: 5}
	run := NewRun(eng, Horizontal, geom.IdentityMatrix)
	run.AddText(1, 'A', 0, 0)
	run.AddText(2, 'B', 0, 0)

	r := run.MeasureText(geom.IdentityMatrix)
	if r.X1-r.X0 != 10 {
		t.Fatalf("expected total advance 10, got %v", r.X1-r.X0)
	}
}
