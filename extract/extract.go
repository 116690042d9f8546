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

// Package extract implements the text-extraction device (§4.10): it
// reconstructs blocks, lines, spans and characters from the positioned
// glyphs that flow through fill_text/stroke_text/clip_text/ignore_text,
// the same reading-order-from-geometry algorithm as every other
// back-end's pen/space/newline heuristic, generalized to build a
// reusable Page rather than print directly to a stream.
package extract

import (
	"math"
	"sort"

	"golang.org/x/text/width"

	"github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/device"
	"github.com/inkfold/fitz/geom"
	"github.com/inkfold/fitz/image"
	"github.com/inkfold/fitz/path"
	"github.com/inkfold/fitz/shade"
	"github.com/inkfold/fitz/text"
)

// Tuning constants from §4.10 step 2.
const (
	lineDist  = 0.9
	spaceDist = 0.2
)

// Char is one reconstructed character: its Unicode rune and its
// device-space bounding box.
type Char struct {
	Rune rune
	Bbox geom.Rect
}

// Span is a maximal run of characters sharing one font, size and
// writing mode.
type Span struct {
	Font  text.FontEngine
	Size  float64
	Mode  text.WritingMode
	Chars []Char
	Bbox  geom.Rect
}

// Line is a maximal run of spans ending at a detected line break.
type Line struct {
	Spans []Span
	Bbox  geom.Rect
}

// Block is a group of lines assembled by vertical proximity (§4.10
// step 5).
type Block struct {
	Lines []Line
	Bbox  geom.Rect
}

// Page is the reconstructed reading-order document: the substrate the
// plain/HTML/XML serializers (outside the core, §4.10) consume.
type Page struct {
	Blocks []Block
}

type rawSpan struct {
	font  text.FontEngine
	size  float64
	mode  text.WritingMode
	chars []Char
	eol   bool
}

type pen struct {
	x, y  float64
	valid bool
}

// Device reconstructs a Page from the text runs it is fed. It ignores
// images and shades (§4.7 Hints) the way the original text device does,
// and maintains the Base scissor/error-depth discipline every back-end
// shares even though it never consults the scissor itself.
type Device struct {
	device.Base

	spans []*rawSpan
	cur   *rawSpan
	pen   pen
}

var _ device.Device = (*Device)(nil)

// New returns a text-extraction device.
func New() *Device {
	d := &Device{}
	d.SetHints(device.IgnoreImages|device.IgnoreShades, 0)
	return d
}

func (d *Device) Close() error { return nil }

func (d *Device) BeginPage(rect geom.Rect, ctm geom.Matrix) { d.pen = pen{} }
func (d *Device) EndPage()                                  {}

func (d *Device) FillPath(p *path.Path, evenOdd bool, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
}
func (d *Device) StrokePath(p *path.Path, stroke *path.StrokeState, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
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
	d.extractSpan(run, ctm)
}

func (d *Device) StrokeText(run *text.Run, stroke *path.StrokeState, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
	if d.Skip() {
		return
	}
	d.extractSpan(run, ctm)
}

func (d *Device) ClipText(run *text.Run, ctm geom.Matrix, scissor geom.Rect) {
	if !d.Skip() {
		d.extractSpan(run, ctm)
	}
	d.PushClip(scissor)
}

func (d *Device) ClipStrokeText(run *text.Run, stroke *path.StrokeState, ctm geom.Matrix, scissor geom.Rect) {
	if !d.Skip() {
		d.extractSpan(run, ctm)
	}
	d.PushClip(scissor)
}

// IgnoreText still extracts: invisible text (PDF render mode 3) must
// remain searchable/copyable even though nothing is painted (§4.7).
func (d *Device) IgnoreText(run *text.Run, ctm geom.Matrix) {
	if d.Skip() {
		return
	}
	d.extractSpan(run, ctm)
}

func (d *Device) FillShade(shd *shade.Shading, ctm geom.Matrix, alpha float64, cp device.ColorParams) {
}
func (d *Device) FillImage(img *image.Image, ctm geom.Matrix, alpha float64, cp device.ColorParams) {
}
func (d *Device) FillImageMask(img *image.Image, ctm geom.Matrix, cs color.Space, col []float64, alpha float64, cp device.ColorParams) {
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

func (d *Device) RenderFlags(set, clear device.Hints)                      { d.SetHints(set, clear) }
func (d *Device) SetDefaultColorSpaces(defaults device.DefaultColorSpaces) {}

func (d *Device) BeginLayer(name string) { d.PushClip(geom.InfiniteRect) }
func (d *Device) EndLayer()              { d.Pop() }

// extractSpan implements the per-run algorithm of §4.10 steps 1-4,
// grounded on original_source/fitz/dev_text.c's fz_textextractspan: a
// pen tracking the previous glyph's advance point, synthetic space and
// line-break insertion from the pen's movement relative to the
// baseline, per-glyph bounding boxes from font ascent/descent/advance,
// and ligature canonicalization in addTextChar.
func (d *Device) extractSpan(run *text.Run, ctm geom.Matrix) {
	if len(run.Glyphs) == 0 || run.Font == nil {
		return
	}
	font := run.Font
	vertical := run.Mode == text.Vertical

	dirTRM := run.TRM
	dirTRM.E, dirTRM.F = 0, 0
	base := dirTRM.Mul(ctm)

	var dx, dy float64
	if vertical {
		dx, dy = 0, 1
	} else {
		dx, dy = 1, 0
	}
	dir := base.ApplyVector(dx, dy)
	dirLen := math.Hypot(dir.X, dir.Y)
	var ndir geom.Point
	if dirLen > 0 {
		ndir = geom.Point{X: dir.X / dirLen, Y: dir.Y / dirLen}
	}

	size := base.Expansion()

	rect := geom.EmptyRect
	multi := 1

	for _, g := range run.Glyphs {
		if g.Unicode == text.NoUnicode {
			d.addTextChar(font, size, run.Mode, text.NoUnicode, rect)
			multi++
			d.divideTextChars(multi, rect)
			continue
		}
		multi = 1

		tm := run.TRM
		tm.E, tm.F = g.X, g.Y
		full := tm.Mul(ctm)

		var delta geom.Point
		if d.pen.valid {
			delta = geom.Point{X: d.pen.x - full.E, Y: d.pen.y - full.F}
		}
		dist := math.Hypot(delta.X, delta.Y)
		if d.pen.valid && dist > 0 {
			ndelta := geom.Point{X: delta.X / dist, Y: delta.Y / dist}
			dot := ndelta.X*ndir.X + ndelta.Y*ndir.Y
			switch {
			case dist > size*lineDist:
				d.addNewline(font, size, run.Mode)
			case math.Abs(dot) > 0.95 && dist > size*spaceThresholdFor(d.cur):
				if span := d.cur; span != nil {
					if n := len(span.chars); n == 0 || span.chars[n-1].Rune != ' ' {
						spaceRect := geom.Rect{X0: -0.2, Y0: 0, X1: 0, Y1: 1}.Transform(full)
						d.addTextChar(font, size, run.Mode, ' ', spaceRect)
					}
				}
			}
		}

		adv := font.GetGlyphAdvance(g.GID, vertical)
		ascent, descent := font.Ascent(), font.Descent()
		var box geom.Rect
		if vertical {
			box = geom.Rect{X0: 0, Y0: 0, X1: 1, Y1: adv}
		} else {
			box = geom.Rect{X0: 0, Y0: descent, X1: adv, Y1: ascent}
		}
		rect = box.Transform(full)

		d.pen = pen{x: full.E + dir.X*adv, y: full.F + dir.Y*adv, valid: true}

		d.addTextChar(font, size, run.Mode, g.Unicode, rect)
	}
}

func (d *Device) ensureSpan(font text.FontEngine, size float64, mode text.WritingMode) *rawSpan {
	if d.cur == nil || d.cur.font != font || d.cur.size != size || d.cur.mode != mode {
		d.cur = &rawSpan{font: font, size: size, mode: mode}
		d.spans = append(d.spans, d.cur)
	}
	return d.cur
}

// addTextChar appends ucs to the current span, canonicalizing the
// common ligatures (ff, fi, fl, ffi, ffl, long-st, st) into their
// individual characters and subdividing the ligature glyph's bbox
// evenly (§4.10 step 4, S6).
func (d *Device) addTextChar(font text.FontEngine, size float64, mode text.WritingMode, ucs rune, bbox geom.Rect) {
	span := d.ensureSpan(font, size, mode)
	switch ucs {
	case text.NoUnicode:
		// continuation of a multi-glyph cluster: no char of its own,
		// divideTextChars redistributes the bbox across the cluster.
	case 0xFB00: // ff
		d.appendChars(span, bbox, 'f', 'f')
	case 0xFB01: // fi
		d.appendChars(span, bbox, 'f', 'i')
	case 0xFB02: // fl
		d.appendChars(span, bbox, 'f', 'l')
	case 0xFB03: // ffi
		d.appendChars(span, bbox, 'f', 'f', 'i')
	case 0xFB04: // ffl
		d.appendChars(span, bbox, 'f', 'f', 'l')
	case 0xFB05, 0xFB06: // long st, st
		d.appendChars(span, bbox, 's', 't')
	default:
		span.chars = append(span.chars, Char{Rune: ucs, Bbox: bbox})
	}
}

// spaceThresholdFor doubles the space-insertion gap for CJK fullwidth
// and wide runes, whose natural glyph advance already covers roughly
// twice a Latin glyph's width, so a plain spaceDist*size gap would
// insert spurious spaces between adjacent fullwidth characters.
func spaceThresholdFor(span *rawSpan) float64 {
	if span == nil || len(span.chars) == 0 {
		return spaceDist
	}
	prev := span.chars[len(span.chars)-1].Rune
	switch width.LookupRune(prev).Kind() {
	case width.EastAsianFullwidth, width.EastAsianWide:
		return spaceDist * 2
	default:
		return spaceDist
	}
}

func (d *Device) appendChars(span *rawSpan, bbox geom.Rect, runes ...rune) {
	n := len(runes)
	for i, r := range runes {
		span.chars = append(span.chars, Char{Rune: r, Bbox: splitBBox(bbox, i, n)})
	}
}

// divideTextChars redistributes rect evenly across the last n
// characters of the current span (§4.10 step 3: a multi-glyph
// cluster's predecessor bbox split across the cluster).
func (d *Device) divideTextChars(n int, rect geom.Rect) {
	span := d.cur
	if span == nil {
		return
	}
	x := len(span.chars) - n
	if x < 0 {
		return
	}
	for i := 0; i < n; i++ {
		span.chars[x+i].Bbox = splitBBox(rect, i, n)
	}
}

func (d *Device) addNewline(font text.FontEngine, size float64, mode text.WritingMode) {
	if d.cur != nil {
		d.cur.eol = true
	}
	d.cur = &rawSpan{font: font, size: size, mode: mode}
	d.spans = append(d.spans, d.cur)
}

func splitBBox(b geom.Rect, i, n int) geom.Rect {
	w := (b.X1 - b.X0) / float64(n)
	x0 := b.X0
	b.X0 = x0 + float64(i)*w
	b.X1 = x0 + float64(i+1)*w
	return b
}

// Page finalizes the accumulated span chain into a reading-order Page
// (§4.10 step 5): spans are grouped into lines at each detected line
// break, lines are sorted by their bbox's top edge Y0 then by its left
// edge X0 (stable), and consecutive lines are grouped into blocks
// whenever the distance between their Y0 edges exceeds 1.5x the median
// line height (DESIGN.md Open Question #3's decision).
func (d *Device) Page() Page {
	if d.cur != nil {
		d.cur.eol = true
	}
	lines := groupLines(d.spans)
	return Page{Blocks: groupBlocks(lines)}
}

func unionChars(chars []Char) geom.Rect {
	r := geom.EmptyRect
	for _, c := range chars {
		r = r.Union(c.Bbox)
	}
	return r
}

func groupLines(spans []*rawSpan) []Line {
	var lines []Line
	var cur []Span
	curBbox := geom.EmptyRect
	hasChars := false
	for _, rs := range spans {
		bbox := unionChars(rs.chars)
		cur = append(cur, Span{Font: rs.font, Size: rs.size, Mode: rs.mode, Chars: rs.chars, Bbox: bbox})
		curBbox = curBbox.Union(bbox)
		if len(rs.chars) > 0 {
			hasChars = true
		}
		if rs.eol {
			if hasChars {
				lines = append(lines, Line{Spans: cur, Bbox: curBbox})
			}
			cur = nil
			curBbox = geom.EmptyRect
			hasChars = false
		}
	}
	if len(cur) > 0 && hasChars {
		lines = append(lines, Line{Spans: cur, Bbox: curBbox})
	}
	return lines
}

func groupBlocks(lines []Line) []Block {
	if len(lines) == 0 {
		return nil
	}
	type entry struct {
		line     Line
		baseline float64
		x        float64
	}
	items := make([]entry, len(lines))
	for i, l := range lines {
		items[i] = entry{line: l, baseline: l.Bbox.Y0, x: l.Bbox.X0}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].baseline != items[j].baseline {
			return items[i].baseline < items[j].baseline
		}
		return items[i].x < items[j].x
	})

	heights := make([]float64, len(items))
	for i, e := range items {
		heights[i] = e.line.Bbox.Height()
	}
	threshold := median(heights) * 1.5

	var blocks []Block
	var cur []Line
	curBbox := geom.EmptyRect
	prevBaseline := 0.0
	for i, e := range items {
		if i > 0 {
			gap := math.Abs(e.baseline - prevBaseline)
			if gap > threshold {
				blocks = append(blocks, Block{Lines: cur, Bbox: curBbox})
				cur = nil
				curBbox = geom.EmptyRect
			}
		}
		cur = append(cur, e.line)
		curBbox = curBbox.Union(e.line.Bbox)
		prevBaseline = e.baseline
	}
	blocks = append(blocks, Block{Lines: cur, Bbox: curBbox})
	return blocks
}

func median(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	s := append([]float64(nil), vs...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
