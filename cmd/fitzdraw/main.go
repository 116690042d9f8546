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

// Command fitzdraw is a thin demo driver in the spirit of the original
// mudraw: it picks a device (draw, trace, bbox or text), optionally
// records through a display list instead of rendering directly, runs it
// with a Cookie, and reports progress on a terminal-sized bar. Unlike
// mudraw it has no document parser to open: parsers are out of scope for
// this module (spec.md §1), so the "page" it renders is a small synthetic
// one built directly against the path/text/device APIs, enough to
// exercise every paint, clip, group, mask and tile call a real parser
// would emit.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/term"
	"seehuhn.de/go/sfnt"

	"github.com/inkfold/fitz"
	"github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/devbbox"
	"github.com/inkfold/fitz/device"
	"github.com/inkfold/fitz/display"
	"github.com/inkfold/fitz/devtrace"
	"github.com/inkfold/fitz/draw"
	"github.com/inkfold/fitz/extract"
	"github.com/inkfold/fitz/geom"
	"github.com/inkfold/fitz/output"
	"github.com/inkfold/fitz/path"
	"github.com/inkfold/fitz/raster"
	"github.com/inkfold/fitz/text"
	"github.com/inkfold/fitz/text/sfntengine"
)

func main() {
	deviceName := flag.String("device", "draw", "back-end: draw, trace, bbox, or text")
	outFile := flag.String("o", "out.png", "output file; format is chosen from the extension (.png, .pgm, .ppm, .pnm, .pam, .pwg, .cbz) for -device=draw")
	useList := flag.Bool("list", false, "record the page into a display list, then replay it into the chosen device")
	width := flag.Int("w", 400, "page width in points")
	height := flag.Int("h", 300, "page height in points")
	dpi := flag.Float64("dpi", 72, "resolution for raster output")
	aa := flag.Int("aa", 8, "antialiasing level, 0-8")
	flag.Parse()

	ctx := fitz.NewContext(nil, nil, 64<<20)
	defer ctx.Close()
	ctx.SetAALevel(*aa)

	page := geom.Rect{X0: 0, Y0: 0, X1: float64(*width), Y1: float64(*height)}
	scale := *dpi / 72
	ctm := geom.Scale(scale, scale)

	cookie := &fitz.Cookie{}
	cookie.SetProgressMax(int64(len(demoSteps)))

	engine := loadDemoFont()

	var dev device.Device
	var pix *raster.Pixmap
	var bboxDev *devbbox.Device
	var textDev *extract.Device

	switch *deviceName {
	case "draw":
		pix = raster.NewPixmap(color.DeviceRGB, int(page.Width()*scale), int(page.Height()*scale), nil, true)
		pix.Clear()
		dev = draw.New(pix, cookie)
	case "trace":
		dev = devtrace.New(os.Stdout)
	case "bbox":
		bboxDev = devbbox.New()
		dev = bboxDev
	case "text":
		textDev = extract.New()
		dev = textDev
	default:
		fmt.Fprintf(os.Stderr, "unknown -device %q\n", *deviceName)
		os.Exit(1)
	}

	if err := runPage(ctx, dev, page, ctm, engine, cookie, *useList); err != nil {
		fmt.Fprintf(os.Stderr, "fitzdraw: %v\n", err)
		os.Exit(1)
	}
	reportProgress(cookie)

	switch *deviceName {
	case "draw":
		if err := writePixmap(*outFile, pix); err != nil {
			fmt.Fprintf(os.Stderr, "fitzdraw: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s (%dx%d)\n", *outFile, pix.W, pix.H)
	case "bbox":
		fmt.Printf("page bounds: %v\n", bboxDev.Bounds)
	case "text":
		dumpTextPage(textDev.Page())
	}
}

// runPage drives dev (possibly indirectly, through a recorded display
// list) over the synthetic demo page, closing dev afterwards.
func runPage(ctx *fitz.Context, dev device.Device, page geom.Rect, ctm geom.Matrix, engine text.FontEngine, cookie *fitz.Cookie, useList bool) error {
	defer dev.Close()

	if !useList {
		paintDemoPage(dev, page, ctm, engine, cookie)
		return nil
	}

	rec := display.NewRecorder()
	paintDemoPage(rec, page, ctm, engine, cookie)
	rec.Close()
	return rec.List.Play(dev, page.Transform(ctm), cookie)
}

func writePixmap(name string, pix *raster.Pixmap) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".png":
		return output.EncodePNG(f, pix, true)
	case ".pgm":
		return output.WritePGM(f, pix)
	case ".ppm":
		return output.WritePPM(f, pix)
	case ".pnm":
		return output.WritePNM(f, pix)
	case ".pam":
		return output.WritePAM(f, pix)
	case ".pwg":
		return output.WritePWG(f, pix, nil)
	case ".cbz":
		cbz := output.NewCBZWriter(f)
		if err := cbz.WritePage(pix); err != nil {
			return err
		}
		return cbz.Close()
	default:
		return fmt.Errorf("unrecognised output extension %q", ext)
	}
}

func reportProgress(cookie *fitz.Cookie) {
	width := 40
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 10 {
		width = w - 10
	}
	max := cookie.ProgressMax()
	if max <= 0 {
		return
	}
	done := cookie.Progress()
	filled := int(float64(width) * float64(done) / float64(max))
	if filled > width {
		filled = width
	}
	fmt.Printf("[%s%s] %d/%d (%d error(s))\n",
		strings.Repeat("=", filled), strings.Repeat(" ", width-filled), done, max, cookie.Errors())
}

func dumpTextPage(p extract.Page) {
	for bi, block := range p.Blocks {
		fmt.Printf("block %d:\n", bi)
		for _, line := range block.Lines {
			var sb strings.Builder
			for _, span := range line.Spans {
				for _, ch := range span.Chars {
					sb.WriteRune(ch.Rune)
				}
			}
			fmt.Printf("  %s\n", sb.String())
		}
	}
}

// loadDemoFont parses the embedded Go Regular TrueType font so the demo
// page can emit a real (if outline-less, per sfntengine's documented
// scope) text run; a nil return means the demo page skips its text step.
func loadDemoFont() text.FontEngine {
	info, err := sfnt.Read(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil
	}
	return sfntengine.New(info)
}

var demoSteps = []string{"background", "stroke", "clip-group", "tile", "text"}

// paintDemoPage emits a small but representative sequence of device
// calls: a filled rectangle, a stroked line, a clipped transparency
// group, a tiled pattern, and (if engine is available) a short text run.
// It polls cookie between steps the way a real parser would between page
// content-stream operators (§4.11).
func paintDemoPage(dev device.Device, page geom.Rect, ctm geom.Matrix, engine text.FontEngine, cookie *fitz.Cookie) {
	dev.BeginPage(page, ctm)
	defer dev.EndPage()

	cp := device.ColorParams{RenderingIntent: device.RelativeColorimetric}

	step := func(i int) bool {
		cookie.SetProgress(int64(i))
		return cookie.Aborted()
	}

	// 1. background
	if step(0) {
		return
	}
	bg := path.New()
	bg.RectTo(page.X0, page.Y0, page.X1, page.Y1)
	dev.FillPath(bg, false, ctm, color.DeviceRGB, []float64{0.95, 0.95, 0.98}, 1, cp)

	// 2. stroked diagonal
	if step(1) {
		return
	}
	diag := path.New()
	diag.MoveTo(page.X0+10, page.Y0+10)
	diag.LineTo(page.X1-10, page.Y1-10)
	stroke := path.NewStrokeState()
	stroke.LineWidth = 3
	dev.StrokePath(diag, stroke, ctm, color.DeviceRGB, []float64{0.2, 0.3, 0.8}, 1, cp)

	// 3. clipped, semi-transparent group
	if step(2) {
		return
	}
	clipRect := geom.Rect{X0: page.X0 + 20, Y0: page.Y0 + 20, X1: page.X0 + page.Width()/2, Y1: page.Y1 - 20}
	clipPath := path.New()
	clipPath.RectTo(clipRect.X0, clipRect.Y0, clipRect.X1, clipRect.Y1)
	scissor := clipRect.Transform(ctm)
	dev.ClipPath(clipPath, false, ctm, scissor)
	dev.BeginGroup(scissor, color.DeviceRGB, true, false, device.BlendMultiply, 0.6)
	circle := path.New()
	cx, cy, r := (clipRect.X0+clipRect.X1)/2, (clipRect.Y0+clipRect.Y1)/2, clipRect.Width()/3
	circle.MoveTo(cx+r, cy)
	circle.CurveTo(cx+r, cy+r*0.55, cx+r*0.55, cy+r, cx, cy+r)
	circle.CurveTo(cx-r*0.55, cy+r, cx-r, cy+r*0.55, cx-r, cy)
	circle.CurveTo(cx-r, cy-r*0.55, cx-r*0.55, cy-r, cx, cy-r)
	circle.CurveTo(cx+r*0.55, cy-r, cx+r, cy-r*0.55, cx+r, cy)
	circle.ClosePath()
	dev.FillPath(circle, false, ctm, color.DeviceRGB, []float64{0.9, 0.2, 0.2}, 1, cp)
	dev.EndGroup()
	dev.PopClip()

	// 4. a tiled pattern on the right half
	if step(3) {
		return
	}
	tileArea := geom.Rect{X0: page.X0 + page.Width()/2 + 10, Y0: page.Y0 + 20, X1: page.X1 - 10, Y1: page.Y1 - 20}
	tileView := geom.Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}
	if cached := dev.BeginTile(tileArea, tileView, 12, 12, ctm, 1); cached == 0 {
		dot := path.New()
		dot.RectTo(2, 2, 6, 6)
		dev.FillPath(dot, false, ctm, color.DeviceRGB, []float64{0.3, 0.6, 0.3}, 1, cp)
	}
	dev.EndTile()

	// 5. a short text run, if a font engine was available
	if step(4) {
		return
	}
	if engine != nil {
		trm := geom.Translate(page.X0+20, page.Y1-30)
		run := text.NewRun(engine, text.Horizontal, trm)
		x := 0.0
		for _, r := range "fitz" {
			gid := engine.GetCharIndex(r)
			run.AddText(gid, r, x, 0)
			x += engine.GetGlyphAdvance(gid, false)
		}
		dev.FillText(run, ctm, color.DeviceGray, []float64{0.1}, 1, cp)
	}
}
