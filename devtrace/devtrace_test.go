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

package devtrace

import (
	"strings"
	"testing"

	"github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/device"
	"github.com/inkfold/fitz/geom"
	"github.com/inkfold/fitz/path"
)

func TestFillPathWritesOneLine(t *testing.T) {
	var buf strings.Builder
	d := New(&buf)

	p := path.New()
	p.RectTo(0, 0, 10, 10)
	d.FillPath(p, false, geom.IdentityMatrix, color.DeviceGray, []float64{0}, 1, device.ColorParams{})

	out := buf.String()
	if !strings.Contains(out, "fill_path") || !strings.Contains(out, "cs=DeviceGray") {
		t.Fatalf("unexpected trace line: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected exactly one line, got %q", out)
	}
}

func TestIndentationGrowsWithClipDepth(t *testing.T) {
	var buf strings.Builder
	d := New(&buf)

	d.ClipPath(nil, false, geom.IdentityMatrix, geom.Rect{X0: 0, Y0: 0, X1: 10, Y1: 10})
	p := path.New()
	p.RectTo(0, 0, 5, 5)
	d.FillPath(p, false, geom.IdentityMatrix, color.DeviceGray, []float64{0}, 1, device.ColorParams{})
	d.PopClip()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[1], "  fill_path") {
		t.Fatalf("expected fill_path indented by one level, got %q", lines[1])
	}
	if strings.HasPrefix(lines[0], " ") {
		t.Fatalf("clip_path itself should not be indented, got %q", lines[0])
	}
}

func TestSkipSuppressesFillInsideFailedRegion(t *testing.T) {
	var buf strings.Builder
	d := New(&buf)
	d.PushFailed()

	p := path.New()
	p.RectTo(0, 0, 10, 10)
	d.FillPath(p, false, geom.IdentityMatrix, color.DeviceGray, []float64{0}, 1, device.ColorParams{})

	if buf.String() != "" {
		t.Fatalf("expected no trace output while skipping, got %q", buf.String())
	}
}
