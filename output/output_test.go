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

package output

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	stdimage "image"
	"image/png"
	"testing"

	"github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/raster"
)

func cbzEntryNames(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}
	names := make([]string, len(zr.File))
	for i, f := range zr.File {
		names[i] = f.Name
	}
	return names
}

// TestPWGHeaderS5 covers S8.S5 exactly: a 100x100 opaque Gray pixmap at
// 300dpi must sync with 'R' at byte 0 and carry xres, width, bpp and
// colorspace code at the specified big-endian offsets.
func TestPWGHeaderS5(t *testing.T) {
	p := raster.NewPixmap(color.DeviceGray, 100, 100, nil, false)
	p.XRes, p.YRes = 300, 300

	var buf bytes.Buffer
	if err := WritePWG(&buf, p, nil); err != nil {
		t.Fatalf("WritePWG: %v", err)
	}
	b := buf.Bytes()
	if len(b) < pwgHeaderSize {
		t.Fatalf("output shorter than header: %d bytes", len(b))
	}
	if b[0] != 'R' {
		t.Fatalf("byte 0 = %q, want 'R'", b[0])
	}
	be := binary.BigEndian
	if v := be.Uint32(b[300:304]); v != 300 {
		t.Fatalf("xres at offset 300 = %d, want 300", v)
	}
	if v := be.Uint32(b[372:376]); v != 100 {
		t.Fatalf("width at offset 372 = %d, want 100", v)
	}
	if v := be.Uint32(b[384:388]); v != 8 {
		t.Fatalf("bits-per-pixel at offset 384 = %d, want 8", v)
	}
	if v := be.Uint32(b[400:404]); v != 18 {
		t.Fatalf("colorspace code at offset 400 = %d, want 18 (Sgray)", v)
	}
}

// TestPWGRoundTripBitCount checks that the compressed body, once
// expanded by hand, reproduces the same number of pixel rows the
// header claims — a cheap structural sanity check that doesn't require
// a full PWG decoder.
func TestPWGRoundTripBitCount(t *testing.T) {
	p := raster.NewPixmap(color.DeviceGray, 4, 3, nil, false)
	for i := range p.Samples {
		p.Samples[i] = byte(i)
	}

	var buf bytes.Buffer
	if err := WritePWG(&buf, p, nil); err != nil {
		t.Fatalf("WritePWG: %v", err)
	}
	body := buf.Bytes()[pwgHeaderSize:]

	rows := 0
	i := 0
	for i < len(body) {
		yrep := int(body[i]) + 1
		i++
		rows += yrep
		x := 0
		for x < p.W {
			n := int(body[i])
			i++
			if n < 128 {
				// repeat run: n+1 copies of one dn-byte group
				i += 1 // dn == 1 for single-channel gray
				x += n + 1
			} else {
				count := 257 - n
				i += count
				x += count
			}
		}
	}
	if rows != p.H {
		t.Fatalf("decoded %d rows from body, want %d", rows, p.H)
	}
}

func TestWritePGM(t *testing.T) {
	p := raster.NewPixmap(color.DeviceGray, 2, 1, nil, false)
	p.Samples[0] = 10
	p.Samples[1] = 200

	var buf bytes.Buffer
	if err := WritePGM(&buf, p); err != nil {
		t.Fatalf("WritePGM: %v", err)
	}
	want := "P5\n2 1\n255\n" + string([]byte{10, 200})
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestWritePPMWrongComponents(t *testing.T) {
	p := raster.NewPixmap(color.DeviceGray, 2, 1, nil, false)
	if err := WritePPM(&bytes.Buffer{}, p); err == nil {
		t.Fatalf("expected error for 1-component pixmap passed to WritePPM")
	}
}

func TestWritePAMIncludesAlpha(t *testing.T) {
	p := raster.NewPixmap(color.DeviceRGB, 1, 1, nil, true)
	p.Samples[0], p.Samples[1], p.Samples[2], p.Samples[3] = 1, 2, 3, 4

	var buf bytes.Buffer
	if err := WritePAM(&buf, p); err != nil {
		t.Fatalf("WritePAM: %v", err)
	}
	s := buf.String()
	if !bytes.Contains([]byte(s), []byte("TUPLTYPE RGB_ALPHA")) {
		t.Fatalf("missing RGB_ALPHA tuple type: %q", s)
	}
	if !bytes.HasSuffix([]byte(s), []byte{1, 2, 3, 4}) {
		t.Fatalf("expected trailing sample bytes 1,2,3,4, got %q", s)
	}
}

func TestWritePBM(t *testing.T) {
	b := raster.NewBitmap(9, 1)
	b.Set(0, 0, true)
	b.Set(8, 0, true)

	var buf bytes.Buffer
	if err := WritePBM(&buf, b); err != nil {
		t.Fatalf("WritePBM: %v", err)
	}
	const hdr = "P4\n9 1\n"
	if !bytes.HasPrefix(buf.Bytes(), []byte(hdr)) {
		t.Fatalf("missing PBM header: %q", buf.Bytes())
	}
	body := buf.Bytes()[len(hdr):]
	if len(body) != 2 {
		t.Fatalf("expected 2 packed bytes for width 9, got %d", len(body))
	}
	if body[0] != 0x80 || body[1] != 0x80 {
		t.Fatalf("unexpected packed bits: %08b %08b", body[0], body[1])
	}
}

func TestEncodePNGDecodesBack(t *testing.T) {
	p := raster.NewPixmap(color.DeviceRGB, 3, 2, nil, false)
	for i := range p.Samples {
		p.Samples[i] = byte(50 + i)
	}

	var buf bytes.Buffer
	if err := EncodePNG(&buf, p, false); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if img.Bounds() != stdimage.Rect(0, 0, 3, 2) {
		t.Fatalf("decoded bounds %v, want 3x2", img.Bounds())
	}
}

func TestCBZPageNaming(t *testing.T) {
	p := raster.NewPixmap(color.DeviceGray, 1, 1, nil, false)

	var buf bytes.Buffer
	w := NewCBZWriter(&buf)
	for i := 0; i < 3; i++ {
		if err := w.WritePage(p); err != nil {
			t.Fatalf("WritePage %d: %v", i, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	names := cbzEntryNames(t, buf.Bytes())
	want := []string{"p0001.png", "p0002.png", "p0003.png"}
	if len(names) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(names), len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("entry %d = %q, want %q", i, names[i], want[i])
		}
	}
}
