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

// Package output implements the §6 pixmap/bitmap serializers: the PNM
// family (PGM/PPM/PNM/PAM), PBM, PNG and PWG raster, plus a CBZ page
// archive writer. Grounded on original_source/source/fitz/output-pnm.c,
// output-pwg.c and output-cbz.c, adapted into independent Write*
// functions rather than the original's fz_band_writer state machine,
// since this package has no band-by-band renderer to drive — it always
// receives a complete Pixmap or Bitmap.
package output

import (
	"fmt"
	"io"

	"github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/raster"
)

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// WritePGM writes p as a binary PGM (P5) image. p's colorspace must
// have exactly one component; any alpha channel is dropped after
// unpremultiplying.
func WritePGM(w io.Writer, p *raster.Pixmap) error {
	if p.ColorSpace.N() != 1 {
		return fmt.Errorf("output: WritePGM requires a 1-component colorspace, got %d", p.ColorSpace.N())
	}
	if _, err := fmt.Fprintf(w, "P5\n%d %d\n255\n", p.W, p.H); err != nil {
		return err
	}
	return writeColorRows(w, p)
}

// WritePPM writes p as a binary PPM (P6) image. p's colorspace must
// have exactly three components (DeviceRGB or DeviceBGR).
func WritePPM(w io.Writer, p *raster.Pixmap) error {
	if p.ColorSpace.N() != 3 {
		return fmt.Errorf("output: WritePPM requires a 3-component colorspace, got %d", p.ColorSpace.N())
	}
	if _, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", p.W, p.H); err != nil {
		return err
	}
	return writeColorRows(w, p)
}

// WritePNM dispatches to WritePGM or WritePPM by component count.
func WritePNM(w io.Writer, p *raster.Pixmap) error {
	switch p.ColorSpace.N() {
	case 1:
		return WritePGM(w, p)
	case 3:
		return WritePPM(w, p)
	default:
		return fmt.Errorf("output: WritePNM requires a 1- or 3-component colorspace, got %d", p.ColorSpace.N())
	}
}

// writeColorRows writes only p's color samples, row by row,
// unpremultiplying first when p carries an alpha channel and
// reordering DeviceBGR samples into RGB order.
func writeColorRows(w io.Writer, p *raster.Pixmap) error {
	colorN := p.ColorSpace.N()
	n := p.Components()
	bgr := p.ColorSpace == color.DeviceBGR
	row := make([]byte, p.W*colorN)
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			off := p.PixelOffset(p.X+x, p.Y+y)
			var px [4]byte
			for c := 0; c < colorN; c++ {
				v := p.Samples[off+c]
				if p.HasAlpha {
					a := p.Samples[off+n-1]
					if a != 0 {
						v = clampByte(int(v) * 255 / int(a))
					} else {
						v = 0
					}
				}
				px[c] = v
			}
			if bgr && colorN == 3 {
				px[0], px[2] = px[2], px[0]
			}
			copy(row[x*colorN:], px[:colorN])
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WritePAM writes p as a binary PAM (P7) image, keeping its alpha
// channel (and any spot-color separations) verbatim rather than
// dropping them as the PGM/PPM writers do.
func WritePAM(w io.Writer, p *raster.Pixmap) error {
	n := p.Components()
	hdr := fmt.Sprintf("P7\nWIDTH %d\nHEIGHT %d\nDEPTH %d\nMAXVAL 255\nTUPLTYPE %s\nENDHDR\n",
		p.W, p.H, n, pamTupleType(p))
	if _, err := io.WriteString(w, hdr); err != nil {
		return err
	}
	rowBytes := p.W * n
	for y := 0; y < p.H; y++ {
		off := p.PixelOffset(p.X, p.Y+y)
		if _, err := w.Write(p.Samples[off : off+rowBytes]); err != nil {
			return err
		}
	}
	return nil
}

func pamTupleType(p *raster.Pixmap) string {
	base := "RGB"
	switch p.ColorSpace.N() {
	case 1:
		base = "GRAYSCALE"
	case 4:
		base = "CMYK"
	}
	if p.HasAlpha {
		return base + "_ALPHA"
	}
	return base
}

// WritePBM writes a halftoned bitmap as a binary PBM (P4) image; bit 1
// means black, matching Bitmap's halftone convention directly.
func WritePBM(w io.Writer, b *raster.Bitmap) error {
	if _, err := fmt.Fprintf(w, "P4\n%d %d\n", b.W, b.H); err != nil {
		return err
	}
	rowBytes := (b.W + 7) / 8
	for y := 0; y < b.H; y++ {
		off := y * b.Stride
		if _, err := w.Write(b.Data[off : off+rowBytes]); err != nil {
			return err
		}
	}
	return nil
}
