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
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/inkfold/fitz/raster"
)

// pwgHeaderSize is the combined sync-word-plus-page-header length
// mandated by S5: 1796 bytes total, byte 0 the 'R' of the "RaS2" sync
// word (§6). Grounded on original_source/source/fitz/output-pwg.c's
// output_header, which writes the sync separately once per file and a
// 1792-byte page header per page; this implementation folds both into
// one 1796-byte unit per page, so the single documented test (S5) pins down exact byte
// offsets unambiguously. Field layout otherwise follows the source's
// write order, except HWResolution is emitted later (at offset 300
// rather than 276) to match the offsets §6/S5 specify.
const pwgHeaderSize = 1796

// PWGOptions carries the free-text job-ticket fields a caller may want
// stamped into the header; all are optional.
type PWGOptions struct {
	MediaClass, MediaColor, MediaType, OutputType string
	RenderingIntent, PageSizeName                 string
}

func pwgColorSpaceCode(bpp int) (int, error) {
	switch bpp {
	case 1:
		return 3, nil // Black
	case 8:
		return 18, nil // Sgray
	case 24:
		return 19, nil // Srgb
	case 32:
		return 6, nil // Cmyk
	default:
		return 0, fmt.Errorf("output: pixmap bpp must be 1, 8, 24 or 32 to write as PWG, got %d", bpp)
	}
}

func buildPWGHeader(opt *PWGOptions, xres, yres, w, h, bpp int) ([]byte, error) {
	cs, err := pwgColorSpaceCode(bpp)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, pwgHeaderSize)
	copy(buf[0:4], "RaS2")
	if opt != nil {
		copy(buf[4:68], opt.MediaClass)
		copy(buf[68:132], opt.MediaColor)
		copy(buf[132:196], opt.MediaType)
		copy(buf[196:260], opt.OutputType)
	}
	be := binary.BigEndian
	be.PutUint32(buf[300:304], uint32(xres))
	be.PutUint32(buf[304:308], uint32(yres))
	if xres > 0 {
		be.PutUint32(buf[356:360], uint32(w*72/xres))
	}
	if yres > 0 {
		be.PutUint32(buf[360:364], uint32(h*72/yres))
	}
	be.PutUint32(buf[372:376], uint32(w))
	be.PutUint32(buf[376:380], uint32(h))
	be.PutUint32(buf[384:388], uint32(bpp))
	be.PutUint32(buf[388:392], uint32((w*bpp+7)/8))
	be.PutUint32(buf[400:404], uint32(cs))
	if opt != nil {
		copy(buf[1668:1732], opt.RenderingIntent)
		copy(buf[1732:1796], opt.PageSizeName)
	}
	return buf, nil
}

func resOrDefault(r int) int {
	if r <= 0 {
		return 72
	}
	return r
}

// WritePWG writes p as a single-page CUPS/PWG raster stream (§6): a
// 1796-byte header (S5) followed by the pack-bits-compressed row body.
// p's colorspace must be Gray, RGB or CMYK.
func WritePWG(w io.Writer, p *raster.Pixmap, opt *PWGOptions) error {
	n := p.ColorSpace.N()
	if n != 1 && n != 3 && n != 4 {
		return fmt.Errorf("output: pixmap must be grayscale, rgb or cmyk to write as PWG, got %d components", n)
	}
	hdr, err := buildPWGHeader(opt, resOrDefault(p.XRes), resOrDefault(p.YRes), p.W, p.H, n*8)
	if err != nil {
		return err
	}
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	return writePWGPixmapBody(w, p, n)
}

// WritePWGBitmap writes b (a 1-bit halftoned raster) as a single-page
// PWG stream.
func WritePWGBitmap(w io.Writer, b *raster.Bitmap, opt *PWGOptions) error {
	hdr, err := buildPWGHeader(opt, resOrDefault(b.XRes), resOrDefault(b.YRes), b.W, b.H, 1)
	if err != nil {
		return err
	}
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	return writePWGBitmapBody(w, b)
}

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

// writePWGPixmapBody ports output-pwg.c's fz_output_pwg_page row
// pack-bits encoder: a row-repeat byte, then per-row repeat/literal
// runs of dn-byte sample groups (dn drops the trailing alpha/separation
// bytes that sn, the full per-pixel stride, includes).
func writePWGPixmapBody(w io.Writer, p *raster.Pixmap, dn int) error {
	sn := p.Components()
	width, height := p.W, p.H

	rowAt := func(y int) []byte {
		off := p.PixelOffset(p.X, p.Y+y)
		return p.Samples[off : off+width*sn]
	}

	y := 0
	for y < height {
		row0 := rowAt(y)
		yrep := 1
		for yrep < 256 && y+yrep < height {
			if !bytes.Equal(row0, rowAt(y+yrep)) {
				break
			}
			yrep++
		}
		if err := writeByte(w, byte(yrep-1)); err != nil {
			return err
		}

		sp := row0
		x := 0
		for x < width {
			d := 1
			for d < 128 && x+d < width {
				if bytes.Equal(sp[(d-1)*sn:(d-1)*sn+sn], sp[d*sn:d*sn+sn]) {
					break
				}
				d++
			}
			if d == 1 {
				xrep := 1
				for xrep < 128 && x+xrep < width {
					if !bytes.Equal(sp[0:sn], sp[xrep*sn:xrep*sn+sn]) {
						break
					}
					xrep++
				}
				if err := writeByte(w, byte(xrep-1)); err != nil {
					return err
				}
				if _, err := w.Write(sp[0:dn]); err != nil {
					return err
				}
				sp = sp[sn*xrep:]
				x += xrep
			} else {
				if err := writeByte(w, byte(257-d)); err != nil {
					return err
				}
				for i := 0; i < d; i++ {
					if _, err := w.Write(sp[0:dn]); err != nil {
						return err
					}
					sp = sp[sn:]
				}
				x += d
			}
		}
		y += yrep
	}
	return nil
}

// writePWGBitmapBody is the 1-bit analogue of writePWGPixmapBody,
// comparing and copying whole bytes (8 pixels) at a time.
func writePWGBitmapBody(w io.Writer, b *raster.Bitmap) error {
	byteWidth := (b.W + 7) / 8

	rowAt := func(y int) []byte {
		off := y * b.Stride
		return b.Data[off : off+byteWidth]
	}

	y := 0
	for y < b.H {
		row0 := rowAt(y)
		yrep := 1
		for yrep < 256 && y+yrep < b.H {
			if !bytes.Equal(row0, rowAt(y+yrep)) {
				break
			}
			yrep++
		}
		if err := writeByte(w, byte(yrep-1)); err != nil {
			return err
		}

		sp := row0
		x := 0
		for x < byteWidth {
			d := 1
			for d < 128 && x+d < byteWidth {
				if sp[d-1] == sp[d] {
					break
				}
				d++
			}
			if d == 1 {
				xrep := 1
				for xrep < 128 && x+xrep < byteWidth {
					if sp[0] != sp[xrep] {
						break
					}
					xrep++
				}
				if err := writeByte(w, byte(xrep-1)); err != nil {
					return err
				}
				if err := writeByte(w, sp[0]); err != nil {
					return err
				}
				sp = sp[xrep:]
				x += xrep
			} else {
				if err := writeByte(w, byte(257-d)); err != nil {
					return err
				}
				if _, err := w.Write(sp[:d]); err != nil {
					return err
				}
				sp = sp[d:]
				x += d
			}
		}
		y += yrep
	}
	return nil
}
