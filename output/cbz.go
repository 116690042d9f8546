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
	"fmt"
	"io"

	"github.com/inkfold/fitz/raster"
)

// CBZWriter collects rendered pages into a CBZ archive: a zip file of
// PNG frames named p0001.png, p0002.png, ... in page order. Grounded on
// original_source/source/fitz/output-cbz.c's cbz_writer, which builds
// the same name with fz_snprintf(name, sizeof name, "p%04d.png",
// wri->count).
type CBZWriter struct {
	zw    *zip.Writer
	count int
}

// NewCBZWriter wraps w as a CBZ archive writer.
func NewCBZWriter(w io.Writer) *CBZWriter {
	return &CBZWriter{zw: zip.NewWriter(w)}
}

// WritePage PNG-encodes p and appends it as the next frame.
func (c *CBZWriter) WritePage(p *raster.Pixmap) error {
	c.count++
	fw, err := c.zw.Create(fmt.Sprintf("p%04d.png", c.count))
	if err != nil {
		return err
	}
	return EncodePNG(fw, p, false)
}

// Close finalizes the zip archive's central directory. It does not
// close the underlying writer.
func (c *CBZWriter) Close() error {
	return c.zw.Close()
}
