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

// Package raster implements the premultiplied-alpha pixel buffer (§4.3)
// that every device ultimately paints into: Pixmap for continuous-tone
// samples and Bitmap for 1-bit halftoned output.
package raster

import (
	"sync/atomic"

	"github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/geom"
)

// Pixmap is a reference-counted, possibly-caller-owned sample buffer.
// Samples are stored interleaved row-major, components-per-pixel =
// ColorSpace.N() + len(Seps) + (1 if HasAlpha). When HasAlpha, color
// components are premultiplied by alpha (§4.3 invariant: C <= A).
type Pixmap struct {
	refs atomic.Int64

	ColorSpace color.Space
	Seps       []string // named spot-color separations, in addition to ColorSpace
	HasAlpha   bool

	X, Y            int // pixel-space origin, for new_pixmap_with_bbox
	W, H            int
	Stride          int // bytes per row; Stride >= W*Components()
	Samples         []byte
	externallyOwned bool // true for new_pixmap_with_data buffers: never reallocated or freed by us

	XRes, YRes int // resolution hint in pixels/inch, for serializers that need one (§6 PWG)
}

// Components returns the number of interleaved bytes per pixel.
func (p *Pixmap) Components() int {
	n := p.ColorSpace.N() + len(p.Seps)
	if p.HasAlpha {
		n++
	}
	return n
}

// NewPixmap allocates a pixmap of size w x h at origin (0,0) in cs, with
// the given spot-color separations and alpha channel.
func NewPixmap(cs color.Space, w, h int, seps []string, hasAlpha bool) *Pixmap {
	return NewPixmapWithBBox(cs, geom.IRect{X0: 0, Y0: 0, X1: w, Y1: h}, seps, hasAlpha)
}

// NewPixmapWithBBox allocates a pixmap covering bbox.
func NewPixmapWithBBox(cs color.Space, bbox geom.IRect, seps []string, hasAlpha bool) *Pixmap {
	p := &Pixmap{
		ColorSpace: cs,
		Seps:       seps,
		HasAlpha:   hasAlpha,
		X:          bbox.X0,
		Y:          bbox.Y0,
		W:          bbox.Width(),
		H:          bbox.Height(),
		XRes:       72,
		YRes:       72,
	}
	p.refs.Store(1)
	n := p.Components()
	p.Stride = p.W * n
	p.Samples = make([]byte, p.Stride*p.H)
	return p
}

// NewPixmapWithData wraps a caller-supplied buffer. The pixmap never
// reallocates or frees samples; the caller retains ownership and must
// keep it alive for the pixmap's lifetime (§4.3).
func NewPixmapWithData(cs color.Space, w, h int, seps []string, hasAlpha bool, stride int, samples []byte) *Pixmap {
	p := &Pixmap{
		ColorSpace:      cs,
		Seps:            seps,
		HasAlpha:        hasAlpha,
		W:               w,
		H:               h,
		Stride:          stride,
		Samples:         samples,
		externallyOwned: true,
		XRes:            72,
		YRes:            72,
	}
	p.refs.Store(1)
	return p
}

// Keep increments the reference count.
func (p *Pixmap) Keep() { p.refs.Add(1) }

// Drop decrements the reference count; p must not be used after the
// count reaches zero. Drop itself has no return value, matching the
// store package's Value contract — callers that need to know whether
// they released the last reference should track that separately (the
// resource store never needs to).
func (p *Pixmap) Drop() {
	p.refs.Add(-1)
}

// Refs returns the current reference count.
func (p *Pixmap) Refs() int64 { return p.refs.Load() }

// Size reports the buffer's byte footprint, used by the resource store.
func (p *Pixmap) Size() int { return len(p.Samples) }

// Bounds returns the pixmap's bounding rectangle in pixel space.
func (p *Pixmap) Bounds() geom.IRect {
	return geom.IRect{X0: p.X, Y0: p.Y, X1: p.X + p.W, Y1: p.Y + p.H}
}

func (p *Pixmap) rowOffset(y int) int {
	return (y - p.Y) * p.Stride
}

func (p *Pixmap) pixelOffset(x, y int) int {
	return p.rowOffset(y) + (x-p.X)*p.Components()
}

// PixelOffset returns the byte offset of pixel (x, y) within Samples,
// for callers outside this package that need direct sample access (e.g.
// the image package's decode-array and color-key passes).
func (p *Pixmap) PixelOffset(x, y int) int {
	return p.pixelOffset(x, y)
}
