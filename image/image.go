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

// Package image implements the lazy-decoded pixmap source (§4.6): an
// Image describes width/height/colorspace/decode metadata plus either
// an already-decoded pixmap or a compressed buffer and a codec tag, and
// exposes GetPixmap, which picks a subsample factor, consults the
// resource store, and decodes on a cache miss.
package image

import (
	"sync/atomic"

	"github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/geom"
	"github.com/inkfold/fitz/raster"
	"github.com/inkfold/fitz/store"
)

// Codec names the compressed-buffer format an Image wraps when it is
// not already a decoded pixmap (§3).
type Codec int

const (
	CodecNone Codec = iota
	CodecPNG
	CodecJPEG
	CodecJPEG2000
	CodecTIFF
	CodecJXR
	CodecJBIG2
	CodecInline
)

// Decoder is the per-codec contract (§6): Info reports the stream's
// dimensions and native colorspace without fully decoding it; Decode
// produces a Pixmap, honouring targetSubsample natively when the codec
// supports it (ignored otherwise, in which case the core subsamples the
// full decode).
type Decoder interface {
	Info(buf []byte) (w, h int, xres, yres float64, cs color.Space, err error)
	Decode(buf []byte, targetSubsample int) (*raster.Pixmap, error)
	// SupportsNativeSubsample reports whether Decode actually honours
	// targetSubsample (true for JPEG's DCT-domain scaling) or always
	// decodes at full resolution, leaving the core to Subsample (§4.6
	// step 4: "for others, decode then subsample to reach l2factor").
	SupportsNativeSubsample() bool
}

var decoders = map[Codec]Decoder{}

// RegisterDecoder installs dec as the decoder for codec, replacing any
// previous registration. External codec packages call this at init time
// to wire themselves into image_get_pixmap's step 4 dispatch.
func RegisterDecoder(codec Codec, dec Decoder) {
	decoders[codec] = dec
}

var nextIdentity atomic.Int64

// Image is a lazy pixmap source (§3): either a thin wrapper around an
// already-decoded Pixmap, or a compressed buffer paired with a Codec.
// It is key-storable (§4.12): cached decoded tiles are keyed by
// (image identity, subsample factor), so an Image may outlive its main
// references as long as a store entry still keys off it.
type Image struct {
	rc store.KeyStorableRefCount

	identity int64 // stable identity for store keys, independent of pointer reuse

	W, H             int
	BitsPerComponent int
	Decode           []float64 // per-channel linear remap, nil means identity
	ColorSpace       color.Space
	Interpolate      bool

	// ColorKey holds [low0, high0, low1, high1, ...] per channel in the
	// Image's BitsPerComponent-scaled sample range; a nil slice means no
	// color-key masking (§4.6 step 6).
	ColorKey []int

	// SoftMask is an independent single-channel Image providing
	// per-pixel alpha; Matte, when non-nil, is the premultiplied matte
	// color to unblend against it (§4.6 step 7).
	SoftMask *Image
	Matte    []float64

	// Either pixmap is set (a pure wrapper, §4.6 step 1)...
	pixmap *raster.Pixmap
	// ...or Codec/Buffer are set (a lazy compressed source).
	Codec  Codec
	Buffer []byte

	store *store.Store
}

// NewFromPixmap wraps an already-decoded pixmap (§4.6 step 1): GetPixmap
// always returns (a reference to) pix regardless of the requested size.
func NewFromPixmap(s *store.Store, pix *raster.Pixmap) *Image {
	img := &Image{
		identity:   nextIdentity.Add(1),
		W:          pix.W,
		H:          pix.H,
		ColorSpace: pix.ColorSpace,
		pixmap:     pix,
		store:      s,
	}
	img.rc.InitKeyStorable(s)
	return img
}

// NewCompressed describes a lazily-decoded image backed by buf, which
// codec interprets.
func NewCompressed(s *store.Store, w, h, bpc int, cs color.Space, codec Codec, buf []byte) *Image {
	img := &Image{
		identity:         nextIdentity.Add(1),
		W:                w,
		H:                h,
		BitsPerComponent: bpc,
		ColorSpace:       cs,
		Codec:            codec,
		Buffer:           buf,
		store:            s,
	}
	img.rc.InitKeyStorable(s)
	return img
}

// Keep increments the main reference count.
func (img *Image) Keep() { img.rc.Keep() }

// Drop decrements the main reference count; see store.KeyStorable for
// the key-refs interaction.
func (img *Image) Drop() { img.rc.Drop() }

// Refs, KeyRefs, KeepKey, DropKey satisfy store.KeyStorable.
func (img *Image) Refs() int64    { return img.rc.Refs() }
func (img *Image) KeyRefs() int64 { return img.rc.KeyRefs() }
func (img *Image) KeepKey()       { img.rc.KeepKey() }
func (img *Image) DropKey() bool  { return img.rc.DropKey() }

// Bounds returns the image's pixel-space bounding rectangle.
func (img *Image) Bounds() geom.IRect {
	return geom.IRect{X0: 0, Y0: 0, X1: img.W, Y1: img.H}
}
