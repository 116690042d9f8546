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

package image

import (
	"github.com/inkfold/fitz"
	"github.com/inkfold/fitz/color"
	"github.com/inkfold/fitz/raster"
	"github.com/inkfold/fitz/store"
)

// tileKey is the store key for a decoded, subsampled tile of one Image
// (§4.6 step 3: "keyed by (image identity, l2factor)"). Constructing a
// tileKey takes a store-key reference on the owning image, and its
// release (on eviction or reap) drops that reference (§4.12).
type tileKey struct {
	img *Image
	l2  int
}

func newTileKey(img *Image, l2 int) tileKey {
	img.KeepKey()
	return tileKey{img: img, l2: l2}
}

func (k tileKey) Hash() (uint64, bool) {
	h := uint64(k.img.identity)*1099511628211 ^ uint64(k.l2)
	return h, true
}

func (k tileKey) Cmp(other store.Key) bool {
	o, ok := other.(tileKey)
	return ok && o.img.identity == k.img.identity && o.l2 == k.l2
}

func (k tileKey) NeedsReap() bool { return k.img.rc.NeedsReap() }

// Release drops the store-key reference this key holds on its image,
// called by Store when the entry it keys is evicted or reaped.
func (k tileKey) Release() { k.img.DropKey() }

// l2Factor computes the subsample exponent per §4.6 step 2: the
// smallest l2 for which halving once more would break the constraint,
// i.e. w>>(l2+1) < wantW+2 (or the symmetric one for h), capped at 8.
// The result keeps w>>l2 >= wantW+2 whenever l2 > 0.
func l2Factor(w, h, wantW, wantH int) int {
	if wantW <= 0 {
		wantW = 1
	}
	if wantH <= 0 {
		wantH = 1
	}
	l2 := 0
	for l2 < 8 {
		if (w>>(l2+1)) < wantW+2 || (h>>(l2+1)) < wantH+2 {
			break
		}
		l2++
	}
	return l2
}

// GetPixmap implements image_get_pixmap(img, want_w, want_h) (§4.6): it
// returns a kept reference to a pixmap at least as large as requested
// (or native size if smaller), decoding and caching as needed.
func (img *Image) GetPixmap(wantW, wantH int) (*raster.Pixmap, error) {
	// Step 1: pure pixmap wrapper.
	if img.pixmap != nil {
		img.pixmap.Keep()
		return img.pixmap, nil
	}

	// Step 2: subsample factor.
	l2 := l2Factor(img.W, img.H, wantW, wantH)

	// Step 3: consult the store.
	if img.store != nil {
		if v, ok := img.store.Find(newTileKeyNoKeep(img, l2)); ok {
			return v.(*raster.Pixmap), nil
		}
	}

	// Step 4: decode.
	pix, err := img.decode(l2)
	if err != nil {
		return nil, err
	}

	// Step 5: decode array + indexed expansion.
	img.applyDecodeArray(pix)

	// Step 6: color-key masking.
	img.applyColorKey(pix)

	// Step 7: matte pre-blend.
	img.applyMatte(pix)

	// Step 8: insert into the store, racing threads tolerated by
	// store.Insert itself (§4.6 step 8).
	if img.store != nil {
		pix.Keep()
		return img.store.Insert(newTileKey(img, l2), pix).(*raster.Pixmap), nil
	}
	return pix, nil
}

// newTileKeyNoKeep builds a lookup-only key: Find never stores it, so it
// must not take a store-key reference (that would leak one per miss).
func newTileKeyNoKeep(img *Image, l2 int) tileKey { return tileKey{img: img, l2: l2} }

func (img *Image) decode(l2 int) (*raster.Pixmap, error) {
	dec := decoders[img.Codec]
	if dec == nil {
		return nil, fitz.Errorf(fitz.Unsupported, "no decoder registered for codec %d", img.Codec)
	}
	if dec.SupportsNativeSubsample() {
		return dec.Decode(img.Buffer, l2)
	}
	pix, err := dec.Decode(img.Buffer, 0)
	if err != nil {
		return nil, err
	}
	pix.Subsample(l2)
	return pix, nil
}

// applyDecodeArray remaps each channel through img.Decode (a linear
// [min,max] pair per component) and expands an Indexed colorspace to its
// base space, per §4.6 step 5.
func (img *Image) applyDecodeArray(pix *raster.Pixmap) {
	idx, isIndexed := img.ColorSpace.(*color.Indexed)
	if len(img.Decode) == 0 && !isIndexed {
		return
	}
	n := pix.Components()
	colorN := n
	if pix.HasAlpha {
		colorN--
	}
	for y := 0; y < pix.H; y++ {
		for x := 0; x < pix.W; x++ {
			off := pix.PixelOffset(x, y)
			if isIndexed {
				i := int(pix.Samples[off])
				row := idx.Lookup(i)
				for c := 0; c < colorN && c < len(row); c++ {
					pix.Samples[off+c] = clampByte(row[c] * 255)
				}
				continue
			}
			for c := 0; c < colorN && 2*c+1 < len(img.Decode); c++ {
				lo, hi := img.Decode[2*c], img.Decode[2*c+1]
				v := float64(pix.Samples[off+c]) / 255
				pix.Samples[off+c] = clampByte((lo + v*(hi-lo)) * 255)
			}
		}
	}
}

// applyColorKey forces alpha to zero for every pixel whose unpremultiplied
// components all fall within their [low,high] color-key range (§4.6 step 6).
func (img *Image) applyColorKey(pix *raster.Pixmap) {
	if len(img.ColorKey) == 0 || !pix.HasAlpha {
		return
	}
	n := pix.Components()
	colorN := n - 1
	for y := 0; y < pix.H; y++ {
		for x := 0; x < pix.W; x++ {
			off := pix.PixelOffset(x, y)
			masked := true
			for c := 0; c < colorN && 2*c+1 < len(img.ColorKey); c++ {
				v := int(pix.Samples[off+c])
				if v < img.ColorKey[2*c] || v > img.ColorKey[2*c+1] {
					masked = false
					break
				}
			}
			if masked {
				pix.Samples[off+colorN] = 0
				for c := 0; c < colorN; c++ {
					pix.Samples[off+c] = 0
				}
			}
		}
	}
}

// applyMatte unblends a soft-masked image's color against its matte
// color, per §4.6 step 7: C := clamp(matte + (C-matte)*255/mask_alpha, 0, 255).
func (img *Image) applyMatte(pix *raster.Pixmap) {
	if img.SoftMask == nil || len(img.Matte) == 0 {
		return
	}
	mask, err := img.SoftMask.GetPixmap(pix.W, pix.H)
	if err != nil {
		return
	}
	defer mask.Drop()

	n := pix.Components()
	colorN := n
	if pix.HasAlpha {
		colorN--
	}
	maskN := mask.Components()
	for y := 0; y < pix.H && y < mask.H; y++ {
		for x := 0; x < pix.W && x < mask.W; x++ {
			off := pix.PixelOffset(x, y)
			maskOff := mask.PixelOffset(x, y)
			alpha := int(mask.Samples[maskOff+maskN-1])
			if mask.HasAlpha {
				alpha = int(mask.Samples[maskOff+maskN-1])
			} else {
				alpha = int(mask.Samples[maskOff])
			}
			if alpha == 0 {
				continue
			}
			for c := 0; c < colorN && c < len(img.Matte); c++ {
				matte := img.Matte[c] * 255
				v := matte + (float64(pix.Samples[off+c])-matte)*255/float64(alpha)
				pix.Samples[off+c] = clampByte(v)
			}
		}
	}
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
