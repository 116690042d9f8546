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

// Package color implements the colorspace abstraction (§4.2): an
// abstract converter with a component count and to/from DeviceRGB
// direction functions, the four standard process-wide singleton spaces,
// Indexed colorspaces, and ICC-backed colorspaces.
package color

// Space is an abstract colorspace: a component count plus two direction
// functions. Conversion between two arbitrary spaces is implemented by
// routing through DeviceRGB when no direct conversion is registered
// (§4.2).
type Space interface {
	// Name identifies the space, e.g. "DeviceGray".
	Name() string
	// N is the number of color components.
	N() int
	// ToRGB converts a component vector (length N()) to DeviceRGB.
	ToRGB(v []float64) (r, g, b float64)
	// FromRGB converts a DeviceRGB triple to this space's component
	// vector (length N()).
	FromRGB(r, g, b float64) []float64
}

type deviceGray struct{}

func (deviceGray) Name() string { return "DeviceGray" }
func (deviceGray) N() int       { return 1 }
func (deviceGray) ToRGB(v []float64) (r, g, b float64) {
	g2 := clamp01(v[0])
	return g2, g2, g2
}
func (deviceGray) FromRGB(r, g, b float64) []float64 {
	return []float64{0.3*r + 0.59*g + 0.11*b}
}

type deviceRGB struct{}

func (deviceRGB) Name() string { return "DeviceRGB" }
func (deviceRGB) N() int       { return 3 }
func (deviceRGB) ToRGB(v []float64) (r, g, b float64) {
	return clamp01(v[0]), clamp01(v[1]), clamp01(v[2])
}
func (deviceRGB) FromRGB(r, g, b float64) []float64 {
	return []float64{r, g, b}
}

type deviceBGR struct{}

func (deviceBGR) Name() string { return "DeviceBGR" }
func (deviceBGR) N() int       { return 3 }
func (deviceBGR) ToRGB(v []float64) (r, g, b float64) {
	return clamp01(v[2]), clamp01(v[1]), clamp01(v[0])
}
func (deviceBGR) FromRGB(r, g, b float64) []float64 {
	return []float64{b, g, r}
}

type deviceCMYK struct{}

func (deviceCMYK) Name() string { return "DeviceCMYK" }
func (deviceCMYK) N() int       { return 4 }
func (deviceCMYK) ToRGB(v []float64) (r, g, b float64) {
	c, m, y, k := clamp01(v[0]), clamp01(v[1]), clamp01(v[2]), clamp01(v[3])
	return 1 - min1(1, c+k), 1 - min1(1, m+k), 1 - min1(1, y+k)
}
func (deviceCMYK) FromRGB(r, g, b float64) []float64 {
	c := 1 - r
	m := 1 - g
	y := 1 - b
	k := min1(c, min1(m, y))
	if k >= 1 {
		return []float64{0, 0, 0, 1}
	}
	return []float64{(c - k) / (1 - k), (m - k) / (1 - k), (y - k) / (1 - k), k}
}

// The four standard spaces are process-wide singletons (§6): they
// compare equal by identity across clones of a Context because they are
// package-level values, not per-context constructions.
var (
	DeviceGray Space = deviceGray{}
	DeviceRGB  Space = deviceRGB{}
	DeviceBGR  Space = deviceBGR{}
	DeviceCMYK Space = deviceCMYK{}
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func min1(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Convert implements the single externally visible color conversion
// contract (§4.2): convert_color(dst, dstVec, src, srcVec). When dst and
// src are the same space (by identity) the source vector is copied
// unchanged; otherwise conversion is routed through DeviceRGB. Results
// are deterministic for identical inputs (§4.2).
func Convert(dst Space, src Space, srcVec []float64) []float64 {
	if dst == src {
		out := make([]float64, len(srcVec))
		copy(out, srcVec)
		return out
	}
	r, g, b := src.ToRGB(srcVec)
	return dst.FromRGB(r, g, b)
}

// Indexed wraps a base space plus a lookup table: each index selects one
// row of Base.N() components from the table.
type Indexed struct {
	Base  Space
	Table [][]float64 // Table[i] has length Base.N()
}

func (x *Indexed) Name() string { return "Indexed" }
func (x *Indexed) N() int       { return 1 }

func (x *Indexed) ToRGB(v []float64) (r, g, b float64) {
	i := int(v[0])
	if i < 0 {
		i = 0
	}
	if i >= len(x.Table) {
		i = len(x.Table) - 1
	}
	if i < 0 {
		return 0, 0, 0
	}
	return x.Base.ToRGB(x.Table[i])
}

func (x *Indexed) FromRGB(r, g, b float64) []float64 {
	// Indexed spaces are not invertible in general; nearest-table-entry
	// search is the documented fallback.
	best, bestDist := 0, -1.0
	for i, row := range x.Table {
		rr, gg, bb := x.Base.ToRGB(row)
		d := (rr-r)*(rr-r) + (gg-g)*(gg-g) + (bb-b)*(bb-b)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return []float64{float64(best)}
}

// Lookup returns the base-space component vector for index i, expanding
// the Indexed colorspace (used by the image pipeline's decode step,
// §4.6 step 5).
func (x *Indexed) Lookup(i int) []float64 {
	if i < 0 {
		i = 0
	}
	if i >= len(x.Table) {
		i = len(x.Table) - 1
	}
	return x.Table[i]
}
