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

package color

import (
	"seehuhn.de/go/icc"
)

// ICCSpace is a Space backed by a parsed ICC profile. Conversion routes
// through the profile's device class: for an RGB-class profile (the
// common case, e.g. icc.SRGBv2Profile/icc.SRGBv4Profile) the profile's
// component count and value ranges are honoured directly; full device-
// link transforms are outside this core's scope (§1 excludes color
// management engine internals), so ToRGB/FromRGB always behave like the
// alternate space chosen at construction (DeviceRGB, and so the identity,
// for a 3-component profile when no alternate was supplied).
type ICCSpace struct {
	n         int
	Ranges    []float64
	alternate Space
}

// ICCBased parses profile (raw ICC profile bytes, e.g. icc.SRGBv2Profile)
// and returns an ICCSpace. alternate is used for spaces this core cannot
// interpret directly (non-RGB device classes); it may be nil, in which
// case DeviceGray, DeviceRGB or DeviceCMYK is picked based on the parsed
// component count.
func ICCBased(profile []byte, alternate Space) (*ICCSpace, error) {
	info, err := icc.ICCBased(profile, nil)
	if err != nil {
		return nil, err
	}

	alt := alternate
	if alt == nil {
		switch info.N {
		case 1:
			alt = DeviceGray
		case 4:
			alt = DeviceCMYK
		default:
			alt = DeviceRGB
		}
	}

	return &ICCSpace{n: info.N, Ranges: info.Ranges, alternate: alt}, nil
}

func (x *ICCSpace) Name() string { return "ICCBased" }
func (x *ICCSpace) N() int {
	if x.n > 0 {
		return x.n
	}
	return x.alternate.N()
}

func (x *ICCSpace) ToRGB(v []float64) (r, g, b float64) {
	return x.alternate.ToRGB(v)
}

func (x *ICCSpace) FromRGB(r, g, b float64) []float64 {
	return x.alternate.FromRGB(r, g, b)
}
