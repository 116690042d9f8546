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

package path

import "github.com/inkfold/fitz/store"

// Join identifies how a stroke renders the corner between two segments.
type Join uint8

const (
	JoinMiter Join = iota
	JoinRound
	JoinBevel
	JoinMiterXPS // miter that falls back to bevel only past the limit, per the XPS rule
)

// Cap identifies how a stroke renders an open segment's endpoint.
type Cap uint8

const (
	CapButt Cap = iota
	CapRound
	CapSquare
	CapTriangle
)

// inlineDashCap bounds the small-array optimisation for a dash pattern:
// up to this many entries are stored inline in the StrokeState value,
// avoiding a heap allocation for the overwhelmingly common case of a
// short dash pattern.
const inlineDashCap = 4

// StrokeState holds the parameters used to expand a path's outline into
// a fillable stroke region (§4.4). It is reference-counted and, like
// Path, immutable once shared: a caller that wants to tweak a shared
// StrokeState must Clone it first rather than mutate in place.
type StrokeState struct {
	rc store.RefCount

	LineWidth  float64
	MiterLimit float64
	Join       Join

	StartCap Cap
	DashCap  Cap
	EndCap   Cap

	DashPhase float64

	dashLen     int
	dashInline  [inlineDashCap]float64
	dashOverflow []float64
}

// NewStrokeState returns a solid (no dash) stroke state with one
// reference, width 1, miter join, miter limit 10, and butt caps —
// mirroring the source's default stroke state.
func NewStrokeState() *StrokeState {
	s := &StrokeState{
		LineWidth:  1,
		MiterLimit: 10,
		Join:       JoinMiter,
	}
	s.rc.Init()
	return s
}

// Keep increments the reference count.
func (s *StrokeState) Keep() { s.rc.Keep() }

// Drop decrements the reference count; the caller should stop using s
// once Drop returns true.
func (s *StrokeState) Drop() bool { return s.rc.Drop() }

// Refs returns the current reference count.
func (s *StrokeState) Refs() int64 { return s.rc.Count() }

// Clone returns an independent copy of s with its own single reference,
// for a caller that needs to change parameters on a StrokeState that
// may be shared.
func (s *StrokeState) Clone() *StrokeState {
	c := *s
	c.rc = store.RefCount{}
	c.rc.Init()
	if s.dashOverflow != nil {
		c.dashOverflow = append([]float64(nil), s.dashOverflow...)
	}
	return &c
}

// Dashes returns the dash array. A zero-length result means a solid
// (undashed) stroke.
func (s *StrokeState) Dashes() []float64 {
	if s.dashLen <= inlineDashCap {
		return s.dashInline[:s.dashLen]
	}
	return s.dashOverflow
}

// SetDashes replaces the dash array, spilling to the heap once the
// pattern exceeds the inline capacity.
func (s *StrokeState) SetDashes(d []float64) {
	if s.Refs() > 1 {
		panic(errMutateShared)
	}
	s.dashLen = len(d)
	if len(d) <= inlineDashCap {
		copy(s.dashInline[:], d)
		s.dashOverflow = nil
		return
	}
	s.dashOverflow = append([]float64(nil), d...)
}

// IsDashed reports whether the stroke has a non-empty dash pattern.
func (s *StrokeState) IsDashed() bool { return s.dashLen > 0 }
