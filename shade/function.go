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

// Package shade implements shading dictionaries (§4.7 fill_shade) and the
// PDF function families that drive them: sampled, exponential, stitching,
// and PostScript calculator (type 4) functions, the last evaluated with
// the teacher's own PostScript interpreter.
package shade

import (
	"math"

	"seehuhn.de/go/postscript"

	"github.com/inkfold/fitz"
)

// Function maps an m-dimensional input vector to an n-dimensional output
// vector, clipped to Range when Range is non-nil.
type Function interface {
	Domain() []float64 // [d0lo, d0hi, d1lo, d1hi, ...], length 2*m
	Eval(in []float64) ([]float64, error)
}

func clampDomain(domain, in []float64) []float64 {
	out := make([]float64, len(in))
	copy(out, in)
	for i := range out {
		if 2*i+1 >= len(domain) {
			break
		}
		lo, hi := domain[2*i], domain[2*i+1]
		if out[i] < lo {
			out[i] = lo
		}
		if out[i] > hi {
			out[i] = hi
		}
	}
	return out
}

func clampRange(rng, out []float64) []float64 {
	if rng == nil {
		return out
	}
	for i := range out {
		if 2*i+1 >= len(rng) {
			break
		}
		lo, hi := rng[2*i], rng[2*i+1]
		if out[i] < lo {
			out[i] = lo
		}
		if out[i] > hi {
			out[i] = hi
		}
	}
	return out
}

// ExponentialFunction implements PDF function type 2: interpolates
// between C0 and C1 along in[0]^N.
type ExponentialFunction struct {
	Domain_ []float64
	C0, C1  []float64
	N       float64
	Range_  []float64
}

func (f *ExponentialFunction) Domain() []float64 { return f.Domain_ }

func (f *ExponentialFunction) Eval(in []float64) ([]float64, error) {
	in = clampDomain(f.Domain_, in)
	x := in[0]
	xn := math.Pow(x, f.N)
	n := len(f.C0)
	if len(f.C1) > n {
		n = len(f.C1)
	}
	out := make([]float64, n)
	for i := range out {
		c0, c1 := comp(f.C0, i), comp(f.C1, i)
		out[i] = c0 + xn*(c1-c0)
	}
	return clampRange(f.Range_, out), nil
}

func comp(v []float64, i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return 0
}

// StitchingFunction implements PDF function type 3: partitions Domain
// into sub-domains via Bounds, dispatching to one of Functions per
// Encode-remapped input.
type StitchingFunction struct {
	Domain_   []float64
	Functions []Function
	Bounds    []float64
	Encode    []float64
	Range_    []float64
}

func (f *StitchingFunction) Domain() []float64 { return f.Domain_ }

func (f *StitchingFunction) Eval(in []float64) ([]float64, error) {
	in = clampDomain(f.Domain_, in)
	x := in[0]
	lo := f.Domain_[0]
	k := len(f.Functions) - 1
	for i, b := range f.Bounds {
		if x < b {
			k = i
			break
		}
	}
	hi := f.Domain_[1]
	segLo := lo
	if k > 0 {
		segLo = f.Bounds[k-1]
	}
	segHi := hi
	if k < len(f.Bounds) {
		segHi = f.Bounds[k]
	}
	eLo, eHi := 0.0, 1.0
	if 2*k+1 < len(f.Encode) {
		eLo, eHi = f.Encode[2*k], f.Encode[2*k+1]
	}
	xe := interpolate(x, segLo, segHi, eLo, eHi)
	out, err := f.Functions[k].Eval([]float64{xe})
	if err != nil {
		return nil, err
	}
	return clampRange(f.Range_, out), nil
}

func interpolate(x, xlo, xhi, ylo, yhi float64) float64 {
	if xhi == xlo {
		return ylo
	}
	return ylo + (x-xlo)*(yhi-ylo)/(xhi-xlo)
}

// SampledFunction implements PDF function type 0: a lookup table with
// linear interpolation between samples. Only one-dimensional tables
// (len(Size) == 1) are evaluated; for any other Size, Eval returns an
// Unsupported error.
type SampledFunction struct {
	Domain_ []float64
	Range_  []float64
	Size    []int // number of samples per input dimension
	N       int   // output components
	Samples []float64
	Encode  []float64
	Decode  []float64
}

func (f *SampledFunction) Domain() []float64 { return f.Domain_ }

func (f *SampledFunction) Eval(in []float64) ([]float64, error) {
	if len(f.Size) != 1 {
		return nil, fitz.Errorf(fitz.Unsupported, "sampled function: only 1-D input tables are implemented")
	}
	in = clampDomain(f.Domain_, in)
	x := in[0]
	eLo, eHi := 0.0, float64(f.Size[0]-1)
	if len(f.Encode) >= 2 {
		eLo, eHi = f.Encode[0], f.Encode[1]
	}
	e := interpolate(x, f.Domain_[0], f.Domain_[1], eLo, eHi)
	if e < 0 {
		e = 0
	}
	if e > float64(f.Size[0]-1) {
		e = float64(f.Size[0] - 1)
	}
	i0 := int(e)
	i1 := i0 + 1
	if i1 > f.Size[0]-1 {
		i1 = f.Size[0] - 1
	}
	frac := e - float64(i0)

	out := make([]float64, f.N)
	for c := 0; c < f.N; c++ {
		s0 := f.Samples[i0*f.N+c]
		s1 := f.Samples[i1*f.N+c]
		v := s0 + frac*(s1-s0)
		if 2*c+1 < len(f.Decode) {
			v = interpolate(v, 0, 1, f.Decode[2*c], f.Decode[2*c+1])
		}
		out[c] = v
	}
	return clampRange(f.Range_, out), nil
}

// PostScriptFunction implements PDF function type 4: a PostScript
// calculator program, evaluated by the teacher's own PostScript
// interpreter rather than a bespoke bytecode VM.
type PostScriptFunction struct {
	Domain_ []float64
	Range_  []float64
	Program string
}

func (f *PostScriptFunction) Domain() []float64 { return f.Domain_ }

var allowedCalculatorOps = []string{
	"abs", "add", "atan", "ceiling", "cos", "cvi", "cvr", "div", "exp",
	"floor", "idiv", "ln", "log", "mod", "mul", "neg", "round", "sin",
	"sqrt", "sub", "truncate",
	"and", "bitshift", "eq", "ge", "gt", "le", "lt", "ne", "not", "or", "xor",
	"if", "ifelse",
	"copy", "dup", "exch", "index", "pop", "roll",
}

// calculatorDict restricts the interpreter's visible operators to the PDF
// Type 4 calculator subset, so a function body cannot reach filesystem or
// dictionary-construction operators the full language exposes.
func calculatorDict() postscript.Dict {
	sys := postscript.NewInterpreter().SystemDict
	dict := postscript.Dict{
		"true":  postscript.Boolean(true),
		"false": postscript.Boolean(false),
	}
	for _, name := range allowedCalculatorOps {
		if impl, ok := sys[postscript.Name(name)]; ok {
			dict[postscript.Name(name)] = impl
		}
	}
	return dict
}

func (f *PostScriptFunction) Eval(in []float64) ([]float64, error) {
	in = clampDomain(f.Domain_, in)

	dict := calculatorDict()
	intp := postscript.NewInterpreter()
	intp.DictStack = []postscript.Dict{dict, {}}
	intp.SystemDict = dict
	for _, v := range in {
		intp.Stack = append(intp.Stack, postscript.Real(v))
	}
	if err := intp.ExecuteString(f.Program); err != nil {
		return nil, fitz.Wrap(fitz.Syntax, err)
	}

	out := make([]float64, len(intp.Stack))
	for i, obj := range intp.Stack {
		switch v := obj.(type) {
		case postscript.Integer:
			out[i] = float64(v)
		case postscript.Real:
			out[i] = float64(v)
		case postscript.Boolean:
			if v {
				out[i] = 1
			}
		default:
			return nil, fitz.Errorf(fitz.Syntax, "calculator function left non-numeric result on stack")
		}
	}
	return clampRange(f.Range_, out), nil
}
