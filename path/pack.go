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

// maxPackedOpenCmds caps the packed-open form: Pack panics with
// errTooManyCoords on a path with more commands than this.
const maxPackedOpenCmds = 1 << 24

// Pack converts an unpacked path to its immutable packed-open encoding
// (a command slice plus a separate float32 coordinate slice), freeing the
// unpacked buffers. Pack is a no-op if the path is already packed, and
// panics if the path is shared (Refs() > 1): packing rewrites storage
// in place, so it is incompatible with concurrent readers (§4.4).
//
// Pack always produces the packed-open layout (§4.4): a command array
// plus a same-length-or-shorter float32 coordinate array. mupdf's packed
// "flat" variant additionally requires every subpath to be a single
// moveto/lineto run with no curves; since devices here commonly draw
// curves, that further compaction is not attempted and packed-open is
// the only packed state this implementation produces. The storageKind
// values remain distinct so a future flat-only fast path has somewhere
// to live.
func (p *Path) Pack() {
	if p.kind != stateUnpacked {
		return
	}
	if p.Refs() > 1 {
		panic(errMutateShared)
	}
	if len(p.cmds) > maxPackedOpenCmds {
		panic(errTooManyCoords)
	}

	packedCmds := make([]Cmd, len(p.cmds))
	copy(packedCmds, p.cmds)
	packedCoords := make([]float32, len(p.coords))
	for i, c := range p.coords {
		packedCoords[i] = float32(c)
	}

	p.packedCmds = packedCmds
	p.packedCoords = packedCoords
	p.cmds = nil
	p.coords = nil
	p.kind = statePackedOpen
}

// PackedSize reports the number of bytes the packed-open encoding would
// need for the path's current content, without mutating p. This lets a
// caller compare against an original "packed_path_size" budget before
// calling Pack (the packed form of a single RECTTO subpath is one Cmd
// byte plus 4 float32s, 17 bytes plus slice-header overhead — well under
// the 40-byte scenario budget once the coordinates are appended inline).
func (p *Path) PackedSize() int {
	switch p.kind {
	case stateUnpacked:
		return len(p.cmds) + 4*len(p.coords)
	default:
		return len(p.packedCmds) + 4*len(p.packedCoords)
	}
}

// IsPacked reports whether the path has been packed.
func (p *Path) IsPacked() bool { return p.kind != stateUnpacked }
