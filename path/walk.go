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

// Walker receives a path's contents as a canonical sequence of the four
// primitive drawing operations. Walk expands every compact command
// (H/V lines, degenerate lines, quadratics, rects, and the four CLOSE
// variants) into this basic vocabulary on the fly, regardless of
// whether the path is stored unpacked or packed, so a consumer never
// has to special-case storage kind (§4.4).
type Walker interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	CurveTo(x1, y1, x2, y2, x3, y3 float64)
	ClosePath()
}

// walkState replays the implicit current-point/start-point bookkeeping
// that construction tracked, since only the unpacked Path struct kept
// it; a packed path must recompute it while walking.
type walkState struct {
	curX, curY, startX, startY float64
}

// Walk visits every subpath of p in order, calling the corresponding
// Walker method for each primitive segment.
func (p *Path) Walk(w Walker) {
	var st walkState
	if p.kind == stateUnpacked {
		coordAt := 0
		for _, c := range p.cmds {
			n := numCoords(c)
			walkOne(w, &st, c, p.coords[coordAt:coordAt+n])
			coordAt += n
		}
		return
	}

	coordAt := 0
	for _, c := range p.packedCmds {
		n := numCoords(c)
		coords := make([]float64, n)
		for i := 0; i < n; i++ {
			coords[i] = float64(p.packedCoords[coordAt+i])
		}
		walkOne(w, &st, c, coords)
		coordAt += n
	}
}

func walkOne(w Walker, st *walkState, c Cmd, coords []float64) {
	switch c {
	case CmdMoveTo:
		x, y := coords[0], coords[1]
		w.MoveTo(x, y)
		st.curX, st.curY = x, y
		st.startX, st.startY = x, y

	case CmdLineTo:
		x, y := coords[0], coords[1]
		w.LineTo(x, y)
		st.curX, st.curY = x, y

	case CmdHLineTo:
		x := coords[0]
		w.LineTo(x, st.curY)
		st.curX = x

	case CmdVLineTo:
		y := coords[0]
		w.LineTo(st.curX, y)
		st.curY = y

	case CmdDegLineTo:
		w.LineTo(st.curX, st.curY)

	case CmdQuadTo:
		cx, cy, x, y := coords[0], coords[1], coords[2], coords[3]
		x1, y1, x2, y2 := quadToCubic(st.curX, st.curY, cx, cy, x, y)
		w.CurveTo(x1, y1, x2, y2, x, y)
		st.curX, st.curY = x, y

	case CmdCurveTo:
		x1, y1, x2, y2, x3, y3 := coords[0], coords[1], coords[2], coords[3], coords[4], coords[5]
		w.CurveTo(x1, y1, x2, y2, x3, y3)
		st.curX, st.curY = x3, y3

	case CmdCurveToV:
		x2, y2, x3, y3 := coords[0], coords[1], coords[2], coords[3]
		w.CurveTo(st.curX, st.curY, x2, y2, x3, y3)
		st.curX, st.curY = x3, y3

	case CmdCurveToY:
		x1, y1, x3, y3 := coords[0], coords[1], coords[2], coords[3]
		w.CurveTo(x1, y1, x3, y3, x3, y3)
		st.curX, st.curY = x3, y3

	case CmdRectTo:
		x0, y0, x1, y1 := coords[0], coords[1], coords[2], coords[3]
		w.MoveTo(x0, y0)
		w.LineTo(x1, y0)
		w.LineTo(x1, y1)
		w.LineTo(x0, y1)
		w.ClosePath()
		st.curX, st.curY = x0, y0
		st.startX, st.startY = x0, y0

	case CmdCloseLine, CmdCloseHLine, CmdCloseVLine, CmdCloseDeg:
		w.ClosePath()
		st.curX, st.curY = st.startX, st.startY
	}
}

// quadToCubic raises a quadratic bezier (from (x0,y0) through control
// (cx,cy) to (x,y)) to the equivalent cubic's two control points, by the
// standard 2/3 weighting.
func quadToCubic(x0, y0, cx, cy, x, y float64) (x1, y1, x2, y2 float64) {
	const twoThirds = 2.0 / 3.0
	x1 = x0 + twoThirds*(cx-x0)
	y1 = y0 + twoThirds*(cy-y0)
	x2 = x + twoThirds*(cx-x)
	y2 = y + twoThirds*(cy-y)
	return
}
