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

const foldEpsilon = 1e-9

func near(a, b float64) bool {
	d := a - b
	return d > -foldEpsilon && d < foldEpsilon
}

func (p *Path) append(cmd Cmd, coords ...float64) {
	p.cmds = append(p.cmds, cmd)
	p.coords = append(p.coords, coords...)
}

// lastCmd returns the final command and whether the path is non-empty.
func (p *Path) lastCmd() (Cmd, bool) {
	if len(p.cmds) == 0 {
		return 0, false
	}
	return p.cmds[len(p.cmds)-1], true
}

// MoveTo starts a new subpath at (x, y). A moveto immediately following
// another moveto with no intervening draw command replaces the previous
// move (§4.4).
func (p *Path) MoveTo(x, y float64) {
	p.checkMutable()

	if last, ok := p.lastCmd(); ok && last == CmdMoveTo && !p.hasAnyDrawOp {
		p.cmds = p.cmds[:len(p.cmds)-1]
		p.coords = p.coords[:len(p.coords)-2]
	}
	p.append(CmdMoveTo, x, y)
	p.curX, p.curY = x, y
	p.startX, p.startY = x, y
	p.subpathOpen = true
	p.hasAnyDrawOp = false
}

// LineTo draws a line from the current point to (x, y), folding
// degenerate and axis-aligned cases (§4.4):
//   - a lineto to the current point after a non-move command is dropped;
//   - a lineto to the current point right after a moveto (the subpath's
//     first segment) becomes a degenerate zero-length line, kept for
//     stroke cap rendering;
//   - horizontal/vertical lines are stored in their compact 1-coordinate
//     form.
func (p *Path) LineTo(x, y float64) {
	p.checkMutable()
	if len(p.cmds) == 0 {
		p.MoveTo(x, y)
		return
	}

	if near(x, p.curX) && near(y, p.curY) {
		if last, _ := p.lastCmd(); last == CmdMoveTo {
			p.append(CmdDegLineTo)
			p.hasAnyDrawOp = true
		}
		// else: lineto to the current point after a non-move command is a no-op.
		return
	}

	switch {
	case near(y, p.curY):
		p.append(CmdHLineTo, x)
	case near(x, p.curX):
		p.append(CmdVLineTo, y)
	default:
		p.append(CmdLineTo, x, y)
	}
	p.curX, p.curY = x, y
	p.hasAnyDrawOp = true
}

// QuadTo draws a quadratic bezier with control point (cx, cy) to (x, y).
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.checkMutable()
	if len(p.cmds) == 0 {
		p.MoveTo(cx, cy)
	}
	p.append(CmdQuadTo, cx, cy, x, y)
	p.curX, p.curY = x, y
	p.hasAnyDrawOp = true
}

// CurveTo draws a cubic bezier with control points (x1,y1), (x2,y2) to
// (x3, y3). A curve whose first control point is the current point and
// whose second control point is (x3,y3) is rewritten as a LineTo
// (§4.4); other collinear control points are kept as a curve.
func (p *Path) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	p.checkMutable()
	if len(p.cmds) == 0 {
		p.MoveTo(x1, y1)
	}
	if near(x1, p.curX) && near(y1, p.curY) && near(x2, x3) && near(y2, y3) {
		p.LineTo(x3, y3)
		return
	}
	p.append(CmdCurveTo, x1, y1, x2, y2, x3, y3)
	p.curX, p.curY = x3, y3
	p.hasAnyDrawOp = true
}

// CurveToV draws a cubic bezier whose first control point is the
// current point (a "start tangent" curve): control2=(x2,y2), end=(x3,y3).
func (p *Path) CurveToV(x2, y2, x3, y3 float64) {
	p.checkMutable()
	if len(p.cmds) == 0 {
		p.MoveTo(x2, y2)
	}
	if near(x2, x3) && near(y2, y3) && near(p.curX, x3) && near(p.curY, y3) {
		p.LineTo(x3, y3)
		return
	}
	p.append(CmdCurveToV, x2, y2, x3, y3)
	p.curX, p.curY = x3, y3
	p.hasAnyDrawOp = true
}

// CurveToY draws a cubic bezier whose second control point equals the
// endpoint (an "end tangent" curve): control1=(x1,y1), end=(x3,y3).
func (p *Path) CurveToY(x1, y1, x3, y3 float64) {
	p.checkMutable()
	if len(p.cmds) == 0 {
		p.MoveTo(x1, y1)
	}
	if near(x1, p.curX) && near(y1, p.curY) {
		p.LineTo(x3, y3)
		return
	}
	p.append(CmdCurveToY, x1, y1, x3, y3)
	p.curX, p.curY = x3, y3
	p.hasAnyDrawOp = true
}

// RectTo appends an axis-aligned rectangle subpath with corners (x0,y0)
// and (x1,y1), stored in its compact 1-command form (the canonical
// moveto/lineto*3/close decomposition is produced by Walk). A rectto
// that follows a bare moveto (no draws yet) replaces that dangling move,
// matching the moveto-folding rule (§4.4).
func (p *Path) RectTo(x0, y0, x1, y1 float64) {
	p.checkMutable()
	if last, ok := p.lastCmd(); ok && last == CmdMoveTo && !p.hasAnyDrawOp {
		p.cmds = p.cmds[:len(p.cmds)-1]
		p.coords = p.coords[:len(p.coords)-2]
	}
	p.append(CmdRectTo, x0, y0, x1, y1)
	p.curX, p.curY = x0, y0
	p.startX, p.startY = x0, y0
	p.subpathOpen = false
	p.hasAnyDrawOp = false
}

// ClosePath closes the current subpath, returning the current point to
// the most recent moveto. A second closepath (with no intervening draw)
// is a no-op. The command-specific CLOSE variant records the direction
// of the implicit closing segment, so a renderer that needs it does not
// have to recompute the subpath's start point (§4.4).
func (p *Path) ClosePath() {
	p.checkMutable()
	if !p.subpathOpen {
		return
	}
	if last, ok := p.lastCmd(); ok && isCloseCmd(last) {
		return
	}

	switch {
	case near(p.curX, p.startX) && near(p.curY, p.startY):
		p.append(CmdCloseDeg)
	case near(p.curY, p.startY):
		p.append(CmdCloseHLine)
	case near(p.curX, p.startX):
		p.append(CmdCloseVLine)
	default:
		p.append(CmdCloseLine)
	}
	p.curX, p.curY = p.startX, p.startY
	p.subpathOpen = false
	p.hasAnyDrawOp = false
}

func isCloseCmd(c Cmd) bool {
	switch c {
	case CmdCloseLine, CmdCloseHLine, CmdCloseVLine, CmdCloseDeg:
		return true
	default:
		return false
	}
}
