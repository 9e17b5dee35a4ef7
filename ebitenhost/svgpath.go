package ebitenhost

import (
	"fmt"
	"strconv"

	ocif "github.com/jmsv/ocif-thing"
)

// curveSteps is the number of line segments each Bezier curve is
// flattened into.
const curveSteps = 8

// Subpath is one flattened run of an SVG path. Closed subpaths end with a
// Z command.
type Subpath struct {
	Points []ocif.Vec2
	Closed bool
}

// pathScanner walks the command letters and numbers of a path string.
type pathScanner struct {
	s   string
	pos int
}

func (sc *pathScanner) skipSeparators() {
	for sc.pos < len(sc.s) {
		switch sc.s[sc.pos] {
		case ' ', ',', '\t', '\n', '\r':
			sc.pos++
		default:
			return
		}
	}
}

// command returns the next command letter, or 0 when the next token is a
// number (an implicit repeat of the previous command) or the input ended.
func (sc *pathScanner) command() byte {
	sc.skipSeparators()
	if sc.pos >= len(sc.s) {
		return 0
	}
	c := sc.s[sc.pos]
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		sc.pos++
		return c
	}
	return 0
}

func (sc *pathScanner) done() bool {
	sc.skipSeparators()
	return sc.pos >= len(sc.s)
}

func (sc *pathScanner) number() (float64, error) {
	sc.skipSeparators()
	start := sc.pos
	if sc.pos < len(sc.s) && (sc.s[sc.pos] == '-' || sc.s[sc.pos] == '+') {
		sc.pos++
	}
	seenDot := false
scan:
	for sc.pos < len(sc.s) {
		c := sc.s[sc.pos]
		switch {
		case c >= '0' && c <= '9':
		case c == '.' && !seenDot:
			seenDot = true
		case (c == 'e' || c == 'E') && sc.pos > start:
			if sc.pos+1 < len(sc.s) && (sc.s[sc.pos+1] == '-' || sc.s[sc.pos+1] == '+') {
				sc.pos++
			}
		default:
			break scan
		}
		sc.pos++
	}
	if start == sc.pos {
		return 0, fmt.Errorf("expected number at offset %d", start)
	}
	return strconv.ParseFloat(sc.s[start:sc.pos], 64)
}

func (sc *pathScanner) point() (ocif.Vec2, error) {
	x, err := sc.number()
	if err != nil {
		return ocif.Vec2{}, err
	}
	y, err := sc.number()
	if err != nil {
		return ocif.Vec2{}, err
	}
	return ocif.Vec2{X: x, Y: y}, nil
}

// ParsePath flattens an SVG path description into polylines. It supports
// the M, L, H, V, Q, T, C and Z commands in absolute and relative form.
func ParsePath(d string) ([]Subpath, error) {
	sc := &pathScanner{s: d}
	var (
		out     []Subpath
		cur     Subpath
		pen     ocif.Vec2
		start   ocif.Vec2
		lastCtl ocif.Vec2 // reflected by T
		prevCmd byte
		cmd     byte
	)
	flush := func() {
		if len(cur.Points) > 1 {
			out = append(out, cur)
		}
		cur = Subpath{}
	}
	lineTo := func(p ocif.Vec2) {
		if len(cur.Points) == 0 {
			cur.Points = append(cur.Points, pen)
		}
		cur.Points = append(cur.Points, p)
		pen = p
	}

	for !sc.done() {
		if c := sc.command(); c != 0 {
			cmd = c
		} else if cmd == 0 {
			return nil, fmt.Errorf("parse path: missing command at offset %d", sc.pos)
		}
		rel := cmd >= 'a'
		abs := func(p ocif.Vec2) ocif.Vec2 {
			if rel {
				return pen.Add(p)
			}
			return p
		}

		switch cmd {
		case 'M', 'm':
			p, err := sc.point()
			if err != nil {
				return nil, fmt.Errorf("parse path: %w", err)
			}
			flush()
			pen = abs(p)
			start = pen
			cur.Points = append(cur.Points, pen)
			// Extra pairs after a move are implicit line-tos.
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'L', 'l':
			p, err := sc.point()
			if err != nil {
				return nil, fmt.Errorf("parse path: %w", err)
			}
			lineTo(abs(p))
		case 'H', 'h':
			x, err := sc.number()
			if err != nil {
				return nil, fmt.Errorf("parse path: %w", err)
			}
			if rel {
				x += pen.X
			}
			lineTo(ocif.Vec2{X: x, Y: pen.Y})
		case 'V', 'v':
			y, err := sc.number()
			if err != nil {
				return nil, fmt.Errorf("parse path: %w", err)
			}
			if rel {
				y += pen.Y
			}
			lineTo(ocif.Vec2{X: pen.X, Y: y})
		case 'Q', 'q':
			c, err := sc.point()
			if err != nil {
				return nil, fmt.Errorf("parse path: %w", err)
			}
			p, err := sc.point()
			if err != nil {
				return nil, fmt.Errorf("parse path: %w", err)
			}
			ctl, end := abs(c), abs(p)
			for _, q := range quadratic(pen, ctl, end) {
				lineTo(q)
			}
			lastCtl = ctl
		case 'T', 't':
			p, err := sc.point()
			if err != nil {
				return nil, fmt.Errorf("parse path: %w", err)
			}
			ctl := pen
			if prevCmd == 'Q' || prevCmd == 'q' || prevCmd == 'T' || prevCmd == 't' {
				ctl = pen.Add(pen.Sub(lastCtl))
			}
			end := abs(p)
			for _, q := range quadratic(pen, ctl, end) {
				lineTo(q)
			}
			lastCtl = ctl
		case 'C', 'c':
			var pts [3]ocif.Vec2
			for i := range pts {
				p, err := sc.point()
				if err != nil {
					return nil, fmt.Errorf("parse path: %w", err)
				}
				pts[i] = abs(p)
			}
			for _, q := range cubic(pen, pts[0], pts[1], pts[2]) {
				lineTo(q)
			}
			lastCtl = pts[1]
		case 'Z', 'z':
			cur.Closed = true
			flush()
			pen = start
		default:
			return nil, fmt.Errorf("parse path: unsupported command %q", cmd)
		}
		prevCmd = cmd
	}
	flush()
	return out, nil
}

// quadratic samples a quadratic Bezier, excluding its start point.
func quadratic(p0, p1, p2 ocif.Vec2) []ocif.Vec2 {
	out := make([]ocif.Vec2, 0, curveSteps)
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		u := 1 - t
		out = append(out, ocif.Vec2{
			X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
			Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
		})
	}
	return out
}

// cubic samples a cubic Bezier, excluding its start point.
func cubic(p0, p1, p2, p3 ocif.Vec2) []ocif.Vec2 {
	out := make([]ocif.Vec2, 0, curveSteps)
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		u := 1 - t
		a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
		out = append(out, ocif.Vec2{
			X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
			Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
		})
	}
	return out
}
