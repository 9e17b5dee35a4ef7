package ocif

import (
	"math"
	"strconv"
	"strings"
)

// StrokeSmoother turns raw freehand input points into the outline polygon
// of a variable-width ink stroke. Width thins as the pointer speeds up.
type StrokeSmoother struct {
	opts StrokeOptions
}

// NewStrokeSmoother returns a smoother with the given options.
func NewStrokeSmoother(opts StrokeOptions) *StrokeSmoother {
	if opts.Size <= 0 {
		opts.Size = DefaultConfig().Stroke.Size
	}
	return &StrokeSmoother{opts: opts}
}

const (
	pressureRate = 0.275
	capSegments  = 8
)

type strokePoint struct {
	p      Vec2
	radius float64
}

// streamline pulls each point toward the previous smoothed point.
func (s *StrokeSmoother) streamline(raw []Vec2) []Vec2 {
	t := 0.15 + (1-s.opts.Streamline)*0.85
	out := make([]Vec2, 0, len(raw))
	prev := raw[0]
	out = append(out, prev)
	for _, p := range raw[1:] {
		prev = prev.Add(p.Sub(prev).Scale(t))
		out = append(out, prev)
	}
	return out
}

// radii simulates pen pressure from point spacing and derives a radius per
// point.
func (s *StrokeSmoother) radii(pts []Vec2) []strokePoint {
	size := s.opts.Size
	out := make([]strokePoint, len(pts))
	pressure := 0.5
	for i, p := range pts {
		if i > 0 {
			d := math.Hypot(p.X-pts[i-1].X, p.Y-pts[i-1].Y)
			sp := math.Min(1, d/size)
			rp := math.Min(1, 1-sp)
			pressure = math.Min(1, pressure+(rp-pressure)*(sp*pressureRate))
		}
		r := size * (0.5 - s.opts.Thinning*(0.5-pressure))
		out[i] = strokePoint{p: p, radius: math.Max(r, 0.01)}
	}
	return out
}

// Outline returns the closed outline polygon for the input points. It
// returns nil for empty input.
func (s *StrokeSmoother) Outline(raw []Vec2) []Vec2 {
	if len(raw) == 0 {
		return nil
	}
	pts := s.radii(s.streamline(raw))

	minStep := func(r float64) float64 { return r * s.opts.Smoothing }

	var left, right []Vec2
	var lastDir Vec2
	haveDir := false
	for i, sp := range pts {
		dir := strokeDirection(pts, i)
		if dir == (Vec2{}) {
			if !haveDir {
				continue
			}
			dir = lastDir
		}
		lastDir, haveDir = dir, true
		normal := Vec2{-dir.Y, dir.X}.Scale(sp.radius)
		l := sp.p.Add(normal)
		r := sp.p.Sub(normal)
		if n := len(left); n > 0 && i < len(pts)-1 {
			if dist(left[n-1], l) < minStep(sp.radius) && dist(right[n-1], r) < minStep(sp.radius) {
				continue
			}
		}
		left = append(left, l)
		right = append(right, r)
	}

	if !haveDir {
		return circlePolygon(pts[0].p, pts[0].radius)
	}

	first, last := pts[0], pts[len(pts)-1]
	startAngle := math.Atan2(left[0].Y-first.p.Y, left[0].X-first.p.X)
	endAngle := math.Atan2(right[len(right)-1].Y-last.p.Y, right[len(right)-1].X-last.p.X)

	out := make([]Vec2, 0, len(left)+len(right)+2*capSegments)
	out = append(out, left...)
	out = append(out, arc(last.p, last.radius, endAngle+math.Pi, capSegments)...)
	for i := len(right) - 1; i >= 0; i-- {
		out = append(out, right[i])
	}
	out = append(out, arc(first.p, first.radius, startAngle+math.Pi, capSegments)...)
	return out
}

// strokeDirection returns the unit travel direction at point i.
func strokeDirection(pts []strokePoint, i int) Vec2 {
	var d Vec2
	switch {
	case i+1 < len(pts):
		d = pts[i+1].p.Sub(pts[i].p)
	case i > 0:
		d = pts[i].p.Sub(pts[i-1].p)
	}
	l := math.Hypot(d.X, d.Y)
	if l == 0 {
		return Vec2{}
	}
	return d.Scale(1 / l)
}

// arc returns segments-1 interior points of a half circle starting at angle
// from, sweeping clockwise.
func arc(c Vec2, r, from float64, segments int) []Vec2 {
	out := make([]Vec2, 0, segments-1)
	for i := 1; i < segments; i++ {
		a := from - math.Pi*float64(i)/float64(segments)
		out = append(out, Vec2{c.X + r*math.Cos(a), c.Y + r*math.Sin(a)})
	}
	return out
}

func circlePolygon(c Vec2, r float64) []Vec2 {
	out := make([]Vec2, 0, 2*capSegments)
	for i := 0; i < 2*capSegments; i++ {
		a := 2 * math.Pi * float64(i) / float64(2*capSegments)
		out = append(out, Vec2{c.X + r*math.Cos(a), c.Y + r*math.Sin(a)})
	}
	return out
}

func dist(a, b Vec2) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }

// SvgPathFromPoints builds a smooth closed path through an outline using a
// quadratic segment followed by smooth quadratic continuations through the
// midpoints of consecutive points. Coordinates use two decimals. Fewer than
// four points yield "".
func SvgPathFromPoints(points []Vec2) string {
	if len(points) < 4 {
		return ""
	}
	a, b, c := points[0], points[1], points[2]
	var sb strings.Builder
	sb.WriteString("M")
	writePair(&sb, a.X, a.Y)
	sb.WriteString(" Q")
	writePair(&sb, b.X, b.Y)
	sb.WriteByte(' ')
	writePair(&sb, (b.X+c.X)/2, (b.Y+c.Y)/2)
	sb.WriteString(" T")
	for i := 2; i < len(points)-1; i++ {
		a, b = points[i], points[i+1]
		writePair(&sb, (a.X+b.X)/2, (a.Y+b.Y)/2)
		sb.WriteByte(' ')
	}
	sb.WriteString("Z")
	return sb.String()
}

func writePair(sb *strings.Builder, x, y float64) {
	sb.WriteString(strconv.FormatFloat(x, 'f', 2, 64))
	sb.WriteByte(',')
	sb.WriteString(strconv.FormatFloat(y, 'f', 2, 64))
}

// buildPathNode converts freehand points into a path node positioned at the
// outline's top-left corner. It reports false for fewer than two points.
func buildPathNode(points []Vec2, cfg Config) (Node, bool) {
	if len(points) < 2 {
		return Node{}, false
	}
	outline := NewStrokeSmoother(cfg.Stroke).Outline(points)
	if len(outline) == 0 {
		return Node{}, false
	}
	minP, maxP := outline[0], outline[0]
	for _, p := range outline[1:] {
		minP = Vec2{math.Min(minP.X, p.X), math.Min(minP.Y, p.Y)}
		maxP = Vec2{math.Max(maxP.X, p.X), math.Max(maxP.Y, p.Y)}
	}
	local := make([]Vec2, len(outline))
	for i, p := range outline {
		local[i] = p.Sub(minP)
	}
	return Node{
		ID:       NewID(),
		Position: minP,
		Size:     maxP.Sub(minP),
		Data: []Extension{PathExtension{
			Path:      SvgPathFromPoints(local),
			FillColor: cfg.PathFillColor,
		}},
		Placed: true,
	}, true
}
