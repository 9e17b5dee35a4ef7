package ocif

import "math"

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 { return deg * math.Pi / 180 }

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 { return rad * 180 / math.Pi }

// RelativePosition converts client coordinates to coordinates relative to the
// container's top-left corner.
func RelativePosition(clientX, clientY float64, container Rect) Vec2 {
	return Vec2{clientX - container.X, clientY - container.Y}
}

// ScreenToCanvas converts a container-relative screen point to canvas space:
// (screen - cameraPosition) / scale.
func ScreenToCanvas(screen, cameraPosition Vec2, scale float64) Vec2 {
	return Vec2{
		X: (screen.X - cameraPosition.X) / scale,
		Y: (screen.Y - cameraPosition.Y) / scale,
	}
}

// CanvasToScreen is the inverse of ScreenToCanvas.
func CanvasToScreen(canvas, cameraPosition Vec2, scale float64) Vec2 {
	return Vec2{
		X: canvas.X*scale + cameraPosition.X,
		Y: canvas.Y*scale + cameraPosition.Y,
	}
}

// ScaledDelta returns (current - start) / scale, so a screen-space drag maps
// 1:1 onto canvas units at any zoom level.
func ScaledDelta(start, current Vec2, scale float64) Vec2 {
	return Vec2{
		X: (current.X - start.X) / scale,
		Y: (current.Y - start.Y) / scale,
	}
}

// rotateVec rotates v about the origin by rad radians (clockwise on screen,
// since Y grows downward).
func rotateVec(v Vec2, rad float64) Vec2 {
	sin, cos := math.Sincos(rad)
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// RotatedBounds returns the axis-aligned bounding box of the rectangle
// (x, y, w, h) after rotating it by deg degrees about its own center.
func RotatedBounds(x, y, w, h, deg float64) Bounds {
	cx := x + w/2
	cy := y + h/2
	rad := degToRad(deg)

	corners := [4]Vec2{
		{x - cx, y - cy},
		{x + w - cx, y - cy},
		{x + w - cx, y + h - cy},
		{x - cx, y + h - cy},
	}

	b := Bounds{
		Left: math.Inf(1), Top: math.Inf(1),
		Right: math.Inf(-1), Bottom: math.Inf(-1),
	}
	for _, c := range corners {
		r := rotateVec(c, rad)
		px, py := cx+r.X, cy+r.Y
		b.Left = math.Min(b.Left, px)
		b.Top = math.Min(b.Top, py)
		b.Right = math.Max(b.Right, px)
		b.Bottom = math.Max(b.Bottom, py)
	}
	return b
}

// NodeBounds returns the rotation-aware bounding box of a placed node.
func NodeBounds(n *Node) Bounds {
	return RotatedBounds(n.Position.X, n.Position.Y, n.Size.X, n.Size.Y, n.Rotation)
}

// Envelope folds NodeBounds over nodes, skipping unplaced ones. The second
// result is false when no node contributed.
func Envelope(nodes []Node) (Bounds, bool) {
	var env Bounds
	found := false
	for i := range nodes {
		if !nodes[i].Placed {
			continue
		}
		b := NodeBounds(&nodes[i])
		if !found {
			env = b
			found = true
			continue
		}
		env = env.Union(b)
	}
	return env, found
}

// containsRotated reports whether the canvas point p lies inside the node's
// rectangle after the node's rotation about its center.
func containsRotated(n *Node, p Vec2) bool {
	c := Vec2{n.Position.X + n.Size.X/2, n.Position.Y + n.Size.Y/2}
	local := rotateVec(p.Sub(c), -degToRad(n.Rotation))
	hw, hh := n.Size.X/2, n.Size.Y/2
	return local.X >= -hw && local.X <= hw && local.Y >= -hh && local.Y <= hh
}

// NormalizeDegrees maps any angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(math.Mod(deg, 360)+360, 360)
	if d >= 360 {
		d = 0
	}
	return d
}

// SignedAngleDelta normalizes a rotation delta into (-180, 180].
func SignedAngleDelta(deg float64) float64 {
	for deg > 180 {
		deg -= 360
	}
	for deg <= -180 {
		deg += 360
	}
	return deg
}

// AngleDistance returns the wrap-aware distance between two angles in
// degrees, computed as |((a - b + 180) mod 360) - 180| with a non-negative
// modulo.
func AngleDistance(a, b float64) float64 {
	return math.Abs(math.Mod(math.Mod(a-b+180, 360)+360, 360) - 180)
}

// SnapRotation snaps deg to the nearest entry of angles when it lies less
// than threshold degrees from it. A snap to 360 is reported as 0.
func SnapRotation(deg float64, angles []float64, threshold float64) float64 {
	if len(angles) == 0 {
		return deg
	}
	closest := angles[0]
	for _, a := range angles[1:] {
		if AngleDistance(deg, a) < AngleDistance(deg, closest) {
			closest = a
		}
	}
	if AngleDistance(deg, closest) < threshold {
		if closest == 360 {
			return 0
		}
		return closest
	}
	return deg
}

// localScale projects the anisotropic scale (sx, sy) onto the axes of a
// frame rotated by deg degrees.
func localScale(sx, sy, deg float64) (lx, ly float64) {
	sin, cos := math.Sincos(degToRad(deg))
	cos2, sin2 := cos*cos, sin*sin
	return cos2*sx + sin2*sy, sin2*sx + cos2*sy
}
