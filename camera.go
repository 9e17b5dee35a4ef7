package ocif

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// zoomAnim holds the tweens of a running zoom animation. Scale and position
// are tweened together so the anchor stays put on every frame.
type zoomAnim struct {
	tweenScale *gween.Tween
	tweenX     *gween.Tween
	tweenY     *gween.Tween
}

// Camera is the view onto the canvas: a pan offset in screen pixels and a
// uniform scale. A canvas point p appears at p*Scale + Position relative to
// the container.
type Camera struct {
	Position Vec2
	Scale    float64

	minScale, maxScale float64

	anim *zoomAnim
}

// newCamera creates a camera at the origin with scale 1.
func newCamera(minScale, maxScale float64) *Camera {
	return &Camera{Scale: 1, minScale: minScale, maxScale: maxScale}
}

// clamp limits s to the camera's scale range.
func (c *Camera) clamp(s float64) float64 {
	return math.Max(c.minScale, math.Min(c.maxScale, s))
}

// ScreenToCanvas converts a container-relative point to canvas space.
func (c *Camera) ScreenToCanvas(p Vec2) Vec2 {
	return ScreenToCanvas(p, c.Position, c.Scale)
}

// CanvasToScreen converts a canvas point to container-relative screen space.
func (c *Camera) CanvasToScreen(p Vec2) Vec2 {
	return CanvasToScreen(p, c.Position, c.Scale)
}

// PanTo sets the pan offset directly and cancels any running animation.
func (c *Camera) PanTo(p Vec2) {
	c.anim = nil
	c.Position = p
}

// zoomAround returns the camera position that keeps the canvas point under
// anchor fixed when the scale changes to newScale.
func (c *Camera) zoomAround(anchor Vec2, newScale float64) Vec2 {
	point := anchor.Sub(c.Position).Scale(1 / c.Scale)
	return anchor.Sub(point.Scale(newScale))
}

// ZoomBy changes the scale by delta (clamped) keeping the canvas point under
// anchor fixed. A zero delta resets the scale to 1.
func (c *Camera) ZoomBy(delta float64, anchor Vec2) {
	c.anim = nil
	newScale := 1.0
	if delta != 0 {
		newScale = c.clamp(c.Scale + delta)
	}
	c.Position = c.zoomAround(anchor, newScale)
	c.Scale = newScale
}

// Wheel applies a wheel zoom of -deltaY*factor about anchor.
func (c *Camera) Wheel(deltaY, factor float64, anchor Vec2) {
	delta := -deltaY * factor
	if delta == 0 {
		return
	}
	c.ZoomBy(delta, anchor)
}

// ZoomTo animates to scale about anchor over duration seconds. A
// non-positive duration jumps immediately.
func (c *Camera) ZoomTo(scale float64, anchor Vec2, duration float32) {
	scale = c.clamp(scale)
	target := c.zoomAround(anchor, scale)
	c.animateTo(target, scale, duration)
}

// ZoomToFit animates so that b fills the viewport with margin pixels of
// padding on each side, centered.
func (c *Camera) ZoomToFit(b Bounds, viewport Vec2, margin float64, duration float32) {
	w, h := b.Width(), b.Height()
	if w <= 0 || h <= 0 || viewport.X <= 0 || viewport.Y <= 0 {
		return
	}
	availW := math.Max(viewport.X-2*margin, 1)
	availH := math.Max(viewport.Y-2*margin, 1)
	scale := c.clamp(math.Min(availW/w, availH/h))
	center := b.Center()
	target := Vec2{viewport.X/2 - center.X*scale, viewport.Y/2 - center.Y*scale}
	c.animateTo(target, scale, duration)
}

func (c *Camera) animateTo(pos Vec2, scale float64, duration float32) {
	if duration <= 0 {
		c.anim = nil
		c.Position, c.Scale = pos, scale
		return
	}
	c.anim = &zoomAnim{
		tweenScale: gween.New(float32(c.Scale), float32(scale), duration, ease.OutCubic),
		tweenX:     gween.New(float32(c.Position.X), float32(pos.X), duration, ease.OutCubic),
		tweenY:     gween.New(float32(c.Position.Y), float32(pos.Y), duration, ease.OutCubic),
	}
}

// Animating reports whether a zoom animation is running.
func (c *Camera) Animating() bool { return c.anim != nil }

// update advances a running animation by dt seconds. Called from
// Editor.Update.
func (c *Camera) update(dt float32) {
	if c.anim == nil {
		return
	}
	s, doneS := c.anim.tweenScale.Update(dt)
	x, doneX := c.anim.tweenX.Update(dt)
	y, doneY := c.anim.tweenY.Update(dt)
	c.Scale = float64(s)
	c.Position = Vec2{float64(x), float64(y)}
	if doneS && doneX && doneY {
		c.anim = nil
	}
}

// VisibleBounds returns the canvas-space area shown in a viewport of the
// given size.
func (c *Camera) VisibleBounds(viewport Vec2) Bounds {
	tl := c.ScreenToCanvas(Vec2{})
	br := c.ScreenToCanvas(viewport)
	return BoundsFromPoints(tl, br)
}
