package ebitenhost

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	ocif "github.com/jmsv/ocif-thing"
)

// ellipseSegments is the number of vertices used to approximate an oval.
const ellipseSegments = 48

// Overlay colors.
var (
	selectionColor = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	handleFill     = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	selectRectFill = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0x20}
	strokePreview  = color.RGBA{A: 0xff}
	textColor      = color.RGBA{A: 0xff}
)

// --- White pixel singleton (single-threaded, like the game loop) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image used
// as the source for every untextured triangle.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// Painter implements ocif.Painter on an ebiten image. It projects canvas
// coordinates through the editor camera and offsets them by the container
// origin.
type Painter struct {
	dst    *ebiten.Image
	pos    ocif.Vec2
	scale  float64
	origin ocif.Vec2

	verts []ebiten.Vertex
	inds  []uint16
}

// NewPainter returns a painter drawing to dst with the given camera state.
func NewPainter(dst *ebiten.Image, cam *ocif.Camera, container ocif.Rect) *Painter {
	return &Painter{
		dst:    dst,
		pos:    cam.Position,
		scale:  cam.Scale,
		origin: ocif.Vec2{X: container.X, Y: container.Y},
	}
}

// project maps a canvas point to destination image pixels.
func (p *Painter) project(v ocif.Vec2) ocif.Vec2 {
	return ocif.CanvasToScreen(v, p.pos, p.scale).Add(p.origin)
}

// localToCanvas maps a point relative to rect's top-left corner into canvas
// space, rotating it by deg about the rect center.
func localToCanvas(rect ocif.Rect, deg float64, local ocif.Vec2) ocif.Vec2 {
	c := ocif.Vec2{X: rect.X + rect.Width/2, Y: rect.Y + rect.Height/2}
	v := ocif.Vec2{X: rect.X + local.X, Y: rect.Y + local.Y}.Sub(c)
	if deg != 0 {
		sin, cos := math.Sincos(deg * math.Pi / 180)
		v = ocif.Vec2{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
	}
	return v.Add(c)
}

// rectOutline returns the four corners of rect rotated about its center,
// clockwise from the top-left.
func rectOutline(rect ocif.Rect, deg float64) []ocif.Vec2 {
	return []ocif.Vec2{
		localToCanvas(rect, deg, ocif.Vec2{}),
		localToCanvas(rect, deg, ocif.Vec2{X: rect.Width}),
		localToCanvas(rect, deg, ocif.Vec2{X: rect.Width, Y: rect.Height}),
		localToCanvas(rect, deg, ocif.Vec2{Y: rect.Height}),
	}
}

// ellipseOutline samples the ellipse inscribed in rect.
func ellipseOutline(rect ocif.Rect, deg float64) []ocif.Vec2 {
	rx, ry := rect.Width/2, rect.Height/2
	out := make([]ocif.Vec2, ellipseSegments)
	for i := range out {
		a := 2 * math.Pi * float64(i) / ellipseSegments
		out[i] = localToCanvas(rect, deg, ocif.Vec2{X: rx + rx*math.Cos(a), Y: ry + ry*math.Sin(a)})
	}
	return out
}

// Rect implements ocif.Painter.
func (p *Painter) Rect(rect ocif.Rect, rotation float64, style ocif.ShapeStyle) {
	p.shape(rectOutline(rect, rotation), true, style)
}

// Ellipse implements ocif.Painter.
func (p *Painter) Ellipse(rect ocif.Rect, rotation float64, style ocif.ShapeStyle) {
	p.shape(ellipseOutline(rect, rotation), true, style)
}

// Path implements ocif.Painter. Paths that fail to parse draw nothing.
func (p *Painter) Path(rect ocif.Rect, rotation float64, d string, style ocif.ShapeStyle) {
	subpaths, err := ParsePath(d)
	if err != nil {
		return
	}
	for _, sp := range subpaths {
		pts := make([]ocif.Vec2, len(sp.Points))
		for i, lp := range sp.Points {
			pts[i] = localToCanvas(rect, rotation, lp)
		}
		p.shape(pts, sp.Closed, style)
	}
}

// Text implements ocif.Painter. Text is drawn unrotated, left-aligned and
// vertically centered in rect using the debug font.
func (p *Painter) Text(rect ocif.Rect, rotation float64, text string) {
	at := p.project(localToCanvas(rect, rotation, ocif.Vec2{X: 4, Y: rect.Height / 2}))
	lines := strings.Count(text, "\n") + 1
	p.drawText(text, int(at.X), int(at.Y)-lines*glyphHeight/2, textColor)
}

var textScratch *ebiten.Image

// drawText prints s with the debug font at (x, y) tinted clr. The font is
// white, so it is printed to a scratch image and drawn with a color scale.
func (p *Painter) drawText(s string, x, y int, clr color.RGBA) {
	w, h := 0, 0
	for _, line := range strings.Split(s, "\n") {
		w = max(w, len(line)*glyphWidth)
		h += glyphHeight
	}
	if w == 0 {
		return
	}
	if textScratch == nil || textScratch.Bounds().Dx() < w || textScratch.Bounds().Dy() < h {
		textScratch = ebiten.NewImage(max(w, 256), max(h, 64))
	}
	textScratch.Clear()
	ebitenutil.DebugPrintAt(textScratch, s, 0, 0)
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	p.dst.DrawImage(textScratch.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image), &op)
}

// Overlay implements ocif.Painter.
func (p *Painter) Overlay(o ocif.Overlay) {
	switch o.Kind {
	case ocif.OverlaySelectionBox:
		p.strokeCanvas(rectOutline(o.Rect, 0), true, 1, selectionColor)
	case ocif.OverlayResizeHandle:
		pts := rectOutline(o.Rect, 0)
		p.fillCanvas(pts, handleFill)
		p.strokeCanvas(pts, true, 1, selectionColor)
	case ocif.OverlayRotateHandle:
		pts := ellipseOutline(o.Rect, 0)
		p.fillCanvas(pts, handleFill)
		p.strokeCanvas(pts, true, 1, selectionColor)
	case ocif.OverlaySelectRect:
		pts := rectOutline(o.Rect, 0)
		p.fillCanvas(pts, selectRectFill)
		p.strokeCanvas(pts, true, 1, selectionColor)
	case ocif.OverlayStroke:
		p.strokeCanvas(o.Points, false, 2, strokePreview)
	}
}

// shape fills (when closed) and strokes a canvas-space outline.
func (p *Painter) shape(pts []ocif.Vec2, closed bool, style ocif.ShapeStyle) {
	if closed {
		if c, ok := ParseColor(style.FillColor); ok {
			p.fillCanvas(pts, c)
		}
	}
	if style.StrokeWidth <= 0 {
		return
	}
	if c, ok := ParseColor(style.StrokeColor); ok {
		p.strokeCanvas(pts, closed, style.StrokeWidth*p.scale, c)
	}
}

func (p *Painter) fillCanvas(pts []ocif.Vec2, clr color.RGBA) {
	screen := make([]ocif.Vec2, len(pts))
	for i, v := range pts {
		screen[i] = p.project(v)
	}
	p.verts, p.inds = appendFan(p.verts[:0], p.inds[:0], screen, clr)
	if len(p.inds) == 0 {
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.FillRule = ebiten.FillRuleNonZero
	op.AntiAlias = true
	p.dst.DrawTriangles(p.verts, p.inds, ensureWhitePixel(), &op)
}

// strokeCanvas draws a polyline of width screen pixels.
func (p *Painter) strokeCanvas(pts []ocif.Vec2, closed bool, width float64, clr color.RGBA) {
	screen := make([]ocif.Vec2, len(pts))
	for i, v := range pts {
		screen[i] = p.project(v)
	}
	p.verts, p.inds = appendStroke(p.verts[:0], p.inds[:0], screen, closed, width, clr)
	if len(p.inds) == 0 {
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.AntiAlias = true
	p.dst.DrawTriangles(p.verts, p.inds, ensureWhitePixel(), &op)
}

func vertex(v ocif.Vec2, clr color.RGBA) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   float32(v.X),
		DstY:   float32(v.Y),
		SrcX:   0.5,
		SrcY:   0.5,
		ColorR: float32(clr.R) / 255,
		ColorG: float32(clr.G) / 255,
		ColorB: float32(clr.B) / 255,
		ColorA: float32(clr.A) / 255,
	}
}

// appendFan appends a fan triangulation of pts. Concave outlines rely on
// the non-zero fill rule to come out right. N vertices, 3*(N-2) indices.
func appendFan(verts []ebiten.Vertex, inds []uint16, pts []ocif.Vec2, clr color.RGBA) ([]ebiten.Vertex, []uint16) {
	n := len(pts)
	if n < 3 || n > math.MaxUint16 {
		return verts, inds
	}
	base := uint16(len(verts))
	for _, v := range pts {
		verts = append(verts, vertex(v, clr))
	}
	for i := 0; i < n-2; i++ {
		inds = append(inds, base, base+uint16(i+1), base+uint16(i+2))
	}
	return verts, inds
}

// appendStroke appends one quad per segment of the polyline.
func appendStroke(verts []ebiten.Vertex, inds []uint16, pts []ocif.Vec2, closed bool, width float64, clr color.RGBA) ([]ebiten.Vertex, []uint16) {
	n := len(pts)
	if n < 2 || width <= 0 {
		return verts, inds
	}
	segs := n - 1
	if closed {
		segs = n
	}
	half := width / 2
	for i := 0; i < segs; i++ {
		if len(verts)+4 > math.MaxUint16 {
			break
		}
		a, b := pts[i], pts[(i+1)%n]
		dx, dy := b.X-a.X, b.Y-a.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		// Extend each end by half the width so corners join.
		ux, uy := dx/l*half, dy/l*half
		nx, ny := -uy, ux
		a = ocif.Vec2{X: a.X - ux, Y: a.Y - uy}
		b = ocif.Vec2{X: b.X + ux, Y: b.Y + uy}
		base := uint16(len(verts))
		verts = append(verts,
			vertex(ocif.Vec2{X: a.X + nx, Y: a.Y + ny}, clr),
			vertex(ocif.Vec2{X: b.X + nx, Y: b.Y + ny}, clr),
			vertex(ocif.Vec2{X: b.X - nx, Y: b.Y - ny}, clr),
			vertex(ocif.Vec2{X: a.X - nx, Y: a.Y - ny}, clr),
		)
		inds = append(inds, base, base+1, base+2, base, base+2, base+3)
	}
	return verts, inds
}
