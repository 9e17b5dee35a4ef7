// Package ebitenhost runs an ocif editor in an Ebitengine window. It polls
// mouse, wheel and keyboard input, forwards it to the editor, draws the
// document and overlays with a triangle painter, and shows the plugin
// toolbar along the top edge.
//
//	ed, _ := ocif.NewEditor(doc, save, ocif.WithClipboard(ebitenhost.Clipboard()))
//	if err := ebitenhost.Run(ebitenhost.New(ed), "ocif", 1024, 768); err != nil {
//		log.Fatal(err)
//	}
package ebitenhost

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ocif "github.com/jmsv/ocif-thing"
)

// Toolbar metrics in window pixels. The debug font is 6x16.
const (
	toolbarHeight = 24
	glyphWidth    = 6
	glyphHeight   = 16
	buttonPadding = 6
	buttonGap     = 4
	groupGap      = 12
)

var (
	canvasColor        = color.RGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}
	toolbarColor       = color.RGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
	toolbarActiveColor = color.RGBA{R: 0xbf, G: 0xdb, B: 0xfe, A: 0xff}
	statsBackground    = color.RGBA{A: 0x80}
)

// toolbarButton is a toolbar item placed in window coordinates.
type toolbarButton struct {
	item ocif.ToolbarItem
	rect ocif.Rect
}

// layoutToolbar places items left to right in the order given, leaving a
// wider gap between groups and at separators.
func layoutToolbar(items []ocif.ToolbarItem) []toolbarButton {
	var out []toolbarButton
	x := float64(buttonGap)
	group := ""
	for i, it := range items {
		if it.Kind == ocif.ToolbarSeparator {
			x += groupGap
			continue
		}
		if i > 0 && it.Group != group {
			x += groupGap
		}
		group = it.Group
		w := float64(len(it.Label)*glyphWidth + 2*buttonPadding)
		out = append(out, toolbarButton{
			item: it,
			rect: ocif.Rect{X: x, Y: 2, Width: w, Height: toolbarHeight - 4},
		})
		x += w + buttonGap
	}
	return out
}

// Host adapts an ocif.Editor to ebiten.Game.
type Host struct {
	ed  *ocif.Editor
	log *log.Logger

	width, height int
	toolbar       []toolbarButton

	pressed      bool
	button       ocif.MouseButton
	toolbarPress bool
	inside       bool
	lastX, lastY float64

	keys []ebiten.Key

	shots     []string
	shotDir   string
	showStats bool
}

// New returns a host for ed. The editor is mounted on the first Layout.
func New(ed *ocif.Editor) *Host {
	return &Host{ed: ed, log: ed.Logger()}
}

// Editor returns the hosted editor.
func (h *Host) Editor() *ocif.Editor { return h.ed }

// SetShowStats shows or hides the stats overlay. F3 toggles it.
func (h *Host) SetShowStats(on bool) { h.showStats = on }

// Update implements ebiten.Game.
func (h *Host) Update() error {
	if !h.ed.Mounted() {
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		h.Screenshot("canvas")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		h.showStats = !h.showStats
	}
	h.applyInput(h.pollInput())
	h.ed.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

// Draw implements ebiten.Game.
func (h *Host) Draw(screen *ebiten.Image) {
	screen.Fill(canvasColor)
	h.ed.Render(NewPainter(screen, h.ed.Camera(), h.ed.Container()))
	h.drawToolbar(screen)
	if h.showStats {
		h.drawStats(screen)
	}
	h.flushScreenshots(screen)
}

// statsText is the F3 overlay: frame rates, zoom, node and selection counts.
func (h *Host) statsText(fps, tps float64) string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nZoom: %.0f%%\nNodes: %d\nSelected: %d\nMode: %s",
		fps, tps, h.ed.Camera().Scale*100, len(h.ed.Document().Nodes), h.ed.SelectionLen(), h.ed.Mode())
}

func (h *Host) drawStats(screen *ebiten.Image) {
	text := h.statsText(ebiten.ActualFPS(), ebiten.ActualTPS())
	p := NewPainter(screen, &ocif.Camera{Scale: 1}, ocif.Rect{})
	y := toolbarHeight + 4
	p.fillCanvas(rectOutline(ocif.Rect{X: 4, Y: float64(y), Width: 120, Height: 6 * glyphHeight}, 0), statsBackground)
	p.drawText(text, 8, y, handleFill)
}

// Layout implements ebiten.Game. The editor container is the window below
// the toolbar.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != h.width || outsideHeight != h.height || !h.ed.Mounted() {
		h.resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func (h *Host) resize(w, ht int) {
	h.width, h.height = w, ht
	container := ocif.Rect{Y: toolbarHeight, Width: float64(w), Height: float64(max(ht-toolbarHeight, 0))}
	if h.ed.Mounted() {
		h.ed.Resize(container)
	} else {
		h.ed.Mount(container)
		h.log.Debug("mounted", "width", w, "height", ht)
	}
	h.toolbar = layoutToolbar(h.ed.Plugins().ToolbarItems())
}

// toolbarClick handles a press at window point (x, y). It reports whether
// the point lies on the toolbar strip.
func (h *Host) toolbarClick(x, y float64) bool {
	if y >= toolbarHeight {
		return false
	}
	for _, b := range h.toolbar {
		if b.rect.Contains(x, y) && b.item.OnClick != nil {
			b.item.OnClick(h.ed)
			break
		}
	}
	return true
}

func (h *Host) drawToolbar(screen *ebiten.Image) {
	p := NewPainter(screen, &ocif.Camera{Scale: 1}, ocif.Rect{})
	p.fillCanvas(rectOutline(ocif.Rect{Width: float64(h.width), Height: toolbarHeight}, 0), toolbarColor)
	for _, b := range h.toolbar {
		if b.item.IsActive != nil && b.item.IsActive(h.ed) {
			p.fillCanvas(rectOutline(b.rect, 0), toolbarActiveColor)
		}
		p.strokeCanvas(rectOutline(b.rect, 0), true, 1, selectionColor)
		p.drawText(b.item.Label, int(b.rect.X)+buttonPadding, int(b.rect.Y)+2, textColor)
	}
}

// Run opens a window and runs the editor until the window is closed. Pending
// node patches are flushed and the editor unmounted on return.
func Run(h *Host, title string, width, height int) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	err := ebiten.RunGame(h)
	if h.ed.Mounted() {
		h.ed.Flush()
		h.ed.Unmount()
	}
	if err != nil {
		return fmt.Errorf("run editor: %w", err)
	}
	return nil
}
