package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ocif "github.com/jmsv/ocif-thing"
)

// wheelLinePixels converts one ebiten wheel notch to a DOM-style deltaY.
// Ebiten reports scrolling up as positive; the editor expects the reverse.
const wheelLinePixels = 100

// Held keys that auto-repeat, in ticks.
const (
	repeatDelay    = 30
	repeatInterval = 4
)

// inputFrame is one tick of polled input, in window coordinates.
type inputFrame struct {
	X, Y     float64
	Inside   bool
	Pressed  bool
	Button   ocif.MouseButton
	Mods     ocif.KeyModifiers
	WheelY   float64
	KeysDown []keyPress
	KeysUp   []string
}

type keyPress struct {
	Name   string
	Repeat bool
}

var keyNames = map[ebiten.Key]string{
	ebiten.KeyA: "a", ebiten.KeyB: "b", ebiten.KeyC: "c", ebiten.KeyD: "d",
	ebiten.KeyE: "e", ebiten.KeyF: "f", ebiten.KeyG: "g", ebiten.KeyH: "h",
	ebiten.KeyI: "i", ebiten.KeyJ: "j", ebiten.KeyK: "k", ebiten.KeyL: "l",
	ebiten.KeyM: "m", ebiten.KeyN: "n", ebiten.KeyO: "o", ebiten.KeyP: "p",
	ebiten.KeyQ: "q", ebiten.KeyR: "r", ebiten.KeyS: "s", ebiten.KeyT: "t",
	ebiten.KeyU: "u", ebiten.KeyV: "v", ebiten.KeyW: "w", ebiten.KeyX: "x",
	ebiten.KeyY: "y", ebiten.KeyZ: "z",

	ebiten.KeyDigit0: "0", ebiten.KeyDigit1: "1", ebiten.KeyDigit2: "2",
	ebiten.KeyDigit3: "3", ebiten.KeyDigit4: "4", ebiten.KeyDigit5: "5",
	ebiten.KeyDigit6: "6", ebiten.KeyDigit7: "7", ebiten.KeyDigit8: "8",
	ebiten.KeyDigit9: "9",

	ebiten.KeySpace:          " ",
	ebiten.KeyMinus:          "-",
	ebiten.KeyNumpadSubtract: "-",
	ebiten.KeyNumpadAdd:      "+",
	ebiten.KeyDelete:         "Delete",
	ebiten.KeyBackspace:      "Backspace",
	ebiten.KeyEscape:         "Escape",
	ebiten.KeyEnter:          "Enter",
	ebiten.KeyTab:            "Tab",
	ebiten.KeyArrowUp:        "ArrowUp",
	ebiten.KeyArrowDown:      "ArrowDown",
	ebiten.KeyArrowLeft:      "ArrowLeft",
	ebiten.KeyArrowRight:     "ArrowRight",
}

// KeyName returns the DOM-style key name the editor shortcuts match
// against. Letters are always lowercase; Shift+= yields "+". Keys the
// editor has no use for report false.
func KeyName(k ebiten.Key, mods ocif.KeyModifiers) (string, bool) {
	if k == ebiten.KeyEqual {
		if mods.Has(ocif.ModShift) {
			return "+", true
		}
		return "=", true
	}
	name, ok := keyNames[k]
	return name, ok
}

// repeatKeys auto-repeat while held.
var repeatKeys = []ebiten.Key{
	ebiten.KeyArrowUp, ebiten.KeyArrowDown, ebiten.KeyArrowLeft, ebiten.KeyArrowRight,
	ebiten.KeyDelete, ebiten.KeyBackspace, ebiten.KeyMinus, ebiten.KeyEqual,
}

// readModifiers returns the current keyboard modifier state.
func readModifiers() ocif.KeyModifiers {
	var mods ocif.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ocif.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ocif.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ocif.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ocif.ModMeta
	}
	return mods
}

// pollInput reads the mouse, wheel and keyboard state for this tick.
func (h *Host) pollInput() inputFrame {
	mods := readModifiers()
	mx, my := ebiten.CursorPosition()
	f := inputFrame{
		X:    float64(mx),
		Y:    float64(my),
		Mods: mods,
	}
	f.Inside = mx >= 0 && my >= 0 && mx < h.width && my < h.height

	// Keep the button that started a press until it is released.
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left || right || middle {
		f.Pressed = true
		switch {
		case h.pressed:
			f.Button = h.button
		case left:
			f.Button = ocif.MouseButtonLeft
		case right:
			f.Button = ocif.MouseButtonRight
		default:
			f.Button = ocif.MouseButtonMiddle
		}
	}

	_, wy := ebiten.Wheel()
	f.WheelY = -wy * wheelLinePixels

	h.keys = inpututil.AppendJustPressedKeys(h.keys[:0])
	for _, k := range h.keys {
		if name, ok := KeyName(k, mods); ok {
			f.KeysDown = append(f.KeysDown, keyPress{Name: name})
		}
	}
	for _, k := range repeatKeys {
		name, _ := KeyName(k, mods)
		d := inpututil.KeyPressDuration(k)
		if d > repeatDelay && (d-repeatDelay)%repeatInterval == 0 {
			f.KeysDown = append(f.KeysDown, keyPress{Name: name, Repeat: true})
		}
	}
	h.keys = inpututil.AppendJustReleasedKeys(h.keys[:0])
	for _, k := range h.keys {
		if name, ok := KeyName(k, mods); ok {
			f.KeysUp = append(f.KeysUp, name)
		}
	}
	return f
}

// applyInput forwards one tick of input to the toolbar and the editor.
// Presses that start on the toolbar never reach the editor.
func (h *Host) applyInput(f inputFrame) {
	ed := h.ed
	switch {
	case f.Pressed && !h.pressed:
		h.pressed, h.button = true, f.Button
		if f.Inside && h.toolbarClick(f.X, f.Y) {
			h.toolbarPress = true
			break
		}
		if f.Inside {
			ed.PointerDown(f.X, f.Y, f.Button, f.Mods)
		}
	case !f.Pressed && h.pressed:
		h.pressed = false
		if h.toolbarPress {
			h.toolbarPress = false
			break
		}
		ed.PointerUp(f.X, f.Y, h.button, f.Mods)
	case h.toolbarPress:
	case !f.Inside && h.inside:
		ed.PointerLeave(f.Mods)
	case f.X != h.lastX || f.Y != h.lastY:
		if f.Inside {
			ed.PointerMove(f.X, f.Y, f.Mods)
		}
	}
	h.inside = f.Inside
	h.lastX, h.lastY = f.X, f.Y

	if f.WheelY != 0 && f.Inside {
		ed.Wheel(f.X, f.Y, f.WheelY)
	}
	for _, k := range f.KeysDown {
		ed.KeyDown(k.Name, f.Mods, k.Repeat)
	}
	for _, name := range f.KeysUp {
		ed.KeyUp(name, f.Mods)
	}
}
