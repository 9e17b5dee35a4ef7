package ebitenhost

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]color.RGBA{
	"black": {A: 255},
	"white": {R: 255, G: 255, B: 255, A: 255},
	"red":   {R: 255, A: 255},
	"green": {G: 128, A: 255},
	"blue":  {B: 255, A: 255},
	"gray":  {R: 128, G: 128, B: 128, A: 255},
}

// ParseColor converts a document color string ("#rgb", "#rrggbb" or a basic
// color name) to an opaque RGBA. Empty strings, "none" and "transparent"
// report false so the caller skips that fill or stroke.
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none", "transparent":
		return color.RGBA{}, false
	}
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, false
	}
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, true
}
