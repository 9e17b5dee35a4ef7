package ebitenhost

import (
	"github.com/atotto/clipboard"
	ocif "github.com/jmsv/ocif-thing"
)

type systemClipboard struct{}

var _ ocif.Clipboard = systemClipboard{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Clipboard returns the operating system clipboard, or nil when the
// platform has none (for example Linux without xclip, xsel or
// wl-clipboard). Pass it to ocif.WithClipboard.
func Clipboard() ocif.Clipboard {
	if clipboard.Unsupported {
		return nil
	}
	return systemClipboard{}
}
