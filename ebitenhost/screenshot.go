package ebitenhost

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a labeled capture of the next drawn frame. The PNG is
// written to the host's screenshot directory with a timestamped name.
func (h *Host) Screenshot(label string) {
	h.shots = append(h.shots, label)
}

// SetScreenshotDir sets where captures are written. The default is the
// working directory.
func (h *Host) SetScreenshotDir(dir string) { h.shotDir = dir }

// flushScreenshots writes every queued capture of screen. Called at the end
// of Draw.
func (h *Host) flushScreenshots(screen *ebiten.Image) {
	if len(h.shots) == 0 {
		return
	}
	defer func() { h.shots = h.shots[:0] }()

	dir := h.shotDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		h.log.Error("screenshot", "dir", dir, "err", err)
		return
	}
	img := readScreen(screen)
	stamp := time.Now().Format("20060102_150405")
	for _, label := range h.shots {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			h.log.Error("screenshot", "err", err)
			continue
		}
		h.log.Info("screenshot saved", "path", path)
	}
}

// readScreen copies screen into a straight-alpha image.
func readScreen(screen *ebiten.Image) *image.NRGBA {
	b := screen.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	screen.ReadPixels(pixels)
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	unpremultiply(img.Pix, pixels)
	return img
}

// unpremultiply converts premultiplied RGBA bytes in src to straight alpha
// in dst.
func unpremultiply(dst, src []byte) {
	for i := 0; i+3 < len(src); i += 4 {
		r, g, b, a := src[i], src[i+1], src[i+2], src[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		dst[i], dst[i+1], dst[i+2], dst[i+3] = r, g, b, a
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
