package ocif

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// StrokeOptions tunes the freehand stroke smoother.
type StrokeOptions struct {
	Size       float64 `toml:"size"`
	Thinning   float64 `toml:"thinning"`
	Smoothing  float64 `toml:"smoothing"`
	Streamline float64 `toml:"streamline"`
}

// Config holds the tunable constants of an editor. Zero fields fall back to
// DefaultConfig values, so a partial TOML file only needs the keys it
// changes.
type Config struct {
	MinScale        float64 `toml:"min_scale"`
	MaxScale        float64 `toml:"max_scale"`
	ZoomStep        float64 `toml:"zoom_step"`
	WheelZoomFactor float64 `toml:"wheel_zoom_factor"`
	ZoomAnimation   float64 `toml:"zoom_animation"` // seconds; negative disables

	SnapThreshold float64   `toml:"snap_threshold"`
	SnapAngles    []float64 `toml:"snap_angles"`

	MinShapeSize     float64 `toml:"min_shape_size"`
	DefaultShapeSize float64 `toml:"default_shape_size"`
	PasteOffset      float64 `toml:"paste_offset"`
	NudgeSmall       float64 `toml:"nudge_small"`
	NudgeLarge       float64 `toml:"nudge_large"`

	HandleSize         float64 `toml:"handle_size"`
	RotateHandleOffset float64 `toml:"rotate_handle_offset"`

	Stroke StrokeOptions `toml:"stroke"`

	StrokeWidth   float64 `toml:"stroke_width"`
	StrokeColor   string  `toml:"stroke_color"`
	FillColor     string  `toml:"fill_color"`
	PathFillColor string  `toml:"path_fill_color"`
}

// DefaultConfig returns the stock editor constants.
func DefaultConfig() Config {
	return Config{
		MinScale:        0.2,
		MaxScale:        5,
		ZoomStep:        0.2,
		WheelZoomFactor: 0.002,
		ZoomAnimation:   0.25,

		SnapThreshold: 10,
		SnapAngles:    []float64{0, 90, 180, 270, 360},

		MinShapeSize:     20,
		DefaultShapeSize: 100,
		PasteOffset:      20,
		NudgeSmall:       1,
		NudgeLarge:       10,

		HandleSize:         8,
		RotateHandleOffset: 24,

		Stroke: StrokeOptions{Size: 8, Thinning: 0.5, Smoothing: 0.5, Streamline: 0.5},

		StrokeWidth:   2,
		StrokeColor:   "#000",
		FillColor:     "#fff",
		PathFillColor: "#000",
	}
}

// LoadConfig reads a TOML config file.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	defer f.Close()
	return DecodeConfig(f)
}

// DecodeConfig reads TOML from r on top of DefaultConfig.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg.normalize(), nil
}

// EncodeConfig writes cfg as TOML.
func EncodeConfig(w io.Writer, cfg Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// normalize replaces zero or out-of-range fields with defaults.
func (c Config) normalize() Config {
	def := DefaultConfig()
	pos := func(v *float64, d float64) {
		if *v <= 0 {
			*v = d
		}
	}
	pos(&c.MinScale, def.MinScale)
	pos(&c.MaxScale, def.MaxScale)
	if c.MaxScale < c.MinScale {
		c.MinScale, c.MaxScale = def.MinScale, def.MaxScale
	}
	pos(&c.ZoomStep, def.ZoomStep)
	pos(&c.WheelZoomFactor, def.WheelZoomFactor)
	if c.ZoomAnimation == 0 {
		c.ZoomAnimation = def.ZoomAnimation
	}
	pos(&c.SnapThreshold, def.SnapThreshold)
	if len(c.SnapAngles) == 0 {
		c.SnapAngles = def.SnapAngles
	}
	pos(&c.MinShapeSize, def.MinShapeSize)
	pos(&c.DefaultShapeSize, def.DefaultShapeSize)
	pos(&c.PasteOffset, def.PasteOffset)
	pos(&c.NudgeSmall, def.NudgeSmall)
	pos(&c.NudgeLarge, def.NudgeLarge)
	pos(&c.HandleSize, def.HandleSize)
	pos(&c.RotateHandleOffset, def.RotateHandleOffset)
	pos(&c.Stroke.Size, def.Stroke.Size)
	pos(&c.StrokeWidth, def.StrokeWidth)
	if c.StrokeColor == "" {
		c.StrokeColor = def.StrokeColor
	}
	if c.FillColor == "" {
		c.FillColor = def.FillColor
	}
	if c.PathFillColor == "" {
		c.PathFillColor = def.PathFillColor
	}
	return c
}
