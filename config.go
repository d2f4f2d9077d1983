package vellum

import (
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Config holds Document settings. Zero values are not usable; start from
// DefaultConfig and override fields, or load a TOML file with LoadConfig.
type Config struct {
	// MinScale and MaxScale bound the viewport zoom (0.1 = 10%).
	MinScale float64 `toml:"min_scale"`
	MaxScale float64 `toml:"max_scale"`
	// ZoomStep is the scale delta applied by Viewport.ZoomIn/ZoomOut.
	ZoomStep float64 `toml:"zoom_step"`

	// HistoryLimit caps the undo stack. 0 disables undo.
	HistoryLimit int `toml:"history_limit"`

	// DefaultSize and DefaultAppearance seed nodes made by CreateNode.
	DefaultSize       Size       `toml:"default_size"`
	DefaultAppearance Appearance `toml:"default_appearance"`

	// Debug runs the invariant checker after every mutation and panics on a
	// violation. Also logs tree depth and child count warnings.
	Debug bool `toml:"debug"`

	// Logger receives structured pipeline logs. Nil discards them.
	Logger *log.Logger `toml:"-"`

	// NewID generates node ids. Nil uses NewUUID.
	NewID func() NodeID `toml:"-"`
}

// DefaultConfig returns the settings used by the editor: 10%–500% zoom in
// 10% steps, 100x100 white boxes with a 1px black stroke.
func DefaultConfig() Config {
	return Config{
		MinScale:     0.1,
		MaxScale:     5.0,
		ZoomStep:     0.1,
		HistoryLimit: 100,
		DefaultSize:  Size{Width: 100, Height: 100},
		DefaultAppearance: Appearance{
			Fill:        ColorWhite,
			Stroke:      ColorBlack,
			StrokeWidth: 1,
			Opacity:     1,
		},
	}
}

// Validate reports settings that would break viewport or node invariants.
func (c Config) Validate() error {
	var errs []error
	if c.MinScale <= 0 {
		errs = append(errs, fmt.Errorf("min_scale must be positive, got %v", c.MinScale))
	}
	if c.MaxScale < c.MinScale {
		errs = append(errs, fmt.Errorf("max_scale %v is below min_scale %v", c.MaxScale, c.MinScale))
	}
	if c.ZoomStep <= 0 {
		errs = append(errs, fmt.Errorf("zoom_step must be positive, got %v", c.ZoomStep))
	}
	if c.HistoryLimit < 0 {
		errs = append(errs, fmt.Errorf("history_limit must not be negative, got %d", c.HistoryLimit))
	}
	if c.DefaultSize.Width < 0 || c.DefaultSize.Height < 0 {
		errs = append(errs, errors.New("default_size must not be negative"))
	}
	if o := c.DefaultAppearance.Opacity; o < 0 || o > 1 {
		errs = append(errs, fmt.Errorf("default_appearance.opacity %v outside [0, 1]", o))
	}
	if c.DefaultAppearance.StrokeWidth < 0 {
		errs = append(errs, errors.New("default_appearance.stroke_width must not be negative"))
	}
	return errors.Join(errs...)
}

// ParseConfig decodes TOML on top of DefaultConfig, so files only need the
// keys they change.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads a TOML config file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// logger returns c.Logger or a discarding logger.
func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}
