// Package config loads the window, pointer and effect tuning from YAML.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/Garsondee/Glitch-Field/internal/fx"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// WindowConfig controls the host window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	TPS    int    `yaml:"tps"` // updates per second
}

// PointerConfig controls the shared pointer.
type PointerConfig struct {
	Radius float64 `yaml:"radius"`
}

// Config is the full application configuration.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Pointer PointerConfig `yaml:"pointer"`
	Effect  string        `yaml:"effect"` // effect shown at start
	Effects fx.Settings   `yaml:"effects"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window:  WindowConfig{Title: "Glitch Field", Width: 1280, Height: 720, TPS: 60},
		Pointer: PointerConfig{Radius: fx.DefaultPointerRadius},
		Effect:  fx.EffectPoints,
		Effects: fx.DefaultSettings(),
	}
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Load resolves the configuration.
// Search order: customPath -> ~/.glitchfield/config.yaml -> ./configs/config.yaml -> embedded default.
// It returns the path actually used, or "" for the embedded default.
func Load(customPath string) (Config, string, error) {
	if customPath != "" {
		cfg, err := LoadFile(customPath)
		return cfg, customPath, err
	}

	for _, path := range []string{userConfigPath("config.yaml"), filepath.Join("configs", "config.yaml")} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := LoadFile(path)
		return cfg, path, err
	}

	cfg, err := Parse(defaultYAML)
	if err != nil {
		return Default(), "", fmt.Errorf("embedded default config: %w", err)
	}
	return cfg, "", nil
}

// LoadFile reads and validates one config file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Default(), fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".glitchfield", filename)
}

// Marshal renders the config as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate rejects values that would break the effects.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("%w: tps %d", ErrInvalid, c.Window.TPS)
	}
	if c.Pointer.Radius <= 0 {
		return fmt.Errorf("%w: pointer radius %.1f", ErrInvalid, c.Pointer.Radius)
	}
	if !slices.Contains(fx.Names(), c.Effect) {
		return fmt.Errorf("%w: %w: %q", ErrInvalid, fx.ErrUnknownEffect, c.Effect)
	}

	e := &c.Effects
	positive := map[string]float64{
		"points.spacing":         e.Points.Spacing,
		"particles.density":      e.Particles.Density,
		"fragments.density":      e.Fragments.Density,
		"network.density":        e.Network.Density,
		"network.link_distance":  e.Network.LinkDistance,
		"pixels.max_life":        float64(e.Pixels.MaxLife),
		"pixels.pixel_cell":      float64(e.Pixels.PixelCell),
		"pixels.max_block_size":  float64(e.Pixels.MaxBlockSize),
		"pixels.max_line_height": float64(e.Pixels.MaxLineHeight),
	}
	for name, v := range positive {
		if v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, name, v)
		}
	}

	// Smoothing factors must stay in (0,1] so blending never overshoots.
	factors := map[string]float64{
		"points.offset_ease": e.Points.OffsetEase,
		"points.min_flicker": e.Points.MinFlicker,
		"points.max_flicker": e.Points.MaxFlicker,
		"particles.ease":     e.Particles.Ease,
		"particles.fade":     e.Particles.Fade,
		"fragments.ease":     e.Fragments.Ease,
		"network.ease":       e.Network.Ease,
		"pixels.decay":       e.Pixels.Decay,
	}
	for name, v := range factors {
		if v <= 0 || v > 1 {
			return fmt.Errorf("%w: %s must be in (0,1], got %v", ErrInvalid, name, v)
		}
	}

	// Opacity caps and probabilities are clamped rather than rejected.
	for _, p := range []*float64{
		&e.Points.Fill, &e.Points.MaxOpacity, &e.Points.RecolorChance, &e.Points.GlowChance,
		&e.Particles.RestOpacity, &e.Particles.MaxOpacity,
		&e.Fragments.MaxOpacity, &e.Fragments.ShiftChance, &e.Fragments.ResizeChance,
		&e.Fragments.RecolorChance, &e.Fragments.Trail,
		&e.Network.RestOpacity, &e.Network.MaxOpacity,
		&e.Pixels.LineChance, &e.Pixels.BlockChance, &e.Pixels.FrameShiftChance, &e.Pixels.ScanlineDarken,
	} {
		*p = fx.Clamp01(*p)
	}
	if e.Particles.RestOpacity > e.Particles.MaxOpacity {
		e.Particles.RestOpacity = e.Particles.MaxOpacity
	}
	if e.Network.RestOpacity > e.Network.MaxOpacity {
		e.Network.RestOpacity = e.Network.MaxOpacity
	}
	return nil
}
