package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Garsondee/Glitch-Field/internal/fx"
)

func TestDefault_Validates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestEmbeddedDefault_MatchesBuiltIn(t *testing.T) {
	cfg, err := Parse(defaultYAML)
	if err != nil {
		t.Fatal(err)
	}
	def := Default()
	if cfg.Effects.Points != def.Effects.Points {
		t.Fatalf("embedded points tuning differs:\n%+v\n%+v", cfg.Effects.Points, def.Effects.Points)
	}
	if cfg.Effects.Pixels != def.Effects.Pixels {
		t.Fatal("embedded pixels tuning differs from the built-in default")
	}
	if cfg.Effects.Network != def.Effects.Network {
		t.Fatal("embedded network tuning differs from the built-in default")
	}
}

func TestParse_OverridesOnTopOfDefaults(t *testing.T) {
	cfg, err := Parse([]byte("effect: network\npointer:\n  radius: 90\neffects:\n  network:\n    link_distance: 80\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Effect != fx.EffectNetwork || cfg.Pointer.Radius != 90 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Effects.Network.LinkDistance != 80 {
		t.Fatalf("expected link distance 80, got %.1f", cfg.Effects.Network.LinkDistance)
	}
	if cfg.Effects.Network.Density != fx.DefaultNetworkSettings().Density {
		t.Fatal("unset fields should keep their defaults")
	}
}

func TestParse_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"ease":    "effects:\n  particles:\n    ease: 1.5\n",
		"radius":  "pointer:\n  radius: 0\n",
		"density": "effects:\n  particles:\n    density: -1\n",
		"window":  "window:\n  width: 0\n",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}

func TestParse_UnknownEffect(t *testing.T) {
	_, err := Parse([]byte("effect: plasma\n"))
	if !errors.Is(err, ErrInvalid) || !errors.Is(err, fx.ErrUnknownEffect) {
		t.Fatalf("expected ErrInvalid wrapping ErrUnknownEffect, got %v", err)
	}
}

func TestParse_ClampsProbabilities(t *testing.T) {
	cfg, err := Parse([]byte("effects:\n  points:\n    fill: 3\n  network:\n    rest_opacity: 0.9\n    max_opacity: 0.5\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Effects.Points.Fill != 1 {
		t.Fatalf("fill should clamp to 1, got %.2f", cfg.Effects.Points.Fill)
	}
	if cfg.Effects.Network.RestOpacity != 0.5 {
		t.Fatalf("rest opacity should not exceed max, got %.2f", cfg.Effects.Network.RestOpacity)
	}
}

func TestLoad_CustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fx.yaml")
	if err := os.WriteFile(path, []byte("effect: pixels\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, used, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if used != path || cfg.Effect != fx.EffectPixels {
		t.Fatalf("expected pixels from %s, got %q from %q", path, cfg.Effect, used)
	}
	if _, _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("missing custom path should be an error")
	}
}

func TestMarshal_Reloads(t *testing.T) {
	cfg := Default()
	cfg.Effect = fx.EffectFragments
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if back.Effect != fx.EffectFragments {
		t.Fatalf("expected fragments after reload, got %q", back.Effect)
	}
}

func TestWatcher_ReportsYAMLWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("effect: points\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("effect: network\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case name := <-w.Events:
		if filepath.Base(name) != "config.yaml" {
			t.Fatalf("unexpected event for %s", name)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no event for a YAML write")
	}
}

func TestWatcher_CloseTwice(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	_ = w.Close()
}

func TestLoad_BrokenEmbeddedDefaultReportsError(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)

	saved := defaultYAML
	defaultYAML = []byte("pointer: [not, a, map")
	defer func() { defaultYAML = saved }()

	cfg, path, err := Load("")
	if err == nil {
		t.Fatal("expected an error for a broken embedded default")
	}
	if path != "" {
		t.Fatalf("expected no path, got %q", path)
	}
	if cfg.Effect != Default().Effect {
		t.Fatal("a failed load should still return the built-in defaults")
	}
}

func TestLoad_EmbeddedDefaultWhenNoFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)

	cfg, path, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if path != "" || cfg.Pointer.Radius != fx.DefaultPointerRadius {
		t.Fatalf("expected the embedded default, got path=%q radius=%.0f", path, cfg.Pointer.Radius)
	}
}
