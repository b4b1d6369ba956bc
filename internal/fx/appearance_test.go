package fx

import (
	"math"
	"testing"
)

func TestLook_HiddenBelowThreshold(t *testing.T) {
	for _, o := range []float64{0, drawEpsilon, math.NaN(), -0.5} {
		if a := look(white, o, AppearanceSolid); a.Visible() {
			t.Fatalf("opacity %v should be hidden, got %s", o, a.Kind)
		}
	}
}

func TestLook_FillAlphaTracksOpacity(t *testing.T) {
	a := look(white, 0.5, AppearanceSolid)
	if a.Kind != AppearanceSolid {
		t.Fatalf("expected solid, got %s", a.Kind)
	}
	if a.Fill.A != 128 || a.Fill.R != 255 {
		t.Fatalf("unexpected fill %+v", a.Fill)
	}
	if a.Extra.A != 0 {
		t.Fatal("solid appearance should have no extra colour")
	}
}

func TestLook_GlowAndFlickerCarryExtra(t *testing.T) {
	glow := look(white, 1, AppearanceGlow)
	if glow.Extra.A == 0 || glow.Extra.A >= glow.Fill.A {
		t.Fatalf("glow halo should be fainter than the fill, got %d vs %d", glow.Extra.A, glow.Fill.A)
	}
	flicker := look(white, 1, AppearanceFlicker)
	if flicker.Extra.R != 0 || flicker.Extra.A == 0 {
		t.Fatalf("flicker ghost should invert red, got %+v", flicker.Extra)
	}
}

func TestLook_OpacityAboveOneClamps(t *testing.T) {
	if a := look(white, 3, AppearanceSolid); a.Fill.A != 255 {
		t.Fatalf("expected alpha 255, got %d", a.Fill.A)
	}
}

func TestParsePalette_SkipsInvalid(t *testing.T) {
	p := ParsePalette([]string{"#ffffff", "nope", "#ff0000"})
	if len(p) != 2 {
		t.Fatalf("expected 2 colours, got %d", len(p))
	}
	if ParsePalette(nil).Pick(nil) != white {
		t.Fatal("empty palette should fall back to white")
	}
}
