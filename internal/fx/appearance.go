package fx

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// AppearanceKind selects how an entity is drawn this frame.
type AppearanceKind uint8

const (
	AppearanceHidden  AppearanceKind = iota // below the draw threshold
	AppearanceSolid                         // plain fill
	AppearanceGlow                          // fill plus a faint halo
	AppearanceFlicker                       // fill plus a channel-shifted ghost
)

var appearanceNames = [...]string{"hidden", "solid", "glow", "flicker"}

func (k AppearanceKind) String() string {
	if int(k) < len(appearanceNames) {
		return appearanceNames[k]
	}
	return "unknown"
}

// Appearance is recomputed from entity state every frame; entities never
// mutate it in place.
type Appearance struct {
	Kind  AppearanceKind
	Fill  color.NRGBA
	Extra color.NRGBA // halo or ghost colour, depending on Kind
}

// Visible reports whether anything should be drawn.
func (a Appearance) Visible() bool { return a.Kind != AppearanceHidden }

// look builds the appearance for a colour at the given opacity.
func look(c colorful.Color, opacity float64, kind AppearanceKind) Appearance {
	if math.IsNaN(opacity) || opacity <= drawEpsilon {
		return Appearance{Kind: AppearanceHidden}
	}
	a := Appearance{Kind: kind, Fill: nrgba(c, opacity)}
	switch kind {
	case AppearanceGlow:
		a.Extra = nrgba(c, opacity*0.3)
	case AppearanceFlicker:
		// Ghost in the complementary channel mix.
		ghost := colorful.Color{R: 1 - c.R, G: c.G * 0.2, B: 1 - c.B}
		a.Extra = nrgba(ghost, opacity*0.5)
	}
	return a
}

func nrgba(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(Clamp01(alpha) * 255))}
}

// Palette is a weighted list of colours; repeats raise the odds of a colour.
type Palette []colorful.Color

// Pick returns a uniformly random palette entry.
func (p Palette) Pick(rng *rand.Rand) colorful.Color {
	if len(p) == 0 {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return p[rng.Intn(len(p))]
}

var (
	white = colorful.Color{R: 1, G: 1, B: 1}

	// glitchPalette favours white so the RGB primaries read as errors.
	glitchPalette = Palette{
		white,
		{R: 1, G: 0, B: 0},
		{R: 0, G: 1, B: 0},
		{R: 0, G: 0, B: 1},
		white,
		white,
	}
)

// ParsePalette converts hex strings into a palette. Invalid entries are skipped.
func ParsePalette(hexes []string) Palette {
	out := make(Palette, 0, len(hexes))
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}
