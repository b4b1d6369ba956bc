package fx

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrUnknownEffect is returned by NewEffect for names it does not know.
var ErrUnknownEffect = errors.New("unknown effect")

// Effect is one pointer-reactive animation. An effect owns its entity
// population exclusively; the Driver calls Reset on init and resize, then
// Update and Draw once per frame.
type Effect interface {
	Name() string
	// Reset discards every entity and builds a fresh population for a w×h surface.
	Reset(w, h int, rng *rand.Rand)
	// Update recomputes targets from the pointer and eases current state towards them.
	Update(p *Pointer, rng *rand.Rand)
	// Draw renders the current state. It must not mutate entity state.
	Draw(c Canvas)
	// Len returns the number of live entities.
	Len() int
	// Opacities returns the current opacity of every entity, in population order.
	Opacities() []float64
	// Trail returns the per-frame fade alpha; 0 clears the surface each frame.
	Trail() float64
}

// Effect names.
const (
	EffectPoints    = "points"
	EffectParticles = "particles"
	EffectFragments = "fragments"
	EffectNetwork   = "network"
	EffectPixels    = "pixels"
)

// Names lists every effect in display order.
func Names() []string {
	return []string{EffectPoints, EffectParticles, EffectFragments, EffectNetwork, EffectPixels}
}

// Settings holds the tunables of every effect.
type Settings struct {
	Points    PointsSettings    `yaml:"points"`
	Particles ParticlesSettings `yaml:"particles"`
	Fragments FragmentsSettings `yaml:"fragments"`
	Network   NetworkSettings   `yaml:"network"`
	Pixels    PixelsSettings    `yaml:"pixels"`
}

// DefaultSettings returns the stock tuning for every effect.
func DefaultSettings() Settings {
	return Settings{
		Points:    DefaultPointsSettings(),
		Particles: DefaultParticlesSettings(),
		Fragments: DefaultFragmentsSettings(),
		Network:   DefaultNetworkSettings(),
		Pixels:    DefaultPixelsSettings(),
	}
}

// NewEffect builds the named effect from s. The effect is empty until Reset.
func NewEffect(name string, s Settings) (Effect, error) {
	switch name {
	case EffectPoints:
		return NewPoints(s.Points), nil
	case EffectParticles:
		return NewParticles(s.Particles), nil
	case EffectFragments:
		return NewFragments(s.Fragments), nil
	case EffectNetwork:
		return NewNetwork(s.Network), nil
	case EffectPixels:
		return NewPixels(s.Pixels), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
}
