package fx

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// ParticlesSettings tunes the repelling particle field.
type ParticlesSettings struct {
	Density     float64  `yaml:"density"` // surface pixels per particle
	MinSize     float64  `yaml:"min_size"`
	MaxSize     float64  `yaml:"max_size"`
	Push        float64  `yaml:"push"`         // displacement at force 1
	Ease        float64  `yaml:"ease"`         // spring factor towards the target position
	Fade        float64  `yaml:"fade"`         // opacity smoothing factor
	RestOpacity float64  `yaml:"rest_opacity"` // opacity far from the pointer
	MaxOpacity  float64  `yaml:"max_opacity"`
	Palette     []string `yaml:"palette"`
}

// DefaultParticlesSettings returns the stock particle tuning.
func DefaultParticlesSettings() ParticlesSettings {
	return ParticlesSettings{
		Density:     8000,
		MinSize:     1,
		MaxSize:     3,
		Push:        40,
		Ease:        0.1,
		Fade:        0.08,
		RestOpacity: 0.15,
		MaxOpacity:  1,
		Palette:     []string{"#ffffff", "#9ad8ff", "#ff6ad5"},
	}
}

type particle struct {
	baseX, baseY  float64
	x, y          float64
	size          float64
	opacity       float64
	targetOpacity float64
	color         colorful.Color
	look          Appearance
}

// Particles is a uniform field of dots pushed away from the pointer that
// spring back to their rest position once it moves on.
type Particles struct {
	cfg       ParticlesSettings
	palette   Palette
	particles []particle
}

// NewParticles creates an empty particle field.
func NewParticles(cfg ParticlesSettings) *Particles {
	pal := ParsePalette(cfg.Palette)
	if len(pal) == 0 {
		pal = Palette{white}
	}
	return &Particles{cfg: cfg, palette: pal}
}

func (e *Particles) Name() string   { return EffectParticles }
func (e *Particles) Len() int       { return len(e.particles) }
func (e *Particles) Trail() float64 { return 0 }

// ParticleCount is the population size for a w×h surface.
func ParticleCount(w, h int, density float64) int {
	if density <= 0 || w <= 0 || h <= 0 {
		return 0
	}
	return int(float64(w*h) / density)
}

func (e *Particles) Reset(w, h int, rng *rand.Rand) {
	s := e.cfg
	n := ParticleCount(w, h, s.Density)
	e.particles = make([]particle, n)
	for i := range e.particles {
		x := rng.Float64() * float64(w)
		y := rng.Float64() * float64(h)
		e.particles[i] = particle{
			baseX:   x,
			baseY:   y,
			x:       x,
			y:       y,
			size:    lerp(s.MinSize, s.MaxSize, rng.Float64()),
			opacity: s.RestOpacity,
			color:   e.palette.Pick(rng),
		}
	}
}

func (e *Particles) Update(p *Pointer, _ *rand.Rand) {
	s := e.cfg
	for i := range e.particles {
		pt := &e.particles[i]
		tx, ty := pt.baseX, pt.baseY
		pt.targetOpacity = s.RestOpacity
		pr := p.Proximity(pt.baseX, pt.baseY)
		if pr.Near {
			// A particle exactly under the pointer lights up fully but is not pushed.
			nx, ny := pr.Direction()
			tx += nx * pr.Force * s.Push
			ty += ny * pr.Force * s.Push
			pt.targetOpacity = Clamp(s.RestOpacity+pr.Force*(s.MaxOpacity-s.RestOpacity), 0, s.MaxOpacity)
		}
		pt.x = Approach(pt.x, tx, s.Ease)
		pt.y = Approach(pt.y, ty, s.Ease)
		pt.opacity = Approach(pt.opacity, pt.targetOpacity, s.Fade)
		pt.look = look(pt.color, pt.opacity, AppearanceSolid)
	}
}

func (e *Particles) Draw(c Canvas) {
	for i := range e.particles {
		pt := &e.particles[i]
		if !pt.look.Visible() {
			continue
		}
		c.FillCircle(float32(pt.x), float32(pt.y), float32(pt.size), pt.look.Fill)
	}
}

func (e *Particles) Opacities() []float64 {
	out := make([]float64, len(e.particles))
	for i := range e.particles {
		out[i] = e.particles[i].opacity
	}
	return out
}

// displacements returns each particle's distance from its rest position.
func (e *Particles) displacements() []float64 {
	out := make([]float64, len(e.particles))
	for i := range e.particles {
		pt := &e.particles[i]
		out[i] = math.Hypot(pt.x-pt.baseX, pt.y-pt.baseY)
	}
	return out
}
