package fx

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// FragmentsSettings tunes the glitch fragment field.
type FragmentsSettings struct {
	Density       float64 `yaml:"density"` // surface pixels per fragment
	MinWidth      float64 `yaml:"min_width"`
	MaxWidth      float64 `yaml:"max_width"`
	MinHeight     float64 `yaml:"min_height"`
	MaxHeight     float64 `yaml:"max_height"`
	MaxOpacity    float64 `yaml:"max_opacity"`
	Displace      float64 `yaml:"displace"`       // wave displacement at force 1
	Tilt          float64 `yaml:"tilt"`           // max rotation in radians at force 1
	Ease          float64 `yaml:"ease"`           // smoothing factor
	TimeStep      float64 `yaml:"time_step"`      // counter advance per frame
	ShiftChance   float64 `yaml:"shift_chance"`   // chance of a horizontal tear
	ResizeChance  float64 `yaml:"resize_chance"`  // chance of re-rolling width
	RecolorChance float64 `yaml:"recolor_chance"` // chance of a flicker frame
	Trail         float64 `yaml:"trail"`          // per-frame fade alpha
}

// DefaultFragmentsSettings returns the stock fragment tuning.
func DefaultFragmentsSettings() FragmentsSettings {
	return FragmentsSettings{
		Density:       6000,
		MinWidth:      4,
		MaxWidth:      40,
		MinHeight:     1,
		MaxHeight:     6,
		MaxOpacity:    0.9,
		Displace:      18,
		Tilt:          0.35,
		Ease:          0.15,
		TimeStep:      0.05,
		ShiftChance:   0.05,
		ResizeChance:  0.02,
		RecolorChance: 0.05,
		Trail:         0.25,
	}
}

type fragment struct {
	baseX, baseY  float64
	x, y          float64
	w, h          float64
	angle         float64
	targetAngle   float64
	opacity       float64
	targetOpacity float64
	offX, offY    float64
	targetOffX    float64
	targetOffY    float64
	phase         float64
	color         colorful.Color
	look          Appearance
}

// Fragments is a field of thin torn slivers that ripple and tear apart
// near the pointer.
type Fragments struct {
	cfg       FragmentsSettings
	fragments []fragment
	time      float64
}

// NewFragments creates an empty fragment field.
func NewFragments(cfg FragmentsSettings) *Fragments {
	return &Fragments{cfg: cfg}
}

func (e *Fragments) Name() string   { return EffectFragments }
func (e *Fragments) Len() int       { return len(e.fragments) }
func (e *Fragments) Trail() float64 { return e.cfg.Trail }

func (e *Fragments) Reset(w, h int, rng *rand.Rand) {
	s := e.cfg
	e.time = 0
	n := ParticleCount(w, h, s.Density)
	e.fragments = make([]fragment, n)
	for i := range e.fragments {
		x := rng.Float64() * float64(w)
		y := rng.Float64() * float64(h)
		e.fragments[i] = fragment{
			baseX: x,
			baseY: y,
			x:     x,
			y:     y,
			w:     lerp(s.MinWidth, s.MaxWidth, rng.Float64()),
			h:     lerp(s.MinHeight, s.MaxHeight, rng.Float64()),
			phase: rng.Float64() * 2 * math.Pi,
			color: glitchPalette.Pick(rng),
		}
	}
}

func (e *Fragments) Update(p *Pointer, rng *rand.Rand) {
	s := e.cfg
	e.time += s.TimeStep
	for i := range e.fragments {
		f := &e.fragments[i]
		kind := AppearanceSolid
		pr := p.Proximity(f.baseX, f.baseY)
		if pr.Near {
			wave := e.time + f.phase
			f.targetOpacity = math.Min(s.MaxOpacity, pr.Force)
			f.targetOffX = math.Sin(wave) * pr.Force * s.Displace
			f.targetOffY = math.Cos(wave*1.3) * pr.Force * s.Displace * 0.3
			f.targetAngle = math.Sin(wave*0.7) * pr.Force * s.Tilt
			if rng.Float64() < s.ShiftChance {
				f.targetOffX += (rng.Float64()*2 - 1) * pr.Force * s.Displace * 2
			}
			if rng.Float64() < s.ResizeChance {
				f.w = lerp(s.MinWidth, s.MaxWidth, rng.Float64())
			}
			if rng.Float64() < s.RecolorChance {
				f.color = glitchPalette.Pick(rng)
				kind = AppearanceFlicker
			}
		} else {
			f.targetOpacity = 0
			f.targetOffX = 0
			f.targetOffY = 0
			f.targetAngle = 0
		}

		f.opacity = Approach(f.opacity, f.targetOpacity, s.Ease)
		f.offX = Approach(f.offX, f.targetOffX, s.Ease)
		f.offY = Approach(f.offY, f.targetOffY, s.Ease)
		f.angle = Approach(f.angle, f.targetAngle, s.Ease)
		f.x = f.baseX + f.offX
		f.y = f.baseY + f.offY
		f.look = look(f.color, f.opacity, kind)
	}
}

func (e *Fragments) Draw(c Canvas) {
	for i := range e.fragments {
		f := &e.fragments[i]
		if !f.look.Visible() {
			continue
		}
		x, y := float32(f.x), float32(f.y)
		w, h, a := float32(f.w), float32(f.h), float32(f.angle)
		if f.look.Kind == AppearanceFlicker {
			c.FillRotatedRect(x+3, y, w, h, a, f.look.Extra)
		}
		c.FillRotatedRect(x, y, w, h, a, f.look.Fill)
	}
}

func (e *Fragments) Opacities() []float64 {
	out := make([]float64, len(e.fragments))
	for i := range e.fragments {
		out[i] = e.fragments[i].opacity
	}
	return out
}
