package fx

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// PointsSettings tunes the glitch point grid.
type PointsSettings struct {
	Spacing       float64 `yaml:"spacing"`        // grid pitch in pixels
	Jitter        float64 `yaml:"jitter"`         // random placement spread around each grid node
	Fill          float64 `yaml:"fill"`           // fraction of grid nodes that get a point
	MinSize       float64 `yaml:"min_size"`       // square side in pixels
	MaxSize       float64 `yaml:"max_size"`       //
	MaxOpacity    float64 `yaml:"max_opacity"`    // cap on target opacity
	Scatter       float64 `yaml:"scatter"`        // full width of the random offset at force 1
	OffsetEase    float64 `yaml:"offset_ease"`    // smoothing factor for offsets
	MinFlicker    float64 `yaml:"min_flicker"`    // per-point opacity smoothing range
	MaxFlicker    float64 `yaml:"max_flicker"`    //
	RecolorChance float64 `yaml:"recolor_chance"` // per-frame chance to re-roll colour while near
	GlowChance    float64 `yaml:"glow_chance"`    // per-frame chance to draw a halo when bright
}

// DefaultPointsSettings returns the stock point grid tuning.
func DefaultPointsSettings() PointsSettings {
	return PointsSettings{
		Spacing:       30,
		Jitter:        15,
		Fill:          0.7,
		MinSize:       1,
		MaxSize:       3,
		MaxOpacity:    0.8,
		Scatter:       20,
		OffsetEase:    0.1,
		MinFlicker:    0.05,
		MaxFlicker:    0.15,
		RecolorChance: 0.03,
		GlowChance:    0.1,
	}
}

type glitchPoint struct {
	baseX, baseY  float64
	x, y          float64
	size          float64
	opacity       float64
	targetOpacity float64
	offX, offY    float64
	targetOffX    float64
	targetOffY    float64
	intensity     float64 // personal scale on pointer force
	flicker       float64 // opacity smoothing factor
	color         colorful.Color
	look          Appearance
}

// Points is a scattered grid of tiny squares that flicker into view near the
// pointer with small random offsets and colour glitches.
type Points struct {
	cfg    PointsSettings
	points []glitchPoint
}

// NewPoints creates an empty point grid.
func NewPoints(cfg PointsSettings) *Points {
	return &Points{cfg: cfg}
}

func (e *Points) Name() string   { return EffectPoints }
func (e *Points) Len() int       { return len(e.points) }
func (e *Points) Trail() float64 { return 0 }

func (e *Points) Reset(w, h int, rng *rand.Rand) {
	s := e.cfg
	e.points = nil
	if s.Spacing <= 0 {
		return
	}
	for x := 0.0; x < float64(w); x += s.Spacing {
		for y := 0.0; y < float64(h); y += s.Spacing {
			px := x + (rng.Float64()-0.5)*s.Jitter
			py := y + (rng.Float64()-0.5)*s.Jitter
			// Leave gaps so the grid reads as scattered.
			if rng.Float64() >= s.Fill {
				continue
			}
			e.points = append(e.points, glitchPoint{
				baseX:     px,
				baseY:     py,
				x:         px,
				y:         py,
				size:      lerp(s.MinSize, s.MaxSize, rng.Float64()),
				intensity: rng.Float64(),
				flicker:   lerp(s.MinFlicker, s.MaxFlicker, rng.Float64()),
				color:     glitchPalette.Pick(rng),
			})
		}
	}
}

func (e *Points) Update(p *Pointer, rng *rand.Rand) {
	s := e.cfg
	for i := range e.points {
		pt := &e.points[i]
		pr := p.Proximity(pt.baseX, pt.baseY)
		if pr.Near {
			pt.targetOpacity = math.Min(s.MaxOpacity, pr.Force*pt.intensity)
			pt.targetOffX = (rng.Float64() - 0.5) * pr.Force * s.Scatter
			pt.targetOffY = (rng.Float64() - 0.5) * pr.Force * s.Scatter
			if rng.Float64() < s.RecolorChance {
				pt.color = glitchPalette.Pick(rng)
			}
		} else {
			pt.targetOpacity = 0
			pt.targetOffX = 0
			pt.targetOffY = 0
		}

		pt.opacity = Approach(pt.opacity, pt.targetOpacity, pt.flicker)
		pt.offX = Approach(pt.offX, pt.targetOffX, s.OffsetEase)
		pt.offY = Approach(pt.offY, pt.targetOffY, s.OffsetEase)
		pt.x = pt.baseX + pt.offX
		pt.y = pt.baseY + pt.offY

		kind := AppearanceSolid
		if pt.opacity > 0.5 && rng.Float64() < s.GlowChance {
			kind = AppearanceGlow
		}
		pt.look = look(pt.color, pt.opacity, kind)
	}
}

func (e *Points) Draw(c Canvas) {
	for i := range e.points {
		pt := &e.points[i]
		if !pt.look.Visible() {
			continue
		}
		x, y, sz := float32(pt.x), float32(pt.y), float32(pt.size)
		c.FillRect(x, y, sz, sz, pt.look.Fill)
		if pt.look.Kind == AppearanceGlow {
			c.FillRect(x-1, y-1, sz+2, sz+2, pt.look.Extra)
		}
	}
}

func (e *Points) Opacities() []float64 {
	out := make([]float64, len(e.points))
	for i := range e.points {
		out[i] = e.points[i].opacity
	}
	return out
}

// offsets returns the current offset magnitude of every point.
func (e *Points) offsets() []float64 {
	out := make([]float64, len(e.points))
	for i := range e.points {
		out[i] = math.Hypot(e.points[i].offX, e.points[i].offY)
	}
	return out
}
