package fx

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// NetworkSettings tunes the node graph.
type NetworkSettings struct {
	Density      float64 `yaml:"density"`       // surface pixels per node
	NodeSize     float64 `yaml:"node_size"`     // node radius
	LinkDistance float64 `yaml:"link_distance"` // max distance at which nodes connect
	LineWidth    float64 `yaml:"line_width"`
	Drift        float64 `yaml:"drift"`     // jitter amplitude in pixels
	TimeStep     float64 `yaml:"time_step"` // counter advance per frame
	Attract      float64 `yaml:"attract"`   // pull towards the pointer at force 1
	Ease         float64 `yaml:"ease"`      // opacity smoothing factor
	RestOpacity  float64 `yaml:"rest_opacity"`
	MaxOpacity   float64 `yaml:"max_opacity"`
	Boost        float64 `yaml:"boost"` // link alpha gain when the pointer is near the midpoint
	BaseColor    string  `yaml:"base_color"`
	AccentColor  string  `yaml:"accent_color"`
}

// DefaultNetworkSettings returns the stock node graph tuning.
func DefaultNetworkSettings() NetworkSettings {
	return NetworkSettings{
		Density:      12000,
		NodeSize:     2,
		LinkDistance: 120,
		LineWidth:    1,
		Drift:        6,
		TimeStep:     0.02,
		Attract:      12,
		Ease:         0.08,
		RestOpacity:  0.2,
		MaxOpacity:   1,
		Boost:        1,
		BaseColor:    "#3ad6ff",
		AccentColor:  "#ff2bd6",
	}
}

type node struct {
	id            int
	baseX, baseY  float64
	x, y          float64
	phase         float64
	opacity       float64
	targetOpacity float64
	heat          float64 // eased pointer force, drives the colour blend
	look          Appearance
}

// Link is one drawn connection between nodes A and B (by id, A < B).
type Link struct {
	A, B  int
	Alpha float64
}

// Network is a drifting node graph whose links brighten around the pointer.
type Network struct {
	cfg    NetworkSettings
	base   colorful.Color
	accent colorful.Color
	nodes  []node
	links  []Link
	time   float64
	nextID int
}

// NewNetwork creates an empty node graph.
func NewNetwork(cfg NetworkSettings) *Network {
	base, err := colorful.Hex(cfg.BaseColor)
	if err != nil {
		base = white
	}
	accent, err := colorful.Hex(cfg.AccentColor)
	if err != nil {
		accent = white
	}
	return &Network{cfg: cfg, base: base, accent: accent}
}

func (e *Network) Name() string   { return EffectNetwork }
func (e *Network) Len() int       { return len(e.nodes) }
func (e *Network) Trail() float64 { return 0 }

// Links returns the connections computed on the last Update.
func (e *Network) Links() []Link { return e.links }

func (e *Network) Reset(w, h int, rng *rand.Rand) {
	s := e.cfg
	e.time = 0
	e.links = e.links[:0]
	n := ParticleCount(w, h, s.Density)
	e.nodes = make([]node, n)
	for i := range e.nodes {
		x := rng.Float64() * float64(w)
		y := rng.Float64() * float64(h)
		e.nodes[i] = node{
			id:      e.nextID,
			baseX:   x,
			baseY:   y,
			x:       x,
			y:       y,
			phase:   rng.Float64() * 2 * math.Pi,
			opacity: s.RestOpacity,
		}
		e.nextID++
	}
}

func (e *Network) Update(p *Pointer, _ *rand.Rand) {
	s := e.cfg
	e.time += s.TimeStep
	for i := range e.nodes {
		n := &e.nodes[i]
		t := e.time + n.phase
		x := n.baseX + math.Sin(t)*s.Drift
		y := n.baseY + math.Cos(t*0.8)*s.Drift

		n.targetOpacity = s.RestOpacity
		force := 0.0
		pr := p.Proximity(n.baseX, n.baseY)
		if pr.Near {
			force = pr.Force
			n.targetOpacity = Clamp(s.RestOpacity+force*(s.MaxOpacity-s.RestOpacity), 0, s.MaxOpacity)
			nx, ny := pr.Direction()
			x -= nx * force * s.Attract
			y -= ny * force * s.Attract
		}
		n.x = x
		n.y = y
		n.opacity = Approach(n.opacity, n.targetOpacity, s.Ease)
		n.heat = Approach(n.heat, force, s.Ease)
		n.look = look(e.base.BlendHcl(e.accent, n.heat), n.opacity, AppearanceSolid)
	}
	e.links = connect(e.links[:0], e.nodes, p, s)
}

// connect appends every link between node pairs closer than the link
// distance. A pair is only considered when id(a) < id(b).
func connect(dst []Link, nodes []node, p *Pointer, s NetworkSettings) []Link {
	if s.LinkDistance <= 0 {
		return dst
	}
	for i := range nodes {
		a := &nodes[i]
		for j := range nodes {
			b := &nodes[j]
			if a.id >= b.id {
				continue
			}
			dx := a.x - b.x
			dy := a.y - b.y
			d := math.Sqrt(dx*dx + dy*dy)
			if d >= s.LinkDistance {
				continue
			}
			alpha := (1 - d/s.LinkDistance) * a.opacity * b.opacity
			mid := p.Proximity((a.x+b.x)/2, (a.y+b.y)/2)
			if mid.Near {
				alpha *= 1 + mid.Force*s.Boost
			}
			alpha = Clamp01(alpha)
			if alpha <= drawEpsilon {
				continue
			}
			dst = append(dst, Link{A: a.id, B: b.id, Alpha: alpha})
		}
	}
	return dst
}

func (e *Network) Draw(c Canvas) {
	if len(e.links) > 0 {
		// Ids are contiguous within one population.
		first := e.nodes[0].id
		for _, l := range e.links {
			a, b := &e.nodes[l.A-first], &e.nodes[l.B-first]
			col := nrgba(e.base.BlendHcl(e.accent, math.Max(a.heat, b.heat)), l.Alpha)
			c.StrokeLine(float32(a.x), float32(a.y), float32(b.x), float32(b.y), float32(e.cfg.LineWidth), col)
		}
	}
	for i := range e.nodes {
		n := &e.nodes[i]
		if !n.look.Visible() {
			continue
		}
		c.FillCircle(float32(n.x), float32(n.y), float32(e.cfg.NodeSize), n.look.Fill)
	}
}

func (e *Network) Opacities() []float64 {
	out := make([]float64, len(e.nodes))
	for i := range e.nodes {
		out[i] = e.nodes[i].opacity
	}
	return out
}
