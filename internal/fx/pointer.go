package fx

import "math"

// DefaultPointerRadius is the influence radius used when none is configured.
const DefaultPointerRadius = 150

// Pointer is the last-known pointer state shared by every entity of an effect.
// It is written by the host between frames and only read during Step.
type Pointer struct {
	X        float64
	Y        float64
	Radius   float64 // influence radius in pixels
	Velocity float64 // displacement since the previous sample, in pixels
	Present  bool    // false once the pointer has left the surface
}

// NewPointer creates an absent pointer with the given influence radius.
func NewPointer(radius float64) *Pointer {
	if radius <= 0 {
		radius = DefaultPointerRadius
	}
	return &Pointer{Radius: radius}
}

// Move records a new pointer sample.
func (p *Pointer) Move(x, y float64) {
	if p.Present {
		p.Velocity = math.Hypot(x-p.X, y-p.Y)
	} else {
		p.Velocity = 0
	}
	p.X = x
	p.Y = y
	p.Present = true
}

// Leave marks the pointer absent.
func (p *Pointer) Leave() {
	p.Present = false
	p.Velocity = 0
}

// Proximity describes how strongly the pointer influences a point.
type Proximity struct {
	Force float64 // 1 - dist/radius, in (0,1] when Near
	DX    float64 // point minus pointer
	DY    float64
	Dist  float64
	Near  bool
}

// Direction returns the unit vector from the pointer towards the point.
// A point exactly under the pointer has no defined direction and yields (0,0).
func (pr Proximity) Direction() (float64, float64) {
	if pr.Dist == 0 {
		return 0, 0
	}
	return pr.DX / pr.Dist, pr.DY / pr.Dist
}

// Proximity measures the pointer's influence on (x,y).
func (p *Pointer) Proximity(x, y float64) Proximity {
	if p == nil || !p.Present {
		return Proximity{}
	}
	dx := x - p.X
	dy := y - p.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	pr := Proximity{DX: dx, DY: dy, Dist: dist}
	if dist < p.Radius {
		pr.Force = 1 - dist/p.Radius
		pr.Near = true
	}
	return pr
}
