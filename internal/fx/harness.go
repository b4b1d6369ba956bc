package fx

import (
	"fmt"
	"math"
	"math/rand"
)

// PointerPath scripts the pointer for headless runs: for each frame it
// returns the pointer position and whether the pointer is on the surface.
type PointerPath func(frame int) (x, y float64, present bool)

// AbsentPath keeps the pointer off the surface.
func AbsentPath(int) (float64, float64, bool) { return 0, 0, false }

// FixedPath parks the pointer at (x,y).
func FixedPath(x, y float64) PointerPath {
	return func(int) (float64, float64, bool) { return x, y, true }
}

// CirclePath orbits (cx,cy) at radius r, one turn every period frames.
func CirclePath(cx, cy, r float64, period int) PointerPath {
	period = max(period, 1)
	return func(frame int) (float64, float64, bool) {
		a := 2 * math.Pi * float64(frame%period) / float64(period)
		return cx + math.Cos(a)*r, cy + math.Sin(a)*r, true
	}
}

// SweepPath crosses a w×h surface left to right in period frames, then
// leaves the surface for the same number of frames.
func SweepPath(w, h float64, period int) PointerPath {
	period = max(period, 1)
	return func(frame int) (float64, float64, bool) {
		f := frame % (2 * period)
		if f >= period {
			return 0, 0, false
		}
		t := float64(f) / float64(period)
		return t * w, h/2 + math.Sin(t*4*math.Pi)*h/4, true
	}
}

// Harness runs an effect headlessly against a Recorder canvas. It mirrors
// the windowed host without any Ebitengine dependency and supports
// deterministic seeding and structured logging.
type Harness struct {
	Width    int
	Height   int
	Driver   *Driver
	Canvas   *Recorder
	FrameLog *FrameLog

	effectName string
	settings   Settings
	radius     float64
	path       PointerPath
	rng        *rand.Rand
	wasPresent bool
}

// HarnessOption configures a Harness.
type HarnessOption func(*Harness)

// WithCanvasSize sets the surface dimensions.
func WithCanvasSize(w, h int) HarnessOption {
	return func(hs *Harness) {
		hs.Width = w
		hs.Height = h
	}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) HarnessOption {
	return func(hs *Harness) {
		hs.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}
}

// WithEffect selects the effect by name.
func WithEffect(name string) HarnessOption {
	return func(hs *Harness) { hs.effectName = name }
}

// WithSettings overrides the effect tuning.
func WithSettings(s Settings) HarnessOption {
	return func(hs *Harness) { hs.settings = s }
}

// WithPointerRadius sets the pointer influence radius.
func WithPointerRadius(r float64) HarnessOption {
	return func(hs *Harness) { hs.radius = r }
}

// WithPointerPath scripts the pointer.
func WithPointerPath(p PointerPath) HarnessOption {
	return func(hs *Harness) { hs.path = p }
}

// WithVerbose enables per-frame stats logging.
func WithVerbose(v bool) HarnessOption {
	return func(hs *Harness) { hs.FrameLog = NewFrameLog(v) }
}

// NewHarness builds a harness from options.
func NewHarness(opts ...HarnessOption) (*Harness, error) {
	hs := &Harness{
		Width:      1280,
		Height:     720,
		FrameLog:   NewFrameLog(false),
		effectName: EffectPoints,
		settings:   DefaultSettings(),
		radius:     DefaultPointerRadius,
		path:       AbsentPath,
		rng:        rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
	}
	for _, o := range opts {
		o(hs)
	}
	effect, err := NewEffect(hs.effectName, hs.settings)
	if err != nil {
		return nil, err
	}
	hs.Canvas = NewRecorder(hs.Width, hs.Height)
	hs.Driver = NewDriver(effect, NewPointer(hs.radius), hs.rng, hs.Width, hs.Height)
	hs.FrameLog.Add(0, effect.Name(), "surface", "init",
		fmt.Sprintf("%dx%d entities=%d", hs.Width, hs.Height, effect.Len()), float64(effect.Len()))
	return hs, nil
}

// Resize changes the surface size; it takes effect on the next frame.
func (hs *Harness) Resize(w, h int) {
	hs.Width, hs.Height = w, h
	hs.Canvas.W, hs.Canvas.H = w, h
	hs.Driver.Resize(w, h)
	hs.FrameLog.Add(hs.Driver.Frame(), hs.effectName, "surface", "resize", fmt.Sprintf("%dx%d", w, h), 0)
}

// Step advances one frame.
func (hs *Harness) Step() {
	frame := hs.Driver.Frame()
	p := hs.Driver.Pointer()
	x, y, present := hs.path(frame)
	if present {
		p.Move(x, y)
	} else {
		p.Leave()
	}
	if present != hs.wasPresent {
		key := "leave"
		if present {
			key = "enter"
		}
		hs.FrameLog.Add(frame, hs.effectName, "pointer", key, fmt.Sprintf("(%.0f,%.0f)", x, y), 0)
		hs.wasPresent = present
	}

	hs.Canvas.Reset()
	hs.Driver.Step(hs.Canvas)

	st := hs.Stats()
	if st.NaN > 0 || st.OutOfRange > 0 {
		hs.FrameLog.Add(frame, hs.effectName, "invariant", "opacity_range",
			fmt.Sprintf("nan=%d out_of_range=%d", st.NaN, st.OutOfRange), float64(st.NaN+st.OutOfRange))
	}
	hs.FrameLog.AddVerbose(frame, hs.effectName, "stats", "visible", fmt.Sprintf("%d", st.Visible), float64(st.Visible))
}

// RunFrames advances n frames.
func (hs *Harness) RunFrames(n int) {
	for i := 0; i < n; i++ {
		hs.Step()
	}
}

// FrameStats summarises the entity opacities after a frame.
type FrameStats struct {
	Entities    int
	Visible     int // opacity above the draw threshold
	MaxOpacity  float64
	MeanOpacity float64
	NaN         int
	OutOfRange  int
	DrawCalls   int
}

// Stats computes FrameStats for the current state.
func (hs *Harness) Stats() FrameStats {
	ops := hs.Driver.Effect().Opacities()
	st := FrameStats{Entities: hs.Driver.Effect().Len(), DrawCalls: len(hs.Canvas.Ops)}
	sum := 0.0
	for _, o := range ops {
		switch {
		case math.IsNaN(o):
			st.NaN++
			continue
		case o < 0 || o > 1:
			st.OutOfRange++
		}
		if o > drawEpsilon {
			st.Visible++
		}
		st.MaxOpacity = math.Max(st.MaxOpacity, o)
		sum += o
	}
	if len(ops) > 0 {
		st.MeanOpacity = sum / float64(len(ops))
	}
	return st
}
