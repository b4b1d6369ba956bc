package fx

import (
	"image"
	"image/color"
)

// Canvas is the drawing surface an effect renders into.
type Canvas interface {
	Size() (w, h int)
	Clear()
	// Fade darkens the whole surface by drawing black at the given alpha,
	// leaving trails of the previous frame.
	Fade(alpha float64)
	FillRect(x, y, w, h float32, c color.NRGBA)
	// FillRotatedRect fills a w×h rectangle centred on (cx,cy), rotated by angle radians.
	FillRotatedRect(cx, cy, w, h, angle float32, c color.NRGBA)
	FillCircle(cx, cy, r float32, c color.NRGBA)
	StrokeLine(x0, y0, x1, y1, width float32, c color.NRGBA)
	// WritePixels replaces the surface with the contents of img.
	WritePixels(img *image.RGBA)
}

// OpKind identifies a recorded canvas call.
type OpKind uint8

const (
	OpClear OpKind = iota
	OpFade
	OpRect
	OpRotatedRect
	OpCircle
	OpLine
	OpPixels
)

// Op is one recorded canvas call.
type Op struct {
	Kind  OpKind
	X, Y  float32
	X1    float32 // line end, or width for rects
	Y1    float32 // line end, or height for rects
	Color color.NRGBA
}

// Recorder is a Canvas that records calls instead of drawing. It backs the
// headless harness and tests.
type Recorder struct {
	W, H int
	Ops  []Op
	// Last holds a copy of the last pixel buffer written.
	Last *image.RGBA
}

// NewRecorder creates a recorder with the given surface size.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Size() (int, int) { return r.W, r.H }

// Reset drops recorded ops.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

// Count returns how many ops of the given kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func (r *Recorder) Clear() { r.Ops = append(r.Ops, Op{Kind: OpClear}) }

func (r *Recorder) Fade(alpha float64) {
	r.Ops = append(r.Ops, Op{Kind: OpFade, Color: color.NRGBA{A: uint8(Clamp01(alpha) * 255)}})
}

func (r *Recorder) FillRect(x, y, w, h float32, c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpRect, X: x, Y: y, X1: w, Y1: h, Color: c})
}

func (r *Recorder) FillRotatedRect(cx, cy, w, h, _ float32, c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpRotatedRect, X: cx, Y: cy, X1: w, Y1: h, Color: c})
}

func (r *Recorder) FillCircle(cx, cy, rad float32, c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpCircle, X: cx, Y: cy, X1: rad, Color: c})
}

func (r *Recorder) StrokeLine(x0, y0, x1, y1, _ float32, c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, X: x0, Y: y0, X1: x1, Y1: y1, Color: c})
}

func (r *Recorder) WritePixels(img *image.RGBA) {
	if r.Last == nil || r.Last.Bounds() != img.Bounds() {
		r.Last = image.NewRGBA(img.Bounds())
	}
	copy(r.Last.Pix, img.Pix)
	r.Ops = append(r.Ops, Op{Kind: OpPixels})
}
