package game

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// imageCanvas adapts an offscreen *ebiten.Image to fx.Canvas.
type imageCanvas struct {
	img *ebiten.Image
}

func (c *imageCanvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *imageCanvas) Clear() { c.img.Clear() }

func (c *imageCanvas) Fade(alpha float64) {
	w, h := c.Size()
	a := uint8(math.Round(math.Max(0, math.Min(1, alpha)) * 255))
	vector.FillRect(c.img, 0, 0, float32(w), float32(h), color.NRGBA{A: a}, false)
}

func (c *imageCanvas) FillRect(x, y, w, h float32, clr color.NRGBA) {
	vector.FillRect(c.img, x, y, w, h, clr, false)
}

func (c *imageCanvas) FillRotatedRect(cx, cy, w, h, angle float32, clr color.NRGBA) {
	if angle == 0 {
		vector.FillRect(c.img, cx-w/2, cy-h/2, w, h, clr, false)
		return
	}
	sin, cos := math.Sincos(float64(angle))
	s, co := float32(sin), float32(cos)
	hw, hh := w/2, h/2
	corners := [4][2]float32{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}

	var path vector.Path
	for i, p := range corners {
		x := cx + p[0]*co - p[1]*s
		y := cy + p[0]*s + p[1]*co
		if i == 0 {
			path.MoveTo(x, y)
		} else {
			path.LineTo(x, y)
		}
	}
	path.Close()

	opts := &vector.DrawPathOptions{AntiAlias: true}
	opts.ColorScale.ScaleWithColor(clr)
	vector.FillPath(c.img, &path, &vector.FillOptions{}, opts)
}

func (c *imageCanvas) FillCircle(cx, cy, r float32, clr color.NRGBA) {
	vector.FillCircle(c.img, cx, cy, r, clr, true)
}

func (c *imageCanvas) StrokeLine(x0, y0, x1, y1, width float32, clr color.NRGBA) {
	vector.StrokeLine(c.img, x0, y0, x1, y1, width, clr, true)
}

func (c *imageCanvas) WritePixels(img *image.RGBA) {
	// The frame is built for the driver's size; skip it if the surface was
	// swapped underneath.
	if img.Bounds().Size() != c.img.Bounds().Size() {
		return
	}
	c.img.WritePixels(img.Pix)
}
