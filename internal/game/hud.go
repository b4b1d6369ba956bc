package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const (
	hudPad     = 6
	hudLineH   = 16
	hudOriginX = 8
	hudOriginY = 8
)

type hud struct {
	face text.Face
}

func newHUD() *hud {
	return &hud{face: text.NewGoXFace(basicfont.Face7x13)}
}

// draw renders lines in a translucent box at the top-left corner.
func (h *hud) draw(screen *ebiten.Image, lines []string) {
	if len(lines) == 0 {
		return
	}
	maxW := 0.0
	for _, l := range lines {
		w, _ := text.Measure(l, h.face, hudLineH)
		if w > maxW {
			maxW = w
		}
	}
	boxW := float32(maxW) + 2*hudPad
	boxH := float32(len(lines)*hudLineH) + 2*hudPad
	vector.FillRect(screen, hudOriginX, hudOriginY, boxW, boxH, color.RGBA{A: 170}, false)

	for i, l := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(hudOriginX+hudPad, float64(hudOriginY+hudPad+i*hudLineH))
		if i == 0 {
			op.ColorScale.ScaleWithColor(color.RGBA{R: 120, G: 240, B: 230, A: 255})
		} else {
			op.ColorScale.ScaleWithColor(color.RGBA{R: 180, G: 180, B: 180, A: 255})
		}
		text.Draw(screen, l, h.face, op)
	}
}
