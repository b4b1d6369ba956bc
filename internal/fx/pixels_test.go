package fx

import (
	"bytes"
	"image"
	"image/color"
	"math/rand"
	"testing"
)

// redDotRow returns a w-pixel row that is black except for a red pixel at x.
func redDotRow(w, x int) []byte {
	row := make([]byte, w*4)
	for i := 0; i < w; i++ {
		row[i*4+3] = 255
	}
	row[x*4] = 255
	return row
}

func redAt(row []byte) []int {
	var xs []int
	for i := 0; i < len(row)/4; i++ {
		if row[i*4] != 0 {
			xs = append(xs, i)
		}
	}
	return xs
}

func TestSplitChannels_ShiftsRedOnly(t *testing.T) {
	src := redDotRow(10, 2)
	src[5*4+1] = 77 // green marker
	src[6*4+2] = 99 // blue marker
	dst := make([]byte, len(src))
	SplitChannels(dst, src, 3, -1)
	if xs := redAt(dst); len(xs) != 1 || xs[0] != 5 {
		t.Fatalf("red should move from x=2 to x=5, got %v", xs)
	}
	if dst[5*4+1] != 77 {
		t.Fatal("green must not be shifted")
	}
	if dst[5*4+2] != 99 {
		t.Fatalf("blue should move from x=6 to x=5, got %d", dst[5*4+2])
	}
}

func TestSplitChannels_PureFunctionOfCopy(t *testing.T) {
	src := redDotRow(16, 4)
	orig := append([]byte(nil), src...)
	once := make([]byte, len(src))
	SplitChannels(once, src, 5, 2)

	twice := make([]byte, len(src))
	SplitChannels(twice, src, 5, 2)
	SplitChannels(twice, src, 5, 2)
	if !bytes.Equal(once, twice) {
		t.Fatal("re-applying from the same copy must not compound the shift")
	}
	if !bytes.Equal(src, orig) {
		t.Fatal("source row must not be modified")
	}
}

func TestSplitChannels_ClampsAtEdges(t *testing.T) {
	src := redDotRow(4, 0)
	dst := make([]byte, len(src))
	SplitChannels(dst, src, 10, -10)
	// Every sample clamps to x=0 for red.
	if xs := redAt(dst); len(xs) != 4 {
		t.Fatalf("clamped samples should all read x=0, got %v", xs)
	}
	SplitChannels(dst, src, -10, 0)
	if xs := redAt(dst); len(xs) != 0 {
		t.Fatalf("clamped samples should all read the last pixel, got %v", xs)
	}
}

func TestShiftFrame_DoesNotSmear(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 12, 3))
	for y := 0; y < 3; y++ {
		copy(img.Pix[y*img.Stride:], redDotRow(12, 3))
	}
	ShiftFrame(img, 2, nil)
	for y := 0; y < 3; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+12*4]
		if xs := redAt(row); len(xs) != 1 || xs[0] != 5 {
			t.Fatalf("row %d: expected a single red pixel at x=5, got %v", y, xs)
		}
	}
}

func fillRGBA(img *image.RGBA, c color.RGBA) {
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func TestInvert_Twice_IsIdentity(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	fillRGBA(img, color.RGBA{R: 10, G: 100, B: 200, A: 255})
	r := image.Rect(2, 2, 6, 6)
	Invert(img, r, copyRegion(nil, img, r))
	if got := img.RGBAAt(3, 3); got.R != 245 || got.G != 155 || got.B != 55 || got.A != 255 {
		t.Fatalf("unexpected inverted pixel %+v", got)
	}
	if got := img.RGBAAt(0, 0); got.R != 10 {
		t.Fatal("pixels outside the region must not change")
	}
	Invert(img, r, copyRegion(nil, img, r))
	if got := img.RGBAAt(3, 3); got.R != 10 || got.G != 100 || got.B != 200 {
		t.Fatalf("double inversion should restore the pixel, got %+v", got)
	}
}

func TestCrush_QuantisesChannels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	fillRGBA(img, color.RGBA{R: 200, G: 63, B: 64, A: 255})
	r := img.Bounds()
	Crush(img, r, copyRegion(nil, img, r), 4)
	if got := img.RGBAAt(1, 1); got.R != 192 || got.G != 0 || got.B != 64 {
		t.Fatalf("expected (192,0,64), got %+v", got)
	}
}

func TestPixelate_SamplesCellOrigin(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 6, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), A: 255})
		}
	}
	r := image.Rect(1, 1, 5, 5)
	Pixelate(img, r, copyRegion(nil, img, r), 2)
	// (2,2) falls in the cell whose origin is (1,1).
	if got := img.RGBAAt(2, 2); got.R != 10 || got.G != 10 {
		t.Fatalf("expected cell origin colour (10,10), got %+v", got)
	}
	if got := img.RGBAAt(4, 3); got.R != 30 || got.G != 30 {
		t.Fatalf("expected cell origin colour (30,30), got %+v", got)
	}
	if got := img.RGBAAt(5, 5); got.R != 50 || got.G != 50 {
		t.Fatal("pixels outside the region must not change")
	}
}

func TestScanlines_DarkenEveryNthRow(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 4))
	fillRGBA(img, color.RGBA{R: 200, G: 200, B: 200, A: 255})
	Scanlines(img, 2, 0.5)
	if img.RGBAAt(0, 0).R != 100 || img.RGBAAt(0, 2).R != 100 {
		t.Fatal("even rows should be darkened")
	}
	if img.RGBAAt(0, 1).R != 200 || img.RGBAAt(0, 3).R != 200 {
		t.Fatal("odd rows should be untouched")
	}
}

func TestPixels_IdleWithoutPointer(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	e := NewPixels(DefaultPixelsSettings())
	e.Reset(160, 120, rng)
	p := NewPointer(150)
	for i := 0; i < 30; i++ {
		e.Update(p, rng)
	}
	if e.Intensity() != 0 || e.Len() != 0 {
		t.Fatalf("no glitches expected without a pointer: intensity=%.3f active=%d", e.Intensity(), e.Len())
	}
	rec := NewRecorder(160, 120)
	e.Draw(rec)
	if rec.Last == nil || rec.Count(OpPixels) != 1 {
		t.Fatal("frame should be written to the canvas")
	}
	f := e.Frame()
	if f.Bounds() != image.Rect(0, 0, 160, 120) {
		t.Fatalf("frame bounds %v, want 160x120", f.Bounds())
	}
	if rec.Last == f || !bytes.Equal(rec.Last.Pix, f.Pix) {
		t.Fatal("canvas should hold a copy of the frame")
	}
}

func TestPixels_IntensityRisesAndDecays(t *testing.T) {
	rng := rand.New(rand.NewSource(32))
	e := NewPixels(DefaultPixelsSettings())
	e.Reset(200, 150, rng)
	p := NewPointer(150)
	for i := 0; i < 60; i++ {
		p.Move(float64(i*3), 75)
		e.Update(p, rng)
		if e.Intensity() < 0 || e.Intensity() > 1 {
			t.Fatalf("intensity out of range: %.4f", e.Intensity())
		}
	}
	peak := e.Intensity()
	if peak <= 0 {
		t.Fatal("a moving pointer should raise intensity")
	}
	p.Leave()
	prev := peak
	for i := 0; i < 60; i++ {
		e.Update(p, rng)
		if e.Intensity() > prev {
			t.Fatalf("intensity should decay without a pointer: %.4f -> %.4f", prev, e.Intensity())
		}
		prev = e.Intensity()
	}
}

func TestPixels_EdgesDoNotPanic(t *testing.T) {
	s := DefaultPixelsSettings()
	s.LineChance = 1
	s.BlockChance = 1
	s.FrameShiftChance = 1
	s.MaxBlockSize = 400
	rng := rand.New(rand.NewSource(33))
	e := NewPixels(s)
	e.Reset(64, 48, rng)
	p := NewPointer(300)
	corners := [][2]float64{{0, 0}, {63, 47}, {-20, 100}, {200, -50}}
	for i := 0; i < 200; i++ {
		c := corners[i%len(corners)]
		p.Move(c[0], c[1])
		e.Update(p, rng)
	}
	if e.Len() == 0 {
		t.Fatal("expected active glitches at full chance")
	}
	for _, b := range e.blocks {
		if !b.Rect.In(e.frame.Bounds()) && !b.Rect.Empty() {
			t.Fatalf("block %v escapes the frame", b.Rect)
		}
	}
}

func TestPixels_GreenUntouchedByBands(t *testing.T) {
	s := DefaultPixelsSettings()
	s.Blocks = 0
	s.ScanlineEvery = 0
	s.FrameShiftChance = 0
	s.LineChance = 1
	rng := rand.New(rand.NewSource(34))
	e := NewPixels(s)
	e.Reset(80, 60, rng)
	p := NewPointer(150)
	for i := 0; i < 10; i++ {
		p.Move(40+float64(i), 30)
		e.Update(p, rng)
	}
	for i := 1; i < len(e.frame.Pix); i += 4 {
		if e.frame.Pix[i] != e.backdrop.Pix[i] {
			t.Fatalf("green channel changed at byte %d", i)
		}
	}
}
