package fx

import (
	"image"
	"math"
	"math/rand"
)

// PixelsSettings tunes the raw pixel glitch.
type PixelsSettings struct {
	Lines            int     `yaml:"lines"`              // glitch band slots
	Blocks           int     `yaml:"blocks"`             // corruption block slots
	MinLineHeight    int     `yaml:"min_line_height"`    //
	MaxLineHeight    int     `yaml:"max_line_height"`    //
	MinBlockSize     int     `yaml:"min_block_size"`     //
	MaxBlockSize     int     `yaml:"max_block_size"`     //
	MaxShift         int     `yaml:"max_shift"`          // channel split at intensity 1, in pixels
	MaxLife          int     `yaml:"max_life"`           // frames a band or block stays active
	LineChance       float64 `yaml:"line_chance"`        // activation chance per slot at intensity 1
	BlockChance      float64 `yaml:"block_chance"`       //
	Decay            float64 `yaml:"decay"`              // intensity multiplier per frame
	PresenceGain     float64 `yaml:"presence_gain"`      // intensity added per frame while the pointer is present
	VelocityGain     float64 `yaml:"velocity_gain"`      // intensity added per pixel of pointer motion
	CrushLevels      int     `yaml:"crush_levels"`       // colour levels per channel in crush blocks
	PixelCell        int     `yaml:"pixel_cell"`         // block size for pixelation
	ScanlineEvery    int     `yaml:"scanline_every"`     // darken every nth row
	ScanlineDarken   float64 `yaml:"scanline_darken"`    // brightness multiplier on scanlines
	FrameShiftChance float64 `yaml:"frame_shift_chance"` // chance of a full-frame red shift at intensity 1
	GridSpacing      int     `yaml:"grid_spacing"`       // backdrop grid pitch
}

// DefaultPixelsSettings returns the stock pixel glitch tuning.
func DefaultPixelsSettings() PixelsSettings {
	return PixelsSettings{
		Lines:            24,
		Blocks:           10,
		MinLineHeight:    2,
		MaxLineHeight:    18,
		MinBlockSize:     20,
		MaxBlockSize:     120,
		MaxShift:         30,
		MaxLife:          12,
		LineChance:       0.3,
		BlockChance:      0.15,
		Decay:            0.95,
		PresenceGain:     0.04,
		VelocityGain:     0.004,
		CrushLevels:      4,
		PixelCell:        8,
		ScanlineEvery:    2,
		ScanlineDarken:   0.75,
		FrameShiftChance: 0.05,
		GridSpacing:      40,
	}
}

// BlockMode is the per-pixel transform of a corruption block, fixed when the
// block activates.
type BlockMode uint8

const (
	BlockInvert BlockMode = iota
	BlockCrush
	BlockPixelate
	blockModeCount
)

var blockModeNames = [...]string{"invert", "crush", "pixelate"}

func (m BlockMode) String() string {
	if int(m) < len(blockModeNames) {
		return blockModeNames[m]
	}
	return "unknown"
}

// GlitchLine is a horizontal band whose red and blue channels are displaced
// by independent per-row offsets.
type GlitchLine struct {
	Y, Height int
	Life      int
	RedShift  []int // one entry per row of the band
	BlueShift []int
}

// Active reports whether the band is applied this frame.
func (l *GlitchLine) Active() bool { return l.Life > 0 }

// CorruptionBlock is a rectangular region transformed by Mode.
type CorruptionBlock struct {
	Rect image.Rectangle
	Mode BlockMode
	Life int
}

// Active reports whether the block is applied this frame.
func (b *CorruptionBlock) Active() bool { return b.Life > 0 }

// Pixels renders a backdrop into a raw RGBA buffer each frame and corrupts
// it with channel splits, block transforms, scanlines and frame shifts.
type Pixels struct {
	cfg       PixelsSettings
	backdrop  *image.RGBA
	frame     *image.RGBA
	lines     []GlitchLine
	blocks    []CorruptionBlock
	intensity float64
	scratch   []byte
	frameHit  bool // full-frame shift applied on the last Update
}

// NewPixels creates an empty pixel glitch.
func NewPixels(cfg PixelsSettings) *Pixels {
	return &Pixels{cfg: cfg}
}

func (e *Pixels) Name() string   { return EffectPixels }
func (e *Pixels) Trail() float64 { return 0 }

// Intensity returns the current glitch intensity in [0,1].
func (e *Pixels) Intensity() float64 { return e.intensity }

// Frame returns the buffer produced by the last Update.
func (e *Pixels) Frame() *image.RGBA { return e.frame }

// Len counts active bands and blocks.
func (e *Pixels) Len() int {
	n := 0
	for i := range e.lines {
		if e.lines[i].Active() {
			n++
		}
	}
	for i := range e.blocks {
		if e.blocks[i].Active() {
			n++
		}
	}
	return n
}

// Opacities reports each slot's remaining life as a fraction, followed by the
// glitch intensity.
func (e *Pixels) Opacities() []float64 {
	maxLife := float64(max(e.cfg.MaxLife, 1))
	out := make([]float64, 0, len(e.lines)+len(e.blocks)+1)
	for i := range e.lines {
		out = append(out, Clamp01(float64(e.lines[i].Life)/maxLife))
	}
	for i := range e.blocks {
		out = append(out, Clamp01(float64(e.blocks[i].Life)/maxLife))
	}
	return append(out, e.intensity)
}

func (e *Pixels) Reset(w, h int, _ *rand.Rand) {
	w, h = max(w, 1), max(h, 1)
	e.backdrop = image.NewRGBA(image.Rect(0, 0, w, h))
	e.frame = image.NewRGBA(image.Rect(0, 0, w, h))
	paintBackdrop(e.backdrop, e.cfg.GridSpacing)
	e.lines = make([]GlitchLine, max(e.cfg.Lines, 0))
	e.blocks = make([]CorruptionBlock, max(e.cfg.Blocks, 0))
	e.intensity = 0
	e.frameHit = false
}

// paintBackdrop draws a dark vertical gradient with a faint grid.
func paintBackdrop(img *image.RGBA, spacing int) {
	b := img.Bounds()
	h := max(b.Dy(), 1)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		t := float64(y-b.Min.Y) / float64(h)
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			r := uint8(10 + 30*t)
			g := uint8(14 + 10*t)
			bl := uint8(30 + 60*(1-t))
			if spacing > 0 && ((x-b.Min.X)%spacing == 0 || (y-b.Min.Y)%spacing == 0) {
				r, g, bl = 40, 200, 180
			}
			i := (x - b.Min.X) * 4
			row[i], row[i+1], row[i+2], row[i+3] = r, g, bl, 255
		}
	}
}

func (e *Pixels) Update(p *Pointer, rng *rand.Rand) {
	if e.frame == nil {
		return
	}
	s := e.cfg
	e.intensity *= s.Decay
	if p != nil && p.Present {
		e.intensity += s.PresenceGain + p.Velocity*s.VelocityGain
	}
	e.intensity = Clamp01(e.intensity)

	e.activate(p, rng)

	copy(e.frame.Pix, e.backdrop.Pix)
	for i := range e.lines {
		l := &e.lines[i]
		if !l.Active() {
			continue
		}
		e.applyLine(l)
		l.Life--
	}
	for i := range e.blocks {
		b := &e.blocks[i]
		if !b.Active() {
			continue
		}
		e.applyBlock(b)
		b.Life--
	}
	if s.ScanlineEvery > 0 {
		Scanlines(e.frame, s.ScanlineEvery, s.ScanlineDarken)
	}
	e.frameHit = rng.Float64() < s.FrameShiftChance*e.intensity
	if e.frameHit {
		shift := 1 + int(float64(s.MaxShift)*e.intensity*0.3)
		e.scratch = ShiftFrame(e.frame, shift, e.scratch)
	}
}

// activate arms idle bands and blocks; the odds scale with intensity.
func (e *Pixels) activate(p *Pointer, rng *rand.Rand) {
	s := e.cfg
	b := e.frame.Bounds()
	w, h := b.Dx(), b.Dy()
	if e.intensity <= 0 {
		return
	}
	for i := range e.lines {
		l := &e.lines[i]
		if l.Active() || rng.Float64() >= s.LineChance*e.intensity {
			continue
		}
		height := s.MinLineHeight + rng.Intn(max(s.MaxLineHeight-s.MinLineHeight, 0)+1)
		height = clampInt(height, 1, h)
		y := rng.Intn(h)
		if p != nil && p.Present {
			// Bands cluster around the pointer row.
			y = int(p.Y + (rng.Float64()*2-1)*p.Radius)
		}
		l.Y = clampInt(y, 0, h-height)
		l.Height = height
		l.Life = 1 + rng.Intn(max(s.MaxLife, 1))
		l.RedShift = resizeInts(l.RedShift, height)
		l.BlueShift = resizeInts(l.BlueShift, height)
		amp := float64(s.MaxShift) * e.intensity
		for r := 0; r < height; r++ {
			l.RedShift[r] = int(math.Round((rng.Float64()*2 - 1) * amp))
			l.BlueShift[r] = int(math.Round((rng.Float64()*2 - 1) * amp))
		}
	}
	for i := range e.blocks {
		bl := &e.blocks[i]
		if bl.Active() || rng.Float64() >= s.BlockChance*e.intensity {
			continue
		}
		span := max(s.MaxBlockSize-s.MinBlockSize, 0) + 1
		bw := s.MinBlockSize + rng.Intn(span)
		bh := s.MinBlockSize + rng.Intn(span)
		x := rng.Intn(max(w, 1))
		y := rng.Intn(max(h, 1))
		if p != nil && p.Present {
			x = int(p.X+(rng.Float64()*2-1)*p.Radius) - bw/2
			y = int(p.Y+(rng.Float64()*2-1)*p.Radius) - bh/2
		}
		bl.Rect = image.Rect(x, y, x+bw, y+bh).Intersect(b)
		bl.Mode = BlockMode(rng.Intn(int(blockModeCount)))
		bl.Life = 1 + rng.Intn(max(s.MaxLife, 1))
	}
}

func resizeInts(s []int, n int) []int {
	if cap(s) < n {
		return make([]int, n)
	}
	return s[:n]
}

func (e *Pixels) applyLine(l *GlitchLine) {
	stride := e.frame.Stride
	w := e.frame.Bounds().Dx()
	for r := 0; r < l.Height; r++ {
		y := l.Y + r
		if y < 0 || y >= e.frame.Bounds().Dy() {
			continue
		}
		row := e.frame.Pix[y*stride : y*stride+w*4]
		e.scratch = append(e.scratch[:0], row...)
		SplitChannels(row, e.scratch, l.RedShift[r], l.BlueShift[r])
	}
}

func (e *Pixels) applyBlock(b *CorruptionBlock) {
	if b.Rect.Empty() {
		return
	}
	e.scratch = copyRegion(e.scratch, e.frame, b.Rect)
	switch b.Mode {
	case BlockInvert:
		Invert(e.frame, b.Rect, e.scratch)
	case BlockCrush:
		Crush(e.frame, b.Rect, e.scratch, e.cfg.CrushLevels)
	case BlockPixelate:
		Pixelate(e.frame, b.Rect, e.scratch, e.cfg.PixelCell)
	}
}

func (e *Pixels) Draw(c Canvas) {
	if e.frame == nil {
		return
	}
	c.WritePixels(e.frame)
}

// SplitChannels writes into dst a copy of the src row with its red channel
// sampled redShift pixels to the left and its blue channel blueShift pixels
// to the left. Green and alpha are copied unchanged. Sample indices are
// clamped to the row. dst and src must be distinct buffers of equal length.
func SplitChannels(dst, src []byte, redShift, blueShift int) {
	w := len(src) / 4
	if w == 0 {
		return
	}
	for x := 0; x < w; x++ {
		i := x * 4
		ri := clampInt(x-redShift, 0, w-1) * 4
		bi := clampInt(x-blueShift, 0, w-1) * 4
		dst[i] = src[ri]
		dst[i+1] = src[i+1]
		dst[i+2] = src[bi+2]
		dst[i+3] = src[i+3]
	}
}

// copyRegion copies the pixels of r (tightly packed, row-major) into dst.
func copyRegion(dst []byte, img *image.RGBA, r image.Rectangle) []byte {
	dst = dst[:0]
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := img.PixOffset(r.Min.X, y)
		dst = append(dst, img.Pix[off:off+r.Dx()*4]...)
	}
	return dst
}

// Invert writes the colour inverse of src (a copy of r) into img.
func Invert(img *image.RGBA, r image.Rectangle, src []byte) {
	rw := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, y):]
		s := src[(y-r.Min.Y)*rw:]
		for i := 0; i < rw; i += 4 {
			row[i] = 255 - s[i]
			row[i+1] = 255 - s[i+1]
			row[i+2] = 255 - s[i+2]
		}
	}
}

// Crush quantises each channel of src (a copy of r) to the given number of
// levels and writes the result into img.
func Crush(img *image.RGBA, r image.Rectangle, src []byte, levels int) {
	levels = clampInt(levels, 2, 256)
	step := 256 / levels
	rw := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, y):]
		s := src[(y-r.Min.Y)*rw:]
		for i := 0; i < rw; i += 4 {
			row[i] = uint8(int(s[i]) / step * step)
			row[i+1] = uint8(int(s[i+1]) / step * step)
			row[i+2] = uint8(int(s[i+2]) / step * step)
		}
	}
}

// Pixelate replaces every pixel of r with the top-left pixel of its cell,
// sampled from src (a copy of r).
func Pixelate(img *image.RGBA, r image.Rectangle, src []byte, cell int) {
	cell = max(cell, 1)
	w := r.Dx()
	rw := w * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, y):]
		sy := (y - r.Min.Y) / cell * cell
		for x := 0; x < w; x++ {
			sx := x / cell * cell
			si := sy*rw + sx*4
			i := x * 4
			copy(row[i:i+4], src[si:si+4])
		}
	}
}

// Scanlines darkens every nth row of img by factor.
func Scanlines(img *image.RGBA, every int, factor float64) {
	if every <= 0 {
		return
	}
	factor = Clamp01(factor)
	b := img.Bounds()
	w := b.Dx() * 4
	for y := 0; y < b.Dy(); y += every {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for i := 0; i < w; i += 4 {
			row[i] = uint8(float64(row[i]) * factor)
			row[i+1] = uint8(float64(row[i+1]) * factor)
			row[i+2] = uint8(float64(row[i+2]) * factor)
		}
	}
}

// ShiftFrame shifts the red channel of every row of img by shift pixels,
// using scratch as the per-row copy. It returns the (possibly grown) scratch.
func ShiftFrame(img *image.RGBA, shift int, scratch []byte) []byte {
	b := img.Bounds()
	w := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		scratch = append(scratch[:0], row...)
		SplitChannels(row, scratch, shift, 0)
	}
	return scratch
}
