// Package game hosts the glitch effects in an Ebitengine window.
package game

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"slices"
	"time"

	"github.com/Garsondee/Glitch-Field/internal/config"
	"github.com/Garsondee/Glitch-Field/internal/fx"
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

// Options configures a Game.
type Options struct {
	Config     config.Config
	ConfigPath string // file to hot-reload; empty disables watching
	Watch      bool
	Seed       int64 // 0 seeds from the clock
	Logger     *log.Logger
}

// Game implements ebiten.Game. Every frame it samples the pointer, steps
// the driver into an offscreen surface and blits that surface to the screen.
type Game struct {
	cfg     config.Config
	cfgPath string
	logger  *log.Logger

	width  int
	height int

	pointer *fx.Pointer
	driver  *fx.Driver
	effect  int // index into fx.Names()

	// Offscreen surface the effects draw into; it persists between frames
	// so fading effects leave trails.
	surface *ebiten.Image
	canvas  *imageCanvas

	events   *EventLog
	hud      *hud
	showHUD  bool
	showLog  bool
	paused   bool
	quit     bool
	tick     int
	prevKeys map[ebiten.Key]bool

	watcher *config.Watcher
}

// New builds a Game from opts.
func New(opts Options) (*Game, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- visual only

	idx := slices.Index(fx.Names(), cfg.Effect)
	effect, err := fx.NewEffect(cfg.Effect, cfg.Effects)
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:      cfg,
		cfgPath:  opts.ConfigPath,
		logger:   logger,
		width:    cfg.Window.Width,
		height:   cfg.Window.Height,
		pointer:  fx.NewPointer(cfg.Pointer.Radius),
		effect:   idx,
		events:   NewEventLog(),
		hud:      newHUD(),
		showHUD:  true,
		prevKeys: make(map[ebiten.Key]bool),
	}
	g.driver = fx.NewDriver(effect, g.pointer, rng, g.width, g.height)
	g.events.Add(0, cfg.Effect, EventSurface, fmt.Sprintf("init %dx%d n=%d", g.width, g.height, effect.Len()))

	if opts.Watch && opts.ConfigPath != "" {
		w, err := config.NewWatcher(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", opts.ConfigPath, err)
		}
		g.watcher = w
		logger.Info("watching config", "path", opts.ConfigPath)
	}
	return g, nil
}

// Close releases the config watcher.
func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) effectName() string { return g.driver.Effect().Name() }

func (g *Game) Update() error {
	g.handleInput()
	if g.quit {
		return ebiten.Termination
	}
	g.pollWatcher()
	g.samplePointer()
	g.ensureSurface()
	if !g.paused {
		g.driver.Step(g.canvas)
	}
	g.tick++
	return nil
}

// ensureSurface (re)allocates the offscreen surface to the current size.
func (g *Game) ensureSurface() {
	if g.surface != nil {
		b := g.surface.Bounds()
		if b.Dx() == g.width && b.Dy() == g.height {
			return
		}
		g.surface.Deallocate()
	}
	g.surface = ebiten.NewImage(g.width, g.height)
	g.canvas = &imageCanvas{img: g.surface}
}

// samplePointer copies the cursor into the shared pointer. The pointer is
// absent while the window is unfocused or the cursor is outside the surface.
func (g *Game) samplePointer() {
	x, y := ebiten.CursorPosition()
	if ebiten.IsFocused() && insideSurface(x, y, g.width, g.height) {
		if !g.pointer.Present {
			g.events.Add(g.tick, g.effectName(), EventPointer, fmt.Sprintf("enter (%d,%d)", x, y))
		}
		g.pointer.Move(float64(x), float64(y))
		return
	}
	if g.pointer.Present {
		g.pointer.Leave()
		g.events.Add(g.tick, g.effectName(), EventPointer, "leave")
	}
}

func insideSurface(x, y, w, h int) bool {
	return x >= 0 && y >= 0 && x < w && y < h
}

// cycleIndex steps i by delta through n entries, wrapping at both ends.
func cycleIndex(i, delta, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i+delta)%n + n) % n
}

// selectEffect switches to the effect at index i.
func (g *Game) selectEffect(i int) {
	names := fx.Names()
	if i < 0 || i >= len(names) || (i == g.effect && g.driver.Effect().Name() == names[i]) {
		return
	}
	e, err := fx.NewEffect(names[i], g.cfg.Effects)
	if err != nil {
		g.logger.Error("select effect", "effect", names[i], "err", err)
		return
	}
	g.effect = i
	g.driver.SetEffect(e)
	g.logger.Info("effect selected", "effect", e.Name(), "entities", e.Len())
	g.events.Add(g.tick, e.Name(), EventInfo, fmt.Sprintf("effect %s n=%d", e.Name(), e.Len()))
}

// applyConfig swaps in a reloaded config and rebuilds the active effect.
func (g *Game) applyConfig(cfg config.Config) {
	g.cfg = cfg
	g.pointer.Radius = cfg.Pointer.Radius
	name := g.effectName()
	e, err := fx.NewEffect(name, cfg.Effects)
	if err != nil {
		g.logger.Error("rebuild effect", "effect", name, "err", err)
		return
	}
	g.driver.SetEffect(e)
	g.events.Add(g.tick, name, EventConfig, "config reloaded")
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if filepath.Clean(path) != filepath.Clean(g.cfgPath) {
				continue
			}
			cfg, err := config.LoadFile(g.cfgPath)
			if err != nil {
				g.logger.Warn("config reload failed", "path", g.cfgPath, "err", err)
				g.events.Add(g.tick, g.effectName(), EventError, "reload failed")
				continue
			}
			g.logger.Info("config reloaded", "path", g.cfgPath)
			g.applyConfig(cfg)
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.logger.Warn("config watcher", "err", err)
			}
		default:
			return
		}
	}
}

// pressed reports a key's rising edge and records its state for the next frame.
func (g *Game) pressed(k ebiten.Key, current map[ebiten.Key]bool) bool {
	current[k] = ebiten.IsKeyPressed(k)
	return current[k] && !g.prevKeys[k]
}

func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}

	// Effect selection: 1-5.
	effectKeys := []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5}
	for i, k := range effectKeys {
		if g.pressed(k, currentKeys) {
			g.selectEffect(i)
		}
	}

	// Tab: next effect, with shift the previous one.
	if g.pressed(ebiten.KeyTab, currentKeys) {
		delta := 1
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			delta = -1
		}
		g.selectEffect(cycleIndex(g.effect, delta, len(fx.Names())))
	}

	// H: toggle HUD. L: toggle event log.
	if g.pressed(ebiten.KeyH, currentKeys) {
		g.showHUD = !g.showHUD
	}
	if g.pressed(ebiten.KeyL, currentKeys) {
		g.showLog = !g.showLog
	}

	// P: pause / resume.
	if g.pressed(ebiten.KeyP, currentKeys) {
		g.paused = !g.paused
	}

	// R: rebuild the population in place.
	if g.pressed(ebiten.KeyR, currentKeys) {
		g.driver.Rebuild()
		g.events.Add(g.tick, g.effectName(), EventSurface, "rebuilt")
	}

	// C: copy the running config to the clipboard.
	if g.pressed(ebiten.KeyC, currentKeys) {
		g.copyConfig()
	}

	if g.pressed(ebiten.KeyEscape, currentKeys) {
		g.quit = true
	}

	g.prevKeys = currentKeys
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.surface != nil {
		screen.DrawImage(g.surface, nil)
	}
	if g.showLog {
		g.events.Draw(screen, g.width-logPanelWidth, g.height)
	}
	if g.showHUD {
		g.hud.draw(screen, g.hudLines())
	}
}

func (g *Game) hudLines() []string {
	state := ""
	if g.paused {
		state = "  [paused]"
	}
	return []string{
		fmt.Sprintf("%s  entities=%d  tps=%.0f%s", g.effectName(), g.driver.Effect().Len(), ebiten.ActualTPS(), state),
		"1-5/Tab effect  P pause  R rebuild  C copy config  L log  H hud  Esc quit",
	}
}

// Layout tracks the window size; a change queues a rebuild of the population.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return g.width, g.height
	}
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.driver.Resize(g.width, g.height)
		g.logger.Debug("resize", "width", g.width, "height", g.height)
		g.events.Add(g.tick, g.effectName(), EventSurface, fmt.Sprintf("resize %dx%d", g.width, g.height))
	}
	return g.width, g.height
}
