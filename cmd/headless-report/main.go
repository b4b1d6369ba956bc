// headless-report runs effects offscreen with a scripted pointer and prints
// per-run and aggregate frame statistics.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Garsondee/Glitch-Field/internal/config"
	"github.com/Garsondee/Glitch-Field/internal/fx"
)

type runStats struct {
	runIndex int
	seed     int64
	effect   string

	entities      int
	frames        int
	peakVisible   int
	meanVisible   float64
	peakOpacity   float64
	drawCalls     int
	pointerEnters int
	pointerLeaves int
	violations    int
	firstVisible  int // first frame with a visible entity, -1 if none
	elapsed       time.Duration
}

var (
	flagRuns     int
	flagFrames   int
	flagSeedBase int64
	flagSeedStep int64
	flagEffect   string
	flagPath     string
	flagWidth    int
	flagHeight   int
	flagConfig   string
	flagRealtime bool
)

var rootCmd = &cobra.Command{
	Use:   "headless-report",
	Short: "Run effects offscreen and report frame statistics",
	Long: `Run each effect without a window against a scripted pointer and report
visibility, draw calls and opacity invariant violations.

Examples:
  headless-report --effect all --frames 600
  headless-report --effect network --path circle --runs 3
  headless-report --effect pixels --realtime --frames 120`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runReport,
}

func init() {
	f := rootCmd.Flags()
	f.IntVar(&flagRuns, "runs", 3, "number of runs per effect")
	f.IntVar(&flagFrames, "frames", 600, "frames per run")
	f.Int64Var(&flagSeedBase, "seed-base", 42, "base RNG seed for run 1")
	f.Int64Var(&flagSeedStep, "seed-step", 1, "seed increment between runs")
	f.StringVar(&flagEffect, "effect", "all", fmt.Sprintf("effect name or 'all' %v", fx.Names()))
	f.StringVar(&flagPath, "path", "sweep", "pointer path: sweep, circle, fixed, absent")
	f.IntVar(&flagWidth, "width", 1280, "surface width")
	f.IntVar(&flagHeight, "height", 720, "surface height")
	f.StringVar(&flagConfig, "config", "", "YAML config with effect tuning")
	f.BoolVar(&flagRealtime, "realtime", false, "drive frames from a 60Hz loop instead of stepping directly")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runReport(cmd *cobra.Command, args []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "headless"})
	if flagRuns <= 0 {
		return fmt.Errorf("--runs must be > 0")
	}
	if flagFrames <= 0 {
		return fmt.Errorf("--frames must be > 0")
	}
	effects, err := selectEffects(flagEffect)
	if err != nil {
		return err
	}
	path, err := pointerPath(flagPath, float64(flagWidth), float64(flagHeight))
	if err != nil {
		return err
	}
	cfg, used, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if used != "" {
		logger.Info("config loaded", "path", used)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "=== Headless Effect Report ===\n")
	fmt.Fprintf(out, "effects=%s runs=%d frames=%d size=%dx%d path=%s seed_base=%d seed_step=%d\n\n",
		strings.Join(effects, ","), flagRuns, flagFrames, flagWidth, flagHeight, flagPath, flagSeedBase, flagSeedStep)

	all := make([]runStats, 0, len(effects)*flagRuns)
	for _, name := range effects {
		for i := 0; i < flagRuns; i++ {
			seed := flagSeedBase + int64(i)*flagSeedStep
			var rs runStats
			if flagRealtime {
				rs, err = runRealtime(cmd.Context(), name, i+1, seed, cfg, path)
			} else {
				rs, err = runEffect(name, i+1, seed, cfg, path)
			}
			if err != nil {
				return err
			}
			if rs.violations > 0 {
				logger.Warn("opacity invariant violated", "effect", name, "run", i+1, "count", rs.violations)
			}
			all = append(all, rs)
			printRun(out, rs)
		}
	}
	printAggregate(out, all)
	return nil
}

func selectEffects(name string) ([]string, error) {
	if name == "all" {
		return fx.Names(), nil
	}
	if !slices.Contains(fx.Names(), name) {
		return nil, fmt.Errorf("%w: %q", fx.ErrUnknownEffect, name)
	}
	return []string{name}, nil
}

func pointerPath(name string, w, h float64) (fx.PointerPath, error) {
	switch name {
	case "sweep":
		return fx.SweepPath(w, h, 180), nil
	case "circle":
		return fx.CirclePath(w/2, h/2, h/4, 240), nil
	case "fixed":
		return fx.FixedPath(w/2, h/2), nil
	case "absent":
		return fx.AbsentPath, nil
	}
	return nil, fmt.Errorf("unknown pointer path %q (supported: sweep, circle, fixed, absent)", name)
}

func runEffect(name string, runIndex int, seed int64, cfg config.Config, path fx.PointerPath) (runStats, error) {
	hs, err := fx.NewHarness(
		fx.WithEffect(name),
		fx.WithSettings(cfg.Effects),
		fx.WithPointerRadius(cfg.Pointer.Radius),
		fx.WithCanvasSize(flagWidth, flagHeight),
		fx.WithSeed(seed),
		fx.WithPointerPath(path),
		fx.WithVerbose(true),
	)
	if err != nil {
		return runStats{}, err
	}
	start := time.Now()
	rs := runStats{runIndex: runIndex, seed: seed, effect: name, firstVisible: -1}
	visibleSum := 0
	for f := 0; f < flagFrames; f++ {
		hs.Step()
		st := hs.Stats()
		rs.drawCalls += st.DrawCalls
		visibleSum += st.Visible
		if st.Visible > rs.peakVisible {
			rs.peakVisible = st.Visible
		}
		if st.MaxOpacity > rs.peakOpacity {
			rs.peakOpacity = st.MaxOpacity
		}
		if rs.firstVisible < 0 && st.Visible > 0 {
			rs.firstVisible = f
		}
	}
	rs.elapsed = time.Since(start)
	rs.frames = flagFrames
	rs.entities = hs.Driver.Effect().Len()
	rs.meanVisible = float64(visibleSum) / float64(flagFrames)
	rs.pointerEnters = hs.FrameLog.CountCategory("pointer", "enter")
	rs.pointerLeaves = hs.FrameLog.CountCategory("pointer", "leave")
	rs.violations = hs.FrameLog.CountCategory("invariant", "")
	return rs, nil
}

// runRealtime drives the effect from a fx.Loop ticking at 60Hz. The pointer
// path and the sampling run through Post so they land between frames.
func runRealtime(ctx context.Context, name string, runIndex int, seed int64, cfg config.Config, path fx.PointerPath) (runStats, error) {
	hs, err := fx.NewHarness(
		fx.WithEffect(name),
		fx.WithSettings(cfg.Effects),
		fx.WithPointerRadius(cfg.Pointer.Radius),
		fx.WithCanvasSize(flagWidth, flagHeight),
		fx.WithSeed(seed),
	)
	if err != nil {
		return runStats{}, err
	}
	const interval = time.Second / 60
	rs := runStats{runIndex: runIndex, seed: seed, effect: name, firstVisible: -1}
	loop := fx.NewLoop(hs.Driver, hs.Canvas, interval)
	visibleSum := 0

	start := time.Now()
	if err := loop.Start(ctx); err != nil {
		return rs, err
	}
	defer loop.Stop()

	last := -1
	for last < flagFrames {
		ack := make(chan int, 1)
		seen := last
		loop.Post(func(d *fx.Driver) {
			f := d.Frame()
			if f == seen {
				ack <- -1
				return
			}
			if f > 0 {
				st := hs.Stats()
				visibleSum += st.Visible
				rs.drawCalls += st.DrawCalls
				rs.peakVisible = max(rs.peakVisible, st.Visible)
				rs.peakOpacity = max(rs.peakOpacity, st.MaxOpacity)
				if rs.firstVisible < 0 && st.Visible > 0 {
					rs.firstVisible = f - 1
				}
				if st.NaN > 0 || st.OutOfRange > 0 {
					rs.violations++
				}
			}
			if f < flagFrames {
				samplePath(d.Pointer(), path, f, &rs)
			}
			hs.Canvas.Reset()
			ack <- f
		})
		select {
		case f := <-ack:
			if f < 0 {
				time.Sleep(interval / 4)
				continue
			}
			last = f
		case <-ctx.Done():
			return rs, ctx.Err()
		}
	}

	rs.elapsed = time.Since(start)
	rs.frames = flagFrames
	rs.entities = hs.Driver.Effect().Len()
	rs.meanVisible = float64(visibleSum) / float64(flagFrames)
	return rs, nil
}

func samplePath(p *fx.Pointer, path fx.PointerPath, frame int, rs *runStats) {
	x, y, present := path(frame)
	switch {
	case present && !p.Present:
		rs.pointerEnters++
	case !present && p.Present:
		rs.pointerLeaves++
	}
	if present {
		p.Move(x, y)
	} else {
		p.Leave()
	}
}

func printRun(out io.Writer, rs runStats) {
	fmt.Fprintf(out, "--- %s run %d (seed=%d) ---\n", rs.effect, rs.runIndex, rs.seed)
	fmt.Fprintf(out, "population: entities=%d frames=%d elapsed=%s\n", rs.entities, rs.frames, rs.elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "visibility: first_visible=%s peak_visible=%d mean_visible=%.1f peak_opacity=%.2f\n",
		frameString(rs.firstVisible), rs.peakVisible, rs.meanVisible, rs.peakOpacity)
	fmt.Fprintf(out, "pointer: enters=%d leaves=%d\n", rs.pointerEnters, rs.pointerLeaves)
	fmt.Fprintf(out, "draw_calls=%d avg_per_frame=%.1f\n", rs.drawCalls, avg(rs.drawCalls, rs.frames))
	fmt.Fprintf(out, "invariant_violations=%d\n\n", rs.violations)
}

type effectAggregate struct {
	runs        int
	meanVisible float64
	peakOpacity float64
	drawCalls   int
	frames      int
	violations  int
}

func aggregate(all []runStats) map[string]*effectAggregate {
	byEffect := map[string]*effectAggregate{}
	for _, rs := range all {
		a, ok := byEffect[rs.effect]
		if !ok {
			a = &effectAggregate{}
			byEffect[rs.effect] = a
		}
		a.runs++
		a.meanVisible += rs.meanVisible
		a.peakOpacity = max(a.peakOpacity, rs.peakOpacity)
		a.drawCalls += rs.drawCalls
		a.frames += rs.frames
		a.violations += rs.violations
	}
	for _, a := range byEffect {
		a.meanVisible /= float64(a.runs)
	}
	return byEffect
}

func printAggregate(out io.Writer, all []runStats) {
	fmt.Fprintf(out, "=== Aggregate ===\n")
	fmt.Fprintf(out, "runs=%d\n", len(all))
	byEffect := aggregate(all)
	names := make([]string, 0, len(byEffect))
	for n := range byEffect {
		names = append(names, n)
	}
	sort.Strings(names)
	total := 0
	for _, n := range names {
		a := byEffect[n]
		total += a.violations
		fmt.Fprintf(out, "  %-10s runs=%d mean_visible=%.1f peak_opacity=%.2f draw_calls_per_frame=%.1f violations=%d\n",
			n, a.runs, a.meanVisible, a.peakOpacity, avg(a.drawCalls, a.frames), a.violations)
	}
	verdict := "OK"
	if total > 0 {
		verdict = "FAIL"
	}
	fmt.Fprintf(out, "opacity_invariant=%s\n", verdict)
}

func avg(sum int, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func frameString(f int) string {
	if f < 0 {
		return "n/a"
	}
	return fmt.Sprintf("%d", f)
}
