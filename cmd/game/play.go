package main

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/Garsondee/Glitch-Field/internal/config"
	"github.com/Garsondee/Glitch-Field/internal/fx"
	"github.com/Garsondee/Glitch-Field/internal/game"
)

var (
	flagEffect string
	flagConfig string
	flagWatch  bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the effect window",
	Long: `Open a resizable window running one effect.

Keys: 1-5 or Tab switch effect, P pause, R rebuild, C copy config to the
clipboard, L event log, H HUD, Esc quit.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagEffect, "effect", "", fmt.Sprintf("Effect to start with %v", fx.Names()))
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the config file when it changes")
}

func runPlay(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, path, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagEffect != "" {
		cfg.Effect = flagEffect
	}
	if path == "" {
		logger.Debug("using built-in config")
	} else {
		logger.Info("config loaded", "path", path)
	}
	if flagWatch && path == "" {
		logger.Warn("--watch needs a config file; ignoring")
	}

	g, err := game.New(game.Options{
		Config:     cfg,
		ConfigPath: path,
		Watch:      flagWatch,
		Seed:       flagSeed,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer g.Close()

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Window.TPS)
	logger.Info("starting", "effect", cfg.Effect, "width", cfg.Window.Width, "height", cfg.Window.Height)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
