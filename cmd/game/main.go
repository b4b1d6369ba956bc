// glitchfield hosts pointer-reactive glitch effects in a desktop window.
//
// Usage:
//
//	glitchfield play [--effect name] [--config path] [--watch]
//	glitchfield grades [--roster path]
//
// Global flags:
//
//	--seed <value>  - RNG seed (0 = clock)
//	--debug         - verbose logging
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	flagSeed  int64
	flagDebug bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "glitchfield",
	Short: "Pointer-reactive glitch effects",
	Long: `Glitch Field renders pointer-reactive canvas effects: a glitch point grid,
a repelling particle field, torn fragments, a node network and a raw pixel
glitch. Move the pointer over the window to disturb them.

Examples:
  glitchfield play
  glitchfield play --effect network
  glitchfield play --config configs/example.yaml --watch
  glitchfield grades`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(gradesCmd)
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "glitchfield",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
