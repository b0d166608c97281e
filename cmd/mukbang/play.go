package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/fruit-mukbang/internal/audio"
	"github.com/vovakirdan/fruit-mukbang/internal/config"
	"github.com/vovakirdan/fruit-mukbang/internal/core"
	"github.com/vovakirdan/fruit-mukbang/internal/engine"
	"github.com/vovakirdan/fruit-mukbang/internal/platform/tui"
	"github.com/vovakirdan/fruit-mukbang/internal/storage"
)

var (
	flagSound   bool
	flagVolume  float64
	flagLogFile string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run the terminal playground",
	Long: `Run the engine in the terminal with a simulated sensor.

Controls:
  Mouse        - Move the hand
  Click/Space  - Pinch (grab the nearest fruit)
  X            - Hide/show the hand
  Arrows       - Move the mouth
  O            - Open/close the mouth
  A / B        - Spawn a test apple / banana
  C            - Clear all fruit
  S            - Toggle the status table
  Q/Ctrl+C     - Quit

Examples:
  mukbang play
  mukbang play --sound
  mukbang play --seed 42 --log-file play.log --log-level debug`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagSound, "sound", false, "Play bite, explosion and spawn cues")
	playCmd.Flags().Float64Var(&flagVolume, "volume", 0.6, "Cue volume (0-1)")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write engine logs to a file (the terminal is busy)")
}

func runPlay(_ *cobra.Command, _ []string) {
	if err := play(loadConfig()); err != nil {
		fail("%v", err)
	}
}

func play(cfg config.EngineConfig) error {
	// The playground owns the terminal; logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := log.NewWithOptions(logOut, log.Options{ReportTimestamp: true, Prefix: "mukbang"})
	if level, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(level)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	var sinks engine.MultiSink
	if store := openJournal(logger); store != nil {
		defer store.Close()
		journal := storage.NewJournal(store, logger)
		logger.Info("journal session", "session", journal.Session())
		sinks = append(sinks, journal)
	}
	if flagSound {
		player := audio.NewPlayer(flagVolume, logger)
		if err := player.Init(); err != nil {
			logger.Warn("audio disabled", "error", err)
		} else {
			defer player.Close()
			sinks = append(sinks, player)
		}
	}

	opts := engine.Options{Logger: logger, Sink: sinks}
	if err := tui.Run(cfg, rt, opts); err != nil {
		return fmt.Errorf("running playground: %w", err)
	}
	return nil
}
