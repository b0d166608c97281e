// mukbang is a gesture-driven fruit eating engine with a terminal playground.
//
// Usage:
//
//	mukbang play             - Debug playground in the terminal
//	mukbang serve            - Websocket EventBridge for an external tracker
//	mukbang ssh              - Serve the playground over SSH
//	mukbang replay <file>    - Re-run a recorded session headlessly
//	mukbang history          - Show journaled eaten events
//	mukbang config           - Print the effective engine configuration
//
// Global flags:
//
//	--config <path>     - Engine config YAML (default: search path)
//	--log-level <lvl>   - debug, info, warn or error (default: info)
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible sessions
//	--db <path>         - Set journal path (default: ~/.mukbang/mukbang.db)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/fruit-mukbang/internal/config"
	"github.com/vovakirdan/fruit-mukbang/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mukbang",
	Short: "Fruit Mukbang - bite virtual fruit with your mouth",
	Long: `Fruit Mukbang turns hand and mouth tracking into a small game: pinch to
grab a floating fruit, bring it to your mouth and open wide to take bites.
Six bites and the fruit explodes.

Available commands:
  play     - Terminal playground with a simulated sensor
  serve    - Websocket bridge for a tracking service
  ssh      - Serve the playground over SSH
  replay   - Re-run a recorded bridge session
  history  - Show journaled eaten events
  config   - Print the effective configuration

Examples:
  mukbang play
  mukbang serve --addr :5000 --record session.jsonl.zst
  mukbang replay session.jsonl.zst
  mukbang history --sessions`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to engine config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = config seed, then time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to eaten-event journal (empty disables)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sshCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// newLogger builds a stderr logger at the --log-level.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fail("invalid --log-level %q", flagLogLevel)
	}
	logger.SetLevel(level)
	return logger
}

// loadConfig resolves the engine configuration or exits.
func loadConfig() config.EngineConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail("loading config: %v", err)
	}
	return cfg
}

// openJournal opens the journal at --db. Failures are warnings: sessions
// run without a journal.
func openJournal(logger *log.Logger) *storage.Store {
	if flagDBPath == "" {
		return nil
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open journal", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}
