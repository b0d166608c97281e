package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fruit-mukbang/internal/config"
)

var flagDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective engine configuration",
	Long: `Print the engine configuration as YAML after the search path is applied:
--config, ~/.mukbang/configs/engine.yaml, ./configs/engine.yaml, then the
built-in defaults.

Examples:
  mukbang config
  mukbang config --defaults > engine.yaml
  mukbang config --config ./engine.yaml`,
	Run: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagDefaults, "defaults", false, "Print the built-in defaults")
}

func runConfig(_ *cobra.Command, _ []string) {
	if flagDefaults {
		os.Stdout.Write(config.DefaultYAML())
		return
	}

	data, err := config.Marshal(loadConfig())
	if err != nil {
		fail("encoding config: %v", err)
	}
	fmt.Print(string(data))
}
