package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fruit-mukbang/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Re-run a recorded bridge session",
	Long: `Feed a session recorded with 'mukbang serve --record' into a headless
engine on a simulated clock and print the outcome. With the same config
and seed a replay is deterministic.

Examples:
  mukbang replay session.jsonl.zst
  mukbang replay session.jsonl.zst --fps 30 --seed 7`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func runReplay(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	if flagSeed != 0 {
		cfg.Seed = flagSeed
	}

	player := replay.NewPlayer(cfg, flagFPS, newLogger("replay"), nil)
	res, err := player.PlayFile(args[0])
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("Replayed %s\n", args[0])
	fmt.Println()
	fmt.Printf("  records   %d (rejected %d, dropped %d)\n", res.Records, res.Rejected, res.Dropped)
	fmt.Printf("  ticks     %d\n", res.Ticks)
	fmt.Printf("  eaten     %d\n", len(res.Eaten))
	for _, e := range res.Eaten {
		fmt.Printf("    %-6s score %d at %d ms\n", e.Kind, e.Score, e.Timestamp)
	}
	fmt.Println()
	fmt.Print(res.Status.String())
}
