package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/fruit-mukbang/internal/storage"
)

var (
	flagLimit    int
	flagSessions bool
	flagClear    string
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show journaled eaten events",
	Long: `List the most recent eaten events from the journal, or a per-session
summary with --sessions.

Examples:
  mukbang history
  mukbang history --limit 50
  mukbang history --sessions
  mukbang history --clear <session>`,
	Run: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of rows to show")
	historyCmd.Flags().BoolVar(&flagSessions, "sessions", false, "Summarize by session")
	historyCmd.Flags().StringVar(&flagClear, "clear", "", "Delete every event of a session")
}

func runHistory(_ *cobra.Command, _ []string) {
	if flagDBPath == "" {
		fail("no journal: --db is empty")
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening journal: %v", err)
	}
	defer store.Close()

	switch {
	case flagClear != "":
		err = store.ClearSession(flagClear)
		if err == nil {
			fmt.Printf("Cleared session %s\n", flagClear)
		}
	case flagSessions:
		err = printSessions(store)
	default:
		err = printRecent(store)
	}
	if err != nil {
		store.Close()
		fail("%v", err)
	}
}

func printRecent(store *storage.Store) error {
	entries, err := store.RecentEaten(flagLimit)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Recent fruit"))
	fmt.Println()
	if len(entries) == 0 {
		fmt.Println("Nothing eaten yet.")
		fmt.Println()
		fmt.Println("Run 'mukbang play' and take six bites!")
		return nil
	}

	fmt.Printf("  %-16s  %-6s  %-6s  %s\n", "Date", "Fruit", "Score", "Session")
	fmt.Printf("  %-16s  %-6s  %-6s  %s\n", "----", "-----", "-----", "-------")
	for _, e := range entries {
		fmt.Printf("  %-16s  %-6s  %-6d  %s\n",
			e.CreatedAt.Format("2006-01-02 15:04"), e.Kind, e.Score, dimStyle.Render(shortID(e.Session)))
	}

	best, err := store.BestScore()
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d\n", best)
	}
	return nil
}

func printSessions(store *storage.Store) error {
	stats, err := store.TopSessions(flagLimit)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Sessions"))
	fmt.Println()
	if len(stats) == 0 {
		fmt.Println("No sessions recorded yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %s\n", "Rank", "Session", "Eaten", "Score", "Last")
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %s\n", "----", "-------", "-----", "-----", "----")
	for i, s := range stats {
		fmt.Printf("  %-4d  %-8s  %-6d  %-6d  %s\n",
			i+1, shortID(s.Session), s.Eaten, s.FinalScore, s.LastEaten.Format("2006-01-02 15:04"))
	}
	return nil
}

// shortID trims a uuid to its first group.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
