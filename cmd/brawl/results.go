package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-brawl/internal/registry"
	"github.com/vovakirdan/tui-brawl/internal/storage"
)

var (
	flagLimit int
	flagStats bool
	flagClear bool
)

var resultsCmd = &cobra.Command{
	Use:   "results [mode]",
	Short: "Show match history",
	Long: `Display recent matches, optionally for one mode, or totals per fighter.

Examples:
  brawl results
  brawl results versus --limit 20
  brawl results --stats
  brawl results training --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of matches to show")
	resultsCmd.Flags().BoolVar(&flagStats, "stats", false, "Show per-fighter totals instead")
	resultsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the history of the mode (or all)")
}

func runResults(_ *cobra.Command, args []string) error {
	mode := ""
	if len(args) == 1 {
		mode = args[0]
		if !registry.Exists(mode) {
			return fmt.Errorf("unknown mode %q, run 'brawl list' to see available modes", mode)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening match database: %w", err)
	}
	defer store.Close()

	switch {
	case flagClear:
		if err := store.ClearMatches(mode); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	case flagStats:
		return printStats(store)
	}

	matches, err := store.RecentMatches(mode, flagLimit)
	if err != nil {
		return fmt.Errorf("retrieving matches: %w", err)
	}

	if mode == "" {
		fmt.Println("Recent matches")
	} else {
		fmt.Printf("Recent matches - %s\n", mode)
	}
	fmt.Println()

	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Run 'brawl play versus' to fight the first one!")
		return nil
	}

	fmt.Printf("  %-16s  %-8s  %-10s  %-10s  %-7s  %-6s  %s\n", "Date", "Mode", "P1", "P2", "HP", "Winner", "End")
	fmt.Printf("  %-16s  %-8s  %-10s  %-10s  %-7s  %-6s  %s\n", "----", "----", "--", "--", "--", "------", "---")
	for _, m := range matches {
		winner := "draw"
		if m.Winner != 0 {
			winner = fmt.Sprintf("P%d", m.Winner)
		}
		fmt.Printf("  %-16s  %-8s  %-10s  %-10s  %-7s  %-6s  %s\n",
			m.CreatedAt.Format("2006-01-02 15:04"), m.Mode, m.P1Kind, m.P2Kind,
			fmt.Sprintf("%d-%d", m.P1HP, m.P2HP), winner, m.EndReason)
	}
	return nil
}

func printStats(store *storage.Store) error {
	stats, err := store.FighterStats()
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}
	if len(stats) == 0 {
		fmt.Println("No matches recorded yet.")
		return nil
	}

	fmt.Printf("  %-12s  %6s  %4s  %4s  %4s  %5s\n", "Fighter", "Played", "W", "L", "D", "Win%")
	fmt.Printf("  %-12s  %6s  %4s  %4s  %4s  %5s\n", "-------", "------", "-", "-", "-", "----")
	for _, s := range stats {
		fmt.Printf("  %-12s  %6d  %4d  %4d  %4d  %5.0f\n",
			s.Kind, s.Matches, s.Wins, s.Losses, s.Draws, s.WinRate()*100)
	}
	return nil
}
