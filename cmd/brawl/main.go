// brawl is a side-view fighting game for the terminal.
//
// Usage:
//
//	brawl list                - List available modes
//	brawl play <mode>         - Fight in a mode
//	brawl menu                - Pick modes interactively
//	brawl serve               - Start SSH server for remote play
//	brawl results [mode]      - Show match history
//	brawl sim <mode>          - Run a match headless
//	brawl frames validate     - Check frame tables
//
// Global flags:
//
//	--fps <rate>     - Set tick rate (default: 30)
//	--seed <value>   - Set RNG seed for reproducible matches
//	--db <path>      - Set database path (default: ~/.brawl/matches.db)
//	--log-level <l>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import modes to register them
	_ "github.com/vovakirdan/tui-brawl/internal/games/brawl"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "brawl",
	Short: "TUI Brawl - A side-view fighting game in your terminal",
	Long: `TUI Brawl is a terminal fighting game. Two fighters trade blows across
a small arena of floors and one-way ledges, against the CPU or a friend
on the same keyboard.

Available commands:
  list     - Show all available modes
  play     - Fight in a specific mode
  menu     - Interactive mode picker
  serve    - Start SSH server for remote play
  results  - View match history and fighter stats
  sim      - Run a match without a terminal
  frames   - Validate or export frame tables

Examples:
  brawl list
  brawl play versus --difficulty hard
  brawl play duel --p1 kunoichi
  brawl menu
  brawl serve --ssh :2222
  brawl sim versus --seed 7 --record match.replay`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (ticks per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.brawl/matches.db", "Path to match history database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(framesCmd)
}
