package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-brawl/internal/platform/tui"
	"github.com/vovakirdan/tui-brawl/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to pick a mode, left/right to set the CPU
difficulty and Enter to fight. After a match, B returns to the menu.

Controls:
  Up/Down/j/k     - Navigate menu
  Left/Right/h/l  - CPU difficulty
  Enter/Space     - Fight
  Tab             - Results
  Q               - Quit

Examples:
  brawl menu
  brawl menu --fps 60
  brawl menu --db ./matches.db`,
	RunE: runMenu,
}

func init() {
	addMatchFlags(menuCmd)
	menuCmd.Flags().StringVar(&flagKeys, "keys", "", "Path to key bindings INI (default ~/.brawl/keys.ini)")
}

func runMenu(_ *cobra.Command, _ []string) error {
	keys, err := tui.LoadKeyMap(flagKeys)
	if err != nil {
		return err
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()
	for {
		res, err := tui.RunMenu(store, cfg)
		if err != nil {
			return err
		}
		cfg = res.Config

		switch {
		case res.Quit:
			return nil

		case res.WantsResults:
			goBack, err := tui.RunResults(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
			continue
		}

		game, err := registry.Create(res.GameID)
		if err != nil {
			return err
		}
		run := cfg
		run.Seed = flagSeed // zero picks a fresh seed per match

		back, err := tui.Run(game, run, tui.Options{Store: store, Keys: keys, Logger: log.Default()})
		closeGame(game)
		if err != nil {
			log.Error("match failed", "mode", res.GameID, "err", err)
			continue
		}
		if !back {
			return nil
		}
	}
}
