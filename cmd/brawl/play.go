package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/platform/tui"
	"github.com/vovakirdan/tui-brawl/internal/registry"
	"github.com/vovakirdan/tui-brawl/internal/storage"
)

var (
	flagConfig     string
	flagFrames     string
	flagScript     string
	flagDifficulty string
	flagP1         string
	flagP2         string
	flagKeys       string
	flagRecord     string
)

var playCmd = &cobra.Command{
	Use:   "play <mode>",
	Short: "Fight in a mode",
	Long: `Start a match in the specified mode.

Controls (see ~/.brawl/keys.ini to rebind):
  A/D, W/S     - P1 move, look up, crouch
  J / K / L    - P1 attack, jump, defend
  Arrows       - P2 move (or P1 when playing alone)
  , / . / /    - P2 attack, jump, defend
  Tap twice    - Run
  P/Esc        - Pause
  R            - Rematch (after the match ends)
  B            - Back to menu (when paused or over)
  Ctrl+S       - Screenshot
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - CPU starts slow and sharpens as you land hits
  normal - CPU starts at 30%
  hard   - CPU starts at 70%
  fixed  - CPU stays at the config's initial level

Examples:
  brawl play versus
  brawl play versus --difficulty hard --script ./my-cpu.lua
  brawl play duel --p1 kunoichi --p2 brawler
  brawl play training --frames ./fighters
  brawl play versus --config ./arena.yaml --record last.replay`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	addMatchFlags(playCmd)
	playCmd.Flags().StringVar(&flagKeys, "keys", "", "Path to key bindings INI (default ~/.brawl/keys.ini)")
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Write a replay of each match to this file")
}

// addMatchFlags registers the flags that shape a match.
func addMatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom match config YAML")
	cmd.Flags().StringVar(&flagFrames, "frames", "", "Directory of extra frame tables")
	cmd.Flags().StringVar(&flagScript, "script", "", "Lua script driving the CPU")
	cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	cmd.Flags().StringVar(&flagP1, "p1", "", "Fighter kind for player one")
	cmd.Flags().StringVar(&flagP2, "p2", "", "Fighter kind for player two")
}

// runtimeConfig builds the runtime config from the global and match flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:    width,
		ScreenH:    height,
		TickRate:   flagFPS,
		Seed:       flagSeed,
		ConfigPath: flagConfig,
		FramesDir:  flagFrames,
		ScriptPath: flagScript,
		Difficulty: flagDifficulty,
		P1:         flagP1,
		P2:         flagP2,
	}
}

// openStore opens match history, or returns nil with a warning.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		log.Warn("could not open match database, history is off", "err", err)
		return nil
	}
	return store
}

// closeGame releases resources held by a mode, such as the CPU script.
func closeGame(g registry.Game) {
	if c, ok := g.(interface{ Close() }); ok {
		c.Close()
	}
}

func runPlay(_ *cobra.Command, args []string) error {
	modeID := args[0]
	if !registry.Exists(modeID) {
		return fmt.Errorf("unknown mode %q, run 'brawl list' to see available modes", modeID)
	}

	keys, err := tui.LoadKeyMap(flagKeys)
	if err != nil {
		return err
	}

	game, err := registry.Create(modeID)
	if err != nil {
		return err
	}
	defer closeGame(game)

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	_, err = tui.Run(game, runtimeConfig(), tui.Options{
		Store:  store,
		Keys:   keys,
		Logger: log.Default(),
		Record: flagRecord,
	})
	return err
}
