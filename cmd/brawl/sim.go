package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-brawl/internal/ai"
	"github.com/vovakirdan/tui-brawl/internal/config"
	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/games/brawl"
	"github.com/vovakirdan/tui-brawl/internal/replay"
	"github.com/vovakirdan/tui-brawl/internal/storage"
)

var (
	flagSimTicks   int
	flagSimReplay  string
	flagSimRecord  string
	flagSimProfile string
	flagSimSave    bool
)

var simCmd = &cobra.Command{
	Use:   "sim [mode]",
	Short: "Run a match without a terminal",
	Long: `Run a match headless as fast as possible and print the result.

Every side that is not already the CPU is played by the built-in CPU
script. With --replay the recorded presses are played back instead and the
final state is checked against the recorded digest.

Examples:
  brawl sim versus --seed 42
  brawl sim duel --seed 7 --record duel.replay
  brawl sim --replay duel.replay
  brawl sim training --ticks 9000 --profile cpu`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSim,
}

func init() {
	addMatchFlags(simCmd)
	simCmd.Flags().IntVar(&flagSimTicks, "ticks", 10000, "Stop after this many ticks")
	simCmd.Flags().StringVar(&flagSimReplay, "replay", "", "Play back a replay file")
	simCmd.Flags().StringVar(&flagSimRecord, "record", "", "Write a replay of the match to this file")
	simCmd.Flags().StringVar(&flagSimProfile, "profile", "", "Profile the run: cpu, mem or allocs (written to the current directory)")
	simCmd.Flags().BoolVar(&flagSimSave, "save", false, "Add the result to match history")
}

// errDesync is returned when a replay ends in a different state than it
// recorded.
var errDesync = errors.New("replay desync")

func runSim(_ *cobra.Command, args []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "sim",
		Level:           log.GetLevel(),
	})

	runtime := runtimeConfig()
	mode := brawl.ModeVersus
	if len(args) == 1 {
		mode = brawl.Mode(args[0])
	}

	var rec *replay.Replay
	if flagSimReplay != "" {
		var err error
		rec, err = replay.Open(flagSimReplay)
		if err != nil {
			return err
		}
		h := rec.Header
		mode = brawl.Mode(h.Mode)
		runtime.Seed, runtime.P1, runtime.P2 = h.Seed, h.P1, h.P2
		if runtime.ConfigPath == "" {
			runtime.ConfigPath = h.Config
		}
		logger.Info("replaying", "file", flagSimReplay, "mode", h.Mode, "ticks", rec.Len())
	}
	if runtime.Seed == 0 {
		runtime.Seed = time.Now().UnixNano()
	}

	if stop := startProfile(flagSimProfile); stop != nil {
		defer stop()
	}

	game := brawl.New(mode, brawl.WithLogger(logger))
	if game.Title() == "" {
		return fmt.Errorf("unknown mode %q, run 'brawl list' to see available modes", mode)
	}
	if err := game.Reset(runtime); err != nil {
		return err
	}
	defer game.Close()

	var pilots map[core.PlayerID]*ai.CPU
	if rec == nil {
		var err error
		if pilots, err = simPilots(game, runtime); err != nil {
			return err
		}
		defer func() {
			for _, c := range pilots {
				c.Close()
			}
		}()
	}

	var recorder *replay.Recorder
	if flagSimRecord != "" {
		s := game.Summary()
		recorder = replay.NewRecorder(replay.Header{
			Seed: runtime.Seed, Mode: s.Mode, P1: s.P1Kind, P2: s.P2Kind, Config: runtime.ConfigPath,
		})
	}

	limit := flagSimTicks
	if rec != nil {
		limit = rec.Len()
	}

	start := time.Now()
	hits := 0
	for i := 0; i < limit && !game.State().GameOver; i++ {
		var in core.MultiInputFrame
		if rec != nil {
			in = rec.Input(i)
		} else {
			in = core.NewMultiInputFrame()
			for id, cpu := range pilots {
				presses, err := cpu.Next(game.View(id))
				if err != nil {
					return fmt.Errorf("cpu %s: %w", id, err)
				}
				for a := range presses.Actions {
					in.Set(id, a)
				}
			}
		}
		if recorder != nil {
			recorder.Record(in)
		}
		hits += game.Step(in).Hits
	}
	elapsed := time.Since(start)

	digest := game.Digest()
	s := game.Summary()
	pool := game.Scene().Pool()
	logger.Info("done",
		"ticks", s.Ticks,
		"elapsed", elapsed,
		"pool_high_water", pool.HighWater(),
		"allocations", pool.Allocations(),
	)

	fmt.Printf("mode:    %s (%s vs %s)\n", s.Mode, s.P1Kind, s.P2Kind)
	fmt.Printf("ticks:   %d\n", s.Ticks)
	fmt.Printf("hits:    %d\n", hits)
	fmt.Printf("hp:      %d - %d\n", s.P1HP, s.P2HP)
	fmt.Printf("result:  %s\n", describeResult(s))
	fmt.Printf("seed:    %d\n", runtime.Seed)
	fmt.Printf("digest:  %s\n", digest)

	if recorder != nil {
		recorder.SetChecksum(digest)
		if err := replay.Save(flagSimRecord, recorder.Replay()); err != nil {
			return err
		}
		logger.Info("replay written", "file", flagSimRecord)
	}

	if flagSimSave && s.EndReason != "" {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if _, err := store.SaveMatch(storage.FromSummary(s)); err != nil {
			return err
		}
	}

	if rec != nil && rec.Header.Checksum != "" && rec.Header.Checksum != digest {
		return fmt.Errorf("%w: recorded %s, got %s", errDesync, rec.Header.Checksum, digest)
	}
	return nil
}

// simPilots creates a CPU for every fighter the mode expects a person to
// play.
func simPilots(game *brawl.Game, runtime core.RuntimeConfig) (map[core.PlayerID]*ai.CPU, error) {
	ids := []core.PlayerID{core.Player1}
	if game.Players() == 2 {
		ids = append(ids, core.Player2)
	}

	diff := config.NewDifficultyManager(game.Config().Difficulty)
	pilots := make(map[core.PlayerID]*ai.CPU, len(ids))
	for _, id := range ids {
		// Offset the seed so the pilots do not mirror the game's own CPU.
		seed := runtime.Seed + int64(id)*7919
		var cpu *ai.CPU
		var err error
		if runtime.ScriptPath != "" {
			cpu, err = ai.Load(runtime.ScriptPath, diff, seed)
		} else {
			cpu = ai.NewDefault(diff, seed)
		}
		if err != nil {
			for _, c := range pilots {
				c.Close()
			}
			return nil, err
		}
		pilots[id] = cpu
	}
	return pilots, nil
}

func describeResult(s core.MatchSummary) string {
	switch {
	case s.EndReason == "":
		return "unfinished"
	case s.Winner == 0:
		return "draw by " + s.EndReason
	default:
		return fmt.Sprintf("%s wins by %s", s.Winner, s.EndReason)
	}
}

// startProfile starts pkg/profile for the named kind and returns its stop
// function, or nil when profiling is off.
func startProfile(kind string) func() {
	var mode func(*profile.Profile)
	switch kind {
	case "":
		return nil
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	case "allocs":
		mode = profile.MemProfileAllocs
	default:
		log.Warn("unknown profile kind, profiling is off", "kind", kind)
		return nil
	}
	p := profile.Start(mode, profile.ProfilePath("."), profile.NoShutdownHook)
	return p.Stop
}
