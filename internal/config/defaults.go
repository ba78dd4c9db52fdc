package config

import (
	_ "embed"
)

//go:embed defaults/brawl.yaml
var defaultBrawlYAML []byte

// DefaultBrawlConfig returns the default match configuration.
func DefaultBrawlConfig() BrawlConfig {
	return BrawlConfig{
		Physics: PhysicsConfig{
			Gravity:      0.6,
			Friction:     0.4,
			SweepHorizon: 1,
			LandingDepth: 4,
		},
		Arena: ArenaConfig{
			Width:  320,
			Height: 176,
			CellW:  4,
			CellH:  8,
			SpawnY: 100,
			Platforms: []PlatformConfig{
				{X: 160, Y: 172, HalfW: 160, HalfH: 4},
				{X: 64, Y: 112, HalfW: 28, HalfH: 2, OneWay: true},
				{X: 256, Y: 112, HalfW: 28, HalfH: 2, OneWay: true},
				{X: 160, Y: 72, HalfW: 20, HalfH: 2, OneWay: true},
			},
		},
		Fighters: FightersConfig{
			P1: "brawler",
			P2: "kunoichi",
		},
		Round: RoundConfig{
			Ticks:         2700,
			TrainingRegen: 5,
		},
		Input: InputConfig{
			HoldTicks:   6,
			ComboWindow: 12,
			TapGap:      3,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.3,
			Progression: ProgressionConfig{
				Type:  "damage",
				MaxAt: 100,
			},
			Scaling: ScalingConfig{
				ReactionTicks: 18,
				MinReaction:   4,
				Aggression:    0.5,
			},
		},
	}
}
