// Package config provides YAML-based match configuration loading and
// difficulty management for brawl.
package config

// BrawlConfig contains all configuration for a match.
type BrawlConfig struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	Arena      ArenaConfig      `yaml:"arena"`
	Fighters   FightersConfig   `yaml:"fighters"`
	Round      RoundConfig      `yaml:"round"`
	Input      InputConfig      `yaml:"input"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// PhysicsConfig defines the world constants, in world units per tick.
type PhysicsConfig struct {
	Gravity      float64 `yaml:"gravity"`
	Friction     float64 `yaml:"friction"`
	SweepHorizon float64 `yaml:"sweep_horizon"`
	LandingDepth float64 `yaml:"landing_depth"` // One-way platform landing tolerance
}

// ArenaConfig defines the stage. World units map to terminal cells through
// CellW and CellH.
type ArenaConfig struct {
	Width     float64          `yaml:"width"`
	Height    float64          `yaml:"height"`
	CellW     float64          `yaml:"cell_w"`
	CellH     float64          `yaml:"cell_h"`
	Platforms []PlatformConfig `yaml:"platforms"`
	SpawnY    float64          `yaml:"spawn_y"`
}

// PlatformConfig is one static platform, centered at (X, Y).
type PlatformConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	HalfW  float64 `yaml:"half_w"`
	HalfH  float64 `yaml:"half_h"`
	OneWay bool    `yaml:"one_way"`
}

// FightersConfig picks the kinds for each side.
type FightersConfig struct {
	P1  string `yaml:"p1"`
	P2  string `yaml:"p2"`
	Dir string `yaml:"dir"` // Extra frame table directory, empty for the search order
}

// RoundConfig defines match length.
type RoundConfig struct {
	Ticks         int `yaml:"ticks"`          // Round timer, 0 = untimed
	TrainingRegen int `yaml:"training_regen"` // HP restored per second in training
}

// InputConfig tunes the key press detector, in ticks.
type InputConfig struct {
	HoldTicks   int `yaml:"hold_ticks"`
	ComboWindow int `yaml:"combo_window"`
	TapGap      int `yaml:"tap_gap"`
}

// DifficultyConfig defines how the CPU opponent sharpens during a round.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "damage", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Damage dealt/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	ReactionTicks int     `yaml:"reaction_ticks"` // CPU think interval at level 0
	MinReaction   int     `yaml:"min_reaction"`   // CPU think interval at level 1
	Aggression    float64 `yaml:"aggression"`     // Added to base aggression at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ParsePreset validates a preset name. The empty string means normal.
func ParsePreset(name string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, true
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	}
	return "", false
}
