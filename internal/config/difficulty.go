package config

import "math"

// DifficultyManager calculates CPU opponent parameters based on damage dealt
// or elapsed time.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: cfg.InitialLevel,
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on damage/ticks.
func (d *DifficultyManager) Level(damage int, ticks int) float64 {
	if !d.cfg.Enabled || d.cfg.Progression.Type == "none" {
		return d.initialLevel
	}

	var progress float64
	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	switch d.cfg.Progression.Type {
	case "damage":
		progress = float64(damage) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// ReactionTicks returns how many ticks the CPU waits between decisions.
// It shrinks from ReactionTicks toward MinReaction as difficulty rises.
func (d *DifficultyManager) ReactionTicks(damage int, ticks int) int {
	level := d.Level(damage, ticks)
	s := d.cfg.Scaling
	floor := max(s.MinReaction, 1)
	span := float64(s.ReactionTicks - floor)
	return max(s.ReactionTicks-int(math.Round(level*span)), floor)
}

// Aggression returns the probability in [0, 1] that the CPU attacks when in
// range, starting from base.
func (d *DifficultyManager) Aggression(base float64, damage int, ticks int) float64 {
	level := d.Level(damage, ticks)
	return clampF(base+level*d.cfg.Scaling.Aggression, 0.0, 1.0)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
