package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadBrawl loads match configuration.
// Search order: customPath -> ~/.brawl/configs/brawl.yaml -> ./configs/brawl.yaml -> embedded default
//
// Files are decoded over the defaults, so a partial file only overrides the
// keys it names.
func LoadBrawl(customPath string) (BrawlConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultBrawlConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := decodeBrawl(data)
		if err != nil {
			return DefaultBrawlConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("brawl.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := decodeBrawl(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "brawl.yaml")); err == nil {
		if cfg, err := decodeBrawl(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := decodeBrawl(defaultBrawlYAML)
	if err != nil {
		return DefaultBrawlConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func decodeBrawl(data []byte) (BrawlConfig, error) {
	cfg := DefaultBrawlConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports values the engine cannot run with.
func (c BrawlConfig) Validate() error {
	switch {
	case c.Arena.Width <= 0 || c.Arena.Height <= 0:
		return fmt.Errorf("arena size %gx%g", c.Arena.Width, c.Arena.Height)
	case c.Arena.CellW <= 0 || c.Arena.CellH <= 0:
		return fmt.Errorf("cell size %gx%g", c.Arena.CellW, c.Arena.CellH)
	case c.Physics.SweepHorizon <= 0:
		return fmt.Errorf("sweep_horizon %g", c.Physics.SweepHorizon)
	case c.Physics.Friction < 0:
		return fmt.Errorf("friction %g", c.Physics.Friction)
	case c.Round.Ticks < 0:
		return fmt.Errorf("round ticks %d", c.Round.Ticks)
	}
	for i, p := range c.Arena.Platforms {
		if p.HalfW <= 0 || p.HalfH <= 0 {
			return fmt.Errorf("platform %d: size %gx%g", i, p.HalfW, p.HalfH)
		}
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".brawl", "configs", filename)
}

// ApplyBrawlPreset modifies the config based on a difficulty preset.
func ApplyBrawlPreset(cfg *BrawlConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}
