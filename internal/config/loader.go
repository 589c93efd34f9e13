package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const mergeConfigFile = "mergcrush.yaml"

// LoadMerge loads MergCrush configuration.
// Search order: customPath -> ~/.mergcrush/configs/mergcrush.yaml -> ./configs/mergcrush.yaml -> embedded default
// Fields missing from a file keep their default values.
func LoadMerge(customPath string) (MergeConfig, error) {
	cfg := DefaultMergeConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(mergeConfigFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if parsed, ok := parseMerge(data); ok {
				return parsed, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", mergeConfigFile)); err == nil {
		if parsed, ok := parseMerge(data); ok {
			return parsed, nil
		}
	}

	// Use embedded default YAML
	if parsed, ok := parseMerge(defaultMergeYAML); ok {
		return parsed, nil
	}
	return DefaultMergeConfig(), nil // Fallback to hardcoded if embed fails
}

// parseMerge decodes data over the defaults. Broken files are skipped.
func parseMerge(data []byte) (MergeConfig, bool) {
	cfg := DefaultMergeConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return MergeConfig{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mergcrush", "configs", filename)
}

// ApplyMergePreset modifies the config based on a difficulty preset.
func ApplyMergePreset(cfg *MergeConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust spawning based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Spawn.Interval *= 1.25
		cfg.Combo.Window *= 1.25
	case DifficultyHard:
		cfg.Spawn.Interval *= 0.75
		cfg.Spawn.ItemsPerSpawn++
	}
}
