// Package config provides YAML-based game configuration loading and
// difficulty management for MergCrush.
package config

import (
	"fmt"

	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush/core"
)

// MergeConfig contains all configuration for MergCrush.
type MergeConfig struct {
	Grid       GridConfig       `yaml:"grid"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Combo      ComboConfig      `yaml:"combo"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Gameplay   GameplayConfig   `yaml:"gameplay"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// GridConfig defines the board.
type GridConfig struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	MaxRank int `yaml:"max_rank"`
}

// ScoringConfig defines points per merge.
type ScoringConfig struct {
	BasePoints      int     `yaml:"base_points"`
	PointMultiplier float64 `yaml:"point_multiplier"`
}

// ComboConfig defines the combo window and multiplier growth.
type ComboConfig struct {
	Window    float64 `yaml:"window"`    // Seconds
	Increment float64 `yaml:"increment"` // Added to the multiplier per chained merge
	Cap       float64 `yaml:"cap"`
}

// SpawnConfig defines automatic spawning in endless mode.
// Campaign levels carry their own spawn settings.
type SpawnConfig struct {
	Interval      float64 `yaml:"interval"` // Seconds between spawns
	ItemsPerSpawn int     `yaml:"items_per_spawn"`
	InitialItems  int     `yaml:"initial_items"`
	MaxSpawnRank  int     `yaml:"max_spawn_rank"`
	Difficulty    int     `yaml:"difficulty"` // 1-5
}

// GameplayConfig defines session-level behaviour.
type GameplayConfig struct {
	LevelClearDelay float64 `yaml:"level_clear_delay"` // Seconds the clear banner stays up
	LevelsDir       string  `yaml:"levels_dir"`        // Optional directory of level packs
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	IntervalReduction float64 `yaml:"interval_reduction"` // Fraction of the spawn interval removed at max difficulty
	ExtraDifficulty   int     `yaml:"extra_difficulty"`   // Spawn difficulty steps added at max difficulty
}

// Core converts the configuration into simulation parameters.
func (c MergeConfig) Core() core.Config {
	return core.Config{
		Width:           c.Grid.Width,
		Height:          c.Grid.Height,
		MaxRank:         c.Grid.MaxRank,
		BasePoints:      c.Scoring.BasePoints,
		PointMultiplier: c.Scoring.PointMultiplier,
		ComboWindow:     c.Combo.Window,
		ComboIncrement:  c.Combo.Increment,
		ComboCap:        c.Combo.Cap,
	}.WithDefaults()
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

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
