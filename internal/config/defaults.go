package config

import (
	_ "embed"

	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush/core"
)

//go:embed defaults/mergcrush.yaml
var defaultMergeYAML []byte

// DefaultMergeConfig returns the default MergCrush configuration.
func DefaultMergeConfig() MergeConfig {
	return MergeConfig{
		Grid: GridConfig{
			Width:   core.DefaultWidth,
			Height:  core.DefaultHeight,
			MaxRank: core.DefaultMaxRank,
		},
		Scoring: ScoringConfig{
			BasePoints:      core.DefaultBasePoints,
			PointMultiplier: core.DefaultPointMultiplier,
		},
		Combo: ComboConfig{
			Window:    core.DefaultComboWindow,
			Increment: core.DefaultComboIncrement,
			Cap:       core.DefaultComboCap,
		},
		Spawn: SpawnConfig{
			Interval:      2.0,
			ItemsPerSpawn: 1,
			InitialItems:  5,
			MaxSpawnRank:  3,
			Difficulty:    1,
		},
		Gameplay: GameplayConfig{
			LevelClearDelay: 2.0,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 20000,
			},
			Scaling: ScalingConfig{
				IntervalReduction: 0.5,
				ExtraDifficulty:   4,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultMergeYAML
}
