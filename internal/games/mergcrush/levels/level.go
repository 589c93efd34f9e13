// Package levels provides the MergCrush campaign and level pack loading.
// This package depends on core but core does not depend on levels.
package levels

import (
	"fmt"

	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush/core"
	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush/levels/formats"
)

// Level defaults.
const (
	DefaultSpawnInterval = 2.0
	DefaultItemsPerSpawn = 1
	DefaultMaxSpawnRank  = 3
	MinDifficulty        = 1
	MaxDifficulty        = 5
)

// Theme is the cosmetic part of a level.
type Theme struct {
	Name      string
	Accent    string   // Terminal colour, e.g. "208" or "#ff6633"
	ItemNames []string // Display name per rank, index 0 is rank 1
}

// Level is a complete level definition.
type Level struct {
	ID            string
	Name          string
	Description   string
	Theme         Theme
	Target        int
	Difficulty    int
	InitialItems  int
	SpawnInterval float64 // Seconds between automatic spawns
	ItemsPerSpawn int
	MaxSpawnRank  int
	Width         int // 0 keeps the configured grid
	Height        int
	Stars         [3]int  // Percent of Target for 1, 2 and 3 stars
	TimeLimit     float64 // Seconds, 0 for none
	MoveLimit     int     // Drops, 0 for none
	FilePath      string
}

// FromYAML converts a parsed level, filling defaults.
func FromYAML(yl formats.YAMLLevel) (Level, error) {
	if yl.ID == "" {
		return Level{}, fmt.Errorf("level without id")
	}
	if yl.Target <= 0 {
		return Level{}, fmt.Errorf("level %s: target must be positive", yl.ID)
	}

	lvl := Level{
		ID:            yl.ID,
		Name:          yl.Name,
		Description:   yl.Description,
		Target:        yl.Target,
		Difficulty:    min(max(yl.Difficulty, MinDifficulty), MaxDifficulty),
		InitialItems:  yl.InitialItems,
		SpawnInterval: yl.SpawnInterval,
		ItemsPerSpawn: yl.ItemsPerSpawn,
		MaxSpawnRank:  yl.MaxSpawnRank,
		TimeLimit:     max(yl.TimeLimit, 0),
		MoveLimit:     max(yl.MoveLimit, 0),
		Stars:         core.DefaultStarThresholds,
		Theme: Theme{
			Name:      yl.Theme.Name,
			Accent:    yl.Theme.Accent,
			ItemNames: yl.Theme.Items,
		},
	}

	if lvl.Name == "" {
		lvl.Name = lvl.ID
	}
	if lvl.InitialItems <= 0 {
		lvl.InitialItems = lvl.Difficulty + 4
	}
	if lvl.SpawnInterval <= 0 {
		lvl.SpawnInterval = DefaultSpawnInterval
	}
	if lvl.ItemsPerSpawn <= 0 {
		lvl.ItemsPerSpawn = DefaultItemsPerSpawn
	}
	if lvl.MaxSpawnRank <= 0 {
		lvl.MaxSpawnRank = DefaultMaxSpawnRank
	}
	if yl.Grid != nil && yl.Grid.W > 0 && yl.Grid.H > 0 {
		lvl.Width = yl.Grid.W
		lvl.Height = yl.Grid.H
	}
	if len(yl.Stars) == 3 {
		copy(lvl.Stars[:], yl.Stars)
	} else if len(yl.Stars) != 0 {
		return Level{}, fmt.Errorf("level %s: stars needs 3 thresholds, got %d", yl.ID, len(yl.Stars))
	}

	return lvl, nil
}

// Goal returns the scoring goal of the level.
func (l Level) Goal() core.Goal {
	return core.Goal{Target: l.Target, StarThresholds: l.Stars}
}

// StarsFor returns 0-3 stars for score.
func (l Level) StarsFor(score int) int {
	return l.Goal().Stars(score)
}

// Picker returns the weighted rank picker capped at the level's max spawn rank.
func (l Level) Picker(maxRank int) core.WeightedRanks {
	return core.WeightedRanks{MaxRank: maxRank, Cap: l.MaxSpawnRank}
}

// Apply overlays the level's grid override onto cfg.
func (l Level) Apply(cfg core.Config) core.Config {
	if l.Width > 0 && l.Height > 0 {
		cfg.Width = l.Width
		cfg.Height = l.Height
	}
	return cfg
}

// ItemName returns the theme's name for rank, or a generic one.
func (l Level) ItemName(rank int) string {
	if rank >= 1 && rank <= len(l.Theme.ItemNames) && l.Theme.ItemNames[rank-1] != "" {
		return l.Theme.ItemNames[rank-1]
	}
	return fmt.Sprintf("Item %d", rank)
}
