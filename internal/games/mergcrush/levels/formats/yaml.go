// Package formats provides level file format parsers.
package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLLevel represents the YAML structure of one level.
type YAMLLevel struct {
	ID            string    `yaml:"id"`
	Name          string    `yaml:"name"`
	Description   string    `yaml:"description,omitempty"`
	Theme         YAMLTheme `yaml:"theme,omitempty"`
	Target        int       `yaml:"target"`
	Difficulty    int       `yaml:"difficulty"`
	InitialItems  int       `yaml:"initial_items,omitempty"`
	SpawnInterval float64   `yaml:"spawn_interval,omitempty"`
	ItemsPerSpawn int       `yaml:"items_per_spawn,omitempty"`
	MaxSpawnRank  int       `yaml:"max_spawn_rank,omitempty"`
	Grid          *YAMLSize `yaml:"grid,omitempty"`
	Stars         []int     `yaml:"stars,omitempty"`
	TimeLimit     float64   `yaml:"time_limit,omitempty"`
	MoveLimit     int       `yaml:"move_limit,omitempty"`
}

// YAMLTheme holds the cosmetic part of a level.
type YAMLTheme struct {
	Name   string   `yaml:"name"`
	Accent string   `yaml:"accent,omitempty"`
	Items  []string `yaml:"items,omitempty"`
}

// YAMLSize represents grid dimensions.
type YAMLSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// YAMLPack is a file holding several levels.
type YAMLPack struct {
	Levels []YAMLLevel `yaml:"levels"`
}

// ParseYAML parses a level file. A file holds either a single level
// or a pack under a top-level "levels" key.
func ParseYAML(data []byte) ([]YAMLLevel, error) {
	var pack YAMLPack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if len(pack.Levels) > 0 {
		return pack.Levels, nil
	}

	var single YAMLLevel
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if single.ID == "" {
		return nil, fmt.Errorf("no levels found")
	}
	return []YAMLLevel{single}, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
