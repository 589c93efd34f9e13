package levels

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush/levels/formats"
)

//go:embed campaign.yaml
var campaignYAML []byte

var (
	campaignOnce   sync.Once
	campaignLevels []Level
	campaignErr    error
)

// Campaign returns the built-in campaign in play order.
func Campaign() ([]Level, error) {
	campaignOnce.Do(func() {
		campaignLevels, campaignErr = Parse(campaignYAML, "")
	})
	if campaignErr != nil {
		return nil, fmt.Errorf("levels: built-in campaign: %w", campaignErr)
	}
	return slices.Clone(campaignLevels), nil
}

// MustCampaign is like Campaign but panics on a malformed embedded campaign.
func MustCampaign() []Level {
	lvls, err := Campaign()
	if err != nil {
		panic(err)
	}
	return lvls
}

// Parse parses level YAML. path is recorded on each level.
func Parse(data []byte, path string) ([]Level, error) {
	parsed, err := formats.ParseYAML(data)
	if err != nil {
		return nil, err
	}

	result := make([]Level, 0, len(parsed))
	for _, yl := range parsed {
		lvl, err := FromYAML(yl)
		if err != nil {
			return nil, err
		}
		lvl.FilePath = path
		result = append(result, lvl)
	}
	return result, nil
}

// Loader loads level packs from a directory.
type Loader struct {
	Root string
}

// NewLoader creates a new level loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all level files.
// Files are read in lexical order; levels keep their in-file order.
// Invalid files are skipped.
func (l *Loader) LoadAll() ([]Level, error) {
	var result []Level

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !slices.Contains(formats.FormatExtensions(), ext) {
			return nil
		}

		lvls, err := l.LoadFile(path)
		if err != nil {
			// Skip invalid files
			return nil
		}
		result = append(result, lvls...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("levels: walking directory %s: %w", l.Root, err)
	}

	return result, nil
}

// LoadFile loads every level in a single file.
func (l *Loader) LoadFile(path string) ([]Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("levels: reading file %s: %w", path, err)
	}

	lvls, err := Parse(data, path)
	if err != nil {
		return nil, fmt.Errorf("levels: parsing file %s: %w", path, err)
	}
	return lvls, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	lvls, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	if lvl, ok := Find(lvls, id); ok {
		return lvl, nil
	}
	return Level{}, fmt.Errorf("levels: level not found: %s", id)
}

// Find returns the level with id.
func Find(lvls []Level, id string) (Level, bool) {
	for _, lvl := range lvls {
		if lvl.ID == id {
			return lvl, true
		}
	}
	return Level{}, false
}

// Load returns the campaign, replaced by the packs under dir when dir is
// non-empty and holds at least one valid level.
func Load(dir string) ([]Level, error) {
	if dir == "" {
		return Campaign()
	}
	lvls, err := NewLoader(dir).LoadAll()
	if err != nil {
		return nil, err
	}
	if len(lvls) == 0 {
		return Campaign()
	}
	return lvls, nil
}
