package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/jfxdev02-arch/mergcrush/internal/config"
	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush"
	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush/levels"
	"github.com/jfxdev02-arch/mergcrush/internal/progress"
	"github.com/jfxdev02-arch/mergcrush/internal/storage"
)

// Shared state built by setup before any command runs.
var (
	logger   *log.Logger
	logFile  *os.File
	gameCfg  config.MergeConfig
	campaign []levels.Level
)

// setup parses logging and game configuration flags and installs the
// result as the package defaults of the game.
func setup() error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	var out io.Writer = os.Stderr
	if flagLogFile != "" {
		path := expandHome(flagLogFile)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		logFile = f
		out = f
	}
	logger = log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "mergcrush",
	})

	gameCfg, err = loadGameConfig(flagConfig, flagDifficulty)
	if err != nil {
		return err
	}

	dir := flagLevelsDir
	if dir == "" {
		dir = gameCfg.Gameplay.LevelsDir
	}
	campaign, err = levels.Load(expandHome(dir))
	if err != nil {
		return fmt.Errorf("cannot load levels: %w", err)
	}
	logger.Debug("configuration loaded", "levels", len(campaign), "levels_dir", dir, "difficulty", flagDifficulty)

	mergcrush.Configure(mergcrush.Settings{
		Config: gameCfg,
		Levels: campaign,
		Logger: logger,
	})
	return nil
}

// loadGameConfig reads the YAML config and applies a difficulty preset.
func loadGameConfig(path, difficulty string) (config.MergeConfig, error) {
	cfg, err := config.LoadMerge(path)
	if err != nil {
		return cfg, err
	}
	if difficulty == "" {
		return cfg, nil
	}
	preset, err := config.ParsePreset(difficulty)
	if err != nil {
		return cfg, err
	}
	config.ApplyMergePreset(&cfg, preset)
	return cfg, nil
}

// quietLogger returns the logger for full-screen commands. Without
// --log-file, output would draw over the terminal UI, so it is dropped.
func quietLogger() *log.Logger {
	if logFile != nil {
		return logger
	}
	return log.New(io.Discard)
}

// openStore opens the scores database.
func openStore() (*storage.Store, error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, fmt.Errorf("could not open scores database: %w", err)
	}
	return store, nil
}

// newTracker builds campaign progress on top of store. A nil store keeps
// progress in memory for this process only.
func newTracker(store *storage.Store) (*progress.Tracker, error) {
	var kv progress.KV = progress.NewMemoryKV()
	if store != nil {
		kv = store
	}
	return progress.NewTracker(kv, levelIDs(campaign))
}

func levelIDs(lvls []levels.Level) []string {
	ids := make([]string, len(lvls))
	for i, l := range lvls {
		ids[i] = l.ID
	}
	return ids
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
