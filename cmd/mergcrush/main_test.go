package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jfxdev02-arch/mergcrush/internal/config"
	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush"
	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush/levels"
	"github.com/jfxdev02-arch/mergcrush/internal/progress"
)

func useCampaign(t *testing.T) []levels.Level {
	t.Helper()
	prev := campaign
	campaign = levels.MustCampaign()
	t.Cleanup(func() { campaign = prev })
	return campaign
}

func TestParseSelection(t *testing.T) {
	lvls := useCampaign(t)
	tracker, err := progress.NewTracker(progress.NewMemoryKV(), levelIDs(lvls))
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}

	sel, err := parseSelection("endless", 0, tracker)
	if err != nil || sel.Mode != mergcrush.ModeEndless {
		t.Errorf("endless = %+v, %v", sel, err)
	}
	sel, err = parseSelection("campaign", 0, tracker)
	if err != nil || sel.Mode != mergcrush.ModeCampaign || sel.Level != 0 {
		t.Errorf("campaign = %+v, %v", sel, err)
	}
	sel, err = parseSelection("campaign", 1, tracker)
	if err != nil || sel.Level != 1 {
		t.Errorf("campaign level 1 = %+v, %v", sel, err)
	}

	if _, err := parseSelection("campaign", 2, tracker); err == nil {
		t.Error("locked level should be refused")
	}
	if err := tracker.UnlockAll(); err != nil {
		t.Fatalf("UnlockAll: %v", err)
	}
	if _, err := parseSelection("campaign", 2, tracker); err != nil {
		t.Errorf("unlocked level refused: %v", err)
	}

	for _, tc := range []struct {
		mode  string
		level int
	}{
		{"arcade", 0},
		{"endless", 3},
		{"campaign", len(lvls) + 1},
		{"campaign", -1},
	} {
		if _, err := parseSelection(tc.mode, tc.level, tracker); err == nil {
			t.Errorf("parseSelection(%q, %d) should fail", tc.mode, tc.level)
		}
	}
}

func TestFindLevel(t *testing.T) {
	lvls := useCampaign(t)

	lvl, err := findLevel(lvls, "")
	if err != nil || lvl != nil {
		t.Errorf("empty ref = %v, %v; want endless", lvl, err)
	}

	lvl, err = findLevel(lvls, "2")
	if err != nil || lvl.ID != lvls[1].ID {
		t.Errorf("findLevel(2) = %v, %v", lvl, err)
	}

	lvl, err = findLevel(lvls, lvls[0].ID)
	if err != nil || lvl.ID != lvls[0].ID {
		t.Errorf("findLevel(%q) = %v, %v", lvls[0].ID, lvl, err)
	}

	if _, err := findLevel(lvls, "0"); err == nil {
		t.Error("level 0 should be out of range")
	}
	if _, err := findLevel(lvls, "no-such-level"); err == nil {
		t.Error("unknown ID should fail")
	}
}

func TestLoadGameConfigAppliesPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mergcrush.yaml")
	if err := os.WriteFile(path, []byte("spawn:\n  interval: 4.0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadGameConfig(path, "")
	if err != nil {
		t.Fatalf("loadGameConfig: %v", err)
	}
	if cfg.Spawn.Interval != 4.0 {
		t.Errorf("interval = %v, want 4.0", cfg.Spawn.Interval)
	}

	cfg, err = loadGameConfig(path, "hard")
	if err != nil {
		t.Fatalf("loadGameConfig hard: %v", err)
	}
	if cfg.Spawn.Interval != 3.0 {
		t.Errorf("hard interval = %v, want 3.0", cfg.Spawn.Interval)
	}
	def := config.DefaultMergeConfig()
	if cfg.Spawn.ItemsPerSpawn != def.Spawn.ItemsPerSpawn+1 {
		t.Errorf("hard items per spawn = %d", cfg.Spawn.ItemsPerSpawn)
	}

	cfg, err = loadGameConfig(path, "fixed")
	if err != nil {
		t.Fatalf("loadGameConfig fixed: %v", err)
	}
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	if _, err := loadGameConfig(path, "brutal"); err == nil {
		t.Error("unknown preset should fail")
	}
	if _, err := loadGameConfig(filepath.Join(t.TempDir(), "missing.yaml"), ""); err == nil {
		t.Error("missing config file should fail")
	}
}

func TestFormatBoard(t *testing.T) {
	ranks := [][]int{
		{1, 2, 0}, // floor
		{0, 3, 0},
	}
	want := "  |    .    8    . |\n" +
		"  |    2    4    . |"
	if got := formatBoard(ranks); got != want {
		t.Errorf("formatBoard =\n%s\nwant\n%s", got, want)
	}
}

func TestHelpers(t *testing.T) {
	if got := portOf(":23234"); got != "23234" {
		t.Errorf("portOf = %q", got)
	}
	if got := portOf("0.0.0.0:2222"); got != "2222" {
		t.Errorf("portOf = %q", got)
	}
	if got := displayAddr(":8080"); got != "localhost:8080" {
		t.Errorf("displayAddr = %q", got)
	}
	if got := starMarks(2); got != "**." {
		t.Errorf("starMarks(2) = %q", got)
	}
	if got := starMarks(7); got != "***" {
		t.Errorf("starMarks(7) = %q", got)
	}
	if id, ok := gameIDForMode("endless"); !ok || id != mergcrush.IDEndless {
		t.Errorf("gameIDForMode(endless) = %q, %v", id, ok)
	}
	if _, ok := gameIDForMode("sim"); ok {
		t.Error("sim has no leaderboard")
	}
}
