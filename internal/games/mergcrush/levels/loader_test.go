package levels_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush/core"
	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush/levels"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestCampaign(t *testing.T) {
	lvls, err := levels.Campaign()
	if err != nil {
		t.Fatalf("Campaign failed: %v", err)
	}
	if len(lvls) != 5 {
		t.Fatalf("expected 5 campaign levels, got %d", len(lvls))
	}

	wantTargets := []int{1000, 1500, 2000, 2500, 3000}
	for i, lvl := range lvls {
		if lvl.Target != wantTargets[i] {
			t.Errorf("level %s: expected target %d, got %d", lvl.ID, wantTargets[i], lvl.Target)
		}
		if lvl.Difficulty != i+1 {
			t.Errorf("level %s: expected difficulty %d, got %d", lvl.ID, i+1, lvl.Difficulty)
		}
		if lvl.InitialItems != lvl.Difficulty+4 {
			t.Errorf("level %s: expected %d initial items, got %d", lvl.ID, lvl.Difficulty+4, lvl.InitialItems)
		}
		if lvl.Stars != core.DefaultStarThresholds {
			t.Errorf("level %s: expected default stars, got %v", lvl.ID, lvl.Stars)
		}
	}

	last := lvls[4]
	if last.Width != 7 || last.Height != 9 {
		t.Errorf("expected 7x9 grid override, got %dx%d", last.Width, last.Height)
	}

	// Callers get a copy.
	lvls[0].Target = 1
	again := levels.MustCampaign()
	if again[0].Target != 1000 {
		t.Error("Campaign returned shared state")
	}
}

func TestLevelDefaults(t *testing.T) {
	lvls, err := levels.Parse([]byte("id: solo\ntarget: 500\n"), "solo.yaml")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(lvls) != 1 {
		t.Fatalf("expected 1 level, got %d", len(lvls))
	}

	lvl := lvls[0]
	if lvl.Name != "solo" {
		t.Errorf("expected name to default to id, got %q", lvl.Name)
	}
	if lvl.Difficulty != levels.MinDifficulty {
		t.Errorf("expected difficulty %d, got %d", levels.MinDifficulty, lvl.Difficulty)
	}
	if lvl.InitialItems != 5 {
		t.Errorf("expected 5 initial items, got %d", lvl.InitialItems)
	}
	if lvl.SpawnInterval != levels.DefaultSpawnInterval {
		t.Errorf("expected spawn interval %v, got %v", levels.DefaultSpawnInterval, lvl.SpawnInterval)
	}
	if lvl.MaxSpawnRank != levels.DefaultMaxSpawnRank {
		t.Errorf("expected max spawn rank %d, got %d", levels.DefaultMaxSpawnRank, lvl.MaxSpawnRank)
	}
	if lvl.FilePath != "solo.yaml" {
		t.Errorf("expected file path to be recorded, got %q", lvl.FilePath)
	}
	if lvl.ItemName(2) != "Item 2" {
		t.Errorf("expected generic item name, got %q", lvl.ItemName(2))
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing target", "id: x\n"},
		{"no id", "name: nameless\ntarget: 10\n"},
		{"two stars", "id: x\ntarget: 10\nstars: [100, 200]\n"},
		{"bad yaml", "id: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := levels.Parse([]byte(tt.data), ""); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestStarsFor(t *testing.T) {
	lvl := levels.Level{Target: 200, Stars: [3]int{50, 100, 150}}
	tests := []struct {
		score, stars int
	}{
		{99, 0},
		{100, 1},
		{200, 2},
		{300, 3},
	}
	for _, tt := range tests {
		if got := lvl.StarsFor(tt.score); got != tt.stars {
			t.Errorf("StarsFor(%d) = %d, want %d", tt.score, got, tt.stars)
		}
	}
}

func TestLoaderLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "levels:\n  - id: a1\n    target: 100\n  - id: a2\n    target: 200\n")
	writeFile(t, dir, "b.yml", "id: b1\ntarget: 300\ndifficulty: 9\n")
	writeFile(t, dir, "broken.yaml", "id: [\n")
	writeFile(t, dir, "notes.txt", "id: ignored\ntarget: 1\n")

	loader := levels.NewLoader(dir)
	lvls, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(lvls) != 3 {
		t.Fatalf("expected 3 levels, got %d", len(lvls))
	}
	wantIDs := []string{"a1", "a2", "b1"}
	for i, id := range wantIDs {
		if lvls[i].ID != id {
			t.Errorf("level %d: expected %q, got %q", i, id, lvls[i].ID)
		}
	}
	if lvls[2].Difficulty != levels.MaxDifficulty {
		t.Errorf("expected difficulty clamped to %d, got %d", levels.MaxDifficulty, lvls[2].Difficulty)
	}

	lvl, err := loader.LoadByID("a2")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	if lvl.Target != 200 {
		t.Errorf("expected target 200, got %d", lvl.Target)
	}
	if _, err := loader.LoadByID("missing"); err == nil {
		t.Error("expected error for missing level")
	}
}

func TestLoadFallsBackToCampaign(t *testing.T) {
	lvls, err := levels.Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(lvls) != 5 || lvls[0].ID != "sushi" {
		t.Errorf("expected the campaign, got %d levels", len(lvls))
	}
}

func TestApplyGridOverride(t *testing.T) {
	cfg := core.DefaultConfig()
	lvl := levels.Level{Width: 5, Height: 6}
	got := lvl.Apply(cfg)
	if got.Width != 5 || got.Height != 6 {
		t.Errorf("expected 5x6, got %dx%d", got.Width, got.Height)
	}
	if (levels.Level{}).Apply(cfg) != cfg {
		t.Error("level without override changed the config")
	}
}
