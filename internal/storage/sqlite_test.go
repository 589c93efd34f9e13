package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jfxdev02-arch/mergcrush/internal/progress"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveScore("mergcrush", score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("mergcrush_endless", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("mergcrush", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in descending order: %v", scores)
	}

	endless, err := store.TopScores("mergcrush_endless", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(endless) != 1 {
		t.Errorf("Expected 1 endless score, got %d", len(endless))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore("test", (i+1)*100)
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	all, err := store.AllScores("test")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("Expected 5 scores, got %d", len(all))
	}
}

func TestStoreHighScoreAndClear(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("mergcrush")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty mode, got %d", high)
	}

	store.SaveScore("mergcrush", 100)
	store.SaveScore("mergcrush", 300)
	store.SaveScore("other", 900)

	high, _ = store.HighScore("mergcrush")
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}

	if err := store.ClearScores("mergcrush"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if scores, _ := store.TopScores("mergcrush", 10); len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if scores, _ := store.TopScores("other", 10); len(scores) != 1 {
		t.Error("Other modes should not be affected by clearing")
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetGameStats("mergcrush")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("Expected empty stats, got %+v", stats)
	}

	store.SaveScore("mergcrush", 100)
	store.SaveScore("mergcrush", 300)

	stats, err = store.GetGameStats("mergcrush")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.TotalScore != 400 || stats.AvgScore != 200 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestStoreRuns(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveRun(Run{
		Mode:        "mergcrush",
		LevelID:     "sushi",
		Score:       1200,
		Stars:       1,
		Merges:      14,
		MaxCombo:    4,
		HighestRank: 5,
		Spawned:     30,
		Outcome:     OutcomeCleared,
		Seed:        42,
		Duration:    95,
	})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if len(id) != 36 {
		t.Errorf("Expected a UUID run id, got %q", id)
	}

	run, err := store.RunByID(id)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if run == nil {
		t.Fatal("RunByID() returned nil for a saved run")
	}
	if run.LevelID != "sushi" || run.Score != 1200 || run.Outcome != OutcomeCleared || run.Seed != 42 {
		t.Errorf("Unexpected run: %+v", run)
	}

	missing, err := store.RunByID("nope")
	if err != nil || missing != nil {
		t.Errorf("RunByID(missing) = %v, %v; want nil, nil", missing, err)
	}

	store.SaveRun(Run{ID: "fixed-id", Mode: "sim", Outcome: OutcomeFinished})
	if _, err := store.SaveRun(Run{ID: "fixed-id", Mode: "sim", Outcome: OutcomeFinished}); err == nil {
		t.Error("Expected duplicate run id to fail")
	}

	all, err := store.RecentRuns("", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 runs, got %d", len(all))
	}

	sims, err := store.RecentRuns("sim", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(sims) != 1 || sims[0].ID != "fixed-id" {
		t.Errorf("Expected only the sim run, got %v", sims)
	}
}

func TestStoreKV(t *testing.T) {
	store := openTestStore(t)

	v, err := store.GetInt("missing", 7)
	if err != nil {
		t.Fatalf("GetInt() failed: %v", err)
	}
	if v != 7 {
		t.Errorf("Expected default 7, got %d", v)
	}

	if err := store.SetInt("k", 1); err != nil {
		t.Fatalf("SetInt() failed: %v", err)
	}
	if err := store.SetInt("k", 2); err != nil {
		t.Fatalf("SetInt() overwrite failed: %v", err)
	}
	if v, _ := store.GetInt("k", 0); v != 2 {
		t.Errorf("Expected 2, got %d", v)
	}

	if err := store.Delete("k"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if err := store.Delete("k"); err != nil {
		t.Fatalf("Delete() of missing key failed: %v", err)
	}
	if v, _ := store.GetInt("k", -1); v != -1 {
		t.Errorf("Expected default after delete, got %d", v)
	}
}

func TestStoreBacksProgress(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "progress.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	ids := []string{"sushi", "cafe"}
	tracker, err := progress.NewTracker(store, ids)
	if err != nil {
		t.Fatalf("NewTracker() failed: %v", err)
	}
	if _, err := tracker.Complete(0, 1500, 2); err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
	store.Close()

	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer reopened.Close()

	tracker, err = progress.NewTracker(reopened, ids)
	if err != nil {
		t.Fatalf("NewTracker() failed: %v", err)
	}
	if !tracker.IsUnlocked(1) {
		t.Error("Unlock did not persist")
	}
	if stars, _ := tracker.BestStars(0); stars != 2 {
		t.Errorf("Expected 2 stars, got %d", stars)
	}
}
