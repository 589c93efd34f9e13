package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jfxdev02-arch/mergcrush/internal/core"
	"github.com/jfxdev02-arch/mergcrush/internal/progress"
	"github.com/jfxdev02-arch/mergcrush/internal/storage"
)

// scriptedGame replays a fixed sequence of step results.
type scriptedGame struct {
	resets  int
	resized [2]int
	inputs  []core.InputFrame
	script  []core.StepResult
	state   core.GameState
}

func (g *scriptedGame) ID() string { return "mergcrush" }
func (g *scriptedGame) Title() string { return "MergCrush" }
func (g *scriptedGame) Reset(core.RuntimeConfig) { g.resets++ }
func (g *scriptedGame) Render(dst *core.Screen) { dst.DrawText(0, 0, "board") }
func (g *scriptedGame) State() core.GameState { return g.state }
func (g *scriptedGame) Resize(w, h int) { g.resized = [2]int{w, h} }
func (g *scriptedGame) Step(in core.InputFrame) core.StepResult {
	g.inputs = append(g.inputs, in.Clone())
	if len(g.script) == 0 {
		return core.StepResult{State: g.state}
	}
	res := g.script[0]
	g.script = g.script[1:]
	g.state = res.State
	return res
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestTracker(t *testing.T, kv progress.KV) *progress.Tracker {
	t.Helper()
	tr, err := progress.NewTracker(kv, []string{"l1", "l2", "l3"})
	if err != nil {
		t.Fatalf("NewTracker failed: %v", err)
	}
	return tr
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm
}

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7}
}

func TestModelForwardsKeysOnNextTick(t *testing.T) {
	g := &scriptedGame{}
	m := NewModel(g, nil, testRuntime())

	m = update(t, m, runeKey("a"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})

	if len(g.inputs) != 2 {
		t.Fatalf("stepped %d times, want 2", len(g.inputs))
	}
	if !g.inputs[0].Has(core.ActionLeft) || !g.inputs[0].Has(core.ActionDrop) {
		t.Errorf("first frame = %v, want Left and Drop", g.inputs[0].Actions)
	}
	if !g.inputs[1].Empty() {
		t.Errorf("second frame = %v, want empty", g.inputs[1].Actions)
	}
}

func TestModelResizeKeepsGame(t *testing.T) {
	g := &scriptedGame{}
	m := NewModel(g, nil, testRuntime())

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	if g.resets != 0 {
		t.Errorf("resize reset the game %d times", g.resets)
	}
	if g.resized != [2]int{100, 40} {
		t.Errorf("resized = %v, want [100 40]", g.resized)
	}
	if m.screen.Width() != 100 || m.screen.Height() != 40 {
		t.Errorf("screen = %dx%d, want 100x40", m.screen.Width(), m.screen.Height())
	}
}

func TestModelRecordsLevelAndGameOver(t *testing.T) {
	store := openStore(t)
	tracker := newTestTracker(t, store)

	cleared := core.GameState{
		Mode: "campaign", LevelIndex: 0, LevelID: "l1",
		Score: 300, LevelScore: 300, Stars: 2, Cleared: true, Outcome: core.OutcomeCleared,
		Merges: 4, Elapsed: 12,
	}
	over := core.GameState{
		Mode: "campaign", LevelIndex: 1, LevelID: "l2",
		Score: 350, LevelScore: 50, GameOver: true, Outcome: core.OutcomeBlocked,
		Elapsed: 20,
	}
	g := &scriptedGame{script: []core.StepResult{
		{State: cleared, LevelCleared: true},
		{State: over},
		{State: over},
	}}
	m := NewModel(g, store, testRuntime(), WithTracker(tracker))

	for range 3 {
		m = update(t, m, TickMsg{})
	}

	if !tracker.IsUnlocked(1) {
		t.Error("clearing level 1 should unlock level 2")
	}
	if best, _ := tracker.BestStars(0); best != 2 {
		t.Errorf("BestStars(0) = %d, want 2", best)
	}

	scores, err := store.TopScores("mergcrush", 10)
	if err != nil {
		t.Fatalf("TopScores failed: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 350 {
		t.Errorf("scores = %+v, want one score of 350", scores)
	}

	runs, err := store.RecentRuns("campaign", 10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	// Newest first
	if runs[0].Outcome != storage.OutcomeBlocked || runs[0].Score != 50 || runs[0].LevelID != "l2" {
		t.Errorf("last run = %+v", runs[0])
	}
	if runs[1].Outcome != storage.OutcomeCleared || runs[1].Score != 300 || runs[1].Seed != 7 || runs[1].Duration != 12 {
		t.Errorf("first run = %+v", runs[1])
	}
}

func TestModelRestartResetsGame(t *testing.T) {
	g := &scriptedGame{}
	m := NewModel(g, nil, testRuntime())

	m = update(t, m, runeKey("r"))
	m = update(t, m, TickMsg{})

	if g.resets != 1 {
		t.Errorf("resets = %d, want 1", g.resets)
	}
	if len(g.inputs) != 0 {
		t.Errorf("restart tick should not step the game")
	}
	if m.config.Seed == 7 {
		t.Error("restart should pick a new seed")
	}
}

func TestModelBackAndQuit(t *testing.T) {
	store := openStore(t)
	playing := core.GameState{Mode: "endless", Score: 40, LevelScore: 40, Elapsed: 3}
	g := &scriptedGame{script: []core.StepResult{{State: playing}}}

	m := NewModel(g, store, testRuntime())
	m = update(t, m, TickMsg{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if !m.BackToMenu() {
		t.Error("Esc should return to the menu")
	}
	if m.View() != "" {
		t.Error("View should be empty after leaving")
	}

	runs, err := store.RecentRuns("endless", 10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Outcome != storage.OutcomeAbandon || runs[0].Score != 40 {
		t.Errorf("runs = %+v, want one abandoned run", runs)
	}

	_, cmd := NewModel(&scriptedGame{}, nil, testRuntime()).Update(runeKey("q"))
	if cmd == nil {
		t.Error("q should return a quit command")
	}
}

func TestModelView(t *testing.T) {
	m := NewModel(&scriptedGame{}, nil, testRuntime())
	if got := m.View(); len(got) == 0 {
		t.Fatal("View returned nothing")
	}
}
