package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush"
	"github.com/jfxdev02-arch/mergcrush/internal/progress"
)

func campaignTracker(t *testing.T) *progress.Tracker {
	t.Helper()
	lvls := mergcrush.CampaignLevels()
	ids := make([]string, len(lvls))
	for i, l := range lvls {
		ids[i] = l.ID
	}
	tr, err := progress.NewTracker(progress.NewMemoryKV(), ids)
	if err != nil {
		t.Fatalf("NewTracker failed: %v", err)
	}
	return tr
}

func menuKey(t *testing.T, m MenuModel, msg tea.KeyMsg) MenuModel {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(MenuModel)
	if !ok {
		t.Fatalf("Update returned %T, want MenuModel", next)
	}
	return nm
}

func labels(m MenuModel) []string {
	out := make([]string, len(m.items))
	for i, it := range m.items {
		out[i] = it.Label
	}
	return out
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

func TestMenuSelectsModes(t *testing.T) {
	m := NewMenuModel(campaignTracker(t), testRuntime())

	if strings.HasPrefix(labels(m)[0], "Continue") {
		t.Fatalf("fresh progress should not offer Continue: %v", labels(m))
	}

	campaign := menuKey(t, m, keyEnter)
	if sel := campaign.Selected(); sel == nil || sel.Mode != mergcrush.ModeCampaign || sel.Level != 0 {
		t.Errorf("Selected = %+v, want campaign from the start", sel)
	}

	endless := menuKey(t, menuKey(t, m, keyDown), keyEnter)
	sel := endless.Selected()
	if sel == nil || sel.Mode != mergcrush.ModeEndless {
		t.Fatalf("Selected = %+v, want endless", sel)
	}
	if sel.GameID() != mergcrush.IDEndless {
		t.Errorf("GameID = %q, want %q", sel.GameID(), mergcrush.IDEndless)
	}
	if g := sel.NewGame(); g.ID() != mergcrush.IDEndless {
		t.Errorf("NewGame().ID() = %q, want %q", g.ID(), mergcrush.IDEndless)
	}
}

func TestMenuContinueAfterProgress(t *testing.T) {
	tr := campaignTracker(t)
	if _, err := tr.Complete(0, 100, 1); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	m := NewMenuModel(tr, testRuntime())
	if got := labels(m)[0]; got != "Continue (Level 2)" {
		t.Fatalf("first item = %q, want Continue (Level 2)", got)
	}

	m = menuKey(t, m, keyEnter)
	if sel := m.Selected(); sel == nil || sel.Level != 2 {
		t.Errorf("Selected = %+v, want level 2", sel)
	}
}

func TestMenuLevelSelectRespectsLocks(t *testing.T) {
	m := NewMenuModel(campaignTracker(t), testRuntime())

	// Campaign, Endless, Select Level
	m = menuKey(t, m, keyDown)
	m = menuKey(t, m, keyDown)
	m = menuKey(t, m, keyEnter)
	if !m.inLevelSelect {
		t.Fatal("expected the level list")
	}
	if !strings.Contains(m.View(), "[locked]") {
		t.Error("level list should show locked levels")
	}

	m = menuKey(t, m, keyDown)
	m = menuKey(t, m, keyEnter)
	if m.Selected() != nil {
		t.Fatal("locked level should not be selectable")
	}
	if m.notice == "" {
		t.Error("expected a locked notice")
	}

	m = menuKey(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = menuKey(t, m, keyEnter)
	if sel := m.Selected(); sel == nil || sel.Level != 1 {
		t.Errorf("Selected = %+v, want level 1", sel)
	}
}

func TestMenuWithoutTrackerUnlocksAll(t *testing.T) {
	m := NewMenuModel(nil, testRuntime())
	for i, p := range m.summary {
		if !p.Unlocked {
			t.Errorf("level %d locked without a tracker", i)
		}
	}
}

func TestMenuScoreboardAndQuit(t *testing.T) {
	m := NewMenuModel(nil, testRuntime())

	if sb := menuKey(t, m, keyTab); !sb.WantsScoreboard() {
		t.Error("Tab should open the scoreboard")
	}
	if q := menuKey(t, m, runeKey("q")); !q.IsQuitting() {
		t.Error("q should quit")
	}
}

func TestSessionMenuToScoreboardAndBack(t *testing.T) {
	s := NewSessionModel(SessionDeps{Tracker: campaignTracker(t)}, testRuntime())

	step := func(msg tea.Msg) {
		t.Helper()
		next, _ := s.Update(msg)
		var ok bool
		if s, ok = next.(SessionModel); !ok {
			t.Fatalf("Update returned %T, want SessionModel", next)
		}
	}

	step(keyTab)
	if s.view != viewScores {
		t.Fatalf("view = %v, want scoreboard", s.view)
	}
	if !strings.Contains(s.View(), "HIGH SCORES") {
		t.Error("scoreboard title missing")
	}

	step(keyEsc)
	if s.view != viewMenu {
		t.Fatalf("view = %v, want menu", s.view)
	}

	step(keyEnter)
	if s.view != viewGame {
		t.Fatalf("view = %v, want game", s.view)
	}
	if s.game.game.ID() != mergcrush.IDCampaign {
		t.Errorf("game = %q, want %q", s.game.game.ID(), mergcrush.IDCampaign)
	}

	step(keyEsc)
	if s.view != viewMenu {
		t.Errorf("Esc in game should return to the menu, view = %v", s.view)
	}
}
