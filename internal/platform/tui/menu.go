package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jfxdev02-arch/mergcrush/internal/core"
	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush"
	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush/levels"
	"github.com/jfxdev02-arch/mergcrush/internal/progress"
	"github.com/jfxdev02-arch/mergcrush/internal/registry"
)

// Selection is what the player picked in the menu.
type Selection struct {
	Mode  mergcrush.Mode
	Level int // 1-indexed start level, 0 = start from the beginning
}

// GameID returns the registry identifier of the selected mode.
func (s Selection) GameID() string {
	if s.Mode == mergcrush.ModeEndless {
		return mergcrush.IDEndless
	}
	return mergcrush.IDCampaign
}

// NewGame creates the game for the selection.
func (s Selection) NewGame(opts ...mergcrush.Option) registry.Game {
	if s.Mode == mergcrush.ModeEndless {
		return mergcrush.NewEndless(opts...)
	}
	if s.Level > 0 {
		opts = append(opts, mergcrush.WithStartLevel(s.Level-1))
	}
	return mergcrush.New(opts...)
}

type menuEntry int

const (
	entryContinue menuEntry = iota
	entryCampaign
	entryEndless
	entrySelectLevel
	entryScores
	entryQuit
)

// MenuItem is one line of the main menu.
type MenuItem struct {
	Label string
	entry menuEntry
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuLockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuStarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	menuNoticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

// MenuModel is the Bubble Tea model for mode and level selection.
type MenuModel struct {
	items          []MenuItem
	levels         []levels.Level
	summary        []progress.LevelProgress
	cursor         int
	levelCursor    int
	inLevelSelect  bool
	notice         string
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	quitting       bool
	selected       *Selection
	openScoreboard bool
}

// NewMenuModel creates a new menu model. A nil tracker unlocks every level.
func NewMenuModel(tracker *progress.Tracker, cfg core.RuntimeConfig) MenuModel {
	lvls := mergcrush.CampaignLevels()
	m := MenuModel{
		levels:    lvls,
		summary:   levelSummary(tracker, lvls),
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}

	if next := m.continueLevel(); next > 1 {
		m.items = append(m.items, MenuItem{Label: fmt.Sprintf("Continue (Level %d)", next), entry: entryContinue})
	}
	m.items = append(m.items,
		MenuItem{Label: fmt.Sprintf("Campaign (%d levels)", len(lvls)), entry: entryCampaign},
		MenuItem{Label: "Endless Mode", entry: entryEndless},
		MenuItem{Label: "Select Level...", entry: entrySelectLevel},
		MenuItem{Label: "High Scores", entry: entryScores},
		MenuItem{Label: "Quit", entry: entryQuit},
	)
	return m
}

// levelSummary reads progress for lvls, falling back to all unlocked.
func levelSummary(tracker *progress.Tracker, lvls []levels.Level) []progress.LevelProgress {
	if tracker != nil && tracker.Levels() == len(lvls) {
		if summary, err := tracker.Summary(); err == nil {
			return summary
		}
	}
	summary := make([]progress.LevelProgress, len(lvls))
	for i, l := range lvls {
		summary[i] = progress.LevelProgress{Index: i, ID: l.ID, Unlocked: true}
	}
	return summary
}

// continueLevel returns the first uncleared unlocked level (1-indexed).
func (m MenuModel) continueLevel() int {
	last := 0
	for i, p := range m.summary {
		if !p.Unlocked {
			break
		}
		last = i
		if !p.Completed() {
			break
		}
	}
	return last + 1
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		action := m.keyMapper.MapKeyToMenuAction(msg)
		m.notice = ""
		if m.inLevelSelect {
			return m.handleLevelSelectKey(action)
		}
		return m.handleMainKey(action)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}

	return m, nil
}

func (m MenuModel) handleMainKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit

	case MenuActionSelect:
		switch m.items[m.cursor].entry {
		case entryContinue:
			m.selected = &Selection{Mode: mergcrush.ModeCampaign, Level: m.continueLevel()}
			return m, tea.Quit
		case entryCampaign:
			m.selected = &Selection{Mode: mergcrush.ModeCampaign}
			return m, tea.Quit
		case entryEndless:
			m.selected = &Selection{Mode: mergcrush.ModeEndless}
			return m, tea.Quit
		case entrySelectLevel:
			m.inLevelSelect = true
			m.levelCursor = m.continueLevel() - 1
		case entryScores:
			m.openScoreboard = true
			return m, tea.Quit
		case entryQuit:
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m MenuModel) handleLevelSelectKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.levelCursor > 0 {
			m.levelCursor--
		}
	case MenuActionDown:
		if m.levelCursor < len(m.levels)-1 {
			m.levelCursor++
		}
	case MenuActionSelect:
		if len(m.levels) == 0 {
			return m, nil
		}
		if !m.summary[m.levelCursor].Unlocked {
			m.notice = "Level locked - clear the previous level first"
			return m, nil
		}
		m.selected = &Selection{Mode: mergcrush.ModeCampaign, Level: m.levelCursor + 1}
		return m, tea.Quit
	case MenuActionBack:
		m.inLevelSelect = false
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting || m.selected != nil || m.openScoreboard {
		return ""
	}
	if m.inLevelSelect {
		return m.viewLevelSelect()
	}
	return m.viewMain()
}

func (m MenuModel) viewMain() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("M E R G C R U S H"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Drop, merge, crush", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+item.Label, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit", m.width))
	b.WriteString("\n")

	return b.String()
}

func (m MenuModel) viewLevelSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("SELECT LEVEL"), m.width))
	b.WriteString("\n\n")

	for i, lvl := range m.levels {
		cursor := "  "
		if i == m.levelCursor {
			cursor = "> "
		}

		p := m.summary[i]
		var line string
		switch {
		case !p.Unlocked:
			line = menuLockedStyle.Render(fmt.Sprintf("%s%2d. %-18s [locked]", cursor, i+1, lvl.Name))
		case p.Completed():
			line = fmt.Sprintf("%s%2d. %-18s %s  Best: %d", cursor, i+1, lvl.Name,
				menuStarStyle.Render(stars(p.BestStars)), p.BestScore)
		default:
			line = fmt.Sprintf("%s%2d. %-18s Target: %d", cursor, i+1, lvl.Name, lvl.Target)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if m.levelCursor < len(m.levels) {
		if desc := m.levels[m.levelCursor].Description; desc != "" {
			b.WriteString("\n")
			b.WriteString(centerText(menuLockedStyle.Render(desc), m.width))
			b.WriteString("\n")
		}
	}
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(centerText(menuNoticeStyle.Render(m.notice), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Play  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func stars(n int) string {
	n = core.Clamp(n, 0, 3)
	return strings.Repeat("★", n) + strings.Repeat("☆", 3-n)
}

// Selected returns the selection, or nil if none was made.
func (m MenuModel) Selected() *Selection {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Selection       *Selection
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(tracker *progress.Tracker, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(tracker, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.Selected() != nil:
		result.Selection = m.Selected()
	default:
		result.Quit = true
	}
	return result, nil
}
