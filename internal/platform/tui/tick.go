// Package tui provides the Bubble Tea integration for MergCrush.
// It handles the terminal UI loop, input mapping, menus and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jfxdev02-arch/mergcrush/internal/core"
)

// TickMsg drives one simulation step of the running game.
type TickMsg time.Time

// tickInterval converts a tick rate to the delay between steps.
// Non-positive rates use the default rate, matching what games assume.
func tickInterval(rate int) time.Duration {
	if rate <= 0 {
		rate = core.DefaultConfig().TickRate
	}
	return time.Second / time.Duration(rate)
}

// tickCmd schedules the next TickMsg.
func tickCmd(rate int) tea.Cmd {
	return tea.Tick(tickInterval(rate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
