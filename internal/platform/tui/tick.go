// Package tui provides the Bubble Tea integration for Choco Dash.
// It handles the terminal UI loop, input mapping, registration and
// checkpoint dialogs, and persistence of scores and readings.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick. Source is the id of the
// model that scheduled it; other models drop it.
type TickMsg struct {
	Time   time.Time
	Source int64
}

var modelIDs atomic.Int64

func nextModelID() int64 {
	return modelIDs.Add(1)
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int, source int64) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Source: source}
	})
}
