// Package tui provides the Bubble Tea front end: the local terminal loop,
// key bindings, the menu, the results board and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// defaultTickRate is used when the configured rate is not positive.
const defaultTickRate = 30

// TickMsg asks the model to advance the simulation by one tick.
type TickMsg time.Time

// tickCmd schedules the next TickMsg at tickRate per second.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = defaultTickRate
	}
	return tea.Tick(time.Second/time.Duration(tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
