// Package commands provides watch board command constructors and message types.
package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/onduty/internal/roster"
)

// TickMsg is sent once per clock tick.
type TickMsg struct {
	Time time.Time
}

// DirectoryLoadedMsg is sent when the directory has been (re)loaded.
type DirectoryLoadedMsg struct {
	Directory *roster.Directory
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// Tick schedules the next TickMsg after every.
func Tick(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// LoadDirectory reads the latest directory from repo.
func LoadDirectory(repo roster.Repository) tea.Cmd {
	return func() tea.Msg {
		d, err := repo.Load(context.Background())
		if err != nil {
			return ErrMsg{Err: err}
		}
		if d == nil {
			d = roster.NewDirectory()
		}
		return DirectoryLoadedMsg{Directory: d}
	}
}

// ShowStatus emits msg as a status line.
func ShowStatus(msg string) tea.Cmd {
	return func() tea.Msg {
		return StatusMsgCmd{Msg: msg}
	}
}

// ClearStatusAfter clears the status line after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
