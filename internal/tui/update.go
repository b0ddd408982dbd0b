package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/onduty/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case commands.TickMsg:
		m.clock = msg.Time.In(m.loc)
		m.refreshRows()
		cmds := []tea.Cmd{commands.Tick(tickInterval)}
		if m.repo != nil && m.refresh > 0 && m.mode == ModeNormal && m.clock.Sub(m.lastReload) >= m.refresh {
			m.lastReload = m.clock
			cmds = append(cmds, commands.LoadDirectory(m.repo))
		}
		return m, tea.Batch(cmds...)

	case commands.DirectoryLoadedMsg:
		m.dir.Restore(msg.Directory)
		m.refreshRows()
		return m, nil

	case commands.ErrMsg:
		m.log.Warn("watch board error", zap.Error(msg.Err))
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		m.statusErr = true
		return m, commands.ClearStatusAfter(statusDuration)

	case commands.StatusMsgCmd:
		m.statusMsg = msg.Msg
		m.statusErr = false
		return m, commands.ClearStatusAfter(statusDuration)

	case commands.ClearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil
	}

	if m.mode != ModeNormal {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}
