package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/onduty/internal/tui/commands"
	"github.com/javiermolinar/onduty/internal/tui/input"
)

// keyMap is the board's key bindings; it implements help.KeyMap.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Filter   key.Binding
	Command  key.Binding
	Reload   key.Binding
	Clear    key.Binding
	Help     key.Binding
	Quit     key.Binding
	Complete key.Binding
	Submit   key.Binding
	Cancel   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Command:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "directive")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Clear:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Filter, k.Command, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Filter, k.Command, k.Complete},
		{k.Reload, k.Clear},
		{k.Help, k.Quit},
	}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.log.Debug("key", zap.String("key", msg.String()), zap.Int("mode", int(m.mode)))

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModeFilter:
		return m.handleFilterKeys(msg)
	case ModeCommand:
		return m.handleCommandKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.reply = ""
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		m.reply = ""
	case key.Matches(msg, m.keys.Filter):
		m.mode = ModeFilter
		m.prompt.Prompt = "filter> "
		m.prompt.SetValue(m.filter)
		m.prompt.CursorEnd()
		return m, m.prompt.Focus()
	case key.Matches(msg, m.keys.Command):
		if m.router == nil {
			return m, commands.ShowStatus("Directives are disabled for this board.")
		}
		m.mode = ModeCommand
		m.prompt.Prompt = "> "
		m.prompt.SetValue("/")
		m.prompt.CursorEnd()
		return m, m.prompt.Focus()
	case key.Matches(msg, m.keys.Reload):
		if m.repo == nil {
			return m, nil
		}
		return m, commands.LoadDirectory(m.repo)
	case key.Matches(msg, m.keys.Clear):
		m.filter = ""
		m.reply = ""
		m.refreshRows()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// handleFilterKeys edits the filter; rows follow every keystroke.
func (m Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.leavePrompt()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.filter = ""
		m.leavePrompt()
		m.refreshRows()
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	m.filter = m.prompt.Value()
	m.cursor = 0
	m.refreshRows()
	return m, cmd
}

// handleCommandKeys edits and runs a directive. Directives run inline so the
// directory is never read by View while a command mutates it.
func (m Model) handleCommandKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		text := m.prompt.Value()
		m.leavePrompt()
		if text == "" || text == "/" {
			return m, nil
		}
		chatID := m.chatID
		if chatID == "" {
			if row, ok := m.selected(); ok {
				chatID = row.ChannelID
			}
		}
		m.reply = m.router.Route(context.Background(), text, chatID)
		m.log.Info("directive from watch board", zap.String("chat_id", chatID), zap.String("text", text))
		m.refreshRows()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.leavePrompt()
		return m, nil
	case key.Matches(msg, m.keys.Complete):
		if value, ok := input.PromptAutocomplete(m.prompt.Value(), m.router.Delimiter(), m.suggestions); ok {
			m.prompt.SetValue(value)
			m.prompt.CursorEnd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) leavePrompt() {
	m.mode = ModeNormal
	m.prompt.Blur()
	m.prompt.SetValue("")
}
