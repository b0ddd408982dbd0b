// Package tui provides the live "on duty" watch board.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/onduty/internal/command"
	"github.com/javiermolinar/onduty/internal/roster"
	"github.com/javiermolinar/onduty/internal/tui/commands"
	"github.com/javiermolinar/onduty/internal/tui/input"
	"github.com/javiermolinar/onduty/internal/tui/theme"
	"github.com/javiermolinar/onduty/internal/tui/view"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModeCommand
)

const (
	tickInterval   = time.Second
	statusDuration = 4 * time.Second
)

// Options configures the board.
type Options struct {
	// Repo is polled for changes made by other processes; nil disables reloads.
	Repo roster.Repository
	// Router enables the directive prompt; its directory is the one shown.
	Router *command.Router
	// Directory is shown when no Router is given.
	Directory *roster.Directory
	// ChatID routes directives on behalf of a fixed chat. Empty uses the
	// selected channel.
	ChatID   string
	Location *time.Location
	Now      func() time.Time
	Theme    string
	// Refresh is how often Repo is reloaded; zero disables polling.
	Refresh time.Duration
	Log     *zap.Logger
}

// Model is the watch board model.
type Model struct {
	// Dependencies
	repo   roster.Repository
	router *command.Router
	dir    *roster.Directory
	chatID string
	loc    *time.Location
	now    func() time.Time
	log    *zap.Logger

	// Theme and styles
	styles *Styles
	keys   keyMap
	help   help.Model

	// Components
	prompt      textinput.Model
	suggestions []input.PromptCommand

	// State
	mode       Mode
	filter     string
	cursor     int
	rows       []view.BoardRow
	clock      time.Time
	refresh    time.Duration
	lastReload time.Time
	reply      string

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg string
	statusErr bool
}

// New creates a board model.
func New(opts Options) Model {
	t, err := theme.Load(opts.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}

	m := Model{
		repo:    opts.Repo,
		router:  opts.Router,
		dir:     opts.Directory,
		chatID:  opts.ChatID,
		loc:     opts.Location,
		now:     opts.Now,
		log:     opts.Log,
		styles:  NewStyles(t),
		keys:    newKeyMap(),
		help:    help.New(),
		prompt:  textinput.New(),
		refresh: opts.Refresh,
	}
	if m.loc == nil {
		m.loc = time.UTC
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.router != nil {
		m.dir = m.router.Directory()
		for _, info := range m.router.Commands() {
			m.suggestions = append(m.suggestions, input.PromptCommand{
				Name:        info.Name,
				Description: info.Doc,
				TakesArgs:   info.TakesArgs,
			})
		}
	}
	if m.dir == nil {
		m.dir = roster.NewDirectory()
	}

	m.prompt.PromptStyle = m.styles.PromptStyle
	m.prompt.TextStyle = m.styles.PromptStyle
	m.prompt.CharLimit = 2048
	m.help.Styles.ShortKey = m.styles.HelpStyle.Bold(true)
	m.help.Styles.ShortDesc = m.styles.HelpStyle
	m.help.Styles.FullKey = m.styles.HelpStyle.Bold(true)
	m.help.Styles.FullDesc = m.styles.HelpStyle

	m.clock = m.now().In(m.loc)
	m.lastReload = m.clock
	m.refreshRows()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{commands.Tick(tickInterval)}
	if m.repo != nil {
		cmds = append(cmds, commands.LoadDirectory(m.repo))
	}
	return tea.Batch(cmds...)
}

// refreshRows recomputes the board at the current clock and keeps the
// cursor in range.
func (m *Model) refreshRows() {
	m.rows = view.BuildBoard(m.dir, roster.TimeOfDayOf(m.clock), m.filter)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selected returns the row under the cursor.
func (m Model) selected() (view.BoardRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return view.BoardRow{}, false
	}
	return m.rows[m.cursor], true
}

// Run starts the board and blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
