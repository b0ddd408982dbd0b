package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/onduty/internal/tui/theme"
	"github.com/javiermolinar/onduty/internal/tui/view"
)

// Styles holds all lipgloss styles for the board, derived from a theme.
type Styles struct {
	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color
	colorOnDuty      lipgloss.Color
	colorNext        lipgloss.Color
	colorWarning     lipgloss.Color

	TitleStyle  lipgloss.Style
	ClockStyle  lipgloss.Style
	HeaderStyle lipgloss.Style
	BorderStyle lipgloss.Style

	// Row styles by state; Alt variants stripe adjacent rows
	OnDutyStyle    lipgloss.Style
	OnDutyAltStyle lipgloss.Style
	NextStyle      lipgloss.Style
	NextAltStyle   lipgloss.Style
	IdleStyle      lipgloss.Style
	SelectedStyle  lipgloss.Style

	// Detail pane
	PaneStyle        lipgloss.Style
	PaneTitleStyle   lipgloss.Style
	SlotActiveStyle  lipgloss.Style
	SlotInvalidStyle lipgloss.Style

	// Footer
	StatsStyle  lipgloss.Style
	PromptStyle lipgloss.Style
	HintStyle   lipgloss.Style
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{}
	palette := theme.NewPalette(t)

	s.colorBg = palette.Bg
	s.colorBgHighlight = palette.BgHighlight
	s.colorFg = palette.Fg
	s.colorFgMuted = palette.FgMuted
	s.colorAccent = palette.Accent
	s.colorOnDuty = palette.OnDuty
	s.colorNext = palette.Next
	s.colorWarning = palette.Warning

	base := lipgloss.NewStyle().Background(s.colorBg).Foreground(s.colorFg)

	s.TitleStyle = base.Bold(true).Foreground(s.colorAccent)
	s.ClockStyle = base.Foreground(s.colorFgMuted)
	s.HeaderStyle = base.Bold(true).Foreground(s.colorAccent).Padding(0, 1)
	s.BorderStyle = base.Foreground(s.colorAccent)

	cell := lipgloss.NewStyle().Padding(0, 1)
	s.OnDutyStyle = cell.Background(palette.OnDutyBg).Foreground(palette.TextOnDuty)
	s.OnDutyAltStyle = cell.Background(palette.OnDutyBgAlt).Foreground(palette.TextOnDuty)
	s.NextStyle = cell.Background(palette.NextBg).Foreground(palette.TextOnNext)
	s.NextAltStyle = cell.Background(palette.NextBgAlt).Foreground(palette.TextOnNext)
	s.IdleStyle = cell.Background(palette.IdleBg).Foreground(palette.FgMuted)
	s.SelectedStyle = cell.Bold(true).Background(palette.BgSelection).Foreground(palette.TextOnSelection)

	s.PaneStyle = base.Padding(0, 1)
	s.PaneTitleStyle = base.Bold(true).Foreground(s.colorAccent)
	s.SlotActiveStyle = base.Bold(true).Foreground(s.colorOnDuty)
	s.SlotInvalidStyle = base.Foreground(s.colorWarning)

	s.StatsStyle = lipgloss.NewStyle().Background(s.colorBgHighlight).Foreground(s.colorFg).Padding(0, 1)
	s.PromptStyle = base.Foreground(s.colorAccent)
	s.HintStyle = base.Foreground(s.colorFgMuted)
	s.StatusStyle = base.Foreground(s.colorNext)
	s.ErrorStyle = base.Bold(true).Foreground(palette.TextOnWarning).Background(s.colorWarning)
	s.HelpStyle = base.Foreground(s.colorFgMuted)

	return s
}

// RowStyle returns the cell style for a board row.
func (s *Styles) RowStyle(state view.State, alt, selected bool) lipgloss.Style {
	switch {
	case selected:
		return s.SelectedStyle
	case state == view.StateOnDuty && alt:
		return s.OnDutyAltStyle
	case state == view.StateOnDuty:
		return s.OnDutyStyle
	case state == view.StateNext && alt:
		return s.NextAltStyle
	case state == view.StateNext:
		return s.NextStyle
	default:
		return s.IdleStyle
	}
}
