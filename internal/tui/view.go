package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/onduty/internal/roster"
	"github.com/javiermolinar/onduty/internal/tui/input"
	"github.com/javiermolinar/onduty/internal/tui/view"
)

const (
	minPaneH = 3
	maxPaneH = 10
)

// View renders the board.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	title := m.renderTitle()
	footer := m.renderFooter()
	pane := m.renderPane()

	gridH := m.height - lipgloss.Height(title) - lipgloss.Height(footer) - lipgloss.Height(pane)
	grid := m.renderGrid(gridH)

	return lipgloss.JoinVertical(lipgloss.Left, title, grid, pane, footer)
}

func (m Model) renderTitle() string {
	left := m.styles.TitleStyle.Render(" onduty ")
	right := m.styles.ClockStyle.Render(m.clock.Format("Mon 2 Jan  3:04:05 PM  -07:00") + " ")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + m.styles.ClockStyle.Render(strings.Repeat(" ", gap)) + right
}

func (m Model) renderGrid(gridH int) string {
	if gridH <= view.TableChrome {
		return ""
	}
	if len(m.rows) == 0 {
		msg := "No channels."
		if m.filter != "" {
			msg = fmt.Sprintf("No channels match %q.", m.filter)
		}
		return view.PlaceBox(m.width, gridH, lipgloss.Center, m.styles.ClockStyle.Render(msg), m.styles.colorBg)
	}

	return view.RenderBoard(view.BoardTable{
		Width:       m.width,
		Height:      gridH,
		Rows:        m.rows,
		Cursor:      m.cursor,
		HeaderStyle: m.styles.HeaderStyle,
		BorderStyle: m.styles.BorderStyle,
		RowStyle:    m.styles.RowStyle,
		Bg:          m.styles.colorBg,
	})
}

// renderPane shows the last directive reply, or the selected channel's
// full roster.
func (m Model) renderPane() string {
	var lines []string
	if m.reply != "" {
		lines = append(lines, m.styles.PaneTitleStyle.Render("Reply"))
		lines = append(lines, strings.Split(m.reply, "\n")...)
	} else if row, ok := m.selected(); ok {
		lines = m.rosterLines(row)
	}
	if len(lines) == 0 {
		return ""
	}

	h := m.height / 3
	if h < minPaneH {
		h = minPaneH
	}
	if h > maxPaneH {
		h = maxPaneH
	}
	if len(lines) > h {
		lines = append(lines[:h-1], fmt.Sprintf("… %d more lines", len(lines)-h+1))
	}
	for i, l := range lines {
		lines[i] = view.Truncate(l, m.width-2)
	}
	return view.PlaceBox(m.width, len(lines), lipgloss.Top, m.styles.PaneStyle.Render(strings.Join(lines, "\n")), m.styles.colorBg)
}

func (m Model) rosterLines(row view.BoardRow) []string {
	ch := m.dir.FindByID(row.ChannelID)
	if ch == nil {
		return nil
	}
	lines := []string{m.styles.PaneTitleStyle.Render(fmt.Sprintf("%s (%s)", row.Name, row.ChannelID))}
	if len(ch.Timings) == 0 {
		return append(lines, m.styles.ClockStyle.Render("No timings."))
	}

	now := roster.TimeOfDayOf(m.clock)
	for _, slot := range ch.Timings {
		line := fmt.Sprintf("  %s: %s (%s)", slot.Time, slot.Name, slot.UserID)
		r := roster.ParseTimeRange(slot.Time)
		switch {
		case !r.Complete():
			line = m.styles.SlotInvalidStyle.Render("✗" + line[1:])
		case r.Contains(now):
			line = m.styles.SlotActiveStyle.Render("●" + line[1:])
		}
		lines = append(lines, line)
	}
	return lines
}

func (m Model) renderFooter() string {
	stats := fmt.Sprintf("%d channels  %d on duty  %d next",
		len(m.rows), view.Count(m.rows, view.StateOnDuty), view.Count(m.rows, view.StateNext))
	if m.filter != "" && m.mode != ModeFilter {
		stats += fmt.Sprintf("  filter %q", m.filter)
	}

	var promptLine string
	if m.mode != ModeNormal {
		promptLine = m.prompt.View()
		if m.mode == ModeCommand {
			if hint := input.PromptHint(m.prompt.Value(), m.suggestions); hint != "" {
				promptLine += "  " + m.styles.HintStyle.Render(hint)
			}
		}
		promptLine = view.Truncate(promptLine, m.width)
	}

	statusStyle := m.styles.StatusStyle
	if m.statusErr {
		statusStyle = m.styles.ErrorStyle
	}

	footerH := 3
	if promptLine != "" {
		footerH++
	}
	helpView := m.help.View(m.keys)
	if extra := lipgloss.Height(helpView) - 1; extra > 0 {
		footerH += extra
	}

	return view.RenderFooter(view.FooterViewState{
		InnerW:      m.width,
		FooterH:     footerH,
		StatsText:   stats,
		PromptLine:  promptLine,
		StatusText:  m.statusMsg,
		HelpText:    helpView,
		StatsStyle:  m.styles.StatsStyle,
		StatusStyle: statusStyle,
		HelpStyle:   m.styles.HelpStyle,
		VAlign:      lipgloss.Top,
		Bg:          m.styles.colorBg,
	})
}
