package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FooterViewState holds content and styles for the footer section.
type FooterViewState struct {
	InnerW      int
	FooterH     int
	StatsText   string
	PromptLine  string // already rendered; empty hides the prompt row
	StatusText  string
	HelpText    string
	StatsStyle  lipgloss.Style
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	VAlign      lipgloss.Position
	Bg          lipgloss.Color
}

// RenderFooter renders stats, prompt, status, and help lines.
func RenderFooter(state FooterViewState) string {
	if state.FooterH <= 0 {
		return ""
	}

	s := footerLine(state.InnerW, state.StatsStyle, state.StatsText) + "\n"
	if state.PromptLine != "" {
		s += state.PromptLine + "\n"
	}
	s += footerLine(state.InnerW, state.StatusStyle, state.StatusText) + "\n"
	s += footerLine(state.InnerW, state.HelpStyle, state.HelpText)

	return PlaceBox(state.InnerW, state.FooterH, state.VAlign, s, state.Bg)
}

// footerLine fits each line of content to width.
func footerLine(width int, style lipgloss.Style, content string) string {
	if strings.Contains(content, "\n") {
		lines := strings.Split(content, "\n")
		for i, l := range lines {
			lines[i] = footerLine(width, style, l)
		}
		return strings.Join(lines, "\n")
	}
	frameW, _ := style.GetFrameSize()
	contentWidth := width - frameW
	if contentWidth < 0 {
		contentWidth = 0
	}
	style = style.Width(contentWidth)
	if contentWidth > 0 {
		content = ansi.Truncate(content, contentWidth, "")
	}
	return style.Render(content)
}
