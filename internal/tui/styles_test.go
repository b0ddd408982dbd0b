package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/onduty/internal/tui/theme"
	"github.com/javiermolinar/onduty/internal/tui/view"
)

func testTheme() *theme.Theme {
	return &theme.Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		OnDuty:      "#00ff00",
		Next:        "#0000ff",
		Idle:        "#777777",
		Warning:     "#ff00ff",
	}
}

func TestStylesBackgroundCoverage(t *testing.T) {
	palette := testTheme()
	styles := NewStyles(palette)

	assertBg := func(t *testing.T, name string, style lipgloss.Style, want string) {
		t.Helper()
		bg, ok := style.GetBackground().(lipgloss.Color)
		if !ok {
			t.Fatalf("%s background type = %T, want lipgloss.Color", name, style.GetBackground())
		}
		if bg != lipgloss.Color(want) {
			t.Fatalf("%s background = %q, want %q", name, bg, want)
		}
	}

	assertBg(t, "TitleStyle", styles.TitleStyle, palette.Bg)
	assertBg(t, "HeaderStyle", styles.HeaderStyle, palette.Bg)
	assertBg(t, "PaneStyle", styles.PaneStyle, palette.Bg)
	assertBg(t, "HelpStyle", styles.HelpStyle, palette.Bg)
	assertBg(t, "StatsStyle", styles.StatsStyle, palette.BgHighlight)
	assertBg(t, "SelectedStyle", styles.SelectedStyle, palette.BgSelection)
}

func TestRowStyle(t *testing.T) {
	styles := NewStyles(testTheme())

	tests := []struct {
		name     string
		state    view.State
		alt      bool
		selected bool
		want     lipgloss.Style
	}{
		{"on duty", view.StateOnDuty, false, false, styles.OnDutyStyle},
		{"on duty alt", view.StateOnDuty, true, false, styles.OnDutyAltStyle},
		{"next", view.StateNext, false, false, styles.NextStyle},
		{"next alt", view.StateNext, true, false, styles.NextAltStyle},
		{"idle", view.StateIdle, true, false, styles.IdleStyle},
		{"selected wins", view.StateOnDuty, false, true, styles.SelectedStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := styles.RowStyle(tt.state, tt.alt, tt.selected)
			if got.GetBackground() != tt.want.GetBackground() {
				t.Fatalf("background = %v, want %v", got.GetBackground(), tt.want.GetBackground())
			}
		})
	}
}

func TestRowStyleRendersTrueColor(t *testing.T) {
	orig := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Cleanup(func() { lipgloss.SetColorProfile(orig) })

	styles := NewStyles(testTheme())
	out := styles.RowStyle(view.StateOnDuty, false, false).Render("Asha")

	if !strings.Contains(out, "Asha") {
		t.Fatalf("rendered row lost its text: %q", out)
	}
	if !strings.Contains(out, "48;2;") {
		t.Errorf("expected a 24-bit background escape in %q", out)
	}
}
