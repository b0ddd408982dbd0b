package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func darkTheme() *Theme {
	return &Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		OnDuty:      "#112233",
		Next:        "#445566",
		Idle:        "#777777",
		Warning:     "#888888",
	}
}

func TestNewPalette_RowShades(t *testing.T) {
	base := darkTheme()
	palette := NewPalette(base)

	if palette.OnDutyBg != lipgloss.Color(darkenColor(base.OnDuty)) {
		t.Fatalf("OnDutyBg = %q, want %q", palette.OnDutyBg, darkenColor(base.OnDuty))
	}
	if palette.NextBg != lipgloss.Color(darkenColor(base.Next)) {
		t.Fatalf("NextBg = %q, want %q", palette.NextBg, darkenColor(base.Next))
	}
	if palette.OnDutyBgAlt != lipgloss.Color(alternateShade(darkenColor(base.OnDuty), false)) {
		t.Fatalf("OnDutyBgAlt = %q", palette.OnDutyBgAlt)
	}
	if palette.IdleBg != lipgloss.Color(muteColor(base.Idle)) {
		t.Fatalf("IdleBg = %q, want %q", palette.IdleBg, muteColor(base.Idle))
	}
}

func TestNewPalette_NilFallsBackToMocha(t *testing.T) {
	palette := NewPalette(nil)
	mocha, err := Load("mocha")
	if err != nil {
		t.Fatalf("Load(mocha): %v", err)
	}
	if palette.Accent != lipgloss.Color(mocha.Accent) {
		t.Fatalf("Accent = %q, want %q", palette.Accent, mocha.Accent)
	}
}

func TestNewPalette_LightThemeInvertsShades(t *testing.T) {
	base := &Theme{
		Bg:          "#f5f5f5",
		BgHighlight: "#eeeeee",
		BgSelection: "#e0e0e0",
		Fg:          "#222222",
		FgMuted:     "#555555",
		Accent:      "#2f6feb",
		OnDuty:      "#1d8a8a",
		Next:        "#2f8f2f",
		Idle:        "#c97b00",
		Warning:     "#c2410c",
	}

	palette := NewPalette(base)
	if relativeLuminance(string(palette.OnDutyBg)) <= relativeLuminance(base.OnDuty) {
		t.Fatalf("OnDutyBg luminance = %f, want greater than OnDuty", relativeLuminance(string(palette.OnDutyBg)))
	}
	if relativeLuminance(string(palette.NextBg)) <= relativeLuminance(base.Next) {
		t.Fatalf("NextBg luminance = %f, want greater than Next", relativeLuminance(string(palette.NextBg)))
	}
}

func TestChooseTextColorPrefersContrast(t *testing.T) {
	bg := "#f0f0f0"
	lightText := "#ffffff"
	darkText := "#111111"

	if got := chooseTextColor(bg, lightText, darkText); got != darkText {
		t.Fatalf("chooseTextColor(%q, %q, %q) = %q, want %q", bg, lightText, darkText, got, darkText)
	}
}
