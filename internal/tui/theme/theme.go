// Package theme provides color themes for the watch board.
package theme

import (
	"embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/pelletier/go-toml/v2"
)

// Auto picks latte or mocha from the terminal background.
const Auto = "auto"

// hasDarkBackground is swapped in tests.
var hasDarkBackground = termenv.HasDarkBackground

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// Theme holds all colors for a board theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Header band, subtle highlight
	BgSelection string `toml:"bg_selection"` // Cursor row
	Fg          string `toml:"fg"`           // Primary foreground
	FgMuted     string `toml:"fg_muted"`     // Channels with nobody scheduled
	Accent      string `toml:"accent"`       // Title, borders
	OnDuty      string `toml:"on_duty"`      // Mentors active right now
	Next        string `toml:"next"`         // Mentors coming up
	Idle        string `toml:"idle"`         // Empty rosters
	Warning     string `toml:"warning"`      // Reload errors, invalid slots
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Resolve maps a configured name to an embedded theme name.
func Resolve(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "":
		return "mocha"
	case Auto:
		if hasDarkBackground() {
			return "mocha"
		}
		return "latte"
	}
	return name
}

// Load loads a theme by name from embedded files.
// Falls back to mocha if the theme is not found.
func Load(name string) (*Theme, error) {
	name = Resolve(name)

	path := "embedded/" + name + ".toml"
	data, err := embeddedThemes.ReadFile(path)
	if err != nil {
		if name != "mocha" {
			return Load("mocha")
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()

	return &t, nil
}

func (t *Theme) applyDefaults() {
	if t.BgHighlight == "" {
		t.BgHighlight = t.Bg
	}
	if t.BgSelection == "" {
		t.BgSelection = coalesce(t.BgHighlight, t.Accent)
	}
	if t.FgMuted == "" {
		t.FgMuted = t.Fg
	}
	if t.Idle == "" {
		t.Idle = t.FgMuted
	}
	if t.Warning == "" {
		t.Warning = t.Accent
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{Auto, "mocha", "macchiato", "frappe", "latte", "light"}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	name = strings.ToLower(name)
	for _, themeName := range Available() {
		if themeName == name {
			return true
		}
	}
	return false
}
