package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the CLI.
var (
	// On duty: bold green
	colorOnDuty = color.New(color.FgGreen, color.Bold)

	// Next up: cyan
	colorNext = color.New(color.FgCyan)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Failures and rejected input
	colorFail = color.New(color.FgRed, color.Bold)

	// Skipped batch steps and warnings
	colorWarn = color.New(color.FgYellow)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

func formatOnDuty(s string) string {
	return colorOnDuty.Sprint(s)
}

func formatNext(s string) string {
	return colorNext.Sprint(s)
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatFail(s string) string {
	return colorFail.Sprint(s)
}

func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
