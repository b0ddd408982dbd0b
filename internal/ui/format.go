package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/javiermolinar/onduty/internal/roster"
	"github.com/javiermolinar/onduty/internal/sheet"
)

// PrintSlotRow prints one slot, marking it when it is active at now.
func PrintSlotRow(w io.Writer, slot roster.Slot, now roster.TimeOfDay) {
	r := roster.ParseTimeRange(slot.Time)
	symbol := " "
	line := fmt.Sprintf("%-22s %s %s", slot.Time, slot.Name, formatMuted(slot.UserID))
	switch {
	case !r.Complete():
		symbol = formatFail("✗")
	case r.Contains(now):
		symbol = formatOnDuty("●")
	}
	fmt.Fprintf(w, "  %s %s\n", symbol, line)
}

// PrintAvailability prints who is on duty in ch at now, or who is next.
func PrintAvailability(w io.Writer, ch *roster.Channel, now roster.TimeOfDay) {
	name := ch.Name
	if name == "" {
		name = ch.ID
	}
	fmt.Fprintf(w, "%s %s\n", formatHeader(name), formatMuted("("+ch.ID+")"))

	if len(ch.Timings) == 0 {
		fmt.Fprintf(w, "  %s\n", formatMuted("No timings."))
		return
	}

	a := roster.Resolve(ch, now)
	label, slots := formatOnDuty("on duty"), a.Active
	if !a.OnDuty() {
		label, slots = formatNext("next"), a.Next
	}
	for _, s := range slots {
		fmt.Fprintf(w, "  %-8s %s %s %s\n", label, s.Time, s.Name, formatMuted(s.UserID))
	}
}

// PrintOutcomes prints per-channel batch results and returns how many failed.
func PrintOutcomes(w io.Writer, verb string, outcomes []sheet.Outcome) int {
	failed, updated := 0, 0
	for _, o := range outcomes {
		status := string(o.Status)
		switch o.Status {
		case sheet.StatusUpdated:
			status = formatOnDuty(status)
			updated++
		case sheet.StatusSkipped:
			status = formatWarn(status)
		case sheet.StatusFailed:
			status = formatFail(status)
			failed++
		}
		line := fmt.Sprintf("  %-8s %s (%s)", status, o.Name, o.ChannelID)
		if o.Status == sheet.StatusUpdated && o.Slots > 0 {
			line += formatMuted(fmt.Sprintf(" %d slots", o.Slots))
		}
		if o.Err != nil {
			line += ": " + o.Err.Error()
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "%s %d of %d channels.\n", verb, updated, len(outcomes))
	return failed
}

// rule returns a horizontal rule as wide as the terminal, capped at max.
func rule(max int) string {
	n := termWidth()
	if n > max {
		n = max
	}
	return strings.Repeat("─", n)
}
