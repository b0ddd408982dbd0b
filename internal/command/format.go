package command

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/onduty/internal/roster"
	"github.com/javiermolinar/onduty/internal/sheet"
)

func writeSlots(b *strings.Builder, slots []roster.Slot) {
	if len(slots) == 0 {
		b.WriteString(" (none)\n")
		return
	}
	for _, s := range slots {
		fmt.Fprintf(b, " - %s: %s (%s)\n", s.Time, s.Name, s.UserID)
	}
}

func dumpChannels(channels []*roster.Channel) string {
	var b strings.Builder
	for i, ch := range channels {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Channel ID: %s\nChannel Name: %s\nSubject: %s\nTimings:\n", ch.ID, ch.Name, ch.Subject)
		writeSlots(&b, ch.Timings)
	}
	return b.String()
}

func notFound(id string) string {
	return fmt.Sprintf("Channel with ID %s not found.", id)
}

// summarize reports a batch grid operation: a count line, then one line per
// channel that was not updated.
func summarize(verb string, outcomes []sheet.Outcome) string {
	updated := 0
	var problems []string
	for _, out := range outcomes {
		if out.Status == sheet.StatusUpdated {
			updated++
			continue
		}
		problems = append(problems, fmt.Sprintf(" - %s (%s) %s: %v", out.ChannelID, out.Name, out.Status, out.Err))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %d of %d channels.", verb, updated, len(outcomes))
	for _, p := range problems {
		b.WriteString("\n" + p)
	}
	return b.String()
}
