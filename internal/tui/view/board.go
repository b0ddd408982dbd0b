// Package view provides rendering helpers for the watch board.
package view

import (
	"strings"

	"github.com/javiermolinar/onduty/internal/roster"
)

// State is a channel's availability at a point in time.
type State int

const (
	StateIdle State = iota // no timings at all
	StateNext
	StateOnDuty
)

func (s State) String() string {
	switch s {
	case StateOnDuty:
		return "on duty"
	case StateNext:
		return "next"
	default:
		return "idle"
	}
}

// BoardRow is one channel line of the board.
type BoardRow struct {
	ChannelID string
	Name      string
	Subject   string
	State     State
	Mentors   string
	Window    string
	Slots     int
}

// Headers returns the board column labels.
func Headers() []string {
	return []string{"Channel", "Subject", "Status", "Mentors", "Window"}
}

// Cells returns the row as table cells in Headers order.
func (r BoardRow) Cells() []string {
	subject := r.Subject
	if subject == "" {
		subject = "-"
	}
	return []string{r.Name, subject, r.State.String(), r.Mentors, r.Window}
}

// BuildBoard resolves every channel of d at now, in directory order. A
// non-empty filter keeps channels whose id, name or subject contain it,
// ignoring case.
func BuildBoard(d *roster.Directory, now roster.TimeOfDay, filter string) []BoardRow {
	filter = strings.ToLower(strings.TrimSpace(filter))

	var rows []BoardRow
	for _, ch := range d.List() {
		if filter != "" && !matches(ch, filter) {
			continue
		}

		row := BoardRow{
			ChannelID: ch.ID,
			Name:      ch.Name,
			Subject:   ch.Subject,
			Slots:     len(ch.Timings),
		}
		if row.Name == "" {
			row.Name = ch.ID
		}

		a := roster.Resolve(ch, now)
		slots := a.Active
		switch {
		case a.OnDuty():
			row.State = StateOnDuty
		case len(a.Next) > 0:
			row.State = StateNext
			slots = a.Next
		}
		row.Mentors = mentors(slots)
		row.Window = windows(slots)
		rows = append(rows, row)
	}
	return rows
}

// Count returns how many rows are in state s.
func Count(rows []BoardRow, s State) int {
	n := 0
	for _, r := range rows {
		if r.State == s {
			n++
		}
	}
	return n
}

func matches(ch *roster.Channel, filter string) bool {
	return strings.Contains(strings.ToLower(ch.ID), filter) ||
		strings.Contains(strings.ToLower(ch.Name), filter) ||
		strings.Contains(strings.ToLower(ch.Subject), filter)
}

func mentors(slots []roster.Slot) string {
	names := make([]string, 0, len(slots))
	for _, s := range slots {
		label := s.Name
		if label == "" {
			label = s.UserID
		}
		names = append(names, label)
	}
	return strings.Join(names, ", ")
}

// windows joins the distinct slot times in slot order.
func windows(slots []roster.Slot) string {
	seen := make(map[string]bool, len(slots))
	var out []string
	for _, s := range slots {
		if seen[s.Time] {
			continue
		}
		seen[s.Time] = true
		out = append(out, s.Time)
	}
	return strings.Join(out, ", ")
}
