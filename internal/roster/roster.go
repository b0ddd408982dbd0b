// Package roster defines the core domain types for onduty: channels, their
// mentor timing slots, and the in-memory channel directory.
package roster

import (
	"bytes"
	"errors"
	"strings"

	"github.com/goccy/go-json"
)

// Domain errors.
var (
	ErrChannelNotFound  = errors.New("channel not found")
	ErrInvalidTimeRange = errors.New("time must be two non-empty parts separated by '-'")
)

// Slot is one mentor's availability window within a channel.
type Slot struct {
	Time   string `json:"time"`    // "<start> - <end>", e.g. "11 AM - 2 PM"
	Name   string `json:"name"`    // mentor display name
	UserID string `json:"user_id"` // opaque handle, kept verbatim (usually "@handle")
}

// Validate checks that Time splits into exactly two non-empty parts.
func (s Slot) Validate() error {
	parts := strings.Split(s.Time, "-")
	if len(parts) != 2 {
		return ErrInvalidTimeRange
	}
	if strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return ErrInvalidTimeRange
	}
	return nil
}

// Bounds returns the trimmed start and end text of the slot's time range.
func (s Slot) Bounds() (from, to string) {
	from, to, _ = strings.Cut(s.Time, "-")
	return strings.TrimSpace(from), strings.TrimSpace(to)
}

// Channel is the unit of scheduling identity: one chat group.
type Channel struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Timings []Slot `json:"timings"`
}

// UnmarshalJSON accepts both string and numeric ids, so 7 and "7" are the
// same channel.
func (c *Channel) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID      json.RawMessage `json:"id"`
		Name    string          `json:"name"`
		Subject string          `json:"subject"`
		Timings []Slot          `json:"timings"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Channel{
		ID:      rawID(aux.ID),
		Name:    aux.Name,
		Subject: aux.Subject,
		Timings: aux.Timings,
	}
	return nil
}

func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

// Clone returns a deep copy of the channel.
func (c *Channel) Clone() *Channel {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Timings = cloneSlots(c.Timings)
	return &cp
}

func cloneSlots(slots []Slot) []Slot {
	if slots == nil {
		return []Slot{}
	}
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}
