package roster

import (
	"fmt"
	"strings"
)

// Directory is the in-memory registry of channels keyed by id. Iteration
// order is first-seen order and mutations never reorder other channels.
//
// A Directory is not safe for concurrent mutation; callers serialize writes.
type Directory struct {
	channels []*Channel
}

// NewDirectory creates a directory holding the given channels in order.
// Later duplicates of an id replace the earlier entry in place.
func NewDirectory(channels ...*Channel) *Directory {
	d := &Directory{channels: make([]*Channel, 0, len(channels))}
	for _, ch := range channels {
		if ch == nil {
			continue
		}
		d.Upsert(ch.ID, ch.Name, ch.Subject, ch.Timings)
	}
	return d
}

// Len returns the number of channels.
func (d *Directory) Len() int {
	return len(d.channels)
}

// List returns the channels in directory order. The slice is a copy; the
// channels are shared.
func (d *Directory) List() []*Channel {
	out := make([]*Channel, len(d.channels))
	copy(out, d.channels)
	return out
}

// FindByID returns the channel with the given id, or nil.
func (d *Directory) FindByID(id string) *Channel {
	if i := d.indexOf(id); i >= 0 {
		return d.channels[i]
	}
	return nil
}

// FindBySubject returns channels whose subject matches case-insensitively,
// in directory order.
func (d *Directory) FindBySubject(subject string) []*Channel {
	var out []*Channel
	for _, ch := range d.channels {
		if strings.EqualFold(ch.Subject, subject) {
			out = append(out, ch)
		}
	}
	return out
}

// Subjects returns the distinct non-empty subjects in first-seen order,
// compared case-insensitively and spelled as first seen.
func (d *Directory) Subjects() []string {
	var out []string
	seen := make(map[string]bool)
	for _, ch := range d.channels {
		key := strings.ToLower(ch.Subject)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ch.Subject)
	}
	return out
}

// Upsert replaces the channel with the same id in place or appends a new one.
// It reports whether the id already existed.
func (d *Directory) Upsert(id, name, subject string, timings []Slot) (*Channel, bool) {
	ch := &Channel{
		ID:      id,
		Name:    name,
		Subject: subject,
		Timings: cloneSlots(timings),
	}
	if i := d.indexOf(id); i >= 0 {
		d.channels[i] = ch
		return ch, true
	}
	d.channels = append(d.channels, ch)
	return ch, false
}

// ReplaceTimings overwrites the timings of an existing channel.
func (d *Directory) ReplaceTimings(id string, timings []Slot) (*Channel, error) {
	ch := d.FindByID(id)
	if ch == nil {
		return nil, fmt.Errorf("channel %s: %w", id, ErrChannelNotFound)
	}
	ch.Timings = cloneSlots(timings)
	return ch, nil
}

// CopyTimings copies the timings of source onto target by value.
func (d *Directory) CopyTimings(targetID, sourceID string) (*Channel, error) {
	target := d.FindByID(targetID)
	if target == nil {
		return nil, fmt.Errorf("target channel %s: %w", targetID, ErrChannelNotFound)
	}
	source := d.FindByID(sourceID)
	if source == nil {
		return nil, fmt.Errorf("source channel %s: %w", sourceID, ErrChannelNotFound)
	}
	target.Timings = cloneSlots(source.Timings)
	return target, nil
}

// SetSubject updates the subject of channel id, creating the channel with
// fallbackName and no timings when it does not exist. It reports whether the
// channel already existed.
func (d *Directory) SetSubject(id, subject, fallbackName string) (*Channel, bool) {
	if ch := d.FindByID(id); ch != nil {
		ch.Subject = subject
		return ch, true
	}
	ch := &Channel{ID: id, Name: fallbackName, Subject: subject, Timings: []Slot{}}
	d.channels = append(d.channels, ch)
	return ch, false
}

// Clone returns a deep copy of the directory.
func (d *Directory) Clone() *Directory {
	cp := &Directory{channels: make([]*Channel, len(d.channels))}
	for i, ch := range d.channels {
		cp.channels[i] = ch.Clone()
	}
	return cp
}

// Restore replaces the contents of d with a deep copy of snapshot, keeping
// the handle held by other callers valid.
func (d *Directory) Restore(snapshot *Directory) {
	d.channels = snapshot.Clone().channels
}

func (d *Directory) indexOf(id string) int {
	for i, ch := range d.channels {
		if ch.ID == id {
			return i
		}
	}
	return -1
}
