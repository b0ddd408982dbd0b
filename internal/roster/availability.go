package roster

// InInterval reports whether current lies in the half-open interval
// [start, end). When start > end the interval wraps past midnight.
func InInterval(start, end, current TimeOfDay) bool {
	if start <= end {
		return start <= current && current < end
	}
	return current >= start || current < end
}

// ActiveSlots returns every slot of ch whose range contains now, in slot
// order. Slots whose range does not parse are skipped.
func ActiveSlots(ch *Channel, now TimeOfDay) []Slot {
	if ch == nil {
		return nil
	}
	var active []Slot
	for _, slot := range ch.Timings {
		r := ParseTimeRange(slot.Time)
		if !r.Complete() {
			continue
		}
		if InInterval(r.Start, r.End, now) {
			active = append(active, slot)
		}
	}
	return active
}

// NextSlots returns the slots with the earliest start strictly after now,
// ties kept in slot order. End times are ignored. When nothing starts later
// today the first slot is returned as a fallback; an empty channel yields nil.
func NextSlots(ch *Channel, now TimeOfDay) []Slot {
	if ch == nil || len(ch.Timings) == 0 {
		return nil
	}

	earliest := TimeOfDay(-1)
	var next []Slot
	for _, slot := range ch.Timings {
		r := ParseTimeRange(slot.Time)
		if !r.HasStart || r.Start <= now {
			continue
		}
		switch {
		case earliest < 0 || r.Start < earliest:
			earliest = r.Start
			next = []Slot{slot}
		case r.Start == earliest:
			next = append(next, slot)
		}
	}
	if next != nil {
		return next
	}
	return []Slot{ch.Timings[0]}
}

// Availability is who is on duty now and, when nobody is, who is next.
type Availability struct {
	Active []Slot
	Next   []Slot
}

// OnDuty reports whether at least one mentor is active.
func (a Availability) OnDuty() bool {
	return len(a.Active) > 0
}

// Resolve computes the availability of ch at now. Next is only computed
// when no slot is active.
func Resolve(ch *Channel, now TimeOfDay) Availability {
	a := Availability{Active: ActiveSlots(ch, now)}
	if len(a.Active) == 0 {
		a.Next = NextSlots(ch, now)
	}
	return a
}
