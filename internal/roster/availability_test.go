package roster

import (
	"reflect"
	"testing"
)

func TestInInterval(t *testing.T) {
	tests := []struct {
		name       string
		start, end TimeOfDay
		current    TimeOfDay
		want       bool
	}{
		{name: "inside same day", start: NewTimeOfDay(9, 0), end: NewTimeOfDay(12, 0), current: NewTimeOfDay(10, 0), want: true},
		{name: "start is inclusive", start: NewTimeOfDay(9, 0), end: NewTimeOfDay(12, 0), current: NewTimeOfDay(9, 0), want: true},
		{name: "end is exclusive", start: NewTimeOfDay(9, 0), end: NewTimeOfDay(12, 0), current: NewTimeOfDay(12, 0), want: false},
		{name: "before same day", start: NewTimeOfDay(9, 0), end: NewTimeOfDay(12, 0), current: NewTimeOfDay(8, 59), want: false},
		{name: "empty interval", start: NewTimeOfDay(9, 0), end: NewTimeOfDay(9, 0), current: NewTimeOfDay(9, 0), want: false},
		{name: "wrap late evening", start: NewTimeOfDay(22, 0), end: NewTimeOfDay(2, 0), current: NewTimeOfDay(23, 30), want: true},
		{name: "wrap after midnight", start: NewTimeOfDay(22, 0), end: NewTimeOfDay(2, 0), current: NewTimeOfDay(1, 0), want: true},
		{name: "wrap morning", start: NewTimeOfDay(22, 0), end: NewTimeOfDay(2, 0), current: NewTimeOfDay(10, 0), want: false},
		{name: "wrap end exclusive", start: NewTimeOfDay(22, 0), end: NewTimeOfDay(2, 0), current: NewTimeOfDay(2, 0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InInterval(tt.start, tt.end, tt.current); got != tt.want {
				t.Errorf("InInterval(%s, %s, %s) = %v, want %v", tt.start, tt.end, tt.current, got, tt.want)
			}
		})
	}
}

func testChannel(slots ...Slot) *Channel {
	return &Channel{ID: "-100", Name: "Physics doubts", Subject: "Physics", Timings: slots}
}

func TestActiveSlots(t *testing.T) {
	a := Slot{Time: "09:00-12:00", Name: "A", UserID: "@a"}
	b := Slot{Time: "12:00-15:00", Name: "B", UserID: "@b"}
	night := Slot{Time: "10 PM - 2 AM", Name: "Night", UserID: "@night"}
	broken := Slot{Time: "whenever", Name: "Broken", UserID: "@broken"}
	overlap := Slot{Time: "11 AM - 1 PM", Name: "Overlap", UserID: "@overlap"}

	tests := []struct {
		name  string
		slots []Slot
		now   TimeOfDay
		want  []Slot
	}{
		{name: "afternoon", slots: []Slot{a, b}, now: NewTimeOfDay(13, 0), want: []Slot{b}},
		{name: "before all", slots: []Slot{a, b}, now: NewTimeOfDay(8, 0), want: nil},
		{name: "boundary belongs to next slot", slots: []Slot{a, b}, now: NewTimeOfDay(12, 0), want: []Slot{b}},
		{name: "overlap keeps order", slots: []Slot{overlap, a, b}, now: NewTimeOfDay(11, 30), want: []Slot{overlap, a}},
		{name: "wraparound", slots: []Slot{a, night}, now: NewTimeOfDay(1, 15), want: []Slot{night}},
		{name: "unparseable skipped", slots: []Slot{broken, a}, now: NewTimeOfDay(10, 0), want: []Slot{a}},
		{name: "no slots", slots: nil, now: NewTimeOfDay(10, 0), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ActiveSlots(testChannel(tt.slots...), tt.now)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ActiveSlots() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextSlots(t *testing.T) {
	a := Slot{Time: "09:00-12:00", Name: "A", UserID: "@a"}
	b := Slot{Time: "12:00-15:00", Name: "B", UserID: "@b"}
	b2 := Slot{Time: "12 PM - 2 PM", Name: "B2", UserID: "@b2"}
	broken := Slot{Time: "soon", Name: "Broken", UserID: "@broken"}
	openEnd := Slot{Time: "4 PM - later", Name: "Open", UserID: "@open"}

	tests := []struct {
		name  string
		slots []Slot
		now   TimeOfDay
		want  []Slot
	}{
		{name: "earliest upcoming", slots: []Slot{b, a}, now: NewTimeOfDay(8, 0), want: []Slot{a}},
		{name: "tie group in order", slots: []Slot{a, b, b2}, now: NewTimeOfDay(10, 0), want: []Slot{b, b2}},
		{name: "start equal to now is not next", slots: []Slot{a, b}, now: NewTimeOfDay(12, 0), want: []Slot{a}},
		{name: "fallback to first slot", slots: []Slot{b, a}, now: NewTimeOfDay(20, 0), want: []Slot{b}},
		{name: "fallback even if unparseable", slots: []Slot{broken, a}, now: NewTimeOfDay(20, 0), want: []Slot{broken}},
		{name: "end time ignored", slots: []Slot{openEnd}, now: NewTimeOfDay(15, 0), want: []Slot{openEnd}},
		{name: "empty", slots: nil, now: NewTimeOfDay(8, 0), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextSlots(testChannel(tt.slots...), tt.now)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NextSlots() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	a := Slot{Time: "09:00-12:00", Name: "A", UserID: "@a"}
	b := Slot{Time: "12:00-15:00", Name: "B", UserID: "@b"}
	ch := testChannel(a, b)

	got := Resolve(ch, NewTimeOfDay(13, 0))
	if !got.OnDuty() || !reflect.DeepEqual(got.Active, []Slot{b}) {
		t.Errorf("Resolve(13:00).Active = %v, want [B]", got.Active)
	}
	if got.Next != nil {
		t.Errorf("Resolve(13:00).Next = %v, want nil when someone is active", got.Next)
	}

	got = Resolve(ch, NewTimeOfDay(8, 0))
	if got.OnDuty() {
		t.Errorf("Resolve(08:00).Active = %v, want none", got.Active)
	}
	if !reflect.DeepEqual(got.Next, []Slot{a}) {
		t.Errorf("Resolve(08:00).Next = %v, want [A]", got.Next)
	}
}
