package roster

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TimeOfDay is a wall-clock time as minutes since midnight (0..1439).
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from an hour (0-23) and minute (0-59).
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// TimeOfDayOf returns the wall-clock time of t in t's location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute())
}

// Hour returns the hour in 24-hour form.
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the minute within the hour.
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string { return FormatTime(t) }

// TimeRange is the result of parsing a "<start> - <end>" string.
// Each side may be absent independently when it fails to parse.
type TimeRange struct {
	Start    TimeOfDay
	End      TimeOfDay
	HasStart bool
	HasEnd   bool
}

// Complete reports whether both sides parsed.
func (r TimeRange) Complete() bool {
	return r.HasStart && r.HasEnd
}

// Contains reports whether current falls inside the range. Incomplete ranges
// contain nothing.
func (r TimeRange) Contains(current TimeOfDay) bool {
	return r.Complete() && InInterval(r.Start, r.End, current)
}

// Layouts tried in order; the first match wins. Meridiem-less input is read
// as a 24-hour clock.
var timeLayouts = []string{"3 PM", "3:04 PM", "15:04", "15"}

var meridiemGlue = regexp.MustCompile(`(\d)(AM|PM)`)

// ParseTimeRange splits text on '-' and parses both sides.
//
// When the start side has no AM/PM marker and the end side does, the end
// side's marker is appended to the start side as text: "7 - 11 PM" parses
// as 7 PM to 11 PM.
func ParseTimeRange(text string) TimeRange {
	parts := strings.Split(text, "-")
	if len(parts) != 2 {
		return TimeRange{}
	}
	startStr := normalizeTime(parts[0])
	endStr := normalizeTime(parts[1])

	if !hasMeridiem(startStr) {
		switch {
		case strings.Contains(endStr, "AM"):
			startStr += " AM"
		case strings.Contains(endStr, "PM"):
			startStr += " PM"
		}
	}

	var r TimeRange
	r.Start, r.HasStart = ParseTimeOfDay(startStr)
	r.End, r.HasEnd = ParseTimeOfDay(endStr)
	return r
}

// ParseTimeOfDay parses a single time such as "9", "9:30", "9 PM" or "9:30PM".
// Unparseable input is logged and reported with ok=false.
func ParseTimeOfDay(s string) (t TimeOfDay, ok bool) {
	s = normalizeTime(s)
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			return TimeOfDayOf(parsed), true
		}
	}
	zap.L().Warn("time string doesn't match expected formats", zap.String("time", s))
	return 0, false
}

// FormatTime renders t as a 12-hour "H:MM AM" string; hour 0 is shown as 12.
func FormatTime(t TimeOfDay) string {
	hour := t.Hour()
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute(), meridiem)
}

func normalizeTime(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return meridiemGlue.ReplaceAllString(s, "$1 $2")
}

func hasMeridiem(s string) bool {
	return strings.Contains(s, "AM") || strings.Contains(s, "PM")
}
