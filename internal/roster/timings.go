package roster

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
)

// Timing payload validation errors.
var (
	ErrTimingsNotList   = errors.New("timings must be provided as a JSON array")
	ErrTimingMissingKey = errors.New("each timing must contain 'time', 'name', and 'user_id' keys")
)

// requiredTimingKeys are the keys every timing object must carry.
var requiredTimingKeys = []string{"time", "name", "user_id"}

// TimingsSyntaxError wraps a failure to decode the timings payload.
type TimingsSyntaxError struct {
	Err error
}

func (e *TimingsSyntaxError) Error() string {
	return "parsing timings JSON: " + e.Err.Error()
}

func (e *TimingsSyntaxError) Unwrap() error { return e.Err }

// TimingValueError reports a timing field with an unusable value.
type TimingValueError struct {
	Index int
	Key   string
	Err   error
}

func (e *TimingValueError) Error() string {
	return fmt.Sprintf("timing %d: %q: %v", e.Index+1, e.Key, e.Err)
}

func (e *TimingValueError) Unwrap() error { return e.Err }

// DecodeTimings parses a JSON array of {"time","name","user_id"} objects.
func DecodeTimings(payload string) ([]Slot, error) {
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &TimingsSyntaxError{Err: err}
	}
	var trailing any
	if err := dec.Decode(&trailing); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, &TimingsSyntaxError{Err: err}
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, ErrTimingsNotList
	}

	slots := make([]Slot, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, ErrTimingMissingKey
		}
		values := make(map[string]string, len(requiredTimingKeys))
		for _, key := range requiredTimingKeys {
			v, ok := obj[key]
			if !ok {
				return nil, ErrTimingMissingKey
			}
			s, err := scalarText(v)
			if err != nil {
				return nil, &TimingValueError{Index: i, Key: key, Err: err}
			}
			values[key] = s
		}
		slot := Slot{Time: values["time"], Name: values["name"], UserID: values["user_id"]}
		if err := slot.Validate(); err != nil {
			return nil, &TimingValueError{Index: i, Key: "time", Err: err}
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func scalarText(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case nil:
		return "", nil
	default:
		return "", errors.New("must be text or a number")
	}
}

// EncodeTimings renders slots as the compact JSON array accepted by
// DecodeTimings.
func EncodeTimings(slots []Slot) (string, error) {
	data, err := json.Marshal(cloneSlots(slots))
	if err != nil {
		return "", fmt.Errorf("encoding timings: %w", err)
	}
	return string(data), nil
}
