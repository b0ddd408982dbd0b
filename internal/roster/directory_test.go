package roster

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(channels []*Channel) []string {
	out := make([]string, 0, len(channels))
	for _, ch := range channels {
		out = append(out, ch.ID)
	}
	return out
}

func TestDirectory_UpsertReplacesInPlace(t *testing.T) {
	d := NewDirectory()
	d.Upsert("1", "one", "Physics", nil)
	d.Upsert("2", "two", "Maths", nil)
	d.Upsert("3", "three", "Physics", nil)

	ch, existed := d.Upsert("2", "two renamed", "Chemistry", []Slot{{Time: "9 - 10 AM", Name: "X", UserID: "@x"}})
	require.True(t, existed)
	assert.Equal(t, "two renamed", ch.Name)
	assert.Equal(t, []string{"1", "2", "3"}, ids(d.List()))
	assert.Equal(t, "Chemistry", d.FindByID("2").Subject)

	_, existed = d.Upsert("4", "four", "Physics", nil)
	assert.False(t, existed)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(d.List()))
}

func TestDirectory_UpsertCopiesTimings(t *testing.T) {
	d := NewDirectory()
	slots := []Slot{{Time: "9 - 10 AM", Name: "X", UserID: "@x"}}
	ch, _ := d.Upsert("1", "one", "Physics", slots)

	slots[0].Name = "mutated"
	assert.Equal(t, "X", ch.Timings[0].Name)
}

func TestDirectory_FindBySubjectIsCaseInsensitive(t *testing.T) {
	d := NewDirectory(
		&Channel{ID: "1", Subject: "Physics"},
		&Channel{ID: "2", Subject: "maths"},
		&Channel{ID: "3", Subject: "PHYSICS"},
	)

	assert.Equal(t, []string{"1", "3"}, ids(d.FindBySubject("physics")))
	assert.Empty(t, d.FindBySubject("biology"))
	assert.Equal(t, []string{"Physics", "maths"}, d.Subjects())
}

func TestDirectory_ReplaceTimings(t *testing.T) {
	d := NewDirectory(&Channel{ID: "1", Timings: []Slot{{Time: "1 - 2 PM"}}})

	ch, err := d.ReplaceTimings("1", []Slot{{Time: "3 - 4 PM"}, {Time: "5 - 6 PM"}})
	require.NoError(t, err)
	assert.Len(t, ch.Timings, 2)

	_, err = d.ReplaceTimings("missing", nil)
	assert.True(t, errors.Is(err, ErrChannelNotFound))
}

func TestDirectory_CopyTimings(t *testing.T) {
	d := NewDirectory(
		&Channel{ID: "src", Timings: []Slot{{Time: "1 - 2 PM", Name: "A", UserID: "@a"}}},
		&Channel{ID: "dst"},
	)

	target, err := d.CopyTimings("dst", "src")
	require.NoError(t, err)
	require.Len(t, target.Timings, 1)

	target.Timings[0].Name = "changed"
	assert.Equal(t, "A", d.FindByID("src").Timings[0].Name, "copy must not alias the source")

	_, err = d.CopyTimings("dst", "nope")
	assert.ErrorIs(t, err, ErrChannelNotFound)
	_, err = d.CopyTimings("nope", "src")
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestDirectory_SetSubject(t *testing.T) {
	d := NewDirectory(&Channel{ID: "1", Name: "one", Subject: "Physics"})

	ch, existed := d.SetSubject("1", "Maths", "ignored")
	assert.True(t, existed)
	assert.Equal(t, "one", ch.Name)
	assert.Equal(t, "Maths", ch.Subject)

	ch, existed = d.SetSubject("2", "Biology", "fallback")
	assert.False(t, existed)
	assert.Equal(t, "fallback", ch.Name)
	assert.NotNil(t, ch.Timings)
	assert.Equal(t, []string{"1", "2"}, ids(d.List()))
}

func TestChannel_UnmarshalNumericID(t *testing.T) {
	var channels []*Channel
	err := json.Unmarshal([]byte(`[{"id": -1001234567890, "name": "a"}, {"id": "7", "name": "b"}, {"id": 7, "name": "c"}]`), &channels)
	require.NoError(t, err)

	assert.Equal(t, "-1001234567890", channels[0].ID)
	assert.Equal(t, "a", channels[0].Name)

	d := NewDirectory(channels...)
	assert.Equal(t, 2, d.Len(), "7 and \"7\" are the same channel")
	assert.Equal(t, "c", d.FindByID("7").Name)
}

func TestChannel_UnmarshalReplacesFields(t *testing.T) {
	ch := &Channel{ID: "old", Name: "old", Subject: "old", Timings: []Slot{{Time: "9 - 10 AM"}}}
	require.NoError(t, json.Unmarshal([]byte(`{"id": 42, "name": "new", "timings": [{"time": "1 - 2 PM", "name": "B", "user_id": "@b"}]}`), ch))

	assert.Equal(t, "42", ch.ID)
	assert.Equal(t, "new", ch.Name)
	assert.Empty(t, ch.Subject)
	assert.Equal(t, []Slot{{Time: "1 - 2 PM", Name: "B", UserID: "@b"}}, ch.Timings)
}

func TestSlot_Validate(t *testing.T) {
	assert.NoError(t, Slot{Time: "9 - 10 AM"}.Validate())
	assert.ErrorIs(t, Slot{Time: "9 AM"}.Validate(), ErrInvalidTimeRange)
	assert.ErrorIs(t, Slot{Time: "9 - "}.Validate(), ErrInvalidTimeRange)
	assert.ErrorIs(t, Slot{Time: "9 - 10 - 11"}.Validate(), ErrInvalidTimeRange)

	from, to := Slot{Time: " 11 AM - 2 PM "}.Bounds()
	assert.Equal(t, "11 AM", from)
	assert.Equal(t, "2 PM", to)
}

func TestDirectory_CloneAndRestore(t *testing.T) {
	d := NewDirectory(&Channel{ID: "1", Name: "one", Timings: []Slot{{Time: "9 - 10 AM", Name: "A", UserID: "@a"}}})
	handle := d

	snap := d.Clone()
	d.Upsert("2", "two", "", nil)
	_, err := d.ReplaceTimings("1", nil)
	require.NoError(t, err)
	assert.Len(t, snap.FindByID("1").Timings, 1, "clone shares no slots")

	d.Restore(snap)
	assert.Same(t, handle, d)
	assert.Equal(t, []string{"1"}, ids(d.List()))
	assert.Len(t, d.FindByID("1").Timings, 1)

	d.FindByID("1").Name = "changed"
	assert.Equal(t, "one", snap.FindByID("1").Name, "restore copies the snapshot")
}
