package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkedItemsDecodeForms(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want LinkedItems
	}{
		{"number array", `[1,2,3]`, LinkedItems{1, 2, 3}},
		{"string array", `["1","2","3"]`, LinkedItems{1, 2, 3}},
		{"comma joined", `"1,2,3"`, LinkedItems{1, 2, 3}},
		{"comma joined with spaces", `"1, 2 ,3"`, LinkedItems{1, 2, 3}},
		{"duplicates collapse", `[7,7,8]`, LinkedItems{7, 8}},
		{"garbage entries dropped", `"1,x,3"`, LinkedItems{1, 3}},
		{"null", `null`, nil},
		{"empty array", `[]`, LinkedItems{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got LinkedItems
			require.NoError(t, json.Unmarshal([]byte(tc.in), &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLinkedItemsMarshalNeverNull(t *testing.T) {
	b, err := json.Marshal(LinkedItems(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))

	b, err = json.Marshal(LinkedItems{4, 5})
	require.NoError(t, err)
	assert.Equal(t, "[4,5]", string(b))
}

func TestLinkedItemsSetOps(t *testing.T) {
	l := LinkedItems{1, 2}
	assert.Equal(t, LinkedItems{1, 2}, l.Add(2))
	assert.Equal(t, LinkedItems{1, 2, 3}, l.Add(3))
	assert.Equal(t, LinkedItems{2}, l.Remove(1))
	assert.Equal(t, LinkedItems{1, 2}, l.Remove(99))
	assert.True(t, l.Contains(1))
	assert.False(t, l.Contains(9))
}

func TestCalendarEventOverlaps(t *testing.T) {
	start := time.Date(2024, 4, 2, 14, 0, 0, 0, time.UTC)
	ev := &CalendarEvent{Start: start, End: start.Add(time.Hour)}

	assert.True(t, ev.Overlaps(start.Add(30*time.Minute), start.Add(2*time.Hour)))
	assert.True(t, ev.Overlaps(start.Add(-time.Hour), start.Add(30*time.Minute)))
	assert.True(t, ev.Overlaps(start.Add(-time.Hour), start.Add(2*time.Hour)))
	// Half-open: abutting intervals do not overlap.
	assert.False(t, ev.Overlaps(start.Add(time.Hour), start.Add(2*time.Hour)))
	assert.False(t, ev.Overlaps(start.Add(-time.Hour), start))
}

func TestTimelineEntrySortTime(t *testing.T) {
	date := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	created := date.Add(-time.Hour)
	updated := date.Add(-2 * time.Hour)

	withDate := &TimelineEntry{Date: &date, CreatedAt: created, UpdatedAt: updated}
	assert.Equal(t, date, withDate.SortTime())

	noDate := &TimelineEntry{CreatedAt: created, UpdatedAt: updated}
	assert.Equal(t, created, noDate.SortTime())

	onlyUpdated := &TimelineEntry{UpdatedAt: updated}
	assert.Equal(t, updated, onlyUpdated.SortTime())
}

func TestValidateID(t *testing.T) {
	require.NoError(t, ValidateID(1))
	assert.ErrorIs(t, ValidateID(0), ErrInvalidArgument)
	assert.ErrorIs(t, ValidateID(-7), ErrInvalidArgument)
}
