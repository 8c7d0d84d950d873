package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_BothNil(t *testing.T) {
	changes := Diff(nil, nil)

	assert.True(t, changes.IsEmpty())
}

func TestDiff_Create(t *testing.T) {
	after := []FieldSnapshot{
		{Name: "a", Value: 1},
		{Name: "b", Value: 2},
	}

	changes := Diff(nil, after)

	require.Len(t, changes, 2)
	assert.Equal(t, FieldChange{Field: "a", Before: nil, After: 1}, changes[0])
	assert.Equal(t, FieldChange{Field: "b", Before: nil, After: 2}, changes[1])
}

func TestDiff_Delete(t *testing.T) {
	before := []FieldSnapshot{
		{Name: "a", Value: 1},
		{Name: "b", Value: "x"},
	}

	changes := Diff(before, nil)

	require.Len(t, changes, 2)
	assert.Equal(t, FieldChange{Field: "a", Before: 1, After: nil}, changes[0])
	assert.Equal(t, FieldChange{Field: "b", Before: "x", After: nil}, changes[1])
}

func TestDiff_NoChanges(t *testing.T) {
	snap := []FieldSnapshot{
		{Name: "a", Value: 1},
		{Name: "b", Value: "same"},
	}

	changes := Diff(snap, snap)

	assert.True(t, changes.IsEmpty())
}

func TestDiff_ChangedField(t *testing.T) {
	before := []FieldSnapshot{{Name: "a", Value: 1}, {Name: "b", Value: 2}}
	after := []FieldSnapshot{{Name: "a", Value: 1}, {Name: "b", Value: 3}}

	changes := Diff(before, after)

	require.Len(t, changes, 1)
	assert.Equal(t, FieldChange{Field: "b", Before: 2, After: 3}, changes[0])
}

func TestDiff_FieldOnlyInBeforeNotReported(t *testing.T) {
	// Known asymmetry: fields dropped from the new body vanish from the
	// diff rather than being reported as removed.
	before := []FieldSnapshot{{Name: "a", Value: 1}, {Name: "gone", Value: 9}}
	after := []FieldSnapshot{{Name: "a", Value: 1}}

	changes := Diff(before, after)

	assert.True(t, changes.IsEmpty())
}

func TestDiff_LineItemsComparedPositionally(t *testing.T) {
	tests := []struct {
		name    string
		before  []LineItem
		after   []LineItem
		changed bool
	}{
		{
			name:    "identical",
			before:  []LineItem{{ProductID: "p1", Quantity: 2}},
			after:   []LineItem{{ProductID: "p1", Quantity: 2}},
			changed: false,
		},
		{
			name:    "quantity changed",
			before:  []LineItem{{ProductID: "p1", Quantity: 2}},
			after:   []LineItem{{ProductID: "p1", Quantity: 3}},
			changed: true,
		},
		{
			name:    "length changed",
			before:  []LineItem{{ProductID: "p1", Quantity: 2}},
			after:   []LineItem{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 1}},
			changed: true,
		},
		{
			name:    "order changed",
			before:  []LineItem{{ProductID: "p1", Quantity: 1}, {ProductID: "p2", Quantity: 1}},
			after:   []LineItem{{ProductID: "p2", Quantity: 1}, {ProductID: "p1", Quantity: 1}},
			changed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes := Diff(
				[]FieldSnapshot{{Name: "items", Value: tt.before}},
				[]FieldSnapshot{{Name: "items", Value: tt.after}},
			)

			if tt.changed {
				require.Len(t, changes, 1)
				assert.Equal(t, "items", changes[0].Field)
			} else {
				assert.True(t, changes.IsEmpty())
			}
		})
	}
}

func TestDiff_TimestampsComparedByInstant(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	local := base.In(time.FixedZone("UTC+7", 7*3600))

	changes := Diff(
		[]FieldSnapshot{{Name: "date", Value: base}},
		[]FieldSnapshot{{Name: "date", Value: local}},
	)

	assert.True(t, changes.IsEmpty())
}

func TestDiff_PreservesFieldOrder(t *testing.T) {
	before := []FieldSnapshot{{Name: "a", Value: 1}, {Name: "b", Value: 2}, {Name: "c", Value: 3}}
	after := []FieldSnapshot{{Name: "a", Value: 9}, {Name: "b", Value: 2}, {Name: "c", Value: 7}}

	changes := Diff(before, after)

	assert.Equal(t, []string{"a", "c"}, changes.Fields())
}

func TestChangeSet_Get(t *testing.T) {
	changes := ChangeSet{{Field: "stock", Before: int64(10), After: int64(7)}}

	change, ok := changes.Get("stock")
	require.True(t, ok)
	assert.Equal(t, int64(10), change.Before)
	assert.Equal(t, int64(7), change.After)

	_, ok = changes.Get("missing")
	assert.False(t, ok)
}
