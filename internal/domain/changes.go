package domain

import (
	"reflect"
	"time"
)

// FieldSnapshot is one named field value from an entity's declared field
// list. Entities expose their auditable fields in declaration order so the
// differ never has to enumerate runtime keys.
type FieldSnapshot struct {
	Name  string
	Value any
}

// FieldChange records one field's before and after values.
type FieldChange struct {
	Field  string `bson:"field" json:"field"`
	Before any    `bson:"before" json:"before"`
	After  any    `bson:"after" json:"after"`
}

// ChangeSet is an ordered list of field changes. Order follows the field
// declaration order of the entity that produced the snapshots.
type ChangeSet []FieldChange

// Diff computes the field-level change set between two entity snapshots.
// A nil slice means the entity did not exist on that side: create reports
// every after field with a nil before, delete reports every before field
// with a nil after. On update only fields present in the after snapshot are
// compared; fields present only in before are not reported.
func Diff(before, after []FieldSnapshot) ChangeSet {
	changes := ChangeSet{}

	switch {
	case before == nil && after == nil:
		return changes

	case before == nil:
		for _, f := range after {
			changes = append(changes, FieldChange{Field: f.Name, Before: nil, After: f.Value})
		}
		return changes

	case after == nil:
		for _, f := range before {
			changes = append(changes, FieldChange{Field: f.Name, Before: f.Value, After: nil})
		}
		return changes
	}

	prior := make(map[string]any, len(before))
	for _, f := range before {
		prior[f.Name] = f.Value
	}

	for _, f := range after {
		old, existed := prior[f.Name]
		if existed && valuesEqual(old, f.Value) {
			continue
		}
		changes = append(changes, FieldChange{Field: f.Name, Before: old, After: f.Value})
	}

	return changes
}

// valuesEqual compares two field values. Line item lists are compared
// element by element by position, timestamps by instant, everything else by
// deep value equality.
func valuesEqual(a, b any) bool {
	if itemsA, ok := a.([]LineItem); ok {
		itemsB, ok := b.([]LineItem)
		if !ok {
			return false
		}
		return lineItemsEqual(itemsA, itemsB)
	}

	if timeA, ok := a.(time.Time); ok {
		timeB, ok := b.(time.Time)
		if !ok {
			return false
		}
		return timeA.Equal(timeB)
	}

	return reflect.DeepEqual(a, b)
}

func lineItemsEqual(a, b []LineItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ProductID != b[i].ProductID || a[i].Quantity != b[i].Quantity {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the change set records no changes.
func (c ChangeSet) IsEmpty() bool {
	return len(c) == 0
}

// Fields returns the changed field names in order.
func (c ChangeSet) Fields() []string {
	names := make([]string, 0, len(c))
	for _, change := range c {
		names = append(names, change.Field)
	}
	return names
}

// Get returns the change recorded for a field, if any.
func (c ChangeSet) Get(field string) (FieldChange, bool) {
	for _, change := range c {
		if change.Field == field {
			return change, true
		}
	}
	return FieldChange{}, false
}
