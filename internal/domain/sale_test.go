package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemQuantities_LastOccurrenceWins(t *testing.T) {
	txn := SaleTransaction{
		Items: []LineItem{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
			{ProductID: "p1", Quantity: 5},
		},
	}

	quantities := txn.ItemQuantities()

	assert.Equal(t, map[string]int64{"p1": 5, "p2": 1}, quantities)
}

func TestStockDeltas(t *testing.T) {
	tests := []struct {
		name    string
		old     map[string]int64
		updated map[string]int64
		want    map[string]int64
	}{
		{
			name:    "create consumes stock",
			old:     nil,
			updated: map[string]int64{"p1": 3},
			want:    map[string]int64{"p1": 3},
		},
		{
			name:    "delete restores stock",
			old:     map[string]int64{"p1": 3},
			updated: nil,
			want:    map[string]int64{"p1": -3},
		},
		{
			name:    "update nets the difference",
			old:     map[string]int64{"p1": 3},
			updated: map[string]int64{"p1": 5},
			want:    map[string]int64{"p1": 2},
		},
		{
			name:    "unchanged quantities are dropped",
			old:     map[string]int64{"p1": 3, "p2": 1},
			updated: map[string]int64{"p1": 3, "p2": 4},
			want:    map[string]int64{"p2": 3},
		},
		{
			name:    "mixed add and remove",
			old:     map[string]int64{"p1": 2},
			updated: map[string]int64{"p2": 4},
			want:    map[string]int64{"p1": -2, "p2": 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StockDeltas(tt.old, tt.updated))
		})
	}
}
