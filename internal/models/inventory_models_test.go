package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockStatusFor(t *testing.T) {
	max := 100
	cases := []struct {
		name     string
		quantity int
		minStock int
		maxStock *int
		want     string
	}{
		{"zero quantity", 0, 5, nil, StockStatusOut},
		{"negative quantity", -3, 5, nil, StockStatusOut},
		{"at min stock", 5, 5, nil, StockStatusLow},
		{"below min stock", 3, 5, nil, StockStatusLow},
		{"healthy without max", 50, 5, nil, StockStatusIn},
		{"healthy below max", 50, 5, &max, StockStatusIn},
		{"at max stock", 100, 5, &max, StockStatusOver},
		{"above max stock", 120, 5, &max, StockStatusOver},
		{"zero min means never low", 1, 0, nil, StockStatusIn},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StockStatusFor(tc.quantity, tc.minStock, tc.maxStock))
		})
	}
}

func TestComputeStockStatus(t *testing.T) {
	item := InventoryItem{Quantity: 2, MinStock: 5}
	assert.Equal(t, StockStatusLow, item.ComputeStockStatus())
}
