package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock classifications derived from (quantity, min_stock, max_stock).
const (
	StockStatusOut  = "out-of-stock"
	StockStatusLow  = "low-stock"
	StockStatusOver = "overstock"
	StockStatusIn   = "in-stock"
)

// Stock operations accepted by the stock adjustment endpoint.
const (
	StockOpAdd      = "add"
	StockOpSubtract = "subtract"
	StockOpSet      = "set"
)

// InventoryItem represents program supplies tracked at a stock level.
type InventoryItem struct {
	ID          int64            `json:"id" db:"id"`
	ItemName    string           `json:"item_name" db:"item_name"`
	Category    string           `json:"category" db:"category"`
	SKU         string           `json:"sku" db:"sku"`
	Quantity    int              `json:"quantity" db:"quantity"`
	MinStock    int              `json:"min_stock" db:"min_stock"`
	MaxStock    *int             `json:"max_stock,omitempty" db:"max_stock"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty" db:"unit_price"`
	IsActive    bool             `json:"is_active" db:"is_active"`
	StockStatus string           `json:"stock_status"` // derived on every read, never stored
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

// ComputeStockStatus classifies the item's current stock level. It is a pure
// function of quantity, min_stock and max_stock so it can never drift from the
// live quantity.
func (i *InventoryItem) ComputeStockStatus() string {
	return StockStatusFor(i.Quantity, i.MinStock, i.MaxStock)
}

// StockStatusFor classifies a stock level given the item's thresholds.
func StockStatusFor(quantity, minStock int, maxStock *int) string {
	switch {
	case quantity <= 0:
		return StockStatusOut
	case quantity <= minStock:
		return StockStatusLow
	case maxStock != nil && quantity >= *maxStock:
		return StockStatusOver
	default:
		return StockStatusIn
	}
}
