package services

import (
	"database/sql"
	"errors"
	"fmt"
	"mentorhub_backend/internal/models"
	"mentorhub_backend/internal/repositories"
	"mentorhub_backend/pkg/utils"
	"strings"

	"github.com/shopspring/decimal"
)

// --- Custom Service Errors for Inventory ---
var (
	ErrInventoryItemNotFound = errors.New("inventory item not found")
	ErrSKUConflict           = errors.New("SKU already exists")
)

// --- Inventory DTOs ---

type CreateInventoryItemRequest struct {
	ItemName  string  `json:"item_name" binding:"required"`
	Category  string  `json:"category" binding:"required"`
	SKU       *string `json:"sku"` // generated when omitted
	Quantity  *int    `json:"quantity"`
	MinStock  *int    `json:"min_stock"`
	MaxStock  *int    `json:"max_stock"`
	UnitPrice *string `json:"unit_price"` // decimal string
}

type UpdateInventoryItemRequest struct {
	ItemName  *string `json:"item_name"`
	Category  *string `json:"category"`
	SKU       *string `json:"sku"`
	MinStock  *int    `json:"min_stock"`
	MaxStock  *int    `json:"max_stock"`
	UnitPrice *string `json:"unit_price"`
	IsActive  *bool   `json:"is_active"`
}

type StockChangeRequest struct {
	Quantity  int    `json:"quantity"`
	Operation string `json:"operation" binding:"required"`
}

// StockChangeResult reports the outcome of a stock adjustment.
type StockChangeResult struct {
	ItemID      int64  `json:"item_id"`
	Quantity    int    `json:"quantity"`
	StockStatus string `json:"stock_status"`
}

// --- InventoryService Interface ---
type InventoryService interface {
	CreateItem(req CreateInventoryItemRequest) (*models.InventoryItem, error)
	GetItemByID(itemID int64) (*models.InventoryItem, error)
	GetItems(filters repositories.InventoryFilters) ([]models.InventoryItem, int, error)
	UpdateItem(itemID int64, req UpdateInventoryItemRequest) (*models.InventoryItem, error)
	ApplyStockChange(itemID int64, req StockChangeRequest) (*StockChangeResult, error)
}

type inventoryService struct {
	inventoryRepo repositories.InventoryRepository
	db            *sql.DB
}

func NewInventoryService(repo repositories.InventoryRepository, db *sql.DB) InventoryService {
	return &inventoryService{inventoryRepo: repo, db: db}
}

func parseUnitPrice(value *string) (*decimal.Decimal, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	price, err := decimal.NewFromString(*value)
	if err != nil {
		return nil, fmt.Errorf("%w: unit_price must be a decimal string", ErrValidation)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: unit_price cannot be negative", ErrValidation)
	}
	return &price, nil
}

func (s *inventoryService) CreateItem(req CreateInventoryItemRequest) (*models.InventoryItem, error) {
	if strings.TrimSpace(req.ItemName) == "" {
		return nil, fmt.Errorf("%w: item_name cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(req.Category) == "" {
		return nil, fmt.Errorf("%w: category cannot be empty", ErrValidation)
	}

	item := &models.InventoryItem{
		ItemName: req.ItemName,
		Category: req.Category,
		IsActive: true,
	}
	if req.SKU != nil && strings.TrimSpace(*req.SKU) != "" {
		item.SKU = strings.TrimSpace(*req.SKU)
	} else {
		item.SKU = utils.NewSKU()
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
		}
		item.Quantity = *req.Quantity
	}
	if req.MinStock != nil {
		if *req.MinStock < 0 {
			return nil, fmt.Errorf("%w: min_stock cannot be negative", ErrValidation)
		}
		item.MinStock = *req.MinStock
	}
	if req.MaxStock != nil {
		if *req.MaxStock < 0 {
			return nil, fmt.Errorf("%w: max_stock cannot be negative", ErrValidation)
		}
		item.MaxStock = req.MaxStock
	}
	price, err := parseUnitPrice(req.UnitPrice)
	if err != nil {
		return nil, err
	}
	item.UnitPrice = price

	if _, err := s.inventoryRepo.CreateItem(s.db, item); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrSKUConflict, err.Error())
		}
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return s.GetItemByID(item.ID)
}

func (s *inventoryService) GetItemByID(itemID int64) (*models.InventoryItem, error) {
	item, err := s.inventoryRepo.GetItemByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	item.StockStatus = item.ComputeStockStatus()
	return item, nil
}

func (s *inventoryService) GetItems(filters repositories.InventoryFilters) ([]models.InventoryItem, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 10
	}
	items, totalCount, err := s.inventoryRepo.GetItems(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get inventory items: %w", err)
	}
	for i := range items {
		items[i].StockStatus = items[i].ComputeStockStatus()
	}
	return items, totalCount, nil
}

func (s *inventoryService) UpdateItem(itemID int64, req UpdateInventoryItemRequest) (*models.InventoryItem, error) {
	item, err := s.inventoryRepo.GetItemByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, fmt.Errorf("failed to find inventory item for update: %w", err)
	}

	if req.ItemName != nil {
		if strings.TrimSpace(*req.ItemName) == "" {
			return nil, fmt.Errorf("%w: item_name cannot be empty if provided", ErrValidation)
		}
		item.ItemName = *req.ItemName
	}
	if req.Category != nil {
		if strings.TrimSpace(*req.Category) == "" {
			return nil, fmt.Errorf("%w: category cannot be empty if provided", ErrValidation)
		}
		item.Category = *req.Category
	}
	if req.SKU != nil && strings.TrimSpace(*req.SKU) != "" {
		item.SKU = strings.TrimSpace(*req.SKU)
	}
	if req.MinStock != nil {
		if *req.MinStock < 0 {
			return nil, fmt.Errorf("%w: min_stock cannot be negative", ErrValidation)
		}
		item.MinStock = *req.MinStock
	}
	if req.MaxStock != nil {
		if *req.MaxStock < 0 {
			return nil, fmt.Errorf("%w: max_stock cannot be negative", ErrValidation)
		}
		item.MaxStock = req.MaxStock
	}
	if req.UnitPrice != nil {
		price, err := parseUnitPrice(req.UnitPrice)
		if err != nil {
			return nil, err
		}
		item.UnitPrice = price
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := s.inventoryRepo.UpdateItem(s.db, item); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInventoryItemNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrSKUConflict, err.Error())
		}
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}
	return s.GetItemByID(itemID)
}

// ApplyStockChange validates and runs one stock adjustment. The mutation is a
// single SQL UPDATE, so concurrent adjustments serialize at the row level.
func (s *inventoryService) ApplyStockChange(itemID int64, req StockChangeRequest) (*StockChangeResult, error) {
	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}

	var newQuantity int
	var err error
	switch req.Operation {
	case models.StockOpAdd:
		newQuantity, err = s.inventoryRepo.AddStock(s.db, itemID, req.Quantity)
	case models.StockOpSubtract:
		newQuantity, err = s.inventoryRepo.SubtractStock(s.db, itemID, req.Quantity)
	case models.StockOpSet:
		newQuantity, err = s.inventoryRepo.SetStock(s.db, itemID, req.Quantity)
	default:
		return nil, fmt.Errorf("%w: operation must be add, subtract or set", ErrValidation)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, fmt.Errorf("failed to apply stock change: %w", err)
	}

	item, err := s.inventoryRepo.GetItemByID(itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload inventory item after stock change: %w", err)
	}
	return &StockChangeResult{
		ItemID:      itemID,
		Quantity:    newQuantity,
		StockStatus: models.StockStatusFor(newQuantity, item.MinStock, item.MaxStock),
	}, nil
}
