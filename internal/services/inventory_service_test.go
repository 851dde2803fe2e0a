package services

import (
	"testing"

	"mentorhub_backend/internal/models"
	"mentorhub_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
)

type mockInventoryRepo struct {
	items       map[int64]*models.InventoryItem
	lastOp      string
	lastAmount  int
	createdItem *models.InventoryItem
}

func newMockInventoryRepo() *mockInventoryRepo {
	return &mockInventoryRepo{items: map[int64]*models.InventoryItem{}}
}

func (m *mockInventoryRepo) CreateItem(executor repositories.SQLExecutor, item *models.InventoryItem) (int64, error) {
	item.ID = int64(len(m.items) + 1)
	m.items[item.ID] = item
	m.createdItem = item
	return item.ID, nil
}

func (m *mockInventoryRepo) GetItemByID(id int64) (*models.InventoryItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (m *mockInventoryRepo) GetItems(filters repositories.InventoryFilters) ([]models.InventoryItem, int, error) {
	result := []models.InventoryItem{}
	for _, item := range m.items {
		result = append(result, *item)
	}
	return result, len(result), nil
}

func (m *mockInventoryRepo) UpdateItem(executor repositories.SQLExecutor, item *models.InventoryItem) error {
	if _, ok := m.items[item.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *mockInventoryRepo) DeleteItem(executor repositories.SQLExecutor, id int64) error {
	if _, ok := m.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockInventoryRepo) AddStock(executor repositories.SQLExecutor, itemID int64, amount int) (int, error) {
	item, ok := m.items[itemID]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	m.lastOp, m.lastAmount = models.StockOpAdd, amount
	item.Quantity += amount
	return item.Quantity, nil
}

func (m *mockInventoryRepo) SubtractStock(executor repositories.SQLExecutor, itemID int64, amount int) (int, error) {
	item, ok := m.items[itemID]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	m.lastOp, m.lastAmount = models.StockOpSubtract, amount
	item.Quantity -= amount
	if item.Quantity < 0 {
		item.Quantity = 0
	}
	return item.Quantity, nil
}

func (m *mockInventoryRepo) SetStock(executor repositories.SQLExecutor, itemID int64, quantity int) (int, error) {
	item, ok := m.items[itemID]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	m.lastOp, m.lastAmount = models.StockOpSet, quantity
	item.Quantity = quantity
	return item.Quantity, nil
}

func (m *mockInventoryRepo) CountLowStock() (int, error) {
	count := 0
	for _, item := range m.items {
		if item.Quantity <= item.MinStock {
			count++
		}
	}
	return count, nil
}

func seedItem(repo *mockInventoryRepo, quantity, minStock int) *models.InventoryItem {
	item := &models.InventoryItem{
		ID:       1,
		ItemName: "Sketchbooks",
		Category: "art-supplies",
		SKU:      "SKU-TEST0001",
		Quantity: quantity,
		MinStock: minStock,
		IsActive: true,
	}
	repo.items[item.ID] = item
	return item
}

func TestApplyStockChange_Add(t *testing.T) {
	repo := newMockInventoryRepo()
	seedItem(repo, 10, 5)
	svc := NewInventoryService(repo, nil)

	result, err := svc.ApplyStockChange(1, StockChangeRequest{Quantity: 7, Operation: models.StockOpAdd})

	assert.NoError(t, err)
	assert.Equal(t, 17, result.Quantity)
	assert.Equal(t, models.StockStatusIn, result.StockStatus)
}

func TestApplyStockChange_SubtractClampsAtZero(t *testing.T) {
	repo := newMockInventoryRepo()
	seedItem(repo, 3, 5)
	svc := NewInventoryService(repo, nil)

	result, err := svc.ApplyStockChange(1, StockChangeRequest{Quantity: 10, Operation: models.StockOpSubtract})

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Quantity)
	assert.Equal(t, models.StockStatusOut, result.StockStatus)
}

func TestApplyStockChange_SetReportsLowStock(t *testing.T) {
	repo := newMockInventoryRepo()
	seedItem(repo, 20, 5)
	svc := NewInventoryService(repo, nil)

	result, err := svc.ApplyStockChange(1, StockChangeRequest{Quantity: 4, Operation: models.StockOpSet})

	assert.NoError(t, err)
	assert.Equal(t, 4, result.Quantity)
	assert.Equal(t, models.StockStatusLow, result.StockStatus)
}

func TestApplyStockChange_NegativeQuantityRejected(t *testing.T) {
	repo := newMockInventoryRepo()
	seedItem(repo, 10, 5)
	svc := NewInventoryService(repo, nil)

	_, err := svc.ApplyStockChange(1, StockChangeRequest{Quantity: -1, Operation: models.StockOpAdd})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 10, repo.items[1].Quantity, "quantity must be untouched on validation failure")
}

func TestApplyStockChange_UnknownOperationRejected(t *testing.T) {
	repo := newMockInventoryRepo()
	seedItem(repo, 10, 5)
	svc := NewInventoryService(repo, nil)

	_, err := svc.ApplyStockChange(1, StockChangeRequest{Quantity: 1, Operation: "increment"})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestApplyStockChange_MissingItem(t *testing.T) {
	repo := newMockInventoryRepo()
	svc := NewInventoryService(repo, nil)

	_, err := svc.ApplyStockChange(99, StockChangeRequest{Quantity: 1, Operation: models.StockOpAdd})

	assert.ErrorIs(t, err, ErrInventoryItemNotFound)
}

func TestCreateItem_GeneratesSKUAndDefaults(t *testing.T) {
	repo := newMockInventoryRepo()
	svc := NewInventoryService(repo, nil)

	item, err := svc.CreateItem(CreateInventoryItemRequest{ItemName: "Whiteboard markers", Category: "office"})

	assert.NoError(t, err)
	assert.True(t, item.IsActive)
	assert.Contains(t, item.SKU, "SKU-")
	assert.Equal(t, 0, item.Quantity)
	assert.Equal(t, models.StockStatusOut, item.StockStatus)
}
