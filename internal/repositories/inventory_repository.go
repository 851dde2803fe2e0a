package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"mentorhub_backend/internal/models"
	"strings"
	"time"

	"github.com/lib/pq"
)

// InventoryFilters narrows inventory listings.
type InventoryFilters struct {
	Category *string
	Search   *string // matches item_name or sku
	Active   *bool
	LowStock bool // quantity at or below min_stock
	Page     int
	PageSize int
}

// InventoryRepository defines the interface for inventory item database operations.
type InventoryRepository interface {
	CreateItem(executor SQLExecutor, item *models.InventoryItem) (int64, error)
	GetItemByID(id int64) (*models.InventoryItem, error)
	GetItems(filters InventoryFilters) ([]models.InventoryItem, int, error)
	UpdateItem(executor SQLExecutor, item *models.InventoryItem) error
	DeleteItem(executor SQLExecutor, id int64) error
	// AddStock, SubtractStock and SetStock mutate quantity in a single UPDATE
	// so concurrent adjustments never interleave a stale read. Each returns
	// the resulting quantity.
	AddStock(executor SQLExecutor, itemID int64, amount int) (int, error)
	SubtractStock(executor SQLExecutor, itemID int64, amount int) (int, error)
	SetStock(executor SQLExecutor, itemID int64, quantity int) (int, error)
	CountLowStock() (int, error)
}

type inventoryRepository struct {
	db *sql.DB
}

// NewInventoryRepository creates a new instance of InventoryRepository.
func NewInventoryRepository(db *sql.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) CreateItem(executor SQLExecutor, item *models.InventoryItem) (int64, error) {
	query := `INSERT INTO inventory_items
	            (item_name, category, sku, quantity, min_stock, max_stock, unit_price, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		item.ItemName, item.Category, item.SKU, item.Quantity, item.MinStock, item.MaxStock,
		item.UnitPrice, item.IsActive, currentTime, currentTime,
	).Scan(&item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: SKU '%s' already exists (constraint: %s)", ErrDuplicateKey, item.SKU, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating inventory item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *inventoryRepository) GetItemByID(id int64) (*models.InventoryItem, error) {
	item := &models.InventoryItem{}
	query := `SELECT id, item_name, category, sku, quantity, min_stock, max_stock, unit_price, is_active, created_at, updated_at
	          FROM inventory_items
	          WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&item.ID, &item.ItemName, &item.Category, &item.SKU, &item.Quantity, &item.MinStock,
		&item.MaxStock, &item.UnitPrice, &item.IsActive, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting inventory item by ID %d: %v", ErrDatabaseError, id, err)
	}
	return item, nil
}

func (r *inventoryRepository) GetItems(filters InventoryFilters) ([]models.InventoryItem, int, error) {
	items := []models.InventoryItem{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, item_name, category, sku, quantity, min_stock, max_stock, unit_price, is_active, created_at, updated_at,
	       COUNT(*) OVER() AS total_count
	  FROM inventory_items`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Category != nil && *filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argCount))
		args = append(args, *filters.Category)
		argCount++
	}
	if filters.Search != nil && *filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(item_name ILIKE $%d OR sku ILIKE $%d)", argCount, argCount))
		args = append(args, "%"+*filters.Search+"%")
		argCount++
	}
	if filters.Active != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argCount))
		args = append(args, *filters.Active)
		argCount++
	}
	if filters.LowStock {
		conditions = append(conditions, "quantity <= min_stock")
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY item_name")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting inventory items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.InventoryItem
		if err := rows.Scan(
			&item.ID, &item.ItemName, &item.Category, &item.SKU, &item.Quantity, &item.MinStock,
			&item.MaxStock, &item.UnitPrice, &item.IsActive, &item.CreatedAt, &item.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning inventory item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating inventory items: %v", ErrDatabaseError, err)
	}
	return items, totalCount, nil
}

func (r *inventoryRepository) UpdateItem(executor SQLExecutor, item *models.InventoryItem) error {
	// Quantity is deliberately excluded; stock changes go through the
	// dedicated stock methods.
	query := `UPDATE inventory_items SET
	            item_name = $1, category = $2, sku = $3, min_stock = $4, max_stock = $5,
	            unit_price = $6, is_active = $7, updated_at = $8
	          WHERE id = $9`
	result, err := executor.Exec(query,
		item.ItemName, item.Category, item.SKU, item.MinStock, item.MaxStock,
		item.UnitPrice, item.IsActive, time.Now(), item.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: SKU '%s' already exists (constraint: %s)", ErrDuplicateKey, item.SKU, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating inventory item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *inventoryRepository) DeleteItem(executor SQLExecutor, id int64) error {
	query := `DELETE FROM inventory_items WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting inventory item ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *inventoryRepository) AddStock(executor SQLExecutor, itemID int64, amount int) (int, error) {
	query := `UPDATE inventory_items SET quantity = quantity + $1, updated_at = $2
	          WHERE id = $3
	          RETURNING quantity`
	return r.stockUpdate(executor, query, amount, itemID)
}

// SubtractStock clamps at zero rather than rejecting, so an over-subtraction
// empties the stock instead of failing.
func (r *inventoryRepository) SubtractStock(executor SQLExecutor, itemID int64, amount int) (int, error) {
	query := `UPDATE inventory_items SET quantity = GREATEST(quantity - $1, 0), updated_at = $2
	          WHERE id = $3
	          RETURNING quantity`
	return r.stockUpdate(executor, query, amount, itemID)
}

func (r *inventoryRepository) SetStock(executor SQLExecutor, itemID int64, quantity int) (int, error) {
	query := `UPDATE inventory_items SET quantity = $1, updated_at = $2
	          WHERE id = $3
	          RETURNING quantity`
	return r.stockUpdate(executor, query, quantity, itemID)
}

func (r *inventoryRepository) stockUpdate(executor SQLExecutor, query string, amount int, itemID int64) (int, error) {
	var newQuantity int
	err := executor.QueryRow(query, amount, time.Now(), itemID).Scan(&newQuantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: updating stock for item ID %d: %v", ErrDatabaseError, itemID, err)
	}
	return newQuantity, nil
}

func (r *inventoryRepository) CountLowStock() (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM inventory_items WHERE is_active = TRUE AND quantity <= min_stock`
	if err := r.db.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting low stock items: %v", ErrDatabaseError, err)
	}
	return count, nil
}
