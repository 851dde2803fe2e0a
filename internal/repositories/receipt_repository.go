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

// ReceiptFilters narrows receipt listings.
type ReceiptFilters struct {
	Status   *string
	Category *string
	Page     int
	PageSize int
}

// ReceiptRepository defines the interface for receipt database operations.
type ReceiptRepository interface {
	CreateReceipt(executor SQLExecutor, receipt *models.Receipt) (int64, error)
	GetReceiptByID(id int64) (*models.Receipt, error)
	GetReceipts(filters ReceiptFilters) ([]models.Receipt, int, error)
	UpdateReceipt(executor SQLExecutor, receipt *models.Receipt) error
	// UpdateStatus decides a pending receipt. Returns rows affected so the
	// caller can distinguish a lost race from a missing receipt.
	UpdateStatus(executor SQLExecutor, receiptID int64, fromStatus, toStatus string, decidedBy int64) (int64, error)
	DeleteReceipt(executor SQLExecutor, id int64) error

	CreateLineItem(executor SQLExecutor, item *models.ReceiptLineItem) (int64, error)
	GetLineItemsByReceiptID(receiptID int64) ([]models.ReceiptLineItem, error)
	DeleteLineItemsByReceiptID(executor SQLExecutor, receiptID int64) (int64, error)
}

type receiptRepository struct {
	db *sql.DB
}

// NewReceiptRepository creates a new instance of ReceiptRepository.
func NewReceiptRepository(db *sql.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) CreateReceipt(executor SQLExecutor, receipt *models.Receipt) (int64, error) {
	query := `INSERT INTO receipts
	            (receipt_number, vendor, receipt_date, category, subtotal, tax_rate, tax_amount, total,
	             status, file_key, uploaded_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		receipt.ReceiptNumber, receipt.Vendor, receipt.ReceiptDate, receipt.Category,
		receipt.Subtotal, receipt.TaxRate, receipt.TaxAmount, receipt.Total,
		receipt.Status, receipt.FileKey, receipt.UploadedBy,
		currentTime, currentTime,
	).Scan(&receipt.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: receipt number '%s' already exists (constraint: %s)", ErrDuplicateKey, receipt.ReceiptNumber, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating receipt: %v", ErrDatabaseError, err)
	}
	return receipt.ID, nil
}

func (r *receiptRepository) GetReceiptByID(id int64) (*models.Receipt, error) {
	receipt := &models.Receipt{}
	query := `SELECT id, receipt_number, vendor, receipt_date, category, subtotal, tax_rate, tax_amount, total,
	                 status, file_key, uploaded_by, decided_by, decided_at, created_at, updated_at
	          FROM receipts
	          WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&receipt.ID, &receipt.ReceiptNumber, &receipt.Vendor, &receipt.ReceiptDate, &receipt.Category,
		&receipt.Subtotal, &receipt.TaxRate, &receipt.TaxAmount, &receipt.Total,
		&receipt.Status, &receipt.FileKey, &receipt.UploadedBy, &receipt.DecidedBy, &receipt.DecidedAt,
		&receipt.CreatedAt, &receipt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting receipt by ID %d: %v", ErrDatabaseError, id, err)
	}
	return receipt, nil
}

func (r *receiptRepository) GetReceipts(filters ReceiptFilters) ([]models.Receipt, int, error) {
	receipts := []models.Receipt{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, receipt_number, vendor, receipt_date, category, subtotal, tax_rate, tax_amount, total,
	       status, file_key, uploaded_by, decided_by, decided_at, created_at, updated_at,
	       COUNT(*) OVER() AS total_count
	  FROM receipts`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.Category != nil && *filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argCount))
		args = append(args, *filters.Category)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY receipt_date DESC, id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting receipts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var receipt models.Receipt
		if err := rows.Scan(
			&receipt.ID, &receipt.ReceiptNumber, &receipt.Vendor, &receipt.ReceiptDate, &receipt.Category,
			&receipt.Subtotal, &receipt.TaxRate, &receipt.TaxAmount, &receipt.Total,
			&receipt.Status, &receipt.FileKey, &receipt.UploadedBy, &receipt.DecidedBy, &receipt.DecidedAt,
			&receipt.CreatedAt, &receipt.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning receipt: %v", ErrDatabaseError, err)
		}
		receipts = append(receipts, receipt)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating receipts: %v", ErrDatabaseError, err)
	}
	return receipts, totalCount, nil
}

func (r *receiptRepository) UpdateReceipt(executor SQLExecutor, receipt *models.Receipt) error {
	query := `UPDATE receipts SET
	            vendor = $1, receipt_date = $2, category = $3, subtotal = $4, tax_rate = $5,
	            tax_amount = $6, total = $7, file_key = $8, updated_at = $9
	          WHERE id = $10`
	result, err := executor.Exec(query,
		receipt.Vendor, receipt.ReceiptDate, receipt.Category, receipt.Subtotal, receipt.TaxRate,
		receipt.TaxAmount, receipt.Total, receipt.FileKey, time.Now(), receipt.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating receipt ID %d: %v", ErrDatabaseError, receipt.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *receiptRepository) UpdateStatus(executor SQLExecutor, receiptID int64, fromStatus, toStatus string, decidedBy int64) (int64, error) {
	query := `UPDATE receipts SET status = $1, decided_by = $2, decided_at = $3, updated_at = $3
	          WHERE id = $4 AND status = $5`
	result, err := executor.Exec(query, toStatus, decidedBy, time.Now(), receiptID, fromStatus)
	if err != nil {
		return 0, fmt.Errorf("%w: transitioning receipt ID %d to %s: %v", ErrDatabaseError, receiptID, toStatus, err)
	}
	rowsAffected, _ := result.RowsAffected()
	return rowsAffected, nil
}

func (r *receiptRepository) DeleteReceipt(executor SQLExecutor, id int64) error {
	query := `DELETE FROM receipts WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting receipt ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Line Item Methods ---

func (r *receiptRepository) CreateLineItem(executor SQLExecutor, item *models.ReceiptLineItem) (int64, error) {
	query := `INSERT INTO receipt_line_items (receipt_id, description, quantity, unit_price, taxable, line_total)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	err := executor.QueryRow(query,
		item.ReceiptID, item.Description, item.Quantity, item.UnitPrice, item.Taxable, item.LineTotal,
	).Scan(&item.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating receipt line item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *receiptRepository) GetLineItemsByReceiptID(receiptID int64) ([]models.ReceiptLineItem, error) {
	items := []models.ReceiptLineItem{}
	query := `SELECT id, receipt_id, description, quantity, unit_price, taxable, line_total
	          FROM receipt_line_items
	          WHERE receipt_id = $1
	          ORDER BY id`
	rows, err := r.db.Query(query, receiptID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting line items for receipt %d: %v", ErrDatabaseError, receiptID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.ReceiptLineItem
		if err := rows.Scan(&item.ID, &item.ReceiptID, &item.Description, &item.Quantity, &item.UnitPrice, &item.Taxable, &item.LineTotal); err != nil {
			return nil, fmt.Errorf("%w: scanning receipt line item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating receipt line items: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *receiptRepository) DeleteLineItemsByReceiptID(executor SQLExecutor, receiptID int64) (int64, error) {
	query := `DELETE FROM receipt_line_items WHERE receipt_id = $1`
	result, err := executor.Exec(query, receiptID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting line items for receipt %d: %v", ErrDatabaseError, receiptID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	return rowsAffected, nil
}
