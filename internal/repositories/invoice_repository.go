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

// InvoiceFilters narrows invoice listings.
type InvoiceFilters struct {
	Status   *string
	Vendor   *string
	Page     int
	PageSize int
}

// InvoiceRepository defines the interface for invoice database operations.
type InvoiceRepository interface {
	CreateInvoice(executor SQLExecutor, invoice *models.Invoice) (int64, error)
	GetInvoiceByID(id int64) (*models.Invoice, error)
	GetInvoices(filters InvoiceFilters) ([]models.Invoice, int, error)
	UpdateInvoice(executor SQLExecutor, invoice *models.Invoice) error
	// UpdateStatus transitions the invoice only if its current status matches
	// fromStatus. Returns rows affected so the caller can distinguish a lost
	// race from a missing invoice.
	UpdateStatus(executor SQLExecutor, invoiceID int64, fromStatus, toStatus string, paymentMethod, paidDate *string) (int64, error)
	DeleteInvoice(executor SQLExecutor, id int64) error

	CreateLineItem(executor SQLExecutor, item *models.InvoiceLineItem) (int64, error)
	GetLineItemsByInvoiceID(invoiceID int64) ([]models.InvoiceLineItem, error)
	DeleteLineItemsByInvoiceID(executor SQLExecutor, invoiceID int64) (int64, error)
}

type invoiceRepository struct {
	db *sql.DB
}

// NewInvoiceRepository creates a new instance of InvoiceRepository.
func NewInvoiceRepository(db *sql.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) CreateInvoice(executor SQLExecutor, invoice *models.Invoice) (int64, error) {
	query := `INSERT INTO invoices
	            (invoice_number, vendor, issue_date, due_date, subtotal, vat_rate, vat_amount, total,
	             status, payment_method, paid_date, notes, created_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		invoice.InvoiceNumber, invoice.Vendor, invoice.IssueDate, invoice.DueDate,
		invoice.Subtotal, invoice.VatRate, invoice.VatAmount, invoice.Total,
		invoice.Status, invoice.PaymentMethod, invoice.PaidDate, invoice.Notes, invoice.CreatedBy,
		currentTime, currentTime,
	).Scan(&invoice.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: invoice number '%s' already exists (constraint: %s)", ErrDuplicateKey, invoice.InvoiceNumber, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating invoice: %v", ErrDatabaseError, err)
	}
	return invoice.ID, nil
}

func (r *invoiceRepository) GetInvoiceByID(id int64) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	query := `SELECT id, invoice_number, vendor, issue_date, due_date, subtotal, vat_rate, vat_amount, total,
	                 status, payment_method, paid_date, notes, created_by, created_at, updated_at
	          FROM invoices
	          WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&invoice.ID, &invoice.InvoiceNumber, &invoice.Vendor, &invoice.IssueDate, &invoice.DueDate,
		&invoice.Subtotal, &invoice.VatRate, &invoice.VatAmount, &invoice.Total,
		&invoice.Status, &invoice.PaymentMethod, &invoice.PaidDate, &invoice.Notes, &invoice.CreatedBy,
		&invoice.CreatedAt, &invoice.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting invoice by ID %d: %v", ErrDatabaseError, id, err)
	}
	return invoice, nil
}

func (r *invoiceRepository) GetInvoices(filters InvoiceFilters) ([]models.Invoice, int, error) {
	invoices := []models.Invoice{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, invoice_number, vendor, issue_date, due_date, subtotal, vat_rate, vat_amount, total,
	       status, payment_method, paid_date, notes, created_by, created_at, updated_at,
	       COUNT(*) OVER() AS total_count
	  FROM invoices`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.Vendor != nil && *filters.Vendor != "" {
		conditions = append(conditions, fmt.Sprintf("vendor ILIKE $%d", argCount))
		args = append(args, "%"+*filters.Vendor+"%")
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY issue_date DESC, id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting invoices: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var invoice models.Invoice
		if err := rows.Scan(
			&invoice.ID, &invoice.InvoiceNumber, &invoice.Vendor, &invoice.IssueDate, &invoice.DueDate,
			&invoice.Subtotal, &invoice.VatRate, &invoice.VatAmount, &invoice.Total,
			&invoice.Status, &invoice.PaymentMethod, &invoice.PaidDate, &invoice.Notes, &invoice.CreatedBy,
			&invoice.CreatedAt, &invoice.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning invoice: %v", ErrDatabaseError, err)
		}
		invoices = append(invoices, invoice)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating invoices: %v", ErrDatabaseError, err)
	}
	return invoices, totalCount, nil
}

func (r *invoiceRepository) UpdateInvoice(executor SQLExecutor, invoice *models.Invoice) error {
	query := `UPDATE invoices SET
	            vendor = $1, issue_date = $2, due_date = $3, subtotal = $4, vat_rate = $5,
	            vat_amount = $6, total = $7, notes = $8, updated_at = $9
	          WHERE id = $10`
	result, err := executor.Exec(query,
		invoice.Vendor, invoice.IssueDate, invoice.DueDate, invoice.Subtotal, invoice.VatRate,
		invoice.VatAmount, invoice.Total, invoice.Notes, time.Now(), invoice.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating invoice ID %d: %v", ErrDatabaseError, invoice.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *invoiceRepository) UpdateStatus(executor SQLExecutor, invoiceID int64, fromStatus, toStatus string, paymentMethod, paidDate *string) (int64, error) {
	query := `UPDATE invoices SET status = $1,
	            payment_method = COALESCE($2, payment_method),
	            paid_date = COALESCE($3, paid_date),
	            updated_at = $4
	          WHERE id = $5 AND status = $6`
	result, err := executor.Exec(query, toStatus, paymentMethod, paidDate, time.Now(), invoiceID, fromStatus)
	if err != nil {
		return 0, fmt.Errorf("%w: transitioning invoice ID %d to %s: %v", ErrDatabaseError, invoiceID, toStatus, err)
	}
	rowsAffected, _ := result.RowsAffected()
	return rowsAffected, nil
}

func (r *invoiceRepository) DeleteInvoice(executor SQLExecutor, id int64) error {
	query := `DELETE FROM invoices WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting invoice ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Line Item Methods ---

func (r *invoiceRepository) CreateLineItem(executor SQLExecutor, item *models.InvoiceLineItem) (int64, error) {
	query := `INSERT INTO invoice_line_items (invoice_id, description, quantity, unit_price, line_total)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	err := executor.QueryRow(query,
		item.InvoiceID, item.Description, item.Quantity, item.UnitPrice, item.LineTotal,
	).Scan(&item.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating invoice line item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *invoiceRepository) GetLineItemsByInvoiceID(invoiceID int64) ([]models.InvoiceLineItem, error) {
	items := []models.InvoiceLineItem{}
	query := `SELECT id, invoice_id, description, quantity, unit_price, line_total
	          FROM invoice_line_items
	          WHERE invoice_id = $1
	          ORDER BY id`
	rows, err := r.db.Query(query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting line items for invoice %d: %v", ErrDatabaseError, invoiceID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.InvoiceLineItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Quantity, &item.UnitPrice, &item.LineTotal); err != nil {
			return nil, fmt.Errorf("%w: scanning invoice line item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating invoice line items: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *invoiceRepository) DeleteLineItemsByInvoiceID(executor SQLExecutor, invoiceID int64) (int64, error) {
	query := `DELETE FROM invoice_line_items WHERE invoice_id = $1`
	result, err := executor.Exec(query, invoiceID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting line items for invoice %d: %v", ErrDatabaseError, invoiceID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	return rowsAffected, nil
}
