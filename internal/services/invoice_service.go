package services

import (
	"database/sql"
	"errors"
	"fmt"
	"mentorhub_backend/internal/models"
	"mentorhub_backend/internal/repositories"
	"mentorhub_backend/pkg/utils"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// --- Custom Service Errors for Invoices ---
var (
	ErrInvoiceNotFound       = errors.New("invoice not found")
	ErrInvoiceNumberConflict = errors.New("invoice number already exists")
	ErrInvoiceNotEditable    = errors.New("invoice can only be edited while pending")
	ErrInvalidTransition     = errors.New("status transition not allowed")
)

// --- Invoice DTOs ---

type CreateInvoiceRequest struct {
	Vendor    string            `json:"vendor" binding:"required"`
	IssueDate string            `json:"issue_date" binding:"required"`
	DueDate   *string           `json:"due_date"`
	VatRate   *string           `json:"vat_rate"` // decimal string, e.g. "0.15"; defaults from settings
	Notes     *string           `json:"notes"`
	LineItems []LineItemRequest `json:"line_items" binding:"required,min=1,dive"`
}

type UpdateInvoiceRequest struct {
	Vendor    string            `json:"vendor" binding:"required"`
	IssueDate string            `json:"issue_date" binding:"required"`
	DueDate   *string           `json:"due_date"`
	VatRate   *string           `json:"vat_rate"`
	Notes     *string           `json:"notes"`
	LineItems []LineItemRequest `json:"line_items" binding:"required,min=1,dive"`
}

type UpdateInvoiceStatusRequest struct {
	Status        string  `json:"status" binding:"required"`
	PaymentMethod *string `json:"payment_method"`
	PaidDate      *string `json:"paid_date"`
}

// --- InvoiceService Interface ---
type InvoiceService interface {
	CreateInvoice(req CreateInvoiceRequest, createdBy *int64) (*models.Invoice, error)
	GetInvoiceByID(invoiceID int64) (*models.Invoice, error)
	GetInvoices(filters repositories.InvoiceFilters) ([]models.Invoice, int, error)
	UpdateInvoice(invoiceID int64, req UpdateInvoiceRequest) (*models.Invoice, error)
	UpdateInvoiceStatus(invoiceID int64, req UpdateInvoiceStatusRequest) (*models.Invoice, error)
	DeleteInvoice(invoiceID int64) error
}

type invoiceService struct {
	invoiceRepo repositories.InvoiceRepository
	db          *sql.DB
}

func NewInvoiceService(repo repositories.InvoiceRepository, db *sql.DB) InvoiceService {
	return &invoiceService{invoiceRepo: repo, db: db}
}

// resolveVatRate picks the request rate when given, otherwise the configured
// default.
func (s *invoiceService) resolveVatRate(requested *string) (decimal.Decimal, error) {
	if requested == nil || strings.TrimSpace(*requested) == "" {
		return fetchDefaultVatRate(s.db), nil
	}
	rate, err := decimal.NewFromString(*requested)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: vat_rate must be a decimal string", ErrValidation)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("%w: vat_rate must be between 0 and 1", ErrValidation)
	}
	return rate, nil
}

func buildInvoiceLineItems(reqs []LineItemRequest) ([]models.InvoiceLineItem, error) {
	items := make([]models.InvoiceLineItem, 0, len(reqs))
	for i, li := range reqs {
		if strings.TrimSpace(li.Description) == "" {
			return nil, fmt.Errorf("%w: line item %d description cannot be empty", ErrValidation, i+1)
		}
		if li.Quantity < 1 {
			return nil, fmt.Errorf("%w: line item %d quantity must be at least 1", ErrValidation, i+1)
		}
		price, err := decimal.NewFromString(li.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("%w: line item %d unit_price must be a decimal string", ErrValidation, i+1)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("%w: line item %d unit_price cannot be negative", ErrValidation, i+1)
		}
		items = append(items, models.InvoiceLineItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   price,
		})
	}
	return items, nil
}

func (s *invoiceService) CreateInvoice(req CreateInvoiceRequest, createdBy *int64) (*models.Invoice, error) {
	if strings.TrimSpace(req.Vendor) == "" {
		return nil, fmt.Errorf("%w: vendor cannot be empty", ErrValidation)
	}
	if err := parseDateField("issue_date", req.IssueDate); err != nil {
		return nil, err
	}
	if req.DueDate != nil {
		if err := parseDateField("due_date", *req.DueDate); err != nil {
			return nil, err
		}
	}
	vatRate, err := s.resolveVatRate(req.VatRate)
	if err != nil {
		return nil, err
	}
	items, err := buildInvoiceLineItems(req.LineItems)
	if err != nil {
		return nil, err
	}

	totals := ComputeInvoiceTotals(items, vatRate)
	invoice := &models.Invoice{
		InvoiceNumber: utils.NewDocumentNumber("INV"),
		Vendor:        req.Vendor,
		IssueDate:     req.IssueDate,
		DueDate:       req.DueDate,
		Subtotal:      totals.Subtotal,
		VatRate:       vatRate,
		VatAmount:     totals.TaxAmount,
		Total:         totals.Total,
		Status:        models.InvoiceStatusPending,
		Notes:         req.Notes,
		CreatedBy:     createdBy,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for invoice creation: %w", err)
	}
	defer tx.Rollback()

	invoiceID, err := s.invoiceRepo.CreateInvoice(tx, invoice)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrInvoiceNumberConflict, err.Error())
		}
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	for i := range items {
		items[i].InvoiceID = invoiceID
		if _, err := s.invoiceRepo.CreateLineItem(tx, &items[i]); err != nil {
			return nil, fmt.Errorf("failed to create invoice line item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit invoice creation: %w", err)
	}
	return s.GetInvoiceByID(invoiceID)
}

func (s *invoiceService) GetInvoiceByID(invoiceID int64) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetInvoiceByID(invoiceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	items, err := s.invoiceRepo.GetLineItemsByInvoiceID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice line items: %w", err)
	}
	invoice.LineItems = items
	invoice.Overdue = InvoiceIsOverdue(invoice.Status, invoice.DueDate, time.Now())
	return invoice, nil
}

func (s *invoiceService) GetInvoices(filters repositories.InvoiceFilters) ([]models.Invoice, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 10
	}
	invoices, totalCount, err := s.invoiceRepo.GetInvoices(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get invoices: %w", err)
	}
	now := time.Now()
	for i := range invoices {
		invoices[i].Overdue = InvoiceIsOverdue(invoices[i].Status, invoices[i].DueDate, now)
	}
	return invoices, totalCount, nil
}

func (s *invoiceService) UpdateInvoice(invoiceID int64, req UpdateInvoiceRequest) (*models.Invoice, error) {
	existing, err := s.invoiceRepo.GetInvoiceByID(invoiceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to find invoice for update: %w", err)
	}
	if existing.Status != models.InvoiceStatusPending {
		return nil, fmt.Errorf("%w: current status is %s", ErrInvoiceNotEditable, existing.Status)
	}

	if strings.TrimSpace(req.Vendor) == "" {
		return nil, fmt.Errorf("%w: vendor cannot be empty", ErrValidation)
	}
	if err := parseDateField("issue_date", req.IssueDate); err != nil {
		return nil, err
	}
	if req.DueDate != nil {
		if err := parseDateField("due_date", *req.DueDate); err != nil {
			return nil, err
		}
	}
	vatRate, err := s.resolveVatRate(req.VatRate)
	if err != nil {
		return nil, err
	}
	items, err := buildInvoiceLineItems(req.LineItems)
	if err != nil {
		return nil, err
	}

	totals := ComputeInvoiceTotals(items, vatRate)
	existing.Vendor = req.Vendor
	existing.IssueDate = req.IssueDate
	existing.DueDate = req.DueDate
	existing.VatRate = vatRate
	existing.Subtotal = totals.Subtotal
	existing.VatAmount = totals.TaxAmount
	existing.Total = totals.Total
	existing.Notes = req.Notes

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for invoice update: %w", err)
	}
	defer tx.Rollback()

	if err := s.invoiceRepo.UpdateInvoice(tx, existing); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}
	if _, err := s.invoiceRepo.DeleteLineItemsByInvoiceID(tx, invoiceID); err != nil {
		return nil, fmt.Errorf("failed to replace invoice line items: %w", err)
	}
	for i := range items {
		items[i].InvoiceID = invoiceID
		if _, err := s.invoiceRepo.CreateLineItem(tx, &items[i]); err != nil {
			return nil, fmt.Errorf("failed to create invoice line item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit invoice update: %w", err)
	}
	return s.GetInvoiceByID(invoiceID)
}

func (s *invoiceService) UpdateInvoiceStatus(invoiceID int64, req UpdateInvoiceStatusRequest) (*models.Invoice, error) {
	current, err := s.invoiceRepo.GetInvoiceByID(invoiceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to find invoice for status update: %w", err)
	}
	switch req.Status {
	case models.InvoiceStatusPending, models.InvoiceStatusApproved, models.InvoiceStatusRejected,
		models.InvoiceStatusPaid, models.InvoiceStatusCancelled:
	default:
		return nil, fmt.Errorf("%w: unknown invoice status %q", ErrValidation, req.Status)
	}
	if !CanTransitionInvoice(current.Status, req.Status) {
		return nil, fmt.Errorf("%w: cannot move invoice from %s to %s", ErrInvalidTransition, current.Status, req.Status)
	}

	var paymentMethod, paidDate *string
	if req.Status == models.InvoiceStatusPaid {
		paymentMethod = req.PaymentMethod
		if req.PaidDate != nil {
			if err := parseDateField("paid_date", *req.PaidDate); err != nil {
				return nil, err
			}
			paidDate = req.PaidDate
		} else {
			today := time.Now().Format("2006-01-02")
			paidDate = &today
		}
	}

	// Compare-and-set on the status read above. Zero rows means either the
	// invoice vanished or someone else transitioned it first.
	rowsAffected, err := s.invoiceRepo.UpdateStatus(s.db, invoiceID, current.Status, req.Status, paymentMethod, paidDate)
	if err != nil {
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}
	if rowsAffected == 0 {
		if _, refetchErr := s.invoiceRepo.GetInvoiceByID(invoiceID); refetchErr != nil {
			if errors.Is(refetchErr, repositories.ErrNotFound) {
				return nil, ErrInvoiceNotFound
			}
			return nil, fmt.Errorf("failed to recheck invoice after status race: %w", refetchErr)
		}
		return nil, fmt.Errorf("%w: invoice status changed concurrently", ErrInvalidTransition)
	}
	return s.GetInvoiceByID(invoiceID)
}

func (s *invoiceService) DeleteInvoice(invoiceID int64) error {
	existing, err := s.invoiceRepo.GetInvoiceByID(invoiceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvoiceNotFound
		}
		return fmt.Errorf("failed to find invoice for deletion: %w", err)
	}
	if existing.Status != models.InvoiceStatusPending {
		return fmt.Errorf("%w: current status is %s", ErrInvoiceNotEditable, existing.Status)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for invoice deletion: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.invoiceRepo.DeleteLineItemsByInvoiceID(tx, invoiceID); err != nil {
		return fmt.Errorf("failed to delete invoice line items: %w", err)
	}
	if err := s.invoiceRepo.DeleteInvoice(tx, invoiceID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvoiceNotFound
		}
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit invoice deletion: %w", err)
	}
	return nil
}
