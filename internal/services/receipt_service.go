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

// --- Custom Service Errors for Receipts ---
var (
	ErrReceiptNotFound       = errors.New("receipt not found")
	ErrReceiptNumberConflict = errors.New("receipt number already exists")
	ErrReceiptNotEditable    = errors.New("receipt can only be edited while pending")
	ErrReceiptDecided        = errors.New("receipt has already been decided")
)

// --- Receipt DTOs ---

type CreateReceiptRequest struct {
	Vendor    string            `json:"vendor" binding:"required"`
	Date      string            `json:"date" binding:"required"`
	Category  *string           `json:"category"`
	TaxRate   *string           `json:"tax_rate"` // decimal string; defaults from settings
	FileKey   *string           `json:"file_key"`
	LineItems []LineItemRequest `json:"line_items" binding:"required,min=1,dive"`
}

type UpdateReceiptRequest struct {
	Vendor    string            `json:"vendor" binding:"required"`
	Date      string            `json:"date" binding:"required"`
	Category  *string           `json:"category"`
	TaxRate   *string           `json:"tax_rate"`
	FileKey   *string           `json:"file_key"`
	LineItems []LineItemRequest `json:"line_items" binding:"required,min=1,dive"`
}

type DecideReceiptRequest struct {
	Status string `json:"status" binding:"required"` // approved or rejected
}

// --- ReceiptService Interface ---
type ReceiptService interface {
	CreateReceipt(req CreateReceiptRequest, uploadedBy *int64) (*models.Receipt, error)
	GetReceiptByID(receiptID int64) (*models.Receipt, error)
	GetReceipts(filters repositories.ReceiptFilters) ([]models.Receipt, int, error)
	UpdateReceipt(receiptID int64, req UpdateReceiptRequest) (*models.Receipt, error)
	DecideReceipt(receiptID int64, req DecideReceiptRequest, decidedBy int64) (*models.Receipt, error)
	DeleteReceipt(receiptID int64) error
}

type receiptService struct {
	receiptRepo repositories.ReceiptRepository
	db          *sql.DB
}

func NewReceiptService(repo repositories.ReceiptRepository, db *sql.DB) ReceiptService {
	return &receiptService{receiptRepo: repo, db: db}
}

func (s *receiptService) resolveTaxRate(requested *string) (decimal.Decimal, error) {
	if requested == nil || strings.TrimSpace(*requested) == "" {
		return fetchDefaultVatRate(s.db), nil
	}
	rate, err := decimal.NewFromString(*requested)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: tax_rate must be a decimal string", ErrValidation)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("%w: tax_rate must be between 0 and 1", ErrValidation)
	}
	return rate, nil
}

func buildReceiptLineItems(reqs []LineItemRequest) ([]models.ReceiptLineItem, error) {
	items := make([]models.ReceiptLineItem, 0, len(reqs))
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
		taxable := true
		if li.Taxable != nil {
			taxable = *li.Taxable
		}
		items = append(items, models.ReceiptLineItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   price,
			Taxable:     taxable,
		})
	}
	return items, nil
}

func (s *receiptService) CreateReceipt(req CreateReceiptRequest, uploadedBy *int64) (*models.Receipt, error) {
	if strings.TrimSpace(req.Vendor) == "" {
		return nil, fmt.Errorf("%w: vendor cannot be empty", ErrValidation)
	}
	if err := parseDateField("date", req.Date); err != nil {
		return nil, err
	}
	taxRate, err := s.resolveTaxRate(req.TaxRate)
	if err != nil {
		return nil, err
	}
	items, err := buildReceiptLineItems(req.LineItems)
	if err != nil {
		return nil, err
	}

	totals := ComputeReceiptTotals(items, taxRate)
	receipt := &models.Receipt{
		ReceiptNumber: utils.NewDocumentNumber("RCP"),
		Vendor:        req.Vendor,
		ReceiptDate:   req.Date,
		Category:      req.Category,
		Subtotal:      totals.Subtotal,
		TaxRate:       taxRate,
		TaxAmount:     totals.TaxAmount,
		Total:         totals.Total,
		Status:        models.ReceiptStatusPending,
		FileKey:       req.FileKey,
		UploadedBy:    uploadedBy,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for receipt creation: %w", err)
	}
	defer tx.Rollback()

	receiptID, err := s.receiptRepo.CreateReceipt(tx, receipt)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrReceiptNumberConflict, err.Error())
		}
		return nil, fmt.Errorf("failed to create receipt: %w", err)
	}
	for i := range items {
		items[i].ReceiptID = receiptID
		if _, err := s.receiptRepo.CreateLineItem(tx, &items[i]); err != nil {
			return nil, fmt.Errorf("failed to create receipt line item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit receipt creation: %w", err)
	}
	return s.GetReceiptByID(receiptID)
}

func (s *receiptService) GetReceiptByID(receiptID int64) (*models.Receipt, error) {
	receipt, err := s.receiptRepo.GetReceiptByID(receiptID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReceiptNotFound
		}
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	items, err := s.receiptRepo.GetLineItemsByReceiptID(receiptID)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt line items: %w", err)
	}
	receipt.LineItems = items
	return receipt, nil
}

func (s *receiptService) GetReceipts(filters repositories.ReceiptFilters) ([]models.Receipt, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 10
	}
	receipts, totalCount, err := s.receiptRepo.GetReceipts(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get receipts: %w", err)
	}
	return receipts, totalCount, nil
}

func (s *receiptService) UpdateReceipt(receiptID int64, req UpdateReceiptRequest) (*models.Receipt, error) {
	existing, err := s.receiptRepo.GetReceiptByID(receiptID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReceiptNotFound
		}
		return nil, fmt.Errorf("failed to find receipt for update: %w", err)
	}
	if existing.Status != models.ReceiptStatusPending {
		return nil, fmt.Errorf("%w: current status is %s", ErrReceiptNotEditable, existing.Status)
	}

	if strings.TrimSpace(req.Vendor) == "" {
		return nil, fmt.Errorf("%w: vendor cannot be empty", ErrValidation)
	}
	if err := parseDateField("date", req.Date); err != nil {
		return nil, err
	}
	taxRate, err := s.resolveTaxRate(req.TaxRate)
	if err != nil {
		return nil, err
	}
	items, err := buildReceiptLineItems(req.LineItems)
	if err != nil {
		return nil, err
	}

	totals := ComputeReceiptTotals(items, taxRate)
	existing.Vendor = req.Vendor
	existing.ReceiptDate = req.Date
	existing.Category = req.Category
	existing.TaxRate = taxRate
	existing.Subtotal = totals.Subtotal
	existing.TaxAmount = totals.TaxAmount
	existing.Total = totals.Total
	existing.FileKey = req.FileKey

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for receipt update: %w", err)
	}
	defer tx.Rollback()

	if err := s.receiptRepo.UpdateReceipt(tx, existing); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReceiptNotFound
		}
		return nil, fmt.Errorf("failed to update receipt: %w", err)
	}
	if _, err := s.receiptRepo.DeleteLineItemsByReceiptID(tx, receiptID); err != nil {
		return nil, fmt.Errorf("failed to replace receipt line items: %w", err)
	}
	for i := range items {
		items[i].ReceiptID = receiptID
		if _, err := s.receiptRepo.CreateLineItem(tx, &items[i]); err != nil {
			return nil, fmt.Errorf("failed to create receipt line item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit receipt update: %w", err)
	}
	return s.GetReceiptByID(receiptID)
}

func (s *receiptService) DecideReceipt(receiptID int64, req DecideReceiptRequest, decidedBy int64) (*models.Receipt, error) {
	if req.Status != models.ReceiptStatusApproved && req.Status != models.ReceiptStatusRejected {
		return nil, fmt.Errorf("%w: status must be approved or rejected", ErrValidation)
	}
	current, err := s.receiptRepo.GetReceiptByID(receiptID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReceiptNotFound
		}
		return nil, fmt.Errorf("failed to find receipt for decision: %w", err)
	}
	if !CanTransitionReceipt(current.Status, req.Status) {
		return nil, fmt.Errorf("%w: current status is %s", ErrReceiptDecided, current.Status)
	}

	rowsAffected, err := s.receiptRepo.UpdateStatus(s.db, receiptID, models.ReceiptStatusPending, req.Status, decidedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to decide receipt: %w", err)
	}
	if rowsAffected == 0 {
		if _, refetchErr := s.receiptRepo.GetReceiptByID(receiptID); refetchErr != nil {
			if errors.Is(refetchErr, repositories.ErrNotFound) {
				return nil, ErrReceiptNotFound
			}
			return nil, fmt.Errorf("failed to recheck receipt after decision race: %w", refetchErr)
		}
		return nil, fmt.Errorf("%w: receipt was decided concurrently", ErrReceiptDecided)
	}
	return s.GetReceiptByID(receiptID)
}

func (s *receiptService) DeleteReceipt(receiptID int64) error {
	existing, err := s.receiptRepo.GetReceiptByID(receiptID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrReceiptNotFound
		}
		return fmt.Errorf("failed to find receipt for deletion: %w", err)
	}
	if existing.Status != models.ReceiptStatusPending {
		return fmt.Errorf("%w: current status is %s", ErrReceiptNotEditable, existing.Status)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for receipt deletion: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.receiptRepo.DeleteLineItemsByReceiptID(tx, receiptID); err != nil {
		return fmt.Errorf("failed to delete receipt line items: %w", err)
	}
	if err := s.receiptRepo.DeleteReceipt(tx, receiptID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrReceiptNotFound
		}
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit receipt deletion: %w", err)
	}
	return nil
}
