package services

import (
	"testing"

	"mentorhub_backend/internal/models"
	"mentorhub_backend/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type mockReceiptRepo struct {
	receipt          *models.Receipt
	lineItems        []models.ReceiptLineItem
	updateStatusRows int64
	lastDecidedBy    int64
	lastToStatus     string
}

func (m *mockReceiptRepo) CreateReceipt(executor repositories.SQLExecutor, receipt *models.Receipt) (int64, error) {
	receipt.ID = 1
	m.receipt = receipt
	return 1, nil
}

func (m *mockReceiptRepo) GetReceiptByID(id int64) (*models.Receipt, error) {
	if m.receipt == nil || m.receipt.ID != id {
		return nil, repositories.ErrNotFound
	}
	copied := *m.receipt
	return &copied, nil
}

func (m *mockReceiptRepo) GetReceipts(filters repositories.ReceiptFilters) ([]models.Receipt, int, error) {
	if m.receipt == nil {
		return []models.Receipt{}, 0, nil
	}
	return []models.Receipt{*m.receipt}, 1, nil
}

func (m *mockReceiptRepo) UpdateReceipt(executor repositories.SQLExecutor, receipt *models.Receipt) error {
	if m.receipt == nil || m.receipt.ID != receipt.ID {
		return repositories.ErrNotFound
	}
	copied := *receipt
	m.receipt = &copied
	return nil
}

func (m *mockReceiptRepo) UpdateStatus(executor repositories.SQLExecutor, receiptID int64, fromStatus, toStatus string, decidedBy int64) (int64, error) {
	m.lastDecidedBy = decidedBy
	m.lastToStatus = toStatus
	if m.updateStatusRows > 0 && m.receipt != nil {
		m.receipt.Status = toStatus
		m.receipt.DecidedBy = &decidedBy
	}
	return m.updateStatusRows, nil
}

func (m *mockReceiptRepo) DeleteReceipt(executor repositories.SQLExecutor, id int64) error {
	if m.receipt == nil || m.receipt.ID != id {
		return repositories.ErrNotFound
	}
	m.receipt = nil
	return nil
}

func (m *mockReceiptRepo) CreateLineItem(executor repositories.SQLExecutor, item *models.ReceiptLineItem) (int64, error) {
	item.ID = int64(len(m.lineItems) + 1)
	m.lineItems = append(m.lineItems, *item)
	return item.ID, nil
}

func (m *mockReceiptRepo) GetLineItemsByReceiptID(receiptID int64) ([]models.ReceiptLineItem, error) {
	return m.lineItems, nil
}

func (m *mockReceiptRepo) DeleteLineItemsByReceiptID(executor repositories.SQLExecutor, receiptID int64) (int64, error) {
	removed := int64(len(m.lineItems))
	m.lineItems = nil
	return removed, nil
}

func pendingReceipt() *models.Receipt {
	category := "program-supplies"
	return &models.Receipt{
		ID:            1,
		ReceiptNumber: "RCP-20260301-TEST01",
		Vendor:        "Corner Store",
		Category:      &category,
		ReceiptDate:   "2026-03-01",
		Subtotal:      decimal.NewFromInt(50),
		TaxRate:       DefaultVatRate,
		TaxAmount:     decimal.NewFromFloat(7.5),
		Total:         decimal.NewFromFloat(57.5),
		Status:        models.ReceiptStatusPending,
	}
}

func TestDecideReceipt_Approve(t *testing.T) {
	repo := &mockReceiptRepo{receipt: pendingReceipt(), updateStatusRows: 1}
	svc := NewReceiptService(repo, nil)

	receipt, err := svc.DecideReceipt(1, DecideReceiptRequest{Status: models.ReceiptStatusApproved}, 7)

	assert.NoError(t, err)
	assert.Equal(t, models.ReceiptStatusApproved, receipt.Status)
	assert.Equal(t, int64(7), repo.lastDecidedBy)
}

func TestDecideReceipt_Reject(t *testing.T) {
	repo := &mockReceiptRepo{receipt: pendingReceipt(), updateStatusRows: 1}
	svc := NewReceiptService(repo, nil)

	receipt, err := svc.DecideReceipt(1, DecideReceiptRequest{Status: models.ReceiptStatusRejected}, 7)

	assert.NoError(t, err)
	assert.Equal(t, models.ReceiptStatusRejected, receipt.Status)
}

func TestDecideReceipt_InvalidStatus(t *testing.T) {
	repo := &mockReceiptRepo{receipt: pendingReceipt(), updateStatusRows: 1}
	svc := NewReceiptService(repo, nil)

	_, err := svc.DecideReceipt(1, DecideReceiptRequest{Status: models.ReceiptStatusPending}, 7)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestDecideReceipt_AlreadyDecided(t *testing.T) {
	decided := pendingReceipt()
	decided.Status = models.ReceiptStatusApproved
	repo := &mockReceiptRepo{receipt: decided, updateStatusRows: 1}
	svc := NewReceiptService(repo, nil)

	_, err := svc.DecideReceipt(1, DecideReceiptRequest{Status: models.ReceiptStatusRejected}, 7)

	assert.ErrorIs(t, err, ErrReceiptDecided)
}

func TestDecideReceipt_LostRaceIsConflict(t *testing.T) {
	repo := &mockReceiptRepo{receipt: pendingReceipt(), updateStatusRows: 0}
	svc := NewReceiptService(repo, nil)

	_, err := svc.DecideReceipt(1, DecideReceiptRequest{Status: models.ReceiptStatusApproved}, 7)

	assert.ErrorIs(t, err, ErrReceiptDecided)
}

func TestUpdateReceipt_OnlyWhilePending(t *testing.T) {
	decided := pendingReceipt()
	decided.Status = models.ReceiptStatusRejected
	repo := &mockReceiptRepo{receipt: decided}
	svc := NewReceiptService(repo, nil)

	_, err := svc.UpdateReceipt(1, UpdateReceiptRequest{
		Vendor:    "Corner Store",
		Date:      "2026-03-01",
		LineItems: []LineItemRequest{{Description: "Snacks", Quantity: 1, UnitPrice: "5.00"}},
	})

	assert.ErrorIs(t, err, ErrReceiptNotEditable)
}
