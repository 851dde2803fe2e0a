package services

import (
	"testing"

	"mentorhub_backend/internal/models"
	"mentorhub_backend/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type mockInvoiceRepo struct {
	invoice          *models.Invoice
	lineItems        []models.InvoiceLineItem
	updateStatusRows int64
	updateStatusErr  error
	lastFromStatus   string
	lastToStatus     string
	lastPaidDate     *string
}

func (m *mockInvoiceRepo) CreateInvoice(executor repositories.SQLExecutor, invoice *models.Invoice) (int64, error) {
	invoice.ID = 1
	m.invoice = invoice
	return 1, nil
}

func (m *mockInvoiceRepo) GetInvoiceByID(id int64) (*models.Invoice, error) {
	if m.invoice == nil || m.invoice.ID != id {
		return nil, repositories.ErrNotFound
	}
	copied := *m.invoice
	return &copied, nil
}

func (m *mockInvoiceRepo) GetInvoices(filters repositories.InvoiceFilters) ([]models.Invoice, int, error) {
	if m.invoice == nil {
		return []models.Invoice{}, 0, nil
	}
	return []models.Invoice{*m.invoice}, 1, nil
}

func (m *mockInvoiceRepo) UpdateInvoice(executor repositories.SQLExecutor, invoice *models.Invoice) error {
	if m.invoice == nil || m.invoice.ID != invoice.ID {
		return repositories.ErrNotFound
	}
	copied := *invoice
	m.invoice = &copied
	return nil
}

func (m *mockInvoiceRepo) UpdateStatus(executor repositories.SQLExecutor, invoiceID int64, fromStatus, toStatus string, paymentMethod, paidDate *string) (int64, error) {
	m.lastFromStatus = fromStatus
	m.lastToStatus = toStatus
	m.lastPaidDate = paidDate
	if m.updateStatusErr != nil {
		return 0, m.updateStatusErr
	}
	if m.updateStatusRows > 0 && m.invoice != nil {
		m.invoice.Status = toStatus
		m.invoice.PaymentMethod = paymentMethod
		m.invoice.PaidDate = paidDate
	}
	return m.updateStatusRows, nil
}

func (m *mockInvoiceRepo) DeleteInvoice(executor repositories.SQLExecutor, id int64) error {
	if m.invoice == nil || m.invoice.ID != id {
		return repositories.ErrNotFound
	}
	m.invoice = nil
	return nil
}

func (m *mockInvoiceRepo) CreateLineItem(executor repositories.SQLExecutor, item *models.InvoiceLineItem) (int64, error) {
	item.ID = int64(len(m.lineItems) + 1)
	m.lineItems = append(m.lineItems, *item)
	return item.ID, nil
}

func (m *mockInvoiceRepo) GetLineItemsByInvoiceID(invoiceID int64) ([]models.InvoiceLineItem, error) {
	return m.lineItems, nil
}

func (m *mockInvoiceRepo) DeleteLineItemsByInvoiceID(executor repositories.SQLExecutor, invoiceID int64) (int64, error) {
	removed := int64(len(m.lineItems))
	m.lineItems = nil
	return removed, nil
}

func pendingInvoice() *models.Invoice {
	return &models.Invoice{
		ID:            1,
		InvoiceNumber: "INV-20260301-TEST01",
		Vendor:        "Acme School Supplies",
		IssueDate:     "2026-03-01",
		Subtotal:      decimal.NewFromInt(100),
		VatRate:       DefaultVatRate,
		VatAmount:     decimal.NewFromInt(15),
		Total:         decimal.NewFromInt(115),
		Status:        models.InvoiceStatusPending,
	}
}

func TestUpdateInvoiceStatus_Approve(t *testing.T) {
	repo := &mockInvoiceRepo{invoice: pendingInvoice(), updateStatusRows: 1}
	svc := NewInvoiceService(repo, nil)

	invoice, err := svc.UpdateInvoiceStatus(1, UpdateInvoiceStatusRequest{Status: models.InvoiceStatusApproved})

	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusApproved, invoice.Status)
	assert.Equal(t, models.InvoiceStatusPending, repo.lastFromStatus)
	assert.Nil(t, repo.lastPaidDate, "approval must not set a paid date")
}

func TestUpdateInvoiceStatus_MarkPaidDefaultsPaidDate(t *testing.T) {
	repo := &mockInvoiceRepo{invoice: pendingInvoice(), updateStatusRows: 1}
	svc := NewInvoiceService(repo, nil)

	method := "bank-transfer"
	invoice, err := svc.UpdateInvoiceStatus(1, UpdateInvoiceStatusRequest{
		Status:        models.InvoiceStatusPaid,
		PaymentMethod: &method,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
	assert.NotNil(t, repo.lastPaidDate, "marking paid without a date must default to today")
}

func TestUpdateInvoiceStatus_TerminalStatusRejected(t *testing.T) {
	paid := pendingInvoice()
	paid.Status = models.InvoiceStatusPaid
	repo := &mockInvoiceRepo{invoice: paid, updateStatusRows: 1}
	svc := NewInvoiceService(repo, nil)

	_, err := svc.UpdateInvoiceStatus(1, UpdateInvoiceStatusRequest{Status: models.InvoiceStatusCancelled})

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateInvoiceStatus_UnknownStatusIsValidationError(t *testing.T) {
	repo := &mockInvoiceRepo{invoice: pendingInvoice(), updateStatusRows: 1}
	svc := NewInvoiceService(repo, nil)

	_, err := svc.UpdateInvoiceStatus(1, UpdateInvoiceStatusRequest{Status: "archived"})

	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrInvalidTransition, "a status outside the vocabulary is bad input, not a state conflict")
	assert.Empty(t, repo.lastToStatus, "unknown status must be rejected before any write")
}

func TestUpdateInvoiceStatus_LostRaceIsConflict(t *testing.T) {
	// Another request transitioned the invoice between our read and our
	// compare-and-set, so zero rows match but the invoice still exists.
	repo := &mockInvoiceRepo{invoice: pendingInvoice(), updateStatusRows: 0}
	svc := NewInvoiceService(repo, nil)

	_, err := svc.UpdateInvoiceStatus(1, UpdateInvoiceStatusRequest{Status: models.InvoiceStatusApproved})

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateInvoiceStatus_MissingInvoice(t *testing.T) {
	repo := &mockInvoiceRepo{}
	svc := NewInvoiceService(repo, nil)

	_, err := svc.UpdateInvoiceStatus(42, UpdateInvoiceStatusRequest{Status: models.InvoiceStatusApproved})

	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestUpdateInvoice_OnlyWhilePending(t *testing.T) {
	approved := pendingInvoice()
	approved.Status = models.InvoiceStatusApproved
	repo := &mockInvoiceRepo{invoice: approved}
	svc := NewInvoiceService(repo, nil)

	_, err := svc.UpdateInvoice(1, UpdateInvoiceRequest{
		Vendor:    "Acme School Supplies",
		IssueDate: "2026-03-01",
		LineItems: []LineItemRequest{{Description: "Notebooks", Quantity: 1, UnitPrice: "10.00"}},
	})

	assert.ErrorIs(t, err, ErrInvoiceNotEditable)
}

func TestDeleteInvoice_OnlyWhilePending(t *testing.T) {
	cancelled := pendingInvoice()
	cancelled.Status = models.InvoiceStatusCancelled
	repo := &mockInvoiceRepo{invoice: cancelled}
	svc := NewInvoiceService(repo, nil)

	err := svc.DeleteInvoice(1)

	assert.ErrorIs(t, err, ErrInvoiceNotEditable)
}
