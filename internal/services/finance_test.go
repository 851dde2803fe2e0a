package services

import (
	"testing"
	"time"

	"mentorhub_backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	assert.NoError(t, err)
	return d
}

func TestComputeInvoiceTotals(t *testing.T) {
	items := []models.InvoiceLineItem{
		{Description: "Notebooks", Quantity: 2, UnitPrice: mustDecimal(t, "45.00")},
		{Description: "Backpacks", Quantity: 3, UnitPrice: mustDecimal(t, "30.00")},
	}

	totals := ComputeInvoiceTotals(items, mustDecimal(t, "0.15"))

	assert.Equal(t, "180", totals.Subtotal.String())
	assert.Equal(t, "27", totals.TaxAmount.String())
	assert.Equal(t, "207", totals.Total.String())
	assert.Equal(t, "90", items[0].LineTotal.String())
	assert.Equal(t, "90", items[1].LineTotal.String())
}

func TestComputeInvoiceTotals_RoundsPerLine(t *testing.T) {
	// 3 x 0.335 = 1.005 rounds to 1.01 on the line, not on the sum.
	items := []models.InvoiceLineItem{
		{Description: "Pencils", Quantity: 3, UnitPrice: mustDecimal(t, "0.335")},
	}

	totals := ComputeInvoiceTotals(items, mustDecimal(t, "0.20"))

	assert.Equal(t, "1.01", items[0].LineTotal.String())
	assert.Equal(t, "1.01", totals.Subtotal.String())
	assert.Equal(t, "0.2", totals.TaxAmount.String())
	assert.Equal(t, "1.21", totals.Total.String())
}

func TestComputeReceiptTotals_TaxableLinesOnly(t *testing.T) {
	items := []models.ReceiptLineItem{
		{Description: "Snacks", Quantity: 2, UnitPrice: mustDecimal(t, "45.00"), Taxable: true},
		{Description: "Bus tickets", Quantity: 1, UnitPrice: mustDecimal(t, "30.00"), Taxable: false},
	}

	totals := ComputeReceiptTotals(items, mustDecimal(t, "0.15"))

	// Subtotal covers every line, tax only the taxable one.
	assert.Equal(t, "120", totals.Subtotal.String())
	assert.Equal(t, "13.5", totals.TaxAmount.String())
	assert.Equal(t, "133.5", totals.Total.String())
}

func TestComputeReceiptTotals_NothingTaxable(t *testing.T) {
	items := []models.ReceiptLineItem{
		{Description: "Donated goods", Quantity: 4, UnitPrice: mustDecimal(t, "12.50"), Taxable: false},
	}

	totals := ComputeReceiptTotals(items, mustDecimal(t, "0.15"))

	assert.Equal(t, "50", totals.Subtotal.String())
	assert.True(t, totals.TaxAmount.IsZero())
	assert.Equal(t, "50", totals.Total.String())
}

func TestCanTransitionInvoice(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{models.InvoiceStatusPending, models.InvoiceStatusApproved, true},
		{models.InvoiceStatusPending, models.InvoiceStatusRejected, true},
		{models.InvoiceStatusPending, models.InvoiceStatusPaid, true},
		{models.InvoiceStatusPending, models.InvoiceStatusCancelled, true},
		{models.InvoiceStatusApproved, models.InvoiceStatusPaid, true},
		{models.InvoiceStatusApproved, models.InvoiceStatusRejected, false},
		{models.InvoiceStatusApproved, models.InvoiceStatusPending, false},
		{models.InvoiceStatusPaid, models.InvoiceStatusPending, false},
		{models.InvoiceStatusPaid, models.InvoiceStatusCancelled, false},
		{models.InvoiceStatusRejected, models.InvoiceStatusApproved, false},
		{models.InvoiceStatusCancelled, models.InvoiceStatusPaid, false},
		{models.InvoiceStatusPending, "garbage", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransitionInvoice(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCanTransitionReceipt(t *testing.T) {
	assert.True(t, CanTransitionReceipt(models.ReceiptStatusPending, models.ReceiptStatusApproved))
	assert.True(t, CanTransitionReceipt(models.ReceiptStatusPending, models.ReceiptStatusRejected))
	assert.False(t, CanTransitionReceipt(models.ReceiptStatusApproved, models.ReceiptStatusRejected))
	assert.False(t, CanTransitionReceipt(models.ReceiptStatusRejected, models.ReceiptStatusApproved))
	assert.False(t, CanTransitionReceipt(models.ReceiptStatusApproved, models.ReceiptStatusPending))
}

func TestInvoiceIsOverdue(t *testing.T) {
	due := "2026-03-10"
	now := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)

	// Grace runs through the due date itself.
	onDueDay := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	assert.False(t, InvoiceIsOverdue(models.InvoiceStatusPending, &due, onDueDay))

	assert.True(t, InvoiceIsOverdue(models.InvoiceStatusPending, &due, now))
	assert.False(t, InvoiceIsOverdue(models.InvoiceStatusApproved, &due, now))
	assert.False(t, InvoiceIsOverdue(models.InvoiceStatusPaid, &due, now))
	assert.False(t, InvoiceIsOverdue(models.InvoiceStatusPending, nil, now))

	badDate := "not-a-date"
	assert.False(t, InvoiceIsOverdue(models.InvoiceStatusPending, &badDate, now))
}
