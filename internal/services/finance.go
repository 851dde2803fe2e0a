package services

import (
	"database/sql"
	"errors"
	"fmt"
	"mentorhub_backend/internal/models"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultVatRate applies when the application_settings table has no usable
// default_vat_rate value.
var DefaultVatRate = decimal.NewFromFloat(0.15)

// Line item payload shared by invoice and receipt requests. Submitted totals
// are ignored; the server recomputes everything.
type LineItemRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,gte=1"`
	UnitPrice   string  `json:"unit_price" binding:"required"`
	Taxable     *bool   `json:"taxable"` // receipts only; nil means taxable
}

// invoiceTransitions maps each invoice status to the statuses it may move to.
// Absent keys are terminal.
var invoiceTransitions = map[string][]string{
	models.InvoiceStatusPending:  {models.InvoiceStatusApproved, models.InvoiceStatusRejected, models.InvoiceStatusPaid, models.InvoiceStatusCancelled},
	models.InvoiceStatusApproved: {models.InvoiceStatusPaid},
}

// receiptTransitions maps each receipt status to the statuses it may move to.
var receiptTransitions = map[string][]string{
	models.ReceiptStatusPending: {models.ReceiptStatusApproved, models.ReceiptStatusRejected},
}

// CanTransitionInvoice reports whether an invoice may move from one status to another.
func CanTransitionInvoice(from, to string) bool {
	return canTransition(invoiceTransitions, from, to)
}

// CanTransitionReceipt reports whether a receipt may move from one status to another.
func CanTransitionReceipt(from, to string) bool {
	return canTransition(receiptTransitions, from, to)
}

func canTransition(table map[string][]string, from, to string) bool {
	for _, allowed := range table[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ComputedTotals carries the server-side recomputation result.
type ComputedTotals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// ComputeInvoiceTotals rounds each line total to 2dp, sums them, and applies
// the VAT rate to the full subtotal.
func ComputeInvoiceTotals(items []models.InvoiceLineItem, vatRate decimal.Decimal) ComputedTotals {
	subtotal := decimal.Zero
	for i := range items {
		lineTotal := items[i].UnitPrice.Mul(decimal.NewFromInt(int64(items[i].Quantity))).Round(2)
		items[i].LineTotal = lineTotal
		subtotal = subtotal.Add(lineTotal)
	}
	vat := subtotal.Mul(vatRate).Round(2)
	return ComputedTotals{Subtotal: subtotal, TaxAmount: vat, Total: subtotal.Add(vat)}
}

// ComputeReceiptTotals is like ComputeInvoiceTotals but applies tax only to
// line items flagged taxable. The subtotal still covers every line.
func ComputeReceiptTotals(items []models.ReceiptLineItem, taxRate decimal.Decimal) ComputedTotals {
	subtotal := decimal.Zero
	taxableSubtotal := decimal.Zero
	for i := range items {
		lineTotal := items[i].UnitPrice.Mul(decimal.NewFromInt(int64(items[i].Quantity))).Round(2)
		items[i].LineTotal = lineTotal
		subtotal = subtotal.Add(lineTotal)
		if items[i].Taxable {
			taxableSubtotal = taxableSubtotal.Add(lineTotal)
		}
	}
	tax := taxableSubtotal.Mul(taxRate).Round(2)
	return ComputedTotals{Subtotal: subtotal, TaxAmount: tax, Total: subtotal.Add(tax)}
}

// InvoiceIsOverdue derives the overdue flag. Only pending invoices with a due
// date in the past count.
func InvoiceIsOverdue(status string, dueDate *string, now time.Time) bool {
	if status != models.InvoiceStatusPending || dueDate == nil {
		return false
	}
	due, err := time.Parse("2006-01-02", *dueDate)
	if err != nil {
		return false
	}
	// Overdue starts the day after the due date.
	return now.After(due.AddDate(0, 0, 1))
}

// fetchDefaultVatRate reads default_vat_rate from application settings,
// falling back to DefaultVatRate when missing or unparseable.
func fetchDefaultVatRate(db *sql.DB) decimal.Decimal {
	var value sql.NullString
	err := db.QueryRow(`SELECT setting_value FROM application_settings WHERE setting_key = 'default_vat_rate'`).Scan(&value)
	if err != nil || !value.Valid {
		return DefaultVatRate
	}
	rate, parseErr := decimal.NewFromString(value.String)
	if parseErr != nil || rate.IsNegative() {
		return DefaultVatRate
	}
	return rate
}

// parseDateField validates a YYYY-MM-DD request field.
func parseDateField(name, value string) error {
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return fmt.Errorf("%w: %s must be a valid YYYY-MM-DD date", ErrValidation, name)
	}
	return nil
}

// ErrValidation is the generic validation error shared by all services.
var ErrValidation = errors.New("validation error")
