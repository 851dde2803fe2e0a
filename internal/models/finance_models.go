package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice statuses. Paid, cancelled and rejected are terminal.
const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusApproved  = "approved"
	InvoiceStatusRejected  = "rejected"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// Receipt statuses. Approved and rejected are terminal.
const (
	ReceiptStatusPending  = "pending"
	ReceiptStatusApproved = "approved"
	ReceiptStatusRejected = "rejected"
)

// Invoice is a financial document owed to a vendor, with computed totals and an
// approval/payment lifecycle.
type Invoice struct {
	ID            int64             `json:"id" db:"id"`
	InvoiceNumber string            `json:"invoice_number" db:"invoice_number"`
	Vendor        string            `json:"vendor" db:"vendor"`
	IssueDate     string            `json:"issue_date" db:"issue_date"` // YYYY-MM-DD
	DueDate       *string           `json:"due_date,omitempty" db:"due_date"`
	Subtotal      decimal.Decimal   `json:"subtotal" db:"subtotal"`
	VatRate       decimal.Decimal   `json:"vat_rate" db:"vat_rate"`
	VatAmount     decimal.Decimal   `json:"vat_amount" db:"vat_amount"`
	Total         decimal.Decimal   `json:"total" db:"total"`
	Status        string            `json:"status" db:"status"`
	PaymentMethod *string           `json:"payment_method,omitempty" db:"payment_method"`
	PaidDate      *string           `json:"paid_date,omitempty" db:"paid_date"`
	Notes         *string           `json:"notes,omitempty" db:"notes"`
	CreatedBy     *int64            `json:"created_by,omitempty" db:"created_by"`
	Overdue       bool              `json:"overdue"` // derived at read time, never stored
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" db:"updated_at"`
	LineItems     []InvoiceLineItem `json:"line_items"`
}

// InvoiceLineItem is one row of an invoice. Line items are replaced wholesale
// whenever the parent invoice is created or updated.
type InvoiceLineItem struct {
	ID          int64           `json:"id" db:"id"`
	InvoiceID   int64           `json:"invoice_id" db:"invoice_id"`
	Description string          `json:"description" db:"description"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total" db:"line_total"`
}

// Receipt is a financial document for money already spent, subject to an
// approve/reject decision. Structurally like an invoice, but tax applies only
// to line items flagged taxable.
type Receipt struct {
	ID            int64             `json:"id" db:"id"`
	ReceiptNumber string            `json:"receipt_number" db:"receipt_number"`
	Vendor        string            `json:"vendor" db:"vendor"`
	ReceiptDate   string            `json:"date" db:"receipt_date"` // YYYY-MM-DD
	Category      *string           `json:"category,omitempty" db:"category"`
	Subtotal      decimal.Decimal   `json:"subtotal" db:"subtotal"`
	TaxRate       decimal.Decimal   `json:"tax_rate" db:"tax_rate"`
	TaxAmount     decimal.Decimal   `json:"tax_amount" db:"tax_amount"`
	Total         decimal.Decimal   `json:"total" db:"total"`
	Status        string            `json:"status" db:"status"`
	FileKey       *string           `json:"file_key,omitempty" db:"file_key"` // scanned receipt in object store
	UploadedBy    *int64            `json:"uploaded_by,omitempty" db:"uploaded_by"`
	DecidedBy     *int64            `json:"decided_by,omitempty" db:"decided_by"`
	DecidedAt     *time.Time        `json:"decided_at,omitempty" db:"decided_at"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" db:"updated_at"`
	LineItems     []ReceiptLineItem `json:"line_items"`
}

// ReceiptLineItem is one row of a receipt.
type ReceiptLineItem struct {
	ID          int64           `json:"id" db:"id"`
	ReceiptID   int64           `json:"receipt_id" db:"receipt_id"`
	Description string          `json:"description" db:"description"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	Taxable     bool            `json:"taxable" db:"taxable"`
	LineTotal   decimal.Decimal `json:"line_total" db:"line_total"`
}
