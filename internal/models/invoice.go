package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is a closed set. Anything outside {draft, paid} is rejected
// at every transition site.
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusPaid  InvoiceStatus = "paid"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPaid:
		return true
	}
	return false
}

// Invoice is a financial record: never deleted, numbered exactly once.
// InvoiceNumber stays NULL while the invoice is a draft and is assigned
// atomically with the draft->paid transition. ProformaNumber is the
// draft-time display id, stamped at creation and stable for the lifetime
// of the record.
type Invoice struct {
	ID             int             `json:"id"`
	ClientID       int             `json:"client_id"`
	ProjectID      *int            `json:"project_id,omitempty"`
	Status         InvoiceStatus   `json:"status"`
	Currency       string          `json:"currency"`
	InvoiceNumber  *int64          `json:"invoice_number,omitempty"`
	ProformaNumber string          `json:"proforma_number"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Notes          string          `json:"notes,omitempty"`
	TaxType        string          `json:"tax_type,omitempty"`
	ClientGST      string          `json:"client_gst_number,omitempty"`
	Items          []InvoiceItem   `json:"items,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
}

// InvoiceItem belongs to exactly one invoice. Amount is always
// quantity * rate, recomputed server-side; client-supplied values are
// ignored.
type InvoiceItem struct {
	ID          int             `json:"id"`
	InvoiceID   int             `json:"invoice_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	HSNCode     string          `json:"hsn_code,omitempty"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

// ComputeAmount derives the line amount from quantity and rate. A missing
// or non-positive quantity falls back to 1.
func (it *InvoiceItem) ComputeAmount() {
	if it.Quantity.Sign() <= 0 {
		it.Quantity = decimal.NewFromInt(1)
	}
	it.Amount = it.Quantity.Mul(it.Rate)
	if it.TaxRate.Sign() > 0 {
		it.TaxAmount = it.Amount.Mul(it.TaxRate).Div(decimal.NewFromInt(100))
	} else {
		it.TaxAmount = decimal.Zero
	}
}

type CreateInvoiceRequest struct {
	ClientID  int           `json:"client_id"`
	ProjectID *int          `json:"project_id,omitempty"`
	Currency  string        `json:"currency"`
	Notes     string        `json:"notes"`
	TaxType   string        `json:"tax_type"`
	ClientGST string        `json:"client_gst_number"`
	Items     []InvoiceItem `json:"items"`
}

type FinalizeInvoiceResponse struct {
	InvoiceID     int   `json:"invoice_id"`
	InvoiceNumber int64 `json:"invoice_number"`
}

type PaymentLinkResponse struct {
	InvoiceID   int    `json:"invoice_id"`
	PaymentLink string `json:"payment_link"`
}
