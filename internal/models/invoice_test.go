package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeAmount(t *testing.T) {
	item := InvoiceItem{
		Quantity: decimal.NewFromInt(4),
		Rate:     decimal.RequireFromString("250.50"),
		TaxRate:  decimal.NewFromInt(18),
	}
	item.ComputeAmount()

	if !item.Amount.Equal(decimal.RequireFromString("1002")) {
		t.Errorf("amount mismatch: %s", item.Amount)
	}
	if !item.TaxAmount.Equal(decimal.RequireFromString("180.36")) {
		t.Errorf("tax amount mismatch: %s", item.TaxAmount)
	}
}

func TestComputeAmount_DefaultsQuantityToOne(t *testing.T) {
	item := InvoiceItem{Rate: decimal.NewFromInt(100)}
	item.ComputeAmount()

	if !item.Quantity.Equal(decimal.NewFromInt(1)) {
		t.Errorf("quantity default mismatch: %s", item.Quantity)
	}
	if !item.Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("amount mismatch: %s", item.Amount)
	}
	if !item.TaxAmount.IsZero() {
		t.Errorf("tax amount should be zero, got %s", item.TaxAmount)
	}
}

func TestInvoiceStatusValid(t *testing.T) {
	if !InvoiceStatusDraft.Valid() || !InvoiceStatusPaid.Valid() {
		t.Errorf("expected draft and paid to be valid")
	}
	if InvoiceStatus("cancelled").Valid() {
		t.Errorf("expected unknown status to be invalid")
	}
}
