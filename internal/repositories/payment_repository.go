package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRepository records gateway payment events against invoices.
type PaymentRepository struct {
	DB *sql.DB
}

func (r *PaymentRepository) RecordPayment(ctx context.Context, invoiceID int, gatewayPaymentID string, amount decimal.Decimal, status string) error {
	_, err := r.DB.ExecContext(ctx, `
INSERT INTO invoice_payments (invoice_id, gateway_payment_id, amount, status, created_at)
VALUES (?, ?, ?, ?, NOW())`,
		invoiceID, gatewayPaymentID, amount, status,
	)
	return err
}

func (r *PaymentRepository) ListByInvoice(ctx context.Context, invoiceID int) ([]PaymentRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT id, invoice_id, gateway_payment_id, amount, status, created_at
FROM invoice_payments WHERE invoice_id = ? ORDER BY created_at DESC`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []PaymentRecord{}
	for rows.Next() {
		var rec PaymentRecord
		if err := rows.Scan(&rec.ID, &rec.InvoiceID, &rec.GatewayPaymentID, &rec.Amount, &rec.Status, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type PaymentRecord struct {
	ID               int             `json:"id"`
	InvoiceID        int             `json:"invoice_id"`
	GatewayPaymentID string          `json:"gateway_payment_id"`
	Amount           decimal.Decimal `json:"amount"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
}
