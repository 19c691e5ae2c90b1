package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"prodeskBack/internal/models"
)

// finalizeMaxRetries bounds how often a losing finalize transaction re-reads
// the max invoice number after a duplicate-key conflict.
const finalizeMaxRetries = 3

type InvoiceRepository struct {
	DB *sql.DB
}

func NewInvoiceRepository(db *sql.DB) *InvoiceRepository { return &InvoiceRepository{DB: db} }

// isDuplicateKeyErr reports a MySQL/MariaDB unique constraint violation
// (error 1062). The invoices table carries a unique index on invoice_number,
// so two concurrent finalize calls that read the same max collide here.
func isDuplicateKeyErr(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func (r *InvoiceRepository) CreateInvoice(ctx context.Context, inv models.Invoice) (created models.Invoice, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Invoice{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	res, err := tx.ExecContext(ctx, `
INSERT INTO invoices (client_id, project_id, status, currency, proforma_number, subtotal, tax_amount, total_amount, notes, tax_type, client_gst_number, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())`,
		inv.ClientID, inv.ProjectID, inv.Status, inv.Currency, inv.ProformaNumber,
		inv.Subtotal, inv.TaxAmount, inv.TotalAmount, inv.Notes, inv.TaxType, inv.ClientGST,
	)
	if err != nil {
		return models.Invoice{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Invoice{}, err
	}
	inv.ID = int(id)

	for i := range inv.Items {
		inv.Items[i].InvoiceID = inv.ID
		var itemID int64
		itemID, err = insertItemTx(ctx, tx, inv.Items[i])
		if err != nil {
			return models.Invoice{}, err
		}
		inv.Items[i].ID = int(itemID)
	}
	return inv, nil
}

func insertItemTx(ctx context.Context, tx *sql.Tx, item models.InvoiceItem) (int64, error) {
	res, err := tx.ExecContext(ctx, `
INSERT INTO invoice_items (invoice_id, description, quantity, rate, amount, hsn_code, tax_rate, tax_amount, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW())`,
		item.InvoiceID, item.Description, item.Quantity, item.Rate, item.Amount,
		item.HSNCode, item.TaxRate, item.TaxAmount,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *InvoiceRepository) GetInvoiceByID(ctx context.Context, id int) (models.Invoice, error) {
	row := r.DB.QueryRowContext(ctx, `
SELECT id, client_id, project_id, status, currency, invoice_number, proforma_number,
       subtotal, tax_amount, total_amount, notes, tax_type, client_gst_number,
       created_at, updated_at
FROM invoices WHERE id = ?`, id)

	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Invoice{}, models.ErrInvoiceNotFound
		}
		return models.Invoice{}, err
	}

	items, err := r.ListItems(ctx, inv.ID)
	if err != nil {
		return models.Invoice{}, err
	}
	inv.Items = items
	return inv, nil
}

func scanInvoice(scanner interface{ Scan(dest ...any) error }) (models.Invoice, error) {
	var inv models.Invoice
	var projectID sql.NullInt64
	var number sql.NullInt64
	var notes, taxType, gst sql.NullString
	var status string
	var updated sql.NullTime
	err := scanner.Scan(&inv.ID, &inv.ClientID, &projectID, &status, &inv.Currency,
		&number, &inv.ProformaNumber, &inv.Subtotal, &inv.TaxAmount, &inv.TotalAmount,
		&notes, &taxType, &gst, &inv.CreatedAt, &updated)
	if err != nil {
		return models.Invoice{}, err
	}
	inv.Status = models.InvoiceStatus(status)
	if projectID.Valid {
		p := int(projectID.Int64)
		inv.ProjectID = &p
	}
	if number.Valid {
		n := number.Int64
		inv.InvoiceNumber = &n
	}
	inv.Notes = notes.String
	inv.TaxType = taxType.String
	inv.ClientGST = gst.String
	if updated.Valid {
		t := updated.Time
		inv.UpdatedAt = &t
	}
	return inv, nil
}

func (r *InvoiceRepository) ListInvoicesByClient(ctx context.Context, clientID int) ([]models.Invoice, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT id, client_id, project_id, status, currency, invoice_number, proforma_number,
       subtotal, tax_amount, total_amount, notes, tax_type, client_gst_number,
       created_at, updated_at
FROM invoices WHERE client_id = ? ORDER BY created_at DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvoices(rows)
}

func (r *InvoiceRepository) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT id, client_id, project_id, status, currency, invoice_number, proforma_number,
       subtotal, tax_amount, total_amount, notes, tax_type, client_gst_number,
       created_at, updated_at
FROM invoices ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvoices(rows)
}

func collectInvoices(rows *sql.Rows) ([]models.Invoice, error) {
	invoices := []models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *InvoiceRepository) ListItems(ctx context.Context, invoiceID int) ([]models.InvoiceItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT id, invoice_id, description, quantity, rate, amount, hsn_code, tax_rate, tax_amount, created_at, updated_at
FROM invoice_items WHERE invoice_id = ? ORDER BY id`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.InvoiceItem{}
	for rows.Next() {
		var item models.InvoiceItem
		var hsn sql.NullString
		var updated sql.NullTime
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Quantity,
			&item.Rate, &item.Amount, &hsn, &item.TaxRate, &item.TaxAmount,
			&item.CreatedAt, &updated); err != nil {
			return nil, err
		}
		item.HSNCode = hsn.String
		if updated.Valid {
			t := updated.Time
			item.UpdatedAt = &t
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// AddItem inserts the line and recomputes the parent totals in one
// transaction scoped to the invoice.
func (r *InvoiceRepository) AddItem(ctx context.Context, item models.InvoiceItem) (created models.InvoiceItem, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.InvoiceItem{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var status string
	err = tx.QueryRowContext(ctx, `SELECT status FROM invoices WHERE id = ? FOR UPDATE`, item.InvoiceID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = models.ErrInvoiceNotFound
		}
		return models.InvoiceItem{}, err
	}
	if models.InvoiceStatus(status) != models.InvoiceStatusDraft {
		err = models.ErrInvoiceNotDraft
		return models.InvoiceItem{}, err
	}

	var id int64
	id, err = insertItemTx(ctx, tx, item)
	if err != nil {
		return models.InvoiceItem{}, err
	}
	item.ID = int(id)

	if err = recomputeTotalsTx(ctx, tx, item.InvoiceID); err != nil {
		return models.InvoiceItem{}, err
	}
	return item, nil
}

// UpdateItem rewrites the line and returns the parent invoice id so callers
// can invalidate cached views. The item is addressed by id alone; the parent
// is resolved from the persisted row, never trusted from the payload.
func (r *InvoiceRepository) UpdateItem(ctx context.Context, item models.InvoiceItem) (invoiceID int, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = tx.QueryRowContext(ctx, `SELECT invoice_id FROM invoice_items WHERE id = ? FOR UPDATE`, item.ID).Scan(&invoiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = models.ErrItemNotFound
		}
		return 0, err
	}

	_, err = tx.ExecContext(ctx, `
UPDATE invoice_items
SET description = ?, quantity = ?, rate = ?, amount = ?, hsn_code = ?, tax_rate = ?, tax_amount = ?, updated_at = NOW()
WHERE id = ?`,
		item.Description, item.Quantity, item.Rate, item.Amount,
		item.HSNCode, item.TaxRate, item.TaxAmount, item.ID,
	)
	if err != nil {
		return 0, err
	}
	return invoiceID, recomputeTotalsTx(ctx, tx, invoiceID)
}

// DeleteItem removes the line and returns the parent invoice id so callers
// can invalidate cached views.
func (r *InvoiceRepository) DeleteItem(ctx context.Context, itemID int) (invoiceID int, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = tx.QueryRowContext(ctx, `SELECT invoice_id FROM invoice_items WHERE id = ? FOR UPDATE`, itemID).Scan(&invoiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = models.ErrItemNotFound
		}
		return 0, err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM invoice_items WHERE id = ?`, itemID); err != nil {
		return 0, err
	}
	return invoiceID, recomputeTotalsTx(ctx, tx, invoiceID)
}

// recomputeTotalsTx rebuilds the invoice totals from the full persisted item
// set rather than applying a delta. The full sum makes the final write
// correct under any ordering of concurrent edits to different items.
func recomputeTotalsTx(ctx context.Context, tx *sql.Tx, invoiceID int) error {
	var subtotal, tax decimal.Decimal
	err := tx.QueryRowContext(ctx, `
SELECT COALESCE(SUM(amount), 0), COALESCE(SUM(tax_amount), 0)
FROM invoice_items WHERE invoice_id = ?`, invoiceID).Scan(&subtotal, &tax)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
UPDATE invoices SET subtotal = ?, tax_amount = ?, total_amount = ?, updated_at = NOW() WHERE id = ?`,
		subtotal, tax, subtotal.Add(tax), invoiceID,
	)
	return err
}

// Finalize transitions a draft to paid and stamps the next sequential
// invoice number. The max read and the number write share one transaction,
// and the unique index on invoice_number catches the race where two
// finalize calls read the same max; the loser re-reads up to
// finalizeMaxRetries times before surfacing ErrNumberConflict.
func (r *InvoiceRepository) Finalize(ctx context.Context, invoiceID int) (int64, error) {
	for attempt := 0; attempt < finalizeMaxRetries; attempt++ {
		number, err := r.finalizeOnce(ctx, invoiceID)
		if err == nil {
			return number, nil
		}
		if !isDuplicateKeyErr(err) {
			return 0, err
		}
	}
	return 0, models.ErrNumberConflict
}

func (r *InvoiceRepository) finalizeOnce(ctx context.Context, invoiceID int) (number int64, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var status string
	err = tx.QueryRowContext(ctx, `SELECT status FROM invoices WHERE id = ? FOR UPDATE`, invoiceID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = models.ErrInvoiceNotFound
		}
		return 0, err
	}
	switch models.InvoiceStatus(status) {
	case models.InvoiceStatusDraft:
	case models.InvoiceStatusPaid:
		err = models.ErrInvoiceAlreadyPaid
		return 0, err
	default:
		err = models.ErrInvoiceNotDraft
		return 0, err
	}

	var maxNumber int64
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(invoice_number), 0) FROM invoices`).Scan(&maxNumber)
	if err != nil {
		return 0, err
	}
	number = maxNumber + 1

	_, err = tx.ExecContext(ctx, `
UPDATE invoices SET status = ?, invoice_number = ?, updated_at = NOW() WHERE id = ?`,
		models.InvoiceStatusPaid, number, invoiceID,
	)
	if err != nil {
		return 0, err
	}
	return number, nil
}

// MaxInvoiceNumber reports the highest assigned number, 0 when none exist.
func (r *InvoiceRepository) MaxInvoiceNumber(ctx context.Context) (int64, error) {
	var maxNumber int64
	err := r.DB.QueryRowContext(ctx, `SELECT COALESCE(MAX(invoice_number), 0) FROM invoices`).Scan(&maxNumber)
	return maxNumber, err
}

// ListDraftsOlderThan returns drafts created before the cutoff, for the
// payment reminder worker.
func (r *InvoiceRepository) ListDraftsOlderThan(ctx context.Context, cutoffDays int) ([]models.Invoice, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT id, client_id, project_id, status, currency, invoice_number, proforma_number,
       subtotal, tax_amount, total_amount, notes, tax_type, client_gst_number,
       created_at, updated_at
FROM invoices
WHERE status = ? AND created_at < DATE_SUB(NOW(), INTERVAL ? DAY)
ORDER BY created_at`, models.InvoiceStatusDraft, cutoffDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvoices(rows)
}

// PaidTotalsByCurrency sums paid invoice totals per currency, feeding the
// dashboard revenue aggregation.
func (r *InvoiceRepository) PaidTotalsByCurrency(ctx context.Context) (map[string]decimal.Decimal, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT currency, COALESCE(SUM(total_amount), 0)
FROM invoices WHERE status = ? GROUP BY currency`, models.InvoiceStatusPaid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := map[string]decimal.Decimal{}
	for rows.Next() {
		var currency string
		var total decimal.Decimal
		if err := rows.Scan(&currency, &total); err != nil {
			return nil, err
		}
		totals[currency] = total
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return totals, nil
}
