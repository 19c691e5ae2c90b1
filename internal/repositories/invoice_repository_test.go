package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"prodeskBack/internal/models"
)

func draftForInsert() models.Invoice {
	return models.Invoice{
		ClientID:       1,
		Status:         models.InvoiceStatusDraft,
		Currency:       "INR",
		ProformaNumber: "PF-test",
		Subtotal:       decimal.NewFromInt(100),
		TotalAmount:    decimal.NewFromInt(100),
		Items: []models.InvoiceItem{
			{
				Description: "work",
				Quantity:    decimal.NewFromInt(1),
				Rate:        decimal.NewFromInt(100),
				Amount:      decimal.NewFromInt(100),
			},
		},
	}
}

func TestCreateInvoice_CommitFailureSurfaces(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	commitErr := errors.New("commit failed")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO invoices").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO invoice_items").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(commitErr)

	repo := &InvoiceRepository{DB: db}
	if _, err := repo.CreateInvoice(context.Background(), draftForInsert()); !errors.Is(err, commitErr) {
		t.Fatalf("expected commit error to surface, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAddItem_CommitFailureSurfaces(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	commitErr := errors.New("commit failed")
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM invoices").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("draft"))
	mock.ExpectExec("INSERT INTO invoice_items").WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("SELECT COALESCE").
		WillReturnRows(sqlmock.NewRows([]string{"subtotal", "tax"}).AddRow("100", "18"))
	mock.ExpectExec("UPDATE invoices SET subtotal").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(commitErr)

	repo := &InvoiceRepository{DB: db}
	item := models.InvoiceItem{
		InvoiceID:   3,
		Description: "work",
		Quantity:    decimal.NewFromInt(1),
		Rate:        decimal.NewFromInt(100),
		Amount:      decimal.NewFromInt(100),
	}
	if _, err := repo.AddItem(context.Background(), item); !errors.Is(err, commitErr) {
		t.Fatalf("expected commit error to surface, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateItem_ResolvesParentFromRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT invoice_id FROM invoice_items").
		WillReturnRows(sqlmock.NewRows([]string{"invoice_id"}).AddRow(42))
	mock.ExpectExec("UPDATE invoice_items").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT COALESCE").
		WillReturnRows(sqlmock.NewRows([]string{"subtotal", "tax"}).AddRow("200", "36"))
	mock.ExpectExec("UPDATE invoices SET subtotal").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := &InvoiceRepository{DB: db}
	// The payload carries no invoice_id; the parent must come from the
	// persisted row.
	item := models.InvoiceItem{
		ID:          9,
		Description: "work",
		Quantity:    decimal.NewFromInt(2),
		Rate:        decimal.NewFromInt(100),
		Amount:      decimal.NewFromInt(200),
	}
	invoiceID, err := repo.UpdateItem(context.Background(), item)
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if invoiceID != 42 {
		t.Errorf("parent invoice id mismatch: %d", invoiceID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
