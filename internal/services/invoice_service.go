package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"prodeskBack/internal/models"
)

// notifyTimeout bounds the post-transition notification calls. A slow mail
// server must never stall or fail a committed state change.
const notifyTimeout = 10 * time.Second

// InvoiceStore is the relational persistence surface the invoice core
// consumes.
type InvoiceStore interface {
	CreateInvoice(ctx context.Context, inv models.Invoice) (models.Invoice, error)
	GetInvoiceByID(ctx context.Context, id int) (models.Invoice, error)
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	ListInvoicesByClient(ctx context.Context, clientID int) ([]models.Invoice, error)
	AddItem(ctx context.Context, item models.InvoiceItem) (models.InvoiceItem, error)
	UpdateItem(ctx context.Context, item models.InvoiceItem) (int, error)
	DeleteItem(ctx context.Context, itemID int) (int, error)
	Finalize(ctx context.Context, invoiceID int) (int64, error)
}

// ClientStore resolves the client a notification or payment link is
// addressed to.
type ClientStore interface {
	GetClientByID(ctx context.Context, id int) (models.Client, error)
}

// InvoiceNotifier delivers client-facing mail. Failures are logged by the
// caller and never propagate into the invoice transition.
type InvoiceNotifier interface {
	NotifyInvoiceCreated(ctx context.Context, inv models.Invoice, client models.Client) error
	NotifyInvoicePaid(ctx context.Context, inv models.Invoice, client models.Client) error
	NotifyPaymentReminder(ctx context.Context, inv models.Invoice, client models.Client) error
}

// PushSender delivers push notifications to staff devices.
type PushSender interface {
	PushToRole(ctx context.Context, role, title, body string) error
}

// InvoiceCacheStore holds rendered invoice views keyed by invoice id.
// Implemented by InvoiceCache over Redis.
type InvoiceCacheStore interface {
	Get(ctx context.Context, id int) (models.Invoice, bool)
	Set(ctx context.Context, inv models.Invoice)
	Invalidate(ctx context.Context, id int)
}

type InvoiceService struct {
	InvoiceRepo InvoiceStore
	ClientRepo  ClientStore
	Notifier    InvoiceNotifier
	Push        PushSender
	Gateway     PaymentGateway
	Cache       InvoiceCacheStore
	CallbackURL string
	InfoLog     *log.Logger
	ErrorLog    *log.Logger
}

func validateItem(item *models.InvoiceItem) error {
	if strings.TrimSpace(item.Description) == "" {
		return models.ValidationError("description", "is required")
	}
	if item.Rate.Sign() <= 0 {
		return models.ValidationError("rate", "must be a positive number")
	}
	item.ComputeAmount()
	return nil
}

// CreateDraft persists a new draft invoice with its items. The invoice
// number stays unassigned; drafts only carry a proforma display id, so an
// edited or abandoned draft never consumes a gap in the official sequence.
func (s *InvoiceService) CreateDraft(ctx context.Context, req models.CreateInvoiceRequest) (models.Invoice, error) {
	if req.ClientID == 0 {
		return models.Invoice{}, models.ValidationError("client_id", "is required")
	}
	if len(req.Items) == 0 {
		return models.Invoice{}, models.ValidationError("items", "at least one item is required")
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = ReportingCurrency
	}

	subtotal := decimal.Zero
	tax := decimal.Zero
	for i := range req.Items {
		if err := validateItem(&req.Items[i]); err != nil {
			return models.Invoice{}, err
		}
		subtotal = subtotal.Add(req.Items[i].Amount)
		tax = tax.Add(req.Items[i].TaxAmount)
	}

	client, err := s.ClientRepo.GetClientByID(ctx, req.ClientID)
	if err != nil {
		return models.Invoice{}, err
	}

	inv := models.Invoice{
		ClientID:       req.ClientID,
		ProjectID:      req.ProjectID,
		Status:         models.InvoiceStatusDraft,
		Currency:       currency,
		ProformaNumber: "PF-" + uuid.NewString()[:8],
		Subtotal:       subtotal,
		TaxAmount:      tax,
		TotalAmount:    subtotal.Add(tax),
		Notes:          req.Notes,
		TaxType:        req.TaxType,
		ClientGST:      req.ClientGST,
		Items:          req.Items,
	}

	inv, err = s.InvoiceRepo.CreateInvoice(ctx, inv)
	if err != nil {
		return models.Invoice{}, err
	}

	if s.Notifier != nil {
		s.notifyAsync(func(nctx context.Context) error {
			return s.Notifier.NotifyInvoiceCreated(nctx, inv, client)
		}, "invoice created", inv.ID)
	}

	return inv, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, id int) (models.Invoice, error) {
	if s.Cache != nil {
		if inv, ok := s.Cache.Get(ctx, id); ok {
			return inv, nil
		}
	}
	inv, err := s.InvoiceRepo.GetInvoiceByID(ctx, id)
	if err != nil {
		return models.Invoice{}, err
	}
	if s.Cache != nil {
		s.Cache.Set(ctx, inv)
	}
	return inv, nil
}

func (s *InvoiceService) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	return s.InvoiceRepo.ListInvoices(ctx)
}

func (s *InvoiceService) ListInvoicesByClient(ctx context.Context, clientID int) ([]models.Invoice, error) {
	return s.InvoiceRepo.ListInvoicesByClient(ctx, clientID)
}

// AddItem validates the line, recomputes its amount server-side and lets
// the store rebuild the parent totals inside one transaction.
func (s *InvoiceService) AddItem(ctx context.Context, invoiceID int, item models.InvoiceItem) (models.InvoiceItem, error) {
	item.InvoiceID = invoiceID
	if err := validateItem(&item); err != nil {
		return models.InvoiceItem{}, err
	}
	created, err := s.InvoiceRepo.AddItem(ctx, item)
	if err != nil {
		return models.InvoiceItem{}, err
	}
	s.invalidate(ctx, invoiceID)
	return created, nil
}

// UpdateItem rewrites a line addressed by its id. The parent invoice id
// comes back from the store, so the cached view of the real parent is
// invalidated even when the payload carries no invoice_id.
func (s *InvoiceService) UpdateItem(ctx context.Context, item models.InvoiceItem) error {
	if err := validateItem(&item); err != nil {
		return err
	}
	invoiceID, err := s.InvoiceRepo.UpdateItem(ctx, item)
	if err != nil {
		return err
	}
	s.invalidate(ctx, invoiceID)
	return nil
}

func (s *InvoiceService) DeleteItem(ctx context.Context, itemID int) error {
	invoiceID, err := s.InvoiceRepo.DeleteItem(ctx, itemID)
	if err != nil {
		return err
	}
	s.invalidate(ctx, invoiceID)
	return nil
}

// Finalize runs the one-way draft->paid transition. The store assigns the
// next sequential number atomically with the status change; notifications
// fire after commit and cannot roll it back.
func (s *InvoiceService) Finalize(ctx context.Context, invoiceID int) (int64, error) {
	number, err := s.InvoiceRepo.Finalize(ctx, invoiceID)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, invoiceID)

	inv, loadErr := s.InvoiceRepo.GetInvoiceByID(ctx, invoiceID)
	if loadErr != nil {
		if s.ErrorLog != nil {
			s.ErrorLog.Printf("Finalize: reload invoice %d for notification: %v", invoiceID, loadErr)
		}
		return number, nil
	}
	client, loadErr := s.ClientRepo.GetClientByID(ctx, inv.ClientID)
	if loadErr != nil {
		if s.ErrorLog != nil {
			s.ErrorLog.Printf("Finalize: load client %d for notification: %v", inv.ClientID, loadErr)
		}
		return number, nil
	}

	if s.Notifier != nil {
		s.notifyAsync(func(nctx context.Context) error {
			return s.Notifier.NotifyInvoicePaid(nctx, inv, client)
		}, "invoice paid", inv.ID)
	}

	if s.Push != nil {
		s.notifyAsync(func(nctx context.Context) error {
			return s.Push.PushToRole(nctx, "staff", "Invoice paid", inv.ProformaNumber+" has been finalized")
		}, "invoice paid push", inv.ID)
	}

	return number, nil
}

// RequestPayment issues a gateway payment link for a draft invoice. A paid
// invoice is rejected so no duplicate link can be handed out.
func (s *InvoiceService) RequestPayment(ctx context.Context, invoiceID int) (string, error) {
	inv, err := s.InvoiceRepo.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return "", err
	}
	switch inv.Status {
	case models.InvoiceStatusDraft:
	case models.InvoiceStatusPaid:
		return "", models.ErrInvoiceAlreadyPaid
	default:
		return "", models.ErrInvoiceNotDraft
	}

	if s.Gateway == nil {
		return "", errors.New("payment gateway is not configured")
	}

	client, err := s.ClientRepo.GetClientByID(ctx, inv.ClientID)
	if err != nil {
		return "", err
	}

	result, err := s.Gateway.CreatePaymentLink(ctx, PaymentLinkRequest{
		Amount:        inv.TotalAmount,
		Currency:      inv.Currency,
		Description:   "Invoice " + inv.ProformaNumber,
		CustomerName:  client.Name,
		CustomerEmail: client.Email,
		ReferenceID:   inv.ID,
		CallbackURL:   s.CallbackURL,
	})
	if err != nil {
		return "", err
	}
	return result.PaymentLink, nil
}

// SendPaymentReminder mails the client about an outstanding draft.
func (s *InvoiceService) SendPaymentReminder(ctx context.Context, invoiceID int) error {
	if s.Notifier == nil {
		return nil
	}
	inv, err := s.InvoiceRepo.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	client, err := s.ClientRepo.GetClientByID(ctx, inv.ClientID)
	if err != nil {
		return err
	}
	nctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	return s.Notifier.NotifyPaymentReminder(nctx, inv, client)
}

func (s *InvoiceService) invalidate(ctx context.Context, invoiceID int) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, invoiceID)
	}
}

// notifyAsync runs a notification with its own bounded context so the
// already-committed transition is never entangled with mail delivery.
func (s *InvoiceService) notifyAsync(fn func(context.Context) error, what string, invoiceID int) {
	go func() {
		nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := fn(nctx); err != nil && s.ErrorLog != nil {
			s.ErrorLog.Printf("notify %s for invoice %d: %v", what, invoiceID, err)
		}
	}()
}
