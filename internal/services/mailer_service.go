package services

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"prodeskBack/internal/models"
)

// MailerService sends invoice mail through SendGrid. Every send is
// best-effort: callers log failures and move on.
type MailerService struct {
	APIKey   string
	FromName string
	FromAddr string
	ErrorLog *log.Logger
}

func (m *MailerService) send(ctx context.Context, to, subject, body string) error {
	if m.APIKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	from := mail.NewEmail(m.FromName, m.FromAddr)
	toEmail := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, toEmail, body, fmt.Sprintf("<pre>%s</pre>", body))

	client := sendgrid.NewSendClient(m.APIKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		if m.ErrorLog != nil {
			m.ErrorLog.Printf("sendgrid: status=%d body=%s", response.StatusCode, response.Body)
		}
		return fmt.Errorf("sendgrid send failed: status=%d", response.StatusCode)
	}
	return nil
}

func (m *MailerService) NotifyInvoiceCreated(ctx context.Context, inv models.Invoice, client models.Client) error {
	subject := fmt.Sprintf("Invoice %s for your project", inv.ProformaNumber)
	body := fmt.Sprintf(
		"Hello %s,\n\nA new invoice %s has been raised for %s %s.\nYou can view it and pay from your portal.\n",
		client.Name, inv.ProformaNumber, inv.Currency, inv.TotalAmount.StringFixed(2),
	)
	return m.send(ctx, client.Email, subject, body)
}

func (m *MailerService) NotifyInvoicePaid(ctx context.Context, inv models.Invoice, client models.Client) error {
	number := ""
	if inv.InvoiceNumber != nil {
		number = fmt.Sprintf("INV-%d", *inv.InvoiceNumber)
	}
	subject := fmt.Sprintf("Payment received, invoice %s", number)
	body := fmt.Sprintf(
		"Hello %s,\n\nWe have received your payment of %s %s.\nYour official invoice number is %s.\n\nThank you!\n",
		client.Name, inv.Currency, inv.TotalAmount.StringFixed(2), number,
	)
	return m.send(ctx, client.Email, subject, body)
}

func (m *MailerService) NotifyPaymentReminder(ctx context.Context, inv models.Invoice, client models.Client) error {
	subject := fmt.Sprintf("Reminder: invoice %s is awaiting payment", inv.ProformaNumber)
	body := fmt.Sprintf(
		"Hello %s,\n\nThis is a friendly reminder that invoice %s for %s %s is still unpaid.\n",
		client.Name, inv.ProformaNumber, inv.Currency, inv.TotalAmount.StringFixed(2),
	)
	return m.send(ctx, client.Email, subject, body)
}
