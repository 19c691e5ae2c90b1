package models

import (
	"errors"
	"fmt"
)

var ErrClientNotFound = errors.New("client not found")
var ErrProjectNotFound = errors.New("project not found")
var ErrTicketNotFound = errors.New("ticket not found")
var ErrCommentNotFound = errors.New("comment not found")
var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrDuplicatePhone     = errors.New("models: duplicate phone number")
	ErrUserNotFound       = errors.New("models: user not found")
	ErrInvalidPassword    = errors.New("models: invalid password")
)

// Invoice core errors. Handlers map these onto HTTP statuses, everything
// else matches them with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrItemNotFound       = errors.New("invoice item not found")
	ErrInvoiceNotDraft    = errors.New("invoice is not in draft status")
	ErrInvoiceAlreadyPaid = errors.New("invoice is already paid")
	ErrNumberConflict     = errors.New("invoice number conflict, retry finalize")
)

// ValidationError wraps ErrValidation with the offending field so the UI can
// show the message as-is.
func ValidationError(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}
