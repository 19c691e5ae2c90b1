package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"prodeskBack/internal/models"
	"prodeskBack/internal/services"
)

func TestInvoiceErrorStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invoice not found", models.ErrInvoiceNotFound, http.StatusNotFound},
		{"item not found", models.ErrItemNotFound, http.StatusNotFound},
		{"not draft", models.ErrInvoiceNotDraft, http.StatusConflict},
		{"already paid", models.ErrInvoiceAlreadyPaid, http.StatusConflict},
		{"number conflict", models.ErrNumberConflict, http.StatusConflict},
		{"validation", models.ValidationError("rate", "must be a positive number"), http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("load: %w", models.ErrInvoiceNotFound), http.StatusNotFound},
		{"gateway 4xx passes through", &services.RazorpayError{StatusCode: http.StatusUnprocessableEntity, Status: "422"}, http.StatusUnprocessableEntity},
		{"gateway 5xx is bad gateway", &services.RazorpayError{StatusCode: http.StatusInternalServerError, Status: "500"}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := invoiceErrorStatus(tc.err); got != tc.want {
				t.Errorf("status mismatch: got %d, want %d", got, tc.want)
			}
		})
	}
}
