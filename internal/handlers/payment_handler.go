package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"prodeskBack/internal/models"
	"prodeskBack/internal/repositories"
	"prodeskBack/internal/services"
)

type PaymentHandler struct {
	Gateway        *services.RazorpayService
	PaymentRepo    *repositories.PaymentRepository
	InvoiceService *services.InvoiceService
	InfoLog        *log.Logger
	ErrorLog       *log.Logger
}

// GatewayCallback receives the payment-link webhook. The signature is
// verified against the raw body before anything else; a paid callback
// records the payment and finalizes the invoice in one pass.
func (h *PaymentHandler) GatewayCallback(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if !h.Gateway.ValidateCallbackSignature(raw, signature) {
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	payload, err := h.Gateway.ParseCallback(bytes.NewReader(raw))
	if err != nil {
		http.Error(w, "Invalid callback payload", http.StatusBadRequest)
		return
	}

	invoiceID, err := strconv.Atoi(payload.ReferenceID)
	if err != nil {
		http.Error(w, "Invalid reference ID", http.StatusBadRequest)
		return
	}

	if payload.Status != "paid" {
		h.InfoLog.Printf("payment callback for invoice %d ignored, status %q", invoiceID, payload.Status)
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx := r.Context()
	if err := h.PaymentRepo.RecordPayment(ctx, invoiceID, payload.GatewayPaymentID, payload.Amount, payload.Status); err != nil {
		h.ErrorLog.Printf("record payment for invoice %d: %v", invoiceID, err)
		http.Error(w, "Failed to record payment", http.StatusInternalServerError)
		return
	}

	number, err := h.InvoiceService.Finalize(ctx, invoiceID)
	if err != nil {
		// The gateway retries callbacks, so an already paid invoice is fine.
		if errors.Is(err, models.ErrInvoiceAlreadyPaid) {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ErrorLog.Printf("finalize invoice %d after payment: %v", invoiceID, err)
		http.Error(w, "Failed to finalize invoice", http.StatusInternalServerError)
		return
	}

	h.InfoLog.Printf("invoice %d paid via gateway, assigned number %d", invoiceID, number)
	w.WriteHeader(http.StatusOK)
}

// PaymentSuccess is the browser redirect target after checkout.
func (h *PaymentHandler) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Payment received. Thank you."})
}

func (h *PaymentHandler) PaymentFailure(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusPaymentRequired)
	json.NewEncoder(w).Encode(map[string]string{"message": "Payment was not completed."})
}

// GetPaymentsByInvoice lists recorded gateway payments for an invoice.
func (h *PaymentHandler) GetPaymentsByInvoice(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "id")
	if idStr == "" {
		http.Error(w, "Missing invoice ID", http.StatusBadRequest)
		return
	}

	invoiceID, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid invoice ID", http.StatusBadRequest)
		return
	}

	payments, err := h.PaymentRepo.ListByInvoice(r.Context(), invoiceID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payments)
}
