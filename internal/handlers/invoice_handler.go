package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"prodeskBack/internal/models"
	"prodeskBack/internal/services"
)

type InvoiceHandler struct {
	Service *services.InvoiceService
}

func (h *InvoiceHandler) CreateDraftInvoice(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	invoice, err := h.Service.CreateDraft(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, models.ErrClientNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case isForeignKeyConstraintError(err):
			http.Error(w, "Referenced client or project does not exist", http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(invoice)
}

func (h *InvoiceHandler) GetInvoiceByID(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "id")
	if idStr == "" {
		http.Error(w, "Missing invoice ID", http.StatusBadRequest)
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid invoice ID", http.StatusBadRequest)
		return
	}

	invoice, err := h.Service.GetInvoice(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrInvoiceNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(invoice)
}

func (h *InvoiceHandler) GetInvoices(w http.ResponseWriter, r *http.Request) {
	clientStr := r.URL.Query().Get("client_id")

	var (
		invoices []models.Invoice
		err      error
	)
	if clientStr != "" {
		clientID, convErr := strconv.Atoi(clientStr)
		if convErr != nil {
			http.Error(w, "Invalid client ID", http.StatusBadRequest)
			return
		}
		invoices, err = h.Service.ListInvoicesByClient(r.Context(), clientID)
	} else {
		invoices, err = h.Service.ListInvoices(r.Context())
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(invoices)
}

func (h *InvoiceHandler) FinalizeInvoice(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "id")
	if idStr == "" {
		http.Error(w, "Missing invoice ID", http.StatusBadRequest)
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid invoice ID", http.StatusBadRequest)
		return
	}

	number, err := h.Service.Finalize(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), invoiceErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.FinalizeInvoiceResponse{InvoiceID: id, InvoiceNumber: number})
}

func (h *InvoiceHandler) RequestPayment(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "id")
	if idStr == "" {
		http.Error(w, "Missing invoice ID", http.StatusBadRequest)
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid invoice ID", http.StatusBadRequest)
		return
	}

	link, err := h.Service.RequestPayment(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), invoiceErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.PaymentLinkResponse{InvoiceID: id, PaymentLink: link})
}

// invoiceErrorStatus maps invoice lifecycle errors onto HTTP status codes.
// Gateway errors with a 4xx status are passed through so the caller sees
// what the payment provider rejected; everything else from the gateway is
// treated as an upstream failure.
func invoiceErrorStatus(err error) int {
	var gwErr *services.RazorpayError
	if errors.As(err, &gwErr) {
		if gwErr.StatusCode >= 400 && gwErr.StatusCode < 500 {
			return gwErr.StatusCode
		}
		return http.StatusBadGateway
	}

	switch {
	case errors.Is(err, models.ErrInvoiceNotFound), errors.Is(err, models.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvoiceNotDraft),
		errors.Is(err, models.ErrInvoiceAlreadyPaid),
		errors.Is(err, models.ErrNumberConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
