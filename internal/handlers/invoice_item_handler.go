package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"prodeskBack/internal/models"
	"prodeskBack/internal/services"
)

type InvoiceItemHandler struct {
	Service *services.InvoiceService
}

func (h *InvoiceItemHandler) AddItem(w http.ResponseWriter, r *http.Request) {
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

	var item models.InvoiceItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.Service.AddItem(r.Context(), invoiceID, item)
	if err != nil {
		http.Error(w, err.Error(), invoiceErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *InvoiceItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "item_id")
	if idStr == "" {
		http.Error(w, "Missing item ID", http.StatusBadRequest)
		return
	}

	itemID, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	var item models.InvoiceItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	item.ID = itemID

	if err := h.Service.UpdateItem(r.Context(), item); err != nil {
		http.Error(w, err.Error(), invoiceErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Item updated"})
}

func (h *InvoiceItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "item_id")
	if idStr == "" {
		http.Error(w, "Missing item ID", http.StatusBadRequest)
		return
	}

	itemID, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteItem(r.Context(), itemID); err != nil {
		if errors.Is(err, models.ErrItemNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), invoiceErrorStatus(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
