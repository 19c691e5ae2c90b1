package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"prodeskBack/internal/models"
	"prodeskBack/internal/services"
)

type SettingsHandler struct {
	Service  *services.SettingsService
	Currency *services.CurrencyService
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Service.GetSettings(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}

func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.Service.UpdateSettings(r.Context(), settings)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// GetExchangeRate resolves the conversion rate from the given currency to
// the reporting currency. Resolution never fails; unknown currencies fall
// back to a rate of one.
func (h *SettingsHandler) GetExchangeRate(w http.ResponseWriter, r *http.Request) {
	currency := strings.ToUpper(getParam(r, "currency"))
	if currency == "" {
		http.Error(w, "Missing currency", http.StatusBadRequest)
		return
	}

	rate := h.Currency.ResolveRate(r.Context(), currency, nil)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"currency": currency,
		"to":       services.ReportingCurrency,
		"rate":     rate.String(),
	})
}
