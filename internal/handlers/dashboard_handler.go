package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"prodeskBack/internal/services"
)

type DashboardHandler struct {
	Revenue *services.RevenueService
}

// GetRevenueSummary reports paid invoice totals per currency plus a
// combined total in the reporting currency. Optional rate overrides come
// as query parameters, e.g. ?USD=83.5.
func (h *DashboardHandler) GetRevenueSummary(w http.ResponseWriter, r *http.Request) {
	overrides := make(map[string]decimal.Decimal)
	for key, vals := range r.URL.Query() {
		if len(key) != 3 || len(vals) == 0 {
			continue
		}
		rate, err := decimal.NewFromString(vals[0])
		if err != nil || !rate.IsPositive() {
			http.Error(w, "Invalid rate override for "+key, http.StatusBadRequest)
			return
		}
		overrides[key] = rate
	}

	summary, err := h.Revenue.Summary(r.Context(), overrides)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}
