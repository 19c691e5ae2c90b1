package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// RevenueStore is the aggregate query surface the dashboard reads.
type RevenueStore interface {
	PaidTotalsByCurrency(ctx context.Context) (map[string]decimal.Decimal, error)
}

// RevenueSummary is a presentation-layer aggregation. Conversion happens
// on the way out; invoice records are never touched.
type RevenueSummary struct {
	ByCurrency map[string]decimal.Decimal `json:"by_currency"`
	TotalINR   decimal.Decimal            `json:"total_inr"`
}

type RevenueService struct {
	InvoiceRepo RevenueStore
	Currency    *CurrencyService
}

func (s *RevenueService) Summary(ctx context.Context, overrides map[string]decimal.Decimal) (RevenueSummary, error) {
	totals, err := s.InvoiceRepo.PaidTotalsByCurrency(ctx)
	if err != nil {
		return RevenueSummary{}, err
	}

	summary := RevenueSummary{
		ByCurrency: totals,
		TotalINR:   decimal.Zero,
	}
	for currency, amount := range totals {
		summary.TotalINR = summary.TotalINR.Add(s.Currency.Convert(ctx, amount, currency, overrides))
	}
	return summary, nil
}
