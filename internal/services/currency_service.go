package services

import (
	"context"
	"log"

	"github.com/shopspring/decimal"

	"prodeskBack/internal/models"
)

// ReportingCurrency is the currency all revenue figures are converted into.
const ReportingCurrency = "INR"

var defaultRates = map[string]int64{
	"USD": 84,
	"EUR": 90,
	"GBP": 105,
}

// SettingsStore is the slice of the persistence layer the resolver reads.
type SettingsStore interface {
	GetSettings(ctx context.Context) (models.Settings, error)
}

// CurrencyService resolves exchange rates into the reporting currency.
// Resolution order: caller override, operator-configured settings, static
// default. It never fails; missing configuration degrades to the default
// and a settings read failure is logged and skipped.
type CurrencyService struct {
	SettingsRepo SettingsStore
	ErrorLog     *log.Logger
}

func (s *CurrencyService) ResolveRate(ctx context.Context, from string, overrides map[string]decimal.Decimal) decimal.Decimal {
	if from == ReportingCurrency {
		return decimal.NewFromInt(1)
	}

	if rate, ok := overrides[from]; ok && !rate.IsZero() {
		return rate
	}

	if s.SettingsRepo != nil {
		settings, err := s.SettingsRepo.GetSettings(ctx)
		if err != nil {
			if s.ErrorLog != nil {
				s.ErrorLog.Printf("ResolveRate: settings read failed, using default: %v", err)
			}
		} else if rate := settings.Rate(from); rate != nil && !rate.IsZero() {
			return *rate
		}
	}

	if d, ok := defaultRates[from]; ok {
		return decimal.NewFromInt(d)
	}
	return decimal.NewFromInt(1)
}

// Convert turns an amount in a foreign currency into the reporting
// currency. Presentation-layer only, never touches invoice records.
func (s *CurrencyService) Convert(ctx context.Context, amount decimal.Decimal, from string, overrides map[string]decimal.Decimal) decimal.Decimal {
	return amount.Mul(s.ResolveRate(ctx, from, overrides))
}
