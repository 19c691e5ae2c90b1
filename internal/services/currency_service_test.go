package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"prodeskBack/internal/models"
)

type fakeSettingsStore struct {
	settings models.Settings
	err      error
}

func (f *fakeSettingsStore) GetSettings(ctx context.Context) (models.Settings, error) {
	return f.settings, f.err
}

func TestResolveRate_ReportingCurrencyIsIdentity(t *testing.T) {
	svc := &CurrencyService{}
	rate := svc.ResolveRate(context.Background(), "INR", nil)
	if !rate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("identity rate mismatch: %s", rate)
	}
}

func TestResolveRate_OverrideWinsOverSettings(t *testing.T) {
	stored := decimal.RequireFromString("83.10")
	svc := &CurrencyService{
		SettingsRepo: &fakeSettingsStore{settings: models.Settings{USDToINRRate: &stored}},
	}

	override := map[string]decimal.Decimal{"USD": decimal.RequireFromString("85.25")}
	rate := svc.ResolveRate(context.Background(), "USD", override)
	if !rate.Equal(decimal.RequireFromString("85.25")) {
		t.Errorf("override not applied: %s", rate)
	}
}

func TestResolveRate_SettingsBeatDefaults(t *testing.T) {
	stored := decimal.RequireFromString("83.10")
	svc := &CurrencyService{
		SettingsRepo: &fakeSettingsStore{settings: models.Settings{USDToINRRate: &stored}},
	}

	rate := svc.ResolveRate(context.Background(), "USD", nil)
	if !rate.Equal(stored) {
		t.Errorf("settings rate not used: %s", rate)
	}
}

func TestResolveRate_FallsBackToDefaults(t *testing.T) {
	svc := &CurrencyService{SettingsRepo: &fakeSettingsStore{}}

	cases := map[string]int64{"USD": 84, "EUR": 90, "GBP": 105}
	for currency, want := range cases {
		rate := svc.ResolveRate(context.Background(), currency, nil)
		if !rate.Equal(decimal.NewFromInt(want)) {
			t.Errorf("%s default mismatch: %s", currency, rate)
		}
	}
}

func TestResolveRate_UnknownCurrencyIsOne(t *testing.T) {
	svc := &CurrencyService{SettingsRepo: &fakeSettingsStore{}}
	rate := svc.ResolveRate(context.Background(), "JPY", nil)
	if !rate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("unknown currency rate mismatch: %s", rate)
	}
}

func TestResolveRate_SettingsErrorDegradesToDefault(t *testing.T) {
	svc := &CurrencyService{
		SettingsRepo: &fakeSettingsStore{err: errors.New("db down")},
	}

	rate := svc.ResolveRate(context.Background(), "EUR", nil)
	if !rate.Equal(decimal.NewFromInt(90)) {
		t.Errorf("expected default after settings failure, got %s", rate)
	}
}

func TestConvert_MultipliesByResolvedRate(t *testing.T) {
	svc := &CurrencyService{}
	got := svc.Convert(context.Background(), decimal.NewFromInt(100), "USD", nil)
	if !got.Equal(decimal.NewFromInt(8400)) {
		t.Errorf("conversion mismatch: %s", got)
	}
}
