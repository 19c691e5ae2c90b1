package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettingsID is the well-known id of the singleton settings row. The row is
// lazily created on first access.
const SettingsID = 1

type Settings struct {
	ID            int              `json:"id"`
	USDToINRRate  *decimal.Decimal `json:"usd_to_inr_rate,omitempty"`
	EURToINRRate  *decimal.Decimal `json:"eur_to_inr_rate,omitempty"`
	GBPToINRRate  *decimal.Decimal `json:"gbp_to_inr_rate,omitempty"`
	GatewayKeyID  string           `json:"gateway_key_id,omitempty"`
	GatewaySecret string           `json:"-"`
	MailFromName  string           `json:"mail_from_name,omitempty"`
	MailFromAddr  string           `json:"mail_from_addr,omitempty"`
	ReminderDays  int              `json:"reminder_days"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     *time.Time       `json:"updated_at,omitempty"`
}

// Rate returns the configured override for a source currency, nil when the
// currency has no configurable slot.
func (s Settings) Rate(currency string) *decimal.Decimal {
	switch currency {
	case "USD":
		return s.USDToINRRate
	case "EUR":
		return s.EURToINRRate
	case "GBP":
		return s.GBPToINRRate
	}
	return nil
}
