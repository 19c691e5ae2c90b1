package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"prodeskBack/internal/models"
)

type SettingsRepository struct {
	DB *sql.DB
}

// GetSettings returns the singleton row, lazily creating it on first
// access. Upsert-by-well-known-id keeps at most one logical instance.
func (r *SettingsRepository) GetSettings(ctx context.Context) (models.Settings, error) {
	s, err := r.getByID(ctx)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Settings{}, err
	}

	_, err = r.DB.ExecContext(ctx, `
INSERT INTO settings (id, reminder_days, created_at) VALUES (?, 7, NOW())
ON DUPLICATE KEY UPDATE id = id`, models.SettingsID)
	if err != nil {
		return models.Settings{}, err
	}
	return r.getByID(ctx)
}

func (r *SettingsRepository) getByID(ctx context.Context) (models.Settings, error) {
	row := r.DB.QueryRowContext(ctx, `
SELECT id, usd_to_inr_rate, eur_to_inr_rate, gbp_to_inr_rate,
       gateway_key_id, gateway_secret, mail_from_name, mail_from_addr,
       reminder_days, created_at, updated_at
FROM settings WHERE id = ?`, models.SettingsID)

	var s models.Settings
	var usd, eur, gbp decimal.NullDecimal
	var keyID, secret, fromName, fromAddr sql.NullString
	var updated sql.NullTime
	err := row.Scan(&s.ID, &usd, &eur, &gbp, &keyID, &secret, &fromName, &fromAddr,
		&s.ReminderDays, &s.CreatedAt, &updated)
	if err != nil {
		return models.Settings{}, err
	}
	if usd.Valid {
		s.USDToINRRate = &usd.Decimal
	}
	if eur.Valid {
		s.EURToINRRate = &eur.Decimal
	}
	if gbp.Valid {
		s.GBPToINRRate = &gbp.Decimal
	}
	s.GatewayKeyID = keyID.String
	s.GatewaySecret = secret.String
	s.MailFromName = fromName.String
	s.MailFromAddr = fromAddr.String
	if updated.Valid {
		t := updated.Time
		s.UpdatedAt = &t
	}
	return s, nil
}

func (r *SettingsRepository) UpdateSettings(ctx context.Context, s models.Settings) error {
	var usd, eur, gbp decimal.NullDecimal
	if s.USDToINRRate != nil {
		usd = decimal.NullDecimal{Decimal: *s.USDToINRRate, Valid: true}
	}
	if s.EURToINRRate != nil {
		eur = decimal.NullDecimal{Decimal: *s.EURToINRRate, Valid: true}
	}
	if s.GBPToINRRate != nil {
		gbp = decimal.NullDecimal{Decimal: *s.GBPToINRRate, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, `
UPDATE settings
SET usd_to_inr_rate = ?, eur_to_inr_rate = ?, gbp_to_inr_rate = ?,
    gateway_key_id = ?, gateway_secret = ?, mail_from_name = ?, mail_from_addr = ?,
    reminder_days = ?, updated_at = NOW()
WHERE id = ?`,
		usd, eur, gbp, s.GatewayKeyID, s.GatewaySecret, s.MailFromName, s.MailFromAddr,
		s.ReminderDays, models.SettingsID,
	)
	return err
}
