package services

import (
	"context"

	"prodeskBack/internal/models"
	"prodeskBack/internal/repositories"
)

type SettingsService struct {
	SettingsRepo *repositories.SettingsRepository
}

func (s *SettingsService) GetSettings(ctx context.Context) (models.Settings, error) {
	return s.SettingsRepo.GetSettings(ctx)
}

func (s *SettingsService) UpdateSettings(ctx context.Context, settings models.Settings) (models.Settings, error) {
	if settings.ReminderDays < 0 {
		return models.Settings{}, models.ValidationError("reminder_days", "must not be negative")
	}
	// Make sure the singleton row exists before updating it.
	if _, err := s.SettingsRepo.GetSettings(ctx); err != nil {
		return models.Settings{}, err
	}
	if err := s.SettingsRepo.UpdateSettings(ctx, settings); err != nil {
		return models.Settings{}, err
	}
	return s.SettingsRepo.GetSettings(ctx)
}
