package main

import (
	"context"
	"log"
	"time"

	"prodeskBack/internal/repositories"
	"prodeskBack/internal/services"
)

const (
	reminderRunTimeout  = 5 * time.Minute
	defaultReminderDays = 7
)

// startReminderWorker emails clients about draft invoices that have sat
// unpaid longer than the configured number of days. Runs once at startup
// and then every 24 hours.
func startReminderWorker(ctx context.Context, svc *services.InvoiceService, invoiceRepo *repositories.InvoiceRepository, settingsRepo *repositories.SettingsRepository, infoLog, errorLog *log.Logger) {
	if svc == nil || invoiceRepo == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, reminderRunTimeout)
			defer cancel()

			days := defaultReminderDays
			if settingsRepo != nil {
				settings, err := settingsRepo.GetSettings(runCtx)
				if err != nil {
					errorLog.Printf("reminder worker: load settings: %v", err)
				} else if settings.ReminderDays > 0 {
					days = settings.ReminderDays
				}
			}

			drafts, err := invoiceRepo.ListDraftsOlderThan(runCtx, days)
			if err != nil {
				errorLog.Printf("reminder worker: list stale drafts: %v", err)
				return
			}

			sent := 0
			for _, inv := range drafts {
				if err := svc.SendPaymentReminder(runCtx, inv.ID); err != nil {
					errorLog.Printf("reminder worker: invoice %d: %v", inv.ID, err)
					continue
				}
				sent++
			}
			if sent > 0 {
				infoLog.Printf("reminder worker: sent %d payment reminders", sent)
			}
		}

		runOnce()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}
