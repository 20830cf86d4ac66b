package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/NTAravind/Eustress/internal/dto"
	"github.com/NTAravind/Eustress/internal/logger"
	"github.com/NTAravind/Eustress/internal/repository"
	"github.com/NTAravind/Eustress/internal/service"
)

// ReminderWorker sends day-before reminder emails on a cron schedule.
type ReminderWorker struct {
	cron                *cron.Cron
	workshopRepo        repository.WorkshopRepository
	notificationService service.NotificationService
	schedule            string
	timeout             time.Duration
}

// ReminderWorkerConfig holds configuration for ReminderWorker
type ReminderWorkerConfig struct {
	// Schedule is a cron expression; defaults to 09:00 every day.
	Schedule string
	// Timeout bounds a single reminder run.
	Timeout time.Duration
}

func NewReminderWorker(
	workshopRepo repository.WorkshopRepository,
	notificationService service.NotificationService,
	cfg ReminderWorkerConfig,
) *ReminderWorker {
	if cfg.Schedule == "" {
		cfg.Schedule = "0 9 * * *"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}

	return &ReminderWorker{
		cron:                cron.New(),
		workshopRepo:        workshopRepo,
		notificationService: notificationService,
		schedule:            cfg.Schedule,
		timeout:             cfg.Timeout,
	}
}

// Start registers the cron entry and begins the schedule.
func (w *ReminderWorker) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, w.run); err != nil {
		return err
	}

	w.cron.Start()
	logger.Get().Info("reminder worker started", zap.String("schedule", w.schedule))
	return nil
}

// Stop stops the schedule and waits for a running job to finish.
func (w *ReminderWorker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	logger.Get().Info("reminder worker stopped")
}

func (w *ReminderWorker) run() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	log := logger.Get()

	tomorrow := time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)
	dayAfter := tomorrow.AddDate(0, 0, 1)

	workshops, err := w.workshopRepo.ListOpen(ctx, tomorrow)
	if err != nil {
		log.Error("reminder run failed to list workshops", zap.Error(err))
		return
	}

	for _, workshop := range workshops {
		if !workshop.Date.Before(dayAfter) {
			continue
		}

		resp, err := w.notificationService.SendReminders(ctx, &dto.SendReminderRequest{
			WorkshopID: workshop.ID,
		})
		if err != nil {
			log.Error("reminder dispatch failed",
				zap.String("workshop_id", workshop.ID),
				zap.Error(err),
			)
			continue
		}

		log.Info("reminders dispatched",
			zap.String("workshop_id", workshop.ID),
			zap.String("workshop_title", workshop.Title),
			zap.Int("successful", resp.Successful),
			zap.Int("total", resp.Total),
		)
	}
}
