package service

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/NTAravind/Eustress/internal/domain"
	"github.com/NTAravind/Eustress/internal/dto"
	"github.com/NTAravind/Eustress/internal/email"
	"github.com/NTAravind/Eustress/internal/logger"
	"github.com/NTAravind/Eustress/internal/repository"
	"github.com/NTAravind/Eustress/internal/telemetry"
)

// dispatchWorkers caps concurrent sends so bulk dispatches stay inside
// the email provider's rate limits
const dispatchWorkers = 5

// NotificationService defines bulk email operations for the back office
type NotificationService interface {
	// SendReminders emails upcoming-workshop reminders. With no explicit
	// registration IDs every paid, completed registration is targeted.
	SendReminders(ctx context.Context, req *dto.SendReminderRequest) (*dto.DispatchResponse, error)
	// CancelWorkshop deletes the workshop with its registrations and
	// notifies the paid, completed registrants
	CancelWorkshop(ctx context.Context, workshopID string) (*dto.DispatchResponse, error)
	// Announce emails every account about a new workshop
	Announce(ctx context.Context, workshopID string) (*dto.DispatchResponse, error)
}

// NotificationServiceConfig holds configuration for NotificationService
type NotificationServiceConfig struct {
	// CatalogURL is the public booking page linked from announcements
	CatalogURL string
}

// notificationService implements NotificationService
type notificationService struct {
	registrationRepo repository.RegistrationRepository
	workshopRepo     repository.WorkshopRepository
	userRepo         repository.UserRepository
	mailer           email.Mailer
	publisher        EventPublisher
	cache            CatalogCache
	config           *NotificationServiceConfig
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	registrationRepo repository.RegistrationRepository,
	workshopRepo repository.WorkshopRepository,
	userRepo repository.UserRepository,
	mailer email.Mailer,
	publisher EventPublisher,
	cache CatalogCache,
	config *NotificationServiceConfig,
) NotificationService {
	if config == nil {
		config = &NotificationServiceConfig{}
	}
	if publisher == nil {
		publisher = NewNoOpEventPublisher()
	}
	return &notificationService{
		registrationRepo: registrationRepo,
		workshopRepo:     workshopRepo,
		userRepo:         userRepo,
		mailer:           mailer,
		publisher:        publisher,
		cache:            cache,
		config:           config,
	}
}

// SendReminders emails upcoming-workshop reminders
func (s *notificationService) SendReminders(ctx context.Context, req *dto.SendReminderRequest) (*dto.DispatchResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.notification.send_reminders")
	defer span.End()

	span.SetAttributes(
		attribute.String("workshop_id", req.WorkshopID),
		attribute.Int("requested", len(req.RegistrationIDs)),
	)

	w, err := s.workshopRepo.GetByID(ctx, req.WorkshopID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var regs []*domain.Registration
	if len(req.RegistrationIDs) > 0 {
		regs, err = s.registrationRepo.ListByIDs(ctx, req.WorkshopID, req.RegistrationIDs)
	} else {
		regs, err = s.registrationRepo.ListByWorkshop(ctx, req.WorkshopID, true)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	resp := s.dispatch(ctx, len(regs), func(i int) (*email.Message, string) {
		msg, err := email.ReminderMessage(regs[i], w)
		if err != nil {
			return nil, regs[i].User.Email
		}
		return msg, regs[i].User.Email
	})
	resp.Message = "Reminders sent"
	resp.WorkshopTitle = w.Title

	span.SetAttributes(attribute.Int("successful", resp.Successful), attribute.Int("total", resp.Total))
	span.SetStatus(codes.Ok, "")
	return resp, nil
}

// CancelWorkshop deletes the workshop with its registrations and notifies
// the paid, completed registrants. The rows go first so a notification
// failure can never leave the workshop bookable.
func (s *notificationService) CancelWorkshop(ctx context.Context, workshopID string) (*dto.DispatchResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.notification.cancel_workshop")
	defer span.End()

	span.SetAttributes(attribute.String("workshop_id", workshopID))

	w, err := s.workshopRepo.GetByID(ctx, workshopID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Snapshot the audience before the rows disappear
	regs, err := s.registrationRepo.ListByWorkshop(ctx, workshopID, true)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.workshopRepo.DeleteCascade(ctx, workshopID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.publisher.PublishWorkshopCancelled(ctx, workshopID); err != nil {
		logger.Get().Warn("failed to publish workshop cancellation",
			zap.String("workshop_id", workshopID), zap.Error(err))
	}
	s.invalidateCatalog(ctx)

	resp := s.dispatch(ctx, len(regs), func(i int) (*email.Message, string) {
		msg, err := email.CancellationMessage(regs[i], w)
		if err != nil {
			return nil, regs[i].User.Email
		}
		return msg, regs[i].User.Email
	})
	resp.Message = "Workshop cancelled"
	resp.WorkshopTitle = w.Title

	span.SetAttributes(attribute.Int("successful", resp.Successful), attribute.Int("total", resp.Total))
	span.SetStatus(codes.Ok, "")
	return resp, nil
}

// Announce emails every account about a new workshop
func (s *notificationService) Announce(ctx context.Context, workshopID string) (*dto.DispatchResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.notification.announce")
	defer span.End()

	span.SetAttributes(attribute.String("workshop_id", workshopID))

	w, err := s.workshopRepo.GetByID(ctx, workshopID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	resp := s.dispatch(ctx, len(users), func(i int) (*email.Message, string) {
		msg, err := email.AnnouncementMessage(users[i], w, s.config.CatalogURL)
		if err != nil {
			return nil, users[i].Email
		}
		return msg, users[i].Email
	})
	resp.Message = "Announcement sent"
	resp.WorkshopTitle = w.Title

	span.SetAttributes(attribute.Int("successful", resp.Successful), attribute.Int("total", resp.Total))
	span.SetStatus(codes.Ok, "")
	return resp, nil
}

// dispatch fans messages out over a small worker pool and tallies the
// outcome. Individual failures are recorded, never propagated.
func (s *notificationService) dispatch(ctx context.Context, total int, build func(i int) (*email.Message, string)) *dto.DispatchResponse {
	resp := &dto.DispatchResponse{Total: total}
	if total == 0 {
		return resp
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		sem  = make(chan struct{}, dispatchWorkers)
		fail = func(to string, err error) {
			mu.Lock()
			resp.Failed = append(resp.Failed, dto.FailedRecipient{Email: to, Error: err.Error()})
			mu.Unlock()
		}
	)

	for i := 0; i < total; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			msg, to := build(i)
			if msg == nil {
				fail(to, fmt.Errorf("failed to render message"))
				return
			}
			if err := s.mailer.Send(ctx, msg); err != nil {
				logger.Get().Warn("failed to send email",
					zap.String("to", to), zap.Error(err))
				fail(to, err)
				return
			}

			mu.Lock()
			resp.Successful++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	return resp
}

func (s *notificationService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Get().Warn("failed to invalidate catalog cache", zap.Error(err))
	}
}
