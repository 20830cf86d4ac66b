package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/NTAravind/Eustress/internal/domain"
	"github.com/NTAravind/Eustress/internal/dto"
	"github.com/NTAravind/Eustress/internal/gateway"
	"github.com/NTAravind/Eustress/internal/logger"
	"github.com/NTAravind/Eustress/internal/repository"
	"github.com/NTAravind/Eustress/internal/telemetry"
)

// RegistrationService defines checkout and booking operations
type RegistrationService interface {
	// Reserve books seats with payment collected at the venue
	Reserve(ctx context.Context, userID, workshopID string, quantity int) (*domain.Registration, error)
	// CreateOrder opens a gateway order for an online checkout
	CreateOrder(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error)
	// VerifyAndReserve checks the gateway callback signature and books
	// the seats as paid
	VerifyAndReserve(ctx context.Context, userID string, req *dto.VerifyPaymentRequest) (*domain.Registration, error)
	// Cancel removes the user's registration and restores its seats
	Cancel(ctx context.Context, userID, workshopID string) error
	// Get returns the user's registration for a workshop
	Get(ctx context.Context, userID, workshopID string) (*domain.Registration, error)
	// ListAll returns every registration for the back office
	ListAll(ctx context.Context) ([]*domain.Registration, error)
	// GetByID returns one registration for the back office
	GetByID(ctx context.Context, id string) (*domain.Registration, error)
	// ListByWorkshop returns a workshop's registrations for the back office
	ListByWorkshop(ctx context.Context, workshopID string) ([]*domain.Registration, error)
	// UpdatePayment patches a registration's payment record
	UpdatePayment(ctx context.Context, id string, req *dto.UpdatePaymentStatusRequest) (*domain.Registration, error)
}

// RegistrationServiceConfig holds configuration for RegistrationService
type RegistrationServiceConfig struct {
	Currency     string
	GatewayKeyID string
}

// registrationService implements RegistrationService
type registrationService struct {
	registrationRepo repository.RegistrationRepository
	workshopRepo     repository.WorkshopRepository
	gateway          gateway.PaymentGateway
	publisher        EventPublisher
	cache            CatalogCache
	config           *RegistrationServiceConfig
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(
	registrationRepo repository.RegistrationRepository,
	workshopRepo repository.WorkshopRepository,
	paymentGateway gateway.PaymentGateway,
	publisher EventPublisher,
	cache CatalogCache,
	config *RegistrationServiceConfig,
) RegistrationService {
	if config == nil {
		config = &RegistrationServiceConfig{}
	}
	if config.Currency == "" {
		config.Currency = "INR"
	}
	if publisher == nil {
		publisher = NewNoOpEventPublisher()
	}
	return &registrationService{
		registrationRepo: registrationRepo,
		workshopRepo:     workshopRepo,
		gateway:          paymentGateway,
		publisher:        publisher,
		cache:            cache,
		config:           config,
	}
}

// Reserve books seats with payment collected at the venue. The
// registration is recorded as pending and unpaid until staff mark it
// collected.
func (s *registrationService) Reserve(ctx context.Context, userID, workshopID string, quantity int) (*domain.Registration, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.registration.reserve")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("workshop_id", workshopID),
		attribute.Int("quantity", quantity),
	)

	reg, err := s.reserve(ctx, userID, workshopID, quantity, func(w *domain.Workshop, reg *domain.Registration) {
		reg.PaymentMethod = domain.PaymentMethodPickup
		reg.PaymentStatus = domain.PaymentStatusPending
		reg.Paid = false
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("registration_id", reg.ID))
	span.SetStatus(codes.Ok, "")
	return reg, nil
}

// CreateOrder opens a gateway order for an online checkout. Nothing is
// reserved yet; seats are taken only after the payment verifies.
func (s *registrationService) CreateOrder(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.registration.create_order")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("workshop_id", req.WorkshopID),
		attribute.Int("quantity", req.Quantity),
	)

	w, err := s.workshopRepo.GetByID(ctx, req.WorkshopID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !w.IsOpen {
		span.SetStatus(codes.Error, "registration closed")
		return nil, domain.ErrRegistrationClosed
	}
	if w.AvailableSeats < req.Quantity {
		span.SetStatus(codes.Error, "insufficient seats")
		return nil, domain.ErrInsufficientSeats
	}

	// Duplicate checkouts fail here instead of after the user has paid
	if _, err := s.registrationRepo.GetByUserAndWorkshop(ctx, userID, req.WorkshopID); err == nil {
		span.SetStatus(codes.Error, "already registered")
		return nil, domain.ErrAlreadyRegistered
	} else if !domain.IsNotFoundError(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	order, err := s.gateway.CreateOrder(ctx, &gateway.OrderRequest{
		AmountPaise: w.AmountInPaise(req.Quantity),
		Currency:    s.config.Currency,
		Receipt:     fmt.Sprintf("ws-%d", time.Now().UnixMilli()),
		Notes: map[string]string{
			"workshop_id": w.ID,
			"user_id":     userID,
			"quantity":    fmt.Sprintf("%d", req.Quantity),
		},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("order_id", order.ID))
	span.SetStatus(codes.Ok, "")
	return &dto.CreateOrderResponse{
		OrderID:  order.ID,
		Amount:   order.AmountPaise,
		Currency: order.Currency,
		KeyID:    s.config.GatewayKeyID,
	}, nil
}

// VerifyAndReserve checks the gateway callback signature and books the
// seats as paid and completed. A bad signature mutates nothing.
func (s *registrationService) VerifyAndReserve(ctx context.Context, userID string, req *dto.VerifyPaymentRequest) (*domain.Registration, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.registration.verify_and_reserve")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("workshop_id", req.WorkshopID),
		attribute.String("order_id", req.OrderID),
	)

	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		span.SetStatus(codes.Error, "invalid signature")
		return nil, domain.ErrInvalidSignature
	}

	reg, err := s.reserve(ctx, userID, req.WorkshopID, req.Quantity, func(w *domain.Workshop, reg *domain.Registration) {
		reg.PaymentMethod = domain.PaymentMethodRazorpay
		reg.PaymentStatus = domain.PaymentStatusCompleted
		reg.Paid = true
		reg.PaymentID = req.PaymentID
		reg.GatewayOrderID = req.OrderID
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("registration_id", reg.ID))
	span.SetStatus(codes.Ok, "")
	return reg, nil
}

// reserve runs the shared booking path: price the seats, run the seat
// transaction, publish the event, drop the cached catalog.
func (s *registrationService) reserve(ctx context.Context, userID, workshopID string, quantity int, decorate func(*domain.Workshop, *domain.Registration)) (*domain.Registration, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	w, err := s.workshopRepo.GetByID(ctx, workshopID)
	if err != nil {
		return nil, err
	}

	reg := &domain.Registration{
		ID:           uuid.New().String(),
		UserID:       userID,
		WorkshopID:   workshopID,
		Seats:        quantity,
		PricePaid:    w.TotalFor(quantity),
		RegisteredAt: time.Now(),
	}
	decorate(w, reg)

	if err := s.registrationRepo.Reserve(ctx, reg); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishRegistrationCreated(ctx, reg); err != nil {
		logger.Get().Warn("failed to publish registration event",
			zap.String("registration_id", reg.ID), zap.Error(err))
	}
	s.invalidateCatalog(ctx)

	return reg, nil
}

// Cancel removes the user's registration and restores its seats
func (s *registrationService) Cancel(ctx context.Context, userID, workshopID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.registration.cancel")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("workshop_id", workshopID),
	)

	reg, err := s.registrationRepo.GetByUserAndWorkshop(ctx, userID, workshopID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.registrationRepo.Cancel(ctx, userID, workshopID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.publisher.PublishRegistrationCancelled(ctx, reg); err != nil {
		logger.Get().Warn("failed to publish cancellation event",
			zap.String("registration_id", reg.ID), zap.Error(err))
	}
	s.invalidateCatalog(ctx)

	span.SetStatus(codes.Ok, "")
	return nil
}

// Get returns the user's registration for a workshop
func (s *registrationService) Get(ctx context.Context, userID, workshopID string) (*domain.Registration, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.registration.get")
	defer span.End()

	reg, err := s.registrationRepo.GetByUserAndWorkshop(ctx, userID, workshopID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return reg, nil
}

// ListAll returns every registration for the back office
func (s *registrationService) ListAll(ctx context.Context) ([]*domain.Registration, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.registration.list_all")
	defer span.End()

	regs, err := s.registrationRepo.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(regs)))
	span.SetStatus(codes.Ok, "")
	return regs, nil
}

// GetByID returns one registration for the back office
func (s *registrationService) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.registration.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("registration_id", id))

	reg, err := s.registrationRepo.GetByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return reg, nil
}

// ListByWorkshop returns a workshop's registrations for the back office
func (s *registrationService) ListByWorkshop(ctx context.Context, workshopID string) ([]*domain.Registration, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.registration.list_by_workshop")
	defer span.End()

	span.SetAttributes(attribute.String("workshop_id", workshopID))

	if _, err := s.workshopRepo.GetByID(ctx, workshopID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	regs, err := s.registrationRepo.ListByWorkshop(ctx, workshopID, false)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(regs)))
	span.SetStatus(codes.Ok, "")
	return regs, nil
}

// UpdatePayment patches a registration's payment record
func (s *registrationService) UpdatePayment(ctx context.Context, id string, req *dto.UpdatePaymentStatusRequest) (*domain.Registration, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.registration.update_payment")
	defer span.End()

	span.SetAttributes(attribute.String("registration_id", id))

	reg, err := s.registrationRepo.UpdatePayment(ctx, id, req.Paid, req.PaymentStatus, req.PaymentMethod)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return reg, nil
}

func (s *registrationService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Get().Warn("failed to invalidate catalog cache", zap.Error(err))
	}
}
