package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/NTAravind/Eustress/internal/domain"
	"github.com/NTAravind/Eustress/internal/dto"
	"github.com/NTAravind/Eustress/internal/repository"
	"github.com/NTAravind/Eustress/internal/telemetry"
)

// AdminService defines back-office account and dashboard operations
type AdminService interface {
	// ListUsers returns all accounts with their registration counts
	ListUsers(ctx context.Context) ([]*domain.User, error)
	// GetUser returns one account
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// Stats aggregates the dashboard figures
	Stats(ctx context.Context) (*dto.StatsResponse, error)
}

// adminService implements AdminService
type adminService struct {
	userRepo         repository.UserRepository
	workshopRepo     repository.WorkshopRepository
	registrationRepo repository.RegistrationRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(
	userRepo repository.UserRepository,
	workshopRepo repository.WorkshopRepository,
	registrationRepo repository.RegistrationRepository,
) AdminService {
	return &adminService{
		userRepo:         userRepo,
		workshopRepo:     workshopRepo,
		registrationRepo: registrationRepo,
	}
}

// ListUsers returns all accounts with their registration counts
func (s *adminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.list_users")
	defer span.End()

	users, err := s.userRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(users)))
	span.SetStatus(codes.Ok, "")
	return users, nil
}

// GetUser returns one account
func (s *adminService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.get_user")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", id))

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return user, nil
}

// Stats aggregates the dashboard figures
func (s *adminService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.stats")
	defer span.End()

	workshops, open, err := s.workshopRepo.Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	regStats, err := s.registrationRepo.Stats(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &dto.StatsResponse{
		Workshops:     workshops,
		OpenWorkshops: open,
		Users:         users,
		Registrations: regStats.Registrations,
		SeatsBooked:   regStats.SeatsBooked,
		Revenue:       regStats.Revenue,
	}, nil
}
