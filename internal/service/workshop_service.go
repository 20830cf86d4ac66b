package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/NTAravind/Eustress/internal/domain"
	"github.com/NTAravind/Eustress/internal/dto"
	"github.com/NTAravind/Eustress/internal/logger"
	"github.com/NTAravind/Eustress/internal/repository"
	"github.com/NTAravind/Eustress/internal/telemetry"
)

// CatalogCache caches the open-workshop catalog
type CatalogCache interface {
	Get(ctx context.Context) ([]*domain.Workshop, bool)
	Set(ctx context.Context, workshops []*domain.Workshop) error
	Invalidate(ctx context.Context) error
}

// WorkshopService defines workshop catalog and back-office operations
type WorkshopService interface {
	// Create adds a workshop; available seats start at full capacity
	Create(ctx context.Context, req *dto.WorkshopRequest) (*domain.Workshop, error)
	// Update edits a workshop without touching its seat counter
	Update(ctx context.Context, id string, req *dto.WorkshopRequest) (*domain.Workshop, error)
	// GetByID returns one workshop with its registration count
	GetByID(ctx context.Context, id string) (*domain.Workshop, error)
	// Catalog returns open upcoming workshops, cache-first
	Catalog(ctx context.Context) ([]*domain.Workshop, error)
	// ListAll returns every workshop for the back office
	ListAll(ctx context.Context) ([]*domain.Workshop, error)
}

// workshopService implements WorkshopService
type workshopService struct {
	workshopRepo repository.WorkshopRepository
	cache        CatalogCache
}

// NewWorkshopService creates a new WorkshopService
func NewWorkshopService(workshopRepo repository.WorkshopRepository, cache CatalogCache) WorkshopService {
	return &workshopService{
		workshopRepo: workshopRepo,
		cache:        cache,
	}
}

// Create adds a workshop; available seats start at full capacity
func (s *workshopService) Create(ctx context.Context, req *dto.WorkshopRequest) (*domain.Workshop, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.workshop.create")
	defer span.End()

	now := time.Now()
	isOpen := true
	if req.IsOpen != nil {
		isOpen = *req.IsOpen
	}

	w := &domain.Workshop{
		ID:             uuid.New().String(),
		Title:          req.Title,
		Description:    req.Description,
		Date:           req.Date,
		Time:           req.Time,
		Location:       req.Location,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
		Price:          req.Price,
		Discount:       req.Discount,
		Thumbnail:      req.Thumbnail,
		IsOpen:         isOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.workshopRepo.Create(ctx, w); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.invalidateCatalog(ctx)

	span.SetAttributes(attribute.String("workshop_id", w.ID))
	span.SetStatus(codes.Ok, "")
	return w, nil
}

// Update edits a workshop. The seat counter is owned by the registration
// transaction, so edits never reset it; growing total_seats simply widens
// the upper bound.
func (s *workshopService) Update(ctx context.Context, id string, req *dto.WorkshopRequest) (*domain.Workshop, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.workshop.update")
	defer span.End()

	span.SetAttributes(attribute.String("workshop_id", id))

	w, err := s.workshopRepo.GetByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	w.Title = req.Title
	w.Description = req.Description
	w.Date = req.Date
	w.Time = req.Time
	w.Location = req.Location
	w.TotalSeats = req.TotalSeats
	w.Price = req.Price
	w.Discount = req.Discount
	if req.Thumbnail != "" {
		w.Thumbnail = req.Thumbnail
	}
	if req.IsOpen != nil {
		w.IsOpen = *req.IsOpen
	}

	if err := s.workshopRepo.Update(ctx, w); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.invalidateCatalog(ctx)

	span.SetStatus(codes.Ok, "")
	return w, nil
}

// GetByID returns one workshop with its registration count
func (s *workshopService) GetByID(ctx context.Context, id string) (*domain.Workshop, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.workshop.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("workshop_id", id))

	w, err := s.workshopRepo.GetByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return w, nil
}

// Catalog returns open upcoming workshops, cache-first
func (s *workshopService) Catalog(ctx context.Context) ([]*domain.Workshop, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.workshop.catalog")
	defer span.End()

	if s.cache != nil {
		if workshops, ok := s.cache.Get(ctx); ok {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			span.SetStatus(codes.Ok, "")
			return workshops, nil
		}
	}

	// Today's workshops stay listed until the day ends
	cutoff := time.Now().Truncate(24 * time.Hour)
	workshops, err := s.workshopRepo.ListOpen(ctx, cutoff)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, workshops); err != nil {
			logger.Get().Warn("failed to cache catalog", zap.Error(err))
		}
	}

	span.SetAttributes(attribute.Int("count", len(workshops)))
	span.SetStatus(codes.Ok, "")
	return workshops, nil
}

// ListAll returns every workshop for the back office
func (s *workshopService) ListAll(ctx context.Context) ([]*domain.Workshop, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.workshop.list_all")
	defer span.End()

	workshops, err := s.workshopRepo.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(workshops)))
	span.SetStatus(codes.Ok, "")
	return workshops, nil
}

func (s *workshopService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Get().Warn("failed to invalidate catalog cache", zap.Error(err))
	}
}
