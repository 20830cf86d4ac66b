package repository

import (
	"context"
	"time"

	"github.com/NTAravind/Eustress/internal/domain"
)

// UserRepository defines persistence operations for users
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *domain.User) error
	// List returns all users newest first, with registration counts
	List(ctx context.Context) ([]*domain.User, error)
	// ListAll returns every user for announcement fan-out
	ListAll(ctx context.Context) ([]*domain.User, error)
	Count(ctx context.Context) (int, error)
}

// WorkshopRepository defines persistence operations for workshops
type WorkshopRepository interface {
	Create(ctx context.Context, w *domain.Workshop) error
	GetByID(ctx context.Context, id string) (*domain.Workshop, error)
	Update(ctx context.Context, w *domain.Workshop) error
	// ListOpen returns open workshops dated at or after the cutoff,
	// soonest first
	ListOpen(ctx context.Context, after time.Time) ([]*domain.Workshop, error)
	// ListAll returns every workshop newest first, with registration counts
	ListAll(ctx context.Context) ([]*domain.Workshop, error)
	// DeleteCascade removes the workshop's registrations and then the
	// workshop inside one transaction
	DeleteCascade(ctx context.Context, id string) error
	Count(ctx context.Context) (int, int, error) // total, open
}

// RegistrationStats aggregates back-office dashboard figures
type RegistrationStats struct {
	Registrations int
	SeatsBooked   int
	Revenue       float64
}

// RegistrationRepository defines persistence operations for registrations.
// Reserve and Cancel own the seat-inventory transaction.
type RegistrationRepository interface {
	// Reserve atomically decrements the workshop's available seats and
	// inserts the registration. Maps shortfalls to ErrInsufficientSeats /
	// ErrRegistrationClosed / ErrWorkshopNotFound and duplicate
	// (user, workshop) pairs to ErrAlreadyRegistered.
	Reserve(ctx context.Context, reg *domain.Registration) error
	// Cancel atomically deletes the registration and restores its seats
	Cancel(ctx context.Context, userID, workshopID string) error

	GetByID(ctx context.Context, id string) (*domain.Registration, error)
	GetByUserAndWorkshop(ctx context.Context, userID, workshopID string) (*domain.Registration, error)
	// ListAll returns every registration newest first with user and
	// workshop summaries attached
	ListAll(ctx context.Context) ([]*domain.Registration, error)
	// ListByWorkshop returns the workshop's registrations with users
	// attached; onlyCompleted restricts to paid+completed ones
	ListByWorkshop(ctx context.Context, workshopID string, onlyCompleted bool) ([]*domain.Registration, error)
	// ListByIDs returns the named registrations of a workshop with users
	// and workshop attached
	ListByIDs(ctx context.Context, workshopID string, ids []string) ([]*domain.Registration, error)
	UpdatePayment(ctx context.Context, id string, paid *bool, status, method string) (*domain.Registration, error)
	Stats(ctx context.Context) (*RegistrationStats, error)
}
