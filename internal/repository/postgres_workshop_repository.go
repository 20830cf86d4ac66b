package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/NTAravind/Eustress/internal/domain"
	"github.com/NTAravind/Eustress/internal/telemetry"
)

// PostgresWorkshopRepository implements WorkshopRepository using PostgreSQL
type PostgresWorkshopRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresWorkshopRepository creates a new PostgresWorkshopRepository
func NewPostgresWorkshopRepository(pool *pgxpool.Pool) *PostgresWorkshopRepository {
	return &PostgresWorkshopRepository{pool: pool}
}

const workshopColumns = `
	id, title, description, date, time, location,
	total_seats, available_seats, price, discount,
	thumbnail, is_open, created_at, updated_at
`

func scanWorkshop(row pgx.Row) (*domain.Workshop, error) {
	w := &domain.Workshop{}
	err := row.Scan(
		&w.ID,
		&w.Title,
		&w.Description,
		&w.Date,
		&w.Time,
		&w.Location,
		&w.TotalSeats,
		&w.AvailableSeats,
		&w.Price,
		&w.Discount,
		&w.Thumbnail,
		&w.IsOpen,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Create inserts a new workshop
func (r *PostgresWorkshopRepository) Create(ctx context.Context, w *domain.Workshop) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.workshop.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("workshop_id", w.ID),
		attribute.Int("total_seats", w.TotalSeats),
	)

	query := `
		INSERT INTO workshops (` + workshopColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		w.ID,
		w.Title,
		w.Description,
		w.Date,
		w.Time,
		w.Location,
		w.TotalSeats,
		w.AvailableSeats,
		w.Price,
		w.Discount,
		w.Thumbnail,
		w.IsOpen,
		w.CreatedAt,
		w.UpdatedAt,
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create workshop: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves a workshop with its registration count
func (r *PostgresWorkshopRepository) GetByID(ctx context.Context, id string) (*domain.Workshop, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.workshop.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("workshop_id", id))

	query := `
		SELECT w.id, w.title, w.description, w.date, w.time, w.location,
		       w.total_seats, w.available_seats, w.price, w.discount,
		       w.thumbnail, w.is_open, w.created_at, w.updated_at,
		       COUNT(r.id) AS registration_count
		FROM workshops w
		LEFT JOIN registrations r ON r.workshop_id = w.id
		WHERE w.id = $1
		GROUP BY w.id
	`

	w := &domain.Workshop{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&w.ID,
		&w.Title,
		&w.Description,
		&w.Date,
		&w.Time,
		&w.Location,
		&w.TotalSeats,
		&w.AvailableSeats,
		&w.Price,
		&w.Discount,
		&w.Thumbnail,
		&w.IsOpen,
		&w.CreatedAt,
		&w.UpdatedAt,
		&w.RegistrationCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrWorkshopNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get workshop: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return w, nil
}

// Update updates a workshop. Available seats are deliberately left alone:
// editing a workshop must not disturb the live inventory counter.
func (r *PostgresWorkshopRepository) Update(ctx context.Context, w *domain.Workshop) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.workshop.update")
	defer span.End()

	span.SetAttributes(attribute.String("workshop_id", w.ID))

	query := `
		UPDATE workshops SET
			title = $2,
			description = $3,
			date = $4,
			time = $5,
			location = $6,
			total_seats = $7,
			price = $8,
			discount = $9,
			thumbnail = $10,
			is_open = $11,
			updated_at = $12
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		w.ID,
		w.Title,
		w.Description,
		w.Date,
		w.Time,
		w.Location,
		w.TotalSeats,
		w.Price,
		w.Discount,
		w.Thumbnail,
		w.IsOpen,
		time.Now(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update workshop: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrWorkshopNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ListOpen returns open workshops dated at or after the cutoff
func (r *PostgresWorkshopRepository) ListOpen(ctx context.Context, after time.Time) ([]*domain.Workshop, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.workshop.list_open")
	defer span.End()

	query := `
		SELECT ` + workshopColumns + `
		FROM workshops
		WHERE is_open AND date >= $1
		ORDER BY date ASC
	`

	rows, err := r.pool.Query(ctx, query, after)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list open workshops: %w", err)
	}
	defer rows.Close()

	var workshops []*domain.Workshop
	for rows.Next() {
		w, err := scanWorkshop(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan workshop: %w", err)
		}
		workshops = append(workshops, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workshops: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(workshops)))
	span.SetStatus(codes.Ok, "")
	return workshops, nil
}

// ListAll returns every workshop newest first, with registration counts
func (r *PostgresWorkshopRepository) ListAll(ctx context.Context) ([]*domain.Workshop, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.workshop.list_all")
	defer span.End()

	query := `
		SELECT w.id, w.title, w.description, w.date, w.time, w.location,
		       w.total_seats, w.available_seats, w.price, w.discount,
		       w.thumbnail, w.is_open, w.created_at, w.updated_at,
		       COUNT(r.id) AS registration_count
		FROM workshops w
		LEFT JOIN registrations r ON r.workshop_id = w.id
		GROUP BY w.id
		ORDER BY w.date DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list workshops: %w", err)
	}
	defer rows.Close()

	var workshops []*domain.Workshop
	for rows.Next() {
		w := &domain.Workshop{}
		if err := rows.Scan(
			&w.ID,
			&w.Title,
			&w.Description,
			&w.Date,
			&w.Time,
			&w.Location,
			&w.TotalSeats,
			&w.AvailableSeats,
			&w.Price,
			&w.Discount,
			&w.Thumbnail,
			&w.IsOpen,
			&w.CreatedAt,
			&w.UpdatedAt,
			&w.RegistrationCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan workshop: %w", err)
		}
		workshops = append(workshops, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workshops: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(workshops)))
	span.SetStatus(codes.Ok, "")
	return workshops, nil
}

// DeleteCascade removes registrations then the workshop in one transaction
func (r *PostgresWorkshopRepository) DeleteCascade(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.workshop.delete_cascade")
	defer span.End()

	span.SetAttributes(attribute.String("workshop_id", id))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM registrations WHERE workshop_id = $1", id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete registrations: %w", err)
	}

	result, err := tx.Exec(ctx, "DELETE FROM workshops WHERE id = $1", id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete workshop: %w", err)
	}
	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrWorkshopNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Count returns total and open workshop counts
func (r *PostgresWorkshopRepository) Count(ctx context.Context) (int, int, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.workshop.count")
	defer span.End()

	var total, open int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*), COUNT(*) FILTER (WHERE is_open) FROM workshops",
	).Scan(&total, &open)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, 0, fmt.Errorf("failed to count workshops: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return total, open, nil
}
