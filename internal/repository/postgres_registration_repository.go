package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/NTAravind/Eustress/internal/domain"
	"github.com/NTAravind/Eustress/internal/telemetry"
)

// PostgresRegistrationRepository implements RegistrationRepository using
// PostgreSQL. Seat inventory lives on the workshops row, so Reserve and
// Cancel run the decrement/restore and the registration write in one
// transaction.
type PostgresRegistrationRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRegistrationRepository creates a new PostgresRegistrationRepository
func NewPostgresRegistrationRepository(pool *pgxpool.Pool) *PostgresRegistrationRepository {
	return &PostgresRegistrationRepository{pool: pool}
}

// Reserve atomically takes seats from the workshop and records the
// registration. The conditional UPDATE is the concurrency control: two
// racing buyers both decrement, but only while seats remain, and the
// seat-bounds CHECK constraint backstops it.
func (r *PostgresRegistrationRepository) Reserve(ctx context.Context, reg *domain.Registration) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.registration.reserve")
	defer span.End()

	span.SetAttributes(
		attribute.String("workshop_id", reg.WorkshopID),
		attribute.String("user_id", reg.UserID),
		attribute.Int("seats", reg.Seats),
	)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE workshops
		SET available_seats = available_seats - $2, updated_at = now()
		WHERE id = $1 AND is_open AND available_seats >= $2
	`, reg.WorkshopID, reg.Seats)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to reserve seats: %w", err)
	}

	if result.RowsAffected() == 0 {
		reason := r.diagnoseShortfall(ctx, tx, reg.WorkshopID, reg.Seats)
		span.SetStatus(codes.Error, reason.Error())
		return reason
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO registrations (
			id, user_id, workshop_id, seats,
			payment_method, payment_status, paid, price_paid,
			payment_id, gateway_order_id, registered_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		reg.ID,
		reg.UserID,
		reg.WorkshopID,
		reg.Seats,
		reg.PaymentMethod,
		reg.PaymentStatus,
		reg.Paid,
		reg.PricePaid,
		nullString(reg.PaymentID),
		nullString(reg.GatewayOrderID),
		reg.RegisteredAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			span.SetStatus(codes.Error, "already registered")
			return domain.ErrAlreadyRegistered
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to insert registration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// diagnoseShortfall explains why the conditional decrement matched nothing
func (r *PostgresRegistrationRepository) diagnoseShortfall(ctx context.Context, tx pgx.Tx, workshopID string, seats int) error {
	var isOpen bool
	var available int
	err := tx.QueryRow(ctx,
		"SELECT is_open, available_seats FROM workshops WHERE id = $1",
		workshopID,
	).Scan(&isOpen, &available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrWorkshopNotFound
		}
		return fmt.Errorf("failed to inspect workshop: %w", err)
	}
	if !isOpen {
		return domain.ErrRegistrationClosed
	}
	if available < seats {
		return domain.ErrInsufficientSeats
	}
	// The workshop looks bookable now, so the decrement lost a race.
	return domain.ErrInsufficientSeats
}

// Cancel deletes the registration and hands its seats back
func (r *PostgresRegistrationRepository) Cancel(ctx context.Context, userID, workshopID string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.registration.cancel")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("workshop_id", workshopID),
	)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var seats int
	err = tx.QueryRow(ctx, `
		DELETE FROM registrations
		WHERE user_id = $1 AND workshop_id = $2
		RETURNING seats
	`, userID, workshopID).Scan(&seats)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return domain.ErrRegistrationNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete registration: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE workshops
		SET available_seats = LEAST(available_seats + $2, total_seats), updated_at = now()
		WHERE id = $1
	`, workshopID, seats)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to restore seats: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	span.SetAttributes(attribute.Int("seats_restored", seats))
	span.SetStatus(codes.Ok, "")
	return nil
}

const registrationColumns = `
	id, user_id, workshop_id, seats,
	payment_method, payment_status, paid, price_paid,
	payment_id, gateway_order_id, registered_at
`

func scanRegistration(row pgx.Row) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var paymentID, gatewayOrderID *string
	err := row.Scan(
		&reg.ID,
		&reg.UserID,
		&reg.WorkshopID,
		&reg.Seats,
		&reg.PaymentMethod,
		&reg.PaymentStatus,
		&reg.Paid,
		&reg.PricePaid,
		&paymentID,
		&gatewayOrderID,
		&reg.RegisteredAt,
	)
	if err != nil {
		return nil, err
	}
	if paymentID != nil {
		reg.PaymentID = *paymentID
	}
	if gatewayOrderID != nil {
		reg.GatewayOrderID = *gatewayOrderID
	}
	return reg, nil
}

// GetByID retrieves a registration by ID
func (r *PostgresRegistrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.registration.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("registration_id", id))

	row := r.pool.QueryRow(ctx,
		"SELECT "+registrationColumns+" FROM registrations WHERE id = $1", id)
	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrRegistrationNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return reg, nil
}

// GetByUserAndWorkshop retrieves the user's registration for a workshop
func (r *PostgresRegistrationRepository) GetByUserAndWorkshop(ctx context.Context, userID, workshopID string) (*domain.Registration, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.registration.get_by_user_and_workshop")
	defer span.End()

	row := r.pool.QueryRow(ctx,
		"SELECT "+registrationColumns+" FROM registrations WHERE user_id = $1 AND workshop_id = $2",
		userID, workshopID)
	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrRegistrationNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return reg, nil
}

const registrationJoinColumns = `
	r.id, r.user_id, r.workshop_id, r.seats,
	r.payment_method, r.payment_status, r.paid, r.price_paid,
	r.payment_id, r.gateway_order_id, r.registered_at,
	u.email, u.name, u.phone,
	w.title, w.date, w.time, w.location
`

func scanRegistrationJoined(rows pgx.Rows) (*domain.Registration, error) {
	reg := &domain.Registration{}
	user := &domain.User{}
	workshop := &domain.Workshop{}
	var paymentID, gatewayOrderID, name, phone *string
	err := rows.Scan(
		&reg.ID,
		&reg.UserID,
		&reg.WorkshopID,
		&reg.Seats,
		&reg.PaymentMethod,
		&reg.PaymentStatus,
		&reg.Paid,
		&reg.PricePaid,
		&paymentID,
		&gatewayOrderID,
		&reg.RegisteredAt,
		&user.Email,
		&name,
		&phone,
		&workshop.Title,
		&workshop.Date,
		&workshop.Time,
		&workshop.Location,
	)
	if err != nil {
		return nil, err
	}
	if paymentID != nil {
		reg.PaymentID = *paymentID
	}
	if gatewayOrderID != nil {
		reg.GatewayOrderID = *gatewayOrderID
	}
	if name != nil {
		user.Name = *name
	}
	if phone != nil {
		user.Phone = *phone
	}
	user.ID = reg.UserID
	workshop.ID = reg.WorkshopID
	reg.User = user
	reg.Workshop = workshop
	return reg, nil
}

func (r *PostgresRegistrationRepository) queryJoined(ctx context.Context, query string, args ...any) ([]*domain.Registration, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations: %w", err)
	}
	defer rows.Close()

	var regs []*domain.Registration
	for rows.Next() {
		reg, err := scanRegistrationJoined(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registrations: %w", err)
	}
	return regs, nil
}

// ListAll returns every registration newest first with user and workshop
// summaries attached
func (r *PostgresRegistrationRepository) ListAll(ctx context.Context) ([]*domain.Registration, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.registration.list_all")
	defer span.End()

	regs, err := r.queryJoined(ctx, `
		SELECT `+registrationJoinColumns+`
		FROM registrations r
		JOIN users u ON u.id = r.user_id
		JOIN workshops w ON w.id = r.workshop_id
		ORDER BY r.registered_at DESC
	`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(regs)))
	span.SetStatus(codes.Ok, "")
	return regs, nil
}

// ListByWorkshop returns the workshop's registrations with users attached.
// onlyCompleted restricts the result to paid, completed registrations,
// which is the notification audience.
func (r *PostgresRegistrationRepository) ListByWorkshop(ctx context.Context, workshopID string, onlyCompleted bool) ([]*domain.Registration, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.registration.list_by_workshop")
	defer span.End()

	span.SetAttributes(
		attribute.String("workshop_id", workshopID),
		attribute.Bool("only_completed", onlyCompleted),
	)

	query := `
		SELECT ` + registrationJoinColumns + `
		FROM registrations r
		JOIN users u ON u.id = r.user_id
		JOIN workshops w ON w.id = r.workshop_id
		WHERE r.workshop_id = $1
	`
	if onlyCompleted {
		query += " AND r.paid AND r.payment_status = 'completed'"
	}
	query += " ORDER BY r.registered_at DESC"

	regs, err := r.queryJoined(ctx, query, workshopID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(regs)))
	span.SetStatus(codes.Ok, "")
	return regs, nil
}

// ListByIDs returns the named registrations of a workshop with users and
// workshop attached. IDs outside the workshop are ignored.
func (r *PostgresRegistrationRepository) ListByIDs(ctx context.Context, workshopID string, ids []string) ([]*domain.Registration, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.registration.list_by_ids")
	defer span.End()

	span.SetAttributes(
		attribute.String("workshop_id", workshopID),
		attribute.Int("requested", len(ids)),
	)

	if len(ids) == 0 {
		span.SetStatus(codes.Ok, "")
		return nil, nil
	}

	regs, err := r.queryJoined(ctx, `
		SELECT `+registrationJoinColumns+`
		FROM registrations r
		JOIN users u ON u.id = r.user_id
		JOIN workshops w ON w.id = r.workshop_id
		WHERE r.workshop_id = $1 AND r.id = ANY($2)
		ORDER BY r.registered_at DESC
	`, workshopID, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(regs)))
	span.SetStatus(codes.Ok, "")
	return regs, nil
}

// UpdatePayment patches the registration's payment fields. A nil paid
// leaves the flag untouched; empty status or method are likewise kept.
func (r *PostgresRegistrationRepository) UpdatePayment(ctx context.Context, id string, paid *bool, status, method string) (*domain.Registration, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.registration.update_payment")
	defer span.End()

	span.SetAttributes(attribute.String("registration_id", id))

	row := r.pool.QueryRow(ctx, `
		UPDATE registrations SET
			paid = COALESCE($2, paid),
			payment_status = COALESCE(NULLIF($3, ''), payment_status),
			payment_method = COALESCE(NULLIF($4, ''), payment_method)
		WHERE id = $1
		RETURNING `+registrationColumns+`
	`, id, paid, status, method)

	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrRegistrationNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return reg, nil
}

// Stats aggregates dashboard figures over completed payments
func (r *PostgresRegistrationRepository) Stats(ctx context.Context) (*RegistrationStats, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.registration.stats")
	defer span.End()

	stats := &RegistrationStats{}
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(seats), 0),
		       COALESCE(SUM(price_paid) FILTER (WHERE paid AND payment_status = 'completed'), 0)
		FROM registrations
	`).Scan(&stats.Registrations, &stats.SeatsBooked, &stats.Revenue)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return stats, nil
}
