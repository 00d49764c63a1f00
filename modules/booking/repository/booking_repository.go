package repository

import (
	"context"
	"database/sql"
	goerrors "errors"
	"time"

	"bookwise/core/database"
	"bookwise/core/logger"
	"bookwise/modules/booking/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrSlotTaken reports that the guarded insert found a confirmed booking
// already occupying the requested interval.
var ErrSlotTaken = goerrors.New("slot already taken")

type BookingRepository interface {
	CreateGuarded(ctx context.Context, booking *entity.Booking) (*entity.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	GetByReference(ctx context.Context, reference string) (*entity.Booking, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]entity.Booking, error)
	ListConfirmedOverlapping(ctx context.Context, personIDs []uuid.UUID, from, to time.Time) ([]entity.Booking, error)
	CountConfirmedPerPersonDate(ctx context.Context, personIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID]map[string]int, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) error
	SetExternalEventID(ctx context.Context, id uuid.UUID, eventID string) error
}

type bookingRepository struct {
	db database.IDatabase
}

func NewBookingRepository(db database.IDatabase) BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, reference, person_id, organization_id, start_time, end_time, status,
	visitor_name, visitor_email, visitor_notes, external_event_id, cancellation_reason,
	created_at, updated_at`

// CreateGuarded commits the reservation inside one transaction: it locks
// the person row so concurrent attempts for the same person serialize,
// re-checks for a confirmed overlap, and only then inserts. Two racing
// requests for the same slot cannot both pass the check, so at most one
// commits; the loser gets ErrSlotTaken.
func (r *bookingRepository) CreateGuarded(ctx context.Context, booking *entity.Booking) (*entity.Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("BookingRepository:CreateGuarded:Begin:Error", "error", err)
		return nil, err
	}
	defer tx.Rollback()

	var lockedID uuid.UUID
	err = tx.QueryRowxContext(ctx,
		`SELECT id FROM persons WHERE id = $1 FOR UPDATE`, booking.PersonID).Scan(&lockedID)
	if err != nil {
		logger.Error("BookingRepository:CreateGuarded:Lock:Error", "error", err, "person_id", booking.PersonID)
		return nil, err
	}

	var conflict bool
	err = tx.QueryRowxContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE person_id = $1 AND status = $2
			  AND start_time < $4 AND end_time > $3
		)
	`, booking.PersonID, entity.StatusConfirmed, booking.StartTime, booking.EndTime).Scan(&conflict)
	if err != nil {
		logger.Error("BookingRepository:CreateGuarded:Check:Error", "error", err, "person_id", booking.PersonID)
		return nil, err
	}
	if conflict {
		return nil, ErrSlotTaken
	}

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO bookings (reference, person_id, organization_id, start_time, end_time, status,
			visitor_name, visitor_email, visitor_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, booking.Reference, booking.PersonID, booking.OrganizationID,
		booking.StartTime, booking.EndTime, booking.Status,
		booking.VisitorName, booking.VisitorEmail, booking.VisitorNotes,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		logger.Error("BookingRepository:CreateGuarded:Insert:Error", "error", err, "person_id", booking.PersonID)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("BookingRepository:CreateGuarded:Commit:Error", "error", err)
		return nil, err
	}
	return booking, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := r.db.GetContext(ctx, &booking,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BookingRepository:GetByID:Error", "error", err)
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) GetByReference(ctx context.Context, reference string) (*entity.Booking, error) {
	var booking entity.Booking
	err := r.db.GetContext(ctx, &booking,
		`SELECT `+bookingColumns+` FROM bookings WHERE reference = $1`, reference)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BookingRepository:GetByReference:Error", "error", err)
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE organization_id = $1 AND start_time < $3 AND end_time > $2
		ORDER BY start_time
	`, orgID, from, to)
	if err != nil {
		logger.Error("BookingRepository:ListByOrganization:Error", "error", err, "org_id", orgID)
		return nil, err
	}
	return bookings, nil
}

// ListConfirmedOverlapping answers the busy-time bulk query for the whole
// person set at once. Half-open overlap: end_time > from AND start_time < to.
func (r *bookingRepository) ListConfirmedOverlapping(ctx context.Context, personIDs []uuid.UUID, from, to time.Time) ([]entity.Booking, error) {
	if len(personIDs) == 0 {
		return []entity.Booking{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE person_id IN (?) AND status = ? AND start_time < ? AND end_time > ?
		ORDER BY person_id, start_time
	`, personIDs, entity.StatusConfirmed, to, from)
	if err != nil {
		return nil, err
	}
	query = r.db.SQLx().Rebind(query)

	var bookings []entity.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		logger.Error("BookingRepository:ListConfirmedOverlapping:Error", "error", err)
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) CountConfirmedPerPersonDate(ctx context.Context, personIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID]map[string]int, error) {
	counts := make(map[uuid.UUID]map[string]int)
	if len(personIDs) == 0 {
		return counts, nil
	}

	query, args, err := sqlx.In(`
		SELECT person_id, to_char(start_time AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*) AS total
		FROM bookings
		WHERE person_id IN (?) AND status = ? AND start_time >= ? AND start_time < ?
		GROUP BY person_id, day
	`, personIDs, entity.StatusConfirmed, from, to)
	if err != nil {
		return nil, err
	}
	query = r.db.SQLx().Rebind(query)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("BookingRepository:CountConfirmedPerPersonDate:Error", "error", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var personID uuid.UUID
		var day string
		var total int
		if err := rows.Scan(&personID, &day, &total); err != nil {
			return nil, err
		}
		if counts[personID] == nil {
			counts[personID] = make(map[string]int)
		}
		counts[personID][day] = total
	}
	return counts, rows.Err()
}

func (r *bookingRepository) Cancel(ctx context.Context, id uuid.UUID, reason string) error {
	err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = $2, cancellation_reason = $3, updated_at = NOW()
		WHERE id = $1
	`, id, entity.StatusCancelled, reason)
	if err != nil {
		logger.Error("BookingRepository:Cancel:Error", "error", err, "booking_id", id)
		return err
	}
	return nil
}

func (r *bookingRepository) SetExternalEventID(ctx context.Context, id uuid.UUID, eventID string) error {
	err := r.db.ExecContext(ctx,
		`UPDATE bookings SET external_event_id = $2, updated_at = NOW() WHERE id = $1`, id, eventID)
	if err != nil {
		logger.Error("BookingRepository:SetExternalEventID:Error", "error", err, "booking_id", id)
		return err
	}
	return nil
}
