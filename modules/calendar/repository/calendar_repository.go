package repository

import (
	"context"
	"database/sql"

	"bookwise/core/database"
	"bookwise/core/logger"
	"bookwise/modules/calendar/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CalendarRepository interface {
	CreateConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error)
	GetActiveByPerson(ctx context.Context, personID uuid.UUID) (*entity.CalendarConnection, error)
	GetActiveByPersons(ctx context.Context, personIDs []uuid.UUID) ([]entity.CalendarConnection, error)
	UpdateTokens(ctx context.Context, conn *entity.CalendarConnection) error
	Deactivate(ctx context.Context, personID uuid.UUID) error
}

type calendarRepository struct {
	db database.IDatabase
}

func NewCalendarRepository(db database.IDatabase) CalendarRepository {
	return &calendarRepository{db: db}
}

func (r *calendarRepository) CreateConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error) {
	query := `
		INSERT INTO calendar_connections (person_id, provider, calendar_id, access_token, refresh_token, token_expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		conn.PersonID, conn.Provider, conn.CalendarID,
		conn.AccessToken, conn.RefreshToken, conn.TokenExpiresAt, conn.IsActive,
	).Scan(&conn.ID, &conn.CreatedAt, &conn.UpdatedAt)
	if err != nil {
		logger.Error("CalendarRepository:CreateConnection:Error", "error", err)
		return nil, err
	}
	return conn, nil
}

func (r *calendarRepository) GetActiveByPerson(ctx context.Context, personID uuid.UUID) (*entity.CalendarConnection, error) {
	query := `
		SELECT id, person_id, provider, calendar_id, access_token, refresh_token, token_expires_at, is_active, created_at, updated_at
		FROM calendar_connections
		WHERE person_id = $1 AND is_active = true
	`
	var conn entity.CalendarConnection
	err := r.db.GetContext(ctx, &conn, query, personID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetActiveByPerson:Error", "error", err)
		return nil, err
	}
	return &conn, nil
}

// GetActiveByPersons loads bindings for the whole person set in one query;
// the busy aggregator restricts its free/busy batch to this result.
func (r *calendarRepository) GetActiveByPersons(ctx context.Context, personIDs []uuid.UUID) ([]entity.CalendarConnection, error) {
	if len(personIDs) == 0 {
		return []entity.CalendarConnection{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, person_id, provider, calendar_id, access_token, refresh_token, token_expires_at, is_active, created_at, updated_at
		FROM calendar_connections
		WHERE person_id IN (?) AND is_active = true
	`, personIDs)
	if err != nil {
		return nil, err
	}
	query = r.db.SQLx().Rebind(query)

	var conns []entity.CalendarConnection
	if err := r.db.SelectContext(ctx, &conns, query, args...); err != nil {
		logger.Error("CalendarRepository:GetActiveByPersons:Error", "error", err)
		return nil, err
	}
	return conns, nil
}

func (r *calendarRepository) UpdateTokens(ctx context.Context, conn *entity.CalendarConnection) error {
	query := `
		UPDATE calendar_connections
		SET access_token = $2, refresh_token = $3, token_expires_at = $4, updated_at = NOW()
		WHERE id = $1
	`
	err := r.db.ExecContext(ctx, query,
		conn.ID, conn.AccessToken, conn.RefreshToken, conn.TokenExpiresAt)
	if err != nil {
		logger.Error("CalendarRepository:UpdateTokens:Error", "error", err, "connection_id", conn.ID)
		return err
	}
	return nil
}

func (r *calendarRepository) Deactivate(ctx context.Context, personID uuid.UUID) error {
	query := `UPDATE calendar_connections SET is_active = false, updated_at = NOW() WHERE person_id = $1`
	err := r.db.ExecContext(ctx, query, personID)
	if err != nil {
		logger.Error("CalendarRepository:Deactivate:Error", "error", err, "person_id", personID)
		return err
	}
	return nil
}
