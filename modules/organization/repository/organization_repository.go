package repository

import (
	"context"
	"database/sql"

	"bookwise/core/database"
	"bookwise/core/logger"
	"bookwise/modules/organization/entity"

	"github.com/google/uuid"
)

type OrganizationRepository interface {
	Create(ctx context.Context, org *entity.Organization) (*entity.Organization, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Organization, error)
	Update(ctx context.Context, org *entity.Organization) error
}

type organizationRepository struct {
	db database.IDatabase
}

func NewOrganizationRepository(db database.IDatabase) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) Create(ctx context.Context, org *entity.Organization) (*entity.Organization, error) {
	query := `
		INSERT INTO organizations (name, slug, slot_duration_minutes, buffer_minutes, advance_window_days)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		org.Name, org.Slug, org.SlotDurationMinutes, org.BufferMinutes, org.AdvanceWindowDays,
	).Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		logger.Error("OrganizationRepository:Create:Error", "error", err)
		return nil, err
	}
	return org, nil
}

func (r *organizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Organization, error) {
	query := `
		SELECT id, name, slug, slot_duration_minutes, buffer_minutes, advance_window_days, created_at, updated_at
		FROM organizations WHERE id = $1
	`
	var org entity.Organization
	err := r.db.GetContext(ctx, &org, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("OrganizationRepository:GetByID:Error", "error", err)
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) GetBySlug(ctx context.Context, slug string) (*entity.Organization, error) {
	query := `
		SELECT id, name, slug, slot_duration_minutes, buffer_minutes, advance_window_days, created_at, updated_at
		FROM organizations WHERE slug = $1
	`
	var org entity.Organization
	err := r.db.GetContext(ctx, &org, query, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("OrganizationRepository:GetBySlug:Error", "error", err)
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) Update(ctx context.Context, org *entity.Organization) error {
	query := `
		UPDATE organizations
		SET name = $2, slot_duration_minutes = $3, buffer_minutes = $4, advance_window_days = $5, updated_at = NOW()
		WHERE id = $1
	`
	err := r.db.ExecContext(ctx, query,
		org.ID, org.Name, org.SlotDurationMinutes, org.BufferMinutes, org.AdvanceWindowDays)
	if err != nil {
		logger.Error("OrganizationRepository:Update:Error", "error", err)
		return err
	}
	return nil
}
