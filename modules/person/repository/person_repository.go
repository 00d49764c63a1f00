package repository

import (
	"context"
	"database/sql"

	"bookwise/core/database"
	"bookwise/core/logger"
	"bookwise/modules/person/entity"

	"github.com/google/uuid"
)

type PersonRepository interface {
	Create(ctx context.Context, person *entity.Person) (*entity.Person, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Person, error)
	ListActiveByOrganization(ctx context.Context, orgID uuid.UUID) ([]entity.Person, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Update(ctx context.Context, person *entity.Person) error
}

type personRepository struct {
	db database.IDatabase
}

func NewPersonRepository(db database.IDatabase) PersonRepository {
	return &personRepository{db: db}
}

func (r *personRepository) Create(ctx context.Context, person *entity.Person) (*entity.Person, error) {
	query := `
		INSERT INTO persons (organization_id, display_name, email, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		person.OrganizationID, person.DisplayName, person.Email, person.IsActive,
	).Scan(&person.ID, &person.CreatedAt, &person.UpdatedAt)
	if err != nil {
		logger.Error("PersonRepository:Create:Error", "error", err)
		return nil, err
	}
	return person, nil
}

func (r *personRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Person, error) {
	query := `
		SELECT id, organization_id, display_name, email, is_active, created_at, updated_at
		FROM persons WHERE id = $1
	`
	var person entity.Person
	err := r.db.GetContext(ctx, &person, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("PersonRepository:GetByID:Error", "error", err)
		return nil, err
	}
	return &person, nil
}

// ListActiveByOrganization loads every bookable person for an organization
// in one query. The availability orchestrator fans out from this set.
func (r *personRepository) ListActiveByOrganization(ctx context.Context, orgID uuid.UUID) ([]entity.Person, error) {
	query := `
		SELECT id, organization_id, display_name, email, is_active, created_at, updated_at
		FROM persons
		WHERE organization_id = $1 AND is_active = true
		ORDER BY created_at
	`
	var persons []entity.Person
	err := r.db.SelectContext(ctx, &persons, query, orgID)
	if err != nil {
		logger.Error("PersonRepository:ListActiveByOrganization:Error", "error", err, "org_id", orgID)
		return nil, err
	}
	return persons, nil
}

func (r *personRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE persons SET is_active = $2, updated_at = NOW() WHERE id = $1`
	err := r.db.ExecContext(ctx, query, id, active)
	if err != nil {
		logger.Error("PersonRepository:SetActive:Error", "error", err, "person_id", id)
		return err
	}
	return nil
}

func (r *personRepository) Update(ctx context.Context, person *entity.Person) error {
	query := `
		UPDATE persons
		SET display_name = $2, email = $3, updated_at = NOW()
		WHERE id = $1
	`
	err := r.db.ExecContext(ctx, query, person.ID, person.DisplayName, person.Email)
	if err != nil {
		logger.Error("PersonRepository:Update:Error", "error", err, "person_id", person.ID)
		return err
	}
	return nil
}
