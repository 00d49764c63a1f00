package service

import (
	"context"

	"bookwise/core/constants"
	"bookwise/core/errors"
	"bookwise/core/logger"
	"bookwise/modules/organization/dto"
	"bookwise/modules/organization/entity"
	"bookwise/modules/organization/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type OrganizationService interface {
	Create(ctx context.Context, req *dto.CreateOrganizationRequest) (*entity.Organization, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Organization, *errors.AppError)
	GetBySlug(ctx context.Context, s string) (*entity.Organization, *errors.AppError)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateOrganizationRequest) (*entity.Organization, *errors.AppError)
}

type organizationService struct {
	repo repository.OrganizationRepository
}

func NewOrganizationService(repo repository.OrganizationRepository) OrganizationService {
	return &organizationService{repo: repo}
}

func (s *organizationService) Create(ctx context.Context, req *dto.CreateOrganizationRequest) (*entity.Organization, *errors.AppError) {
	if req.Name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "name is required", nil)
	}

	org := &entity.Organization{
		Name:                req.Name,
		Slug:                slug.Make(req.Name),
		SlotDurationMinutes: req.SlotDurationMinutes,
		BufferMinutes:       req.BufferMinutes,
		AdvanceWindowDays:   req.AdvanceWindowDays,
	}
	if org.SlotDurationMinutes <= 0 {
		org.SlotDurationMinutes = constants.DefaultSlotDurationMinutes
	}
	if org.BufferMinutes < 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "buffer_minutes must not be negative", nil)
	}
	if org.AdvanceWindowDays <= 0 {
		org.AdvanceWindowDays = constants.DefaultAdvanceWindowDays
	}

	// Slug collisions surface as a unique-constraint violation.
	created, err := s.repo.Create(ctx, org)
	if err != nil {
		logger.Error("OrganizationService:Create:Error", "error", err, "name", req.Name)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create organization", err)
	}

	logger.Info("OrganizationService:Create:Success", "org_id", created.ID, "slug", created.Slug)
	return created, nil
}

func (s *organizationService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Organization, *errors.AppError) {
	org, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load organization", err)
	}
	if org == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "organization not found", nil)
	}
	return org, nil
}

func (s *organizationService) GetBySlug(ctx context.Context, sl string) (*entity.Organization, *errors.AppError) {
	org, err := s.repo.GetBySlug(ctx, sl)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load organization", err)
	}
	if org == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "organization not found", nil)
	}
	return org, nil
}

func (s *organizationService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateOrganizationRequest) (*entity.Organization, *errors.AppError) {
	org, appErr := s.GetByID(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	if req.Name != nil && *req.Name != "" {
		org.Name = *req.Name
	}
	if req.SlotDurationMinutes != nil {
		if *req.SlotDurationMinutes <= 0 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "slot_duration_minutes must be positive", nil)
		}
		org.SlotDurationMinutes = *req.SlotDurationMinutes
	}
	if req.BufferMinutes != nil {
		if *req.BufferMinutes < 0 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "buffer_minutes must not be negative", nil)
		}
		org.BufferMinutes = *req.BufferMinutes
	}
	if req.AdvanceWindowDays != nil {
		if *req.AdvanceWindowDays < 1 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "advance_window_days must be at least 1", nil)
		}
		org.AdvanceWindowDays = *req.AdvanceWindowDays
	}

	if err := s.repo.Update(ctx, org); err != nil {
		logger.Error("OrganizationService:Update:Error", "error", err, "org_id", id)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update organization", err)
	}
	return org, nil
}

// EffectiveDuration resolves the slot duration for a query: the explicit
// request value wins, then the organization default, then the system default.
func EffectiveDuration(requested int, org *entity.Organization) int {
	if requested > 0 {
		return requested
	}
	if org != nil && org.SlotDurationMinutes > 0 {
		return org.SlotDurationMinutes
	}
	return constants.DefaultSlotDurationMinutes
}
