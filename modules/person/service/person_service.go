package service

import (
	"context"
	"fmt"
	"time"

	"bookwise/core/errors"
	"bookwise/core/logger"
	"bookwise/core/utils"
	"bookwise/modules/person/dto"
	"bookwise/modules/person/entity"
	"bookwise/modules/person/repository"

	"github.com/google/uuid"
)

type PersonService interface {
	Create(ctx context.Context, req *dto.CreatePersonRequest) (*entity.Person, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Person, *errors.AppError)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePersonRequest) (*entity.Person, *errors.AppError)
	Deactivate(ctx context.Context, id uuid.UUID) *errors.AppError
	Reactivate(ctx context.Context, id uuid.UUID) *errors.AppError
	ReplaceRules(ctx context.Context, personID uuid.UUID, req *dto.ReplaceRulesRequest) *errors.AppError
}

type personService struct {
	repo     repository.PersonRepository
	ruleRepo repository.RuleRepository
}

func NewPersonService(repo repository.PersonRepository, ruleRepo repository.RuleRepository) PersonService {
	return &personService{repo: repo, ruleRepo: ruleRepo}
}

func (s *personService) Create(ctx context.Context, req *dto.CreatePersonRequest) (*entity.Person, *errors.AppError) {
	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid organization_id", nil)
	}
	if req.DisplayName == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "display_name is required", nil)
	}
	if !utils.IsValidEmail(req.Email) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid email", nil)
	}

	person := &entity.Person{
		OrganizationID: orgID,
		DisplayName:    req.DisplayName,
		Email:          req.Email,
		IsActive:       true,
	}
	created, err := s.repo.Create(ctx, person)
	if err != nil {
		logger.Error("PersonService:Create:Error", "error", err, "org_id", orgID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create person", err)
	}

	logger.Info("PersonService:Create:Success", "person_id", created.ID, "org_id", orgID)
	return created, nil
}

func (s *personService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Person, *errors.AppError) {
	person, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load person", err)
	}
	if person == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "person not found", nil)
	}
	return person, nil
}

func (s *personService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePersonRequest) (*entity.Person, *errors.AppError) {
	person, appErr := s.GetByID(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	if req.DisplayName != nil && *req.DisplayName != "" {
		person.DisplayName = *req.DisplayName
	}
	if req.Email != nil {
		if !utils.IsValidEmail(*req.Email) {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid email", nil)
		}
		person.Email = *req.Email
	}

	if err := s.repo.Update(ctx, person); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update person", err)
	}
	return person, nil
}

func (s *personService) Deactivate(ctx context.Context, id uuid.UUID) *errors.AppError {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to deactivate person", err)
	}
	logger.Info("PersonService:Deactivate:Success", "person_id", id)
	return nil
}

func (s *personService) Reactivate(ctx context.Context, id uuid.UUID) *errors.AppError {
	if err := s.repo.SetActive(ctx, id, true); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to reactivate person", err)
	}
	logger.Info("PersonService:Reactivate:Success", "person_id", id)
	return nil
}

// ReplaceRules validates the whole incoming schedule before any write.
// Malformed rules are rejected here, synchronously; the expansion code
// never has to handle them.
func (s *personService) ReplaceRules(ctx context.Context, personID uuid.UUID, req *dto.ReplaceRulesRequest) *errors.AppError {
	if _, appErr := s.GetByID(ctx, personID); appErr != nil {
		return appErr
	}

	rules := make([]entity.AvailabilityRule, 0, len(req.Rules))
	for i, in := range req.Rules {
		if appErr := ValidateRule(in); appErr != nil {
			return errors.NewAppError(errors.ErrInvalidInput,
				fmt.Sprintf("rule %d: %s", i, appErr.Message), nil)
		}
		rules = append(rules, entity.AvailabilityRule{
			PersonID:  personID,
			DayOfWeek: in.DayOfWeek,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
			IsActive:  true,
		})
	}

	if err := s.ruleRepo.ReplaceForPerson(ctx, personID, rules); err != nil {
		logger.Error("PersonService:ReplaceRules:Error", "error", err, "person_id", personID)
		return errors.NewAppError(errors.ErrInternalServer, "failed to replace rules", err)
	}

	logger.Info("PersonService:ReplaceRules:Success", "person_id", personID, "rule_count", len(rules))
	return nil
}

// ValidateRule enforces the write-time invariants: weekday in range,
// parseable HH:mm times, start strictly before end.
func ValidateRule(in dto.RuleInput) *errors.AppError {
	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		return errors.NewAppError(errors.ErrInvalidInput, "day_of_week must be between 0 and 6", nil)
	}
	start, err := time.Parse("15:04", in.StartTime)
	if err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "start_time must be HH:mm", nil)
	}
	end, err := time.Parse("15:04", in.EndTime)
	if err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "end_time must be HH:mm", nil)
	}
	if !end.After(start) {
		return errors.NewAppError(errors.ErrInvalidInput, "start_time must be before end_time", nil)
	}
	return nil
}
