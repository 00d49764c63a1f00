package repository

import (
	"context"

	"bookwise/core/database"
	"bookwise/core/logger"
	"bookwise/modules/person/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type RuleRepository interface {
	ListActiveByPersons(ctx context.Context, personIDs []uuid.UUID) ([]entity.AvailabilityRule, error)
	ReplaceForPerson(ctx context.Context, personID uuid.UUID, rules []entity.AvailabilityRule) error
}

type ruleRepository struct {
	db database.IDatabase
}

func NewRuleRepository(db database.IDatabase) RuleRepository {
	return &ruleRepository{db: db}
}

// ListActiveByPersons fetches rules for the whole person set in one query
// so availability computation stays sub-linear in person count.
func (r *ruleRepository) ListActiveByPersons(ctx context.Context, personIDs []uuid.UUID) ([]entity.AvailabilityRule, error) {
	if len(personIDs) == 0 {
		return []entity.AvailabilityRule{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, person_id, day_of_week, start_time, end_time, is_active, created_at, updated_at
		FROM availability_rules
		WHERE person_id IN (?) AND is_active = true
		ORDER BY person_id, day_of_week, start_time
	`, personIDs)
	if err != nil {
		return nil, err
	}
	query = r.db.SQLx().Rebind(query)

	var rules []entity.AvailabilityRule
	if err := r.db.SelectContext(ctx, &rules, query, args...); err != nil {
		logger.Error("RuleRepository:ListActiveByPersons:Error", "error", err)
		return nil, err
	}
	return rules, nil
}

// ReplaceForPerson implements the replace-all lifecycle: schedule edits
// delete every existing rule and insert the new set in one transaction.
func (r *ruleRepository) ReplaceForPerson(ctx context.Context, personID uuid.UUID, rules []entity.AvailabilityRule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("RuleRepository:ReplaceForPerson:Begin:Error", "error", err)
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM availability_rules WHERE person_id = $1`, personID); err != nil {
		logger.Error("RuleRepository:ReplaceForPerson:Delete:Error", "error", err, "person_id", personID)
		return err
	}

	insert := `
		INSERT INTO availability_rules (person_id, day_of_week, start_time, end_time, is_active)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, rule := range rules {
		if _, err := tx.ExecContext(ctx, insert,
			personID, rule.DayOfWeek, rule.StartTime, rule.EndTime, rule.IsActive); err != nil {
			logger.Error("RuleRepository:ReplaceForPerson:Insert:Error", "error", err, "person_id", personID)
			return err
		}
	}

	return tx.Commit()
}
