package entity

import (
	"bookwise/core/entity"

	"github.com/google/uuid"
)

// AvailabilityRule is one weekly recurring window for a person.
// StartTime/EndTime are "HH:mm" wall clock, interpreted in UTC when
// expanding to slots. A person may hold several rules per weekday;
// overlap between them is resolved downstream, not here.
type AvailabilityRule struct {
	entity.BaseEntity
	PersonID  uuid.UUID `db:"person_id" json:"person_id"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"` // 0 = Sunday
	StartTime string    `db:"start_time" json:"start_time"`   // "HH:mm"
	EndTime   string    `db:"end_time" json:"end_time"`       // "HH:mm"
	IsActive  bool      `db:"is_active" json:"is_active"`
}

func (AvailabilityRule) TableName() string {
	return "availability_rules"
}
