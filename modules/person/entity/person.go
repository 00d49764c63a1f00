package entity

import (
	"bookwise/core/entity"

	"github.com/google/uuid"
)

// Person is a bookable member of an organization. People are deactivated,
// never deleted, so history stays attributable.
type Person struct {
	entity.BaseEntity
	OrganizationID uuid.UUID `db:"organization_id" json:"organization_id"`
	DisplayName    string    `db:"display_name" json:"display_name"`
	Email          string    `db:"email" json:"email"`
	IsActive       bool      `db:"is_active" json:"is_active"`
}

func (Person) TableName() string {
	return "persons"
}
