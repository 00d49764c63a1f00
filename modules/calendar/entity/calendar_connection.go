package entity

import (
	"time"

	"bookwise/core/entity"

	"github.com/google/uuid"
)

// CalendarConnection binds a person to an external calendar: the calendar
// identifier plus the credential used to read its busy time. Added and
// removed independently of the person's lifecycle.
type CalendarConnection struct {
	entity.BaseEntity
	PersonID       uuid.UUID `db:"person_id" json:"person_id"`
	Provider       string    `db:"provider" json:"provider"`
	CalendarID     string    `db:"calendar_id" json:"calendar_id"`
	AccessToken    string    `db:"access_token" json:"-"`
	RefreshToken   string    `db:"refresh_token" json:"-"`
	TokenExpiresAt time.Time `db:"token_expires_at" json:"token_expires_at"`
	IsActive       bool      `db:"is_active" json:"is_active"`
}

func (CalendarConnection) TableName() string {
	return "calendar_connections"
}
