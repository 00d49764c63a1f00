package entity

import (
	"bookwise/core/entity"

	"github.com/google/uuid"
)

const (
	TypeBookingConfirmed = "booking_confirmed"
	TypeBookingCancelled = "booking_cancelled"

	StatusQueued = "queued"
	StatusFailed = "failed"
)

// Notification records one outbound message. Delivery itself happens on
// the task worker; the row is the audit trail.
type Notification struct {
	entity.BaseEntity
	BookingID uuid.UUID `db:"booking_id" json:"booking_id"`
	Type      string    `db:"type" json:"type"`
	Recipient string    `db:"recipient" json:"recipient"`
	Subject   string    `db:"subject" json:"subject"`
	Body      string    `db:"body" json:"body"`
	Status    string    `db:"status" json:"status"`
}

func (Notification) TableName() string {
	return "notifications"
}
