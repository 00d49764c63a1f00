package entity

import (
	"time"

	"bookwise/core/entity"

	"github.com/google/uuid"
)

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Booking is one confirmed reservation of a slot. Times are UTC instants.
// OrganizationID is denormalized from the person so organization-scoped
// listings skip a join. Reference is the short public identifier visitors
// quote; ExternalEventID links the mirrored calendar event when one was
// created.
type Booking struct {
	entity.BaseEntity
	Reference          string    `db:"reference" json:"reference"`
	PersonID           uuid.UUID `db:"person_id" json:"person_id"`
	OrganizationID     uuid.UUID `db:"organization_id" json:"organization_id"`
	StartTime          time.Time `db:"start_time" json:"start_time"`
	EndTime            time.Time `db:"end_time" json:"end_time"`
	Status             string    `db:"status" json:"status"`
	VisitorName        string    `db:"visitor_name" json:"visitor_name"`
	VisitorEmail       string    `db:"visitor_email" json:"visitor_email"`
	VisitorNotes       string    `db:"visitor_notes" json:"visitor_notes"`
	ExternalEventID    *string   `db:"external_event_id" json:"external_event_id,omitempty"`
	CancellationReason *string   `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}
