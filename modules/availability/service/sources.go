package service

import (
	"context"
	"time"

	"bookwise/core/errors"
	calendardto "bookwise/modules/calendar/dto"
	orgentity "bookwise/modules/organization/entity"
	personentity "bookwise/modules/person/entity"

	"github.com/google/uuid"
)

// The orchestrator reads from the other modules through narrow interfaces
// so each source can be swapped for a fake in tests.

type OrganizationSource interface {
	GetBySlug(ctx context.Context, slug string) (*orgentity.Organization, *errors.AppError)
}

type PersonSource interface {
	ListActiveByOrganization(ctx context.Context, orgID uuid.UUID) ([]personentity.Person, error)
	GetByID(ctx context.Context, id uuid.UUID) (*personentity.Person, error)
}

type RuleSource interface {
	ListActiveByPersons(ctx context.Context, personIDs []uuid.UUID) ([]personentity.AvailabilityRule, error)
}

// BookingSource exposes confirmed bookings as busy time. ConfirmedBusy
// answers one bulk query for the whole person set; ConfirmedCountsByDate
// returns, per person, the number of confirmed bookings on each
// "YYYY-MM-DD" date in the window.
type BookingSource interface {
	ConfirmedBusy(ctx context.Context, personIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID][]BusyInterval, error)
	ConfirmedCountsByDate(ctx context.Context, personIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID]map[string]int, error)
}

// CalendarSource reads external busy windows. Persons missing from the
// result had no readable calendar and count as free.
type CalendarSource interface {
	BusyWindows(ctx context.Context, personIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID][]calendardto.BusyWindow, error)
}
