package repository

import (
	"context"
	"time"

	availabilityservice "bookwise/modules/availability/service"

	"github.com/google/uuid"
)

// availabilitySource adapts the booking repository to the busy-time shape
// the availability aggregator consumes.
type availabilitySource struct {
	repo BookingRepository
}

func NewAvailabilitySource(repo BookingRepository) availabilityservice.BookingSource {
	return &availabilitySource{repo: repo}
}

func (s *availabilitySource) ConfirmedBusy(ctx context.Context, personIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID][]availabilityservice.BusyInterval, error) {
	bookings, err := s.repo.ListConfirmedOverlapping(ctx, personIDs, from, to)
	if err != nil {
		return nil, err
	}
	busy := make(map[uuid.UUID][]availabilityservice.BusyInterval, len(personIDs))
	for _, b := range bookings {
		busy[b.PersonID] = append(busy[b.PersonID], availabilityservice.BusyInterval{
			Start: b.StartTime,
			End:   b.EndTime,
		})
	}
	return busy, nil
}

func (s *availabilitySource) ConfirmedCountsByDate(ctx context.Context, personIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID]map[string]int, error) {
	return s.repo.CountConfirmedPerPersonDate(ctx, personIDs, from, to)
}
