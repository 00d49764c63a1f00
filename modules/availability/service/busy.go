package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"bookwise/core/cache"
	"bookwise/core/constants"
	"bookwise/core/logger"

	"github.com/google/uuid"
)

// busyAggregator merges confirmed bookings and external calendar busy
// windows into one list per person, with a short cache in front keyed by
// (person, window). The cache absorbs repeated availability queries for
// the same page without letting entries outlive a booking for long.
type busyAggregator struct {
	bookings  BookingSource
	calendars CalendarSource
	cache     cache.Cache
}

func newBusyAggregator(bookings BookingSource, calendars CalendarSource, c cache.Cache) *busyAggregator {
	return &busyAggregator{bookings: bookings, calendars: calendars, cache: c}
}

func busyCacheKey(personID uuid.UUID, from, to time.Time) string {
	return fmt.Sprintf("busy:%s:%d:%d", personID, from.Unix(), to.Unix())
}

// BusyByPerson returns merged busy intervals for every person in the set,
// sorted by start. External calendar failures degrade to "no external
// busy" for the affected persons; booking data is authoritative and a
// failure there fails the whole call.
func (a *busyAggregator) BusyByPerson(ctx context.Context, personIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID][]BusyInterval, error) {
	result := make(map[uuid.UUID][]BusyInterval, len(personIDs))
	if len(personIDs) == 0 {
		return result, nil
	}

	var misses []uuid.UUID
	for _, id := range personIDs {
		raw, err := a.cache.Get(ctx, busyCacheKey(id, from, to))
		if err != nil {
			if err != cache.ErrCacheMiss {
				logger.Warn("BusyAggregator:CacheGet:Error", "error", err, "person_id", id)
			}
			misses = append(misses, id)
			continue
		}
		var intervals []BusyInterval
		if err := json.Unmarshal([]byte(raw), &intervals); err != nil {
			misses = append(misses, id)
			continue
		}
		result[id] = intervals
	}
	if len(misses) == 0 {
		return result, nil
	}

	booked, err := a.bookings.ConfirmedBusy(ctx, misses, from, to)
	if err != nil {
		logger.Error("BusyAggregator:ConfirmedBusy:Error", "error", err)
		return nil, err
	}

	external, err := a.calendars.BusyWindows(ctx, misses, from, to)
	if err != nil {
		logger.Warn("BusyAggregator:BusyWindows:Degraded", "error", err, "persons", len(misses))
		external = nil
	}

	for _, id := range misses {
		intervals := append([]BusyInterval(nil), booked[id]...)
		for _, w := range external[id] {
			intervals = append(intervals, BusyInterval{Start: w.Start, End: w.End})
		}
		sort.Slice(intervals, func(i, j int) bool {
			return intervals[i].Start.Before(intervals[j].Start)
		})
		result[id] = intervals

		encoded, err := json.Marshal(intervals)
		if err != nil {
			continue
		}
		if err := a.cache.Set(ctx, busyCacheKey(id, from, to), string(encoded),
			constants.BusyCacheTTLSeconds*time.Second); err != nil {
			logger.Warn("BusyAggregator:CacheSet:Error", "error", err, "person_id", id)
		}
	}
	return result, nil
}
