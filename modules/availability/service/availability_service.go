package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"bookwise/core/cache"
	"bookwise/core/errors"
	"bookwise/core/logger"
	orgservice "bookwise/modules/organization/service"
	personentity "bookwise/modules/person/entity"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// expandConcurrency bounds the per-person fan-out during slot computation.
const expandConcurrency = 8

type AvailabilityService interface {
	// ComputeSlots returns every open slot across the organization's active
	// persons within [from, to] (end date inclusive), sorted by start time
	// and attributed with the owning person's identifying fields.
	ComputeSlots(ctx context.Context, orgSlug string, from, to time.Time, durationMinutes int) ([]Slot, *errors.AppError)

	// ComputeAvailableDates returns the "YYYY-MM-DD" dates in the window
	// that likely have at least one open slot. The answer is a fast
	// optimistic screen for calendar pickers: it compares each person's
	// theoretical slot capacity per weekday against their confirmed booking
	// count per date and never consults external calendars, so a listed
	// date can still turn out fully busy when its slots are fetched.
	// durationMinutes is optional and resolves like the slots query.
	ComputeAvailableDates(ctx context.Context, orgSlug string, from, to time.Time, durationMinutes int) ([]string, *errors.AppError)

	// IsSlotAvailable re-derives the single slot from the person's current
	// rules and busy time. Used as the reservation re-check.
	IsSlotAvailable(ctx context.Context, personID uuid.UUID, start, end time.Time, bufferMinutes int) (bool, *errors.AppError)
}

type availabilityService struct {
	orgs    OrganizationSource
	persons PersonSource
	rules   RuleSource
	busy    *busyAggregator
	now     func() time.Time
}

func NewAvailabilityService(orgs OrganizationSource, persons PersonSource, rules RuleSource,
	bookings BookingSource, calendars CalendarSource, c cache.Cache) AvailabilityService {
	return &availabilityService{
		orgs:    orgs,
		persons: persons,
		rules:   rules,
		busy:    newBusyAggregator(bookings, calendars, c),
		now:     time.Now,
	}
}

func (s *availabilityService) ComputeSlots(ctx context.Context, orgSlug string, from, to time.Time, durationMinutes int) ([]Slot, *errors.AppError) {
	logger.Info("AvailabilityService:ComputeSlots:Start", "org", orgSlug, "from", from, "to", to)

	org, appErr := s.orgs.GetBySlug(ctx, orgSlug)
	if appErr != nil {
		return nil, appErr
	}

	now := s.now().UTC()
	from, to = from.UTC(), to.UTC()
	horizon := now.AddDate(0, 0, org.AdvanceWindowDays)
	if to.After(horizon) {
		to = horizon
	}
	// The end date is inclusive: a single-day query has from == to.
	if to.Before(from) {
		return []Slot{}, nil
	}

	duration := orgservice.EffectiveDuration(durationMinutes, org)

	persons, err := s.persons.ListActiveByOrganization(ctx, org.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load persons", err)
	}
	if len(persons) == 0 {
		return []Slot{}, nil
	}

	personIDs := make([]uuid.UUID, len(persons))
	for i, p := range persons {
		personIDs[i] = p.ID
	}

	rules, err := s.rules.ListActiveByPersons(ctx, personIDs)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load availability rules", err)
	}
	rulesByPerson := groupRules(rules)

	// Busy time just outside the window still collides with padded slots,
	// so the aggregation window is widened by the buffer and stretched to
	// the end of the inclusive final day.
	pad := time.Duration(org.BufferMinutes) * time.Minute
	busyByPerson, err := s.busy.BusyByPerson(ctx, personIDs, from.Add(-pad), dayLimit(to).Add(pad))
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to aggregate busy time", err)
	}

	var mu sync.Mutex
	slotsByPerson := make(map[uuid.UUID][]Slot, len(persons))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(expandConcurrency)
	for i := range persons {
		p := persons[i]
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			candidates := ExpandRules(p.ID, rulesByPerson[p.ID], from, to, duration, now)
			kept := FilterSlots(candidates, busyByPerson[p.ID], org.BufferMinutes)
			for j := range kept {
				kept[j].PersonDisplayName = p.DisplayName
				kept[j].PersonEmail = p.Email
			}
			mu.Lock()
			slotsByPerson[p.ID] = kept
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "slot computation cancelled", err)
	}

	// Flatten in person order first so the stable sort keeps a
	// deterministic person order for slots that share a start time.
	merged := make([]Slot, 0, len(personIDs)*4)
	for _, id := range personIDs {
		merged = append(merged, slotsByPerson[id]...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Start.Before(merged[j].Start)
	})

	logger.Info("AvailabilityService:ComputeSlots:Success", "org", orgSlug, "slots", len(merged))
	return merged, nil
}

func (s *availabilityService) ComputeAvailableDates(ctx context.Context, orgSlug string, from, to time.Time, durationMinutes int) ([]string, *errors.AppError) {
	org, appErr := s.orgs.GetBySlug(ctx, orgSlug)
	if appErr != nil {
		return nil, appErr
	}

	now := s.now().UTC()
	from, to = from.UTC(), to.UTC()
	horizon := now.AddDate(0, 0, org.AdvanceWindowDays)
	if to.After(horizon) {
		to = horizon
	}
	if to.Before(from) {
		return []string{}, nil
	}

	persons, err := s.persons.ListActiveByOrganization(ctx, org.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load persons", err)
	}
	if len(persons) == 0 {
		return []string{}, nil
	}

	personIDs := make([]uuid.UUID, len(persons))
	for i, p := range persons {
		personIDs[i] = p.ID
	}

	rules, err := s.rules.ListActiveByPersons(ctx, personIDs)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load availability rules", err)
	}

	duration := orgservice.EffectiveDuration(durationMinutes, org)
	capacity := weekdayCapacity(rules, duration)

	counts, err := s.busy.bookings.ConfirmedCountsByDate(ctx, personIDs, from, to)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to count bookings", err)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var dates []string
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	for !day.After(to) {
		if day.Before(today) {
			day = day.AddDate(0, 0, 1)
			continue
		}
		dateKey := day.Format("2006-01-02")
		weekday := int(day.Weekday())
		for _, id := range personIDs {
			max := capacity[id][weekday]
			if max == 0 {
				continue
			}
			if counts[id][dateKey] < max {
				dates = append(dates, dateKey)
				break
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	if dates == nil {
		dates = []string{}
	}
	return dates, nil
}

func (s *availabilityService) IsSlotAvailable(ctx context.Context, personID uuid.UUID, start, end time.Time, bufferMinutes int) (bool, *errors.AppError) {
	person, err := s.persons.GetByID(ctx, personID)
	if err != nil {
		return false, errors.NewAppError(errors.ErrInternalServer, "failed to load person", err)
	}
	if person == nil || !person.IsActive {
		return false, nil
	}

	start, end = start.UTC(), end.UTC()
	durationMinutes := int(end.Sub(start).Minutes())
	if durationMinutes <= 0 {
		return false, nil
	}

	rules, err := s.rules.ListActiveByPersons(ctx, []uuid.UUID{personID})
	if err != nil {
		return false, errors.NewAppError(errors.ErrInternalServer, "failed to load availability rules", err)
	}

	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	candidates := ExpandRules(personID, rules, dayStart, dayStart, durationMinutes, s.now().UTC())

	var match *Slot
	for i := range candidates {
		if candidates[i].Start.Equal(start) && candidates[i].End.Equal(end) {
			match = &candidates[i]
			break
		}
	}
	if match == nil {
		return false, nil
	}

	pad := time.Duration(bufferMinutes) * time.Minute
	busyByPerson, err := s.busy.BusyByPerson(ctx, []uuid.UUID{personID}, start.Add(-pad), end.Add(pad))
	if err != nil {
		return false, errors.NewAppError(errors.ErrInternalServer, "failed to aggregate busy time", err)
	}

	kept := FilterSlots([]Slot{*match}, busyByPerson[personID], bufferMinutes)
	return len(kept) == 1, nil
}

func groupRules(rules []personentity.AvailabilityRule) map[uuid.UUID][]personentity.AvailabilityRule {
	grouped := make(map[uuid.UUID][]personentity.AvailabilityRule)
	for _, r := range rules {
		grouped[r.PersonID] = append(grouped[r.PersonID], r)
	}
	return grouped
}

// weekdayCapacity computes, per person and weekday, how many slots of the
// given duration the person's rules could theoretically hold.
func weekdayCapacity(rules []personentity.AvailabilityRule, durationMinutes int) map[uuid.UUID][7]int {
	capacity := make(map[uuid.UUID][7]int)
	if durationMinutes <= 0 {
		return capacity
	}
	for _, r := range rules {
		if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
			continue
		}
		anchor := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		start, okStart := clockOn(anchor, r.StartTime)
		end, okEnd := clockOn(anchor, r.EndTime)
		if !okStart || !okEnd || !end.After(start) {
			continue
		}
		minutes := int(end.Sub(start).Minutes())
		days := capacity[r.PersonID]
		days[r.DayOfWeek] += minutes / durationMinutes
		capacity[r.PersonID] = days
	}
	return capacity
}
