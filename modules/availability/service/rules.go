package service

import (
	"strconv"
	"strings"
	"time"

	"bookwise/core/constants"
	personentity "bookwise/modules/person/entity"

	"github.com/google/uuid"
)

// Slot is one bookable candidate for one person. Start/End are UTC
// instants; End - Start is always the requested duration. The person's
// identifying fields ride along so a flattened multi-person slot list
// stays attributable; the expansion fills only PersonID, the orchestrator
// attributes the rest.
type Slot struct {
	PersonID          uuid.UUID `json:"person_id"`
	PersonDisplayName string    `json:"person_display_name,omitempty"`
	PersonEmail       string    `json:"person_email,omitempty"`
	Start             time.Time `json:"start"`
	End               time.Time `json:"end"`
}

// BusyInterval is a half-open [Start, End) stretch of occupied time.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ExpandRules turns a person's weekly rules into concrete candidate slots
// over the day range [from, to], end date inclusive: a query for a single
// Monday expands that whole Monday. Slots are laid back to back from the
// rule's start; a slot that would cross the rule's end is not emitted, so
// a 45-minute rule yields one 30-minute slot, not two. Slots starting in
// the past, or less than the minimum lead time from now, are dropped.
// Malformed rules are skipped rather than failing the whole expansion.
func ExpandRules(personID uuid.UUID, rules []personentity.AvailabilityRule, from, to time.Time, durationMinutes int, now time.Time) []Slot {
	if durationMinutes <= 0 || to.Before(from) {
		return nil
	}

	duration := time.Duration(durationMinutes) * time.Minute
	earliest := now.Add(constants.MinLeadTimeMinutes * time.Minute)

	byDay := make(map[time.Weekday][]personentity.AvailabilityRule)
	for _, rule := range rules {
		if rule.DayOfWeek < 0 || rule.DayOfWeek > 6 {
			continue
		}
		day := time.Weekday(rule.DayOfWeek)
		byDay[day] = append(byDay[day], rule)
	}
	if len(byDay) == 0 {
		return nil
	}

	var slots []Slot
	limit := dayLimit(to)
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	for day.Before(limit) {
		for _, rule := range byDay[day.Weekday()] {
			ruleStart, ok := clockOn(day, rule.StartTime)
			if !ok {
				continue
			}
			ruleEnd, ok := clockOn(day, rule.EndTime)
			if !ok || !ruleEnd.After(ruleStart) {
				continue
			}

			for cursor := ruleStart; !cursor.Add(duration).After(ruleEnd); cursor = cursor.Add(duration) {
				if cursor.Before(from) || cursor.Before(earliest) {
					continue
				}
				slots = append(slots, Slot{PersonID: personID, Start: cursor, End: cursor.Add(duration)})
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return slots
}

// dayLimit is the midnight after t's date: the exclusive bound matching
// an inclusive end date.
func dayLimit(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

// clockOn anchors an "HH:mm" wall clock onto a UTC date.
func clockOn(day time.Time, clock string) (time.Time, bool) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return time.Time{}, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC), true
}
