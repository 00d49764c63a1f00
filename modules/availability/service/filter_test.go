package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func slot(personID uuid.UUID, start, end time.Time) Slot {
	return Slot{PersonID: personID, Start: start, End: end}
}

func TestFilterSlots(t *testing.T) {
	personID := uuid.New()
	day := utc(2026, time.March, 2, 0, 0)
	at := func(hour, minute int) time.Time {
		return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}

	candidates := []Slot{
		slot(personID, at(9, 0), at(9, 30)),
		slot(personID, at(9, 30), at(10, 0)),
		slot(personID, at(10, 0), at(10, 30)),
	}

	tests := []struct {
		name   string
		busy   []BusyInterval
		buffer int
		want   []time.Time // starts of surviving slots
	}{
		{
			name:   "no busy time keeps everything",
			busy:   nil,
			buffer: 0,
			want:   []time.Time{at(9, 0), at(9, 30), at(10, 0)},
		},
		{
			name:   "busy block covering the morning removes everything",
			busy:   []BusyInterval{{Start: at(8, 0), End: at(12, 0)}},
			buffer: 0,
			want:   nil,
		},
		{
			name:   "partial overlap removes only the touched slot",
			busy:   []BusyInterval{{Start: at(9, 15), End: at(9, 45)}},
			buffer: 0,
			want:   []time.Time{at(10, 0)},
		},
		{
			name: "back-to-back busy does not block adjacent slots without buffer",
			// Busy ends exactly when the first slot starts and resumes
			// exactly when the second ends: half-open, no overlap.
			busy:   []BusyInterval{{Start: at(8, 0), End: at(9, 0)}, {Start: at(9, 30), End: at(10, 0)}},
			buffer: 0,
			want:   []time.Time{at(9, 0), at(10, 0)},
		},
		{
			name:   "buffer pads the slot into the neighbouring meeting",
			busy:   []BusyInterval{{Start: at(10, 0), End: at(10, 30)}},
			buffer: 15,
			want:   []time.Time{at(9, 0)},
		},
		{
			name:   "buffer also pads the leading edge",
			busy:   []BusyInterval{{Start: at(8, 0), End: at(9, 0)}},
			buffer: 15,
			want:   []time.Time{at(9, 30), at(10, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterSlots(candidates, tt.busy, tt.buffer)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d slots, want %d: %v", len(got), len(tt.want), got)
			}
			for i, start := range tt.want {
				if !got[i].Start.Equal(start) {
					t.Errorf("slot %d: got start %v, want %v", i, got[i].Start, start)
				}
			}
		})
	}
}

// Every surviving slot must pass the padded half-open overlap predicate
// against every busy interval, and every removed one must fail it.
func TestFilterSlotsMatchesPredicate(t *testing.T) {
	personID := uuid.New()
	day := utc(2026, time.March, 2, 0, 0)

	var candidates []Slot
	for h := 8; h < 18; h++ {
		for _, m := range []int{0, 30} {
			start := day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
			candidates = append(candidates, slot(personID, start, start.Add(30*time.Minute)))
		}
	}
	busy := []BusyInterval{
		{Start: day.Add(9*time.Hour + 10*time.Minute), End: day.Add(9*time.Hour + 50*time.Minute)},
		{Start: day.Add(12 * time.Hour), End: day.Add(13 * time.Hour)},
		{Start: day.Add(16*time.Hour + 45*time.Minute), End: day.Add(17 * time.Hour)},
	}
	const buffer = 10

	conflicts := func(s Slot) bool {
		pad := buffer * time.Minute
		for _, b := range busy {
			if s.Start.Add(-pad).Before(b.End) && s.End.Add(pad).After(b.Start) {
				return true
			}
		}
		return false
	}

	kept := FilterSlots(candidates, busy, buffer)
	keptSet := make(map[time.Time]bool, len(kept))
	for _, s := range kept {
		if conflicts(s) {
			t.Errorf("kept slot [%v, %v] conflicts with busy time", s.Start, s.End)
		}
		keptSet[s.Start] = true
	}
	for _, s := range candidates {
		if !keptSet[s.Start] && !conflicts(s) {
			t.Errorf("slot [%v, %v] was removed but has no conflict", s.Start, s.End)
		}
	}
}
