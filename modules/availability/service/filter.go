package service

import "time"

// FilterSlots removes every candidate that collides with busy time. The
// buffer pads each slot on both sides before testing, so a meeting ending
// at 10:00 blocks a 10:00 slot when the buffer is nonzero but not when it
// is zero: intervals are half-open, touching endpoints do not overlap.
func FilterSlots(candidates []Slot, busy []BusyInterval, bufferMinutes int) []Slot {
	if len(candidates) == 0 {
		return nil
	}
	if len(busy) == 0 && bufferMinutes <= 0 {
		out := make([]Slot, len(candidates))
		copy(out, candidates)
		return out
	}

	pad := time.Duration(bufferMinutes) * time.Minute
	kept := make([]Slot, 0, len(candidates))
	for _, slot := range candidates {
		paddedStart := slot.Start.Add(-pad)
		paddedEnd := slot.End.Add(pad)

		conflict := false
		for _, b := range busy {
			if paddedStart.Before(b.End) && paddedEnd.After(b.Start) {
				conflict = true
				break
			}
		}
		if !conflict {
			kept = append(kept, slot)
		}
	}
	return kept
}
