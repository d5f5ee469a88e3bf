package domain

import "time"

type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TileWindow cuts [start, end) into back-to-back slots of length size.
// A trailing remainder shorter than size is dropped.
func TileWindow(start, end time.Time, size time.Duration) []Slot {
	if size <= 0 || !start.Before(end) {
		return nil
	}
	out := make([]Slot, 0, int(end.Sub(start)/size))
	for t := start; ; {
		next := t.Add(size)
		if next.After(end) {
			break
		}
		out = append(out, Slot{Start: t, End: next})
		t = next
	}
	return out
}

// FreeSlots tiles every schedule on the UTC date of date independently, in
// the order given, and keeps the candidates no occupying reservation
// overlaps. overrideMinutes <= 0 means each schedule uses its own length.
func FreeSlots(schedules []Schedule, date time.Time, overrideMinutes int, reservations []Reservation) []Slot {
	busy := make([]Reservation, 0, len(reservations))
	for _, r := range reservations {
		if r.Occupying() {
			busy = append(busy, r)
		}
	}

	var out []Slot
	for _, s := range schedules {
		winStart, winEnd := s.Window(date)
		for _, slot := range TileWindow(winStart, winEnd, s.SlotLength(overrideMinutes)) {
			if !slotTaken(slot, busy) {
				out = append(out, slot)
			}
		}
	}
	return out
}

func slotTaken(slot Slot, busy []Reservation) bool {
	for _, r := range busy {
		if r.Overlaps(slot.Start, slot.End) {
			return true
		}
	}
	return false
}

// ShiftSlots subtracts utcOffsetMinutes from every boundary. This is a
// display convenience for a caller's fixed offset, not a zone conversion.
func ShiftSlots(slots []Slot, utcOffsetMinutes int) []Slot {
	if utcOffsetMinutes == 0 {
		return slots
	}
	shift := -time.Duration(utcOffsetMinutes) * time.Minute
	out := make([]Slot, len(slots))
	for i, s := range slots {
		out[i] = Slot{Start: s.Start.Add(shift), End: s.End.Add(shift)}
	}
	return out
}

// Page returns slots[offset:offset+limit] clamped to bounds. limit < 0
// means no cap.
func Page(slots []Slot, offset, limit int) []Slot {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(slots) {
		return []Slot{}
	}
	end := len(slots)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return slots[offset:end]
}
