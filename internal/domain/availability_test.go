package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// 2026-01-07 is a Wednesday.
var wednesday = time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return wednesday.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func wednesdaySchedule(start, end TimeOfDay, slotMinutes int) Schedule {
	return Schedule{
		ID:                  uuid.New(),
		PractitionerID:      uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		DayOfWeek:           3,
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: slotMinutes,
	}
}

func assertSlots(t *testing.T, got []Slot, want ...Slot) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len(slots) = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Start.Equal(want[i].Start) || !got[i].End.Equal(want[i].End) {
			t.Fatalf("slot[%d] = %v-%v, want %v-%v", i, got[i].Start, got[i].End, want[i].Start, want[i].End)
		}
	}
}

func TestTileWindow_CountIsFloorOfLengthOverSize(t *testing.T) {
	tests := []struct {
		name    string
		length  time.Duration
		size    time.Duration
		wantLen int
	}{
		{name: "exact", length: 60 * time.Minute, size: 30 * time.Minute, wantLen: 2},
		{name: "remainder dropped", length: 50 * time.Minute, size: 15 * time.Minute, wantLen: 3},
		{name: "window shorter than slot", length: 10 * time.Minute, size: 15 * time.Minute, wantLen: 0},
		{name: "zero size", length: time.Hour, size: 0, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := at(9, 0)
			end := start.Add(tt.length)
			got := TileWindow(start, end, tt.size)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			for i, s := range got {
				if s.End.After(end) {
					t.Fatalf("slot[%d] ends %v after window end %v", i, s.End, end)
				}
				if i > 0 && !got[i-1].End.Equal(s.Start) {
					t.Fatalf("slot[%d] not contiguous with previous", i)
				}
			}
		})
	}
}

func TestFreeSlots_EmptyCalendar(t *testing.T) {
	s := wednesdaySchedule(NewTimeOfDay(9, 0, 0), NewTimeOfDay(10, 0, 0), 30)

	got := FreeSlots([]Schedule{s}, wednesday, 0, nil)
	assertSlots(t, got,
		Slot{Start: at(9, 0), End: at(9, 30)},
		Slot{Start: at(9, 30), End: at(10, 0)},
	)
}

func TestFreeSlots_BookedSlotRemoved(t *testing.T) {
	s := wednesdaySchedule(NewTimeOfDay(9, 0, 0), NewTimeOfDay(10, 0, 0), 30)
	booked := Reservation{StartTime: at(9, 0), EndTime: at(9, 30), Status: ReservationStatusBooked}

	got := FreeSlots([]Schedule{s}, wednesday, 0, []Reservation{booked})
	assertSlots(t, got, Slot{Start: at(9, 30), End: at(10, 0)})
}

func TestFreeSlots_IgnoresNonOccupyingReservations(t *testing.T) {
	s := wednesdaySchedule(NewTimeOfDay(9, 0, 0), NewTimeOfDay(10, 0, 0), 30)
	rs := []Reservation{
		{StartTime: at(9, 0), EndTime: at(9, 30), Status: ReservationStatusCancelled},
		{StartTime: at(9, 30), EndTime: at(10, 0), Status: ReservationStatusCompleted},
	}

	got := FreeSlots([]Schedule{s}, wednesday, 0, rs)
	if len(got) != 2 {
		t.Fatalf("len(slots) = %d, want 2", len(got))
	}
}

func TestFreeSlots_AdjacentReservationDoesNotBlock(t *testing.T) {
	s := wednesdaySchedule(NewTimeOfDay(9, 0, 0), NewTimeOfDay(10, 0, 0), 30)
	before := Reservation{StartTime: at(8, 30), EndTime: at(9, 0), Status: ReservationStatusConfirmed}
	after := Reservation{StartTime: at(10, 0), EndTime: at(10, 30), Status: ReservationStatusBooked}

	got := FreeSlots([]Schedule{s}, wednesday, 0, []Reservation{before, after})
	if len(got) != 2 {
		t.Fatalf("len(slots) = %d, want 2", len(got))
	}
}

func TestFreeSlots_PartialOverlapBlocksEverySlotItTouches(t *testing.T) {
	s := wednesdaySchedule(NewTimeOfDay(9, 0, 0), NewTimeOfDay(10, 0, 0), 15)
	r := Reservation{StartTime: at(9, 10), EndTime: at(9, 35), Status: ReservationStatusBooked}

	got := FreeSlots([]Schedule{s}, wednesday, 0, []Reservation{r})
	assertSlots(t, got, Slot{Start: at(9, 45), End: at(10, 0)})
}

func TestFreeSlots_OverrideAndDefaultLength(t *testing.T) {
	s := wednesdaySchedule(NewTimeOfDay(9, 0, 0), NewTimeOfDay(10, 0, 0), 0)

	if got := FreeSlots([]Schedule{s}, wednesday, 0, nil); len(got) != 4 {
		t.Fatalf("default length slots = %d, want 4", len(got))
	}
	if got := FreeSlots([]Schedule{s}, wednesday, 20, nil); len(got) != 3 {
		t.Fatalf("override length slots = %d, want 3", len(got))
	}
}

func TestFreeSlots_OverlappingSchedulesAreNotMerged(t *testing.T) {
	first := wednesdaySchedule(NewTimeOfDay(9, 0, 0), NewTimeOfDay(10, 0, 0), 30)
	second := wednesdaySchedule(NewTimeOfDay(9, 30, 0), NewTimeOfDay(10, 30, 0), 30)

	got := FreeSlots([]Schedule{first, second}, wednesday, 0, nil)
	assertSlots(t, got,
		Slot{Start: at(9, 0), End: at(9, 30)},
		Slot{Start: at(9, 30), End: at(10, 0)},
		Slot{Start: at(9, 30), End: at(10, 0)},
		Slot{Start: at(10, 0), End: at(10, 30)},
	)
}

func TestFreeSlots_AnchorsToUTCDate(t *testing.T) {
	s := wednesdaySchedule(NewTimeOfDay(9, 0, 0), NewTimeOfDay(9, 30, 0), 30)
	loc := time.FixedZone("UTC+10", 10*3600)
	// Same instant as 2026-01-07T00:00Z, expressed in a zone where it is 10:00 local.
	local := wednesday.In(loc)

	got := FreeSlots([]Schedule{s}, local, 0, nil)
	assertSlots(t, got, Slot{Start: at(9, 0), End: at(9, 30)})
}

func TestShiftSlots_SubtractsOffset(t *testing.T) {
	slots := []Slot{{Start: at(9, 0), End: at(9, 30)}}

	got := ShiftSlots(slots, 120)
	assertSlots(t, got, Slot{Start: at(7, 0), End: at(7, 30)})

	got = ShiftSlots(slots, -60)
	assertSlots(t, got, Slot{Start: at(10, 0), End: at(10, 30)})

	if !slots[0].Start.Equal(at(9, 0)) {
		t.Fatalf("input mutated: %v", slots[0].Start)
	}
}

func TestPage(t *testing.T) {
	slots := TileWindow(at(9, 0), at(10, 0), 10*time.Minute)

	tests := []struct {
		name    string
		offset  int
		limit   int
		wantLen int
		first   time.Time
	}{
		{name: "no cap", offset: 0, limit: -1, wantLen: 6, first: at(9, 0)},
		{name: "offset only", offset: 4, limit: -1, wantLen: 2, first: at(9, 40)},
		{name: "offset and limit", offset: 1, limit: 2, wantLen: 2, first: at(9, 10)},
		{name: "limit past end", offset: 5, limit: 10, wantLen: 1, first: at(9, 50)},
		{name: "offset past end", offset: 9, limit: 2, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Page(slots, tt.offset, tt.limit)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if tt.wantLen > 0 && !got[0].Start.Equal(tt.first) {
				t.Fatalf("first = %v, want %v", got[0].Start, tt.first)
			}
		})
	}
}
