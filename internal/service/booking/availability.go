package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"medbook/backend/internal/domain"
)

const (
	MaxAvailabilityLimit = 500
	MaxUTCOffsetMinutes  = 14 * 60

	maxSlotMinutes = 24 * 60
	DateLayout     = "2006-01-02"
)

type AvailabilityQuery struct {
	PractitionerID uuid.UUID
	// Date is a calendar date in DateLayout, interpreted in UTC.
	Date string
	// SlotMinutes overrides every schedule's slot length when set.
	SlotMinutes *int
	Offset      int
	Limit       *int
	// UTCOffsetMinutes is subtracted from every returned boundary.
	UTCOffsetMinutes int
}

type Availability struct {
	Date   string
	Slots  []domain.Slot
	Total  int
	Offset int
	Limit  *int
}

// GetAvailability returns the free slots of a practitioner on one UTC date.
// Total counts every free slot before Offset and Limit are applied.
func (s *Service) GetAvailability(ctx context.Context, q AvailabilityQuery) (Availability, error) {
	if q.PractitionerID == uuid.Nil {
		return Availability{}, validationError("practitioner_id is required")
	}
	date, err := time.Parse(DateLayout, q.Date)
	if err != nil {
		return Availability{}, validationError("date must be formatted as YYYY-MM-DD")
	}

	override := 0
	if q.SlotMinutes != nil {
		if *q.SlotMinutes < 1 || *q.SlotMinutes > maxSlotMinutes {
			return Availability{}, validationError("slot_minutes must be between 1 and 1440")
		}
		override = *q.SlotMinutes
	}
	if q.Offset < 0 {
		return Availability{}, validationError("offset must not be negative")
	}
	limit := -1
	var echoLimit *int
	if q.Limit != nil {
		if *q.Limit < 1 {
			return Availability{}, validationError("limit must be at least 1")
		}
		limit = min(*q.Limit, MaxAvailabilityLimit)
		echoLimit = &limit
	}
	if q.UTCOffsetMinutes < -MaxUTCOffsetMinutes || q.UTCOffsetMinutes > MaxUTCOffsetMinutes {
		return Availability{}, validationError("utc_offset must be between -840 and 840")
	}

	if _, err := s.practitioners.GetPractitioner(ctx, q.PractitionerID); err != nil {
		return Availability{}, err
	}

	out := Availability{
		Date:   q.Date,
		Slots:  []domain.Slot{},
		Offset: q.Offset,
		Limit:  echoLimit,
	}

	schedules, err := s.schedules.FindSchedulesByPractitionerAndWeekday(ctx, q.PractitionerID, domain.Weekday(date))
	if err != nil {
		return Availability{}, err
	}
	if len(schedules) == 0 {
		return out, nil
	}

	dayStart, dayEnd := domain.DayBounds(date)
	busy, err := s.reservations.FindOccupyingReservationsInWindow(ctx, q.PractitionerID, dayStart, dayEnd)
	if err != nil {
		return Availability{}, err
	}

	free := domain.ShiftSlots(domain.FreeSlots(schedules, date, override, busy), q.UTCOffsetMinutes)
	out.Total = len(free)
	out.Slots = domain.Page(free, q.Offset, limit)
	return out, nil
}
