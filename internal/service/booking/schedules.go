package booking

import (
	"context"

	"github.com/google/uuid"

	"medbook/backend/internal/domain"
)

const (
	minScheduleSlotMinutes = 5
	maxScheduleSlotMinutes = 240
)

type CreateScheduleInput struct {
	DayOfWeek           int
	StartTime           string
	EndTime             string
	SlotDurationMinutes *int
}

// UpdateScheduleInput carries a partial update; nil fields keep their value.
type UpdateScheduleInput struct {
	DayOfWeek           *int
	StartTime           *string
	EndTime             *string
	SlotDurationMinutes *int
}

func (s *Service) CreateSchedule(ctx context.Context, actor domain.Actor, in CreateScheduleInput) (domain.Schedule, error) {
	start, err := parseScheduleTime("start_time", in.StartTime)
	if err != nil {
		return domain.Schedule{}, err
	}
	end, err := parseScheduleTime("end_time", in.EndTime)
	if err != nil {
		return domain.Schedule{}, err
	}
	slot := domain.DefaultSlotMinutes
	if in.SlotDurationMinutes != nil {
		if err := validateSlotMinutes(*in.SlotDurationMinutes); err != nil {
			return domain.Schedule{}, err
		}
		slot = *in.SlotDurationMinutes
	}
	sched := domain.Schedule{
		DayOfWeek:           in.DayOfWeek,
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: slot,
	}
	if err := sched.Validate(); err != nil {
		return domain.Schedule{}, validationError(err.Error())
	}

	p, err := s.practiceOf(ctx, actor)
	if err != nil {
		return domain.Schedule{}, err
	}
	sched.PractitionerID = p.ID
	return s.schedules.CreateSchedule(ctx, sched)
}

// UpdateSchedule applies a partial update to a schedule the actor owns.
func (s *Service) UpdateSchedule(ctx context.Context, actor domain.Actor, id uuid.UUID, in UpdateScheduleInput) (domain.Schedule, error) {
	if id == uuid.Nil {
		return domain.Schedule{}, validationError("schedule_id is required")
	}
	if in.DayOfWeek != nil {
		if err := validateDayOfWeek(*in.DayOfWeek); err != nil {
			return domain.Schedule{}, err
		}
	}
	var start, end *domain.TimeOfDay
	if in.StartTime != nil {
		v, err := parseScheduleTime("start_time", *in.StartTime)
		if err != nil {
			return domain.Schedule{}, err
		}
		start = &v
	}
	if in.EndTime != nil {
		v, err := parseScheduleTime("end_time", *in.EndTime)
		if err != nil {
			return domain.Schedule{}, err
		}
		end = &v
	}
	if in.SlotDurationMinutes != nil {
		if err := validateSlotMinutes(*in.SlotDurationMinutes); err != nil {
			return domain.Schedule{}, err
		}
	}

	p, err := s.practiceOf(ctx, actor)
	if err != nil {
		return domain.Schedule{}, err
	}
	existing, err := s.schedules.GetSchedule(ctx, id)
	if err != nil {
		return domain.Schedule{}, err
	}
	if existing.PractitionerID != p.ID {
		return domain.Schedule{}, ErrForbidden
	}

	merged := existing
	if in.DayOfWeek != nil {
		merged.DayOfWeek = *in.DayOfWeek
	}
	if start != nil {
		merged.StartTime = *start
	}
	if end != nil {
		merged.EndTime = *end
	}
	if in.SlotDurationMinutes != nil {
		merged.SlotDurationMinutes = *in.SlotDurationMinutes
	}
	if err := merged.Validate(); err != nil {
		return domain.Schedule{}, validationError(err.Error())
	}

	return s.schedules.UpdateSchedule(ctx, merged)
}

func validateDayOfWeek(d int) error {
	if !domain.ValidDayOfWeek(d) {
		return validationError("day_of_week must be between 0 and 6")
	}
	return nil
}

func validateSlotMinutes(m int) error {
	if m < minScheduleSlotMinutes || m > maxScheduleSlotMinutes {
		return validationError("slot_duration_minutes must be between 5 and 240")
	}
	return nil
}

func parseScheduleTime(field, v string) (domain.TimeOfDay, error) {
	t, err := domain.ParseTimeOfDay(v)
	if err != nil {
		return 0, validationError(field + " must be formatted as HH:MM or HH:MM:SS")
	}
	return t, nil
}
