package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"medbook/backend/internal/domain"
	"medbook/backend/internal/store"
)

// DefaultListWindow is used when a practitioner lists reservations without
// giving either bound.
const DefaultListWindow = 30 * 24 * time.Hour

type PractitionerStats struct {
	Total     int
	Cancelled int
	Completed int
}

// ListPractitionerReservations lists the actor's own reservations ordered by
// start. from keeps start >= from, to keeps end <= to.
func (s *Service) ListPractitionerReservations(ctx context.Context, actor domain.Actor, from, to *time.Time) ([]domain.Reservation, error) {
	if from == nil && to == nil {
		now := s.now().UTC()
		until := now.Add(DefaultListWindow)
		from, to = &now, &until
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, validationError("to must not be before from")
	}

	p, err := s.practiceOf(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.reservations.ListPractitionerReservations(ctx, p.ID, store.ReservationFilter{From: from, To: to})
}

func (s *Service) Stats(ctx context.Context, actor domain.Actor) (PractitionerStats, error) {
	p, err := s.practiceOf(ctx, actor)
	if err != nil {
		return PractitionerStats{}, err
	}
	counts, err := s.reservations.CountReservationsByStatus(ctx, p.ID)
	if err != nil {
		return PractitionerStats{}, err
	}

	var out PractitionerStats
	for _, n := range counts {
		out.Total += n
	}
	out.Cancelled = counts[domain.ReservationStatusCancelled]
	out.Completed = counts[domain.ReservationStatusCompleted]
	return out, nil
}

// PractitionerProfile is a practitioner with the weekly windows they work.
type PractitionerProfile struct {
	Practitioner domain.Practitioner
	Schedules    []domain.Schedule
}

// GetPractitioner returns the public profile of a practitioner together with
// every configured schedule, ordered by weekday and start time.
func (s *Service) GetPractitioner(ctx context.Context, id uuid.UUID) (PractitionerProfile, error) {
	if id == uuid.Nil {
		return PractitionerProfile{}, validationError("practitioner_id is required")
	}
	p, err := s.practitioners.GetPractitioner(ctx, id)
	if err != nil {
		return PractitionerProfile{}, err
	}
	schedules, err := s.schedules.ListSchedulesByPractitioner(ctx, id)
	if err != nil {
		return PractitionerProfile{}, err
	}
	if schedules == nil {
		schedules = []domain.Schedule{}
	}
	return PractitionerProfile{Practitioner: p, Schedules: schedules}, nil
}

type RegisterPractitionerInput struct {
	UserID    uuid.UUID
	Specialty string
	ClinicID  *uuid.UUID
}

// RegisterPractitioner creates the practitioner profile for a user. A user
// holds at most one profile.
func (s *Service) RegisterPractitioner(ctx context.Context, in RegisterPractitionerInput) (domain.Practitioner, error) {
	if in.UserID == uuid.Nil {
		return domain.Practitioner{}, validationError("user_id is required")
	}
	specialty := strings.TrimSpace(in.Specialty)
	if specialty == "" {
		specialty = "General"
	}
	return s.practitioners.CreatePractitioner(ctx, domain.Practitioner{
		UserID:    in.UserID,
		Specialty: specialty,
		ClinicID:  in.ClinicID,
	})
}
