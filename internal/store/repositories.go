package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"medbook/backend/internal/domain"
)

type PractitionerRepository interface {
	GetPractitioner(ctx context.Context, id uuid.UUID) (domain.Practitioner, error)
	GetPractitionerByUserID(ctx context.Context, userID uuid.UUID) (domain.Practitioner, error)
	CreatePractitioner(ctx context.Context, p domain.Practitioner) (domain.Practitioner, error)
}

type ScheduleRepository interface {
	// FindSchedulesByPractitionerAndWeekday returns schedules in creation order.
	FindSchedulesByPractitionerAndWeekday(ctx context.Context, practitionerID uuid.UUID, weekday int) ([]domain.Schedule, error)
	// ListSchedulesByPractitioner returns every schedule of the practitioner
	// ordered by weekday, then start time, then creation.
	ListSchedulesByPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]domain.Schedule, error)
	GetSchedule(ctx context.Context, id uuid.UUID) (domain.Schedule, error)
	CreateSchedule(ctx context.Context, s domain.Schedule) (domain.Schedule, error)
	UpdateSchedule(ctx context.Context, s domain.Schedule) (domain.Schedule, error)
}

// ReservationFilter bounds a practitioner listing. Nil bounds are open.
type ReservationFilter struct {
	From *time.Time // start_time >= From
	To   *time.Time // end_time <= To
}

type ReservationRepository interface {
	GetReservation(ctx context.Context, id uuid.UUID) (domain.Reservation, error)
	// FindOccupyingReservationsInWindow returns booked or confirmed
	// reservations intersecting [windowStart, windowEnd).
	FindOccupyingReservationsInWindow(ctx context.Context, practitionerID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Reservation, error)
	ListPractitionerReservations(ctx context.Context, practitionerID uuid.UUID, filter ReservationFilter) ([]domain.Reservation, error)
	CountReservationsByStatus(ctx context.Context, practitionerID uuid.UUID) (map[domain.ReservationStatus]int, error)

	// InPractitionerTransaction runs fn while holding the practitioner's
	// calendar exclusively. Writes made through tx commit only if fn
	// returns nil.
	InPractitionerTransaction(ctx context.Context, practitionerID uuid.UUID, fn func(ctx context.Context, tx ReservationTx) error) error
}

// ReservationTx is the read-then-write surface available while a
// practitioner's calendar is locked.
type ReservationTx interface {
	GetReservation(ctx context.Context, id uuid.UUID) (domain.Reservation, error)
	// FindOccupyingReservationsOverlapping returns booked or confirmed
	// reservations intersecting [start, end), skipping excludeID when it is
	// not uuid.Nil.
	FindOccupyingReservationsOverlapping(ctx context.Context, practitionerID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]domain.Reservation, error)
	InsertReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error)
	UpdateReservationInterval(ctx context.Context, id uuid.UUID, start, end time.Time) (domain.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id uuid.UUID, status domain.ReservationStatus) (domain.Reservation, error)
}
