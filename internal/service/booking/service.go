// Package booking computes practitioner availability and arbitrates
// reservation writes so that no two occupying reservations of one
// practitioner overlap.
package booking

import (
	"errors"
	"time"

	"medbook/backend/internal/store"
)

// ValidationError reports malformed or out-of-range input. It is always
// returned before any storage access.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// ErrForbidden is returned when an authenticated actor may not act on the
// resource. Missing resources surface as store.ErrNotFound and overlaps as
// store.ErrConflict.
var ErrForbidden = errors.New("forbidden")

// Clock supplies the current time.
type Clock func() time.Time

type Service struct {
	practitioners store.PractitionerRepository
	schedules     store.ScheduleRepository
	reservations  store.ReservationRepository
	now           Clock
}

func NewService(practitioners store.PractitionerRepository, schedules store.ScheduleRepository, reservations store.ReservationRepository, now Clock) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		practitioners: practitioners,
		schedules:     schedules,
		reservations:  reservations,
		now:           now,
	}
}
