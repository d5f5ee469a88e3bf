package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"medbook/backend/internal/domain"
	"medbook/backend/internal/store"
)

// Authorization predicates, one per operation. Cancellation deliberately
// excludes the owning practitioner while rescheduling admits them.

func canViewReservation(actor domain.Actor, r domain.Reservation, ownsPractice bool) bool {
	return r.PatientID == actor.UserID || ownsPractice || actor.IsAdmin()
}

func canRescheduleReservation(actor domain.Actor, r domain.Reservation, ownsPractice bool) bool {
	return r.PatientID == actor.UserID || ownsPractice || actor.IsAdmin()
}

func canCancelReservation(actor domain.Actor, r domain.Reservation) bool {
	return r.PatientID == actor.UserID || actor.IsAdmin()
}

// ownsPractice reports whether actor is the user behind practitionerID.
func (s *Service) ownsPractice(ctx context.Context, actor domain.Actor, practitionerID uuid.UUID) (bool, error) {
	if actor.Role != domain.RolePractitioner {
		return false, nil
	}
	p, err := s.practitioners.GetPractitionerByUserID(ctx, actor.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.ID == practitionerID, nil
}

// practiceOf resolves the practitioner profile an actor manages. Callers
// without the practitioner role or without a profile are forbidden.
func (s *Service) practiceOf(ctx context.Context, actor domain.Actor) (domain.Practitioner, error) {
	if actor.Role != domain.RolePractitioner {
		return domain.Practitioner{}, ErrForbidden
	}
	p, err := s.practitioners.GetPractitionerByUserID(ctx, actor.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Practitioner{}, ErrForbidden
	}
	if err != nil {
		return domain.Practitioner{}, err
	}
	return p, nil
}
