package booking

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"medbook/backend/internal/domain"
	"medbook/backend/internal/store"
)

const maxPatientNotesLength = 2000

type CreateReservationInput struct {
	PractitionerID uuid.UUID
	ClinicID       *uuid.UUID
	Start          time.Time
	End            time.Time
	Notes          string
}

// CreateReservation books [Start, End) with the practitioner for the calling
// patient. The overlap check and the insert run under the practitioner's
// calendar lock.
func (s *Service) CreateReservation(ctx context.Context, actor domain.Actor, in CreateReservationInput) (domain.Reservation, error) {
	if actor.UserID == uuid.Nil {
		return domain.Reservation{}, validationError("patient_id is required")
	}
	if in.PractitionerID == uuid.Nil {
		return domain.Reservation{}, validationError("practitioner_id is required")
	}
	start, end, err := normalizeInterval(in.Start, in.End)
	if err != nil {
		return domain.Reservation{}, err
	}
	notes := strings.TrimSpace(in.Notes)
	if utf8.RuneCountInString(notes) > maxPatientNotesLength {
		return domain.Reservation{}, validationError("patient_notes must be at most 2000 characters")
	}

	if _, err := s.practitioners.GetPractitioner(ctx, in.PractitionerID); err != nil {
		return domain.Reservation{}, err
	}

	var out domain.Reservation
	err = s.reservations.InPractitionerTransaction(ctx, in.PractitionerID, func(ctx context.Context, tx store.ReservationTx) error {
		clashes, err := tx.FindOccupyingReservationsOverlapping(ctx, in.PractitionerID, start, end, uuid.Nil)
		if err != nil {
			return err
		}
		if len(clashes) > 0 {
			return store.ErrConflict
		}

		r, err := tx.InsertReservation(ctx, domain.Reservation{
			PatientID:      actor.UserID,
			PractitionerID: in.PractitionerID,
			ClinicID:       in.ClinicID,
			StartTime:      start,
			EndTime:        end,
			Status:         domain.ReservationStatusBooked,
			PatientNotes:   notes,
		})
		if err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return out, nil
}

// GetReservation returns a reservation to its patient, its practitioner or
// an administrator.
func (s *Service) GetReservation(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Reservation, error) {
	if id == uuid.Nil {
		return domain.Reservation{}, validationError("reservation_id is required")
	}
	r, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	owns, err := s.ownsPractice(ctx, actor, r.PractitionerID)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !canViewReservation(actor, r, owns) {
		return domain.Reservation{}, ErrForbidden
	}
	return r, nil
}

// RescheduleReservation moves a reservation to [start, end). Its status is
// left untouched.
func (s *Service) RescheduleReservation(ctx context.Context, actor domain.Actor, id uuid.UUID, start, end time.Time) (domain.Reservation, error) {
	if id == uuid.Nil {
		return domain.Reservation{}, validationError("reservation_id is required")
	}
	start, end, err := normalizeInterval(start, end)
	if err != nil {
		return domain.Reservation{}, err
	}

	existing, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	owns, err := s.ownsPractice(ctx, actor, existing.PractitionerID)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !canRescheduleReservation(actor, existing, owns) {
		return domain.Reservation{}, ErrForbidden
	}

	var out domain.Reservation
	err = s.reservations.InPractitionerTransaction(ctx, existing.PractitionerID, func(ctx context.Context, tx store.ReservationTx) error {
		if _, err := tx.GetReservation(ctx, id); err != nil {
			return err
		}
		clashes, err := tx.FindOccupyingReservationsOverlapping(ctx, existing.PractitionerID, start, end, id)
		if err != nil {
			return err
		}
		if len(clashes) > 0 {
			return store.ErrConflict
		}

		r, err := tx.UpdateReservationInterval(ctx, id, start, end)
		if err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return out, nil
}

// CancelReservation marks a reservation cancelled whatever its current
// status. Cancelling an already cancelled reservation returns it unchanged.
func (s *Service) CancelReservation(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Reservation, error) {
	if id == uuid.Nil {
		return domain.Reservation{}, validationError("reservation_id is required")
	}

	existing, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !canCancelReservation(actor, existing) {
		return domain.Reservation{}, ErrForbidden
	}

	var out domain.Reservation
	err = s.reservations.InPractitionerTransaction(ctx, existing.PractitionerID, func(ctx context.Context, tx store.ReservationTx) error {
		current, err := tx.GetReservation(ctx, id)
		if err != nil {
			return err
		}
		if current.Status == domain.ReservationStatusCancelled {
			out = current
			return nil
		}

		r, err := tx.UpdateReservationStatus(ctx, id, domain.ReservationStatusCancelled)
		if err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return out, nil
}

func normalizeInterval(start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() || end.IsZero() {
		return time.Time{}, time.Time{}, validationError("start_time and end_time are required")
	}
	start, end = start.UTC(), end.UTC()
	if !start.Before(end) {
		return time.Time{}, time.Time{}, validationError("end_time must be after start_time")
	}
	return start, end, nil
}
