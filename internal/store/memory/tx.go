package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"medbook/backend/internal/domain"
	"medbook/backend/internal/store"
)

// reservationTx buffers writes until InPractitionerTransaction commits them.
type reservationTx struct {
	s              *Store
	practitionerID uuid.UUID
	pending        map[uuid.UUID]domain.Reservation
}

func (tx *reservationTx) GetReservation(ctx context.Context, id uuid.UUID) (domain.Reservation, error) {
	if r, ok := tx.pending[id]; ok {
		return r, nil
	}
	return tx.s.GetReservation(ctx, id)
}

func (tx *reservationTx) FindOccupyingReservationsOverlapping(ctx context.Context, practitionerID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]domain.Reservation, error) {
	if practitionerID != tx.practitionerID {
		return nil, errWrongPractitioner
	}

	var out []domain.Reservation
	for _, r := range tx.snapshot() {
		if r.ID == excludeID && excludeID != uuid.Nil {
			continue
		}
		if r.Occupying() && r.Overlaps(start, end) {
			out = append(out, r)
		}
	}
	sortByStart(out)
	return out, nil
}

func (tx *reservationTx) InsertReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	if r.PractitionerID != tx.practitionerID {
		return domain.Reservation{}, errWrongPractitioner
	}
	if r.ID == uuid.Nil {
		id, err := newID()
		if err != nil {
			return domain.Reservation{}, err
		}
		r.ID = id
	}
	if _, err := tx.GetReservation(ctx, r.ID); err == nil {
		return domain.Reservation{}, store.ErrConflict
	}
	if r.Occupying() && tx.collides(r) {
		return domain.Reservation{}, store.ErrConflict
	}

	now := tx.s.now()
	r.CreatedAt, r.UpdatedAt = now, now
	tx.pending[r.ID] = r
	return r, nil
}

func (tx *reservationTx) UpdateReservationInterval(ctx context.Context, id uuid.UUID, start, end time.Time) (domain.Reservation, error) {
	r, err := tx.owned(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	r.StartTime, r.EndTime = start, end
	if r.Occupying() && tx.collides(r) {
		return domain.Reservation{}, store.ErrConflict
	}
	r.UpdatedAt = tx.s.now()
	tx.pending[id] = r
	return r, nil
}

func (tx *reservationTx) UpdateReservationStatus(ctx context.Context, id uuid.UUID, status domain.ReservationStatus) (domain.Reservation, error) {
	r, err := tx.owned(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	r.Status = status
	if r.Occupying() && tx.collides(r) {
		return domain.Reservation{}, store.ErrConflict
	}
	r.UpdatedAt = tx.s.now()
	tx.pending[id] = r
	return r, nil
}

func (tx *reservationTx) owned(ctx context.Context, id uuid.UUID) (domain.Reservation, error) {
	r, err := tx.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if r.PractitionerID != tx.practitionerID {
		return domain.Reservation{}, errWrongPractitioner
	}
	return r, nil
}

// collides mirrors the database exclusion constraint on occupying rows.
func (tx *reservationTx) collides(r domain.Reservation) bool {
	for _, other := range tx.snapshot() {
		if other.ID != r.ID && other.Occupying() && other.Overlaps(r.StartTime, r.EndTime) {
			return true
		}
	}
	return false
}

// snapshot is the practitioner's committed reservations with pending writes
// applied on top.
func (tx *reservationTx) snapshot() []domain.Reservation {
	tx.s.mu.RLock()
	out := make([]domain.Reservation, 0, len(tx.pending))
	for id, r := range tx.s.reservations {
		if r.PractitionerID != tx.practitionerID {
			continue
		}
		if _, ok := tx.pending[id]; ok {
			continue
		}
		out = append(out, r)
	}
	tx.s.mu.RUnlock()

	for _, r := range tx.pending {
		out = append(out, r)
	}
	return out
}
