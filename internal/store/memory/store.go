// Package memory is an in-process persistence layer. It serializes calendar
// writes per practitioner with a mutex and is used for local development and
// tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"medbook/backend/internal/domain"
	"medbook/backend/internal/store"
)

var errWrongPractitioner = errors.New("memory: reservation belongs to another practitioner")

type Store struct {
	mu            sync.RWMutex
	practitioners map[uuid.UUID]domain.Practitioner
	schedules     map[uuid.UUID]domain.Schedule
	scheduleOrder []uuid.UUID
	reservations  map[uuid.UUID]domain.Reservation

	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex

	now func() time.Time
}

func New() *Store {
	return &Store{
		practitioners: make(map[uuid.UUID]domain.Practitioner),
		schedules:     make(map[uuid.UUID]domain.Schedule),
		reservations:  make(map[uuid.UUID]domain.Reservation),
		locks:         make(map[uuid.UUID]*sync.Mutex),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

var (
	_ store.PractitionerRepository = (*Store)(nil)
	_ store.ScheduleRepository     = (*Store)(nil)
	_ store.ReservationRepository  = (*Store)(nil)
)

func newID() (uuid.UUID, error) {
	return uuid.NewV7()
}

func (s *Store) GetPractitioner(ctx context.Context, id uuid.UUID) (domain.Practitioner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.practitioners[id]
	if !ok {
		return domain.Practitioner{}, store.ErrNotFound
	}
	return p, nil
}

func (s *Store) GetPractitionerByUserID(ctx context.Context, userID uuid.UUID) (domain.Practitioner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.practitioners {
		if p.UserID == userID {
			return p, nil
		}
	}
	return domain.Practitioner{}, store.ErrNotFound
}

func (s *Store) CreatePractitioner(ctx context.Context, p domain.Practitioner) (domain.Practitioner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.practitioners {
		if existing.UserID == p.UserID {
			return domain.Practitioner{}, store.ErrConflict
		}
	}
	if p.ID == uuid.Nil {
		id, err := newID()
		if err != nil {
			return domain.Practitioner{}, err
		}
		p.ID = id
	}
	if _, ok := s.practitioners[p.ID]; ok {
		return domain.Practitioner{}, store.ErrConflict
	}
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	s.practitioners[p.ID] = p
	return p, nil
}

func (s *Store) FindSchedulesByPractitionerAndWeekday(ctx context.Context, practitionerID uuid.UUID, weekday int) ([]domain.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Schedule
	for _, id := range s.scheduleOrder {
		sc := s.schedules[id]
		if sc.PractitionerID == practitionerID && sc.DayOfWeek == weekday {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (s *Store) ListSchedulesByPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]domain.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Schedule
	for _, id := range s.scheduleOrder {
		if sc := s.schedules[id]; sc.PractitionerID == practitionerID {
			out = append(out, sc)
		}
	}
	// Stable keeps creation order among equal keys.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (s *Store) GetSchedule(ctx context.Context, id uuid.UUID) (domain.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.schedules[id]
	if !ok {
		return domain.Schedule{}, store.ErrNotFound
	}
	return sc, nil
}

func (s *Store) CreateSchedule(ctx context.Context, sc domain.Schedule) (domain.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.practitioners[sc.PractitionerID]; !ok {
		return domain.Schedule{}, store.ErrNotFound
	}
	if sc.ID == uuid.Nil {
		id, err := newID()
		if err != nil {
			return domain.Schedule{}, err
		}
		sc.ID = id
	}
	now := s.now()
	sc.CreatedAt, sc.UpdatedAt = now, now
	s.schedules[sc.ID] = sc
	s.scheduleOrder = append(s.scheduleOrder, sc.ID)
	return sc, nil
}

func (s *Store) UpdateSchedule(ctx context.Context, sc domain.Schedule) (domain.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.schedules[sc.ID]
	if !ok {
		return domain.Schedule{}, store.ErrNotFound
	}
	sc.PractitionerID = existing.PractitionerID
	sc.CreatedAt = existing.CreatedAt
	sc.UpdatedAt = s.now()
	s.schedules[sc.ID] = sc
	return sc, nil
}

func (s *Store) GetReservation(ctx context.Context, id uuid.UUID) (domain.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reservations[id]
	if !ok {
		return domain.Reservation{}, store.ErrNotFound
	}
	return r, nil
}

func (s *Store) FindOccupyingReservationsInWindow(ctx context.Context, practitionerID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Reservation
	for _, r := range s.reservations {
		if r.PractitionerID == practitionerID && r.Occupying() && r.Overlaps(windowStart, windowEnd) {
			out = append(out, r)
		}
	}
	sortByStart(out)
	return out, nil
}

func (s *Store) ListPractitionerReservations(ctx context.Context, practitionerID uuid.UUID, filter store.ReservationFilter) ([]domain.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Reservation
	for _, r := range s.reservations {
		if r.PractitionerID != practitionerID {
			continue
		}
		if filter.From != nil && r.StartTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && r.EndTime.After(*filter.To) {
			continue
		}
		out = append(out, r)
	}
	sortByStart(out)
	return out, nil
}

func (s *Store) CountReservationsByStatus(ctx context.Context, practitionerID uuid.UUID) (map[domain.ReservationStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[domain.ReservationStatus]int)
	for _, r := range s.reservations {
		if r.PractitionerID == practitionerID {
			out[r.Status]++
		}
	}
	return out, nil
}

func (s *Store) InPractitionerTransaction(ctx context.Context, practitionerID uuid.UUID, fn func(ctx context.Context, tx store.ReservationTx) error) error {
	lock := s.calendarLock(practitionerID)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &reservationTx{
		s:              s,
		practitionerID: practitionerID,
		pending:        make(map[uuid.UUID]domain.Reservation),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range tx.pending {
		s.reservations[id] = r
	}
	return nil
}

func (s *Store) calendarLock(practitionerID uuid.UUID) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	l, ok := s.locks[practitionerID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[practitionerID] = l
	}
	return l
}

func sortByStart(rs []domain.Reservation) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].StartTime.Equal(rs[j].StartTime) {
			return rs[i].ID.String() < rs[j].ID.String()
		}
		return rs[i].StartTime.Before(rs[j].StartTime)
	})
}
