package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medbook/backend/internal/domain"
	"medbook/backend/internal/store"
)

func seedPractitioner(t *testing.T, s *Store) domain.Practitioner {
	t.Helper()
	p, err := s.CreatePractitioner(context.Background(), domain.Practitioner{UserID: uuid.New(), Specialty: "General"})
	require.NoError(t, err)
	return p
}

func booked(practitionerID uuid.UUID, start time.Time, d time.Duration) domain.Reservation {
	return domain.Reservation{
		PatientID:      uuid.New(),
		PractitionerID: practitionerID,
		StartTime:      start,
		EndTime:        start.Add(d),
		Status:         domain.ReservationStatusBooked,
	}
}

func TestCreatePractitioner_UniqueUser(t *testing.T) {
	s := New()
	p := seedPractitioner(t, s)

	_, err := s.CreatePractitioner(context.Background(), domain.Practitioner{UserID: p.UserID})
	assert.ErrorIs(t, err, store.ErrConflict)

	got, err := s.GetPractitionerByUserID(context.Background(), p.UserID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = s.GetPractitioner(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSchedules_KeepCreationOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := seedPractitioner(t, s)

	late, err := s.CreateSchedule(ctx, domain.Schedule{PractitionerID: p.ID, DayOfWeek: 3, StartTime: domain.NewTimeOfDay(14, 0, 0), EndTime: domain.NewTimeOfDay(16, 0, 0), SlotDurationMinutes: 30})
	require.NoError(t, err)
	early, err := s.CreateSchedule(ctx, domain.Schedule{PractitionerID: p.ID, DayOfWeek: 3, StartTime: domain.NewTimeOfDay(9, 0, 0), EndTime: domain.NewTimeOfDay(10, 0, 0), SlotDurationMinutes: 30})
	require.NoError(t, err)
	_, err = s.CreateSchedule(ctx, domain.Schedule{PractitionerID: p.ID, DayOfWeek: 4, StartTime: domain.NewTimeOfDay(9, 0, 0), EndTime: domain.NewTimeOfDay(10, 0, 0), SlotDurationMinutes: 30})
	require.NoError(t, err)

	got, err := s.FindSchedulesByPractitionerAndWeekday(ctx, p.ID, 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, late.ID, got[0].ID)
	assert.Equal(t, early.ID, got[1].ID)

	_, err = s.CreateSchedule(ctx, domain.Schedule{PractitionerID: uuid.New(), DayOfWeek: 1})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListSchedulesByPractitioner_OrdersByWeekdayThenStart(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := seedPractitioner(t, s)
	other := seedPractitioner(t, s)

	add := func(practitionerID uuid.UUID, day, hour int) domain.Schedule {
		sc, err := s.CreateSchedule(ctx, domain.Schedule{PractitionerID: practitionerID, DayOfWeek: day, StartTime: domain.NewTimeOfDay(hour, 0, 0), EndTime: domain.NewTimeOfDay(hour+1, 0, 0), SlotDurationMinutes: 15})
		require.NoError(t, err)
		return sc
	}
	thuMorning := add(p.ID, 4, 9)
	wedAfternoon := add(p.ID, 3, 14)
	wedMorning := add(p.ID, 3, 9)
	add(other.ID, 1, 9)

	got, err := s.ListSchedulesByPractitioner(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []uuid.UUID{wedMorning.ID, wedAfternoon.ID, thuMorning.ID}, []uuid.UUID{got[0].ID, got[1].ID, got[2].ID})

	none, err := s.ListSchedulesByPractitioner(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInPractitionerTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := seedPractitioner(t, s)
	start := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)

	boom := errors.New("boom")
	var insertedID uuid.UUID
	err := s.InPractitionerTransaction(ctx, p.ID, func(ctx context.Context, tx store.ReservationTx) error {
		r, err := tx.InsertReservation(ctx, booked(p.ID, start, 30*time.Minute))
		if err != nil {
			return err
		}
		insertedID = r.ID
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.GetReservation(ctx, insertedID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReservationTx_SeesPendingWritesAndRejectsOverlap(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := seedPractitioner(t, s)
	start := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)

	err := s.InPractitionerTransaction(ctx, p.ID, func(ctx context.Context, tx store.ReservationTx) error {
		first, err := tx.InsertReservation(ctx, booked(p.ID, start, 30*time.Minute))
		require.NoError(t, err)

		found, err := tx.FindOccupyingReservationsOverlapping(ctx, p.ID, start.Add(15*time.Minute), start.Add(time.Hour), uuid.Nil)
		require.NoError(t, err)
		require.Len(t, found, 1)

		found, err = tx.FindOccupyingReservationsOverlapping(ctx, p.ID, start, start.Add(time.Hour), first.ID)
		require.NoError(t, err)
		assert.Empty(t, found)

		_, err = tx.InsertReservation(ctx, booked(p.ID, start.Add(10*time.Minute), 30*time.Minute))
		assert.ErrorIs(t, err, store.ErrConflict)

		_, err = tx.InsertReservation(ctx, booked(p.ID, start.Add(30*time.Minute), 30*time.Minute))
		return err
	})
	require.NoError(t, err)

	window, err := s.FindOccupyingReservationsInWindow(ctx, p.ID, start.Add(-time.Hour), start.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.True(t, window[0].StartTime.Before(window[1].StartTime))
}

func TestReservationTx_StatusAndIntervalUpdates(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := seedPractitioner(t, s)
	start := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)

	var id uuid.UUID
	require.NoError(t, s.InPractitionerTransaction(ctx, p.ID, func(ctx context.Context, tx store.ReservationTx) error {
		r, err := tx.InsertReservation(ctx, booked(p.ID, start, 30*time.Minute))
		id = r.ID
		return err
	}))

	require.NoError(t, s.InPractitionerTransaction(ctx, p.ID, func(ctx context.Context, tx store.ReservationTx) error {
		r, err := tx.UpdateReservationInterval(ctx, id, start.Add(time.Hour), start.Add(90*time.Minute))
		if err != nil {
			return err
		}
		assert.Equal(t, domain.ReservationStatusBooked, r.Status)
		_, err = tx.UpdateReservationStatus(ctx, id, domain.ReservationStatusCancelled)
		return err
	}))

	got, err := s.GetReservation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCancelled, got.Status)
	assert.True(t, got.StartTime.Equal(start.Add(time.Hour)))

	window, err := s.FindOccupyingReservationsInWindow(ctx, p.ID, start, start.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, window)

	counts, err := s.CountReservationsByStatus(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[domain.ReservationStatusCancelled])
}

func TestReservationTx_RejectsOtherPractitioner(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := seedPractitioner(t, s)
	other := seedPractitioner(t, s)

	err := s.InPractitionerTransaction(ctx, p.ID, func(ctx context.Context, tx store.ReservationTx) error {
		_, err := tx.InsertReservation(ctx, booked(other.ID, time.Now(), time.Hour))
		return err
	})
	assert.ErrorIs(t, err, errWrongPractitioner)
}

func TestListPractitionerReservations_Filter(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := seedPractitioner(t, s)
	base := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.InPractitionerTransaction(ctx, p.ID, func(ctx context.Context, tx store.ReservationTx) error {
		for i := 0; i < 3; i++ {
			if _, err := tx.InsertReservation(ctx, booked(p.ID, base.Add(time.Duration(i)*time.Hour), 30*time.Minute)); err != nil {
				return err
			}
		}
		return nil
	}))

	from := base.Add(time.Hour)
	to := base.Add(90 * time.Minute)
	got, err := s.ListPractitionerReservations(ctx, p.ID, store.ReservationFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].StartTime.Equal(from))

	all, err := s.ListPractitionerReservations(ctx, p.ID, store.ReservationFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
