package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"medbook/backend/internal/domain"
	"medbook/backend/internal/store"
)

func createConcurrently(t *testing.T, f fixture, ranges [][2]time.Time) (successes, conflicts int) {
	t.Helper()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		start = make(chan struct{})
		other []error
	)
	for _, rg := range ranges {
		wg.Add(1)
		go func(rg [2]time.Time) {
			defer wg.Done()
			<-start
			actor := domain.Actor{UserID: uuid.New(), Role: domain.RolePatient}
			_, err := f.svc.CreateReservation(context.Background(), actor, CreateReservationInput{
				PractitionerID: f.practitioner.ID,
				Start:          rg[0],
				End:            rg[1],
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, store.ErrConflict):
				conflicts++
			default:
				other = append(other, err)
			}
		}(rg)
	}
	close(start)
	wg.Wait()

	if len(other) > 0 {
		t.Fatalf("unexpected errors: %v", other)
	}
	return successes, conflicts
}

func TestCreateReservation_ConcurrentIntersectingExactlyOneWins(t *testing.T) {
	for round := 0; round < 20; round++ {
		f := newFixture(t)
		successes, conflicts := createConcurrently(t, f, [][2]time.Time{
			{at(9, 0), at(9, 30)},
			{at(9, 15), at(9, 45)},
		})
		if successes != 1 || conflicts != 1 {
			t.Fatalf("round %d: successes=%d conflicts=%d, want 1/1", round, successes, conflicts)
		}
	}
}

func TestCreateReservation_ConcurrentManyIdenticalRequests(t *testing.T) {
	f := newFixture(t)
	ranges := make([][2]time.Time, 32)
	for i := range ranges {
		ranges[i] = [2]time.Time{at(14, 0), at(14, 30)}
	}

	successes, conflicts := createConcurrently(t, f, ranges)
	if successes != 1 || conflicts != len(ranges)-1 {
		t.Fatalf("successes=%d conflicts=%d, want 1/%d", successes, conflicts, len(ranges)-1)
	}

	busy, err := f.mem.FindOccupyingReservationsInWindow(context.Background(), f.practitioner.ID, at(0, 0), at(24, 0))
	if err != nil {
		t.Fatalf("FindOccupyingReservationsInWindow error: %v", err)
	}
	if len(busy) != 1 {
		t.Fatalf("len(busy) = %d, want 1", len(busy))
	}
}

func TestCreateReservation_ConcurrentDisjointAllSucceed(t *testing.T) {
	f := newFixture(t)
	ranges := make([][2]time.Time, 16)
	for i := range ranges {
		start := at(8, 0).Add(time.Duration(i) * 30 * time.Minute)
		ranges[i] = [2]time.Time{start, start.Add(30 * time.Minute)}
	}

	successes, conflicts := createConcurrently(t, f, ranges)
	if successes != len(ranges) || conflicts != 0 {
		t.Fatalf("successes=%d conflicts=%d, want %d/0", successes, conflicts, len(ranges))
	}
}
