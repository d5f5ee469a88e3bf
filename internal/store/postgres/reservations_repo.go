package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"medbook/backend/internal/domain"
	"medbook/backend/internal/store"
)

type ReservationRepo struct {
	db *bun.DB
}

var _ store.ReservationRepository = (*ReservationRepo)(nil)

func NewReservationRepo(db *bun.DB) *ReservationRepo {
	return &ReservationRepo{db: db}
}

type reservationTx struct {
	tx bun.Tx
}

func (r *ReservationRepo) GetReservation(ctx context.Context, id uuid.UUID) (domain.Reservation, error) {
	return getReservation(ctx, r.db, id)
}

func (r *ReservationRepo) FindOccupyingReservationsInWindow(ctx context.Context, practitionerID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Reservation, error) {
	var rows []domain.Reservation
	err := occupyingOverlap(r.db.NewSelect().Model(&rows), practitionerID, windowStart, windowEnd).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReservationRepo) ListPractitionerReservations(ctx context.Context, practitionerID uuid.UUID, filter store.ReservationFilter) ([]domain.Reservation, error) {
	var rows []domain.Reservation
	q := r.db.NewSelect().
		Model(&rows).
		Where("practitioner_id = ?", practitionerID)
	if filter.From != nil {
		q = q.Where("start_time >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		q = q.Where("end_time <= ?", filter.To.UTC())
	}
	if err := q.OrderExpr("start_time ASC, id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

type statusCount struct {
	Status domain.ReservationStatus `bun:"status"`
	Count  int                      `bun:"count"`
}

func (r *ReservationRepo) CountReservationsByStatus(ctx context.Context, practitionerID uuid.UUID) (map[domain.ReservationStatus]int, error) {
	var rows []statusCount
	err := r.db.NewSelect().
		Model((*domain.Reservation)(nil)).
		Column("status").
		ColumnExpr("count(*) AS count").
		Where("practitioner_id = ?", practitionerID).
		Group("status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	out := make(map[domain.ReservationStatus]int, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func (r *ReservationRepo) InPractitionerTransaction(ctx context.Context, practitionerID uuid.UUID, fn func(ctx context.Context, tx store.ReservationTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockPractitionerCalendar(ctx, tx, practitionerID); err != nil {
			return err
		}
		return fn(ctx, reservationTx{tx: tx})
	})
}

// lockPractitionerCalendar serializes check-then-write sequences for one
// practitioner until the surrounding transaction ends.
func lockPractitionerCalendar(ctx context.Context, tx bun.Tx, practitionerID uuid.UUID) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", practitionerID.String()).Exec(ctx)
	return err
}

func (t reservationTx) GetReservation(ctx context.Context, id uuid.UUID) (domain.Reservation, error) {
	return getReservation(ctx, t.tx, id)
}

func (t reservationTx) FindOccupyingReservationsOverlapping(ctx context.Context, practitionerID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]domain.Reservation, error) {
	var rows []domain.Reservation
	q := occupyingOverlap(t.tx.NewSelect().Model(&rows), practitionerID, start, end)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.OrderExpr("start_time ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (t reservationTx) InsertReservation(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	res.StartTime = res.StartTime.UTC()
	res.EndTime = res.EndTime.UTC()
	if _, err := t.tx.NewInsert().Model(&res).Exec(ctx); err != nil {
		return domain.Reservation{}, mapError(err)
	}
	return res, nil
}

func (t reservationTx) UpdateReservationInterval(ctx context.Context, id uuid.UUID, start, end time.Time) (domain.Reservation, error) {
	res, err := t.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	res.StartTime = start.UTC()
	res.EndTime = end.UTC()
	return t.update(ctx, res, "start_time", "end_time", "updated_at")
}

func (t reservationTx) UpdateReservationStatus(ctx context.Context, id uuid.UUID, status domain.ReservationStatus) (domain.Reservation, error) {
	res, err := t.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	res.Status = status
	return t.update(ctx, res, "status", "updated_at")
}

func (t reservationTx) update(ctx context.Context, res domain.Reservation, columns ...string) (domain.Reservation, error) {
	result, err := t.tx.NewUpdate().
		Model(&res).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Reservation{}, mapError(err)
	}
	if err := requireAffected(result); err != nil {
		return domain.Reservation{}, err
	}
	return res, nil
}

func getReservation(ctx context.Context, db bun.IDB, id uuid.UUID) (domain.Reservation, error) {
	var res domain.Reservation
	err := db.NewSelect().
		Model(&res).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.Reservation{}, mapError(err)
	}
	return res, nil
}

// occupyingOverlap restricts q to booked or confirmed rows of the
// practitioner intersecting [start, end).
func occupyingOverlap(q *bun.SelectQuery, practitionerID uuid.UUID, start, end time.Time) *bun.SelectQuery {
	return q.
		Where("practitioner_id = ?", practitionerID).
		Where("status IN (?)", bun.In(domain.OccupyingStatuses)).
		Where("start_time < ?", end.UTC()).
		Where("end_time > ?", start.UTC())
}
