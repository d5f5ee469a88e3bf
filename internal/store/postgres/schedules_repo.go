package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"medbook/backend/internal/domain"
	"medbook/backend/internal/store"
)

type ScheduleRepo struct {
	db bun.IDB
}

var _ store.ScheduleRepository = (*ScheduleRepo)(nil)

func NewScheduleRepo(db bun.IDB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

func (r *ScheduleRepo) FindSchedulesByPractitionerAndWeekday(ctx context.Context, practitionerID uuid.UUID, weekday int) ([]domain.Schedule, error) {
	var rows []domain.Schedule
	err := r.db.NewSelect().
		Model(&rows).
		Where("practitioner_id = ?", practitionerID).
		Where("day_of_week = ?", weekday).
		OrderExpr("created_at ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ScheduleRepo) ListSchedulesByPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]domain.Schedule, error) {
	var rows []domain.Schedule
	err := r.db.NewSelect().
		Model(&rows).
		Where("practitioner_id = ?", practitionerID).
		OrderExpr("day_of_week ASC, start_time ASC, created_at ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ScheduleRepo) GetSchedule(ctx context.Context, id uuid.UUID) (domain.Schedule, error) {
	var s domain.Schedule
	err := r.db.NewSelect().
		Model(&s).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.Schedule{}, mapError(err)
	}
	return s, nil
}

func (r *ScheduleRepo) CreateSchedule(ctx context.Context, s domain.Schedule) (domain.Schedule, error) {
	if _, err := r.db.NewInsert().Model(&s).Exec(ctx); err != nil {
		return domain.Schedule{}, mapError(err)
	}
	return s, nil
}

func (r *ScheduleRepo) UpdateSchedule(ctx context.Context, s domain.Schedule) (domain.Schedule, error) {
	res, err := r.db.NewUpdate().
		Model(&s).
		Column("day_of_week", "start_time", "end_time", "slot_duration_minutes", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Schedule{}, mapError(err)
	}
	if err := requireAffected(res); err != nil {
		return domain.Schedule{}, err
	}
	return s, nil
}
