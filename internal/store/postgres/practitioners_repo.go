package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"medbook/backend/internal/domain"
	"medbook/backend/internal/store"
)

type PractitionerRepo struct {
	db bun.IDB
}

var _ store.PractitionerRepository = (*PractitionerRepo)(nil)

func NewPractitionerRepo(db bun.IDB) *PractitionerRepo {
	return &PractitionerRepo{db: db}
}

func (r *PractitionerRepo) GetPractitioner(ctx context.Context, id uuid.UUID) (domain.Practitioner, error) {
	var p domain.Practitioner
	err := r.db.NewSelect().
		Model(&p).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.Practitioner{}, mapError(err)
	}
	return p, nil
}

func (r *PractitionerRepo) GetPractitionerByUserID(ctx context.Context, userID uuid.UUID) (domain.Practitioner, error) {
	var p domain.Practitioner
	err := r.db.NewSelect().
		Model(&p).
		Where("user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.Practitioner{}, mapError(err)
	}
	return p, nil
}

func (r *PractitionerRepo) CreatePractitioner(ctx context.Context, p domain.Practitioner) (domain.Practitioner, error) {
	if _, err := r.db.NewInsert().Model(&p).Exec(ctx); err != nil {
		return domain.Practitioner{}, mapError(err)
	}
	return p, nil
}
