package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Practitioner links a user account to the calendar that patients book into.
type Practitioner struct {
	bun.BaseModel `bun:"table:practitioners"`

	ID        uuid.UUID  `bun:"id,pk,type:uuid"`
	UserID    uuid.UUID  `bun:"user_id,type:uuid,notnull"`
	Specialty string     `bun:"specialty,notnull"`
	ClinicID  *uuid.UUID `bun:"clinic_id,type:uuid"`
	CreatedAt time.Time  `bun:"created_at,notnull"`
	UpdatedAt time.Time  `bun:"updated_at,notnull"`
}

func (p *Practitioner) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	return stampInsertOrUpdate(query, &p.ID, &p.CreatedAt, &p.UpdatedAt)
}
