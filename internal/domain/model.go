package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// stampInsertOrUpdate fills the primary key and audit columns the way every
// table in this schema expects them.
func stampInsertOrUpdate(query bun.Query, id *uuid.UUID, createdAt, updatedAt *time.Time) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if *id == uuid.Nil {
			v, err := uuid.NewV7()
			if err != nil {
				return err
			}
			*id = v
		}
		if createdAt.IsZero() {
			*createdAt = now
		}
		if updatedAt.IsZero() {
			*updatedAt = now
		}
	case *bun.UpdateQuery:
		*updatedAt = now
	}
	return nil
}
