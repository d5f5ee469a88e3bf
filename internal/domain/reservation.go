package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ReservationStatus moves booked -> confirmed|cancelled and
// confirmed -> cancelled|completed. This package only writes booked and
// cancelled; confirmation and completion belong to other systems.
type ReservationStatus string

const (
	ReservationStatusBooked    ReservationStatus = "booked"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusCompleted ReservationStatus = "completed"
)

// OccupyingStatuses are the statuses that block a practitioner's time.
var OccupyingStatuses = []ReservationStatus{ReservationStatusBooked, ReservationStatusConfirmed}

func (s ReservationStatus) Occupying() bool {
	return s == ReservationStatusBooked || s == ReservationStatusConfirmed
}

type Reservation struct {
	bun.BaseModel `bun:"table:reservations"`

	ID             uuid.UUID         `bun:"id,pk,type:uuid"`
	PatientID      uuid.UUID         `bun:"patient_id,type:uuid,notnull"`
	PractitionerID uuid.UUID         `bun:"practitioner_id,type:uuid,notnull"`
	ClinicID       *uuid.UUID        `bun:"clinic_id,type:uuid"`
	StartTime      time.Time         `bun:"start_time,notnull"`
	EndTime        time.Time         `bun:"end_time,notnull"`
	Status         ReservationStatus `bun:"status,notnull"`
	PatientNotes   string            `bun:"patient_notes,notnull"`
	CreatedAt      time.Time         `bun:"created_at,notnull"`
	UpdatedAt      time.Time         `bun:"updated_at,notnull"`
}

func (r *Reservation) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	return stampInsertOrUpdate(query, &r.ID, &r.CreatedAt, &r.UpdatedAt)
}

func (r Reservation) Occupying() bool {
	return r.Status.Occupying()
}

// Overlaps reports whether the reservation intersects [start, end).
func (r Reservation) Overlaps(start, end time.Time) bool {
	return Overlaps(r.StartTime, r.EndTime, start, end)
}

// Overlaps is the half-open interval test: [aStart, aEnd) and [bStart, bEnd)
// intersect iff aStart < bEnd and aEnd > bStart. Touching intervals do not.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
