package grpc

import (
	"time"

	"medbook/backend/internal/domain"
	"medbook/backend/internal/service/booking"
)

type GetAvailabilityRequest struct {
	PractitionerID   string `json:"practitioner_id"`
	Date             string `json:"date"`
	SlotMinutes      *int   `json:"slot_minutes,omitempty"`
	Offset           int    `json:"offset,omitempty"`
	Limit            *int   `json:"limit,omitempty"`
	UTCOffsetMinutes int    `json:"utc_offset,omitempty"`
}

type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type GetAvailabilityResponse struct {
	Date   string `json:"date"`
	Slots  []Slot `json:"slots"`
	Total  int    `json:"total"`
	Offset int    `json:"offset"`
	Limit  *int   `json:"limit"`
}

type GetPractitionerRequest struct {
	ID string `json:"id"`
}

type Schedule struct {
	ID                  string `json:"id"`
	DayOfWeek           int    `json:"day_of_week"`
	StartTime           string `json:"start_time"`
	EndTime             string `json:"end_time"`
	SlotDurationMinutes int    `json:"slot_duration_minutes"`
}

type PractitionerResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Specialty string     `json:"specialty,omitempty"`
	ClinicID  string     `json:"clinic_id,omitempty"`
	Schedules []Schedule `json:"schedules"`
}

type CreateReservationRequest struct {
	PractitionerID string    `json:"practitioner_id"`
	ClinicID       string    `json:"clinic_id,omitempty"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	PatientNotes   string    `json:"patient_notes,omitempty"`
}

type GetReservationRequest struct {
	ID string `json:"id"`
}

type RescheduleReservationRequest struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type CancelReservationRequest struct {
	ID string `json:"id"`
}

type Reservation struct {
	ID             string    `json:"id"`
	PatientID      string    `json:"patient_id"`
	PractitionerID string    `json:"practitioner_id"`
	ClinicID       string    `json:"clinic_id,omitempty"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Status         string    `json:"status"`
	PatientNotes   string    `json:"patient_notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ReservationResponse struct {
	Reservation *Reservation `json:"reservation"`
}

func toReservationMessage(r domain.Reservation) *Reservation {
	out := &Reservation{
		ID:             r.ID.String(),
		PatientID:      r.PatientID.String(),
		PractitionerID: r.PractitionerID.String(),
		StartTime:      r.StartTime.UTC(),
		EndTime:        r.EndTime.UTC(),
		Status:         string(r.Status),
		PatientNotes:   r.PatientNotes,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
	if r.ClinicID != nil {
		out.ClinicID = r.ClinicID.String()
	}
	return out
}

func toSlotMessages(slots []domain.Slot) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		out = append(out, Slot{Start: s.Start, End: s.End})
	}
	return out
}

func toPractitionerMessage(p booking.PractitionerProfile) *PractitionerResponse {
	out := &PractitionerResponse{
		ID:        p.Practitioner.ID.String(),
		UserID:    p.Practitioner.UserID.String(),
		Specialty: p.Practitioner.Specialty,
		Schedules: make([]Schedule, 0, len(p.Schedules)),
	}
	if p.Practitioner.ClinicID != nil {
		out.ClinicID = p.Practitioner.ClinicID.String()
	}
	for _, s := range p.Schedules {
		out.Schedules = append(out.Schedules, Schedule{
			ID:                  s.ID.String(),
			DayOfWeek:           s.DayOfWeek,
			StartTime:           s.StartTime.String(),
			EndTime:             s.EndTime.String(),
			SlotDurationMinutes: s.SlotDurationMinutes,
		})
	}
	return out
}
