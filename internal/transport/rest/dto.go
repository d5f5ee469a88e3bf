package rest

import (
	"time"

	"github.com/google/uuid"

	"medbook/backend/internal/domain"
	"medbook/backend/internal/service/booking"
)

type createReservationRequest struct {
	PractitionerID string    `json:"practitioner_id"`
	ClinicID       *string   `json:"clinic_id"`
	StartDatetime  time.Time `json:"start_datetime"`
	EndDatetime    time.Time `json:"end_datetime"`
	PatientNotes   string    `json:"patient_notes"`
}

type rescheduleRequest struct {
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
}

type createScheduleRequest struct {
	DayOfWeek           *int   `json:"day_of_week"`
	StartTime           string `json:"start_time"`
	EndTime             string `json:"end_time"`
	SlotDurationMinutes *int   `json:"slot_duration_minutes"`
}

type updateScheduleRequest struct {
	DayOfWeek           *int    `json:"day_of_week"`
	StartTime           *string `json:"start_time"`
	EndTime             *string `json:"end_time"`
	SlotDurationMinutes *int    `json:"slot_duration_minutes"`
}

type reservationResponse struct {
	ID             uuid.UUID  `json:"id"`
	PatientID      uuid.UUID  `json:"patient_id"`
	PractitionerID uuid.UUID  `json:"practitioner_id"`
	ClinicID       *uuid.UUID `json:"clinic_id,omitempty"`
	StartDatetime  time.Time  `json:"start_datetime"`
	EndDatetime    time.Time  `json:"end_datetime"`
	Status         string     `json:"status"`
	PatientNotes   string     `json:"patient_notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func toReservationResponse(r domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:             r.ID,
		PatientID:      r.PatientID,
		PractitionerID: r.PractitionerID,
		ClinicID:       r.ClinicID,
		StartDatetime:  r.StartTime.UTC(),
		EndDatetime:    r.EndTime.UTC(),
		Status:         string(r.Status),
		PatientNotes:   r.PatientNotes,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
}

type scheduleResponse struct {
	ID                  uuid.UUID `json:"id"`
	PractitionerID      uuid.UUID `json:"practitioner_id"`
	DayOfWeek           int       `json:"day_of_week"`
	StartTime           string    `json:"start_time"`
	EndTime             string    `json:"end_time"`
	SlotDurationMinutes int       `json:"slot_duration_minutes"`
}

func toScheduleResponse(s domain.Schedule) scheduleResponse {
	return scheduleResponse{
		ID:                  s.ID,
		PractitionerID:      s.PractitionerID,
		DayOfWeek:           s.DayOfWeek,
		StartTime:           s.StartTime.String(),
		EndTime:             s.EndTime.String(),
		SlotDurationMinutes: s.SlotDurationMinutes,
	}
}

type practitionerResponse struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"user_id"`
	Specialty string             `json:"specialty"`
	ClinicID  *uuid.UUID         `json:"clinic_id,omitempty"`
	Schedules []scheduleResponse `json:"schedules"`
}

func toPractitionerResponse(p booking.PractitionerProfile) practitionerResponse {
	out := practitionerResponse{
		ID:        p.Practitioner.ID,
		UserID:    p.Practitioner.UserID,
		Specialty: p.Practitioner.Specialty,
		ClinicID:  p.Practitioner.ClinicID,
		Schedules: make([]scheduleResponse, 0, len(p.Schedules)),
	}
	for _, s := range p.Schedules {
		out.Schedules = append(out.Schedules, toScheduleResponse(s))
	}
	return out
}

type availabilityResponse struct {
	Date   string        `json:"date"`
	Slots  []domain.Slot `json:"slots"`
	Total  int           `json:"total"`
	Offset int           `json:"offset"`
	Limit  *int          `json:"limit"`
}

func toAvailabilityResponse(a booking.Availability) availabilityResponse {
	slots := a.Slots
	if slots == nil {
		slots = []domain.Slot{}
	}
	return availabilityResponse{
		Date:   a.Date,
		Slots:  slots,
		Total:  a.Total,
		Offset: a.Offset,
		Limit:  a.Limit,
	}
}

type statsResponse struct {
	Total     int `json:"total"`
	Cancelled int `json:"cancelled"`
	Completed int `json:"completed"`
}
