package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"medbook/backend/internal/auth"
	"medbook/backend/internal/domain"
	"medbook/backend/internal/service/booking"
	"medbook/backend/internal/store"
)

type bookingService interface {
	GetPractitioner(ctx context.Context, id uuid.UUID) (booking.PractitionerProfile, error)
	GetAvailability(ctx context.Context, q booking.AvailabilityQuery) (booking.Availability, error)
	CreateReservation(ctx context.Context, actor domain.Actor, in booking.CreateReservationInput) (domain.Reservation, error)
	GetReservation(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Reservation, error)
	RescheduleReservation(ctx context.Context, actor domain.Actor, id uuid.UUID, start, end time.Time) (domain.Reservation, error)
	CancelReservation(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Reservation, error)
}

type BookingServer struct {
	svc bookingService
	log *slog.Logger
}

func NewBookingServer(svc bookingService, log *slog.Logger) *BookingServer {
	if log == nil {
		log = slog.Default()
	}
	return &BookingServer{
		svc: svc,
		log: log.With(slog.String("component", "grpc.booking")),
	}
}

func (s *BookingServer) GetPractitioner(ctx context.Context, req *GetPractitionerRequest) (*PractitionerResponse, error) {
	log := s.log.With(slog.String("rpc", "GetPractitioner"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_practitioner_id"))
		return nil, status.Error(codes.InvalidArgument, "id must be a uuid")
	}

	profile, err := s.svc.GetPractitioner(ctx, id)
	if err != nil {
		return nil, statusFromError(log, err, slog.String("practitioner_id", req.ID))
	}
	return toPractitionerMessage(profile), nil
}

func (s *BookingServer) GetAvailability(ctx context.Context, req *GetAvailabilityRequest) (*GetAvailabilityResponse, error) {
	log := s.log.With(slog.String("rpc", "GetAvailability"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	practitionerID, err := uuid.Parse(req.PractitionerID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_practitioner_id"))
		return nil, status.Error(codes.InvalidArgument, "practitioner_id must be a uuid")
	}

	out, err := s.svc.GetAvailability(ctx, booking.AvailabilityQuery{
		PractitionerID:   practitionerID,
		Date:             req.Date,
		SlotMinutes:      req.SlotMinutes,
		Offset:           req.Offset,
		Limit:            req.Limit,
		UTCOffsetMinutes: req.UTCOffsetMinutes,
	})
	if err != nil {
		return nil, statusFromError(log, err, slog.String("practitioner_id", req.PractitionerID))
	}

	log.Debug("availability computed",
		slog.String("practitioner_id", req.PractitionerID),
		slog.String("date", out.Date),
		slog.Int("total", out.Total),
	)
	return &GetAvailabilityResponse{
		Date:   out.Date,
		Slots:  toSlotMessages(out.Slots),
		Total:  out.Total,
		Offset: out.Offset,
		Limit:  out.Limit,
	}, nil
}

func (s *BookingServer) CreateReservation(ctx context.Context, req *CreateReservationRequest) (*ReservationResponse, error) {
	log := s.log.With(slog.String("rpc", "CreateReservation"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		log.Warn("invalid request", slog.String("reason", "missing_times"))
		return nil, status.Error(codes.InvalidArgument, "start_time and end_time are required")
	}
	practitionerID, err := uuid.Parse(req.PractitionerID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_practitioner_id"))
		return nil, status.Error(codes.InvalidArgument, "practitioner_id must be a uuid")
	}
	in := booking.CreateReservationInput{
		PractitionerID: practitionerID,
		Start:          req.StartTime,
		End:            req.EndTime,
		Notes:          req.PatientNotes,
	}
	if req.ClinicID != "" {
		clinicID, err := uuid.Parse(req.ClinicID)
		if err != nil {
			log.Warn("invalid request", slog.String("reason", "bad_clinic_id"))
			return nil, status.Error(codes.InvalidArgument, "clinic_id must be a uuid")
		}
		in.ClinicID = &clinicID
	}

	actor := actorFrom(ctx)
	r, err := s.svc.CreateReservation(ctx, actor, in)
	if err != nil {
		return nil, statusFromError(log, err,
			slog.String("practitioner_id", req.PractitionerID),
			slog.Time("start_time", req.StartTime),
			slog.Time("end_time", req.EndTime),
		)
	}

	log.Info("reservation created",
		slog.String("reservation_id", r.ID.String()),
		slog.String("practitioner_id", r.PractitionerID.String()),
		slog.String("patient_id", r.PatientID.String()),
		slog.Time("start_time", r.StartTime),
		slog.Time("end_time", r.EndTime),
	)
	return &ReservationResponse{Reservation: toReservationMessage(r)}, nil
}

func (s *BookingServer) GetReservation(ctx context.Context, req *GetReservationRequest) (*ReservationResponse, error) {
	log := s.log.With(slog.String("rpc", "GetReservation"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := reservationID(log, req.ID)
	if err != nil {
		return nil, err
	}
	r, err := s.svc.GetReservation(ctx, actorFrom(ctx), id)
	if err != nil {
		return nil, statusFromError(log, err, slog.String("reservation_id", id.String()))
	}
	return &ReservationResponse{Reservation: toReservationMessage(r)}, nil
}

func (s *BookingServer) RescheduleReservation(ctx context.Context, req *RescheduleReservationRequest) (*ReservationResponse, error) {
	log := s.log.With(slog.String("rpc", "RescheduleReservation"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := reservationID(log, req.ID)
	if err != nil {
		return nil, err
	}

	r, err := s.svc.RescheduleReservation(ctx, actorFrom(ctx), id, req.StartTime, req.EndTime)
	if err != nil {
		return nil, statusFromError(log, err,
			slog.String("reservation_id", req.ID),
			slog.Time("start_time", req.StartTime),
			slog.Time("end_time", req.EndTime),
		)
	}

	log.Info("reservation rescheduled",
		slog.String("reservation_id", r.ID.String()),
		slog.Time("start_time", r.StartTime),
		slog.Time("end_time", r.EndTime),
	)
	return &ReservationResponse{Reservation: toReservationMessage(r)}, nil
}

func (s *BookingServer) CancelReservation(ctx context.Context, req *CancelReservationRequest) (*ReservationResponse, error) {
	log := s.log.With(slog.String("rpc", "CancelReservation"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := reservationID(log, req.ID)
	if err != nil {
		return nil, err
	}
	r, err := s.svc.CancelReservation(ctx, actorFrom(ctx), id)
	if err != nil {
		return nil, statusFromError(log, err, slog.String("reservation_id", id.String()))
	}

	log.Info("reservation cancelled", slog.String("reservation_id", r.ID.String()))
	return &ReservationResponse{Reservation: toReservationMessage(r)}, nil
}

func reservationID(log *slog.Logger, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_reservation_id"))
		return uuid.Nil, status.Error(codes.InvalidArgument, "id must be a uuid")
	}
	return id, nil
}

func actorFrom(ctx context.Context) domain.Actor {
	actor, _ := auth.ActorFromContext(ctx)
	return actor
}

// statusFromError logs err at a level matching how expected it is and
// converts it to a gRPC status. Internal failures never leak their text.
func statusFromError(log *slog.Logger, err error, attrs ...any) error {
	var vErr *booking.ValidationError
	switch {
	case errors.As(err, &vErr):
		log.Warn("invalid request", append(attrs, slog.Any("err", err))...)
		return status.Error(codes.InvalidArgument, vErr.Error())
	case errors.Is(err, store.ErrConflict):
		log.Info("reservation conflict", attrs...)
		return status.Error(codes.FailedPrecondition, "Timeslot not available")
	case errors.Is(err, store.ErrNotFound):
		log.Info("not found", attrs...)
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, booking.ErrForbidden):
		log.Warn("forbidden", attrs...)
		return status.Error(codes.PermissionDenied, "forbidden")
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("deadline exceeded", attrs...)
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request cancelled")
	}
	log.Error("request failed", append(attrs, slog.Any("err", err))...)
	return status.Error(codes.Internal, "internal error")
}
