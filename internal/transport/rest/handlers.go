package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"medbook/backend/internal/auth"
	"medbook/backend/internal/domain"
	"medbook/backend/internal/service/booking"
)

func (h *Handler) GetPractitioner(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	profile, err := h.svc.GetPractitioner(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPractitionerResponse(profile))
}

func (h *Handler) GetAvailability(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	q := booking.AvailabilityQuery{
		PractitionerID: id,
		Date:           c.QueryParam("date"),
	}
	if q.SlotMinutes, err = optionalInt(c, "slot_minutes"); err != nil {
		return err
	}
	if q.Limit, err = optionalInt(c, "limit"); err != nil {
		return err
	}
	if offset, err := optionalInt(c, "offset"); err != nil {
		return err
	} else if offset != nil {
		q.Offset = *offset
	}
	if utcOffset, err := optionalInt(c, "utc_offset"); err != nil {
		return err
	} else if utcOffset != nil {
		q.UTCOffsetMinutes = *utcOffset
	}

	out, err := h.svc.GetAvailability(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAvailabilityResponse(out))
}

func (h *Handler) CreateReservation(c echo.Context) error {
	var req createReservationRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	practitionerID, err := parseUUID("practitioner_id", req.PractitionerID)
	if err != nil {
		return err
	}
	in := booking.CreateReservationInput{
		PractitionerID: practitionerID,
		Start:          req.StartDatetime,
		End:            req.EndDatetime,
		Notes:          req.PatientNotes,
	}
	if req.ClinicID != nil && *req.ClinicID != "" {
		clinicID, err := parseUUID("clinic_id", *req.ClinicID)
		if err != nil {
			return err
		}
		in.ClinicID = &clinicID
	}

	r, err := h.svc.CreateReservation(c.Request().Context(), actorOf(c), in)
	if err != nil {
		return err
	}
	h.log.Info("reservation created",
		"reservation_id", r.ID.String(),
		"practitioner_id", r.PractitionerID.String(),
	)
	return c.JSON(http.StatusCreated, toReservationResponse(r))
}

func (h *Handler) GetReservation(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	r, err := h.svc.GetReservation(c.Request().Context(), actorOf(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

func (h *Handler) RescheduleReservation(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req rescheduleRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	r, err := h.svc.RescheduleReservation(c.Request().Context(), actorOf(c), id, req.StartDatetime, req.EndDatetime)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

func (h *Handler) CancelReservation(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	r, err := h.svc.CancelReservation(c.Request().Context(), actorOf(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

func (h *Handler) ListPractitionerReservations(c echo.Context) error {
	from, err := optionalTime(c, "from")
	if err != nil {
		return err
	}
	to, err := optionalTime(c, "to")
	if err != nil {
		return err
	}
	rs, err := h.svc.ListPractitionerReservations(c.Request().Context(), actorOf(c), from, to)
	if err != nil {
		return err
	}
	out := make([]reservationResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, toReservationResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateSchedule(c echo.Context) error {
	var req createScheduleRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.DayOfWeek == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "day_of_week is required")
	}
	s, err := h.svc.CreateSchedule(c.Request().Context(), actorOf(c), booking.CreateScheduleInput{
		DayOfWeek:           *req.DayOfWeek,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		SlotDurationMinutes: req.SlotDurationMinutes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toScheduleResponse(s))
}

func (h *Handler) UpdateSchedule(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req updateScheduleRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	s, err := h.svc.UpdateSchedule(c.Request().Context(), actorOf(c), id, booking.UpdateScheduleInput{
		DayOfWeek:           req.DayOfWeek,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		SlotDurationMinutes: req.SlotDurationMinutes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toScheduleResponse(s))
}

func (h *Handler) Stats(c echo.Context) error {
	st, err := h.svc.Stats(c.Request().Context(), actorOf(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statsResponse{
		Total:     st.Total,
		Cancelled: st.Cancelled,
		Completed: st.Completed,
	})
}

func actorOf(c echo.Context) domain.Actor {
	actor, _ := auth.ActorFromContext(c.Request().Context())
	return actor
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	return parseUUID(name, c.Param(name))
}

func parseUUID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+field)
	}
	return id, nil
}

func optionalInt(c echo.Context, name string) (*int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return &v, nil
}

// optionalTime accepts RFC 3339 timestamps or bare dates, read as UTC midnight.
func optionalTime(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(booking.DateLayout, raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be an RFC 3339 timestamp or a date")
	}
	return &t, nil
}
