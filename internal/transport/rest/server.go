// Package rest exposes the booking service over HTTP/JSON.
package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"medbook/backend/internal/domain"
	"medbook/backend/internal/service/booking"
)

type bookingService interface {
	GetPractitioner(ctx context.Context, id uuid.UUID) (booking.PractitionerProfile, error)
	GetAvailability(ctx context.Context, q booking.AvailabilityQuery) (booking.Availability, error)
	CreateReservation(ctx context.Context, actor domain.Actor, in booking.CreateReservationInput) (domain.Reservation, error)
	GetReservation(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Reservation, error)
	RescheduleReservation(ctx context.Context, actor domain.Actor, id uuid.UUID, start, end time.Time) (domain.Reservation, error)
	CancelReservation(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Reservation, error)
	ListPractitionerReservations(ctx context.Context, actor domain.Actor, from, to *time.Time) ([]domain.Reservation, error)
	Stats(ctx context.Context, actor domain.Actor) (booking.PractitionerStats, error)
	CreateSchedule(ctx context.Context, actor domain.Actor, in booking.CreateScheduleInput) (domain.Schedule, error)
	UpdateSchedule(ctx context.Context, actor domain.Actor, id uuid.UUID, in booking.UpdateScheduleInput) (domain.Schedule, error)
}

// CredentialStore resolves a bearer token to the caller behind it.
type CredentialStore interface {
	Verify(ctx context.Context, token string) (domain.Actor, error)
}

type RateLimit struct {
	RPS       float64
	Burst     int
	ExpiresIn time.Duration
}

type Options struct {
	RequestTimeout time.Duration
	RateLimit      RateLimit
}

type Handler struct {
	svc bookingService
	log *slog.Logger
}

// NewServer builds the echo instance with middleware and routes installed.
func NewServer(svc bookingService, creds CredentialStore, log *slog.Logger, opts Options) *echo.Echo {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "http"))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(log)

	e.Use(middleware.RequestID())
	e.Use(accessLog(log))
	e.Use(recoverer(log))
	if opts.RequestTimeout > 0 {
		e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{Timeout: opts.RequestTimeout}))
	}

	h := &Handler{svc: svc, log: log}
	h.RegisterRoutes(e, creds, identityRateLimiter(opts.RateLimit))
	return e
}

func (h *Handler) RegisterRoutes(e *echo.Echo, creds CredentialStore, limit echo.MiddlewareFunc) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	v1 := e.Group("/v1")
	v1.GET("/practitioners/:id", h.GetPractitioner, limit)
	v1.GET("/practitioners/:id/availability", h.GetAvailability, limit)

	authed := v1.Group("", authenticate(creds), limit)
	authed.POST("/reservations", h.CreateReservation)
	authed.GET("/reservations/:id", h.GetReservation)
	authed.PUT("/reservations/:id", h.RescheduleReservation)
	authed.PUT("/reservations/:id/cancel", h.CancelReservation)

	me := authed.Group("/practitioners/me", requireRole(domain.RolePractitioner))
	me.GET("/reservations", h.ListPractitionerReservations)
	me.POST("/schedules", h.CreateSchedule)
	me.PUT("/schedules/:id", h.UpdateSchedule)
	me.GET("/stats", h.Stats)
}
