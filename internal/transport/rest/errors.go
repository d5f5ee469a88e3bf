package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"medbook/backend/internal/auth"
	"medbook/backend/internal/service/booking"
	"medbook/backend/internal/store"
)

type errorBody struct {
	Error string `json:"error"`
}

// errorStatus maps a service error to the HTTP status and the message the
// client is allowed to see.
func errorStatus(err error) (int, string) {
	var verr *booking.ValidationError
	var herr *echo.HTTPError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, booking.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict, "Timeslot not available"
	case errors.As(err, &herr):
		msg := http.StatusText(herr.Code)
		if s, ok := herr.Message.(string); ok && s != "" {
			msg = s
		}
		return herr.Code, msg
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func errorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, msg := errorStatus(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				slog.String("route", c.Path()),
				slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				slog.Any("err", err),
			)
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, errorBody{Error: msg})
		}
		if err != nil {
			log.Error("write error response", slog.Any("err", err))
		}
	}
}
