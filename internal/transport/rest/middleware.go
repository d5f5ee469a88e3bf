package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"medbook/backend/internal/auth"
	"medbook/backend/internal/domain"
)

// authenticate resolves the bearer token to an actor and stores it on the
// request context.
func authenticate(creds CredentialStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := auth.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
			}
			actor, err := creds.Verify(c.Request().Context(), token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
			}
			req := c.Request()
			c.SetRequest(req.WithContext(auth.WithActor(req.Context(), actor)))
			return next(c)
		}
	}
}

func requireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := auth.ActorFromContext(c.Request().Context())
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
			}
			for _, r := range roles {
				if actor.Role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, errorBody{Error: "Forbidden"})
		}
	}
}

// identityRateLimiter throttles per caller: the user id once authenticated,
// the client address otherwise.
func identityRateLimiter(cfg RateLimit) echo.MiddlewareFunc {
	if cfg.RPS <= 0 || cfg.Burst <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.RPS),
		Burst:     cfg.Burst,
		ExpiresIn: cfg.ExpiresIn,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store:               store,
		IdentifierExtractor: callerIdentity,
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, errorBody{Error: "Forbidden"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, errorBody{Error: "Too many requests"})
		},
	})
}

func callerIdentity(c echo.Context) (string, error) {
	if actor, ok := auth.ActorFromContext(c.Request().Context()); ok {
		return "user:" + actor.UserID.String(), nil
	}
	return "ip:" + c.RealIP(), nil
}

func accessLog(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			level := slog.LevelInfo
			if c.Response().Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			log.LogAttrs(req.Context(), level, "request",
				slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.String("route", c.Path()),
				slog.Int("status", c.Response().Status),
				slog.Duration("latency", time.Since(start)),
				slog.String("remote_ip", c.RealIP()),
			)
			return nil
		}
	}
}

func recoverer(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					if e, ok := r.(error); ok && errors.Is(e, http.ErrAbortHandler) {
						panic(r)
					}
					log.Error("panic recovered",
						slog.String("panic", fmt.Sprint(r)),
						slog.String("stack", string(debug.Stack())),
						slog.String("path", c.Request().URL.Path),
					)
					err = c.JSON(http.StatusInternalServerError, errorBody{Error: "internal error"})
				}
			}()
			return next(c)
		}
	}
}
