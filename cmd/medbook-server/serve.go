package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"medbook/backend/internal/auth"
	"medbook/backend/internal/config"
	"medbook/backend/internal/service/booking"
	"medbook/backend/internal/store"
	"medbook/backend/internal/store/memory"
	"medbook/backend/internal/store/postgres"
	grpcTransport "medbook/backend/internal/transport/grpc"
	"medbook/backend/internal/transport/rest"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and gRPC servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

type repositories struct {
	practitioners store.PractitionerRepository
	schedules     store.ScheduleRepository
	reservations  store.ReservationRepository
	db            *bun.DB
}

func (r repositories) close(log *slog.Logger) {
	if err := postgres.Close(r.db); err != nil {
		log.Warn("database close failed", slog.Any("err", err))
	}
}

func openRepositories(ctx context.Context, cfg config.Config, log *slog.Logger) (repositories, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		log.Warn("using in-memory store; data is lost on exit")
		mem := memory.New()
		return repositories{practitioners: mem, schedules: mem, reservations: mem}, nil
	}

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return repositories{}, err
	}
	return repositories{
		practitioners: postgres.NewPractitionerRepo(db),
		schedules:     postgres.NewScheduleRepo(db),
		reservations:  postgres.NewReservationRepo(db),
		db:            db,
	}, nil
}

func openDatabase(ctx context.Context, cfg config.Config, log *slog.Logger) (*bun.DB, error) {
	log.Info("connecting to database", databaseLogArgs(cfg.DatabaseURL)...)
	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		args := append([]any{slog.Any("err", err)}, databaseLogArgs(cfg.DatabaseURL)...)
		log.Error("database connection failed", args...)
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

func runServer(ctx context.Context) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	log.Info("starting",
		slog.String("http_addr", cfg.HTTPAddr),
		slog.String("grpc_addr", cfg.GRPCAddr()),
		slog.String("store", cfg.StoreDriver),
		slog.String("log_level", cfg.LogLevel),
	)

	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer repos.close(log)

	creds, err := auth.NewJWTStore(auth.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	})
	if err != nil {
		return err
	}

	svc := booking.NewService(repos.practitioners, repos.schedules, repos.reservations, time.Now)

	grpcServer, healthServer := grpcTransport.NewServer(svc, creds, log, grpcTransport.Options{
		RequestTimeout: cfg.GRPCRequestTimeout,
	})
	httpServer := rest.NewServer(svc, creds, log, rest.Options{
		RequestTimeout: cfg.HTTPRequestTimeout,
		RateLimit: rest.RateLimit{
			RPS:       cfg.RateLimitRPS,
			Burst:     cfg.RateLimitBurst,
			ExpiresIn: cfg.RateLimitExpiresIn,
		},
	})

	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		log.Error("grpc listen failed", slog.Any("err", err), slog.String("grpc_addr", cfg.GRPCAddr()))
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	go func() {
		if err := httpServer.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	log.Info("servers started", slog.String("grpc_addr", cfg.GRPCAddr()), slog.String("http_addr", cfg.HTTPAddr))

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case runErr = <-errCh:
		log.Error("server stopped with error", slog.Any("err", runErr))
	}

	shutdown(log, grpcServer, healthServer, httpServer, cfg.ShutdownTimeout)
	return runErr
}

func shutdown(log *slog.Logger, s *grpc.Server, hs *health.Server, e *echo.Echo, timeout time.Duration) {
	log.Info("shutting down servers", slog.Duration("timeout", timeout))
	hs.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Warn("http graceful shutdown failed", slog.Any("err", err))
	}

	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("grpc server stopped")
	case <-ctx.Done():
		log.Warn("grpc graceful shutdown timed out; forcing stop")
		s.Stop()
	}
}
