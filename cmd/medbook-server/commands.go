package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"medbook/backend/internal/auth"
	"medbook/backend/internal/config"
	"medbook/backend/internal/domain"
	"medbook/backend/internal/service/booking"
	"medbook/backend/internal/store/postgres"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	for _, sub := range []struct {
		command postgres.MigrateCommand
		short   string
	}{
		{postgres.MigrateUp, "Apply pending migrations"},
		{postgres.MigrateDown, "Roll back the latest migration"},
		{postgres.MigrateStatus, "Show migration status"},
	} {
		migrate := sub.command
		cmd.AddCommand(&cobra.Command{
			Use:   string(migrate),
			Short: sub.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, log, err := loadConfig()
				if err != nil {
					return err
				}
				if cfg.StoreDriver != config.StoreDriverPostgres {
					return fmt.Errorf("migrate requires the postgres store, got %q", cfg.StoreDriver)
				}

				ctx := cmd.Context()
				db, err := openDatabase(ctx, cfg, log)
				if err != nil {
					return err
				}
				defer func() { _ = postgres.Close(db) }()

				if err := postgres.Migrate(ctx, db.DB, migrate); err != nil {
					return err
				}
				version, err := postgres.Version(ctx, db.DB)
				if err != nil {
					return err
				}
				log.Info("migrate finished", slog.String("command", string(migrate)), slog.Int64("version", version))
				return nil
			},
		})
	}
	return cmd
}

func seedPractitionerCmd() *cobra.Command {
	var (
		userID    string
		specialty string
		clinicID  string
	)
	cmd := &cobra.Command{
		Use:   "seed-practitioner",
		Short: "Create a practitioner profile for an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.StoreDriver != config.StoreDriverPostgres {
				return fmt.Errorf("seed-practitioner requires the postgres store, got %q", cfg.StoreDriver)
			}

			in := booking.RegisterPractitionerInput{Specialty: specialty}
			if in.UserID, err = uuid.Parse(userID); err != nil {
				return fmt.Errorf("--user-id: %w", err)
			}
			if clinicID != "" {
				id, err := uuid.Parse(clinicID)
				if err != nil {
					return fmt.Errorf("--clinic-id: %w", err)
				}
				in.ClinicID = &id
			}

			ctx := cmd.Context()
			repos, err := openRepositories(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer repos.close(log)

			svc := booking.NewService(repos.practitioners, repos.schedules, repos.reservations, time.Now)
			p, err := svc.RegisterPractitioner(ctx, in)
			if err != nil {
				return err
			}
			log.Info("practitioner created",
				slog.String("practitioner_id", p.ID.String()),
				slog.String("user_id", p.UserID.String()),
				slog.String("specialty", p.Specialty),
			)
			fmt.Fprintln(cmd.OutOrStdout(), p.ID.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "User id owning the profile")
	cmd.Flags().StringVar(&specialty, "specialty", "", "Specialty, General when empty")
	cmd.Flags().StringVar(&clinicID, "clinic-id", "", "Optional clinic reference")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

// issueTokenCmd signs a bearer token with the configured secret. Useful for
// local testing against a development server.
func issueTokenCmd() *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Sign a bearer token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			actor := domain.Actor{}
			if actor.UserID, err = uuid.Parse(userID); err != nil {
				return fmt.Errorf("--user-id: %w", err)
			}
			if actor.Role, err = domain.ParseRole(role); err != nil {
				return fmt.Errorf("--role: %w", err)
			}

			creds, err := auth.NewJWTStore(auth.JWTConfig{
				Secret:   []byte(cfg.JWTSecret),
				Issuer:   cfg.JWTIssuer,
				Audience: cfg.JWTAudience,
			})
			if err != nil {
				return err
			}
			token, err := creds.Issue(actor, ttl, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "Subject user id")
	cmd.Flags().StringVar(&role, "role", string(domain.RolePatient), "patient, practitioner or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
