package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/carelink/backend/internal/adapters/database"
	"github.com/carelink/backend/internal/application/services"
	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/infrastructure/auth"
	"github.com/carelink/backend/internal/infrastructure/clients/postgres"
	"github.com/carelink/backend/pkg/config"
	apperrors "github.com/carelink/backend/pkg/errors"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo users, an appointment, a payment and a blog post",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			reset, _ := cmd.Flags().GetBool("reset")
			return runSeed(cmd.Context(), cfg, reset || os.Getenv("RESET_DB") == "true")
		},
	}
	cmd.Flags().Bool("reset", false, "Truncate all tables before seeding")
	return cmd
}

type seedUser struct {
	name, email, password string
	role                  entities.UserRole
}

var seedUsers = []seedUser{
	{"CareLink Admin", "admin@carelink.test", "admin123", entities.RoleAdmin},
	{"Grace Nurse", "nurse@carelink.test", "nurse123", entities.RoleNurse},
	{"Paul Patient", "patient@carelink.test", "patient123", entities.RolePatient},
}

func runSeed(ctx context.Context, cfg *config.Config, reset bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	if _, err := runMigrations(ctx, pgClient, cfg.Database.MigrationsDir); err != nil {
		return err
	}

	if reset {
		log.Warn().Msg("truncating tables before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				notifications,
				nurse_payments,
				payments,
				appointments,
				blogs,
				contact_messages,
				users
			RESTART IDENTITY CASCADE
		`); err != nil {
			return err
		}
	}

	userRepo := database.NewUserAdapter(pgClient)
	userService := services.NewUserService(
		userRepo,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		auth.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		cfg.Auth.LoginURL,
	)

	ids := make(map[entities.UserRole]int64, len(seedUsers))
	for _, u := range seedUsers {
		user, _, err := userService.Create(ctx, services.NewUserInput{
			Name:     u.name,
			Email:    u.email,
			Password: u.password,
			Role:     u.role,
		})
		if apperrors.IsType(err, apperrors.ErrorTypeConflict) {
			if user, err = userRepo.GetByEmail(ctx, u.email); err != nil {
				return err
			}
			log.Info().Str("email", u.email).Msg("user already seeded")
		} else if err != nil {
			return err
		}
		ids[u.role] = user.ID
	}

	nurseID := ids[entities.RoleNurse]
	appt, err := services.NewAppointmentService(database.NewAppointmentAdapter(pgClient)).Create(ctx, services.NewAppointmentInput{
		PatientID:       ids[entities.RolePatient],
		NurseID:         &nurseID,
		AppointmentDate: time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour),
		Status:          entities.AppointmentStatusApproved,
	})
	if err != nil {
		return err
	}

	appointmentID := appt.ID
	if err := services.NewPaymentService(database.NewPaymentAdapter(pgClient)).Create(ctx, &entities.Payment{
		PatientID:     ids[entities.RolePatient],
		AppointmentID: &appointmentID,
		Amount:        100,
		Status:        entities.PaymentStatusPaid,
	}); err != nil {
		return err
	}

	blog, err := services.NewBlogService(database.NewBlogAdapter(pgClient), nil).Sample(ctx, ids[entities.RoleAdmin])
	if err != nil {
		return err
	}

	log.Info().
		Int64("appointment_id", appt.ID).
		Int64("blog_id", blog.ID).
		Int("users", len(seedUsers)).
		Msg("seed complete")
	return nil
}
