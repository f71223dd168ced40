package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/pageza/glucolink/backend/config"
	"github.com/pageza/glucolink/backend/internal/apperrors"
	"github.com/pageza/glucolink/backend/internal/database"
	"github.com/pageza/glucolink/backend/internal/logger"
	"github.com/pageza/glucolink/backend/internal/models"
	"github.com/pageza/glucolink/backend/internal/repository"
	"github.com/pageza/glucolink/backend/internal/service"
	"github.com/pageza/glucolink/backend/internal/types"
)

const password = "testpassword123"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store := repository.NewGormStore(db)
	access := service.NewAccessResolver(store)
	auth := service.NewAuthService(store, cfg.JWTSecret, cfg.JWTExpiry)
	profiles := service.NewProfileService(store, nil)
	links := service.NewLinkService(store, store)
	glucose := service.NewGlucoseService(store, access)

	patient := ensureAccount(ctx, auth, "maria.patient@example.com", "Maria Patient", "patient")
	guardian := ensureAccount(ctx, auth, "joao.guardian@example.com", "João Guardian", "guardian")

	code, err := profiles.RegenerateInvitationCode(ctx, patient)
	if err != nil {
		logger.Error("failed to generate invitation code", "error", err)
		os.Exit(1)
	}
	if _, err := links.LinkByCode(ctx, guardian, code); err != nil && !errors.Is(err, apperrors.ErrAlreadyLinked) {
		logger.Error("failed to link accounts", "error", err)
		os.Exit(1)
	}

	now := time.Now()
	readings := []struct {
		glucose string
		insulin string
		ago     time.Duration
	}{
		{"95", "", 72 * time.Hour},
		{"182", "6", 50 * time.Hour},
		{"64", "", 30 * time.Hour},
		{"132", "4.5", 20 * time.Hour},
		{"248", "8", 6 * time.Hour},
		{"110", "", time.Hour},
	}
	for _, r := range readings {
		raw := service.RawReading{Glucose: r.glucose}
		if r.insulin != "" {
			insulin := r.insulin
			raw.Insulin = &insulin
		}
		at := now.Add(-r.ago)
		if _, err := glucose.CreateRecord(ctx, patient, raw, &at); err != nil {
			logger.Error("failed to add reading", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("seeded demo accounts",
		"patient", "maria.patient@example.com",
		"guardian", "joao.guardian@example.com",
		"password", password,
		"invitation_code", code,
	)
}

func ensureAccount(ctx context.Context, auth *service.AuthService, email, fullName, role string) types.Principal {
	var diabetesType *string
	if role == string(models.RolePatient) {
		dt := string(models.DiabetesType1)
		diabetesType = &dt
	}

	user, err := auth.Register(ctx, &types.RegisterRequest{
		Email:        email,
		Password:     password,
		FullName:     fullName,
		Role:         role,
		DiabetesType: diabetesType,
	})
	if err == nil {
		return types.Principal{UserID: user.ID, Role: user.Profile.Role}
	}
	if !errors.Is(err, apperrors.ErrEmailTaken) {
		logger.Error("failed to register account", "email", email, "error", err)
		os.Exit(1)
	}

	user, profile, err := auth.Login(ctx, email, password)
	if err != nil {
		logger.Error("existing account has a different password", "email", email, "error", err)
		os.Exit(1)
	}
	return types.Principal{UserID: user.ID, Role: profile.Role}
}
