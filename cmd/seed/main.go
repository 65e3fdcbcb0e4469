package main

import (
	"context"
	"errors"
	"os"
	"time"

	"ambeauty/internal/config"
	"ambeauty/internal/database"
	"ambeauty/internal/domain"
	"ambeauty/internal/modules/auth"
	"ambeauty/internal/modules/slot"
	jwtsvc "ambeauty/internal/pkg/jwt"
	"ambeauty/internal/pkg/logging"
	"ambeauty/internal/repository"

	"github.com/spf13/pflag"
)

func main() {
	var (
		dsn           = pflag.String("dsn", envOr("DATABASE_URL", "ambeauty.db"), "database DSN (postgres:// or sqlite file)")
		scheduleFile  = pflag.String("schedule", os.Getenv("SCHEDULE_FILE"), "schedule YAML; empty uses the built-in catalog")
		from          = pflag.String("from", time.Now().Format(domain.DateLayout), "first day to seed (YYYY-MM-DD)")
		days          = pflag.Int("days", 14, "number of days to seed")
		skipSunday    = pflag.Bool("skip-sunday", true, "do not create slots on Sundays")
		adminEmail    = pflag.String("admin-email", os.Getenv("ADMIN_EMAIL"), "admin account to create or reset")
		adminPassword = pflag.String("admin-password", os.Getenv("ADMIN_PASSWORD"), "password for --admin-email")
	)
	pflag.Parse()

	logger := logging.New("info").With("app", "ambeauty-seed")
	ctx := context.Background()

	start, err := time.Parse(domain.DateLayout, *from)
	if err != nil || *days <= 0 {
		logger.Error("invalid --from or --days", "from", *from, "days", *days)
		os.Exit(2)
	}

	schedule, err := config.LoadSchedule(*scheduleFile)
	if err != nil {
		fatal(logger, "load schedule", err)
	}

	db, err := database.Connect(*dsn, logger)
	if err != nil {
		fatal(logger, "connect database", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		fatal(logger, "migrate", err)
	}

	// Tokens are never issued here.
	authService := auth.NewService(repository.NewUserRepository(db), jwtsvc.New("seed", time.Hour))
	admin := domain.Principal{Role: domain.RoleAdmin}
	if *adminEmail != "" {
		u, err := authService.EnsureAdmin(ctx, *adminEmail, *adminPassword)
		if err != nil {
			fatal(logger, "ensure admin", err)
		}
		admin.UserID = u.ID
		logger.Info("admin account ready", "email", u.Email)
	}

	slots := slot.NewService(repository.NewTimeSlotRepository(db), schedule, nil)

	created, skipped := 0, 0
	for d := 0; d < *days; d++ {
		day := start.AddDate(0, 0, d)
		if *skipSunday && day.Weekday() == time.Sunday {
			continue
		}
		date := day.Format(domain.DateLayout)
		for _, at := range slots.Schedule().SlotTimes {
			_, err := slots.CreateSlot(ctx, admin, slot.CreateSlotRequest{Date: date, Time: at})
			switch {
			case err == nil:
				created++
			case errors.Is(err, slot.ErrSlotExists):
				skipped++
			default:
				fatal(logger, "create slot "+date+" "+at, err)
			}
		}
	}

	logger.Info("seed complete", "created", created, "existing", skipped)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(logger *logging.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
