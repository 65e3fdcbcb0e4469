package database

import (
	"fmt"
	"strings"
	"time"

	"ambeauty/internal/pkg/logging"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Connect opens PostgreSQL for postgres:// DSNs and SQLite otherwise.
func Connect(dsn string, logger *logging.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = logging.Default()
	}
	cfg := &gorm.Config{Logger: newGormLogger(logger)}

	if IsPostgres(dsn) {
		logger.Info("connecting to postgres")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	logger.Info("using sqlite for local development", "dsn", dsn)

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
	if err != nil {
		return nil, err
	}

	// SQLite has a single writer; one connection also keeps :memory: databases alive.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}
	return db, nil
}

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// gormWriter sends gorm's slow-query and error lines to the JSON logger.
type gormWriter struct {
	logger *logging.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "gorm")
}

// Missing rows are an expected outcome for lookups, not a database error.
func newGormLogger(logger *logging.Logger) gormlogger.Interface {
	return gormlogger.New(gormWriter{logger: logger}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
