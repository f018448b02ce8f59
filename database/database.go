package database

import (
	"fmt"
	"time"

	"eventsdiscovery/internal/domain/events"
	"eventsdiscovery/internal/domain/users"
	"eventsdiscovery/internal/domain/venues"
	"eventsdiscovery/internal/logging"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB connects, enables pgcrypto and migrates the schema.
func InitDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// REQUIRED for UUID generation
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return nil, fmt.Errorf("enable pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&users.User{},
		&venues.Venue{},
		&events.Event{},
	); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	logging.Info().Msg("connected and migrated")
	return db, nil
}

type zerologWriter struct{}

func (zerologWriter) Printf(format string, args ...interface{}) {
	logging.Warn().Str("component", "gorm").Msgf(format, args...)
}

func newGormLogger() logger.Interface {
	return logger.New(zerologWriter{}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}
