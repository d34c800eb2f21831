package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/zhouzirui/mood-journal/backend/internal/config"
	"github.com/zhouzirui/mood-journal/backend/internal/logger"
	"github.com/zhouzirui/mood-journal/backend/internal/model/journal"
)

// Open connects to the configured store and creates the schema if absent.
func Open(cfg config.DatabaseConfig, log *logger.Logger) (*gorm.DB, error) {
	log = log.With("component", "database", "driver", cfg.Driver)

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// one writer keeps sqlite from returning SQLITE_BUSY under concurrent submits
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database ready", "dsn", redactDSN(cfg))
	return db, nil
}

// Migrate creates the conversation and message tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&journal.Conversation{}, &journal.Message{}); err != nil {
		return fmt.Errorf("auto-migrate journal schema: %w", err)
	}
	return nil
}

// Ping checks that the underlying connection is usable.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func redactDSN(cfg config.DatabaseConfig) string {
	if cfg.Driver == "sqlite" {
		return cfg.DSN
	}
	return "[redacted]"
}
