package infra

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"globetrotter/internal/config"
	"globetrotter/internal/models/db_models"
	"globetrotter/pkg/logger"
)

func InitPostgresql(cfg config.DatabaseConfig) (*gorm.DB, error) {
	log := logger.GetLogger()

	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(log),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	connectionPool, err := gorm.Open(postgres.Open(cfg.URL), gormCfg)
	if err != nil {
		log.Errorw("Error connecting to database", "error", err)
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := connectionPool.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Infow("Connected to PostgreSQL")
	return connectionPool, nil
}

// Migrate creates or updates every table the application owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(db_models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Ping reports whether the database answers within ctx.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func ClosePostgresql(db *gorm.DB) {
	log := logger.GetLogger()
	sqlDB, err := db.DB()
	if err != nil {
		log.Errorw("Error getting database instance", "error", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Errorw("Error closing database connection", "error", err)
	} else {
		log.Infow("PostgreSQL database connection closed successfully")
	}
}
