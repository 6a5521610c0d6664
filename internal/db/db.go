package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resto-suite-backend/config"
	"resto-suite-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// Models returns every persisted model, in migration order. Shared with tests
// so in-memory databases migrate the same schema.
func Models() []any {
	return []any{
		&model.Restaurant{},
		&model.Equipment{},
		&model.TemperatureReading{},
		&model.CleaningTask{},
		&model.CleaningCompletion{},
		&model.ShelfLifeItem{},
		&model.ShelfLifeEvent{},
		&model.ServiceWindow{},
		&model.DiningTable{},
		&model.Reservation{},
		&model.PushSubscription{},
	}
}
