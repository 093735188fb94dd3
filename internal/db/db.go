package db

import (
	"os"

	"linkden/internal/logger"
	"linkden/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=linkden port=5432 sslmode=disable"
	}

	var err error
	// TranslateError lets the vote ledger detect unique-index races as
	// gorm.ErrDuplicatedKey across drivers.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.L.Fatal("failed to connect to database", zap.Error(err))
	}

	logger.L.Info("database connection established")

	if err := models.AutoMigrate(DB); err != nil {
		logger.L.Fatal("failed to migrate database", zap.Error(err))
	}
	logger.L.Info("database migration completed")
}
