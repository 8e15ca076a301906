package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"secret-santa-backend/internal/config"
	"secret-santa-backend/internal/models"
)

func Connect(cfg *config.Config) *gorm.DB {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
		)
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}

	logrus.WithField("driver", cfg.DBDriver).Info("database connected")
	return db
}

func AutoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Room{},
		&models.Participant{},
		&models.Pairing{},
	)
	if err != nil {
		logrus.Fatalf("failed to auto-migrate: %v", err)
	}
	logrus.Info("database migrated")
}
