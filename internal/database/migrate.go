package database

import (
	"fmt"
	"log/slog"

	"github.com/seeek/portfolio/backend/internal/models"
	"gorm.io/gorm"
)

// RunMigrations creates or extends the users and portfolios tables
func RunMigrations(db *gorm.DB) error {
	slog.Info("running auto-migration", slog.String("dialect", db.Dialector.Name()))
	if err := db.AutoMigrate(&models.User{}, &models.Portfolio{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
