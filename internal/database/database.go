package database

import (
	"fmt"

	"trading-agents-go/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase creates a new database connection and performs auto-migration.
// TranslateError is enabled so the store layer can detect duplicate-key
// violations via gorm.ErrDuplicatedKey instead of driver-specific errors.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates or updates the four persisted tables. Existing rows are
// never dropped; audit_trail in particular is append-only.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.TradingDecision{},
		&models.AuditEntry{},
		&models.TradingSignal{},
		&models.ScreenedStock{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}
