package models

import (
	"time"

	"gorm.io/gorm"
)

// ScreenedStock is the latest snapshot of a symbol shown on the dashboard.
// One row per symbol, refreshed in place on every analysis run.
type ScreenedStock struct {
	gorm.Model
	Symbol        string    `gorm:"uniqueIndex" json:"symbol"`
	CompanyName   string    `json:"company_name"`
	CurrentPrice  float64   `json:"current_price"`
	AverageVolume int64     `json:"average_volume"`
	LastUpdated   time.Time `json:"last_updated"`
}

func (ScreenedStock) TableName() string {
	return "screened_stocks"
}
