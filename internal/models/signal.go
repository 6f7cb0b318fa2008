package models

import "gorm.io/gorm"

// TradingSignal is a raw strategy signal, recorded before any supervisor
// review. Unlike trading_decisions there is no uniqueness constraint.
type TradingSignal struct {
	gorm.Model
	Symbol     string  `json:"symbol"`
	SignalType string  `json:"signal_type"`
	Strategy   string  `json:"strategy"`
	Confidence float64 `json:"confidence"`
	Timestamp  int64   `json:"timestamp"`
}

func (TradingSignal) TableName() string {
	return "trading_signals"
}
