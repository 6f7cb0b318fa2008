package models

import "gorm.io/gorm"

// TradingDecision is one validated agent decision for a symbol.
// The composite unique index enforces one row per symbol per calendar day;
// Day is the decision date formatted as "2006-01-02".
type TradingDecision struct {
	gorm.Model
	Symbol     string  `gorm:"uniqueIndex:idx_symbol_day" json:"symbol"`
	Day        string  `gorm:"uniqueIndex:idx_symbol_day" json:"day"`
	Decision   string  `gorm:"not null" json:"decision"` // "BUY", "SELL" or "HOLD"
	Confidence float64 `json:"confidence"`
	AgentName  string  `json:"agent_name"`
}

// TableName keeps the historical table name.
func (TradingDecision) TableName() string {
	return "trading_decisions"
}
