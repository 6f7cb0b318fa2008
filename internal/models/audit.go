package models

import "gorm.io/gorm"

// AuditEntry is the compliance record for a single agent action.
// Rows are append-only and never updated or deleted.
type AuditEntry struct {
	gorm.Model
	Symbol           string  `json:"symbol"`
	DecisionType     string  `json:"decision_type"` // "STRATEGY", "RISK", "REGULATORY" or "SUPERVISOR"
	Action           string  `json:"action"`
	Confidence       float64 `json:"confidence"`
	Rationale        string  `json:"rationale"`
	ComplianceStatus string  `json:"compliance_status,omitempty"`
	RiskLevel        string  `json:"risk_level,omitempty"`
	PositionSize     string  `json:"position_size,omitempty"`
	BlockedTrades    string  `json:"blocked_trades,omitempty"`
	Timestamp        int64   `json:"timestamp"`
}

func (AuditEntry) TableName() string {
	return "audit_trail"
}
