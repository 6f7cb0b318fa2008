package agents

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Decision is the closed set of trading recommendations.
type Decision string

const (
	DecisionBuy  Decision = "BUY"
	DecisionSell Decision = "SELL"
	DecisionHold Decision = "HOLD"
)

// RiskLevel is the closed set of risk classifications.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// ComplianceStatus is the closed set of regulatory outcomes. It is only
// required from the compliance and final decision steps.
type ComplianceStatus string

const (
	ComplianceOK        ComplianceStatus = "COMPLIANT"
	ComplianceViolation ComplianceStatus = "VIOLATION_DETECTED"
	ComplianceReview    ComplianceStatus = "REVIEW_REQUIRED"
)

// Result is the validated output of one agent run. Decision and risk values
// outside their closed sets are rejected, never coerced; confidence is
// clamped into [0,1].
type Result struct {
	Symbol              string           `json:"symbol"`
	Step                Step             `json:"step"`
	AgentName           string           `json:"agent_name"`
	Decision            Decision         `json:"decision"`
	Confidence          float64          `json:"confidence"`
	Rationale           string           `json:"rationale"`
	RiskLevel           RiskLevel        `json:"risk_level"`
	ComplianceStatus    ComplianceStatus `json:"compliance_status,omitempty"`
	PositionSizePercent float64          `json:"position_size_percent,omitempty"`
	BlockedTrades       string           `json:"blocked_trades,omitempty"`
	ProducedAt          time.Time        `json:"produced_at"`
}

// parseResult decodes the raw model text into a Result. Models occasionally
// wrap JSON in a markdown fence despite instructions, so fences are stripped
// before decoding.
func parseResult(raw string) (*Result, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var result Result
	if err := json.Unmarshal([]byte(trimmed), &result); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}
	return &result, nil
}

// validate enforces the closed schema. It mutates only confidence (clamp);
// every other violation is an error the orchestrator feeds back to the model.
func (r *Result) validate() error {
	var problems []string

	switch r.Decision {
	case DecisionBuy, DecisionSell, DecisionHold:
	default:
		problems = append(problems,
			fmt.Sprintf("decision %q is not one of BUY, SELL, HOLD", r.Decision))
	}

	switch r.RiskLevel {
	case RiskLow, RiskMedium, RiskHigh:
	default:
		problems = append(problems,
			fmt.Sprintf("risk_level %q is not one of LOW, MEDIUM, HIGH", r.RiskLevel))
	}

	if r.ComplianceStatus != "" {
		switch r.ComplianceStatus {
		case ComplianceOK, ComplianceViolation, ComplianceReview:
		default:
			problems = append(problems,
				fmt.Sprintf("compliance_status %q is not one of COMPLIANT, VIOLATION_DETECTED, REVIEW_REQUIRED", r.ComplianceStatus))
		}
	}

	if r.Rationale == "" {
		problems = append(problems, "rationale must not be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}

	// Confidence is clamped rather than rejected.
	if r.Confidence < 0 {
		r.Confidence = 0
	}
	if r.Confidence > 1 {
		r.Confidence = 1
	}
	return nil
}
