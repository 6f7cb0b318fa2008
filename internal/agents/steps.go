package agents

import "fmt"

// Step identifies one analysis stage. The stages form a small fixed DAG:
// later agents consume the output of earlier ones, so the orchestrator
// refuses to run a step whose prerequisites have not produced output yet.
type Step string

const (
	StepMarketAnalysis Step = "market_analysis"
	StepTradingSignal  Step = "trading_signal"
	StepStrategy       Step = "strategy"
	StepRiskAssessment Step = "risk_assessment"
	StepCompliance     Step = "compliance"
	StepFinalDecision  Step = "final_decision"
)

// prerequisites declares the dependency edges. Order within a slice is the
// order missing prerequisites are reported in.
var prerequisites = map[Step][]Step{
	StepMarketAnalysis: nil,
	StepTradingSignal:  {StepMarketAnalysis},
	StepStrategy:       {StepMarketAnalysis},
	StepRiskAssessment: {StepMarketAnalysis, StepStrategy},
	StepCompliance:     {StepMarketAnalysis, StepStrategy, StepRiskAssessment},
	StepFinalDecision:  {StepMarketAnalysis, StepStrategy, StepRiskAssessment, StepCompliance},
}

// agentNames maps each step to the agent credited in persisted rows.
var agentNames = map[Step]string{
	StepMarketAnalysis: "market_analyst",
	StepTradingSignal:  "trading_signal",
	StepStrategy:       "strategy_agent",
	StepRiskAssessment: "risk_manager",
	StepCompliance:     "regulatory_agent",
	StepFinalDecision:  "supervisor",
}

// decisionTypes maps each step to the audit_trail decision_type tag.
var decisionTypes = map[Step]string{
	StepMarketAnalysis: "MARKET",
	StepTradingSignal:  "SIGNAL",
	StepStrategy:       "STRATEGY",
	StepRiskAssessment: "RISK",
	StepCompliance:     "REGULATORY",
	StepFinalDecision:  "SUPERVISOR",
}

// AllSteps returns every step in a valid execution order.
func AllSteps() []Step {
	return []Step{
		StepMarketAnalysis,
		StepTradingSignal,
		StepStrategy,
		StepRiskAssessment,
		StepCompliance,
		StepFinalDecision,
	}
}

// ParseStep validates a step name from an external caller.
func ParseStep(name string) (Step, error) {
	for _, s := range AllSteps() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown analysis step %q", name)
}

// AgentName returns the agent credited for a step.
func (s Step) AgentName() string {
	return agentNames[s]
}

// DecisionType returns the audit_trail tag for a step.
func (s Step) DecisionType() string {
	return decisionTypes[s]
}
