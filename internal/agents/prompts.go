package agents

import (
	"encoding/json"
	"fmt"
	"strings"
)

// systemPrompts give each agent its role. The output contract is shared:
// every agent answers with one JSON object matching the Result schema.
var systemPrompts = map[Step]string{
	StepMarketAnalysis: `You are a market data analyst. Review the quote, fundamentals and news
provided and summarize the technical and sentiment picture for the symbol.`,
	StepTradingSignal: `You are a signal generator. Derive a single actionable trading signal
from the market analysis and raw data provided.`,
	StepStrategy: `You are a trading strategist. Build on the market analysis to produce a
concrete trading recommendation with entry rationale.`,
	StepRiskAssessment: `You are a risk manager. Assess volatility, exposure and position sizing
for the recommendation produced so far. Prioritize capital preservation.`,
	StepCompliance: `You are a regulatory compliance officer. Review the proposed trading
activity for SEC Regulation M concerns and state whether trades must be blocked.
Set compliance_status and, when blocking, describe the blocked trades in blocked_trades.`,
	StepFinalDecision: `You are the supervising portfolio manager. Weigh every prior agent's
output and issue the final recommendation. Your decision is the one persisted.
Set compliance_status to reflect the compliance review and position_size_percent
to your sizing recommendation.`,
}

const outputContract = `Respond with exactly one JSON object and nothing else, with these fields:
  "decision":          "BUY" | "SELL" | "HOLD"
  "confidence":        number between 0 and 1
  "rationale":         short free-text explanation
  "risk_level":        "LOW" | "MEDIUM" | "HIGH"
  "compliance_status": "COMPLIANT" | "VIOLATION_DETECTED" | "REVIEW_REQUIRED" (optional)
  "position_size_percent": number 0-100 (optional)
  "blocked_trades":    free text (optional)`

// buildPrompt renders the system and user prompts for one step from the
// session's gathered data and the prerequisite results.
func buildPrompt(step Step, session *Session) (system, user string) {
	system = systemPrompts[step] + "\n\n" + outputContract

	var b strings.Builder
	fmt.Fprintf(&b, "Symbol: %s\n", session.Symbol)

	if snap := session.Snapshot; snap != nil {
		if snap.Quote != nil {
			quote, _ := json.Marshal(snap.Quote)
			fmt.Fprintf(&b, "\nLatest quote:\n%s\n", quote)
		}
		if snap.Fundamentals != nil {
			fund, _ := json.Marshal(snap.Fundamentals)
			fmt.Fprintf(&b, "\nFundamentals:\n%s\n", fund)
		}
		if snap.News != nil && step != StepCompliance {
			news, _ := json.Marshal(snap.News)
			fmt.Fprintf(&b, "\nRecent news:\n%s\n", news)
		}
	}

	for _, dep := range prerequisites[step] {
		if result, ok := session.Result(dep); ok {
			out, _ := json.Marshal(result)
			fmt.Fprintf(&b, "\nOutput of %s (%s):\n%s\n", dep, dep.AgentName(), out)
		}
	}

	return system, b.String()
}
