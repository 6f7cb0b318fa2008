package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"trading-agents-go/internal/agents"
	"trading-agents-go/internal/marketdata"
	"trading-agents-go/internal/models"
	"trading-agents-go/internal/store"

	"go.uber.org/zap"
)

// Advisor glues the pipeline together: it gathers market data through the
// gateway, runs the agent steps over a session, and hands validated results
// to the recorder. One session exists per symbol; a new analysis run
// supersedes the previous session for that symbol.
type Advisor struct {
	logger   *zap.Logger
	gateway  *marketdata.Gateway
	orch     *agents.Orchestrator
	recorder *store.Recorder

	mu       sync.RWMutex
	sessions map[string]*agents.Session
}

// New creates an advisor over the given components.
func New(logger *zap.Logger, gateway *marketdata.Gateway, orch *agents.Orchestrator, recorder *store.Recorder) *Advisor {
	return &Advisor{
		logger:   logger,
		gateway:  gateway,
		orch:     orch,
		recorder: recorder,
		sessions: make(map[string]*agents.Session),
	}
}

// Session returns the current session for a symbol, if one exists. The
// dashboard polls this to render per-step results as they complete.
func (a *Advisor) Session(symbol string) (*agents.Session, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.sessions[strings.ToUpper(strings.TrimSpace(symbol))]
	return s, ok
}

// StartSession gathers fresh market data for a symbol and opens a new
// session, replacing any previous one.
func (a *Advisor) StartSession(ctx context.Context, symbol string) *agents.Session {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	snapshot := a.gateway.Snapshot(ctx, symbol)
	session := agents.NewSession(symbol, snapshot)

	a.mu.Lock()
	a.sessions[symbol] = session
	a.mu.Unlock()

	a.logger.Info("Opened analysis session",
		zap.String("symbol", symbol),
		zap.Bool("has_quote", snapshot.Quote != nil),
		zap.Bool("has_fundamentals", snapshot.Fundamentals != nil),
		zap.Bool("has_news", snapshot.News != nil),
	)
	return session
}

// RunStep runs a single agent step against the symbol's current session.
// Prerequisite gating happens inside the orchestrator; there is no session
// auto-creation, so running a step before any analysis started is rejected.
func (a *Advisor) RunStep(ctx context.Context, symbol string, step agents.Step) (*agents.Result, error) {
	session, ok := a.Session(symbol)
	if !ok {
		return nil, fmt.Errorf("no analysis session for %s, start one first", symbol)
	}
	return a.orch.Run(ctx, session, step)
}

// Analyze runs the full agent chain for a symbol in dependency order. Agent
// invocations are sequential because each later agent consumes the output of
// earlier ones. A step failure does not stop the run: independent branches
// still execute, and dependent steps are refused by prerequisite gating.
// The session with all partial results is returned alongside any errors.
func (a *Advisor) Analyze(ctx context.Context, symbol string) (*agents.Session, error) {
	session := a.StartSession(ctx, symbol)

	var errs []error
	for _, step := range agents.AllSteps() {
		if _, err := a.orch.Run(ctx, session, step); err != nil {
			a.logger.Warn("Analysis step failed",
				zap.String("symbol", session.Symbol),
				zap.String("step", string(step)),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}

	return session, errors.Join(errs...)
}

// TradeReceipt reports the durability outcome of each table touched by an
// execute-trade action. OutcomeUnavailable entries mean the result is still
// on the session and visible in the UI, just not durable.
type TradeReceipt struct {
	Symbol     string        `json:"symbol"`
	Decision   store.Outcome `json:"decision"`
	Audit      store.Outcome `json:"audit"`
	Signal     store.Outcome `json:"signal,omitempty"`
	Screened   store.Outcome `json:"screened,omitempty"`
	ExecutedAt time.Time     `json:"executed_at"`
}

// ExecuteTrade is the user-initiated durable write, decoupled from analysis.
// It persists the supervisor's final decision and its audit entry, plus the
// strategy signal and a screened-stock refresh. All writes are attempted
// independently: a failure in one never blocks or rolls back another.
func (a *Advisor) ExecuteTrade(ctx context.Context, symbol string) (*TradeReceipt, error) {
	session, ok := a.Session(symbol)
	if !ok {
		return nil, fmt.Errorf("no analysis session for %s", symbol)
	}

	final, ok := session.Result(agents.StepFinalDecision)
	if !ok {
		return nil, &agents.PrerequisiteError{
			Step:    agents.StepFinalDecision,
			Missing: agents.StepFinalDecision,
		}
	}

	receipt := &TradeReceipt{Symbol: session.Symbol, ExecutedAt: time.Now()}

	receipt.Decision = a.recorder.SaveDecision(&models.TradingDecision{
		Symbol:     session.Symbol,
		Decision:   string(final.Decision),
		Confidence: final.Confidence,
		AgentName:  final.AgentName,
	})

	receipt.Audit = a.recorder.SaveAudit(&models.AuditEntry{
		Symbol:           session.Symbol,
		DecisionType:     agents.StepFinalDecision.DecisionType(),
		Action:           string(final.Decision),
		Confidence:       final.Confidence,
		Rationale:        final.Rationale,
		ComplianceStatus: string(final.ComplianceStatus),
		RiskLevel:        string(final.RiskLevel),
		PositionSize:     fmt.Sprintf("%.1f%%", final.PositionSizePercent),
		BlockedTrades:    final.BlockedTrades,
	})

	if signal, ok := session.Result(agents.StepTradingSignal); ok {
		receipt.Signal = a.recorder.SaveSignal(&models.TradingSignal{
			Symbol:     session.Symbol,
			SignalType: string(signal.Decision),
			Strategy:   signal.AgentName,
			Confidence: signal.Confidence,
		})
	}

	if snap := session.Snapshot; snap != nil && snap.Quote != nil {
		name := session.Symbol
		if snap.Fundamentals != nil && snap.Fundamentals.Name != "" {
			name = snap.Fundamentals.Name
		}
		receipt.Screened = a.recorder.UpsertScreenedStock(&models.ScreenedStock{
			Symbol:        session.Symbol,
			CompanyName:   name,
			CurrentPrice:  snap.Quote.Price,
			AverageVolume: snap.Quote.Volume,
		})
	}

	a.logger.Info("Trade executed",
		zap.String("symbol", session.Symbol),
		zap.String("decision", string(final.Decision)),
		zap.String("decision_outcome", string(receipt.Decision)),
		zap.String("audit_outcome", string(receipt.Audit)),
	)
	return receipt, nil
}

// Recorder exposes the persistence layer for the dashboard's read endpoints.
func (a *Advisor) Recorder() *store.Recorder {
	return a.recorder
}

// Gateway exposes the data source gateway for the dashboard's status endpoint.
func (a *Advisor) Gateway() *marketdata.Gateway {
	return a.gateway
}
