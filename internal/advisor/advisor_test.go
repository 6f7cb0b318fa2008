package advisor

import (
	"context"
	"testing"
	"time"

	"trading-agents-go/internal/agents"
	"trading-agents-go/internal/config"
	"trading-agents-go/internal/database"
	"trading-agents-go/internal/marketdata"
	"trading-agents-go/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubQuotes serves a fixed quote for any symbol.
type stubQuotes struct{}

func (stubQuotes) Name() string { return "stub" }
func (stubQuotes) Quote(_ context.Context, symbol string) (*marketdata.Quote, error) {
	return &marketdata.Quote{
		Symbol: symbol,
		Price:  150.00,
		Volume: 1000000,
		AsOf:   time.Now(),
		Source: "stub",
	}, nil
}

type stubFundamentals struct{}

func (stubFundamentals) Name() string { return "stub" }
func (stubFundamentals) Fundamentals(_ context.Context, symbol string) (*marketdata.Fundamentals, error) {
	return &marketdata.Fundamentals{
		Symbol: symbol,
		Name:   "Apple Inc",
		Sector: "Technology",
		Source: "stub",
	}, nil
}

type stubNews struct{}

func (stubNews) Name() string { return "stub" }
func (stubNews) News(_ context.Context, symbol string) (*marketdata.NewsBundle, error) {
	return &marketdata.NewsBundle{
		Symbol: symbol,
		Articles: []marketdata.Article{
			{Title: "Apple announces results", URL: "https://example.com/a", Snippet: "solid quarter"},
		},
		FetchedAt: time.Now(),
	}, nil
}

// fixedCompleter answers every agent with the same valid recommendation.
type fixedCompleter struct {
	response string
}

func (c *fixedCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	return c.response, nil
}

func newTestAdvisor(t *testing.T) *Advisor {
	t.Helper()

	db, err := database.NewDatabase("file::memory:")
	require.NoError(t, err)

	logger := zap.NewNop()
	cache := marketdata.NewCache(&config.Cache{QuoteTTL: 60, FundamentalsTTL: 43200, NewsTTL: 1800})
	gateway := marketdata.NewGatewayWithSources(cache, logger,
		[]marketdata.QuoteProvider{stubQuotes{}},
		[]marketdata.FundamentalsProvider{stubFundamentals{}},
		stubNews{},
	)
	completer := &fixedCompleter{
		response: `{"decision": "BUY", "confidence": 0.8, "rationale": "strong momentum",
			"risk_level": "MEDIUM", "compliance_status": "COMPLIANT", "position_size_percent": 5}`,
	}
	orch := agents.NewOrchestrator(completer, logger)
	recorder := store.NewRecorder(db, logger)

	return New(logger, gateway, orch, recorder)
}

func TestAnalyzeFullChain(t *testing.T) {
	adv := newTestAdvisor(t)

	session, err := adv.Analyze(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", session.Symbol)

	require.NotNil(t, session.Snapshot.Quote)
	assert.Equal(t, 150.00, session.Snapshot.Quote.Price)
	assert.Equal(t, int64(1000000), session.Snapshot.Quote.Volume)

	// Every step produced a validated result.
	results := session.Results()
	require.Len(t, results, len(agents.AllSteps()))
	for _, step := range agents.AllSteps() {
		result, ok := session.Result(step)
		require.True(t, ok, "missing result for %s", step)
		assert.Contains(t, []agents.Decision{agents.DecisionBuy, agents.DecisionSell, agents.DecisionHold}, result.Decision)
		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 1.0)
	}

	final, _ := session.Result(agents.StepFinalDecision)
	assert.Equal(t, "supervisor", final.AgentName)

	// The same session is visible through the accessor for polling.
	polled, ok := adv.Session("AAPL")
	require.True(t, ok)
	assert.Same(t, session, polled)
}

func TestExecuteTrade(t *testing.T) {
	adv := newTestAdvisor(t)

	_, err := adv.Analyze(context.Background(), "AAPL")
	require.NoError(t, err)

	receipt, err := adv.ExecuteTrade(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeWritten, receipt.Decision)
	assert.Equal(t, store.OutcomeWritten, receipt.Audit)
	assert.Equal(t, store.OutcomeWritten, receipt.Signal)
	assert.Equal(t, store.OutcomeWritten, receipt.Screened)

	decisions, err := adv.Recorder().Decisions("AAPL", 10)
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.Equal(t, "BUY", decisions[0].Decision)
	assert.Equal(t, "supervisor", decisions[0].AgentName)

	entries, err := adv.Recorder().AuditTrail("AAPL", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "SUPERVISOR", entries[0].DecisionType)
	assert.Equal(t, "COMPLIANT", entries[0].ComplianceStatus)
	assert.Equal(t, "5.0%", entries[0].PositionSize)

	stocks, err := adv.Recorder().ScreenedStocks()
	require.NoError(t, err)
	require.Len(t, stocks, 1)
	assert.Equal(t, "Apple Inc", stocks[0].CompanyName)
	assert.Equal(t, 150.00, stocks[0].CurrentPrice)
}

func TestExecuteTradeSameDayTwice(t *testing.T) {
	adv := newTestAdvisor(t)

	_, err := adv.Analyze(context.Background(), "AAPL")
	require.NoError(t, err)

	first, err := adv.ExecuteTrade(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, store.OutcomeWritten, first.Decision)

	// Re-running analysis and executing again the same day: the decision is
	// absorbed by the one-per-day constraint but the audit row still lands.
	_, err = adv.Analyze(context.Background(), "AAPL")
	require.NoError(t, err)

	second, err := adv.ExecuteTrade(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeDuplicateIgnored, second.Decision)
	assert.Equal(t, store.OutcomeWritten, second.Audit)

	decisions, err := adv.Recorder().Decisions("AAPL", 10)
	require.NoError(t, err)
	assert.Len(t, decisions, 1)

	entries, err := adv.Recorder().AuditTrail("AAPL", 10)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestExecuteTradeRequiresFinalDecision(t *testing.T) {
	adv := newTestAdvisor(t)

	_, err := adv.ExecuteTrade(context.Background(), "AAPL")
	require.Error(t, err, "no session yet")

	adv.StartSession(context.Background(), "AAPL")
	_, err = adv.ExecuteTrade(context.Background(), "AAPL")
	require.Error(t, err)

	var perr *agents.PrerequisiteError
	require.ErrorAs(t, err, &perr)

	decisions, err := adv.Recorder().Decisions("AAPL", 10)
	require.NoError(t, err)
	assert.Empty(t, decisions, "refused execution must not write")
}

func TestRunStepGating(t *testing.T) {
	adv := newTestAdvisor(t)

	// No session yet: steps cannot run at all.
	_, err := adv.RunStep(context.Background(), "AAPL", agents.StepMarketAnalysis)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start one first")

	adv.StartSession(context.Background(), "AAPL")

	// Final decision on a fresh session is refused by prerequisite gating.
	_, err = adv.RunStep(context.Background(), "AAPL", agents.StepFinalDecision)
	var perr *agents.PrerequisiteError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, agents.StepMarketAnalysis, perr.Missing)

	// Running the chain step by step in order succeeds.
	for _, step := range agents.AllSteps() {
		result, err := adv.RunStep(context.Background(), "AAPL", step)
		require.NoError(t, err)
		assert.Equal(t, step, result.Step)
	}
}

func TestAnalyzeContinuesPastStepFailure(t *testing.T) {
	adv := newTestAdvisor(t)
	// Every response is garbage, so every step fails validation; Analyze must
	// still return the session with the snapshot attached.
	adv.orch = agents.NewOrchestrator(&fixedCompleter{response: "not json"}, zap.NewNop())

	session, err := adv.Analyze(context.Background(), "AAPL")
	require.Error(t, err)
	require.NotNil(t, session)
	assert.NotNil(t, session.Snapshot.Quote)
	assert.Empty(t, session.Results())

	_, werr := adv.ExecuteTrade(context.Background(), "AAPL")
	require.Error(t, werr)

	decisions, derr := adv.Recorder().Decisions("AAPL", 10)
	require.NoError(t, derr)
	assert.Empty(t, decisions)
}
