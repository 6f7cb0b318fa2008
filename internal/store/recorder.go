package store

import (
	"errors"
	"time"

	"trading-agents-go/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Outcome is what a write attempt resolved to. Callers branch on it instead
// of handling storage errors: none of these is an error condition.
type Outcome string

const (
	// OutcomeWritten means the row is durable.
	OutcomeWritten Outcome = "written"

	// OutcomeDuplicateIgnored means a uniqueness constraint absorbed the
	// write. For trading_decisions this is the expected one-row-per-
	// symbol-per-day pattern, not a failure.
	OutcomeDuplicateIgnored Outcome = "duplicate_ignored"

	// OutcomeUnavailable means storage could not be reached. The caller
	// keeps operating without durability.
	OutcomeUnavailable Outcome = "unavailable"
)

// Recorder writes validated analysis results to the database, absorbing
// duplicate-key and connectivity errors so callers never crash on a write.
type Recorder struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewRecorder creates a recorder over an open database handle.
func NewRecorder(db *gorm.DB, logger *zap.Logger) *Recorder {
	return &Recorder{db: db, logger: logger, now: time.Now}
}

// SaveDecision persists a trading decision. The trading_decisions table is
// unique per (symbol, day): a second write for the same symbol on the same
// calendar day reports OutcomeDuplicateIgnored and leaves the first row
// untouched.
func (r *Recorder) SaveDecision(decision *models.TradingDecision) Outcome {
	if decision.Day == "" {
		decision.Day = r.now().Format("2006-01-02")
	}

	err := r.db.Create(decision).Error
	if err == nil {
		r.logger.Info("Saved trading decision",
			zap.String("symbol", decision.Symbol),
			zap.String("decision", decision.Decision),
			zap.String("agent", decision.AgentName),
		)
		return OutcomeWritten
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		r.logger.Info("Decision already recorded for symbol today, ignoring duplicate",
			zap.String("symbol", decision.Symbol),
			zap.String("day", decision.Day),
		)
		return OutcomeDuplicateIgnored
	}

	r.logger.Error("Storage unavailable for trading decision",
		zap.String("symbol", decision.Symbol), zap.Error(err))
	return OutcomeUnavailable
}

// SaveAudit appends a compliance audit entry. audit_trail has no uniqueness
// constraint; every validated action gets its own row.
func (r *Recorder) SaveAudit(entry *models.AuditEntry) Outcome {
	if entry.Timestamp == 0 {
		entry.Timestamp = r.now().Unix()
	}

	if err := r.db.Create(entry).Error; err != nil {
		r.logger.Error("Storage unavailable for audit entry",
			zap.String("symbol", entry.Symbol),
			zap.String("decision_type", entry.DecisionType),
			zap.Error(err))
		return OutcomeUnavailable
	}

	r.logger.Info("Saved audit entry",
		zap.String("symbol", entry.Symbol),
		zap.String("decision_type", entry.DecisionType),
		zap.String("action", entry.Action),
	)
	return OutcomeWritten
}

// SaveSignal appends a raw trading signal row.
func (r *Recorder) SaveSignal(signal *models.TradingSignal) Outcome {
	if signal.Timestamp == 0 {
		signal.Timestamp = r.now().Unix()
	}

	if err := r.db.Create(signal).Error; err != nil {
		r.logger.Error("Storage unavailable for trading signal",
			zap.String("symbol", signal.Symbol), zap.Error(err))
		return OutcomeUnavailable
	}
	return OutcomeWritten
}

// UpsertScreenedStock refreshes the dashboard row for a symbol, creating it
// on first sight and updating it in place afterwards.
func (r *Recorder) UpsertScreenedStock(stock *models.ScreenedStock) Outcome {
	stock.LastUpdated = r.now()

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"company_name", "current_price", "average_volume", "last_updated", "updated_at",
		}),
	}).Create(stock).Error
	if err != nil {
		r.logger.Error("Storage unavailable for screened stock",
			zap.String("symbol", stock.Symbol), zap.Error(err))
		return OutcomeUnavailable
	}
	return OutcomeWritten
}

// Decisions returns recent trading decisions, newest first.
func (r *Recorder) Decisions(symbol string, limit int) ([]models.TradingDecision, error) {
	var decisions []models.TradingDecision
	q := r.db.Order("created_at desc").Limit(limit)
	if symbol != "" {
		q = q.Where("symbol = ?", symbol)
	}
	if err := q.Find(&decisions).Error; err != nil {
		return nil, err
	}
	return decisions, nil
}

// AuditTrail returns recent audit entries, newest first.
func (r *Recorder) AuditTrail(symbol string, limit int) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	q := r.db.Order("timestamp desc").Limit(limit)
	if symbol != "" {
		q = q.Where("symbol = ?", symbol)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Signals returns recent trading signals, newest first.
func (r *Recorder) Signals(symbol string, limit int) ([]models.TradingSignal, error) {
	var signals []models.TradingSignal
	q := r.db.Order("timestamp desc").Limit(limit)
	if symbol != "" {
		q = q.Where("symbol = ?", symbol)
	}
	if err := q.Find(&signals).Error; err != nil {
		return nil, err
	}
	return signals, nil
}

// ScreenedStocks returns every screened symbol, most recently updated first.
func (r *Recorder) ScreenedStocks() ([]models.ScreenedStock, error) {
	var stocks []models.ScreenedStock
	if err := r.db.Order("last_updated desc").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}
