package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"trading-agents-go/internal/advisor"
	"trading-agents-go/internal/agents"

	"go.uber.org/zap"
)

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log *zap.Logger
	adv *advisor.Advisor
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, adv *advisor.Advisor) *APIHandler {
	return &APIHandler{log: log, adv: adv}
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// StatusHandler reports whether the service is up and how much is cached.
func (h *APIHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"cached_items": h.adv.Gateway().Cache().Len(),
	})
}

// AnalyzeHandler starts a full analysis run for a symbol. The run is
// synchronous; the response carries the per-step results.
func (h *APIHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}

	session, err := h.adv.Analyze(r.Context(), symbol)
	response := map[string]any{
		"symbol":  session.Symbol,
		"results": session.Results(),
	}
	if err != nil {
		// Partial results still render; the error explains what failed.
		response["error"] = err.Error()
	}
	h.writeJSON(w, http.StatusOK, response)
}

// StepHandler runs a single analysis step for a symbol. Prerequisite
// violations come back as 409 with the missing step named.
func (h *APIHandler) StepHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	symbol := r.URL.Query().Get("symbol")
	step, err := agents.ParseStep(r.URL.Query().Get("step"))
	if symbol == "" || err != nil {
		http.Error(w, "symbol and a valid step are required", http.StatusBadRequest)
		return
	}

	result, err := h.adv.RunStep(r.Context(), symbol, step)
	if err != nil {
		var prereq *agents.PrerequisiteError
		var invalid *agents.ValidationError
		switch {
		case errors.As(err, &prereq):
			h.writeJSON(w, http.StatusConflict, map[string]any{
				"error":   prereq.Error(),
				"missing": string(prereq.Missing),
			})
		case errors.As(err, &invalid):
			h.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":    invalid.Error(),
				"attempts": invalid.Attempts,
			})
		default:
			h.log.Error("Step run failed", zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// SessionHandler returns the per-step results of the symbol's current
// session. The dashboard polls this while steps run.
func (h *APIHandler) SessionHandler(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	session, ok := h.adv.Session(symbol)
	if !ok {
		http.Error(w, "no session for symbol", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"symbol":     session.Symbol,
		"started_at": session.StartedAt,
		"snapshot":   session.Snapshot,
		"results":    session.Results(),
	})
}

// ExecuteHandler performs the user-initiated durable write for the symbol's
// completed analysis.
func (h *APIHandler) ExecuteHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	symbol := r.URL.Query().Get("symbol")
	receipt, err := h.adv.ExecuteTrade(r.Context(), symbol)
	if err != nil {
		var prereq *agents.PrerequisiteError
		if errors.As(err, &prereq) {
			h.writeJSON(w, http.StatusConflict, map[string]any{"error": prereq.Error()})
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, receipt)
}

// DecisionsHandler returns recent persisted trading decisions.
func (h *APIHandler) DecisionsHandler(w http.ResponseWriter, r *http.Request) {
	decisions, err := h.adv.Recorder().Decisions(r.URL.Query().Get("symbol"), limitParam(r))
	if err != nil {
		h.log.Error("Failed to get decisions from database", zap.Error(err))
		http.Error(w, "Failed to get decisions", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, decisions)
}

// AuditHandler returns recent audit trail entries.
func (h *APIHandler) AuditHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := h.adv.Recorder().AuditTrail(r.URL.Query().Get("symbol"), limitParam(r))
	if err != nil {
		h.log.Error("Failed to get audit trail from database", zap.Error(err))
		http.Error(w, "Failed to get audit trail", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

// SignalsHandler returns recent trading signals.
func (h *APIHandler) SignalsHandler(w http.ResponseWriter, r *http.Request) {
	signals, err := h.adv.Recorder().Signals(r.URL.Query().Get("symbol"), limitParam(r))
	if err != nil {
		h.log.Error("Failed to get signals from database", zap.Error(err))
		http.Error(w, "Failed to get signals", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, signals)
}

// ScreenedHandler returns the screened stocks shown on the dashboard.
func (h *APIHandler) ScreenedHandler(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.adv.Recorder().ScreenedStocks()
	if err != nil {
		h.log.Error("Failed to get screened stocks from database", zap.Error(err))
		http.Error(w, "Failed to get screened stocks", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, stocks)
}

func limitParam(r *http.Request) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return 50
}
