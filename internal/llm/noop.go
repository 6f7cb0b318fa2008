package llm

import (
	"context"
	"encoding/json"
)

// NoopCompleter is the fallback used when no model backend is configured.
// It answers every prompt with a schema-valid HOLD so the rest of the
// pipeline stays exercisable offline.
type NoopCompleter struct{}

var _ Completer = (*NoopCompleter)(nil)

// NewNoopCompleter returns a completer that always decides HOLD with zero
// confidence.
func NewNoopCompleter() *NoopCompleter {
	return &NoopCompleter{}
}

// Complete implements the Completer interface.
func (n *NoopCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	out, _ := json.Marshal(map[string]any{
		"decision":   "HOLD",
		"confidence": 0.0,
		"rationale":  "no model backend configured",
		"risk_level": "LOW",
	})
	return string(out), nil
}
