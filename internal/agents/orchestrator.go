package agents

import (
	"context"
	"strings"
	"time"

	"trading-agents-go/internal/llm"

	"go.uber.org/zap"
)

// maxAttempts bounds the retry-with-context loop. After this many schema
// failures the step surfaces a ValidationError instead of guessing a value.
const maxAttempts = 3

// Orchestrator runs the model-backed agents against a session and validates
// what comes back. Reasoning itself is delegated to the opaque Completer.
type Orchestrator struct {
	completer llm.Completer
	logger    *zap.Logger
}

// NewOrchestrator creates an orchestrator over a chat-completion backend.
func NewOrchestrator(completer llm.Completer, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{completer: completer, logger: logger}
}

// Run executes one analysis step for the session. It refuses to run a step
// whose prerequisites have not produced output, retries the model call up to
// maxAttempts times with the accumulated validation errors appended to the
// prompt, and records the validated result on the session.
func (o *Orchestrator) Run(ctx context.Context, session *Session, step Step) (*Result, error) {
	if missing, unmet := session.missingPrerequisite(step); unmet {
		o.logger.Warn("Refusing to run step with unmet prerequisite",
			zap.String("step", string(step)),
			zap.String("missing", string(missing)),
		)
		return nil, &PrerequisiteError{Step: step, Missing: missing}
	}

	l := o.logger.With(
		zap.String("symbol", session.Symbol),
		zap.String("step", string(step)),
		zap.String("agent", step.AgentName()),
	)
	l.Info("Running agent")

	system, user := buildPrompt(step, session)

	var causes []string
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		prompt := user
		if len(causes) > 0 {
			prompt = user + "\n\nYour previous response failed validation:\n- " +
				strings.Join(causes, "\n- ") +
				"\nReturn a corrected JSON object."
		}

		raw, err := o.completer.Complete(ctx, system, prompt)
		if err != nil {
			l.Warn("Model call failed", zap.Int("attempt", attempt), zap.Error(err))
			causes = append(causes, err.Error())
			continue
		}

		result, err := parseResult(raw)
		if err != nil {
			l.Warn("Model response unparsable", zap.Int("attempt", attempt), zap.Error(err))
			causes = append(causes, err.Error())
			continue
		}

		result.Symbol = session.Symbol
		result.Step = step
		result.AgentName = step.AgentName()
		result.ProducedAt = time.Now()

		if err := result.validate(); err != nil {
			l.Warn("Model response failed schema validation",
				zap.Int("attempt", attempt), zap.Error(err))
			causes = append(causes, err.Error())
			continue
		}

		session.setResult(step, result)
		l.Info("Agent produced validated result",
			zap.String("decision", string(result.Decision)),
			zap.Float64("confidence", result.Confidence),
			zap.Int("attempts", attempt),
		)
		return result, nil
	}

	return nil, &ValidationError{Step: step, Attempts: maxAttempts, Causes: causes}
}
