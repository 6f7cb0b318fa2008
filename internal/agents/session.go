package agents

import (
	"sync"
	"time"

	"trading-agents-go/internal/marketdata"
)

// Session is the session-scoped context for one symbol's analysis run. It
// holds the gathered market data and each completed step's result, and is
// passed explicitly into every component call instead of living in globals.
// The dashboard polls it concurrently with the pipeline, hence the lock.
type Session struct {
	Symbol    string
	Snapshot  *marketdata.Snapshot
	StartedAt time.Time

	mu      sync.RWMutex
	results map[Step]*Result
}

// NewSession creates a session for a symbol with its gathered data.
func NewSession(symbol string, snapshot *marketdata.Snapshot) *Session {
	return &Session{
		Symbol:    symbol,
		Snapshot:  snapshot,
		StartedAt: time.Now(),
		results:   make(map[Step]*Result),
	}
}

// Result returns the validated result of a completed step, if any.
func (s *Session) Result(step Step) (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[step]
	return r, ok
}

// Results returns a copy of all completed step results.
func (s *Session) Results() map[Step]*Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[Step]*Result, len(s.results))
	for step, r := range s.results {
		out[step] = r
	}
	return out
}

func (s *Session) setResult(step Step, r *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[step] = r
}

// missingPrerequisite returns the first declared prerequisite of step that has
// not produced output yet.
func (s *Session) missingPrerequisite(step Step) (Step, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, dep := range prerequisites[step] {
		if _, ok := s.results[dep]; !ok {
			return dep, true
		}
	}
	return "", false
}
