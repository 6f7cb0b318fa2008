package marketdata

import (
	"context"
	"errors"
)

// Provider error classes. The gateway treats all of them identically (log and
// advance to the next source), but clients report them distinctly so the logs
// say why a source was skipped.
var (
	// ErrRateLimited means the provider refused the request because the
	// API quota is exhausted.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrAuthFailed means the provider rejected the configured credentials.
	ErrAuthFailed = errors.New("provider authentication failed")

	// ErrNotConfigured means the provider has no credentials configured
	// and is skipped without a network call.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrNoData is returned by the gateway when every live source failed
	// and no cache entry was ever populated for the key.
	ErrNoData = errors.New("no data available from any source")
)

// QuoteProvider fetches the latest quote for a symbol.
type QuoteProvider interface {
	Name() string
	Quote(ctx context.Context, symbol string) (*Quote, error)
}

// FundamentalsProvider fetches the company overview for a symbol.
type FundamentalsProvider interface {
	Name() string
	Fundamentals(ctx context.Context, symbol string) (*Fundamentals, error)
}

// NewsProvider fetches recent news with sentiment scores for a symbol.
type NewsProvider interface {
	Name() string
	News(ctx context.Context, symbol string) (*NewsBundle, error)
}
