package marketdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"trading-agents-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeQuoteSource is a scriptable QuoteProvider.
type fakeQuoteSource struct {
	name  string
	quote *Quote
	err   error
	calls int
}

func (f *fakeQuoteSource) Name() string { return f.name }

func (f *fakeQuoteSource) Quote(ctx context.Context, symbol string) (*Quote, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.quote, nil
}

type fakeNewsSource struct {
	bundle *NewsBundle
	err    error
}

func (f *fakeNewsSource) Name() string { return "fake-news" }

func (f *fakeNewsSource) News(ctx context.Context, symbol string) (*NewsBundle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bundle, nil
}

func newTestGateway(cache *Cache, quotes []QuoteProvider, news NewsProvider) *Gateway {
	return NewGatewayWithSources(cache, zap.NewNop(), quotes, nil, news)
}

func TestGatewayFallbackOrder(t *testing.T) {
	primary := &fakeQuoteSource{name: "primary", err: errors.New("connection refused")}
	secondary := &fakeQuoteSource{name: "secondary", err: ErrRateLimited}
	fallback := &fakeQuoteSource{name: "fallback", quote: &Quote{Symbol: "AAPL", Price: 150.0, Source: "fallback"}}

	cache := NewCache(&config.Cache{QuoteTTL: 60, FundamentalsTTL: 3600, NewsTTL: 1800})
	gw := newTestGateway(cache, []QuoteProvider{primary, secondary, fallback}, &fakeNewsSource{})

	quote, err := gw.Quote(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "fallback", quote.Source)
	assert.Equal(t, 150.0, quote.Price)

	// Every earlier source was tried exactly once; rate limit, auth and
	// network failures are all treated the same way.
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestGatewayServesFreshCacheWithoutFetching(t *testing.T) {
	source := &fakeQuoteSource{name: "primary", quote: &Quote{Symbol: "AAPL", Price: 150.0}}
	cache := NewCache(&config.Cache{QuoteTTL: 60, FundamentalsTTL: 3600, NewsTTL: 1800})
	gw := newTestGateway(cache, []QuoteProvider{source}, &fakeNewsSource{})

	_, err := gw.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	_, err = gw.Quote(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls, "second read should hit the cache")
}

func TestGatewayExpiredCacheAsLastResort(t *testing.T) {
	source := &fakeQuoteSource{name: "primary", quote: &Quote{Symbol: "AAPL", Price: 150.0}}
	cache := NewCache(&config.Cache{QuoteTTL: 60, FundamentalsTTL: 3600, NewsTTL: 1800})
	now := time.Now()
	cache.now = func() time.Time { return now }

	gw := newTestGateway(cache, []QuoteProvider{source}, &fakeNewsSource{})

	_, err := gw.Quote(context.Background(), "AAPL")
	require.NoError(t, err)

	// The entry expires and the only live source starts failing.
	now = now.Add(48 * time.Hour)
	source.err = errors.New("network is unreachable")
	source.quote = nil

	quote, err := gw.Quote(context.Background(), "AAPL")
	require.NoError(t, err, "stale cache must be served when all live sources fail")
	assert.Equal(t, 150.0, quote.Price)
	assert.Equal(t, 2, source.calls, "the live source is still tried before falling back")
}

func TestGatewayNoDataWhenNothingEverCached(t *testing.T) {
	source := &fakeQuoteSource{name: "primary", err: ErrAuthFailed}
	cache := NewCache(&config.Cache{QuoteTTL: 60, FundamentalsTTL: 3600, NewsTTL: 1800})
	gw := newTestGateway(cache, []QuoteProvider{source}, &fakeNewsSource{})

	_, err := gw.Quote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestGatewayNewsPathIsIndependent(t *testing.T) {
	quoteSource := &fakeQuoteSource{name: "primary", quote: &Quote{Symbol: "AAPL", Price: 150.0}}
	news := &fakeNewsSource{err: errors.New("tavily down")}
	cache := NewCache(&config.Cache{QuoteTTL: 60, FundamentalsTTL: 3600, NewsTTL: 1800})
	gw := newTestGateway(cache, []QuoteProvider{quoteSource}, news)

	// News failing does not block the quote path.
	quote, err := gw.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 150.0, quote.Price)

	_, err = gw.News(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrNoData)

	// And the other way around: quotes failing does not block news.
	quoteSource.err = errors.New("down")
	news.err = nil
	news.bundle = &NewsBundle{Symbol: "AAPL", Articles: []Article{{Title: "Apple beats estimates"}}}

	bundle, err := gw.News(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Len(t, bundle.Articles, 1)
}

func TestGatewaySnapshotToleratesPartialFailure(t *testing.T) {
	quoteSource := &fakeQuoteSource{name: "primary", quote: &Quote{Symbol: "AAPL", Price: 150.0, Volume: 1_000_000}}
	cache := NewCache(&config.Cache{QuoteTTL: 60, FundamentalsTTL: 3600, NewsTTL: 1800})
	gw := newTestGateway(cache, []QuoteProvider{quoteSource}, &fakeNewsSource{err: errors.New("down")})

	snap := gw.Snapshot(context.Background(), "AAPL")
	require.NotNil(t, snap)
	assert.Equal(t, "AAPL", snap.Symbol)
	require.NotNil(t, snap.Quote)
	assert.Equal(t, 150.0, snap.Quote.Price)
	assert.Nil(t, snap.Fundamentals, "no fundamentals chain configured")
	assert.Nil(t, snap.News)
}
