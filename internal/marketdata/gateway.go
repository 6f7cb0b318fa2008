package marketdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trading-agents-go/internal/config"

	"go.uber.org/zap"
)

// Gateway returns normalized market data for a symbol, trying sources in
// strict priority order and caching successful results. Remote failures never
// escape as panics or uncontrolled errors: every source error is logged and
// the next source is tried, and when all live sources fail the most recent
// cache entry is served regardless of expiry. Only a key that has never been
// populated yields ErrNoData.
type Gateway struct {
	logger        *zap.Logger
	cache         *Cache
	quoteChain    []QuoteProvider
	overviewChain []FundamentalsProvider
	news          NewsProvider
}

// NewGateway wires the default source chains from the configuration:
// Alpha Vantage -> RapidAPI -> Yahoo for quotes, Alpha Vantage -> Yahoo for
// fundamentals, Tavily for news.
func NewGateway(cfg *config.Config, logger *zap.Logger) *Gateway {
	av := NewAlphaVantageClient(&cfg.Providers.AlphaVantage, logger)
	rapid := NewRapidAPIClient(&cfg.Providers.RapidAPI, logger)
	yahoo := NewYahooClient(logger)
	tavily := NewTavilyClient(&cfg.Providers.Tavily, logger)

	return &Gateway{
		logger:        logger,
		cache:         NewCache(&cfg.Cache),
		quoteChain:    []QuoteProvider{av, rapid, yahoo},
		overviewChain: []FundamentalsProvider{av, yahoo},
		news:          tavily,
	}
}

// NewGatewayWithSources builds a gateway over explicit source chains.
func NewGatewayWithSources(cache *Cache, logger *zap.Logger,
	quotes []QuoteProvider, overviews []FundamentalsProvider, news NewsProvider) *Gateway {
	return &Gateway{
		logger:        logger,
		cache:         cache,
		quoteChain:    quotes,
		overviewChain: overviews,
		news:          news,
	}
}

// Cache exposes the gateway's cache for the dashboard status endpoint.
func (g *Gateway) Cache() *Cache {
	return g.cache
}

// Quote returns the freshest available quote for a symbol.
func (g *Gateway) Quote(ctx context.Context, symbol string) (*Quote, error) {
	symbol = normalizeSymbol(symbol)

	if payload, fresh, ok := g.cache.Get(symbol, KindQuote); ok && fresh {
		return payload.(*Quote), nil
	}

	for _, src := range g.quoteChain {
		quote, err := src.Quote(ctx, symbol)
		if err != nil {
			// Rate limit, auth and network failures are all handled the
			// same way: log and advance to the next source.
			g.logSourceFailure("quote", src.Name(), symbol, err)
			continue
		}
		g.cache.Put(symbol, KindQuote, quote)
		return quote, nil
	}

	if payload, _, ok := g.cache.Get(symbol, KindQuote); ok {
		g.logger.Warn("All quote sources failed, serving stale cache entry",
			zap.String("symbol", symbol))
		return payload.(*Quote), nil
	}

	return nil, fmt.Errorf("%w: quote for %s", ErrNoData, symbol)
}

// Fundamentals returns the freshest available company overview for a symbol.
func (g *Gateway) Fundamentals(ctx context.Context, symbol string) (*Fundamentals, error) {
	symbol = normalizeSymbol(symbol)

	if payload, fresh, ok := g.cache.Get(symbol, KindFundamentals); ok && fresh {
		return payload.(*Fundamentals), nil
	}

	for _, src := range g.overviewChain {
		overview, err := src.Fundamentals(ctx, symbol)
		if err != nil {
			g.logSourceFailure("fundamentals", src.Name(), symbol, err)
			continue
		}
		g.cache.Put(symbol, KindFundamentals, overview)
		return overview, nil
	}

	if payload, _, ok := g.cache.Get(symbol, KindFundamentals); ok {
		g.logger.Warn("All fundamentals sources failed, serving stale cache entry",
			zap.String("symbol", symbol))
		return payload.(*Fundamentals), nil
	}

	return nil, fmt.Errorf("%w: fundamentals for %s", ErrNoData, symbol)
}

// News returns recent news for a symbol. This path is independent of quote
// and fundamentals retrieval.
func (g *Gateway) News(ctx context.Context, symbol string) (*NewsBundle, error) {
	symbol = normalizeSymbol(symbol)

	if payload, fresh, ok := g.cache.Get(symbol, KindNews); ok && fresh {
		return payload.(*NewsBundle), nil
	}

	bundle, err := g.news.News(ctx, symbol)
	if err != nil {
		g.logSourceFailure("news", g.news.Name(), symbol, err)
		if payload, _, ok := g.cache.Get(symbol, KindNews); ok {
			g.logger.Warn("News source failed, serving stale cache entry",
				zap.String("symbol", symbol))
			return payload.(*NewsBundle), nil
		}
		return nil, fmt.Errorf("%w: news for %s", ErrNoData, symbol)
	}

	g.cache.Put(symbol, KindNews, bundle)
	return bundle, nil
}

// Snapshot gathers everything available for a symbol. Individual failures
// leave the corresponding field nil; Snapshot itself never fails.
func (g *Gateway) Snapshot(ctx context.Context, symbol string) *Snapshot {
	symbol = normalizeSymbol(symbol)
	snap := &Snapshot{Symbol: symbol, GatheredAt: time.Now()}

	if quote, err := g.Quote(ctx, symbol); err == nil {
		snap.Quote = quote
	} else {
		g.logger.Warn("Snapshot missing quote", zap.String("symbol", symbol), zap.Error(err))
	}

	if overview, err := g.Fundamentals(ctx, symbol); err == nil {
		snap.Fundamentals = overview
	} else {
		g.logger.Warn("Snapshot missing fundamentals", zap.String("symbol", symbol), zap.Error(err))
	}

	if news, err := g.News(ctx, symbol); err == nil {
		snap.News = news
	} else {
		g.logger.Warn("Snapshot missing news", zap.String("symbol", symbol), zap.Error(err))
	}

	return snap
}

func (g *Gateway) logSourceFailure(kind, source, symbol string, err error) {
	g.logger.Warn("Data source failed, advancing to next",
		zap.String("kind", kind),
		zap.String("source", source),
		zap.String("symbol", symbol),
		zap.Error(err),
	)
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
