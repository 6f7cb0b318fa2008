package marketdata

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"trading-agents-go/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const alphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantageClient is the primary real-time market data source.
// It implements QuoteProvider and FundamentalsProvider.
type AlphaVantageClient struct {
	client  *resty.Client
	apiKey  string
	logger  *zap.Logger
	limiter *rate.Limiter
}

var (
	_ QuoteProvider        = (*AlphaVantageClient)(nil)
	_ FundamentalsProvider = (*AlphaVantageClient)(nil)
)

// NewAlphaVantageClient creates a new Alpha Vantage API client.
// The free tier is heavily rate limited, so every request goes through a
// client-side limiter in addition to honoring the API's "Note" responses.
func NewAlphaVantageClient(cfg *config.AlphaVantage, logger *zap.Logger) *AlphaVantageClient {
	client := resty.New().SetBaseURL(alphaVantageBaseURL)
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &AlphaVantageClient{
		client:  client,
		apiKey:  cfg.ApiKey,
		logger:  logger,
		limiter: limiter,
	}
}

// Name returns the provider name used in logs and payload sources.
func (c *AlphaVantageClient) Name() string {
	return "alphavantage"
}

// globalQuoteResponse mirrors the GLOBAL_QUOTE response. The numbered keys
// are how the API actually ships them.
type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		LatestDay     string `json:"07. latest trading day"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
	Note         string `json:"Note,omitempty"`
	ErrorMessage string `json:"Error Message,omitempty"`
	Information  string `json:"Information,omitempty"`
}

// Quote fetches the latest quote via the GLOBAL_QUOTE function.
func (c *AlphaVantageClient) Quote(ctx context.Context, symbol string) (*Quote, error) {
	var result globalQuoteResponse
	if err := c.query(ctx, "GLOBAL_QUOTE", symbol, &result); err != nil {
		return nil, err
	}

	if err := c.classify(result.Note, result.ErrorMessage, result.Information); err != nil {
		return nil, err
	}
	if result.GlobalQuote.Price == "" {
		return nil, fmt.Errorf("alphavantage: empty quote for %s", symbol)
	}

	price, err := strconv.ParseFloat(result.GlobalQuote.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("alphavantage: bad price %q: %w", result.GlobalQuote.Price, err)
	}
	volume, _ := strconv.ParseInt(result.GlobalQuote.Volume, 10, 64)
	changePct, _ := strconv.ParseFloat(strings.TrimSuffix(result.GlobalQuote.ChangePercent, "%"), 64)

	return &Quote{
		Symbol:        symbol,
		Price:         price,
		ChangePercent: changePct,
		Volume:        volume,
		AsOf:          time.Now(),
		Source:        c.Name(),
	}, nil
}

// overviewResponse mirrors the OVERVIEW response; all values arrive as strings.
type overviewResponse struct {
	Symbol       string `json:"Symbol"`
	Name         string `json:"Name"`
	Sector       string `json:"Sector"`
	Industry     string `json:"Industry"`
	MarketCap    string `json:"MarketCapitalization"`
	PERatio      string `json:"PERatio"`
	EPS          string `json:"EPS"`
	High52       string `json:"52WeekHigh"`
	Low52        string `json:"52WeekLow"`
	Beta         string `json:"Beta"`
	Description  string `json:"Description"`
	Note         string `json:"Note,omitempty"`
	ErrorMessage string `json:"Error Message,omitempty"`
	Information  string `json:"Information,omitempty"`
}

// Fundamentals fetches the company overview via the OVERVIEW function.
func (c *AlphaVantageClient) Fundamentals(ctx context.Context, symbol string) (*Fundamentals, error) {
	var result overviewResponse
	if err := c.query(ctx, "OVERVIEW", symbol, &result); err != nil {
		return nil, err
	}

	if err := c.classify(result.Note, result.ErrorMessage, result.Information); err != nil {
		return nil, err
	}
	if result.Symbol == "" {
		return nil, fmt.Errorf("alphavantage: empty overview for %s", symbol)
	}

	marketCap, _ := strconv.ParseInt(result.MarketCap, 10, 64)
	peRatio, _ := strconv.ParseFloat(result.PERatio, 64)
	eps, _ := strconv.ParseFloat(result.EPS, 64)
	high52, _ := strconv.ParseFloat(result.High52, 64)
	low52, _ := strconv.ParseFloat(result.Low52, 64)
	beta, _ := strconv.ParseFloat(result.Beta, 64)

	return &Fundamentals{
		Symbol:      result.Symbol,
		Name:        result.Name,
		Sector:      result.Sector,
		Industry:    result.Industry,
		MarketCap:   marketCap,
		PERatio:     peRatio,
		EPS:         eps,
		High52Week:  high52,
		Low52Week:   low52,
		Beta:        beta,
		Description: result.Description,
		Source:      c.Name(),
	}, nil
}

// query executes one Alpha Vantage function call after waiting for the limiter.
func (c *AlphaVantageClient) query(ctx context.Context, function, symbol string, result any) error {
	if c.apiKey == "" {
		return fmt.Errorf("alphavantage: %w", ErrNotConfigured)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}

	c.logger.Debug("Querying Alpha Vantage",
		zap.String("function", function),
		zap.String("symbol", symbol),
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function":   function,
			"symbol":     symbol,
			"apikey":     c.apiKey,
			"outputsize": "compact",
		}).
		SetResult(result).
		Get("/query")
	if err != nil {
		return fmt.Errorf("alphavantage request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("alphavantage returned status %s", resp.Status())
	}
	return nil
}

// classify maps the API's in-band error fields to the provider error classes.
// Alpha Vantage reports quota exhaustion via "Note"/"Information" and bad keys
// via "Error Message", always with HTTP 200.
func (c *AlphaVantageClient) classify(note, errorMessage, information string) error {
	switch {
	case note != "":
		return fmt.Errorf("%w: %s", ErrRateLimited, note)
	case information != "":
		return fmt.Errorf("%w: %s", ErrRateLimited, information)
	case strings.Contains(strings.ToLower(errorMessage), "apikey"):
		return fmt.Errorf("%w: %s", ErrAuthFailed, errorMessage)
	case errorMessage != "":
		return fmt.Errorf("alphavantage error: %s", errorMessage)
	}
	return nil
}
