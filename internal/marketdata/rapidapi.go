package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"trading-agents-go/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// RapidAPIClient is the secondary backup quote source, a RapidAPI-hosted
// financial data endpoint. It implements QuoteProvider.
type RapidAPIClient struct {
	client *resty.Client
	apiKey string
	host   string
	logger *zap.Logger
}

var _ QuoteProvider = (*RapidAPIClient)(nil)

// NewRapidAPIClient creates a new RapidAPI quote client.
func NewRapidAPIClient(cfg *config.RapidAPI, logger *zap.Logger) *RapidAPIClient {
	client := resty.New()
	if cfg.Host != "" {
		client.SetBaseURL("https://" + cfg.Host)
	}

	return &RapidAPIClient{
		client: client,
		apiKey: cfg.ApiKey,
		host:   cfg.Host,
		logger: logger,
	}
}

func (c *RapidAPIClient) Name() string {
	return "rapidapi"
}

type rapidQuoteResponse struct {
	Symbol            string  `json:"symbol"`
	Price             float64 `json:"price"`
	ChangesPercentage float64 `json:"changesPercentage"`
	Volume            int64   `json:"volume"`
	Timestamp         int64   `json:"timestamp"`
}

// Quote fetches the latest quote for a symbol.
func (c *RapidAPIClient) Quote(ctx context.Context, symbol string) (*Quote, error) {
	if c.apiKey == "" || c.host == "" {
		return nil, fmt.Errorf("rapidapi: %w", ErrNotConfigured)
	}

	c.logger.Debug("Querying RapidAPI", zap.String("symbol", symbol))

	var result rapidQuoteResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("X-RapidAPI-Key", c.apiKey).
		SetHeader("X-RapidAPI-Host", c.host).
		SetResult(&result).
		Get(fmt.Sprintf("/api/v3/stock/%s/quote", symbol))
	if err != nil {
		return nil, fmt.Errorf("rapidapi request failed: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: rapidapi quota exhausted", ErrRateLimited)
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return nil, fmt.Errorf("%w: rapidapi rejected key", ErrAuthFailed)
	case resp.IsError():
		return nil, fmt.Errorf("rapidapi returned status %s", resp.Status())
	}

	if result.Price == 0 {
		return nil, fmt.Errorf("rapidapi: empty quote for %s", symbol)
	}

	asOf := time.Now()
	if result.Timestamp > 0 {
		asOf = time.Unix(result.Timestamp, 0)
	}

	return &Quote{
		Symbol:        symbol,
		Price:         result.Price,
		ChangePercent: result.ChangesPercentage,
		Volume:        result.Volume,
		AsOf:          asOf,
		Source:        c.Name(),
	}, nil
}
