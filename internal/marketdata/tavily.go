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

const tavilyBaseURL = "https://api.tavily.com"

// TavilyClient fetches recent news with relevance scores via the Tavily
// search API. News is a parallel, independent path: it has its own cache
// bucket and its failure never blocks quote or fundamentals retrieval.
type TavilyClient struct {
	client     *resty.Client
	apiKey     string
	maxResults int
	logger     *zap.Logger
}

var _ NewsProvider = (*TavilyClient)(nil)

// NewTavilyClient creates a new Tavily news client.
func NewTavilyClient(cfg *config.Tavily, logger *zap.Logger) *TavilyClient {
	client := resty.New().SetBaseURL(tavilyBaseURL)

	return &TavilyClient{
		client:     client,
		apiKey:     cfg.ApiKey,
		maxResults: cfg.MaxResults,
		logger:     logger,
	}
}

func (c *TavilyClient) Name() string {
	return "tavily"
}

type tavilySearchRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilySearchResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// News searches for recent market news about a symbol.
func (c *TavilyClient) News(ctx context.Context, symbol string) (*NewsBundle, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("tavily: %w", ErrNotConfigured)
	}

	query := fmt.Sprintf("%s stock news latest market", symbol)
	c.logger.Debug("Querying Tavily", zap.String("symbol", symbol), zap.String("query", query))

	var result tavilySearchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetBody(tavilySearchRequest{
			Query:       query,
			SearchDepth: "basic",
			MaxResults:  c.maxResults,
		}).
		SetResult(&result).
		Post("/search")
	if err != nil {
		return nil, fmt.Errorf("tavily request failed: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: tavily quota exhausted", ErrRateLimited)
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return nil, fmt.Errorf("%w: tavily rejected key", ErrAuthFailed)
	case resp.IsError():
		return nil, fmt.Errorf("tavily returned status %s", resp.Status())
	}

	articles := make([]Article, 0, len(result.Results))
	for _, r := range result.Results {
		snippet := r.Content
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		articles = append(articles, Article{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: snippet,
			Score:   r.Score,
		})
	}

	return &NewsBundle{
		Symbol:    symbol,
		Query:     query,
		Articles:  articles,
		FetchedAt: time.Now(),
		Source:    c.Name(),
	}, nil
}
