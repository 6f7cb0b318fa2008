package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// setupAlphaVantage creates a client pointed at a test server.
func setupAlphaVantage(handler http.Handler) (*AlphaVantageClient, *httptest.Server) {
	server := httptest.NewServer(handler)

	client := &AlphaVantageClient{
		client:  resty.New().SetBaseURL(server.URL),
		apiKey:  "test_api_key",
		logger:  zap.NewNop(),
		limiter: rate.NewLimiter(rate.Inf, 1), // Allow all requests in tests
	}
	return client, server
}

func TestAlphaVantageQuote(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/query", r.URL.Path)
			assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
			assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"Global Quote": {
				"01. symbol": "AAPL",
				"05. price": "150.0000",
				"06. volume": "1000000",
				"07. latest trading day": "2025-06-02",
				"10. change percent": "1.2500%"
			}}`))
		})

		client, server := setupAlphaVantage(handler)
		defer server.Close()

		quote, err := client.Quote(context.Background(), "AAPL")
		require.NoError(t, err)
		assert.Equal(t, "AAPL", quote.Symbol)
		assert.Equal(t, 150.0, quote.Price)
		assert.Equal(t, int64(1000000), quote.Volume)
		assert.Equal(t, 1.25, quote.ChangePercent)
		assert.Equal(t, "alphavantage", quote.Source)
	})

	t.Run("RateLimitNote", func(t *testing.T) {
		// Quota exhaustion arrives as HTTP 200 with a "Note" field.
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`))
		})

		client, server := setupAlphaVantage(handler)
		defer server.Close()

		_, err := client.Quote(context.Background(), "AAPL")
		assert.ErrorIs(t, err, ErrRateLimited)
	})

	t.Run("BadKey", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"Error Message": "the parameter apikey is invalid or missing."}`))
		})

		client, server := setupAlphaVantage(handler)
		defer server.Close()

		_, err := client.Quote(context.Background(), "AAPL")
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("NotConfigured", func(t *testing.T) {
		client, server := setupAlphaVantage(http.NotFoundHandler())
		defer server.Close()
		client.apiKey = ""

		_, err := client.Quote(context.Background(), "AAPL")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestAlphaVantageFundamentals(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "OVERVIEW", r.URL.Query().Get("function"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Symbol": "AAPL",
			"Name": "Apple Inc",
			"Sector": "TECHNOLOGY",
			"Industry": "ELECTRONIC COMPUTERS",
			"MarketCapitalization": "3000000000000",
			"PERatio": "29.5",
			"EPS": "6.42",
			"52WeekHigh": "199.62",
			"52WeekLow": "139.02",
			"Beta": "1.29",
			"Description": "Apple Inc. designs, manufactures and markets smartphones."
		}`))
	})

	client, server := setupAlphaVantage(handler)
	defer server.Close()

	overview, err := client.Fundamentals(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc", overview.Name)
	assert.Equal(t, "TECHNOLOGY", overview.Sector)
	assert.Equal(t, int64(3000000000000), overview.MarketCap)
	assert.Equal(t, 29.5, overview.PERatio)
	assert.Equal(t, 1.29, overview.Beta)
}
