package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooClient is the free, keyless fallback source. It sits last in every
// chain so a fully unconfigured install still produces data.
// It implements QuoteProvider and FundamentalsProvider.
type YahooClient struct {
	client *resty.Client
	logger *zap.Logger
}

var (
	_ QuoteProvider        = (*YahooClient)(nil)
	_ FundamentalsProvider = (*YahooClient)(nil)
)

// NewYahooClient creates a new Yahoo Finance client.
func NewYahooClient(logger *zap.Logger) *YahooClient {
	client := resty.New().
		SetBaseURL(yahooBaseURL).
		SetHeader("User-Agent", "Mozilla/5.0 (compatible; trading-agents-go)")

	return &YahooClient{client: client, logger: logger}
}

func (c *YahooClient) Name() string {
	return "yahoo"
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol              string  `json:"symbol"`
				RegularMarketPrice  float64 `json:"regularMarketPrice"`
				ChartPreviousClose  float64 `json:"chartPreviousClose"`
				RegularMarketVolume int64   `json:"regularMarketVolume"`
				RegularMarketTime   int64   `json:"regularMarketTime"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Quote fetches the latest quote from the v8 chart endpoint.
func (c *YahooClient) Quote(ctx context.Context, symbol string) (*Quote, error) {
	c.logger.Debug("Querying Yahoo Finance", zap.String("symbol", symbol))

	var result yahooChartResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("range", "1d").
		SetQueryParam("interval", "1d").
		SetResult(&result).
		Get("/v8/finance/chart/" + symbol)
	if err != nil {
		return nil, fmt.Errorf("yahoo request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("yahoo returned status %s", resp.Status())
	}
	if result.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo error: %s", result.Chart.Error.Description)
	}
	if len(result.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: empty chart for %s", symbol)
	}

	meta := result.Chart.Result[0].Meta
	if meta.RegularMarketPrice == 0 {
		return nil, fmt.Errorf("yahoo: no price for %s", symbol)
	}

	changePct := 0.0
	if meta.ChartPreviousClose > 0 {
		changePct = (meta.RegularMarketPrice - meta.ChartPreviousClose) / meta.ChartPreviousClose * 100
	}

	asOf := time.Now()
	if meta.RegularMarketTime > 0 {
		asOf = time.Unix(meta.RegularMarketTime, 0)
	}

	return &Quote{
		Symbol:        symbol,
		Price:         meta.RegularMarketPrice,
		ChangePercent: changePct,
		Volume:        meta.RegularMarketVolume,
		AsOf:          asOf,
		Source:        c.Name(),
	}, nil
}

type yahooSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector          string `json:"sector"`
				Industry        string `json:"industry"`
				BusinessSummary string `json:"longBusinessSummary"`
			} `json:"assetProfile"`
			Price struct {
				LongName  string `json:"longName"`
				MarketCap struct {
					Raw int64 `json:"raw"`
				} `json:"marketCap"`
			} `json:"price"`
			SummaryDetail struct {
				TrailingPE struct {
					Raw float64 `json:"raw"`
				} `json:"trailingPE"`
				FiftyTwoWeekHigh struct {
					Raw float64 `json:"raw"`
				} `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow struct {
					Raw float64 `json:"raw"`
				} `json:"fiftyTwoWeekLow"`
				Beta struct {
					Raw float64 `json:"raw"`
				} `json:"beta"`
			} `json:"summaryDetail"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

// Fundamentals fetches the company profile from the v10 quoteSummary endpoint.
func (c *YahooClient) Fundamentals(ctx context.Context, symbol string) (*Fundamentals, error) {
	c.logger.Debug("Querying Yahoo Finance summary", zap.String("symbol", symbol))

	var result yahooSummaryResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("modules", "assetProfile,price,summaryDetail").
		SetResult(&result).
		Get("/v10/finance/quoteSummary/" + symbol)
	if err != nil {
		return nil, fmt.Errorf("yahoo request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("yahoo returned status %s", resp.Status())
	}
	if len(result.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: empty summary for %s", symbol)
	}

	r := result.QuoteSummary.Result[0]
	name := r.Price.LongName
	if name == "" {
		name = symbol
	}

	return &Fundamentals{
		Symbol:      symbol,
		Name:        name,
		Sector:      r.AssetProfile.Sector,
		Industry:    r.AssetProfile.Industry,
		MarketCap:   r.Price.MarketCap.Raw,
		PERatio:     r.SummaryDetail.TrailingPE.Raw,
		High52Week:  r.SummaryDetail.FiftyTwoWeekHigh.Raw,
		Low52Week:   r.SummaryDetail.FiftyTwoWeekLow.Raw,
		Beta:        r.SummaryDetail.Beta.Raw,
		Description: r.AssetProfile.BusinessSummary,
		Source:      c.Name(),
	}, nil
}
