package marketdata

import "time"

// Kind identifies a cache bucket. Each kind has its own TTL and its own
// fallback chain; a news failure never blocks a quote fetch.
type Kind string

const (
	KindQuote        Kind = "quote"
	KindFundamentals Kind = "fundamentals"
	KindNews         Kind = "news"
)

// Quote is an immutable snapshot of a symbol's latest trade. Provider-specific
// response shapes are normalized into this type at the client boundary and a
// new snapshot supersedes (never mutates) the previous one.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	AsOf          time.Time `json:"as_of"`
	Source        string    `json:"source"`
}

// Fundamentals is the normalized company overview for a symbol.
type Fundamentals struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Sector      string  `json:"sector"`
	Industry    string  `json:"industry"`
	MarketCap   int64   `json:"market_cap"`
	PERatio     float64 `json:"pe_ratio"`
	EPS         float64 `json:"eps"`
	High52Week  float64 `json:"high_52_week"`
	Low52Week   float64 `json:"low_52_week"`
	Beta        float64 `json:"beta"`
	Description string  `json:"description"`
	Source      string  `json:"source"`
}

// Article is a single news item with the provider's relevance score.
type Article struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// NewsBundle is the normalized news and sentiment payload for a symbol.
type NewsBundle struct {
	Symbol    string    `json:"symbol"`
	Query     string    `json:"query"`
	Articles  []Article `json:"articles"`
	FetchedAt time.Time `json:"fetched_at"`
	Source    string    `json:"source"`
}

// Snapshot bundles everything the gateway could gather for a symbol.
// Fields are nil when every source for that kind failed and nothing was
// cached; callers must tolerate partial snapshots.
type Snapshot struct {
	Symbol       string        `json:"symbol"`
	Quote        *Quote        `json:"quote,omitempty"`
	Fundamentals *Fundamentals `json:"fundamentals,omitempty"`
	News         *NewsBundle   `json:"news,omitempty"`
	GatheredAt   time.Time     `json:"gathered_at"`
}
