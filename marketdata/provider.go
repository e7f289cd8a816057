package marketdata

import (
	"context"
	"time"
)

// Quote is one daily closing price of a product.
type Quote struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// NewsItem is one piece of product news surfaced to the agents.
type NewsItem struct {
	Ticker      string    `json:"ticker"`
	Headline    string    `json:"headline"`
	Summary     string    `json:"summary"`
	PublishedAt time.Time `json:"published_at"`
}

// Provider serves historical prices and news for investable products.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Series returns the last `days` daily closes for a ticker, oldest first.
	Series(ctx context.Context, ticker string, days int) ([]Quote, error)

	// News returns recent news for a ticker, newest first.
	News(ctx context.Context, ticker string) ([]NewsItem, error)
}
