package marketdata

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"time"
)

// productProfile parameterizes the synthetic random walk of one product.
type productProfile struct {
	Name       string
	BasePrice  float64
	DailyDrift float64
	DailyVol   float64
}

var defaultProfiles = map[string]productProfile{
	"SPY": {Name: "S&P 500 ETF", BasePrice: 520, DailyDrift: 0.00035, DailyVol: 0.010},
	"QQQ": {Name: "Nasdaq 100 ETF", BasePrice: 440, DailyDrift: 0.00045, DailyVol: 0.014},
	"EFA": {Name: "MSCI EAFE ETF", BasePrice: 78, DailyDrift: 0.00020, DailyVol: 0.009},
	"AGG": {Name: "US Aggregate Bond ETF", BasePrice: 98, DailyDrift: 0.00008, DailyVol: 0.003},
	"TLT": {Name: "20+ Year Treasury ETF", BasePrice: 92, DailyDrift: 0.00005, DailyVol: 0.008},
	"GLD": {Name: "Gold ETF", BasePrice: 215, DailyDrift: 0.00025, DailyVol: 0.008},
	"VNQ": {Name: "Real Estate ETF", BasePrice: 84, DailyDrift: 0.00018, DailyVol: 0.011},
	"SHY": {Name: "1-3 Year Treasury ETF", BasePrice: 82, DailyDrift: 0.00004, DailyVol: 0.001},
}

var defaultHeadlines = []string{
	"%s posts steady inflows as allocators rebalance",
	"Fee cut announced for %s amid index fund price war",
	"%s tracking error stays within mandate after index reshuffle",
	"Analysts flag concentration risk in %s top holdings",
}

// StaticProvider generates deterministic synthetic price series and news.
// The same ticker always yields the same series, which keeps local runs and
// tests reproducible.
type StaticProvider struct {
	profiles map[string]productProfile
	anchor   time.Time
}

// NewStaticProvider creates a provider covering the default ETF universe.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		profiles: defaultProfiles,
		anchor:   time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC),
	}
}

// Tickers lists the covered universe in lexical order.
func (p *StaticProvider) Tickers() []string {
	tickers := make([]string, 0, len(p.profiles))
	for t := range p.profiles {
		tickers = append(tickers, t)
	}

	sort.Strings(tickers)

	return tickers
}

// Series generates the last `days` daily closes for a ticker, oldest first.
func (p *StaticProvider) Series(_ context.Context, ticker string, days int) ([]Quote, error) {
	profile, ok := p.profiles[ticker]
	if !ok {
		return nil, fmt.Errorf("unknown ticker %q", ticker)
	}

	if days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d", days)
	}

	rng := rand.New(rand.NewSource(seedFor(ticker)))

	quotes := make([]Quote, 0, days)
	price := profile.BasePrice

	for i := 0; i < days; i++ {
		shock := rng.NormFloat64() * profile.DailyVol
		price *= math.Exp(profile.DailyDrift - 0.5*profile.DailyVol*profile.DailyVol + shock)

		quotes = append(quotes, Quote{
			Date:  p.anchor.AddDate(0, 0, i-days+1),
			Close: math.Round(price*100) / 100,
		})
	}

	return quotes, nil
}

// News returns canned headlines for a ticker, newest first.
func (p *StaticProvider) News(_ context.Context, ticker string) ([]NewsItem, error) {
	profile, ok := p.profiles[ticker]
	if !ok {
		return nil, fmt.Errorf("unknown ticker %q", ticker)
	}

	items := make([]NewsItem, 0, len(defaultHeadlines))

	for i, headline := range defaultHeadlines {
		items = append(items, NewsItem{
			Ticker:      ticker,
			Headline:    fmt.Sprintf(headline, profile.Name),
			Summary:     fmt.Sprintf("Coverage of %s (%s).", profile.Name, ticker),
			PublishedAt: p.anchor.AddDate(0, 0, -i*3),
		})
	}

	return items, nil
}

func seedFor(ticker string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(ticker))

	return int64(h.Sum64())
}
