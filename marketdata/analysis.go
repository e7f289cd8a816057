package marketdata

import (
	"fmt"
	"math"
)

const tradingDaysPerYear = 252

// Performance summarizes a price series the way the advisory agents consume
// it: annualized figures plus the worst peak-to-trough loss over the window.
type Performance struct {
	Ticker               string  `json:"ticker"`
	Days                 int     `json:"days"`
	AnnualizedReturn     float64 `json:"annualized_return"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	MaxDrawdown          float64 `json:"max_drawdown"`
}

// DailyReturns converts a close series into simple daily returns.
func DailyReturns(quotes []Quote) []float64 {
	if len(quotes) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(quotes)-1)
	for i := 1; i < len(quotes); i++ {
		returns = append(returns, quotes[i].Close/quotes[i-1].Close-1)
	}

	return returns
}

// AnalyzePerformance computes annualized return and volatility plus the
// maximum drawdown of a series. It needs at least two closes.
func AnalyzePerformance(ticker string, quotes []Quote) (Performance, error) {
	if len(quotes) < 2 {
		return Performance{}, fmt.Errorf("need at least 2 quotes for %q, got %d", ticker, len(quotes))
	}

	returns := DailyReturns(quotes)
	mean := meanOf(returns)

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	peak := quotes[0].Close
	maxDrawdown := 0.0

	for _, q := range quotes {
		if q.Close > peak {
			peak = q.Close
		}
		if dd := 1 - q.Close/peak; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}

	return Performance{
		Ticker:               ticker,
		Days:                 len(quotes),
		AnnualizedReturn:     mean * tradingDaysPerYear,
		AnnualizedVolatility: math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear),
		MaxDrawdown:          maxDrawdown,
	}, nil
}

// Correlation computes the Pearson correlation of two equally long return
// series.
func Correlation(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("series length mismatch: %d vs %d", len(a), len(b))
	}

	if len(a) < 2 {
		return 0, fmt.Errorf("need at least 2 observations, got %d", len(a))
	}

	meanA := meanOf(a)
	meanB := meanOf(b)

	var cov, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	if varA == 0 || varB == 0 {
		return 0, fmt.Errorf("zero variance series")
	}

	return cov / math.Sqrt(varA*varB), nil
}

// CorrelationMatrix computes pairwise correlations over a set of return
// series keyed by ticker. The diagonal is always 1.
func CorrelationMatrix(returns map[string][]float64) (map[string]map[string]float64, error) {
	matrix := make(map[string]map[string]float64, len(returns))

	for a, seriesA := range returns {
		matrix[a] = make(map[string]float64, len(returns))

		for b, seriesB := range returns {
			if a == b {
				matrix[a][b] = 1
				continue
			}

			corr, err := Correlation(seriesA, seriesB)
			if err != nil {
				return nil, fmt.Errorf("correlation %s/%s: %w", a, b, err)
			}

			matrix[a][b] = corr
		}
	}

	return matrix, nil
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}
