package marketdata

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider(t *testing.T) {
	provider := NewStaticProvider()

	t.Run("series is deterministic per ticker", func(t *testing.T) {
		first, err := provider.Series(context.Background(), "SPY", 60)
		require.NoError(t, err)
		require.Len(t, first, 60)

		second, err := provider.Series(context.Background(), "SPY", 60)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		other, err := provider.Series(context.Background(), "QQQ", 60)
		require.NoError(t, err)
		assert.NotEqual(t, first[0].Close, other[0].Close)
	})

	t.Run("series is ordered oldest first", func(t *testing.T) {
		quotes, err := provider.Series(context.Background(), "AGG", 10)
		require.NoError(t, err)

		for i := 1; i < len(quotes); i++ {
			assert.True(t, quotes[i].Date.After(quotes[i-1].Date))
		}
	})

	t.Run("unknown ticker fails", func(t *testing.T) {
		_, err := provider.Series(context.Background(), "NOPE", 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown ticker")

		_, err = provider.News(context.Background(), "NOPE")
		require.Error(t, err)
	})

	t.Run("rejects non-positive windows", func(t *testing.T) {
		_, err := provider.Series(context.Background(), "SPY", 0)
		require.Error(t, err)
	})

	t.Run("news is newest first", func(t *testing.T) {
		items, err := provider.News(context.Background(), "GLD")
		require.NoError(t, err)
		require.NotEmpty(t, items)

		for i := 1; i < len(items); i++ {
			assert.False(t, items[i].PublishedAt.After(items[i-1].PublishedAt))
		}

		assert.Equal(t, "GLD", items[0].Ticker)
	})

	t.Run("tickers lists the universe sorted", func(t *testing.T) {
		tickers := provider.Tickers()
		require.NotEmpty(t, tickers)
		assert.Contains(t, tickers, "SPY")
		assert.IsIncreasing(t, tickers)
	})
}

func TestAnalyzePerformance(t *testing.T) {
	quotes := []Quote{
		{Close: 100}, {Close: 102}, {Close: 101}, {Close: 105}, {Close: 99}, {Close: 104},
	}

	perf, err := AnalyzePerformance("TEST", quotes)
	require.NoError(t, err)

	assert.Equal(t, "TEST", perf.Ticker)
	assert.Equal(t, 6, perf.Days)
	assert.Greater(t, perf.AnnualizedVolatility, 0.0)
	// Worst drop is 105 -> 99.
	assert.InDelta(t, 1-99.0/105.0, perf.MaxDrawdown, 1e-9)

	_, err = AnalyzePerformance("TEST", quotes[:1])
	require.Error(t, err)
}

func TestCorrelation(t *testing.T) {
	t.Run("perfectly correlated series", func(t *testing.T) {
		a := []float64{0.01, -0.02, 0.03, 0.01}
		b := []float64{0.02, -0.04, 0.06, 0.02}

		corr, err := Correlation(a, b)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, corr, 1e-9)
	})

	t.Run("inversely correlated series", func(t *testing.T) {
		a := []float64{0.01, -0.02, 0.03}
		b := []float64{-0.01, 0.02, -0.03}

		corr, err := Correlation(a, b)
		require.NoError(t, err)
		assert.InDelta(t, -1.0, corr, 1e-9)
	})

	t.Run("length mismatch fails", func(t *testing.T) {
		_, err := Correlation([]float64{0.01}, []float64{0.01, 0.02})
		require.Error(t, err)
	})

	t.Run("zero variance fails", func(t *testing.T) {
		_, err := Correlation([]float64{0.01, 0.01}, []float64{0.01, 0.02})
		require.Error(t, err)
	})
}

func TestCorrelationMatrix(t *testing.T) {
	returns := map[string][]float64{
		"SPY": {0.01, -0.02, 0.03, 0.005},
		"AGG": {0.001, 0.002, -0.001, 0.0005},
	}

	matrix, err := CorrelationMatrix(returns)
	require.NoError(t, err)

	assert.Equal(t, 1.0, matrix["SPY"]["SPY"])
	assert.Equal(t, 1.0, matrix["AGG"]["AGG"])
	assert.InDelta(t, matrix["SPY"]["AGG"], matrix["AGG"]["SPY"], 1e-12)
	assert.LessOrEqual(t, math.Abs(matrix["SPY"]["AGG"]), 1.0)
}

func TestSimulateScenario(t *testing.T) {
	t.Run("reports a plausible loss probability", func(t *testing.T) {
		result, err := SimulateScenario(ScenarioInput{
			InitialAmount:    50000000,
			AnnualReturn:     0.07,
			AnnualVolatility: 0.15,
			Years:            5,
			Paths:            5000,
			Seed:             7,
		})
		require.NoError(t, err)

		assert.Equal(t, 5000, result.Paths)
		assert.Greater(t, result.LossProbability, 0.0)
		assert.Less(t, result.LossProbability, 0.5)
		assert.Greater(t, result.MedianOutcome, 50000000.0)
		assert.Less(t, result.Percentiles["p5"], result.Percentiles["p95"])
	})

	t.Run("is reproducible for a fixed seed", func(t *testing.T) {
		input := ScenarioInput{
			InitialAmount:    1000,
			AnnualReturn:     0.05,
			AnnualVolatility: 0.2,
			Years:            3,
			Paths:            1000,
			Seed:             11,
		}

		first, err := SimulateScenario(input)
		require.NoError(t, err)

		second, err := SimulateScenario(input)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("validates input", func(t *testing.T) {
		_, err := SimulateScenario(ScenarioInput{InitialAmount: 0, Years: 1})
		require.Error(t, err)

		_, err = SimulateScenario(ScenarioInput{InitialAmount: 100, Years: 0})
		require.Error(t, err)

		_, err = SimulateScenario(ScenarioInput{InitialAmount: 100, AnnualVolatility: -1, Years: 1})
		require.Error(t, err)
	})
}
