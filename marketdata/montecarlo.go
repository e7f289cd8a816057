package marketdata

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// ScenarioInput parameterizes one Monte Carlo portfolio simulation.
type ScenarioInput struct {
	// InitialAmount is the invested amount at the start of the horizon.
	InitialAmount float64 `json:"initial_amount"`
	// AnnualReturn is the expected annual portfolio return, e.g. 0.07.
	AnnualReturn float64 `json:"annual_return"`
	// AnnualVolatility is the annualized portfolio volatility, e.g. 0.15.
	AnnualVolatility float64 `json:"annual_volatility"`
	// Years is the investment horizon.
	Years int `json:"years"`
	// Paths is the number of simulated paths. Defaults to 10000.
	Paths int `json:"paths,omitempty"`
	// Seed fixes the random source for reproducible runs. Zero picks the
	// default seed.
	Seed int64 `json:"seed,omitempty"`
}

// ScenarioResult is the outcome distribution of a simulation.
type ScenarioResult struct {
	Paths           int                `json:"paths"`
	LossProbability float64            `json:"loss_probability"`
	MedianOutcome   float64            `json:"median_outcome"`
	Percentiles     map[string]float64 `json:"percentiles"`
}

const defaultScenarioPaths = 10000

// SimulateScenario runs a geometric Brownian motion simulation of the
// portfolio over the horizon and reports the loss probability along with
// outcome percentiles.
func SimulateScenario(input ScenarioInput) (ScenarioResult, error) {
	if input.InitialAmount <= 0 {
		return ScenarioResult{}, fmt.Errorf("initial amount must be positive, got %v", input.InitialAmount)
	}

	if input.AnnualVolatility < 0 {
		return ScenarioResult{}, fmt.Errorf("volatility must be non-negative, got %v", input.AnnualVolatility)
	}

	if input.Years <= 0 {
		return ScenarioResult{}, fmt.Errorf("years must be positive, got %d", input.Years)
	}

	paths := input.Paths
	if paths <= 0 {
		paths = defaultScenarioPaths
	}

	seed := input.Seed
	if seed == 0 {
		seed = 42
	}

	rng := rand.New(rand.NewSource(seed))

	horizon := float64(input.Years)
	drift := (input.AnnualReturn - 0.5*input.AnnualVolatility*input.AnnualVolatility) * horizon
	diffusion := input.AnnualVolatility * math.Sqrt(horizon)

	outcomes := make([]float64, paths)
	losses := 0

	for i := 0; i < paths; i++ {
		outcome := input.InitialAmount * math.Exp(drift+diffusion*rng.NormFloat64())
		outcomes[i] = outcome

		if outcome < input.InitialAmount {
			losses++
		}
	}

	sort.Float64s(outcomes)

	return ScenarioResult{
		Paths:           paths,
		LossProbability: float64(losses) / float64(paths),
		MedianOutcome:   percentile(outcomes, 50),
		Percentiles: map[string]float64{
			"p5":  percentile(outcomes, 5),
			"p25": percentile(outcomes, 25),
			"p50": percentile(outcomes, 50),
			"p75": percentile(outcomes, 75),
			"p95": percentile(outcomes, 95),
		},
	}, nil
}

// percentile expects sorted input.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1

	if idx < 0 {
		idx = 0
	}

	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	return sorted[idx]
}
