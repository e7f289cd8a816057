package agents

import (
	"context"
	"fmt"
	"math"

	"github.com/hupe1980/fundmesh/marketdata"
	"github.com/hupe1980/fundmesh/tool"
)

const defaultLookbackDays = 252

// NewETFPerformanceTool exposes annualized performance analytics for a
// single product.
func NewETFPerformanceTool(provider marketdata.Provider) *tool.FunctionTool {
	return tool.NewFunctionTool(
		"analyze_etf_performance",
		"Analyze the annualized return, volatility and maximum drawdown of an ETF over the last trading year",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ticker": map[string]any{
					"type":        "string",
					"description": "ETF ticker symbol, e.g. SPY",
				},
			},
			"required": []string{"ticker"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			ticker, _ := args["ticker"].(string)

			quotes, err := provider.Series(ctx, ticker, defaultLookbackDays)
			if err != nil {
				return nil, err
			}

			return marketdata.AnalyzePerformance(ticker, quotes)
		},
	)
}

// NewProductNewsTool exposes recent product news.
func NewProductNewsTool(provider marketdata.Provider) *tool.FunctionTool {
	return tool.NewFunctionTool(
		"get_product_news",
		"Get recent news headlines for an ETF",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ticker": map[string]any{
					"type":        "string",
					"description": "ETF ticker symbol, e.g. SPY",
				},
			},
			"required": []string{"ticker"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			ticker, _ := args["ticker"].(string)

			return provider.News(ctx, ticker)
		},
	)
}

// NewCorrelationTool exposes the pairwise correlation matrix over a set of
// products.
func NewCorrelationTool(provider marketdata.Provider) *tool.FunctionTool {
	return tool.NewFunctionTool(
		"calculate_correlation",
		"Calculate the pairwise return correlation matrix for a list of ETF tickers",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tickers": map[string]any{
					"type":        "array",
					"description": "ETF ticker symbols, e.g. [\"SPY\", \"AGG\"]",
				},
			},
			"required": []string{"tickers"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			raw, _ := args["tickers"].([]any)
			if len(raw) < 2 {
				return nil, fmt.Errorf("need at least 2 tickers, got %d", len(raw))
			}

			returns := make(map[string][]float64, len(raw))

			for _, r := range raw {
				ticker, ok := r.(string)
				if !ok {
					return nil, fmt.Errorf("tickers must be strings, got %T", r)
				}

				quotes, err := provider.Series(ctx, ticker, defaultLookbackDays)
				if err != nil {
					return nil, err
				}

				returns[ticker] = marketdata.DailyReturns(quotes)
			}

			return marketdata.CorrelationMatrix(returns)
		},
	)
}

// NewScenarioTool exposes the Monte Carlo scenario engine.
func NewScenarioTool() *tool.FunctionTool {
	return tool.NewFunctionTool(
		"simulate_scenario",
		"Run a Monte Carlo simulation of portfolio outcomes and report the loss probability and outcome percentiles",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"initial_amount": map[string]any{
					"type":        "number",
					"description": "Invested amount at the start of the horizon",
				},
				"annual_return": map[string]any{
					"type":        "number",
					"description": "Expected annual portfolio return, e.g. 0.07",
				},
				"annual_volatility": map[string]any{
					"type":        "number",
					"description": "Annualized portfolio volatility, e.g. 0.15",
				},
				"years": map[string]any{
					"type":        "integer",
					"description": "Investment horizon in years",
				},
			},
			"required": []string{"initial_amount", "annual_return", "annual_volatility", "years"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			years, ok := toInt(args["years"])
			if !ok {
				return nil, fmt.Errorf("years must be an integer, got %v", args["years"])
			}

			amount, _ := args["initial_amount"].(float64)
			annualReturn, _ := args["annual_return"].(float64)
			volatility, _ := args["annual_volatility"].(float64)

			return marketdata.SimulateScenario(marketdata.ScenarioInput{
				InitialAmount:    amount,
				AnnualReturn:     annualReturn,
				AnnualVolatility: volatility,
				Years:            years,
			})
		},
	)
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
