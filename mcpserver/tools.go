package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hupe1980/fundmesh/marketdata"
)

const defaultLookbackDays = 252

// PerformanceTool handles the analyze_etf_performance MCP tool.
type PerformanceTool struct {
	provider marketdata.Provider
}

// NewPerformanceTool creates a PerformanceTool.
func NewPerformanceTool(provider marketdata.Provider) *PerformanceTool {
	return &PerformanceTool{provider: provider}
}

// Definition returns the MCP tool definition for analyze_etf_performance.
func (t *PerformanceTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_etf_performance",
		mcp.WithDescription(
			"Analyze the annualized return, volatility and maximum drawdown of an ETF "+
				"over a lookback window of daily closes.",
		),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("ETF ticker symbol, e.g. SPY"),
		),
		mcp.WithNumber("days",
			mcp.Description("Lookback window in trading days (default: 252)"),
		),
	)
}

// Handle processes the analyze_etf_performance tool call.
func (t *PerformanceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ticker := req.GetString("ticker", "")
	if ticker == "" {
		return mcp.NewToolResultError("'ticker' is required"), nil
	}

	days := req.GetInt("days", defaultLookbackDays)

	quotes, err := t.provider.Series(ctx, ticker, days)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load series: %v", err)), nil
	}

	perf, err := marketdata.AnalyzePerformance(ticker, quotes)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	return jsonResult(perf)
}

// CorrelationTool handles the calculate_correlation MCP tool.
type CorrelationTool struct {
	provider marketdata.Provider
}

// NewCorrelationTool creates a CorrelationTool.
func NewCorrelationTool(provider marketdata.Provider) *CorrelationTool {
	return &CorrelationTool{provider: provider}
}

// Definition returns the MCP tool definition for calculate_correlation.
func (t *CorrelationTool) Definition() mcp.Tool {
	return mcp.NewTool("calculate_correlation",
		mcp.WithDescription(
			"Calculate the pairwise return correlation matrix for a list of ETF tickers.",
		),
		mcp.WithString("tickers",
			mcp.Required(),
			mcp.Description("Comma-separated ETF ticker symbols, e.g. SPY,QQQ,AGG"),
		),
	)
}

// Handle processes the calculate_correlation tool call.
func (t *CorrelationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tickers := splitTickers(req.GetString("tickers", ""))
	if len(tickers) < 2 {
		return mcp.NewToolResultError("'tickers' must name at least 2 products"), nil
	}

	returns := make(map[string][]float64, len(tickers))

	for _, ticker := range tickers {
		quotes, err := t.provider.Series(ctx, ticker, defaultLookbackDays)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to load series: %v", err)), nil
		}

		returns[ticker] = marketdata.DailyReturns(quotes)
	}

	matrix, err := marketdata.CorrelationMatrix(returns)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("correlation failed: %v", err)), nil
	}

	return jsonResult(matrix)
}

// NewsTool handles the get_product_news MCP tool.
type NewsTool struct {
	provider marketdata.Provider
}

// NewNewsTool creates a NewsTool.
func NewNewsTool(provider marketdata.Provider) *NewsTool {
	return &NewsTool{provider: provider}
}

// Definition returns the MCP tool definition for get_product_news.
func (t *NewsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_product_news",
		mcp.WithDescription("Get recent news headlines for an ETF, newest first."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("ETF ticker symbol, e.g. SPY"),
		),
	)
}

// Handle processes the get_product_news tool call.
func (t *NewsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ticker := req.GetString("ticker", "")
	if ticker == "" {
		return mcp.NewToolResultError("'ticker' is required"), nil
	}

	items, err := t.provider.News(ctx, ticker)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load news: %v", err)), nil
	}

	if len(items) == 0 {
		return mcp.NewToolResultText("No recent news for this product."), nil
	}

	return jsonResult(items)
}

// ScenarioTool handles the simulate_scenario MCP tool.
type ScenarioTool struct{}

// NewScenarioTool creates a ScenarioTool.
func NewScenarioTool() *ScenarioTool {
	return &ScenarioTool{}
}

// Definition returns the MCP tool definition for simulate_scenario.
func (t *ScenarioTool) Definition() mcp.Tool {
	return mcp.NewTool("simulate_scenario",
		mcp.WithDescription(
			"Run a Monte Carlo simulation of portfolio outcomes and report the "+
				"loss probability and outcome percentiles.",
		),
		mcp.WithNumber("initial_amount",
			mcp.Required(),
			mcp.Description("Invested amount at the start of the horizon"),
		),
		mcp.WithNumber("annual_return",
			mcp.Required(),
			mcp.Description("Expected annual portfolio return, e.g. 0.07"),
		),
		mcp.WithNumber("annual_volatility",
			mcp.Required(),
			mcp.Description("Annualized portfolio volatility, e.g. 0.15"),
		),
		mcp.WithNumber("years",
			mcp.Required(),
			mcp.Description("Investment horizon in years"),
		),
	)
}

// Handle processes the simulate_scenario tool call.
func (t *ScenarioTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := marketdata.SimulateScenario(marketdata.ScenarioInput{
		InitialAmount:    req.GetFloat("initial_amount", 0),
		AnnualReturn:     req.GetFloat("annual_return", 0),
		AnnualVolatility: req.GetFloat("annual_volatility", 0),
		Years:            req.GetInt("years", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("simulation failed: %v", err)), nil
	}

	return jsonResult(result)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

func splitTickers(raw string) []string {
	parts := strings.Split(raw, ",")

	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tickers = append(tickers, strings.ToUpper(t))
		}
	}

	return tickers
}
