package agents

import (
	"strings"
	"time"

	"github.com/hupe1980/fundmesh/core"
	"github.com/hupe1980/fundmesh/internal/util"
	"github.com/hupe1980/fundmesh/marketdata"
	"github.com/hupe1980/fundmesh/model"
	"github.com/hupe1980/fundmesh/tool"
)

const financialAnalystPrompt = `You are a financial analyst for a fund advisory service.
You receive a client profile as JSON with fields such as age, total_investable_amount and target_amount.

Assess the client's situation:
1. Use the calculate_return_rate tool to compute the return required to reach the target.
2. Derive a risk profile (conservative, balanced or aggressive) from age and the required return.
3. Estimate a sensible investment horizon in years.

Respond with a single JSON object:
{"risk_profile": "...", "required_return_rate": "...", "investment_horizon_years": ..., "analysis": "..."}`

const portfolioArchitectPrompt = `You are a portfolio architect for a fund advisory service.
You receive a financial analysis as JSON describing the client's risk profile and required return.

Design a portfolio from these candidate products: {{.products | default "SPY, QQQ, EFA, AGG, TLT, GLD, VNQ, SHY"}}.
1. Use analyze_etf_performance to inspect candidate products.
2. Use get_product_news to check for product level concerns.
3. Allocate percentages across products matching the risk profile. Allocations must sum to 100.

Respond with a single JSON object:
{"allocation": {"TICKER": percent, ...}, "rationale": "..."}`

const riskAnalystPrompt = `You are a risk analyst for a fund advisory service.
You receive a proposed portfolio allocation as JSON.

Stress test it against the covered universe ({{.products | default "SPY, QQQ, EFA, AGG, TLT, GLD, VNQ, SHY"}}):
1. Use calculate_correlation to judge diversification across the allocated products.
2. Use simulate_scenario to estimate the probability of losing money over the horizon.

Respond with a single JSON object:
{"loss_probability": "...", "diversification": "...", "assessment": "...", "adjustments": "..."}`

// AdvisorOptions configures the prebuilt advisory agents.
type AdvisorOptions struct {
	// ToolTimeout bounds a single tool execution.
	ToolTimeout time.Duration
	// MarketData backs the analytical tools. Defaults to the static provider.
	MarketData marketdata.Provider
}

// NewFinancialAnalyst builds the first stage agent. It consumes the raw
// client profile and owns the return rate calculator.
func NewFinancialAnalyst(llm model.Model, optFns ...func(o *AdvisorOptions)) *StageAgent {
	opts := applyAdvisorOptions(optFns)

	return NewStageAgent(core.StageFinancial, llm, resolvePrompt(financialAnalystPrompt, opts.MarketData), func(o *StageAgentOptions) {
		o.Tools = []tool.Tool{tool.NewReturnRateCalculator()}
		if opts.ToolTimeout > 0 {
			o.ToolTimeout = opts.ToolTimeout
		}
	})
}

// NewPortfolioArchitect builds the second stage agent. It consumes the
// financial analysis and owns the product research tools.
func NewPortfolioArchitect(llm model.Model, optFns ...func(o *AdvisorOptions)) *StageAgent {
	opts := applyAdvisorOptions(optFns)

	return NewStageAgent(core.StagePortfolio, llm, resolvePrompt(portfolioArchitectPrompt, opts.MarketData), func(o *StageAgentOptions) {
		o.Tools = []tool.Tool{
			NewETFPerformanceTool(opts.MarketData),
			NewProductNewsTool(opts.MarketData),
		}
		if opts.ToolTimeout > 0 {
			o.ToolTimeout = opts.ToolTimeout
		}
	})
}

// NewRiskAnalyst builds the third stage agent. It consumes the proposed
// allocation and owns the correlation and scenario tools.
func NewRiskAnalyst(llm model.Model, optFns ...func(o *AdvisorOptions)) *StageAgent {
	opts := applyAdvisorOptions(optFns)

	return NewStageAgent(core.StageRisk, llm, resolvePrompt(riskAnalystPrompt, opts.MarketData), func(o *StageAgentOptions) {
		o.Tools = []tool.Tool{
			NewCorrelationTool(opts.MarketData),
			NewScenarioTool(),
		}
		if opts.ToolTimeout > 0 {
			o.ToolTimeout = opts.ToolTimeout
		}
	})
}

// resolvePrompt fills the product universe into a prompt template. The
// prompts are package constants, so a malformed template falls back to the
// raw text rather than failing construction.
func resolvePrompt(text string, md marketdata.Provider) string {
	state := map[string]any{}
	if lister, ok := md.(interface{ Tickers() []string }); ok {
		state["products"] = strings.Join(lister.Tickers(), ", ")
	}

	rendered, err := util.RenderTemplate(text, state)
	if err != nil {
		return text
	}

	return rendered
}

func applyAdvisorOptions(optFns []func(o *AdvisorOptions)) AdvisorOptions {
	opts := AdvisorOptions{
		MarketData: marketdata.NewStaticProvider(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return opts
}
