package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fundmesh/core"
	"github.com/hupe1980/fundmesh/model"
)

func TestStageAgentStream(t *testing.T) {
	t.Run("streams text and completes", func(t *testing.T) {
		llm := model.NewMockModel("test").AddTextTurn(`{"risk_profile": "balanced"}`)

		agent := NewStageAgent(core.StageFinancial, llm, "You are a financial analyst.")

		var events []core.Event

		result, err := agent.Stream(context.Background(), map[string]any{"age": 34}, func(e core.Event) {
			events = append(events, e)
		})
		require.NoError(t, err)
		assert.Equal(t, `{"risk_profile": "balanced"}`, result)

		require.NotEmpty(t, events)
		assert.Equal(t, core.EventTextChunk, events[0].Type)

		last := events[len(events)-1]
		assert.Equal(t, core.EventStreamingComplete, last.Type)
		assert.Equal(t, `{"risk_profile": "balanced"}`, last.Result)

		// Streamed deltas reassemble into the final text.
		var streamed string
		for _, e := range events[:len(events)-1] {
			streamed += e.Data
		}
		assert.Equal(t, result, streamed)
	})

	t.Run("executes a requested tool and loops back", func(t *testing.T) {
		llm := model.NewMockModel("test").
			AddToolTurn(model.ToolCall{
				ID:        "call-1",
				Name:      "calculate_return_rate",
				Arguments: `{"total_investable_amount": 50000000, "target_amount": 70000000}`,
			}).
			AddTextTurn(`{"required_return_rate": "40.00"}`)

		agent := NewFinancialAnalyst(llm)

		var events []core.Event

		result, err := agent.Stream(context.Background(), map[string]any{"age": 34}, func(e core.Event) {
			events = append(events, e)
		})
		require.NoError(t, err)
		assert.Equal(t, `{"required_return_rate": "40.00"}`, result)

		var toolUse, toolResult *core.Event
		for i := range events {
			switch events[i].Type {
			case core.EventToolUse:
				toolUse = &events[i]
			case core.EventToolResult:
				toolResult = &events[i]
			}
		}

		require.NotNil(t, toolUse)
		assert.Equal(t, "calculate_return_rate", toolUse.ToolName)
		assert.Equal(t, "call-1", toolUse.ToolUseID)

		require.NotNil(t, toolResult)
		assert.Equal(t, "call-1", toolResult.ToolUseID)
		assert.Equal(t, "success", toolResult.Status)
		assert.Contains(t, toolResult.Content, "40.00")
	})

	t.Run("reports tool failure to the model and continues", func(t *testing.T) {
		llm := model.NewMockModel("test").
			AddToolTurn(model.ToolCall{
				ID:        "call-1",
				Name:      "calculate_return_rate",
				Arguments: `{"target_amount": 70000000}`,
			}).
			AddTextTurn(`{"analysis": "insufficient data"}`)

		agent := NewFinancialAnalyst(llm)

		var statuses []string

		result, err := agent.Stream(context.Background(), nil, func(e core.Event) {
			if e.Type == core.EventToolResult {
				statuses = append(statuses, e.Status)
			}
		})
		require.NoError(t, err)
		assert.Equal(t, `{"analysis": "insufficient data"}`, result)
		assert.Equal(t, []string{"error"}, statuses)
	})

	t.Run("unknown tool yields an error outcome", func(t *testing.T) {
		llm := model.NewMockModel("test").
			AddToolTurn(model.ToolCall{ID: "call-1", Name: "no_such_tool", Arguments: `{}`}).
			AddTextTurn("done")

		agent := NewStageAgent(core.StageFinancial, llm, "prompt")

		var statuses []string

		_, err := agent.Stream(context.Background(), nil, func(e core.Event) {
			if e.Type == core.EventToolResult {
				statuses = append(statuses, e.Status)
			}
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"error"}, statuses)
	})

	t.Run("fails when the tool round budget is exhausted", func(t *testing.T) {
		llm := model.NewMockModel("test")
		for i := 0; i < 3; i++ {
			llm.AddToolTurn(model.ToolCall{ID: "call", Name: "no_such_tool", Arguments: `{}`})
		}

		agent := NewStageAgent(core.StageFinancial, llm, "prompt", func(o *StageAgentOptions) {
			o.MaxToolRounds = 1
		})

		_, err := agent.Stream(context.Background(), nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeded 1 tool rounds")
	})

	t.Run("propagates model errors", func(t *testing.T) {
		llm := model.NewMockModel("test") // no scripted turns

		agent := NewStageAgent(core.StageRisk, llm, "prompt")

		_, err := agent.Stream(context.Background(), nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model generation failed")
	})
}

func TestAdvisorToolWiring(t *testing.T) {
	llm := model.NewMockModel("test")

	assert.Equal(t, core.StageFinancial, NewFinancialAnalyst(llm).Stage())
	assert.Equal(t, core.StagePortfolio, NewPortfolioArchitect(llm).Stage())
	assert.Equal(t, core.StageRisk, NewRiskAnalyst(llm).Stage())

	portfolio := NewPortfolioArchitect(llm)
	assert.Contains(t, portfolio.tools, "analyze_etf_performance")
	assert.Contains(t, portfolio.tools, "get_product_news")

	risk := NewRiskAnalyst(llm)
	assert.Contains(t, risk.tools, "calculate_correlation")
	assert.Contains(t, risk.tools, "simulate_scenario")
}

func TestAdvisorPromptsResolveProductUniverse(t *testing.T) {
	llm := model.NewMockModel("test")

	// The default static provider lists its universe; the resolved prompts
	// must carry the ticker list and no leftover template markers.
	for _, agent := range []*StageAgent{
		NewPortfolioArchitect(llm),
		NewRiskAnalyst(llm),
	} {
		assert.Contains(t, agent.systemPrompt, "AGG, EFA, GLD, QQQ, SHY, SPY, TLT, VNQ")
		assert.NotContains(t, agent.systemPrompt, "{{")
	}

	// The financial analyst prompt has no placeholders and passes through.
	financial := NewFinancialAnalyst(llm)
	assert.Contains(t, financial.systemPrompt, "financial analyst")
	assert.NotContains(t, financial.systemPrompt, "{{")
}
