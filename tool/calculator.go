package tool

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// NewReturnRateCalculator exposes the required return rate computation as a
// tool: the percentage gain needed to grow the investable amount into the
// target amount. Decimal arithmetic avoids the float drift that matters when
// the amounts are large currency values.
func NewReturnRateCalculator() *FunctionTool {
	return NewFunctionTool(
		"calculate_return_rate",
		"Calculate the required return rate in percent to grow the investable amount into the target amount",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"total_investable_amount": map[string]any{
					"type":        "number",
					"description": "Amount available for investment",
				},
				"target_amount": map[string]any{
					"type":        "number",
					"description": "Desired amount at the end of the investment horizon",
				},
			},
			"required": []string{"total_investable_amount", "target_amount"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			amount, err := toDecimal(args["total_investable_amount"])
			if err != nil {
				return nil, fmt.Errorf("total_investable_amount: %w", err)
			}

			target, err := toDecimal(args["target_amount"])
			if err != nil {
				return nil, fmt.Errorf("target_amount: %w", err)
			}

			if amount.Sign() <= 0 {
				return nil, fmt.Errorf("total_investable_amount must be positive")
			}

			rate := target.Div(amount).
				Sub(decimal.NewFromInt(1)).
				Mul(decimal.NewFromInt(100))

			return map[string]any{
				"required_return_rate": rate.StringFixed(2),
				"unit":                 "percent",
			}, nil
		},
	)
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case string:
		return decimal.NewFromString(n)
	}
	return decimal.Decimal{}, fmt.Errorf("unsupported numeric value %v (%T)", v, v)
}
