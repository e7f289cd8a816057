package core

import (
	"context"
	"fmt"
)

// Stage identifies one node in the fixed advisory chain. The set is closed;
// there is no dynamic stage registration.
type Stage string

const (
	// StageFinancial assesses the client's financial situation and risk profile.
	StageFinancial Stage = "financial"
	// StagePortfolio designs a portfolio from the financial analysis.
	StagePortfolio Stage = "portfolio"
	// StageRisk stress-tests the proposed portfolio against market scenarios.
	StageRisk Stage = "risk"
)

// StageOrder is the fixed execution order of the advisory chain. Stage n+1
// consumes stage n's output, so the order is also the data-flow order.
var StageOrder = []Stage{StageFinancial, StagePortfolio, StageRisk}

// ParseStage validates a stage name received from an external caller.
func ParseStage(s string) (Stage, error) {
	switch Stage(s) {
	case StageFinancial, StagePortfolio, StageRisk:
		return Stage(s), nil
	}
	return "", fmt.Errorf("unknown stage %q", s)
}

// Invoker invokes the remote agent implementing a stage. Every event received
// from the agent's stream is forwarded to sink in receipt order; the returned
// string is the agent's final structured result, available only after the
// stream signalled completion. An error means the stage failed: the transport
// broke or the stream ended without a completion event.
type Invoker interface {
	Invoke(ctx context.Context, stage Stage, payload any, sink func(Event)) (string, error)
}

// Recorder durably records that a stage consumed an input and produced an
// output for a session. Implementations are best-effort: failures are logged
// by the implementation and never surfaced to the caller.
type Recorder interface {
	Record(ctx context.Context, sessionID string, stage Stage, input any, output string)
}
