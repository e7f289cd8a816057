package agents

import (
	"context"
	"fmt"

	"github.com/hupe1980/fundmesh/client"
	"github.com/hupe1980/fundmesh/core"
)

// Runtime serves stage agents in-process. It implements core.Invoker, so the
// stage graph can run against local agents exactly as it runs against remote
// ones, which keeps single-binary deployments and tests free of HTTP hops.
type Runtime struct {
	agents map[core.Stage]*StageAgent
}

// NewRuntime registers the given agents by stage. Registering two agents for
// the same stage is an error.
func NewRuntime(stageAgents ...*StageAgent) (*Runtime, error) {
	agents := make(map[core.Stage]*StageAgent, len(stageAgents))

	for _, a := range stageAgents {
		if _, exists := agents[a.Stage()]; exists {
			return nil, fmt.Errorf("duplicate agent for stage %q", a.Stage())
		}

		agents[a.Stage()] = a
	}

	return &Runtime{agents: agents}, nil
}

// Invoke implements core.Invoker. The agent's final text goes through the
// same brace-span extraction the remote client applies, so prose-wrapped
// answers reduce to their JSON payload on both paths.
func (r *Runtime) Invoke(ctx context.Context, stage core.Stage, payload any, sink func(core.Event)) (string, error) {
	agent, ok := r.agents[stage]
	if !ok {
		return "", fmt.Errorf("no agent registered for stage %q", stage)
	}

	result, err := agent.Stream(ctx, payload, sink)
	if err != nil {
		return "", err
	}

	return client.ExtractJSON(result), nil
}
