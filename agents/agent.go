package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hupe1980/fundmesh/core"
	"github.com/hupe1980/fundmesh/logging"
	"github.com/hupe1980/fundmesh/model"
	"github.com/hupe1980/fundmesh/tool"
)

// StageAgentOptions configures a StageAgent instance.
//
// Use functional options with NewStageAgent to override defaults.
type StageAgentOptions struct {
	// Tools available for function calling.
	Tools []tool.Tool
	// ToolTimeout bounds a single tool execution.
	ToolTimeout time.Duration
	// MaxToolRounds bounds the generate/execute loop. A model that keeps
	// requesting tools beyond this fails the stage.
	MaxToolRounds int
	// Logger receives structured progress logs.
	Logger logging.Logger
}

// StageAgent drives one advisory stage: it prompts its model with the stage
// payload, executes requested tools, and streams everything it does as
// events. The final assistant text is the stage result.
type StageAgent struct {
	stage         core.Stage
	llm           model.Model
	systemPrompt  string
	tools         map[string]tool.Tool
	toolTimeout   time.Duration
	maxToolRounds int
	logger        logging.Logger
}

// NewStageAgent creates an agent for a stage with sensible defaults: a
// 15-second tool timeout and at most 8 tool rounds per invocation.
func NewStageAgent(stage core.Stage, llm model.Model, systemPrompt string, optFns ...func(o *StageAgentOptions)) *StageAgent {
	opts := StageAgentOptions{
		ToolTimeout:   15 * time.Second,
		MaxToolRounds: 8,
		Logger:        logging.NewNoOpLogger(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	tools := make(map[string]tool.Tool, len(opts.Tools))
	for _, t := range opts.Tools {
		tools[t.Name()] = t
	}

	return &StageAgent{
		stage:         stage,
		llm:           llm,
		systemPrompt:  systemPrompt,
		tools:         tools,
		toolTimeout:   opts.ToolTimeout,
		maxToolRounds: opts.MaxToolRounds,
		logger:        opts.Logger,
	}
}

// Stage returns the advisory stage this agent serves.
func (a *StageAgent) Stage() core.Stage { return a.stage }

// Stream runs one invocation against the payload, forwarding every event to
// sink. It returns the final assistant text once the model stopped asking
// for tools.
func (a *StageAgent) Stream(ctx context.Context, payload any, sink func(core.Event)) (string, error) {
	if sink == nil {
		sink = func(core.Event) {}
	}

	messages := []model.Message{
		{Role: model.RoleUser, Text: formatPayload(payload)},
	}

	for round := 0; round <= a.maxToolRounds; round++ {
		final, err := a.generate(ctx, messages, sink)
		if err != nil {
			return "", err
		}

		if len(final.ToolCalls) == 0 {
			sink(core.NewStreamingCompleteEvent(final.Text))
			return final.Text, nil
		}

		messages = append(messages, model.Message{
			Role:      model.RoleAssistant,
			Text:      final.Text,
			ToolCalls: final.ToolCalls,
		})

		outcomes, err := a.executeToolCalls(ctx, final.ToolCalls, sink)
		if err != nil {
			return "", err
		}

		messages = append(messages, model.Message{
			Role:         model.RoleTool,
			ToolOutcomes: outcomes,
		})
	}

	return "", fmt.Errorf("%s agent exceeded %d tool rounds", a.stage, a.maxToolRounds)
}

// generate runs one model call, forwarding text deltas and returning the
// final chunk.
func (a *StageAgent) generate(ctx context.Context, messages []model.Message, sink func(core.Event)) (model.Chunk, error) {
	req := model.Request{
		System:   a.systemPrompt,
		Messages: messages,
		Tools:    a.toolDefinitions(),
		Stream:   true,
	}

	chunks, errs := a.llm.Generate(ctx, req)

	var final model.Chunk
	for chunk := range chunks {
		if chunk.Partial {
			if chunk.TextDelta != "" {
				sink(core.NewTextChunkEvent(chunk.TextDelta))
			}
			continue
		}

		final = chunk
	}

	if err := <-errs; err != nil {
		return model.Chunk{}, fmt.Errorf("model generation failed: %w", err)
	}

	return final, nil
}

func (a *StageAgent) executeToolCalls(ctx context.Context, calls []model.ToolCall, sink func(core.Event)) ([]model.ToolOutcome, error) {
	outcomes := make([]model.ToolOutcome, 0, len(calls))

	for _, call := range calls {
		args := map[string]any{}
		if call.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
				return nil, fmt.Errorf("malformed arguments for tool %s: %w", call.Name, err)
			}
		}

		sink(core.NewToolUseEvent(call.Name, call.ID, args))

		outcome := a.executeTool(ctx, call, args)

		status := "success"
		if outcome.IsError {
			status = "error"
		}

		sink(core.NewToolResultEvent(call.ID, status, outcome.Content))

		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

func (a *StageAgent) executeTool(ctx context.Context, call model.ToolCall, args map[string]any) model.ToolOutcome {
	t, ok := a.tools[call.Name]
	if !ok {
		return model.ToolOutcome{
			ID:      call.ID,
			Name:    call.Name,
			Content: fmt.Sprintf("unknown tool %q", call.Name),
			IsError: true,
		}
	}

	toolCtx, cancel := context.WithTimeout(ctx, a.toolTimeout)
	defer cancel()

	result, err := t.Call(toolCtx, args)
	if err != nil {
		a.logger.Warn("tool call failed stage=%s tool=%s: %v", a.stage, call.Name, err)

		return model.ToolOutcome{
			ID:      call.ID,
			Name:    call.Name,
			Content: err.Error(),
			IsError: true,
		}
	}

	return model.ToolOutcome{
		ID:      call.ID,
		Name:    call.Name,
		Content: formatPayload(result),
	}
}

func (a *StageAgent) toolDefinitions() []model.ToolDefinition {
	if len(a.tools) == 0 {
		return nil
	}

	defs := make([]model.ToolDefinition, 0, len(a.tools))
	for _, t := range a.tools {
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}

	return defs
}

// formatPayload renders a stage payload or tool result as text for the
// model: strings pass through, everything else is JSON encoded.
func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return ""
	case string:
		return v
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}

	return string(data)
}
