package model

import (
	"context"
	"fmt"
)

// Conversation roles used in Message.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall represents a function call request surfaced by a model provider.
// Unified across vendors so the agent loop needs no per-provider branching.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON string of arguments
}

// ToolOutcome carries the result of executing a previously requested tool
// call back to the model.
type ToolOutcome struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

// Message is one conversational turn. Assistant turns may carry ToolCalls;
// tool turns carry ToolOutcomes; user turns carry plain text.
type Message struct {
	Role         string        `json:"role"`
	Text         string        `json:"text,omitempty"`
	ToolCalls    []ToolCall    `json:"tool_calls,omitempty"`
	ToolOutcomes []ToolOutcome `json:"tool_outcomes,omitempty"`
}

// ToolDefinition declaratively exposes a callable function to the model.
// Parameters is a minimal JSON Schema object.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input produced by the agent loop.
type Request struct {
	System   string           `json:"system,omitempty"`
	Messages []Message        `json:"messages"`
	Tools    []ToolDefinition `json:"tools,omitempty"`
	Stream   bool             `json:"stream,omitempty"`
}

// Chunk is a (partial or final) unit emitted by a generating model. Partial
// chunks carry an incremental TextDelta; the final chunk carries the full
// accumulated Text plus any requested ToolCalls and the finish reason.
type Chunk struct {
	Partial      bool       `json:"partial"`
	TextDelta    string     `json:"text_delta,omitempty"`
	Text         string     `json:"text,omitempty"`
	ToolCalls    []ToolCall `json:"tool_calls,omitempty"`
	FinishReason string     `json:"finish_reason,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock"
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface the agent runtime needs to drive generation.
// The chunk channel is closed when generation ends; the error channel carries
// at most one terminal error and is closed afterwards.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Chunk, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests. Canned turns
// are consumed in order: each Generate call pops the next scripted turn.
type MockModel struct {
	info  Info
	turns []Chunk
	calls int
}

// NewMockModel constructs a MockModel with basic tool support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info: Info{Name: name, Provider: "mock", SupportsTools: true},
	}
}

// AddTextTurn scripts a final text answer for the next Generate call.
func (m *MockModel) AddTextTurn(text string) *MockModel {
	m.turns = append(m.turns, Chunk{Text: text, FinishReason: "stop"})
	return m
}

// AddToolTurn scripts a tool-calling turn for the next Generate call.
func (m *MockModel) AddToolTurn(calls ...ToolCall) *MockModel {
	m.turns = append(m.turns, Chunk{ToolCalls: calls, FinishReason: "tool_calls"})
	return m
}

// Generate implements Model; streams the scripted text rune by rune when
// streaming is requested, then emits the final chunk.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Chunk, <-chan error) {
	out := make(chan Chunk, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		if m.calls >= len(m.turns) {
			errCh <- fmt.Errorf("mock model: no scripted turn for call %d", m.calls+1)
			return
		}

		final := m.turns[m.calls]
		m.calls++

		if req.Stream && final.Text != "" {
			for _, r := range final.Text {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case out <- Chunk{Partial: true, TextDelta: string(r)}:
				}
			}
		}

		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case out <- final:
		}
	}()

	return out, errCh
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
