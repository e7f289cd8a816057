package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want Event
	}{
		{
			name: "text chunk",
			ev:   NewTextChunkEvent("thinking..."),
			want: Event{Type: EventTextChunk, Data: "thinking..."},
		},
		{
			name: "tool use",
			ev:   NewToolUseEvent("calculator", "tu-1", map[string]any{"a": 1.0}),
			want: Event{Type: EventToolUse, ToolName: "calculator", ToolUseID: "tu-1", ToolInput: map[string]any{"a": 1.0}},
		},
		{
			name: "tool result",
			ev:   NewToolResultEvent("tu-1", "success", "42"),
			want: Event{Type: EventToolResult, ToolUseID: "tu-1", Status: "success", Content: "42"},
		},
		{
			name: "node start",
			ev:   NewNodeStartEvent(StageFinancial, "session_1"),
			want: Event{Type: EventNodeStart, AgentName: "financial", SessionID: "session_1"},
		},
		{
			name: "node complete",
			ev:   NewNodeCompleteEvent(StageRisk, "session_1", `{"ok":true}`),
			want: Event{Type: EventNodeComplete, AgentName: "risk", SessionID: "session_1", Result: `{"ok":true}`},
		},
		{
			name: "error",
			ev:   NewErrorEvent(errors.New("boom")),
			want: Event{Type: EventError, Error: "boom", Status: "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ev)
		})
	}
}

func TestEventJSONShape(t *testing.T) {
	raw, err := json.Marshal(NewNodeStartEvent(StagePortfolio, "session_2"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	// Only the fields belonging to the type may appear on the wire.
	assert.Equal(t, map[string]any{
		"type":       "node_start",
		"agent_name": "portfolio",
		"session_id": "session_2",
	}, decoded)
}

func TestEventUnknownTypeDecodes(t *testing.T) {
	var ev Event
	err := json.Unmarshal([]byte(`{"type":"reasoning_signature","data":"x"}`), &ev)
	require.NoError(t, err)
	assert.Equal(t, EventType("reasoning_signature"), ev.Type)
	assert.False(t, ev.IsTerminal())
}

func TestEventIsTerminal(t *testing.T) {
	assert.True(t, NewStreamingCompleteEvent("{}").IsTerminal())
	assert.True(t, NewErrorEvent(errors.New("x")).IsTerminal())
	assert.False(t, NewTextChunkEvent("x").IsTerminal())
}

func TestNewID(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
}
