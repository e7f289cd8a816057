package core

import "github.com/google/uuid"

// EventType discriminates the closed set of streamed event kinds. The wire
// shape of an Event is fully determined by its Type; consumers must ignore
// unknown values rather than treat them as fatal so that agent-specific
// extensions can pass through the pipeline untouched.
type EventType string

const (
	// EventTextChunk carries incremental reasoning text from the active agent.
	EventTextChunk EventType = "text_chunk"
	// EventToolUse signals that the active agent invoked a named tool.
	EventToolUse EventType = "tool_use"
	// EventToolResult carries the outcome of a previously signalled tool call.
	EventToolResult EventType = "tool_result"
	// EventNodeStart marks the beginning of a stage.
	EventNodeStart EventType = "node_start"
	// EventNodeComplete marks the end of a stage and carries its final result.
	EventNodeComplete EventType = "node_complete"
	// EventStreamingComplete is emitted by a downstream agent when its stream
	// finishes; it carries the agent's final structured answer, possibly
	// wrapped in prose.
	EventStreamingComplete EventType = "streaming_complete"
	// EventError reports a fatal condition for the current stage or session.
	EventError EventType = "error"
)

// Event is one unit of the streamed protocol. Only the fields belonging to
// the Type are populated; everything else stays at its zero value and is
// omitted from the JSON encoding. After emission an Event should be treated
// as immutable.
type Event struct {
	Type EventType `json:"type"`

	// text_chunk
	Data string `json:"data,omitempty"`

	// tool_use / tool_result
	ToolName  string `json:"tool_name,omitempty"`
	ToolUseID string `json:"tool_use_id,omitempty"`
	ToolInput any    `json:"tool_input,omitempty"`
	Status    string `json:"status,omitempty"`
	Content   any    `json:"content,omitempty"`

	// node_start / node_complete
	AgentName string `json:"agent_name,omitempty"`
	SessionID string `json:"session_id,omitempty"`

	// node_complete / streaming_complete
	Result string `json:"result,omitempty"`

	// error
	Error string `json:"error,omitempty"`
}

// NewTextChunkEvent constructs an incremental text event.
func NewTextChunkEvent(data string) Event {
	return Event{Type: EventTextChunk, Data: data}
}

// NewToolUseEvent records that a named tool was invoked with the given input.
func NewToolUseEvent(toolName, toolUseID string, toolInput any) Event {
	return Event{Type: EventToolUse, ToolName: toolName, ToolUseID: toolUseID, ToolInput: toolInput}
}

// NewToolResultEvent captures the outcome of an earlier tool_use event.
// Status is "success" or "error".
func NewToolResultEvent(toolUseID, status string, content any) Event {
	return Event{Type: EventToolResult, ToolUseID: toolUseID, Status: status, Content: content}
}

// NewNodeStartEvent marks the start of a stage within a session.
func NewNodeStartEvent(stage Stage, sessionID string) Event {
	return Event{Type: EventNodeStart, AgentName: string(stage), SessionID: sessionID}
}

// NewNodeCompleteEvent marks the completion of a stage carrying its final
// structured output.
func NewNodeCompleteEvent(stage Stage, sessionID, result string) Event {
	return Event{Type: EventNodeComplete, AgentName: string(stage), SessionID: sessionID, Result: result}
}

// NewStreamingCompleteEvent wraps a downstream agent's final answer.
func NewStreamingCompleteEvent(result string) Event {
	return Event{Type: EventStreamingComplete, Result: result}
}

// NewErrorEvent converts an error into a terminal error event.
func NewErrorEvent(err error) Event {
	return Event{Type: EventError, Error: err.Error(), Status: "error"}
}

// IsTerminal reports whether the event ends a stage's stream
// (streaming_complete or error).
func (e Event) IsTerminal() bool {
	return e.Type == EventStreamingComplete || e.Type == EventError
}

// NewID generates a unique identifier usable for tool-use correlation and
// memory records.
func NewID() string { return uuid.NewString() }
