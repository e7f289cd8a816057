// Package agents implements the three advisory agents (financial analyst,
// portfolio architect, risk analyst) on top of the model and tool layers,
// plus an in-process Runtime that serves them without HTTP hops. Each agent
// streams its work as the event vocabulary the orchestration layer consumes:
// text_chunk, tool_use, tool_result and a final streaming_complete.
package agents
