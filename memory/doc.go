// Package memory implements the durable session memory trail: an append-only
// store of per-stage (input, output) pairs framed as synthetic conversational
// turns, plus the best-effort Recorder the orchestrator writes through.
//
// The framing exists because the summarization strategy is designed around
// conversational turns, not arbitrary structured records: every stage run is
// recorded as a "user" request turn and an "assistant" result turn. A
// background Summarizer periodically derives a per-session summary from the
// accumulated turns; the orchestrator only writes, never reads, that summary.
//
// Memory is a side channel: every write failure is logged and swallowed, and
// losing an event never aborts a consultation.
package memory
