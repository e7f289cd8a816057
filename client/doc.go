// Package client implements the agent invocation client: it reaches one
// remote advisory agent by stage role, forwards the agent's streamed events
// verbatim to a caller-provided sink, and extracts the final structured
// result once the stream signals completion.
//
// The remote transport is a streamed HTTP response of line-delimited
// "data: <json>" records. Malformed records are skipped, never fatal.
// Result extraction uses the brace-span heuristic documented on ExtractJSON.
package client
