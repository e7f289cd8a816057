// Package core provides the foundational domain types and interfaces used by
// FundMesh. It defines the core abstractions for:
//
//   - Events (the streamed progress / result protocol between the
//     orchestrator, downstream agents and callers)
//   - Stages (the fixed three-step advisory chain: financial → portfolio → risk)
//   - State (the consultation value threaded through the stage chain)
//   - Sessions (timestamp-derived identifiers grouping one consultation)
//   - Pluggable contracts for agent invocation and memory recording
//
// The package intentionally keeps implementation concerns (transports,
// orchestration, concrete agents) out of scope, exposing small interfaces to
// enable custom backends and extensions.
package core
