// Package server exposes the advisory pipeline over HTTP. The orchestrator
// endpoint streams a whole consultation as server-sent events; the per-agent
// endpoints serve single stages using the same wire protocol the remote
// client consumes, so a fundmesh process can act as its own downstream
// agent fleet.
package server
