// Package runner exposes the top level consultation API. A Runner owns the
// stage graph and the session memory recorder, mints session identifiers,
// and turns a single consultation into an asynchronous event stream that
// callers drain over channels.
package runner
