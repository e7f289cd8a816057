package core

import "time"

// sessionIDLayout yields sortable identifiers with one second granularity.
// Sub-second collisions between generated IDs are accepted; callers needing
// stronger uniqueness supply their own session ID.
const sessionIDLayout = "20060102_150405"

// NewSessionID derives a fresh session identifier from the current wall
// clock, e.g. "session_20260901_143050". Session IDs are logical keys into
// the memory trail; nothing is allocated and nothing needs tearing down.
func NewSessionID() string {
	return "session_" + time.Now().Format(sessionIDLayout)
}
