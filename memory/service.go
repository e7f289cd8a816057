package memory

import (
	"context"
	"time"
)

// Conversation roles used when framing stage I/O as synthetic turns.
const (
	RoleUser      = "USER"
	RoleAssistant = "ASSISTANT"
)

// Message is one synthetic conversational turn inside a memory event.
type Message struct {
	Text string `json:"text"`
	Role string `json:"role"`
}

// Record is a derived memory entry returned by namespace-scoped retrieval,
// typically a per-session summary.
type Record struct {
	ID        string    `json:"id"`
	Namespace string    `json:"namespace"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Service is the external durable memory store. CreateEvent appends one
// event to a session's trail; Retrieve reads derived records (summaries)
// from a namespace. Implementations must tolerate redundant turns: the
// recorder gives no idempotence guarantees.
type Service interface {
	CreateEvent(ctx context.Context, memoryID, actorID, sessionID string, messages []Message) error
	Retrieve(ctx context.Context, memoryID, namespace, query string) ([]Record, error)
}

// SummaryNamespace is the namespace under which per-session summaries are
// filed, mirroring the store's actor/session hierarchy.
func SummaryNamespace(actorID, sessionID string) string {
	return "/summaries/" + actorID + "/" + sessionID
}
