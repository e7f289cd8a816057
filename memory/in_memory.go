package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/fundmesh/core"
)

// StoredEvent is the internal representation persisted by InMemoryService.
type StoredEvent struct {
	ID        string
	ActorID   string
	SessionID string
	Messages  []Message
	CreatedAt time.Time
}

// InMemoryService is a process-local Service suitable for tests, local
// serving and as the backing store of the Summarizer. Events are append-only
// per (memoryID, sessionID); summaries live under their namespace.
//
// Concurrency: protected by RWMutex.
type InMemoryService struct {
	mu        sync.RWMutex
	events    map[string]map[string][]StoredEvent // memoryID -> sessionID -> events
	summaries map[string]map[string]Record        // memoryID -> namespace -> summary
}

// NewInMemoryService creates an empty in-memory memory store.
func NewInMemoryService() *InMemoryService {
	return &InMemoryService{
		events:    make(map[string]map[string][]StoredEvent),
		summaries: make(map[string]map[string]Record),
	}
}

// CreateEvent appends one event to the session's trail.
func (s *InMemoryService) CreateEvent(_ context.Context, memoryID, actorID, sessionID string, messages []Message) error {
	if memoryID == "" {
		return fmt.Errorf("memory id required")
	}
	if sessionID == "" {
		return fmt.Errorf("session id required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[memoryID]; !ok {
		s.events[memoryID] = make(map[string][]StoredEvent)
	}

	copied := make([]Message, len(messages))
	copy(copied, messages)

	s.events[memoryID][sessionID] = append(s.events[memoryID][sessionID], StoredEvent{
		ID:        core.NewID(),
		ActorID:   actorID,
		SessionID: sessionID,
		Messages:  copied,
		CreatedAt: time.Now().UTC(),
	})

	return nil
}

// Retrieve returns the records stored under a namespace whose content
// contains the query (empty query matches everything).
func (s *InMemoryService) Retrieve(_ context.Context, memoryID, namespace, query string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byNamespace, ok := s.summaries[memoryID]
	if !ok {
		return nil, nil
	}

	var results []Record
	for ns, rec := range byNamespace {
		if ns != namespace {
			continue
		}
		if query == "" || strings.Contains(rec.Content, query) {
			results = append(results, rec)
		}
	}

	return results, nil
}

// SetSummary stores (or replaces) the derived summary for a namespace.
func (s *InMemoryService) SetSummary(memoryID, namespace, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.summaries[memoryID]; !ok {
		s.summaries[memoryID] = make(map[string]Record)
	}

	s.summaries[memoryID][namespace] = Record{
		ID:        core.NewID(),
		Namespace: namespace,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// Sessions lists the session ids with at least one stored event, sorted for
// deterministic iteration.
func (s *InMemoryService) Sessions(memoryID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id := range s.events[memoryID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// SessionEvents returns a defensive copy of one session's event trail.
func (s *InMemoryService) SessionEvents(memoryID, sessionID string) []StoredEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := s.events[memoryID][sessionID]
	copied := make([]StoredEvent, len(events))
	copy(copied, events)

	return copied
}
