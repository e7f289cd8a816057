package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/fundmesh/logging"
	"github.com/hupe1980/fundmesh/model"
)

// summaryPrompt instructs the model to condense one session's trail.
const summaryPrompt = `You summarize fund management consultation sessions.
Given the recorded analysis requests and results of one session, produce a
concise summary covering: the client's situation, the risk profile, the
recommended portfolio allocation, and the key risk findings. Plain text,
at most 10 sentences.`

// SummaryStore is the store surface the Summarizer needs: enumerate
// sessions, read their trails and file derived summaries.
type SummaryStore interface {
	Sessions(memoryID string) []string
	SessionEvents(memoryID, sessionID string) []StoredEvent
	SetSummary(memoryID, namespace, content string)
}

// SummarizerOptions holds overrides passed to NewSummarizer().
type SummarizerOptions struct {
	// Interval between summarization sweeps.
	Interval time.Duration
	// ActorID namespaces the produced summaries.
	ActorID string
	Logger  logging.Logger
}

// Summarizer periodically derives one summary per session from the
// accumulated memory trail. It runs outside the consultation path: the
// orchestrator only appends events and never waits for, or reads, a summary.
// Redundant turns from re-run stages are tolerated; the whole trail is
// re-summarized on every sweep that saw new events.
type Summarizer struct {
	store     SummaryStore
	generator model.Model
	memoryID  string
	actorID   string
	interval  time.Duration
	logger    logging.Logger

	seen map[string]int // sessionID -> event count at last summary
}

// NewSummarizer constructs a Summarizer over the given store and model.
func NewSummarizer(store SummaryStore, generator model.Model, memoryID string, optFns ...func(o *SummarizerOptions)) *Summarizer {
	opts := SummarizerOptions{
		Interval: time.Minute,
		ActorID:  "fund_user",
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Summarizer{
		store:     store,
		generator: generator,
		memoryID:  memoryID,
		actorID:   opts.ActorID,
		interval:  opts.Interval,
		logger:    opts.Logger,
		seen:      make(map[string]int),
	}
}

// Run sweeps until the context is cancelled.
func (s *Summarizer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep summarizes every session whose trail grew since the last sweep.
func (s *Summarizer) Sweep(ctx context.Context) {
	for _, sessionID := range s.store.Sessions(s.memoryID) {
		events := s.store.SessionEvents(s.memoryID, sessionID)
		if len(events) == 0 || len(events) == s.seen[sessionID] {
			continue
		}

		summary, err := s.summarize(ctx, events)
		if err != nil {
			s.logger.Warn("session summarization failed session_id=%s: %v", sessionID, err)
			continue
		}

		s.store.SetSummary(s.memoryID, SummaryNamespace(s.actorID, sessionID), summary)
		s.seen[sessionID] = len(events)
		s.logger.Debug("session summary updated session_id=%s events=%d", sessionID, len(events))
	}
}

// summarize condenses a trail into one summary via a single model call.
func (s *Summarizer) summarize(ctx context.Context, events []StoredEvent) (string, error) {
	var transcript strings.Builder
	for _, ev := range events {
		for _, msg := range ev.Messages {
			transcript.WriteString(msg.Role)
			transcript.WriteString(": ")
			transcript.WriteString(msg.Text)
			transcript.WriteString("\n")
		}
	}

	out, errCh := s.generator.Generate(ctx, model.Request{
		System:   summaryPrompt,
		Messages: []model.Message{{Role: model.RoleUser, Text: transcript.String()}},
	})

	var text string
	for chunk := range out {
		if !chunk.Partial {
			text = chunk.Text
		}
	}
	if err := <-errCh; err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("model returned empty summary")
	}

	return text, nil
}
