package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/fundmesh/core"
	"github.com/hupe1980/fundmesh/graph"
	"github.com/hupe1980/fundmesh/logging"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// EventBufferSize sets channel buffering for streamed events.
	EventBufferSize int
	// Recorder persists per-stage conversational turns into session memory.
	// Nil disables memory writes.
	Recorder core.Recorder
	// Logger receives structured progress logs.
	Logger logging.Logger
}

// Runner coordinates consultations: it mints session IDs, drives the stage
// graph, streams events, and records stage turns into session memory.
// Public methods are safe for concurrent use.
type Runner struct {
	invoker  core.Invoker
	recorder core.Recorder

	eventBufferSize int
	logger          logging.Logger

	activeRuns map[string]context.CancelFunc
	mu         sync.Mutex
}

// New constructs a Runner on top of the given stage invoker with optional
// overrides.
func New(invoker core.Invoker, optFns ...func(o *Options)) *Runner {
	opts := Options{
		EventBufferSize: 100,
		Logger:          logging.NewNoOpLogger(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{
		invoker:         invoker,
		recorder:        opts.Recorder,
		eventBufferSize: opts.EventBufferSize,
		logger:          opts.Logger,
		activeRuns:      make(map[string]context.CancelFunc),
	}
}

// Consult starts an asynchronous consultation for the given user input. When
// sessionID is empty a fresh timestamp-derived identifier is minted. The
// returned event channel carries the live stream of the whole chain and is
// closed when the consultation ends; the error channel delivers at most one
// error when a stage failed.
func (r *Runner) Consult(ctx context.Context, userInput map[string]any, sessionID string) (string, <-chan core.Event, <-chan error) {
	if sessionID == "" {
		sessionID = core.NewSessionID()
	}

	state := core.NewState(userInput, sessionID)

	eventsCh := make(chan core.Event, r.eventBufferSize)
	errorsCh := make(chan error, 1)

	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.activeRuns[sessionID] = cancel
	r.mu.Unlock()

	g := graph.New(r.invoker, r.recorder, func(o *graph.Options) {
		o.Logger = r.logger
	})

	go func() {
		defer func() {
			close(eventsCh)
			close(errorsCh)
			cancel()

			r.mu.Lock()
			delete(r.activeRuns, sessionID)
			r.mu.Unlock()
		}()

		r.logger.Info("consultation started session_id=%s", sessionID)

		err := g.Run(ctx, state, func(ev core.Event) {
			select {
			case <-ctx.Done():
			case eventsCh <- ev:
			}
		})
		if err != nil {
			r.logger.Error("consultation failed session_id=%s: %v", sessionID, err)
			errorsCh <- fmt.Errorf("consultation failed: %w", err)

			return
		}

		r.logger.Info("consultation completed session_id=%s", sessionID)
	}()

	return sessionID, eventsCh, errorsCh
}

// Cancel aborts a running consultation by session ID.
func (r *Runner) Cancel(sessionID string) error {
	r.mu.Lock()
	cancel, exists := r.activeRuns[sessionID]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("session %s not found", sessionID)
	}

	cancel()

	return nil
}
