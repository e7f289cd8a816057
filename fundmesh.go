// Package fundmesh provides a high-level façade over the advisory pipeline:
// a three stage agent chain (financial analyst, portfolio architect, risk
// analyst) with live event streaming and durable session memory. Most
// applications interact with this package by:
//  1. Creating a FundMesh via New() with a stage invoker (remote client or
//     local agent runtime)
//  2. Starting consultations asynchronously (Consult) or synchronously
//     (ConsultSync)
//
// The façade delegates orchestration to runner.Runner while keeping setup
// and usage ergonomics concise. All defaults are safe for local development
// and testing; production deployments typically supply a remote agent client,
// a durable memory service and a structured logger.
package fundmesh

import (
	"context"

	"github.com/hupe1980/fundmesh/core"
	"github.com/hupe1980/fundmesh/logging"
	"github.com/hupe1980/fundmesh/runner"
)

// Options configures the FundMesh instance.
type Options struct {
	// EventBufferSize sets the channel buffer size for event streaming.
	// Larger buffers reduce blocking but increase memory usage.
	EventBufferSize int

	// Recorder persists stage turns into session memory. Nil disables
	// memory writes.
	Recorder core.Recorder

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// FundMesh is the high-level façade aggregating the consultation runner.
type FundMesh struct {
	opts   Options
	runner *runner.Runner
}

// New creates a new FundMesh instance over the given stage invoker with
// optional overrides.
func New(invoker core.Invoker, optFns ...func(o *Options)) *FundMesh {
	opts := Options{
		EventBufferSize: 100,
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	r := runner.New(invoker, func(o *runner.Options) {
		o.EventBufferSize = opts.EventBufferSize
		o.Recorder = opts.Recorder
		o.Logger = opts.Logger
	})

	return &FundMesh{opts: opts, runner: r}
}

// Consult starts an asynchronous consultation returning the session ID plus
// event & error channels.
func (m *FundMesh) Consult(
	ctx context.Context,
	userInput map[string]any,
	sessionID string,
) (string, <-chan core.Event, <-chan error) {
	return m.runner.Consult(ctx, userInput, sessionID)
}

// ConsultSync is a synchronous helper that drains the async channels,
// accumulates events and returns the session ID.
func (m *FundMesh) ConsultSync(
	ctx context.Context,
	userInput map[string]any,
	sessionID string,
) (string, []core.Event, error) {
	id, eventsCh, errorsCh := m.runner.Consult(ctx, userInput, sessionID)

	var events []core.Event
	for {
		select {
		case <-ctx.Done():
			// Context cancelled - return events collected so far
			return id, events, ctx.Err()

		case event, ok := <-eventsCh:
			if !ok {
				// Events channel closed - check for terminal error
				select {
				case err := <-errorsCh:
					return id, events, err
				default:
					return id, events, nil
				}
			}

			events = append(events, event)

		case err := <-errorsCh:
			if err != nil {
				// Drain buffered events so callers see the terminal error
				// event too.
				for event := range eventsCh {
					events = append(events, event)
				}

				return id, events, err
			}
		}
	}
}
