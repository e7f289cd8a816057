package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/fundmesh/core"
	"github.com/hupe1980/fundmesh/logging"
)

// Options configures the stage graph.
type Options struct {
	// Logger receives structured progress logs. Defaults to a no-op logger.
	Logger logging.Logger
}

// Graph runs the fixed financial, portfolio, risk stage chain over a
// consultation state.
type Graph struct {
	invoker  core.Invoker
	recorder core.Recorder
	opts     Options
}

// New creates a stage graph on top of the given stage invoker. The recorder
// may be nil, in which case no memory events are written.
func New(invoker core.Invoker, recorder core.Recorder, optFns ...func(o *Options)) *Graph {
	opts := Options{
		Logger: logging.NewNoOpLogger(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Graph{
		invoker:  invoker,
		recorder: recorder,
		opts:     opts,
	}
}

// Run executes all stages in order against the given state, forwarding every
// event to sink. It stops at the first stage failure after emitting a
// terminal error event. On success the stream ends with the risk stage's
// streaming_complete event followed by its node_complete marker.
func (g *Graph) Run(ctx context.Context, state *core.State, sink func(core.Event)) error {
	if sink == nil {
		sink = func(core.Event) {}
	}

	for _, stage := range core.StageOrder {
		if err := ctx.Err(); err != nil {
			sink(core.NewErrorEvent(err))
			return err
		}

		g.opts.Logger.Info("stage %s starting session_id=%s", stage, state.SessionID)

		sink(core.NewNodeStartEvent(stage, state.SessionID))

		input := state.StageInput(stage)

		start := time.Now()

		result, err := g.invoker.Invoke(ctx, stage, input, sink)
		if err != nil {
			stageErr := fmt.Errorf("%s stage failed: %w", stage, err)

			g.logStage(stage, time.Since(start), err)

			sink(core.NewErrorEvent(stageErr))

			return stageErr
		}

		sink(core.NewNodeCompleteEvent(stage, state.SessionID, result))

		if g.recorder != nil {
			g.recorder.Record(ctx, state.SessionID, stage, input, result)
		}

		if err := state.SetResult(stage, result); err != nil {
			return err
		}

		g.logStage(stage, time.Since(start), nil)
	}

	return nil
}

// logStage reports one stage outcome, upgrading to the structured stage
// execution record when the configured logger supports it.
func (g *Graph) logStage(stage core.Stage, dur time.Duration, err error) {
	if sl, ok := g.opts.Logger.(logging.StageExecutionLogger); ok {
		sl.LogStageExecution(string(stage), dur, err == nil, err)
		return
	}

	if err != nil {
		g.opts.Logger.Error("stage %s failed after %s: %v", stage, dur, err)
		return
	}

	g.opts.Logger.Info("stage %s completed in %s", stage, dur)
}
