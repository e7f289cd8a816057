package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hupe1980/fundmesh/core"
	"github.com/hupe1980/fundmesh/logging"
)

// RecorderOptions holds overrides passed to NewRecorder().
type RecorderOptions struct {
	// ActorID tags every memory event; one logical user per consultation flow.
	ActorID string
	// Logger receives write failures (warn) and successes (debug).
	Logger logging.Logger
}

// Recorder adapts stage I/O into the memory store's conversational shape and
// appends it, best-effort, to the session's trail. It implements
// core.Recorder. Safe for concurrent use.
type Recorder struct {
	service  Service
	memoryID string
	actorID  string
	logger   logging.Logger
}

// NewRecorder constructs a Recorder writing to the given memory store id.
func NewRecorder(service Service, memoryID string, optFns ...func(o *RecorderOptions)) *Recorder {
	opts := RecorderOptions{
		ActorID: "fund_user",
		Logger:  logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Recorder{
		service:  service,
		memoryID: memoryID,
		actorID:  opts.ActorID,
		logger:   opts.Logger,
	}
}

// Record appends one memory event for a completed stage. A stage that
// produced no output is skipped entirely: there is nothing to summarize.
// Write errors are logged and swallowed; memory is not part of the
// consultation's correctness contract.
func (r *Recorder) Record(ctx context.Context, sessionID string, stage core.Stage, input any, output string) {
	if r.memoryID == "" || output == "" {
		return
	}

	messages := []Message{
		{Text: fmt.Sprintf("%s analysis request: %s", stage, serializeInput(input)), Role: RoleUser},
		{Text: fmt.Sprintf("%s result: %s", stage, output), Role: RoleAssistant},
	}

	err := r.service.CreateEvent(ctx, r.memoryID, r.actorID, sessionID, messages)

	r.logWrite(stage, sessionID, err)
}

// logWrite reports one append outcome, upgrading to the structured memory
// write record when the logger supports it. Errors are reported, never
// returned.
func (r *Recorder) logWrite(stage core.Stage, sessionID string, err error) {
	if ml, ok := r.logger.(logging.MemoryWriteLogger); ok {
		ml.LogMemoryWrite(string(stage), err)
		return
	}

	if err != nil {
		r.logger.Warn("memory save failed stage=%s session_id=%s: %v", stage, sessionID, err)
		return
	}

	r.logger.Debug("memory event saved stage=%s session_id=%s", stage, sessionID)
}

// serializeInput renders a stage input for the request turn. Strings pass
// through untouched so a prior stage's JSON output is recorded verbatim.
func serializeInput(input any) string {
	switch v := input.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(raw)
	}
}
