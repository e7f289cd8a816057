package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fundmesh/core"
	"github.com/hupe1980/fundmesh/logging"
)

// capturingService records CreateEvent calls and optionally fails them.
type capturingService struct {
	calls []createEventRequest
	err   error
}

func (c *capturingService) CreateEvent(_ context.Context, memoryID, actorID, sessionID string, messages []Message) error {
	if c.err != nil {
		return c.err
	}
	c.calls = append(c.calls, createEventRequest{ActorID: actorID, SessionID: sessionID, Messages: messages})
	return nil
}

func (c *capturingService) Retrieve(context.Context, string, string, string) ([]Record, error) {
	return nil, nil
}

func TestRecorderFramesStageIOAsConversation(t *testing.T) {
	svc := &capturingService{}
	rec := NewRecorder(svc, "mem-1")

	rec.Record(context.Background(), "session_1", core.StageFinancial, map[string]any{"age": 34}, `{"risk_profile":"Neutral"}`)

	require.Len(t, svc.calls, 1)
	call := svc.calls[0]
	assert.Equal(t, "fund_user", call.ActorID)
	assert.Equal(t, "session_1", call.SessionID)
	require.Len(t, call.Messages, 2)
	assert.Equal(t, Message{Text: `financial analysis request: {"age":34}`, Role: RoleUser}, call.Messages[0])
	assert.Equal(t, Message{Text: `financial result: {"risk_profile":"Neutral"}`, Role: RoleAssistant}, call.Messages[1])
}

func TestRecorderStringInputPassesThroughVerbatim(t *testing.T) {
	svc := &capturingService{}
	rec := NewRecorder(svc, "mem-1")

	rec.Record(context.Background(), "session_1", core.StagePortfolio, `{"risk_profile":"Neutral"}`, `{"portfolio_allocation":{}}`)

	require.Len(t, svc.calls, 1)
	assert.Equal(t, `portfolio analysis request: {"risk_profile":"Neutral"}`, svc.calls[0].Messages[0].Text)
}

func TestRecorderSkipsEmptyOutput(t *testing.T) {
	svc := &capturingService{}
	rec := NewRecorder(svc, "mem-1")

	rec.Record(context.Background(), "session_1", core.StageRisk, "input", "")

	assert.Empty(t, svc.calls, "a failed stage has nothing to summarize")
}

func TestRecorderSkipsWithoutMemoryID(t *testing.T) {
	svc := &capturingService{}
	rec := NewRecorder(svc, "")

	rec.Record(context.Background(), "session_1", core.StageFinancial, "input", "output")

	assert.Empty(t, svc.calls)
}

func TestRecorderSwallowsWriteErrors(t *testing.T) {
	svc := &capturingService{err: errors.New("store down")}
	rec := NewRecorder(svc, "mem-1")

	// Must not panic and must not surface the error anywhere.
	rec.Record(context.Background(), "session_1", core.StageFinancial, "input", "output")
}

// writeRecordingLogger captures structured memory write records.
type writeRecordingLogger struct {
	logging.NoOpLogger

	stages []string
	errs   []error
}

func (l *writeRecordingLogger) LogMemoryWrite(stage string, err error) {
	l.stages = append(l.stages, stage)
	l.errs = append(l.errs, err)
}

func TestRecorderReportsWriteOutcomes(t *testing.T) {
	logger := &writeRecordingLogger{}
	svc := &capturingService{}
	rec := NewRecorder(svc, "mem-1", func(o *RecorderOptions) { o.Logger = logger })

	rec.Record(context.Background(), "session_1", core.StageFinancial, "input", "output")

	svc.err = errors.New("store down")
	rec.Record(context.Background(), "session_1", core.StagePortfolio, "input", "output")

	require.Equal(t, []string{"financial", "portfolio"}, logger.stages)
	assert.NoError(t, logger.errs[0])
	assert.EqualError(t, logger.errs[1], "store down")
}

func TestRecorderCustomActor(t *testing.T) {
	svc := &capturingService{}
	rec := NewRecorder(svc, "mem-1", func(o *RecorderOptions) { o.ActorID = "advisor_7" })

	rec.Record(context.Background(), "session_1", core.StageFinancial, "input", "output")

	require.Len(t, svc.calls, 1)
	assert.Equal(t, "advisor_7", svc.calls[0].ActorID)
}
