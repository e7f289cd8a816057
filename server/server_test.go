package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fundmesh/core"
	"github.com/hupe1980/fundmesh/memory"
	"github.com/hupe1980/fundmesh/runner"
)

type fakeInvoker struct {
	results map[core.Stage]string
	failAt  core.Stage
}

func (f *fakeInvoker) Invoke(_ context.Context, stage core.Stage, _ any, sink func(core.Event)) (string, error) {
	if stage == f.failAt {
		return "", assert.AnError
	}

	sink(core.NewTextChunkEvent("working"))
	sink(core.NewStreamingCompleteEvent(f.results[stage]))

	return f.results[stage], nil
}

func newTestServer(t *testing.T, optFns ...func(o *Options)) *httptest.Server {
	t.Helper()

	invoker := &fakeInvoker{
		results: map[core.Stage]string{
			core.StageFinancial: `{"risk_profile": "balanced"}`,
			core.StagePortfolio: `{"allocation": {"SPY": 60}}`,
			core.StageRisk:      `{"loss_probability": "9%"}`,
		},
	}

	optFns = append([]func(o *Options){func(o *Options) {
		o.Invoker = invoker
	}}, optFns...)

	srv := New(runner.New(invoker), optFns...)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return ts
}

func readEvents(t *testing.T, resp *http.Response) []core.Event {
	t.Helper()
	defer resp.Body.Close()

	var events []core.Event

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var ev core.Event
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
		events = append(events, ev)
	}
	require.NoError(t, scanner.Err())

	return events
}

func TestHandleConsult(t *testing.T) {
	t.Run("streams the full chain", func(t *testing.T) {
		ts := newTestServer(t)

		resp, err := http.Post(ts.URL+"/invocations", "application/json",
			strings.NewReader(`{"input_data": {"age": 34, "total_investable_amount": 50000000}, "session_id": "session_20250301_090000"}`))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

		events := readEvents(t, resp)
		require.Len(t, events, 12)

		assert.Equal(t, core.EventNodeStart, events[0].Type)
		assert.Equal(t, "financial", events[0].AgentName)
		assert.Equal(t, "session_20250301_090000", events[0].SessionID)

		last := events[len(events)-1]
		assert.Equal(t, core.EventNodeComplete, last.Type)
		assert.Equal(t, `{"loss_probability": "9%"}`, last.Result)
	})

	t.Run("rejects a missing input", func(t *testing.T) {
		ts := newTestServer(t)

		resp, err := http.Post(ts.URL+"/invocations", "application/json", strings.NewReader(`{}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("ends the stream with an error event on stage failure", func(t *testing.T) {
		invoker := &fakeInvoker{
			results: map[core.Stage]string{core.StageFinancial: "fa"},
			failAt:  core.StagePortfolio,
		}

		srv := New(runner.New(invoker))

		ts := httptest.NewServer(srv.Handler())
		t.Cleanup(ts.Close)

		resp, err := http.Post(ts.URL+"/invocations", "application/json",
			strings.NewReader(`{"input_data": {"age": 34}}`))
		require.NoError(t, err)

		events := readEvents(t, resp)
		require.NotEmpty(t, events)

		last := events[len(events)-1]
		assert.Equal(t, core.EventError, last.Type)
		assert.Contains(t, last.Error, "portfolio stage failed")
	})
}

func TestHandleAgent(t *testing.T) {
	t.Run("streams one stage", func(t *testing.T) {
		ts := newTestServer(t)

		resp, err := http.Post(ts.URL+"/agents/financial/invocations", "application/json",
			strings.NewReader(`{"input_data": {"age": 34}}`))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		events := readEvents(t, resp)
		require.Len(t, events, 2)
		assert.Equal(t, core.EventTextChunk, events[0].Type)
		assert.Equal(t, core.EventStreamingComplete, events[1].Type)
		assert.Equal(t, `{"risk_profile": "balanced"}`, events[1].Result)
	})

	t.Run("unknown stage is a 404", func(t *testing.T) {
		ts := newTestServer(t)

		resp, err := http.Post(ts.URL+"/agents/chaos/invocations", "application/json",
			strings.NewReader(`{"input_data": {}}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("stage failure ends the stream with an error event", func(t *testing.T) {
		invoker := &fakeInvoker{failAt: core.StageRisk}

		srv := New(runner.New(invoker), func(o *Options) {
			o.Invoker = invoker
		})

		ts := httptest.NewServer(srv.Handler())
		t.Cleanup(ts.Close)

		resp, err := http.Post(ts.URL+"/agents/risk/invocations", "application/json",
			strings.NewReader(`{"input_data": {}}`))
		require.NoError(t, err)

		events := readEvents(t, resp)
		require.Len(t, events, 1)
		assert.Equal(t, core.EventError, events[0].Type)
	})
}

func TestHandleSummary(t *testing.T) {
	t.Run("serves a stored summary", func(t *testing.T) {
		service := memory.NewInMemoryService()
		service.SetSummary("mem-1", memory.SummaryNamespace("fund_user", "session_20250301_090000"), "The client holds a balanced portfolio.")

		ts := newTestServer(t, func(o *Options) {
			o.MemoryService = service
			o.MemoryID = "mem-1"
		})

		resp, err := http.Get(ts.URL + "/sessions/session_20250301_090000/summary")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var record memory.Record
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&record))
		assert.Equal(t, "The client holds a balanced portfolio.", record.Content)
	})

	t.Run("missing summary is a 404", func(t *testing.T) {
		ts := newTestServer(t, func(o *Options) {
			o.MemoryService = memory.NewInMemoryService()
			o.MemoryID = "mem-1"
		})

		resp, err := http.Get(ts.URL + "/sessions/session_unknown/summary")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("memory not configured is a 404", func(t *testing.T) {
		ts := newTestServer(t)

		resp, err := http.Get(ts.URL + "/sessions/session_x/summary")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
