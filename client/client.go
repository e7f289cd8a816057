package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hupe1980/fundmesh/core"
	"github.com/hupe1980/fundmesh/logging"
)

// dataPrefix frames each streamed event record.
const dataPrefix = "data: "

// ErrNoCompletion indicates the remote stream ended without a
// streaming_complete event, so no final result is available.
var ErrNoCompletion = errors.New("stream ended without completion event")

// Endpoints resolves the HTTP endpoint implementing a stage's remote agent.
type Endpoints interface {
	Endpoint(stage core.Stage) (string, error)
}

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// HTTPClient performs the streamed requests. Timeouts belong here, not in
	// the orchestrator; the zero-timeout default lets long agent streams run.
	HTTPClient *http.Client
	// Logger receives skipped-record and invocation diagnostics.
	Logger logging.Logger
}

// Client invokes remote advisory agents over their streamed HTTP interface.
// It holds no per-invocation state and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	endpoints  Endpoints
	logger     logging.Logger
}

// New constructs a Client with optional overrides.
func New(endpoints Endpoints, optFns ...func(o *Options)) *Client {
	opts := Options{
		HTTPClient: &http.Client{},
		Logger:     logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Client{
		httpClient: opts.HTTPClient,
		endpoints:  endpoints,
		logger:     opts.Logger,
	}
}

// invokeRequest is the wire shape consumed by the agent invocation service.
type invokeRequest struct {
	InputData any `json:"input_data"`
}

// Invoke calls the remote agent for the given stage with the payload and
// forwards every decoded event to sink in receipt order. It returns the
// agent's final structured result, extracted from the streaming_complete
// event via ExtractJSON. An error is returned on transport failure or when
// the stream ends without a completion event; the caller decides how that
// surfaces (the stage graph converts it into a terminal error event).
func (c *Client) Invoke(ctx context.Context, stage core.Stage, payload any, sink func(core.Event)) (string, error) {
	endpoint, err := c.endpoints.Endpoint(stage)
	if err != nil {
		return "", fmt.Errorf("resolve %s agent endpoint: %w", stage, err)
	}

	body, err := json.Marshal(invokeRequest{InputData: payload})
	if err != nil {
		return "", fmt.Errorf("encode %s agent payload: %w", stage, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create %s agent request: %w", stage, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("invoke %s agent: %w", stage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("invoke %s agent: HTTP %d: %s", stage, resp.StatusCode, string(detail))
	}

	result, events, err := c.consumeStream(resp.Body, sink)

	c.logAgentCall(stage, events, time.Since(start), err)

	if err != nil {
		return "", fmt.Errorf("read %s agent stream: %w", stage, err)
	}

	if result == nil {
		return "", fmt.Errorf("%s agent: %w", stage, ErrNoCompletion)
	}

	return *result, nil
}

// logAgentCall reports one invocation's latency and event count, upgrading
// to the structured agent call record when the logger supports it.
func (c *Client) logAgentCall(stage core.Stage, events int, dur time.Duration, err error) {
	if al, ok := c.logger.(logging.AgentCallLogger); ok {
		al.LogAgentCall(string(stage), events, dur, err)
		return
	}

	if err != nil {
		c.logger.Error("agent stream failed stage=%s events=%d duration=%s: %v", stage, events, dur, err)
		return
	}

	c.logger.Debug("agent stream finished stage=%s events=%d duration=%s", stage, events, dur)
}

// consumeStream reads "data: <json>" lines until EOF. Malformed records are
// skipped so a single garbled line never kills a consultation.
func (c *Client) consumeStream(r io.Reader, sink func(core.Event)) (*string, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		result *string
		events int
	)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}

		var ev core.Event
		if err := json.Unmarshal([]byte(line[len(dataPrefix):]), &ev); err != nil {
			c.logger.Debug("skipping malformed event record: %v", err)
			continue
		}

		events++
		sink(ev)

		if ev.Type == core.EventStreamingComplete {
			extracted := ExtractJSON(ev.Result)
			result = &extracted
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, events, err
	}

	return result, events, nil
}
