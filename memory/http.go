package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hupe1980/fundmesh/logging"
)

// HTTPServiceOptions holds overrides passed to NewHTTPService().
type HTTPServiceOptions struct {
	HTTPClient *http.Client
	Logger     logging.Logger
}

// HTTPService talks to a remote memory store over its HTTP API:
//
//	POST {base}/memories/{memoryID}/events   append one event
//	GET  {base}/memories/{memoryID}/records  namespace-scoped retrieval
//
// Appends are fire-and-forget from the orchestrator's perspective; the
// Recorder swallows any error this client returns.
type HTTPService struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// NewHTTPService constructs an HTTPService against the store's base URL.
func NewHTTPService(baseURL string, optFns ...func(o *HTTPServiceOptions)) *HTTPService {
	opts := HTTPServiceOptions{
		HTTPClient: &http.Client{},
		Logger:     logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &HTTPService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}
}

// createEventRequest is the wire shape of an event append.
type createEventRequest struct {
	ActorID   string    `json:"actor_id"`
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
}

// CreateEvent appends one event to the remote trail.
func (s *HTTPService) CreateEvent(ctx context.Context, memoryID, actorID, sessionID string, messages []Message) error {
	body, err := json.Marshal(createEventRequest{ActorID: actorID, SessionID: sessionID, Messages: messages})
	if err != nil {
		return fmt.Errorf("encode memory event: %w", err)
	}

	endpoint := fmt.Sprintf("%s/memories/%s/events", s.baseURL, url.PathEscape(memoryID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create memory request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("append memory event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("append memory event: HTTP %d: %s", resp.StatusCode, string(detail))
	}

	return nil
}

// Retrieve reads derived records from a namespace.
func (s *HTTPService) Retrieve(ctx context.Context, memoryID, namespace, query string) ([]Record, error) {
	endpoint := fmt.Sprintf("%s/memories/%s/records?namespace=%s&query=%s",
		s.baseURL, url.PathEscape(memoryID), url.QueryEscape(namespace), url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create retrieve request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("retrieve memory records: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("retrieve memory records: HTTP %d: %s", resp.StatusCode, string(detail))
	}

	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode memory records: %w", err)
	}

	return records, nil
}
