// Package langgraph is a small client for the LangGraph server HTTP API:
// thread creation and search, thread state, streaming runs and run
// cancellation.
package langgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"growthbot/internal/models"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Stream modes requested for every run.
const (
	StreamModeValues   = "values"
	StreamModeMessages = "messages-tuple"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *zap.Logger
}

type Option func(*Client)

func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is returned for any non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	detail := gjson.Get(e.Body, "detail").String()
	if detail == "" {
		detail = strings.TrimSpace(e.Body)
	}
	if len(detail) > 200 {
		detail = detail[:200]
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, detail)
}

type SearchRequest struct {
	Metadata models.ThreadMetadata `json:"metadata"`
	Limit    int                   `json:"limit,omitempty"`
	Offset   int                   `json:"offset,omitempty"`
}

type ThreadState struct {
	Values json.RawMessage `json:"values"`
	Next   []string        `json:"next"`
}

// Messages decodes values.messages.
func (s ThreadState) Messages() []models.Message {
	return models.ParseMessages(gjson.GetBytes(s.Values, "messages"))
}

type InputMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	ID      string `json:"id,omitempty"`
}

type RunInput struct {
	Messages []InputMessage `json:"messages"`
}

type RunRequest struct {
	AssistantID  string   `json:"assistant_id"`
	Input        RunInput `json:"input"`
	StreamMode   []string `json:"stream_mode"`
	OnDisconnect string   `json:"on_disconnect,omitempty"`
}

// NewRunRequest builds the request that appends msg to the thread and runs
// the assistant on it.
func NewRunRequest(assistantID string, msg models.Message) RunRequest {
	return RunRequest{
		AssistantID: assistantID,
		Input: RunInput{Messages: []InputMessage{{
			Type:    msg.Role,
			Content: msg.Text(),
			ID:      msg.ID,
		}}},
		StreamMode:   []string{StreamModeValues, StreamModeMessages},
		OnDisconnect: "cancel",
	}
}

func (c *Client) CreateThread(ctx context.Context, metadata models.ThreadMetadata) (models.Thread, error) {
	var th models.Thread
	body := map[string]any{"metadata": metadata}
	if err := c.do(ctx, http.MethodPost, "/threads", body, &th); err != nil {
		return models.Thread{}, err
	}
	if th.ID == "" {
		return models.Thread{}, fmt.Errorf("create thread: response has no thread_id")
	}
	return th, nil
}

func (c *Client) SearchThreads(ctx context.Context, req SearchRequest) ([]models.Thread, error) {
	var out []models.Thread
	if err := c.do(ctx, http.MethodPost, "/threads/search", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ThreadState(ctx context.Context, threadID string) (ThreadState, error) {
	var st ThreadState
	err := c.do(ctx, http.MethodGet, "/threads/"+url.PathEscape(threadID)+"/state", nil, &st)
	return st, err
}

// StreamRun starts a run and returns its event stream. The caller must
// Close it.
func (c *Client) StreamRun(ctx context.Context, threadID string, req RunRequest) (*RunStream, error) {
	path := "/threads/" + url.PathEscape(threadID) + "/runs/stream"
	httpReq, err := c.newRequest(ctx, http.MethodPost, path, req)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	c.log.Debug("opening run stream", zap.String("thread_id", threadID), zap.String("assistant_id", req.AssistantID))
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stream run: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, newAPIError(httpReq, resp)
	}
	return NewRunStream(resp), nil
}

func (c *Client) CancelRun(ctx context.Context, threadID, runID string) error {
	path := "/threads/" + url.PathEscape(threadID) + "/runs/" + url.PathEscape(runID) + "/cancel"
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", path, err)
		}
		rdr = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(req, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func newAPIError(req *http.Request, resp *http.Response) *APIError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &APIError{
		Method:     req.Method,
		Path:       req.URL.Path,
		StatusCode: resp.StatusCode,
		Body:       string(data),
	}
}
