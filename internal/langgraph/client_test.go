package langgraph

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"growthbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func TestCreateThreadSendsMetadata(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/threads", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"thread_id":"t-1","created_at":"2025-01-02T03:04:05.123456+00:00","updated_at":"2025-01-02T03:04:05+00:00","metadata":{"user_id":"u-1","graph_id":"growthbot"},"status":"idle","values":null}`))
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", WithAPIKey("secret"))
	th, err := c.CreateThread(context.Background(), models.ThreadMetadata{UserID: "u-1", GraphID: "growthbot"})
	require.NoError(t, err)

	assert.Equal(t, "t-1", th.ID)
	assert.Equal(t, "u-1", th.Metadata.UserID)
	assert.Equal(t, 2025, th.CreatedAt.Year())
	assert.False(t, th.HasValues())
	assert.Equal(t, map[string]any{"metadata": map[string]any{"user_id": "u-1", "graph_id": "growthbot"}}, got)
}

func TestSearchThreads(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/threads/search", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"metadata":{"user_id":"u-1","graph_id":"growthbot"},"limit":100}`, string(body))
		_, _ = w.Write([]byte(`[{"thread_id":"a","values":{}},{"thread_id":"b","values":{"messages":[]}}]`))
	}))
	defer server.Close()

	threads, err := NewClient(server.URL).SearchThreads(context.Background(), SearchRequest{
		Metadata: models.ThreadMetadata{UserID: "u-1", GraphID: "growthbot"},
		Limit:    100,
	})
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, "a", threads[0].ID)
	assert.True(t, threads[1].HasValues())
}

func TestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"metadata must be an object"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).CreateThread(context.Background(), models.ThreadMetadata{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "metadata must be an object")
}

func TestThreadState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/threads/t-9/state", r.URL.Path)
		_, _ = w.Write([]byte(`{"values":{"messages":[{"type":"human","id":"h","content":"hi"}]},"next":[]}`))
	}))
	defer server.Close()

	st, err := NewClient(server.URL).ThreadState(context.Background(), "t-9")
	require.NoError(t, err)
	msgs := st.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "hi", msgs[0].Text())
}

const sampleStream = "event: metadata\n" +
	"data: {\"run_id\":\"run-7\",\"attempt\":1}\n\n" +
	"event: values\n" +
	"data: {\"messages\":[{\"type\":\"human\",\"id\":\"h1\",\"content\":\"hi\"}]}\n\n" +
	"event: messages\n" +
	"data: [{\"type\":\"AIMessageChunk\",\"id\":\"a1\",\"content\":\"Hel\"},{\"langgraph_node\":\"agent\"}]\n\n" +
	"event: end\n" +
	"data: null\n\n"

func TestStreamRun(t *testing.T) {
	var req RunRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/threads/t-1/runs/stream", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, sampleStream)
	}))
	defer server.Close()

	msg := models.Message{ID: "h1", Role: models.RoleHuman, Content: models.TextValue("hi")}
	stream, err := NewClient(server.URL).StreamRun(context.Background(), "t-1", NewRunRequest("growthbot", msg))
	require.NoError(t, err)
	defer stream.Close()

	var events []string
	for stream.Next() {
		events = append(events, stream.Part().Event)
	}
	require.NoError(t, stream.Err())

	assert.Equal(t, []string{EventMetadata, EventValues, EventMessages, EventEnd}, events)
	assert.Equal(t, "run-7", stream.RunID())
	assert.Equal(t, "growthbot", req.AssistantID)
	assert.Equal(t, []InputMessage{{Type: "human", Content: "hi", ID: "h1"}}, req.Input.Messages)
	assert.Equal(t, []string{"values", "messages-tuple"}, req.StreamMode)
}

func TestNewRunStreamReadsContentLocation(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Header: http.Header{
			"Content-Type":     []string{"text/event-stream"},
			"Content-Location": []string{"/threads/t-1/runs/run-from-header"},
		},
		Body: io.NopCloser(strings.NewReader("event: end\ndata: null\n\n")),
	}
	stream := NewRunStream(resp)
	defer stream.Close()

	assert.Equal(t, "run-from-header", stream.RunID())
	require.True(t, stream.Next())
	assert.Equal(t, EventEnd, stream.Part().Event)
	assert.False(t, stream.Next())
}

func TestCancelRun(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/threads/t-1/runs/run-7/cancel", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	require.NoError(t, NewClient(server.URL).CancelRun(context.Background(), "t-1", "run-7"))
	assert.True(t, called)
}
