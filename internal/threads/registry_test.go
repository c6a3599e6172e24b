package threads

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"growthbot/internal/langgraph"
	"growthbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAPI struct {
	createFn func(ctx context.Context, md models.ThreadMetadata) (models.Thread, error)
	searchFn func(ctx context.Context, req langgraph.SearchRequest) ([]models.Thread, error)
	stateFn  func(ctx context.Context, threadID string) (langgraph.ThreadState, error)
}

func (f *fakeAPI) CreateThread(ctx context.Context, md models.ThreadMetadata) (models.Thread, error) {
	return f.createFn(ctx, md)
}

func (f *fakeAPI) SearchThreads(ctx context.Context, req langgraph.SearchRequest) ([]models.Thread, error) {
	return f.searchFn(ctx, req)
}

func (f *fakeAPI) ThreadState(ctx context.Context, threadID string) (langgraph.ThreadState, error) {
	return f.stateFn(ctx, threadID)
}

type noticeRecorder struct {
	mu      sync.Mutex
	notices []models.Notice
}

func (r *noticeRecorder) notify(n models.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func thread(id, values string) models.Thread {
	th := models.Thread{ID: id}
	if values != "" {
		th.Values = json.RawMessage(values)
	}
	return th
}

func TestCreateThread(t *testing.T) {
	var got models.ThreadMetadata
	api := &fakeAPI{createFn: func(_ context.Context, md models.ThreadMetadata) (models.Thread, error) {
		got = md
		return models.Thread{ID: "t-new"}, nil
	}}
	rec := &noticeRecorder{}
	reg := New(api, "growthbot", 0, zap.NewNop(), rec.notify)

	th, ok := reg.CreateThread(context.Background(), "u-1")
	require.True(t, ok)
	assert.Equal(t, "t-new", th.ID)
	assert.Equal(t, models.ThreadMetadata{UserID: "u-1", GraphID: "growthbot"}, got)
	assert.Empty(t, rec.notices)
}

func TestCreateThreadFailureNotifies(t *testing.T) {
	api := &fakeAPI{createFn: func(context.Context, models.ThreadMetadata) (models.Thread, error) {
		return models.Thread{}, errors.New("connection refused")
	}}
	rec := &noticeRecorder{}
	reg := New(api, "growthbot", 0, zap.NewNop(), rec.notify)

	th, ok := reg.CreateThread(context.Background(), "u-1")
	assert.False(t, ok)
	assert.Empty(t, th.ID)
	require.Len(t, rec.notices, 1)
	assert.Equal(t, models.NoticeError, rec.notices[0].Level)
	assert.Equal(t, "Error creating thread", rec.notices[0].Title)
}

func TestListThreadsKeepsMostRecentAndDropsEmpty(t *testing.T) {
	var req langgraph.SearchRequest
	api := &fakeAPI{searchFn: func(_ context.Context, r langgraph.SearchRequest) ([]models.Thread, error) {
		req = r
		return []models.Thread{thread("t0", "{}"), thread("t1", ""), thread("t2", "null")}, nil
	}}
	reg := New(api, "growthbot", 100, zap.NewNop(), nil)

	got := reg.ListThreads(context.Background(), "u-1")
	require.Len(t, got, 1)
	assert.Equal(t, "t0", got[0].ID)
	assert.Equal(t, 100, req.Limit)
	assert.Equal(t, models.ThreadMetadata{UserID: "u-1", GraphID: "growthbot"}, req.Metadata)
}

func TestListThreadsFailureNotifies(t *testing.T) {
	api := &fakeAPI{searchFn: func(context.Context, langgraph.SearchRequest) ([]models.Thread, error) {
		return nil, errors.New("boom")
	}}
	rec := &noticeRecorder{}
	reg := New(api, "growthbot", 0, zap.NewNop(), rec.notify)

	assert.Empty(t, reg.ListThreads(context.Background(), "u-1"))
	require.Len(t, rec.notices, 1)
	assert.Equal(t, "Error fetching threads", rec.notices[0].Title)
}

func TestFilterPreservesOrder(t *testing.T) {
	list := []models.Thread{
		thread("newest", ""),
		thread("a", `{"messages":[1]}`),
		thread("empty", "{}"),
		thread("b", `{"messages":[2]}`),
	}
	got := Filter(list)

	ids := make([]string, len(got))
	for i, th := range got {
		ids[i] = th.ID
	}
	assert.Equal(t, []string{"newest", "a", "b"}, ids)
	assert.Len(t, list, 4)
	assert.Nil(t, Filter(nil))
}

func TestThreadMessages(t *testing.T) {
	api := &fakeAPI{stateFn: func(_ context.Context, id string) (langgraph.ThreadState, error) {
		assert.Equal(t, "t-1", id)
		return langgraph.ThreadState{Values: json.RawMessage(`{"messages":[{"type":"human","id":"h","content":"hello"}]}`)}, nil
	}}
	reg := New(api, "growthbot", 0, zap.NewNop(), nil)

	msgs, err := reg.ThreadMessages(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Text())
}

func TestLabel(t *testing.T) {
	long := strings.Repeat("x", 60)
	tests := []struct {
		name string
		th   models.Thread
		want string
	}{
		{"first message", thread("abcdef", `{"messages":[{"type":"human","content":"  Hello\nthere  "}]}`), "Hello there"},
		{"truncated", thread("abcdef", `{"messages":[{"type":"human","content":"`+long+`"}]}`), strings.Repeat("x", 50)},
		{"no values", thread("abcdef", ""), "Chat abcd"},
		{"empty messages", thread("abcdef", `{"messages":[]}`), "Chat abcd"},
		{"blank content", thread("ab", `{"messages":[{"type":"human","content":"  "}]}`), "Chat ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.th))
		})
	}
}

func TestFitLabel(t *testing.T) {
	assert.Equal(t, "hello", FitLabel("hello", 10))
	assert.Equal(t, "hel…", FitLabel("hello", 4))
	assert.Equal(t, "", FitLabel("hello", 0))
}
