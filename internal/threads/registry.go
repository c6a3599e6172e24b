package threads

import (
	"context"
	"strings"

	"growthbot/internal/langgraph"
	"growthbot/internal/models"

	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

const (
	DefaultLimit  = 100
	LabelMaxChars = 50
)

// API is the subset of the LangGraph client the registry needs.
type API interface {
	CreateThread(ctx context.Context, metadata models.ThreadMetadata) (models.Thread, error)
	SearchThreads(ctx context.Context, req langgraph.SearchRequest) ([]models.Thread, error)
	ThreadState(ctx context.Context, threadID string) (langgraph.ThreadState, error)
}

// Notifier shows a transient notice. It may be called from any goroutine.
type Notifier func(models.Notice)

// Registry creates and lists the threads owned by a user. Remote failures
// are logged and reported through the notifier; callers get an empty
// result instead of an error.
type Registry struct {
	api     API
	graphID string
	limit   int
	log     *zap.Logger
	notify  Notifier
}

func New(api API, graphID string, limit int, log *zap.Logger, notify Notifier) *Registry {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if log == nil {
		log = zap.NewNop()
	}
	if notify == nil {
		notify = func(models.Notice) {}
	}
	return &Registry{api: api, graphID: graphID, limit: limit, log: log, notify: notify}
}

// CreateThread returns the new thread and true, or a zero thread and false
// when the service call failed.
func (r *Registry) CreateThread(ctx context.Context, userID string) (models.Thread, bool) {
	th, err := r.api.CreateThread(ctx, r.metadata(userID))
	if err != nil {
		r.log.Error("create thread failed", zap.String("user_id", userID), zap.Error(err))
		r.notify(models.Notice{Level: models.NoticeError, Title: "Error creating thread", Detail: err.Error()})
		return models.Thread{}, false
	}
	r.log.Info("thread created", zap.String("thread_id", th.ID))
	return th, true
}

func (r *Registry) ListThreads(ctx context.Context, userID string) []models.Thread {
	list, err := r.api.SearchThreads(ctx, langgraph.SearchRequest{
		Metadata: r.metadata(userID),
		Limit:    r.limit,
	})
	if err != nil {
		r.log.Error("search threads failed", zap.String("user_id", userID), zap.Error(err))
		r.notify(models.Notice{Level: models.NoticeError, Title: "Error fetching threads", Detail: err.Error()})
		return nil
	}
	kept := Filter(list)
	r.log.Debug("threads listed", zap.Int("fetched", len(list)), zap.Int("kept", len(kept)))
	return kept
}

// ThreadMessages loads the stored message list of a thread.
func (r *Registry) ThreadMessages(ctx context.Context, threadID string) ([]models.Message, error) {
	st, err := r.api.ThreadState(ctx, threadID)
	if err != nil {
		r.log.Error("load thread state failed", zap.String("thread_id", threadID), zap.Error(err))
		r.notify(models.Notice{Level: models.NoticeError, Title: "Error loading conversation", Detail: err.Error()})
		return nil, err
	}
	return st.Messages(), nil
}

func (r *Registry) metadata(userID string) models.ThreadMetadata {
	return models.ThreadMetadata{UserID: userID, GraphID: r.graphID}
}

// Filter keeps the first (most recent) thread unconditionally and drops
// every later thread without stored values. Order is preserved.
func Filter(list []models.Thread) []models.Thread {
	if len(list) == 0 {
		return nil
	}
	out := make([]models.Thread, 0, len(list))
	out = append(out, list[0])
	for _, th := range list[1:] {
		if th.HasValues() {
			out = append(out, th)
		}
	}
	return out
}

// Label is the sidebar title of a thread: its first message with newlines
// collapsed, or a short id fallback.
func Label(th models.Thread) string {
	msgs := th.Messages()
	if len(msgs) > 0 {
		text := strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(msgs[0].Text()))
		if text != "" {
			r := []rune(text)
			if len(r) > LabelMaxChars {
				r = r[:LabelMaxChars]
			}
			return string(r)
		}
	}
	id := th.ID
	if len(id) > 4 {
		id = id[:4]
	}
	return "Chat " + id
}

// FitLabel cuts a label to the given terminal cell width.
func FitLabel(label string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(label, width, "…")
}
