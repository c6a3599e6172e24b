// Package session tracks one conversation thread while runs stream into it.
//
// A Session is not safe for concurrent use. It is owned by the UI event
// loop; network I/O happens in Open and reaches the session as Events.
package session

import (
	"errors"
	"slices"
	"strings"

	"growthbot/internal/langgraph"
	"growthbot/internal/models"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateStreaming
	StateCancelling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateStreaming:
		return "streaming"
	case StateCancelling:
		return "cancelling"
	default:
		return "unknown"
	}
}

var newMessageID = uuid.NewString

type Session struct {
	threadID  string
	state     State
	runID     string
	streamErr string
	messages  []models.Message
	index     map[string]int
}

// New starts an idle session over the stored history of a thread.
func New(threadID string, history []models.Message) *Session {
	s := &Session{threadID: threadID, index: map[string]int{}}
	for _, m := range history {
		s.upsert(m)
	}
	return s
}

func (s *Session) ThreadID() string { return s.threadID }

func (s *Session) State() State { return s.state }

// Loading reports whether a submission is in flight.
func (s *Session) Loading() bool { return s.state != StateIdle }

func (s *Session) RunID() string { return s.runID }

// Messages returns a copy of the canonical message list.
func (s *Session) Messages() []models.Message {
	return slices.Clone(s.messages)
}

// Submit appends text as a human message and moves to submitting. It is a
// no-op returning false when text is blank or a submission is in flight.
func (s *Session) Submit(text string) (models.Message, bool) {
	if strings.TrimSpace(text) == "" || s.state != StateIdle {
		return models.Message{}, false
	}
	msg := models.Message{
		ID:      newMessageID(),
		Role:    models.RoleHuman,
		Content: models.TextValue(text),
	}
	s.upsert(msg)
	s.state = StateSubmitting
	s.runID = ""
	s.streamErr = ""
	return msg, true
}

// Apply folds one stream part into the message list. Parts that arrive
// while idle or cancelling are dropped.
func (s *Session) Apply(part langgraph.StreamPart) {
	switch s.state {
	case StateSubmitting:
		s.state = StateStreaming
	case StateStreaming:
	default:
		return
	}

	switch part.Event {
	case langgraph.EventMetadata:
		if id := gjson.GetBytes(part.Data, "run_id").String(); id != "" {
			s.runID = id
		}
	case langgraph.EventValues:
		for _, m := range models.ParseMessages(gjson.GetBytes(part.Data, "messages")) {
			s.upsert(m)
		}
	case langgraph.EventMessages:
		// messages-tuple: [message chunk, run metadata]
		if m, ok := models.ParseMessage(gjson.GetBytes(part.Data, "0")); ok {
			s.merge(m)
		}
	case langgraph.EventMessagesPartial, langgraph.EventMessagesComplete:
		for _, m := range models.ParseMessages(gjson.ParseBytes(part.Data)) {
			s.upsert(m)
		}
	case langgraph.EventError:
		msg := gjson.GetBytes(part.Data, "message").String()
		if msg == "" {
			msg = gjson.GetBytes(part.Data, "error").String()
		}
		if msg == "" {
			msg = string(part.Data)
		}
		s.streamErr = msg
	}
}

// Stop moves a submitting or streaming session to cancelling and returns
// the run to cancel, which is empty if the service has not announced it yet.
func (s *Session) Stop() (runID string, ok bool) {
	if s.state != StateSubmitting && s.state != StateStreaming {
		return "", false
	}
	s.state = StateCancelling
	return s.runID, true
}

// Finish ends the current submission and returns to idle. Messages already
// received are kept. The returned error is err, or the error the stream
// itself reported.
func (s *Session) Finish(err error) error {
	if err == nil && s.streamErr != "" {
		err = errors.New(s.streamErr)
	}
	s.state = StateIdle
	s.runID = ""
	s.streamErr = ""
	return err
}

func (s *Session) upsert(m models.Message) {
	if m.ID == "" {
		s.messages = append(s.messages, m)
		return
	}
	if i, ok := s.index[m.ID]; ok {
		s.messages[i] = m
		return
	}
	s.index[m.ID] = len(s.messages)
	s.messages = append(s.messages, m)
}

// merge applies a streamed chunk: text deltas extend the message with the
// same id, anything else replaces or appends it.
func (s *Session) merge(m models.Message) {
	i, ok := s.index[m.ID]
	if !ok || !m.Chunk || m.ID == "" {
		m.Chunk = false
		s.upsert(m)
		return
	}
	cur := s.messages[i]
	next := cur
	next.Content = models.TextValue(cur.Text() + m.Text())
	if len(m.ToolCalls) > 0 {
		next.ToolCalls = m.ToolCalls
	}
	s.messages[i] = next
}
