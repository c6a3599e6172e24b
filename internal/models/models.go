package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	RoleHuman = "human"
	RoleAI    = "ai"
	RoleTool  = "tool"
)

// Message is one entry of a thread's message list.
type Message struct {
	ID         string
	Role       string
	Content    Value
	ToolCalls  []ToolCall // ai only
	Name       string     // tool only
	ToolCallID string     // tool only
	Chunk      bool       // streamed delta rather than a full message
}

// Text returns the message content flattened to a string. Content block
// lists contribute their text blocks; other structured content is shown as
// indented JSON.
func (m Message) Text() string {
	if m.Content.Kind == Scalar {
		return m.Content.Text
	}
	if m.Content.IsArray {
		var sb strings.Builder
		blocks := 0
		gjson.Parse(m.Content.Raw).ForEach(func(_, block gjson.Result) bool {
			if block.Type == gjson.String {
				sb.WriteString(block.Str)
				blocks++
				return true
			}
			if block.Get("type").String() == "text" {
				sb.WriteString(block.Get("text").String())
				blocks++
			}
			return true
		})
		if blocks > 0 || m.Content.Len == 0 {
			return sb.String()
		}
	}
	return m.Content.Text
}

// ToolCall is a tool invocation announced by an ai message.
type ToolCall struct {
	ID   string
	Name string
	Args []Field
}

// ThreadMetadata is the metadata the client attaches to every thread it creates.
type ThreadMetadata struct {
	UserID  string `json:"user_id,omitempty"`
	GraphID string `json:"graph_id,omitempty"`
}

type Thread struct {
	ID        string          `json:"thread_id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Metadata  ThreadMetadata  `json:"metadata"`
	Status    string          `json:"status,omitempty"`
	Values    json.RawMessage `json:"values,omitempty"`
}

// HasValues reports whether the thread carries any stored state.
func (t Thread) HasValues() bool {
	v := gjson.ParseBytes(t.Values)
	if !v.IsObject() {
		return false
	}
	found := false
	v.ForEach(func(_, _ gjson.Result) bool {
		found = true
		return false
	})
	return found
}

// Messages decodes the message list held in the thread values.
func (t Thread) Messages() []Message {
	if len(t.Values) == 0 {
		return nil
	}
	return ParseMessages(gjson.GetBytes(t.Values, "messages"))
}

type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

// Notice is a transient, user-visible notification.
type Notice struct {
	Level  NoticeLevel
	Title  string
	Detail string
}
