package models

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ParseMessages decodes a JSON array of serialized messages.
func ParseMessages(r gjson.Result) []Message {
	if !r.IsArray() {
		return nil
	}
	var out []Message
	r.ForEach(func(_, item gjson.Result) bool {
		if msg, ok := ParseMessage(item); ok {
			out = append(out, msg)
		}
		return true
	})
	return out
}

// ParseMessage decodes one serialized message. Both the short wire types
// ("human", "ai", "tool") and class-style names ("AIMessageChunk") are
// accepted.
func ParseMessage(r gjson.Result) (Message, bool) {
	if !r.IsObject() {
		return Message{}, false
	}
	typ := r.Get("type").String()
	if typ == "" {
		typ = r.Get("role").String()
	}
	msg := Message{
		ID:         r.Get("id").String(),
		Role:       normalizeRole(typ),
		Chunk:      strings.HasSuffix(typ, "Chunk"),
		Name:       r.Get("name").String(),
		ToolCallID: r.Get("tool_call_id").String(),
	}
	if msg.Role == "" {
		return Message{}, false
	}

	content := r.Get("content")
	if content.Exists() && content.Type != gjson.Null {
		msg.Content = ValueOf(content)
	} else {
		msg.Content = TextValue("")
	}

	r.Get("tool_calls").ForEach(func(_, tc gjson.Result) bool {
		name := tc.Get("name").String()
		if name == "" {
			name = tc.Get("function.name").String()
		}
		args := tc.Get("args")
		if args.Type == gjson.String {
			args = gjson.Parse(args.Str)
		}
		call := ToolCall{ID: tc.Get("id").String(), Name: name}
		if args.IsObject() {
			call.Args = ValueOf(args).Fields()
		}
		msg.ToolCalls = append(msg.ToolCalls, call)
		return true
	})
	return msg, true
}

func normalizeRole(typ string) string {
	t := strings.TrimSuffix(typ, "Chunk")
	switch strings.ToLower(t) {
	case "human", "humanmessage", "user":
		return RoleHuman
	case "ai", "aimessage", "assistant":
		return RoleAI
	case "tool", "toolmessage":
		return RoleTool
	case "":
		return ""
	default:
		return strings.ToLower(strings.TrimSuffix(t, "Message"))
	}
}
