package render

import (
	"strings"

	"growthbot/internal/models"
)

const (
	MaxResultChars = 500
	MaxResultLines = 4
	MaxResultItems = 5

	EmptyArgs       = "{}"
	DefaultToolName = "Tool Result"
	Ellipsis        = "..."
)

type Row struct {
	Key        string
	Value      string
	Structured bool
}

type ToolCallView struct {
	Name  string
	ID    string
	Rows  []Row
	Empty bool // no arguments; shown as EmptyArgs
}

func ToolCalls(calls []models.ToolCall) []ToolCallView {
	out := make([]ToolCallView, 0, len(calls))
	for _, c := range calls {
		v := ToolCallView{Name: c.Name, ID: c.ID, Empty: len(c.Args) == 0}
		for _, f := range c.Args {
			v.Rows = append(v.Rows, row(f))
		}
		out = append(out, v)
	}
	return out
}

type ToolResultView struct {
	Name       string
	ToolCallID string

	// Structured results are shown as Rows, plain ones as Text.
	Structured bool
	Rows       []Row
	Text       string

	Total    int  // rows in a structured result
	Toggle   bool // the result is long enough to collapse
	Expanded bool
}

// ToolResult builds the view of a tool message. Content that parses as a
// JSON object or array is structured; anything else is plain text.
func ToolResult(m models.Message, expanded bool) ToolResultView {
	v := ToolResultView{Name: m.Name, ToolCallID: m.ToolCallID, Expanded: expanded}
	if strings.TrimSpace(v.Name) == "" {
		v.Name = DefaultToolName
	}

	value := m.Content
	if value.Kind == models.Scalar {
		if parsed, ok := models.ParseStructured(value.Text); ok {
			value = parsed
		}
	}

	if value.Kind == models.Structured {
		fields := value.Fields()
		v.Structured = true
		v.Total = len(fields)
		if value.IsArray && len(fields) > MaxResultItems {
			v.Toggle = true
			if !expanded {
				fields = fields[:MaxResultItems]
			}
		}
		for _, f := range fields {
			v.Rows = append(v.Rows, row(f))
		}
		return v
	}

	v.Text, v.Toggle = truncateText(value.Text, expanded)
	return v
}

// truncateText applies the plain-text limits: first by characters, then by
// lines.
func truncateText(s string, expanded bool) (string, bool) {
	runes := []rune(s)
	lines := strings.Split(s, "\n")
	long := len(runes) > MaxResultChars || len(lines) > MaxResultLines
	if !long || expanded {
		return s, long
	}
	if len(runes) > MaxResultChars {
		return string(runes[:MaxResultChars]) + Ellipsis, true
	}
	return strings.Join(lines[:MaxResultLines], "\n") + "\n" + Ellipsis, true
}

func row(f models.Field) Row {
	return Row{Key: f.Key, Value: f.Value.Text, Structured: f.Value.Kind == models.Structured}
}
