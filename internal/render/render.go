// Package render derives what the chat view shows from a message list. It
// produces plain data; the ui package turns it into styled terminal text.
package render

import (
	"strings"

	"growthbot/internal/models"
)

type Kind int

const (
	KindHuman Kind = iota
	KindAI
	KindToolResult
)

type Options struct {
	HideToolCalls bool
	Loading       bool
	// Expanded holds the ids of tool results the user expanded.
	Expanded map[string]bool
}

type Item struct {
	Kind      Kind
	MessageID string
	Text      string         // human: literal text, ai: markdown source
	ToolCalls []ToolCallView // ai only
	Result    *ToolResultView
}

type Tree struct {
	Items []Item
	// Responding is set while the assistant has not produced anything for
	// the latest human message.
	Responding bool
}

// Filter returns the messages to display. With hideToolCalls set, tool
// messages and messages with blank content are left out. The input is not
// modified.
func Filter(msgs []models.Message, hideToolCalls bool) []models.Message {
	out := make([]models.Message, 0, len(msgs))
	for _, m := range msgs {
		if hideToolCalls && (m.Role == models.RoleTool || strings.TrimSpace(m.Text()) == "") {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Responding reports whether the responding indicator belongs after the
// given filtered list.
func Responding(filtered []models.Message, loading bool) bool {
	if !loading || len(filtered) == 0 {
		return false
	}
	return filtered[len(filtered)-1].Role == models.RoleHuman
}

func Build(msgs []models.Message, opts Options) Tree {
	filtered := Filter(msgs, opts.HideToolCalls)
	tree := Tree{
		Items:      make([]Item, 0, len(filtered)),
		Responding: Responding(filtered, opts.Loading),
	}
	for _, m := range filtered {
		switch m.Role {
		case models.RoleHuman:
			tree.Items = append(tree.Items, Item{Kind: KindHuman, MessageID: m.ID, Text: m.Text()})
		case models.RoleAI:
			item := Item{Kind: KindAI, MessageID: m.ID, Text: m.Text()}
			if !opts.HideToolCalls && len(m.ToolCalls) > 0 {
				item.ToolCalls = ToolCalls(m.ToolCalls)
			}
			tree.Items = append(tree.Items, item)
		case models.RoleTool:
			res := ToolResult(m, opts.Expanded[m.ID])
			tree.Items = append(tree.Items, Item{Kind: KindToolResult, MessageID: m.ID, Result: &res})
		}
	}
	return tree
}

// NextCollapsed returns the id of the most recent tool result that can be
// expanded and still is collapsed.
func NextCollapsed(tree Tree) (string, bool) {
	for i := len(tree.Items) - 1; i >= 0; i-- {
		if r := tree.Items[i].Result; r != nil && r.Toggle && !r.Expanded {
			return tree.Items[i].MessageID, true
		}
	}
	return "", false
}
