package ui

import (
	"fmt"
	"strings"

	"growthbot/internal/render"
	"growthbot/internal/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

func WrappedLineCount(value string, width int) int {
	if width <= 0 {
		return 1
	}
	lines := strings.Split(value, "\n")
	if len(lines) == 0 {
		return 1
	}
	count := 0
	for _, line := range lines {
		w := runewidth.StringWidth(line)
		if w == 0 {
			count++
			continue
		}
		count += (w-1)/width + 1
	}
	return count
}

func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

// ShortID is the prefix of a thread id shown in the top bar.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func FormatUserMessage(content string, width int) string {
	label := styles.UserLabelStyle.Render("YOU")
	msgWidth := lipgloss.Width(content) + 3
	if limit := width * 3 / 4; msgWidth > limit {
		msgWidth = limit
	}
	msg := styles.UserMsgStyle.Width(msgWidth).Render(content)
	block := lipgloss.JoinVertical(lipgloss.Right, label, msg)
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
}

func FormatAIMessage(content string) string {
	label := styles.AiLabelStyle.Render("GROWTHBOT")
	if content == "" {
		return label
	}
	msg := styles.AiMsgStyle.Render(content)
	return fmt.Sprintf("%s\n%s", label, msg)
}

func FormatToolCalls(calls []render.ToolCallView, width int) string {
	var blocks []string
	for _, c := range calls {
		head := fmt.Sprintf("%s %s", styles.ToolIconStyle.Render("→"), styles.ToolNameStyle.Render(c.Name))
		if c.ID != "" {
			head += " " + styles.ToolDetailStyle.Render(c.ID)
		}
		lines := []string{head}
		if c.Empty {
			lines = append(lines, styles.ToolDetailStyle.Render(render.EmptyArgs))
		}
		lines = append(lines, formatRows(c.Rows)...)
		blocks = append(blocks, styles.ToolBlockStyle.Width(toolWidth(width)).Render(strings.Join(lines, "\n")))
	}
	return strings.Join(blocks, "\n")
}

func FormatToolResult(r *render.ToolResultView, width int, expandKey string) string {
	head := fmt.Sprintf("%s %s", styles.ToolIconStyle.Render("←"), styles.ToolNameStyle.Render(r.Name))
	if r.ToolCallID != "" {
		head += " " + styles.ToolDetailStyle.Render(r.ToolCallID)
	}
	lines := []string{head}
	if r.Structured {
		lines = append(lines, formatRows(r.Rows)...)
	} else {
		lines = append(lines, styles.ToolDetailStyle.Render(r.Text))
	}
	if r.Toggle {
		hint := "expand"
		if r.Expanded {
			hint = "collapse"
		}
		if r.Structured && !r.Expanded {
			hint = fmt.Sprintf("show all %d", r.Total)
		}
		lines = append(lines, styles.ToggleStyle.Render(fmt.Sprintf("%s %s", expandKey, hint)))
	}
	return styles.ToolBlockStyle.Width(toolWidth(width)).Render(strings.Join(lines, "\n"))
}

func formatRows(rows []render.Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, fmt.Sprintf("%s %s", styles.ToolKeyStyle.Render(r.Key+":"), r.Value))
	}
	return out
}

func toolWidth(width int) int {
	w := width - 6
	if w < 20 {
		w = 20
	}
	return w
}

// markdown renders ai text through glamour. Rendered output is cached per
// message id and reused while the source is unchanged.
func (m *Model) markdown(id, source string) string {
	if m.Renderer == nil || strings.TrimSpace(source) == "" {
		return source
	}
	if e, ok := m.mdCache[id]; ok && id != "" && e.source == source {
		return e.out
	}
	out, err := m.Renderer.Render(source)
	if err != nil {
		m.Log.Debug("markdown render failed", zap.String("message_id", id), zap.Error(err))
		return source
	}
	out = strings.Trim(out, "\n")
	if id != "" {
		m.mdCache[id] = mdEntry{source: source, out: out}
	}
	return out
}
