package ui

import (
	"strings"

	"growthbot/internal/models"
	"growthbot/internal/styles"
	"growthbot/internal/threads"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// visibleThreads is the thread list narrowed by the sidebar filter.
func (m *Model) visibleThreads() []models.Thread {
	query := strings.TrimSpace(m.Filter.Value())
	if !m.Filtering || query == "" {
		return m.Threads
	}
	targets := make([]string, len(m.Threads))
	for i, th := range m.Threads {
		targets[i] = threads.Label(th)
	}
	matches := fuzzy.Find(query, targets)
	out := make([]models.Thread, len(matches))
	for i, match := range matches {
		out[i] = m.Threads[match.Index]
	}
	return out
}

func (m *Model) clampSidebar() {
	n := len(m.visibleThreads())
	if m.SidebarIdx >= n {
		m.SidebarIdx = n - 1
	}
	if m.SidebarIdx < 0 {
		m.SidebarIdx = 0
	}
}

func (m *Model) updateSidebar(msg tea.KeyMsg) tea.Cmd {
	if m.Filtering {
		switch msg.String() {
		case "esc":
			m.Filtering = false
			m.Filter.Blur()
			m.Filter.SetValue("")
			m.clampSidebar()
			return nil
		case "enter":
			return m.selectThread()
		case "up":
			if m.SidebarIdx > 0 {
				m.SidebarIdx--
			}
			return nil
		case "down":
			if m.SidebarIdx < len(m.visibleThreads())-1 {
				m.SidebarIdx++
			}
			return nil
		}
		var cmd tea.Cmd
		m.Filter, cmd = m.Filter.Update(msg)
		m.clampSidebar()
		return cmd
	}

	switch {
	case key.Matches(msg, m.Keys.Sidebar):
		m.SidebarOpen = false
		m.SidebarFocused = false
		m.persistSidebar()
		m.updateInputLayout()
		m.rebuildRenderer()
		m.UpdateViewport()
	case key.Matches(msg, m.Keys.Back):
		m.SidebarFocused = false
	case key.Matches(msg, m.Keys.Up):
		if m.SidebarIdx > 0 {
			m.SidebarIdx--
		}
	case key.Matches(msg, m.Keys.Down):
		if m.SidebarIdx < len(m.visibleThreads())-1 {
			m.SidebarIdx++
		}
	case key.Matches(msg, m.Keys.Select):
		return m.selectThread()
	case key.Matches(msg, m.Keys.Search):
		m.Filtering = true
		m.Filter.SetValue("")
		m.Filter.Focus()
		m.SidebarIdx = 0
		return textinput.Blink
	case key.Matches(msg, m.Keys.NewChat):
		m.SidebarFocused = false
		return m.createThreadCmd()
	}
	return nil
}

func (m *Model) selectThread() tea.Cmd {
	list := m.visibleThreads()
	if len(list) == 0 || m.SidebarIdx >= len(list) {
		return nil
	}
	id := list[m.SidebarIdx].ID
	m.Filtering = false
	m.Filter.Blur()
	m.Filter.SetValue("")
	m.SidebarFocused = false
	if m.WindowWidth < CompactWidthThresh {
		m.SidebarOpen = false
		m.persistSidebar()
		m.updateInputLayout()
	}
	return m.switchThread(id)
}

// scrollWindow returns the first row to show so that the cursor stays inside
// a window of size rows over n entries, moving offset as little as possible.
func scrollWindow(cursor, offset, n, rows int) int {
	if rows <= 0 || n <= rows {
		return 0
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+rows {
		offset = cursor - rows + 1
	}
	if offset > n-rows {
		offset = n - rows
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

func (m *Model) RenderSidebar(height int) string {
	inner := SidebarWidth - 3
	lines := []string{styles.ModalTitleStyle.UnsetMarginBottom().Render("History"), ""}

	if m.Filtering {
		lines = append(lines, m.Filter.View(), "")
	}

	switch list := m.visibleThreads(); {
	case m.ThreadsLoading:
		for i := 0; i < SkeletonRows; i++ {
			w := inner - 4 - (i%3)*5
			lines = append(lines, styles.SkeletonStyle.Render(strings.Repeat("░", w)))
		}
	case len(m.Threads) == 0:
		lines = append(lines,
			styles.SidebarItemStyle.Bold(true).Render("No conversations"),
			styles.InfoStyle.Render("Your chat history will appear here"))
	case len(list) == 0:
		lines = append(lines, styles.InfoStyle.Render("No matches"))
	default:
		rows := height - len(lines)
		m.SidebarOffset = scrollWindow(m.SidebarIdx, m.SidebarOffset, len(list), rows)
		end := len(list)
		if rows > 0 && m.SidebarOffset+rows < end {
			end = m.SidebarOffset + rows
		}
		for i := m.SidebarOffset; i < end; i++ {
			th := list[i]
			label := threads.FitLabel(threads.Label(th), inner-2)
			cursor := "  "
			if m.SidebarFocused && i == m.SidebarIdx {
				cursor = styles.SidebarCursorStyle.Render("❯ ")
			}
			style := styles.SidebarItemStyle
			if th.ID == m.ThreadID {
				style = styles.SidebarActiveStyle
			}
			lines = append(lines, cursor+style.Render(label))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return styles.SidebarStyle.Width(SidebarWidth).Height(height).MaxHeight(height).Render(content)
}
