package ui

import (
	"strings"

	"growthbot/internal/models"
	"growthbot/internal/render"
	"growthbot/internal/session"
	"growthbot/internal/styles"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case spinner.TickMsg:
		m.Spinner, spCmd = m.Spinner.Update(msg)
		if m.Session.Loading() || m.HistoryLoading {
			m.UpdateViewport()
		}
		return m, spCmd

	case tea.KeyMsg:
		if key.Matches(msg, m.Keys.Quit) {
			m.releaseRun()
			return m, tea.Quit
		}
		if m.TutorialOpen {
			return m, m.updateTutorial(msg)
		}
		if m.SidebarOpen && m.SidebarFocused {
			return m, m.updateSidebar(msg)
		}
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}

		if key.Matches(msg, m.Keys.Newline) {
			m.TextInput.InsertString("\n")
			m.updateInputLayout()
			return m, nil
		}

		if key.Matches(msg, m.Keys.Stop) {
			cmd := m.stopRun()
			m.UpdateViewport()
			return m, cmd
		}

		if key.Matches(msg, m.Keys.Suggest) {
			if !m.introVisible() {
				return m, nil
			}
			i := int(msg.String()[len(msg.String())-1] - '1')
			if i < 0 || i >= len(Suggestions) {
				return m, nil
			}
			return m, m.submit(Suggestions[i])
		}

		if key.Matches(msg, m.Keys.Send) {
			return m, m.submit(m.TextInput.Value())
		}

	case ThreadCreatedMsg:
		if msg.Seq != m.createSeq {
			m.Log.Debug("stale thread creation ignored", zap.Int("seq", msg.Seq), zap.Int("latest", m.createSeq))
			return m, nil
		}
		m.CreatingThread = false
		if !msg.OK {
			return m, nil
		}
		cmd := m.abandonRun()
		m.ThreadID = msg.Thread.ID
		m.Session = session.New(m.ThreadID, nil)
		m.Expanded = map[string]bool{}
		m.HistoryLoading = false
		m.persistThreadID()
		m.UpdateViewport()
		return m, tea.Batch(cmd, m.loadThreadsCmd())

	case ThreadsLoadedMsg:
		m.ThreadsLoading = false
		m.Threads = msg.Threads
		m.clampSidebar()
		return m, nil

	case HistoryLoadedMsg:
		if msg.ThreadID != m.ThreadID {
			return m, nil
		}
		m.HistoryLoading = false
		if msg.Err == nil && !m.Session.Loading() {
			m.Session = session.New(msg.ThreadID, msg.Messages)
		}
		m.UpdateViewport()
		return m, nil

	case StreamMsg:
		if msg.Gen != m.runGen {
			return m, nil
		}
		if m.Session.State() == session.StateCancelling || m.cancelRun == nil {
			return m, nil
		}
		if msg.Closed || msg.Event.Done {
			cmd := m.finishRun(msg.Event.Err)
			return m, tea.Batch(cmd, m.loadThreadsCmd())
		}
		m.Session.Apply(msg.Event.Part)
		m.UpdateViewport()
		return m, listenCmd(msg.Gen, msg.ch)

	case CancelAckMsg:
		if msg.Gen != m.runGen || m.Session.State() != session.StateCancelling {
			return m, nil
		}
		if msg.Err != nil {
			m.Log.Warn("cancel run failed", zap.String("thread_id", m.ThreadID), zap.Error(msg.Err))
		}
		m.Session.Finish(nil)
		m.UpdateViewport()
		return m, m.loadThreadsCmd()

	case NoticeMsg:
		return m, m.showNotice(models.Notice(msg))

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.Notice = nil
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.WindowWidth = msg.Width
		m.WindowHeight = msg.Height
		m.Help.Width = msg.Width - 4
		m.updateInputLayout()
		m.rebuildRenderer()
		m.UpdateViewport()
		return m, nil
	}

	m.TextInput, tiCmd = m.TextInput.Update(msg)
	m.updateInputLayout()

	// Filter out terminal background color queries and cursor reference codes that leak into the input
	val := m.TextInput.Value()
	if strings.Contains(val, "]11;rgb:") || strings.Contains(val, "1;rgb:") || strings.Contains(val, "[1;1R") {
		m.TextInput.Reset()
	}

	m.Viewport, vpCmd = m.Viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

// handleGlobalKey processes the shortcuts available while typing.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.Keys.NewChat):
		return m.createThreadCmd(), true

	case key.Matches(msg, m.Keys.Sidebar):
		m.SidebarOpen = !m.SidebarOpen
		m.SidebarFocused = m.SidebarOpen
		m.persistSidebar()
		m.updateInputLayout()
		m.rebuildRenderer()
		m.UpdateViewport()
		if m.SidebarOpen {
			return m.loadThreadsCmd(), true
		}
		return nil, true

	case key.Matches(msg, m.Keys.Focus):
		if !m.SidebarOpen {
			return nil, false
		}
		m.SidebarFocused = true
		return nil, true

	case key.Matches(msg, m.Keys.Tutorial):
		m.TutorialOpen = true
		m.TutorialStep = 0
		return nil, true

	case key.Matches(msg, m.Keys.HideTools):
		m.HideToolCalls = !m.HideToolCalls
		m.UpdateViewport()
		return nil, true

	case key.Matches(msg, m.Keys.Expand):
		// Expands the newest collapsed result; once all are open, collapses them.
		if id, ok := render.NextCollapsed(m.renderTree()); ok {
			m.Expanded[id] = true
		} else {
			m.Expanded = map[string]bool{}
		}
		m.UpdateViewport()
		return nil, true

	case key.Matches(msg, m.Keys.CopyThread):
		if m.ThreadID == "" {
			return nil, true
		}
		return copyCmd(m.ThreadID), true

	case key.Matches(msg, m.Keys.Theme):
		name := styles.Toggle()
		m.persistTheme(name)
		m.applyTheme()
		m.rebuildRenderer()
		m.UpdateViewport()
		return nil, true
	}
	return nil, false
}

// CanSend reports whether Enter would submit the current input.
func (m *Model) CanSend() bool {
	return m.ThreadID != "" &&
		!m.CreatingThread &&
		!m.HistoryLoading &&
		!m.Session.Loading() &&
		strings.TrimSpace(m.TextInput.Value()) != ""
}

func (m *Model) submit(text string) tea.Cmd {
	if m.ThreadID == "" || m.CreatingThread || m.HistoryLoading {
		return nil
	}
	cmd := m.startRun(text)
	if cmd == nil {
		return nil
	}
	m.TextInput.Reset()
	m.updateInputLayout()
	m.UpdateViewport()
	return cmd
}

func (m *Model) finishRun(streamErr error) tea.Cmd {
	m.releaseRun()
	err := m.Session.Finish(streamErr)
	m.UpdateViewport()
	if err == nil {
		m.Log.Info("run finished", zap.String("thread_id", m.ThreadID))
		return nil
	}
	m.Log.Error("run failed", zap.String("thread_id", m.ThreadID), zap.Error(err))
	return m.showNotice(models.Notice{Level: models.NoticeError, Title: "Response failed", Detail: err.Error()})
}

// switchThread makes id the active thread and loads its history.
func (m *Model) switchThread(id string) tea.Cmd {
	if id == m.ThreadID {
		return nil
	}
	cmd := m.abandonRun()
	m.ThreadID = id
	m.Session = session.New(id, nil)
	m.Expanded = map[string]bool{}
	m.persistThreadID()
	m.UpdateViewport()
	return tea.Batch(cmd, m.loadHistoryCmd(id))
}

func (m *Model) updateTutorial(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q":
		m.TutorialOpen = false
	case "right", "l", "enter", " ":
		if m.TutorialStep < len(tutorialSteps)-1 {
			m.TutorialStep++
		} else {
			m.TutorialOpen = false
		}
	case "left", "h":
		if m.TutorialStep > 0 {
			m.TutorialStep--
		}
	}
	return nil
}

func (m *Model) chatWidth() int {
	if m.SidebarOpen && m.WindowWidth >= CompactWidthThresh {
		return m.WindowWidth - SidebarWidth
	}
	return m.WindowWidth
}

func (m *Model) updateInputLayout() {
	if m.WindowWidth == 0 || m.WindowHeight == 0 {
		return
	}

	inputWidth := m.chatWidth() - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	contentWidth := inputWidth - 2
	if contentWidth < 1 {
		contentWidth = 1
	}

	maxInputHeight := 6
	lineCount := WrappedLineCount(m.TextInput.Value(), contentWidth)
	if lineCount < 1 {
		lineCount = 1
	}
	if lineCount > maxInputHeight {
		lineCount = maxInputHeight
	}

	m.TextInput.MaxHeight = maxInputHeight
	m.TextInput.SetWidth(inputWidth)
	m.TextInput.SetHeight(lineCount)

	// top bar (2) + input border (2) + status bar (2) + spacing
	inputBoxHeight := m.TextInput.Height() + 2
	reserved := inputBoxHeight + 5
	viewportHeight := m.WindowHeight - reserved
	if viewportHeight < 5 {
		viewportHeight = 5
	}
	m.Viewport.Width = m.chatWidth() - 2
	m.Viewport.Height = viewportHeight
}

func (m *Model) rebuildRenderer() {
	if m.WindowWidth == 0 {
		return
	}
	wrap := m.messageWidth() - 4
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(styles.GlamourStyle()),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.Log.Warn("markdown renderer unavailable", zap.Error(err))
		r = nil
	}
	m.Renderer = r
	m.mdCache = map[string]mdEntry{}
}
