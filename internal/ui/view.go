package ui

import (
	"fmt"
	"strings"

	"growthbot/internal/models"
	"growthbot/internal/render"
	"growthbot/internal/session"
	"growthbot/internal/styles"

	"github.com/charmbracelet/lipgloss"
)

type tutorialStep struct {
	title string
	lines [][2]string
}

var tutorialSteps = []tutorialStep{
	{
		title: "Welcome to GrowthBot",
		lines: [][2]string{
			{"Enter", "Send your message"},
			{"Ctrl+J", "Insert a newline"},
			{"Esc", "Stop a response in progress"},
			{"Alt+1-3", "Ask a suggested question"},
		},
	},
	{
		title: "Conversations",
		lines: [][2]string{
			{"Ctrl+N", "Start a new chat"},
			{"Ctrl+B", "Show or hide your chat history"},
			{"Tab", "Move focus to the history"},
			{"/", "Filter the history"},
			{"Ctrl+Y", "Copy the thread id"},
		},
	},
	{
		title: "Tool activity",
		lines: [][2]string{
			{"Ctrl+O", "Hide or show tool calls"},
			{"Ctrl+E", "Expand the latest long tool result"},
			{"Ctrl+L", "Switch between dark and light"},
			{"Ctrl+T", "Open this tutorial again"},
		},
	},
}

func (m *Model) messageWidth() int {
	w := m.chatWidth() - 4
	if w > MaxChatWidth {
		w = MaxChatWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) renderTree() render.Tree {
	return render.Build(m.Session.Messages(), render.Options{
		HideToolCalls: m.HideToolCalls,
		Loading:       m.Session.Loading(),
		Expanded:      m.Expanded,
	})
}

// introVisible reports whether the new chat intro replaces the transcript.
func (m *Model) introVisible() bool {
	return !m.HistoryLoading && !m.Session.Loading() && len(m.Session.Messages()) == 0
}

func (m *Model) RenderIntro(width, height int) string {
	title := styles.WelcomeArtStyle.Render("Welcome to GrowthBot!")
	subtitle := styles.WelcomeSubtitleStyle.Render("How can I help you today?")

	var chips []string
	for i, s := range Suggestions {
		chips = append(chips, styles.SuggestionStyle.Render(fmt.Sprintf("%s %s", styles.KeyStyle.UnsetWidth().Render(fmt.Sprintf("alt+%d", i+1)), s)))
	}
	suggestions := lipgloss.JoinVertical(lipgloss.Center, chips...)

	content := lipgloss.JoinVertical(lipgloss.Center, title, subtitle, "", suggestions)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) UpdateViewport() {
	width := m.messageWidth()

	if m.HistoryLoading {
		m.Viewport.SetContent(lipgloss.Place(m.Viewport.Width, m.Viewport.Height, lipgloss.Center, lipgloss.Center,
			fmt.Sprintf("%s %s", m.Spinner.View(), styles.InfoStyle.Render("Loading conversation..."))))
		return
	}
	if m.introVisible() {
		m.Viewport.SetContent(m.RenderIntro(m.Viewport.Width, m.Viewport.Height))
		return
	}

	tree := m.renderTree()
	expandKey := m.Keys.Expand.Help().Key
	parts := make([]string, 0, len(tree.Items)+1)
	for _, item := range tree.Items {
		switch item.Kind {
		case render.KindHuman:
			parts = append(parts, FormatUserMessage(item.Text, width))
		case render.KindAI:
			var sections []string
			if len(item.ToolCalls) > 0 {
				sections = append(sections, FormatToolCalls(item.ToolCalls, width))
			}
			if text := m.markdown(item.MessageID, item.Text); text != "" {
				sections = append(sections, text)
			}
			parts = append(parts, FormatAIMessage(strings.Join(sections, "\n")))
		case render.KindToolResult:
			parts = append(parts, FormatToolResult(item.Result, width, expandKey))
		}
	}
	if tree.Responding {
		parts = append(parts, fmt.Sprintf("%s\n%s %s",
			styles.AiLabelStyle.Render("GROWTHBOT"), m.Spinner.View(), styles.InfoStyle.Render("Responding...")))
	}

	m.Viewport.SetContent(strings.Join(parts, "\n\n"))
	m.Viewport.GotoBottom()
}

func (m *Model) RenderTopBar() string {
	title := styles.TitleStyle.Render("GROWTHBOT")
	thread := "new chat"
	if m.ThreadID != "" {
		thread = "thread " + ShortID(m.ThreadID)
	}
	if m.CreatingThread {
		thread = "creating thread..."
	}
	left := lipgloss.JoinHorizontal(lipgloss.Center, title, styles.InfoStyle.Render(thread))

	hints := []string{}
	for _, b := range []struct{ key, desc string }{
		{m.Keys.NewChat.Help().Key, "new"},
		{m.Keys.Sidebar.Help().Key, "history"},
		{m.Keys.Tutorial.Help().Key, "help"},
	} {
		hints = append(hints, fmt.Sprintf("%s %s", styles.ToolNameStyle.Render(b.key), styles.InfoStyle.Render(b.desc)))
	}
	right := strings.Join(hints, "  ")

	width := m.chatWidth()
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) RenderBottomBar() string {
	state := m.Session.State()
	badgeColor := styles.CurrentTheme.Success
	switch state {
	case session.StateSubmitting, session.StateStreaming:
		badgeColor = styles.CurrentTheme.Info
	case session.StateCancelling:
		badgeColor = styles.CurrentTheme.Warning
	}
	badge := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(badgeColor).
		Padding(0, 1).
		Render(strings.ToUpper(state.String()))

	left := []string{badge}
	if m.HideToolCalls {
		left = append(left, styles.InfoStyle.Render("tools hidden"))
	}
	if m.Notice != nil {
		left = append(left, renderNotice(*m.Notice))
	}

	bar := strings.Join(left, " ")
	helpView := m.Help.View(m.Keys)
	width := m.WindowWidth - 2
	gap := width - lipgloss.Width(bar) - lipgloss.Width(helpView) - 2
	if gap >= 1 {
		bar += strings.Repeat(" ", gap) + helpView
	}
	return styles.BarStyle.Width(width).Render(bar)
}

func renderNotice(n models.Notice) string {
	text := n.Title
	if n.Detail != "" {
		text += ": " + TruncateRunes(n.Detail, 60)
	}
	if n.Level == models.NoticeError {
		return styles.NoticeErrorStyle.Render(text)
	}
	return styles.NoticeStyle.Render(text)
}

func (m *Model) RenderTutorial() string {
	step := tutorialSteps[m.TutorialStep]
	title := styles.ModalTitleStyle.Render(fmt.Sprintf("%s (%d/%d)", step.title, m.TutorialStep+1, len(tutorialSteps)))

	var items []string
	for _, l := range step.lines {
		line := fmt.Sprintf("%s %s", styles.KeyStyle.Render(l[0]), l[1])
		items = append(items, styles.ModalItemStyle.Render(line))
	}
	list := lipgloss.JoinVertical(lipgloss.Left, items...)

	hint := "→/Enter: next  ←: back  Esc: close"
	if m.TutorialStep == len(tutorialSteps)-1 {
		hint = "Enter: done  ←: back  Esc: close"
	}
	hintView := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Width(styles.ContentWidth).
		PaddingTop(1).
		Render(hint)

	return lipgloss.JoinVertical(lipgloss.Left, title, list, hintView)
}

func (m *Model) View() string {
	if m.WindowWidth == 0 {
		return ""
	}

	inputStyle := styles.InputBoxStyle
	if (m.SidebarOpen && m.SidebarFocused) || m.Session.Loading() {
		inputStyle = styles.InputBoxDimStyle
	}
	inputBox := inputStyle.Width(m.chatWidth() - 4).Render(m.TextInput.View())

	chatWidth := m.chatWidth()
	chatContent := lipgloss.JoinVertical(lipgloss.Left,
		m.RenderTopBar(),
		"",
		m.Viewport.View(),
		inputBox,
	)
	chat := lipgloss.PlaceHorizontal(chatWidth, lipgloss.Center, chatContent)

	bodyHeight := m.WindowHeight - 2
	if m.SidebarOpen {
		sidebar := m.RenderSidebar(bodyHeight)
		if m.WindowWidth >= CompactWidthThresh {
			chat = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, chat)
		} else {
			chat = lipgloss.Place(m.WindowWidth, bodyHeight, lipgloss.Left, lipgloss.Top, sidebar)
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, chat, m.RenderBottomBar())

	if m.TutorialOpen {
		modal := styles.ModalStyle.Width(ModalWidth).Render(m.RenderTutorial())
		return lipgloss.Place(m.WindowWidth, m.WindowHeight, lipgloss.Center, lipgloss.Center, modal)
	}
	return content
}
