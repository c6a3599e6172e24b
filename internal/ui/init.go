package ui

import (
	"growthbot/internal/models"
	"growthbot/internal/session"
	"growthbot/internal/styles"
	"growthbot/internal/threads"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

func NewModel(opts Options) *Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	ti := textarea.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = "❯ "
	ti.ShowLineNumbers = false
	ti.CharLimit = 0
	ti.MaxHeight = 6
	ti.SetHeight(1)
	ti.SetWidth(80)
	ti.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ti.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ti.Focus()

	fi := textinput.New()
	fi.Placeholder = "filter"
	fi.Prompt = "/ "
	fi.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		Viewport:      viewport.New(60, 15),
		TextInput:     ti,
		Filter:        fi,
		Spinner:       sp,
		Help:          help.New(),
		Keys:          DefaultKeyMap(),
		Config:        opts.Config,
		DB:            opts.DB,
		Identity:      opts.Identity,
		Backend:       opts.Backend,
		Log:           log,
		ThreadID:      opts.ThreadID,
		Session:       session.New(opts.ThreadID, nil),
		SidebarOpen:   opts.SidebarOpen,
		HideToolCalls: opts.Config.HideToolCalls,
		Expanded:      map[string]bool{},
		TutorialOpen:  opts.FreshUser,
		mdCache:       map[string]mdEntry{},
	}
	m.Registry = threads.New(opts.Threads, opts.Config.GraphID, opts.Config.SearchLimit, log, m.notify)
	m.applyTheme()
	return m
}

// applyTheme restyles the widgets that keep their own copy of a style.
func (m *Model) applyTheme() {
	promptStyle := lipgloss.NewStyle().Foreground(styles.CurrentTheme.Primary).Bold(true)
	placeholderStyle := lipgloss.NewStyle().Foreground(styles.HintColor)
	m.TextInput.FocusedStyle.Prompt = promptStyle
	m.TextInput.BlurredStyle.Prompt = promptStyle
	m.TextInput.FocusedStyle.Placeholder = placeholderStyle
	m.TextInput.BlurredStyle.Placeholder = placeholderStyle
	m.Spinner.Style = lipgloss.NewStyle().Foreground(styles.CurrentTheme.Primary)
	m.Filter.PromptStyle = lipgloss.NewStyle().Foreground(styles.CurrentTheme.Primary)
}

// notify is handed to the registry, which calls it from command goroutines.
func (m *Model) notify(n models.Notice) {
	if m.Program != nil {
		m.Program.Send(NoticeMsg(n))
	}
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
		m.Spinner.Tick,
		m.loadThreadsCmd(),
	}
	if m.ThreadID != "" {
		cmds = append(cmds, m.loadHistoryCmd(m.ThreadID))
	} else {
		cmds = append(cmds, m.createThreadCmd())
	}
	return tea.Batch(cmds...)
}

func NewProgram(opts Options) (*tea.Program, *Model) {
	m := NewModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.Program = p
	return p, m
}
