package ui

import (
	"context"
	"database/sql"
	"time"

	"growthbot/internal/config"
	"growthbot/internal/identity"
	"growthbot/internal/models"
	"growthbot/internal/session"
	"growthbot/internal/threads"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

const (
	MaxChatWidth       = 100
	ModalWidth         = 64
	SidebarWidth       = 34
	CompactWidthThresh = 100 // below this the sidebar covers the chat instead of sitting beside it

	SkeletonRows = 6
	NoticeTTL    = 4 * time.Second
)

var Suggestions = []string{
	"What can you do?",
	"Walk me through your services",
	"Tell me more about your company",
}

// Backend runs and cancels assistant runs. *langgraph.Client implements it.
type Backend interface {
	session.Runner
	CancelRun(ctx context.Context, threadID, runID string) error
}

type Options struct {
	Config      config.Config
	DB          *sql.DB
	Identity    *identity.Store
	Backend     Backend
	Threads     threads.API
	Logger      *zap.Logger
	ThreadID    string
	SidebarOpen bool
	FreshUser   bool
}

type (
	ThreadCreatedMsg struct {
		Seq    int
		Thread models.Thread
		OK     bool
	}
	ThreadsLoadedMsg struct {
		Threads []models.Thread
	}
	HistoryLoadedMsg struct {
		ThreadID string
		Messages []models.Message
		Err      error
	}
	// StreamMsg carries one event of run Gen and the channel it came from,
	// which the next listen reads.
	StreamMsg struct {
		Gen    int
		Event  session.Event
		Closed bool
		ch     <-chan session.Event
	}
	CancelAckMsg struct {
		Gen int
		Err error
	}
	NoticeMsg        models.Notice
	noticeExpiredMsg struct{ seq int }
)

type mdEntry struct {
	source string
	out    string
}

type Model struct {
	Viewport  viewport.Model
	TextInput textarea.Model
	Filter    textinput.Model
	Spinner   spinner.Model
	Help      help.Model
	Keys      KeyMap
	Renderer  *glamour.TermRenderer

	Config   config.Config
	DB       *sql.DB
	Identity *identity.Store
	Backend  Backend
	Registry *threads.Registry
	Log      *zap.Logger
	Program  *tea.Program

	ThreadID       string
	Session        *session.Session
	Threads        []models.Thread
	ThreadsLoading bool
	CreatingThread bool
	HistoryLoading bool

	SidebarOpen    bool
	SidebarFocused bool
	SidebarIdx     int
	SidebarOffset  int
	Filtering      bool

	HideToolCalls bool
	Expanded      map[string]bool
	TutorialOpen  bool
	TutorialStep  int

	Notice       *models.Notice
	WindowWidth  int
	WindowHeight int

	noticeSeq int
	createSeq int
	runGen    int
	cancelRun context.CancelFunc
	mdCache   map[string]mdEntry
}
