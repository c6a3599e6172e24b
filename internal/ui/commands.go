package ui

import (
	"context"
	"time"

	"growthbot/internal/db"
	"growthbot/internal/langgraph"
	"growthbot/internal/models"
	"growthbot/internal/session"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func (m *Model) userID() string {
	if m.Identity == nil {
		return ""
	}
	return m.Identity.UserID()
}

// createThreadCmd starts a thread creation. Only the result of the latest
// request is applied; see ThreadCreatedMsg handling.
func (m *Model) createThreadCmd() tea.Cmd {
	m.createSeq++
	seq := m.createSeq
	m.CreatingThread = true
	reg, userID := m.Registry, m.userID()
	return func() tea.Msg {
		th, ok := reg.CreateThread(context.Background(), userID)
		return ThreadCreatedMsg{Seq: seq, Thread: th, OK: ok}
	}
}

func (m *Model) loadThreadsCmd() tea.Cmd {
	m.ThreadsLoading = true
	reg, userID := m.Registry, m.userID()
	return func() tea.Msg {
		return ThreadsLoadedMsg{Threads: reg.ListThreads(context.Background(), userID)}
	}
}

func (m *Model) loadHistoryCmd(threadID string) tea.Cmd {
	m.HistoryLoading = true
	reg := m.Registry
	return func() tea.Msg {
		msgs, err := reg.ThreadMessages(context.Background(), threadID)
		return HistoryLoadedMsg{ThreadID: threadID, Messages: msgs, Err: err}
	}
}

// startRun submits text to the current session and opens the run stream.
func (m *Model) startRun(text string) tea.Cmd {
	human, ok := m.Session.Submit(text)
	if !ok {
		return nil
	}
	m.runGen++
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelRun = cancel
	events := session.Open(ctx, m.Backend, m.ThreadID, langgraph.NewRunRequest(m.Config.AssistantID, human))
	m.Log.Info("run submitted", zap.String("thread_id", m.ThreadID), zap.String("message_id", human.ID))
	return listenCmd(m.runGen, events)
}

func listenCmd(gen int, ch <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		return StreamMsg{Gen: gen, Event: ev, Closed: !ok, ch: ch}
	}
}

// stopRun cancels the in-flight run, locally and on the service. Events of
// the stopped run still in flight are ignored from here on; the session
// returns to idle on the cancel acknowledgement.
func (m *Model) stopRun() tea.Cmd {
	runID, ok := m.Session.Stop()
	if !ok {
		return nil
	}
	m.releaseRun()
	m.runGen++
	gen, threadID, backend := m.runGen, m.ThreadID, m.Backend
	m.Log.Info("run cancel requested", zap.String("thread_id", threadID), zap.String("run_id", runID))
	return func() tea.Msg {
		if runID == "" {
			return CancelAckMsg{Gen: gen}
		}
		return CancelAckMsg{Gen: gen, Err: backend.CancelRun(context.Background(), threadID, runID)}
	}
}

// abandonRun detaches from any in-flight run before the session is replaced.
func (m *Model) abandonRun() tea.Cmd {
	cmd := m.stopRun()
	m.runGen++
	return cmd
}

func (m *Model) releaseRun() {
	if m.cancelRun != nil {
		m.cancelRun()
		m.cancelRun = nil
	}
}

func (m *Model) showNotice(n models.Notice) tea.Cmd {
	m.noticeSeq++
	m.Notice = &n
	seq := m.noticeSeq
	return tea.Tick(NoticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg{seq: seq} })
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return NoticeMsg{Level: models.NoticeError, Title: "Copy failed", Detail: err.Error()}
		}
		return NoticeMsg{Level: models.NoticeInfo, Title: "Thread id copied"}
	}
}

func (m *Model) persistThreadID() {
	if m.DB == nil {
		return
	}
	if err := db.SetSetting(m.DB, db.KeyThreadID, m.ThreadID); err != nil {
		m.Log.Warn("persist thread id failed", zap.Error(err))
	}
}

func (m *Model) persistSidebar() {
	if m.DB == nil {
		return
	}
	if err := db.SetBool(m.DB, db.KeySidebarOpen, m.SidebarOpen); err != nil {
		m.Log.Warn("persist sidebar state failed", zap.Error(err))
	}
}

func (m *Model) persistTheme(name string) {
	if m.DB == nil {
		return
	}
	if err := db.SetSetting(m.DB, db.KeyTheme, name); err != nil {
		m.Log.Warn("persist theme failed", zap.Error(err))
	}
}
