package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	apperrors "github.com/workmate-dev/workmate/pkg/chat/errors"
	"github.com/workmate-dev/workmate/pkg/chat/service"
	"github.com/workmate-dev/workmate/pkg/chat/session"
)

func (m Model) updateConversation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Reset):
		return m.resetToEntry()

	case key.Matches(msg, m.keys.Dismiss):
		m.notice = ""
		return m, nil

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDn):
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

// submit stages the composed message as one turn and launches the exchange.
// Empty input and an already in-flight turn are silent no-ops.
func (m Model) submit() (tea.Model, tea.Cmd) {
	turn, err := m.controller.BeginTurn(m.composer.Value())
	if err != nil {
		switch apperrors.CodeOf(err) {
		case apperrors.ErrCodeEmptyMessage, apperrors.ErrCodeTurnInFlight:
			return m, nil
		}
		m.notice = "❌ " + err.Error()
		return m, m.scheduleNoticeExpiry()
	}

	m.composer.Reset()
	m.refreshTranscript()
	return m, tea.Batch(m.sendTurn(turn), m.spin.Tick)
}

// sendTurn performs the network exchange off the event loop and reports
// back under the issuing token.
func (m Model) sendTurn(turn *session.Turn) tea.Cmd {
	svc := turn.Service
	payload := service.Turn{Email: turn.Email, Prompt: turn.Prompt}
	token := turn.Token
	return func() tea.Msg {
		reply, err := svc.Send(context.Background(), payload)
		return turnDoneMsg{token: token, reply: reply, err: err}
	}
}

// handleTurnDone applies a completion through the controller. Completions
// from before a reset come back with a stale token and change nothing.
func (m *Model) handleTurnDone(msg turnDoneMsg) tea.Cmd {
	if !m.controller.FinishTurn(msg.token, msg.reply, msg.err) {
		return nil
	}
	m.refreshTranscript()
	if msg.err == nil {
		return nil
	}

	name := "the service"
	if svc, ok := m.controller.Service(); ok {
		name = svc.Name()
	}
	m.notice = fmt.Sprintf("❌ Error communicating with %s", name)
	return m.scheduleNoticeExpiry()
}

// scheduleNoticeExpiry arms the auto-dismiss timer for the current notice.
func (m *Model) scheduleNoticeExpiry() tea.Cmd {
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(m.noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// resetToEntry saves the transcript, clears the session, and returns to the
// entry screen with a blank identity field.
func (m Model) resetToEntry() (tea.Model, tea.Cmd) {
	m.saveTranscript()
	m.controller.Reset()

	m.mode = modeEntry
	m.cursor = 0
	m.status = welcomeStatus
	m.notice = ""
	m.composer.Reset()
	m.composer.Blur()
	m.email.Reset()
	m.transcript.SetContent("")
	return m, m.email.Focus()
}

// refreshTranscript re-renders the conversation into the viewport and
// follows the newest message.
func (m *Model) refreshTranscript() {
	snap := m.controller.Snapshot()
	if len(snap.Messages) == 0 {
		m.transcript.SetContent("")
		return
	}

	blocks := make([]string, 0, len(snap.Messages))
	for _, msg := range snap.Messages {
		blocks = append(blocks, m.renderMessage(msg))
	}
	m.transcript.SetContent(strings.Join(blocks, "\n\n"))
	m.transcript.GotoBottom()
}

func (m *Model) renderMessage(msg session.Message) string {
	label := assistantLabelStyle.Render("Assistant")
	if msg.Role == session.RoleUser {
		label = userLabelStyle.Render("You")
	}
	stamp := timestampStyle.Render(msg.CreatedAt.Format("3:04 PM"))

	width := m.transcript.Width - 2
	if width < 20 {
		width = 20
	}
	body := wordwrap.String(msg.Text, width)
	if msg.Failed {
		body = failedTextStyle.Render(body)
	}
	return label + " " + stamp + "\n" + body
}

func (m Model) viewConversation() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.transcript.View())
	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.composer.View())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) headerView() string {
	name := "Workmate"
	if svc, ok := m.controller.Service(); ok {
		name = svc.Name()
	}
	header := headerStyle.Render("🏢 " + name)
	if email := m.controller.Snapshot().Email; email != "" {
		header += identityStyle.Render("  ·  " + email)
	}
	return header
}

// statusView fills the single status row: the transient failure notice wins,
// then the in-flight indicator, then the persistent connection status.
func (m Model) statusView() string {
	switch {
	case m.notice != "":
		return noticeStyle.Render(m.notice)
	case m.controller.Loading():
		return m.spin.View() + statusStyle.Render(" Waiting for a reply...")
	default:
		return statusStyle.Render(m.status)
	}
}
