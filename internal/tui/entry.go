package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/workmate-dev/workmate/pkg/chat/errors"
	"github.com/workmate-dev/workmate/pkg/chat/identity"
)

func (m Model) updateEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.services)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		return m.selectService()
	}

	var cmd tea.Cmd
	m.email, cmd = m.email.Update(msg)
	if m.status == invalidEmailStatus && identity.Validate(m.email.Value()) {
		m.status = welcomeStatus
	}
	return m, cmd
}

// selectService commits the highlighted service. The controller re-checks
// the identity, so the gate holds even if the rendering missed a keystroke.
func (m Model) selectService() (tea.Model, tea.Cmd) {
	if len(m.services) == 0 {
		return m, nil
	}

	svc := m.services[m.cursor]
	if err := m.controller.SelectService(svc.ID(), m.email.Value()); err != nil {
		if apperrors.CodeOf(err) == apperrors.ErrCodeInvalidIdentity {
			m.status = invalidEmailStatus
		} else {
			m.status = "❌ " + err.Error()
		}
		return m, nil
	}

	m.mode = modeConversation
	m.status = fmt.Sprintf("✅ Connected to %s", svc.Name())
	m.notice = ""
	m.email.Blur()
	m.composer.Reset()
	m.refreshTranscript()
	return m, m.composer.Focus()
}

func (m Model) viewEntry() string {
	valid := identity.Validate(m.email.Value())

	var b strings.Builder
	b.WriteString(titleStyle.Render("🏢 Workmate"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Your AI-powered workspace companion"))
	b.WriteString("\n\n")
	b.WriteString(m.email.View())
	b.WriteString("\n\n")
	b.WriteString("Choose a service:\n")

	for i, svc := range m.services {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("➜ ")
		}
		line := serviceNameStyle.Render(svc.Name()) + " — " + serviceDescStyle.Render(svc.Description())
		if !valid {
			line = disabledListStyle.Render(svc.Name() + " — " + svc.Description())
		}
		b.WriteString(prefix + line + "\n")
	}

	b.WriteString("\n")
	if m.status == invalidEmailStatus {
		b.WriteString(noticeStyle.Render(m.status))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView(m.keys.entryHelp()))
	return b.String()
}
