// Package tui implements the interactive terminal client: an entry screen
// that collects the user's identity and service choice, and a conversation
// screen that drives chat round trips against the selected service.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"

	"github.com/workmate-dev/workmate/internal/store"
	"github.com/workmate-dev/workmate/pkg/chat/service"
	"github.com/workmate-dev/workmate/pkg/chat/session"
)

const (
	defaultNoticeTTL = 5 * time.Second
	composerHeight   = 3

	welcomeStatus      = "Welcome! Select a service above to begin."
	invalidEmailStatus = "❌ Please enter a valid email address."
)

type mode int

const (
	modeEntry mode = iota
	modeConversation
)

// turnDoneMsg delivers the outcome of an in-flight turn together with the
// token it was issued under. Stale tokens are discarded by the controller.
type turnDoneMsg struct {
	token string
	reply *service.Reply
	err   error
}

// noticeExpiredMsg retires the transient notice with the matching sequence
// number. A newer notice carries a higher sequence and stays visible.
type noticeExpiredMsg struct {
	seq int
}

// Model is the top-level bubbletea model for the client.
type Model struct {
	controller *session.Controller
	services   []service.Service
	history    *store.Store
	logger     logr.Logger
	noticeTTL  time.Duration

	mode   mode
	keys   keyMap
	help   help.Model
	width  int
	height int
	ready  bool

	// Entry screen.
	email  textinput.Model
	cursor int
	status string

	// Conversation screen.
	transcript viewport.Model
	composer   textarea.Model
	spin       spinner.Model
	notice     string
	noticeSeq  int
}

// Option configures the model.
type Option func(*Model)

// WithHistory persists transcripts when the session is reset or the client
// quits.
func WithHistory(s *store.Store) Option {
	return func(m *Model) {
		m.history = s
	}
}

// WithNoticeTTL overrides how long the failure notice stays visible.
func WithNoticeTTL(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.noticeTTL = d
		}
	}
}

// WithLogger routes diagnostics to the given logger.
func WithLogger(logger logr.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// WithIdentity prefills the entry screen's email field.
func WithIdentity(email string) Option {
	return func(m *Model) {
		m.email.SetValue(email)
	}
}

// NewModel assembles the client around a session controller and the services
// to offer on the entry screen.
func NewModel(controller *session.Controller, services []service.Service, opts ...Option) Model {
	email := textinput.New()
	email.Placeholder = "Enter your email address to access enterprise services"
	email.Prompt = "📧 "
	email.CharLimit = 254
	email.Width = 52
	email.Focus()

	composer := textarea.New()
	composer.Placeholder = "Type your message here... (Press Enter to send)"
	composer.ShowLineNumbers = false
	composer.CharLimit = 0
	composer.SetHeight(composerHeight)
	composer.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")

	m := Model{
		controller: controller,
		services:   services,
		logger:     logr.Discard(),
		noticeTTL:  defaultNoticeTTL,
		keys:       defaultKeyMap(),
		help:       help.New(),
		email:      email,
		status:     welcomeStatus,
		transcript: viewport.New(0, 0),
		composer:   composer,
		spin:       spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
	}
	for _, opt := range opts {
		opt(&m)
	}

	// A controller that already carries a selection (the chat command's
	// --service flag) skips the entry screen.
	if controller.Snapshot().Active() {
		m.mode = modeConversation
		if svc, ok := controller.Service(); ok {
			m.status = fmt.Sprintf("✅ Connected to %s", svc.Name())
		}
		m.email.Blur()
		m.composer.Focus()
	}
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	if m.mode == modeConversation {
		return textarea.Blink
	}
	return textinput.Blink
}

// Update routes messages to the active screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.saveTranscript()
			return m, tea.Quit
		}
		if m.mode == modeEntry {
			return m.updateEntry(msg)
		}
		return m.updateConversation(msg)

	case spinner.TickMsg:
		if !m.controller.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case turnDoneMsg:
		cmd := m.handleTurnDone(msg)
		return m, cmd

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil
	}

	if m.mode == modeConversation {
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the active screen.
func (m Model) View() string {
	if !m.ready {
		return "Starting..."
	}
	if m.mode == modeEntry {
		return m.viewEntry()
	}
	return m.viewConversation()
}

// layout distributes the window between the fixed rows and the transcript.
func (m *Model) layout() {
	m.help.Width = m.width
	m.composer.SetWidth(m.width)
	m.transcript.Width = m.width

	h := m.height - composerHeight - 4
	if h < 3 {
		h = 3
	}
	m.transcript.Height = h
}

// saveTranscript persists the current session if history is enabled and the
// conversation has at least one user turn. Failures are logged, never fatal.
func (m *Model) saveTranscript() {
	if m.history == nil {
		return
	}
	if _, err := m.history.SaveTranscript(m.controller.Snapshot()); err != nil {
		m.logger.Error(err, "failed to save transcript")
	}
}

// Run drives the client until the user quits.
func Run(controller *session.Controller, services []service.Service, opts ...Option) error {
	p := tea.NewProgram(
		NewModel(controller, services, opts...),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
