package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"

	apperrors "github.com/workmate-dev/workmate/pkg/chat/errors"
	"github.com/workmate-dev/workmate/pkg/chat/identity"
	"github.com/workmate-dev/workmate/pkg/chat/service"
)

// ApologyText is the assistant message appended for every failed turn. It
// is deliberately uniform across transport, remote, and parse failures; the
// underlying cause goes to the log, never to the conversation.
const ApologyText = "I apologize, but I encountered an unexpected error. Please try again or contact support if the issue persists."

// Controller owns one Session record and serializes every transition on it.
// Frontends drive it in two halves: BeginTurn inside the event loop,
// the network exchange outside it, FinishTurn back inside. A completion
// whose token no longer matches (reset, or a fresh selection) is discarded
// without touching state.
type Controller struct {
	mu       sync.Mutex
	registry service.Registry
	logger   logr.Logger
	now      func() time.Time

	state     State
	svc       service.Service
	turnToken string
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger supplies the structured logger. Defaults to a discard logger.
func WithLogger(logger logr.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithClock overrides the message timestamp source, for tests.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.now = now
	}
}

// NewController creates a controller in the initial (entry) state.
func NewController(registry service.Registry, opts ...ControllerOption) *Controller {
	c := &Controller{
		registry: registry,
		logger:   logr.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ValidateIdentity reports whether candidate may gate a service selection.
// Purely syntactic; see the identity package.
func (c *Controller) ValidateIdentity(candidate string) bool {
	return identity.Validate(candidate)
}

// SelectService commits a service selection. The identity must validate or
// the session is left untouched; re-selecting while a session is active is
// rejected — reset first.
func (c *Controller) SelectService(id, email string) error {
	if !identity.Validate(email) {
		return apperrors.New(apperrors.ErrCodeInvalidIdentity, "a valid email address is required", nil)
	}

	svc, err := c.registry.Get(id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Active() {
		return apperrors.New(apperrors.ErrCodeSessionActive, "a service is already selected; reset the session first", nil)
	}

	c.svc = svc
	c.state = State{
		Service: svc.ID(),
		Email:   identity.Normalize(email),
		Messages: []Message{{
			ID:        shortuuid.New(),
			Role:      RoleAssistant,
			Text:      svc.Greeting(),
			CreatedAt: c.now(),
		}},
	}
	c.turnToken = ""

	c.logger.V(1).Info("service selected", "service", svc.ID())
	return nil
}

// Reset restores the initial state unconditionally and invalidates any
// in-flight turn so its eventual completion is discarded on arrival.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = State{}
	c.svc = nil
	c.turnToken = ""

	c.logger.V(1).Info("session reset")
}

// BeginTurn validates and stages one outbound turn: the user message is
// appended optimistically, the loading gate closes, and a fresh completion
// token is minted. Empty input and an in-flight turn are no-ops surfaced
// as typed errors.
func (c *Controller) BeginTurn(text string) (*Turn, error) {
	prompt := strings.TrimSpace(text)
	if prompt == "" {
		return nil, apperrors.New(apperrors.ErrCodeEmptyMessage, "message is empty", nil)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Active() {
		return nil, apperrors.New(apperrors.ErrCodeNoService, "no service selected", nil)
	}
	if c.state.Loading {
		return nil, apperrors.New(apperrors.ErrCodeTurnInFlight, "a turn is already in flight", nil)
	}

	c.state.Messages = append(c.state.Messages, Message{
		ID:        shortuuid.New(),
		Role:      RoleUser,
		Text:      prompt,
		CreatedAt: c.now(),
	})
	c.state.Loading = true
	c.turnToken = uuid.NewString()

	return &Turn{
		Token:   c.turnToken,
		Service: c.svc,
		Email:   c.state.Email,
		Prompt:  prompt,
	}, nil
}

// FinishTurn applies one turn completion. It reports false — and mutates
// nothing — when token is stale, i.e. the session was reset or replaced
// while the request was outstanding. Otherwise exactly one assistant
// message is appended (the reply on success, the apology on failure) and
// the loading gate opens again as the final step.
func (c *Controller) FinishTurn(token string, reply *service.Reply, sendErr error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token == "" || token != c.turnToken {
		c.logger.V(1).Info("stale turn completion discarded")
		return false
	}
	c.turnToken = ""

	msg := Message{
		ID:        shortuuid.New(),
		Role:      RoleAssistant,
		CreatedAt: c.now(),
	}
	if sendErr != nil {
		msg.Text = ApologyText
		msg.Failed = true
		c.logger.Error(sendErr, "turn failed",
			"service", c.state.Service,
			"code", apperrors.CodeOf(sendErr))
	} else {
		msg.Text = reply.DisplayText()
		c.logger.V(1).Info("turn completed", "service", c.state.Service)
	}
	c.state.Messages = append(c.state.Messages, msg)
	c.state.Loading = false

	return true
}

// Send performs one full synchronous turn for non-event-loop callers. The
// history receives the same messages the asynchronous path would append;
// the error is returned as well so callers can set exit codes.
func (c *Controller) Send(ctx context.Context, text string) (*service.Reply, error) {
	turn, err := c.BeginTurn(text)
	if err != nil {
		return nil, err
	}

	started := c.now()
	reply, err := turn.Service.Send(ctx, service.Turn{Email: turn.Email, Prompt: turn.Prompt})
	c.logger.V(1).Info("turn round trip",
		"service", turn.Service.ID(),
		"duration", c.now().Sub(started).String())

	c.FinishTurn(turn.Token, reply, err)
	return reply, err
}

// Service returns the active service, if any.
func (c *Controller) Service() (service.Service, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.svc, c.svc != nil
}

// Loading reports whether a turn is outstanding.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Loading
}

// Snapshot returns a copy of the session state safe for rendering while
// the controller keeps mutating.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}
