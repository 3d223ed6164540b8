package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/workmate-dev/workmate/pkg/chat/errors"
	"github.com/workmate-dev/workmate/pkg/chat/service"
)

// fakeService lets each test script the remote exchange.
type fakeService struct {
	id       string
	greeting string
	sendFunc func(ctx context.Context, turn service.Turn) (*service.Reply, error)
	sends    int
}

func (f *fakeService) ID() string             { return f.id }
func (f *fakeService) Name() string           { return "Fake " + f.id }
func (f *fakeService) Description() string    { return "fake service" }
func (f *fakeService) RequiresIdentity() bool { return true }
func (f *fakeService) Endpoint() string       { return "http://fake.local/" + f.id }

func (f *fakeService) Greeting() string {
	if f.greeting != "" {
		return f.greeting
	}
	return "Hello from " + f.id
}

func (f *fakeService) Send(ctx context.Context, turn service.Turn) (*service.Reply, error) {
	f.sends++
	if f.sendFunc != nil {
		return f.sendFunc(ctx, turn)
	}
	return &service.Reply{Text: "ok"}, nil
}

func newTestController(t *testing.T, services ...*fakeService) *Controller {
	t.Helper()

	registry := service.NewRegistry()
	for _, svc := range services {
		require.NoError(t, registry.Register(svc))
	}
	return NewController(registry, WithClock(func() time.Time {
		return time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	}))
}

func newActiveController(t *testing.T, svc *fakeService) *Controller {
	t.Helper()

	c := newTestController(t, svc)
	require.NoError(t, c.SelectService(svc.id, "a@b.com"))
	return c
}

func expectCode(t *testing.T, err error, code string) {
	t.Helper()

	require.Error(t, err)
	require.Equal(t, code, apperrors.CodeOf(err))
}

func TestSelectService_InvalidIdentityLeavesStateUntouched(t *testing.T) {
	c := newTestController(t, &fakeService{id: "timesheet"})

	for _, email := range []string{"", "not-an-email", "missing@dot", "a@b"} {
		err := c.SelectService("timesheet", email)
		expectCode(t, err, apperrors.ErrCodeInvalidIdentity)

		state := c.Snapshot()
		require.Equal(t, State{}, state, "state must stay initial for email %q", email)
	}
}

func TestSelectService_CommitsStateAndGreets(t *testing.T) {
	svc := &fakeService{id: "timesheet", greeting: "Hello! I'm your Timesheet Management assistant."}
	c := newTestController(t, svc)

	require.NoError(t, c.SelectService("timesheet", "a@b.com"))

	state := c.Snapshot()
	require.Equal(t, "timesheet", state.Service)
	require.Equal(t, "a@b.com", state.Email)
	require.False(t, state.Loading)
	require.Len(t, state.Messages, 1)
	require.Equal(t, RoleAssistant, state.Messages[0].Role)
	require.Equal(t, svc.greeting, state.Messages[0].Text)
	require.NotEmpty(t, state.Messages[0].ID)
}

func TestSelectService_NormalizesIdentity(t *testing.T) {
	c := newTestController(t, &fakeService{id: "timesheet"})

	require.NoError(t, c.SelectService("timesheet", "First.Last@Example.COM"))
	require.Equal(t, "first.last@example.com", c.Snapshot().Email)
}

func TestSelectService_UnknownService(t *testing.T) {
	c := newTestController(t, &fakeService{id: "timesheet"})

	err := c.SelectService("payroll", "a@b.com")
	expectCode(t, err, apperrors.ErrCodeServiceNotFound)
	require.Equal(t, State{}, c.Snapshot())
}

func TestSelectService_RejectedWhileActive(t *testing.T) {
	svc := &fakeService{id: "timesheet"}
	other := &fakeService{id: "hr-policy"}
	c := newTestController(t, svc, other)

	require.NoError(t, c.SelectService("timesheet", "a@b.com"))
	before := c.Snapshot()

	err := c.SelectService("hr-policy", "a@b.com")
	expectCode(t, err, apperrors.ErrCodeSessionActive)
	require.Equal(t, before, c.Snapshot())
}

func TestBeginTurn_RequiresService(t *testing.T) {
	c := newTestController(t, &fakeService{id: "timesheet"})

	_, err := c.BeginTurn("hello")
	expectCode(t, err, apperrors.ErrCodeNoService)
}

func TestBeginTurn_EmptyMessageIsNoOp(t *testing.T) {
	c := newActiveController(t, &fakeService{id: "timesheet"})
	before := c.Snapshot()

	for _, text := range []string{"", "   ", "\n\t "} {
		_, err := c.BeginTurn(text)
		expectCode(t, err, apperrors.ErrCodeEmptyMessage)
	}

	require.Equal(t, before, c.Snapshot())
}

func TestBeginTurn_AppendsUserMessageOptimistically(t *testing.T) {
	c := newActiveController(t, &fakeService{id: "timesheet"})

	turn, err := c.BeginTurn("  hello there  ")
	require.NoError(t, err)
	require.NotEmpty(t, turn.Token)
	require.Equal(t, "hello there", turn.Prompt)
	require.Equal(t, "a@b.com", turn.Email)

	// The user message is visible before any network activity resolves.
	state := c.Snapshot()
	require.True(t, state.Loading)
	require.Len(t, state.Messages, 2)
	require.Equal(t, RoleUser, state.Messages[1].Role)
	require.Equal(t, "hello there", state.Messages[1].Text)
}

func TestBeginTurn_SecondCallWhileInFlightIsNoOp(t *testing.T) {
	c := newActiveController(t, &fakeService{id: "timesheet"})

	_, err := c.BeginTurn("first")
	require.NoError(t, err)
	lenBefore := len(c.Snapshot().Messages)

	_, err = c.BeginTurn("second")
	expectCode(t, err, apperrors.ErrCodeTurnInFlight)
	require.Len(t, c.Snapshot().Messages, lenBefore, "history length unchanged by the rejected send")
}

func TestFinishTurn_AppendsExactlyOneAssistantMessage(t *testing.T) {
	c := newActiveController(t, &fakeService{id: "timesheet"})

	turn, err := c.BeginTurn("hello")
	require.NoError(t, err)

	applied := c.FinishTurn(turn.Token, &service.Reply{Text: "hi back"}, nil)
	require.True(t, applied)

	state := c.Snapshot()
	require.False(t, state.Loading)
	require.Len(t, state.Messages, 3)
	last := state.Messages[2]
	require.Equal(t, RoleAssistant, last.Role)
	require.Equal(t, "hi back", last.Text)
	require.False(t, last.Failed)
}

func TestFinishTurn_FailureAppendsApology(t *testing.T) {
	c := newActiveController(t, &fakeService{id: "timesheet"})

	turn, err := c.BeginTurn("hello")
	require.NoError(t, err)

	sendErr := apperrors.New(apperrors.ErrCodeServiceUnavail, "service returned status 500", nil)
	applied := c.FinishTurn(turn.Token, nil, sendErr)
	require.True(t, applied)

	state := c.Snapshot()
	require.False(t, state.Loading)
	require.Len(t, state.Messages, 3)
	last := state.Messages[2]
	require.Equal(t, RoleAssistant, last.Role)
	require.Equal(t, ApologyText, last.Text)
	require.True(t, last.Failed)
}

func TestFinishTurn_StaleTokenDiscarded(t *testing.T) {
	c := newActiveController(t, &fakeService{id: "timesheet"})

	turn, err := c.BeginTurn("hello")
	require.NoError(t, err)

	// The user resets while the request is outstanding. The late completion
	// must not mutate the session that has moved on.
	c.Reset()

	applied := c.FinishTurn(turn.Token, &service.Reply{Text: "late"}, nil)
	require.False(t, applied)
	require.Equal(t, State{}, c.Snapshot())
}

func TestFinishTurn_EmptyTokenNeverApplies(t *testing.T) {
	c := newActiveController(t, &fakeService{id: "timesheet"})

	require.False(t, c.FinishTurn("", &service.Reply{Text: "x"}, nil))
	require.Len(t, c.Snapshot().Messages, 1)
}

func TestSend_SuccessRoundTrip(t *testing.T) {
	svc := &fakeService{
		id: "hr-policy",
		sendFunc: func(ctx context.Context, turn service.Turn) (*service.Reply, error) {
			return &service.Reply{Text: "42"}, nil
		},
	}
	c := newActiveController(t, svc)

	reply, err := c.Send(context.Background(), "what is the answer?")
	require.NoError(t, err)
	require.Equal(t, "42", reply.Text)

	state := c.Snapshot()
	require.False(t, state.Loading)
	require.Len(t, state.Messages, 3) // greeting, user, assistant
	require.Equal(t, "42", state.Messages[2].Text)
	require.Equal(t, 1, svc.sends)
}

func TestSend_FailureKeepsSessionAlive(t *testing.T) {
	svc := &fakeService{
		id: "timesheet",
		sendFunc: func(ctx context.Context, turn service.Turn) (*service.Reply, error) {
			return nil, errors.New("connection refused")
		},
	}
	c := newActiveController(t, svc)

	_, err := c.Send(context.Background(), "hello")
	require.Error(t, err)

	// The failed turn is terminal for the turn, never for the session.
	state := c.Snapshot()
	require.False(t, state.Loading)
	require.Equal(t, ApologyText, state.Messages[len(state.Messages)-1].Text)

	_, err = c.Send(context.Background(), "retry by hand")
	require.Error(t, err)
	require.Equal(t, 2, svc.sends, "manual resend reaches the service again")
}

func TestReset_RestoresInitialStateFromAnywhere(t *testing.T) {
	svc := &fakeService{id: "timesheet"}
	c := newActiveController(t, svc)

	_, err := c.Send(context.Background(), "one")
	require.NoError(t, err)
	_, err = c.BeginTurn("two")
	require.NoError(t, err)

	c.Reset()

	require.Equal(t, State{}, c.Snapshot())
	_, active := c.Service()
	require.False(t, active)
	require.False(t, c.Loading())
}

func TestRoundTrip_NoCarryoverBetweenServices(t *testing.T) {
	first := &fakeService{id: "timesheet"}
	second := &fakeService{id: "hr-policy", greeting: "Hello! I'm your HR Policy Assistant."}
	c := newTestController(t, first, second)

	require.NoError(t, c.SelectService("timesheet", "a@b.com"))
	for _, text := range []string{"turn one", "turn two", "turn three"} {
		_, err := c.Send(context.Background(), text)
		require.NoError(t, err)
	}
	require.Len(t, c.Snapshot().Messages, 7)

	c.Reset()
	require.NoError(t, c.SelectService("hr-policy", "c@d.org"))

	state := c.Snapshot()
	require.Equal(t, "hr-policy", state.Service)
	require.Equal(t, "c@d.org", state.Email)
	require.Len(t, state.Messages, 1, "service B must show zero carryover from A")
	require.Equal(t, second.Greeting(), state.Messages[0].Text)
}

func TestSnapshot_IsIsolatedFromController(t *testing.T) {
	c := newActiveController(t, &fakeService{id: "timesheet"})

	snap := c.Snapshot()
	snap.Messages[0].Text = "tampered"
	snap.Messages = append(snap.Messages, Message{Role: RoleUser, Text: "extra"})

	state := c.Snapshot()
	require.Len(t, state.Messages, 1)
	require.NotEqual(t, "tampered", state.Messages[0].Text)
}

func TestValidateIdentity_Delegates(t *testing.T) {
	c := newTestController(t, &fakeService{id: "timesheet"})

	require.True(t, c.ValidateIdentity("a@b.com"))
	require.False(t, c.ValidateIdentity("nope"))
}
