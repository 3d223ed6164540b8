package mockagent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/workmate-dev/workmate/pkg/chat/service"
)

// The fixture must satisfy the same wire contract the real clients speak,
// so the clients themselves are the assertion.

func TestTimesheetContract(t *testing.T) {
	agent := New()
	agent.SetTimesheetReply("Logged 8 hours against ABC-123.")

	srv := httptest.NewServer(agent.TimesheetRouter())
	defer srv.Close()

	ts := service.NewTimesheet(service.WithBaseURL(srv.URL))
	reply, err := ts.Send(context.Background(), service.Turn{Email: "a@b.com", Prompt: "log 8 hours"})

	require.NoError(t, err)
	require.Equal(t, "Logged 8 hours against ABC-123.", reply.Text)
	require.Equal(t, "ready", reply.Phase)
}

func TestTimesheetRejectsMissingFields(t *testing.T) {
	srv := httptest.NewServer(New().TimesheetRouter())
	defer srv.Close()

	ts := service.NewTimesheet(service.WithBaseURL(srv.URL))
	_, err := ts.Send(context.Background(), service.Turn{Email: "", Prompt: "hi"})

	require.Error(t, err)
}

func TestPolicyContract(t *testing.T) {
	agent := New()
	agent.SetPolicyAnswer("21 days", "handbook.pdf", "leave-policy.pdf")

	srv := httptest.NewServer(agent.PolicyRouter())
	defer srv.Close()

	hr := service.NewHRPolicy(service.WithBaseURL(srv.URL))
	reply, err := hr.Send(context.Background(), service.Turn{Prompt: "vacation days?"})

	require.NoError(t, err)
	require.Equal(t, "21 days", reply.Text)
	require.Equal(t, []string{"handbook.pdf", "leave-policy.pdf"}, reply.Sources)
}

func TestPolicyHealth(t *testing.T) {
	srv := httptest.NewServer(New().PolicyRouter())
	defer srv.Close()

	hr := service.NewHRPolicy(service.WithBaseURL(srv.URL))
	require.NoError(t, hr.CheckHealth(context.Background()))
}

func TestTimesheetHealth(t *testing.T) {
	srv := httptest.NewServer(New().TimesheetRouter())
	defer srv.Close()

	ts := service.NewTimesheet(service.WithBaseURL(srv.URL))
	require.NoError(t, ts.CheckHealth(context.Background()))
}

func TestForceStatus(t *testing.T) {
	agent := New()
	agent.ForceStatus(http.StatusServiceUnavailable)

	srv := httptest.NewServer(agent.PolicyRouter())
	defer srv.Close()

	hr := service.NewHRPolicy(service.WithBaseURL(srv.URL))
	_, err := hr.Send(context.Background(), service.Turn{Prompt: "q"})
	require.Error(t, err)

	agent.ForceStatus(0)
	_, err = hr.Send(context.Background(), service.Turn{Prompt: "q"})
	require.NoError(t, err)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := httptest.NewServer(New().PolicyRouter())
	defer srv.Close()

	res, err := http.Get(srv.URL + "/query")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}
