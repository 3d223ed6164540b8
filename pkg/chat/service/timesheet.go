package service

import (
	"context"
	"fmt"

	apperrors "github.com/workmate-dev/workmate/pkg/chat/errors"
)

// TimesheetID identifies the conversational timesheet service.
const TimesheetID = "timesheet"

const (
	timesheetName        = "Timesheet Management"
	timesheetDescription = "Manage your Oracle and Mars timesheets with AI assistance"
	timesheetBaseURL     = "http://localhost:8000"
	timesheetPath        = "/chat"
	timesheetHealthPath  = "/health"
	timesheetGreeting    = "Hello! I'm your Timesheet Management assistant. I can help you fill timesheets, view entries, and manage your Oracle and Mars timesheet data. How can I assist you today?"
)

// timesheetRequest is the wire payload for the timesheet chat endpoint.
// This service receives the user identity with every prompt.
type timesheetRequest struct {
	Email      string `json:"email"`
	UserPrompt string `json:"user_prompt"`
}

// Timesheet is the client for the conversational timesheet agent.
type Timesheet struct {
	rest restClient
}

// NewTimesheet creates a timesheet service client.
func NewTimesheet(opts ...Option) *Timesheet {
	t := &Timesheet{
		rest: restClient{
			baseURL: timesheetBaseURL,
			path:    timesheetPath,
		},
	}
	t.rest.apply(opts...)
	return t
}

func (t *Timesheet) ID() string { return TimesheetID }

func (t *Timesheet) Name() string { return timesheetName }

func (t *Timesheet) Description() string { return timesheetDescription }

func (t *Timesheet) RequiresIdentity() bool { return true }

func (t *Timesheet) Greeting() string { return timesheetGreeting }

func (t *Timesheet) Endpoint() string { return t.rest.endpoint() }

// Send posts one prompt and reduces the response via the timesheet field
// precedence: response, message, fallback.
func (t *Timesheet) Send(ctx context.Context, turn Turn) (*Reply, error) {
	body, err := t.rest.doJSON(ctx, timesheetRequest{
		Email:      turn.Email,
		UserPrompt: turn.Prompt,
	})
	if err != nil {
		return nil, err
	}

	return &Reply{
		Text:          extractDisplayText(body, "response", "message"),
		Phase:         stringField(body, "conversation_phase"),
		MissingFields: stringSliceField(body, "missing_fields"),
		Suggestions:   stringSliceField(body, "suggestions"),
	}, nil
}

// CheckHealth probes the service's health endpoint. The endpoint reports
// "degraded" when its database is down; anything but "healthy" is an error.
func (t *Timesheet) CheckHealth(ctx context.Context) error {
	body, err := t.rest.getJSON(ctx, timesheetHealthPath)
	if err != nil {
		return err
	}
	if status := stringField(body, "status"); status != "healthy" {
		return apperrors.New(apperrors.ErrCodeServiceUnavail,
			fmt.Sprintf("service reports status %q", status), nil)
	}
	return nil
}
