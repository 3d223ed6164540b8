// Package service defines the remote assistant services a session can talk
// to: a closed set of identifiers mapped to per-service request payloads and
// response extraction rules, behind one common interface.
package service

import (
	"context"
	"strings"
)

// FallbackText is the display string used when a success response carries
// none of the fields a service prefers. Falling through to it is success,
// not an error.
const FallbackText = "Response received successfully."

// Turn is one outbound user prompt bound to the identity that issued it.
// Services that do not take identity ignore Email when building the payload.
type Turn struct {
	Email  string
	Prompt string
}

// Reply is the reduced assistant response for one turn. Text is the result
// of walking the service's field-precedence chain; the remaining fields are
// auxiliary data individual services may surface.
type Reply struct {
	Text    string
	Sources []string

	// Timesheet-style conversational metadata, kept for diagnostics and
	// richer frontends. Never required to be present.
	Phase         string
	MissingFields []string
	Suggestions   []string
}

// DisplayText returns the text to append to the conversation, including the
// sources block when the service returned any.
func (r *Reply) DisplayText() string {
	if len(r.Sources) == 0 {
		return r.Text
	}
	return r.Text + "\n\n📚 **Sources:** " + strings.Join(r.Sources, ", ")
}

// Service is one remote assistant endpoint: identifier, display metadata,
// and the request/response conversion for a single conversational exchange.
type Service interface {
	// ID returns the stable service identifier (kebab-case).
	ID() string

	// Name returns the human-readable service name.
	Name() string

	// Description returns a one-line description for selection surfaces.
	Description() string

	// RequiresIdentity reports whether the request payload carries the
	// user's email. Identity still gates selection either way.
	RequiresIdentity() bool

	// Greeting returns the assistant message appended when the service
	// is selected.
	Greeting() string

	// Endpoint returns the full request URL for diagnostics and listings.
	Endpoint() string

	// Send performs one request/response exchange.
	Send(ctx context.Context, turn Turn) (*Reply, error)
}

// HealthChecker is implemented by services that expose a liveness probe.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}
