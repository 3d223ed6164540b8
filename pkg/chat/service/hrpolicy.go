package service

import (
	"context"
	"fmt"

	apperrors "github.com/workmate-dev/workmate/pkg/chat/errors"
)

// HRPolicyID identifies the HR policy retrieval service.
const HRPolicyID = "hr-policy"

const (
	hrPolicyName        = "HR Policy Assistant"
	hrPolicyDescription = "Get answers about company policies and HR documents"
	hrPolicyBaseURL     = "http://localhost:8001"
	hrPolicyPath        = "/query"
	hrPolicyHealthPath  = "/health"
	hrPolicyGreeting    = "Hello! I'm your HR Policy Assistant. I can help you understand company policies, HR procedures, and answer questions about employee documentation. How can I help you today?"
)

// hrPolicyRequest is the wire payload for the policy query endpoint. The
// user identity is intentionally omitted for this service.
type hrPolicyRequest struct {
	Question string `json:"question"`
}

// HRPolicy is the client for the HR policy document-retrieval service.
type HRPolicy struct {
	rest restClient
}

// NewHRPolicy creates an HR policy service client.
func NewHRPolicy(opts ...Option) *HRPolicy {
	h := &HRPolicy{
		rest: restClient{
			baseURL: hrPolicyBaseURL,
			path:    hrPolicyPath,
		},
	}
	h.rest.apply(opts...)
	return h
}

func (h *HRPolicy) ID() string { return HRPolicyID }

func (h *HRPolicy) Name() string { return hrPolicyName }

func (h *HRPolicy) Description() string { return hrPolicyDescription }

func (h *HRPolicy) RequiresIdentity() bool { return false }

func (h *HRPolicy) Greeting() string { return hrPolicyGreeting }

func (h *HRPolicy) Endpoint() string { return h.rest.endpoint() }

// Send posts one question and reduces the response via the policy field
// precedence: answer, response, message, fallback. Document sources, when
// returned, ride along on the reply.
func (h *HRPolicy) Send(ctx context.Context, turn Turn) (*Reply, error) {
	body, err := h.rest.doJSON(ctx, hrPolicyRequest{Question: turn.Prompt})
	if err != nil {
		return nil, err
	}

	return &Reply{
		Text:    extractDisplayText(body, "answer", "response", "message"),
		Sources: stringSliceField(body, "sources"),
	}, nil
}

// CheckHealth probes the service's health endpoint. Any status other than
// "healthy" is reported as an error.
func (h *HRPolicy) CheckHealth(ctx context.Context) error {
	body, err := h.rest.getJSON(ctx, hrPolicyHealthPath)
	if err != nil {
		return err
	}
	if status := stringField(body, "status"); status != "healthy" {
		return apperrors.New(apperrors.ErrCodeServiceUnavail,
			fmt.Sprintf("service reports status %q", status), nil)
	}
	return nil
}
