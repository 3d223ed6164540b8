// Package session owns the conversation state for one user against one
// selected service: identity gating, optimistic history, the single-flight
// loading gate, and token-guarded asynchronous turn completion.
package session

import (
	"time"

	"github.com/workmate-dev/workmate/pkg/chat/service"
)

// Role is the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the conversation history. Failed marks the
// synthetic assistant apology appended for a failed turn.
type Message struct {
	ID        string
	Role      Role
	Text      string
	Failed    bool
	CreatedAt time.Time
}

// State is the full client-visible session record. History is append-only
// within one service selection; insertion order is display order.
type State struct {
	Service  string
	Email    string
	Messages []Message
	Loading  bool
}

// Active reports whether a service has been selected.
func (s State) Active() bool {
	return s.Service != ""
}

func (s State) clone() State {
	out := s
	out.Messages = make([]Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	return out
}

// Turn is one in-flight exchange: the minted completion token plus
// everything a frontend needs to execute the request outside the
// controller's lock.
type Turn struct {
	Token   string
	Service service.Service
	Email   string
	Prompt  string
}
