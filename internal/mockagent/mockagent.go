// Package mockagent serves canned versions of the two upstream wire
// contracts for tests and local development. It is a fixture, not a
// reimplementation of the real services: no retrieval, no model calls.
package mockagent

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

// Agent holds the scripted behavior for both endpoints. The zero value
// answers every request successfully with generic canned text.
type Agent struct {
	mu sync.RWMutex

	timesheetReply string
	policyAnswer   string
	policySources  []string

	forceStatus int
	latency     time.Duration
}

// New creates an Agent with friendly canned replies.
func New() *Agent {
	return &Agent{
		timesheetReply: "Your timesheet entry has been recorded.",
		policyAnswer:   "Employees receive 21 days of annual leave.",
		policySources:  []string{"employee-handbook.pdf"},
	}
}

// SetTimesheetReply scripts the /chat response text.
func (a *Agent) SetTimesheetReply(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.timesheetReply = text
}

// SetPolicyAnswer scripts the /query response.
func (a *Agent) SetPolicyAnswer(text string, sources ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.policyAnswer = text
	a.policySources = sources
}

// ForceStatus makes every subsequent request answer with the given HTTP
// status. Zero restores normal behavior.
func (a *Agent) ForceStatus(status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.forceStatus = status
}

// SetLatency delays every subsequent response, for timeout tests.
func (a *Agent) SetLatency(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.latency = d
}

// TimesheetRouter serves the timesheet agent contract: POST /chat with
// {"email", "user_prompt"}, plus GET /health.
func (a *Agent) TimesheetRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/chat", a.handleChat).Methods(http.MethodPost)
	r.HandleFunc("/health", a.handleHealth).Methods(http.MethodGet)
	return r
}

// PolicyRouter serves the HR policy contract: POST /query with
// {"question"}, plus GET /health.
func (a *Agent) PolicyRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/query", a.handleQuery).Methods(http.MethodPost)
	r.HandleFunc("/health", a.handleHealth).Methods(http.MethodGet)
	return r
}

func (a *Agent) handleChat(w http.ResponseWriter, r *http.Request) {
	if done := a.intercept(w); done {
		return
	}

	var req struct {
		Email      string `json:"email"`
		UserPrompt string `json:"user_prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.UserPrompt) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "email and user_prompt are required"})
		return
	}

	a.mu.RLock()
	reply := a.timesheetReply
	a.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"response":           reply,
		"conversation_phase": "ready",
		"session_id":         req.Email,
	})
}

func (a *Agent) handleQuery(w http.ResponseWriter, r *http.Request) {
	if done := a.intercept(w); done {
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "question must not be empty"})
		return
	}

	a.mu.RLock()
	answer, sources := a.policyAnswer, a.policySources
	a.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"answer":  answer,
		"sources": sources,
	})
}

func (a *Agent) handleHealth(w http.ResponseWriter, r *http.Request) {
	if done := a.intercept(w); done {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}

// intercept applies scripted latency and forced failures. It reports true
// when the request was already answered.
func (a *Agent) intercept(w http.ResponseWriter) bool {
	a.mu.RLock()
	status, latency := a.forceStatus, a.latency
	a.mu.RUnlock()

	if latency > 0 {
		time.Sleep(latency)
	}
	if status != 0 {
		writeJSON(w, status, map[string]any{"detail": "forced failure"})
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
