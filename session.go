package pageant

// SessionState is the orchestrator's per-session state machine position.
type SessionState string

const (
	// StateIdle means no plan is pending; the next input is parsed fresh.
	StateIdle SessionState = "idle"

	// StateAwaitingConfirmation means a destructive plan is stored and the
	// next input is interpreted as a confirmation or cancellation.
	StateAwaitingConfirmation SessionState = "awaiting_confirmation"

	// StateExecuted means the last turn executed a plan. Behaviorally
	// identical to idle for the next input; kept distinct so callers can
	// tell "just ran something" from "nothing happened yet".
	StateExecuted SessionState = "executed"
)

// Session is the orchestrator's per-session state. One session serves one
// conversation; it is not shared across goroutines and is never persisted.
//
// This is deliberately a typed struct rather than a get/set-by-key map:
// every field a consumer can observe has a name and a type.
type Session struct {
	// State is the current state machine position.
	State SessionState

	// Pending is the destructive plan awaiting confirmation.
	// Non-nil only in StateAwaitingConfirmation.
	Pending []*Action

	// LastInput is the raw input that produced the pending plan, kept for
	// the cancellation reply.
	LastInput string
}

// RequireConfirm reports whether the session is blocked on a confirmation.
func (s *Session) RequireConfirm() bool {
	return s.State == StateAwaitingConfirmation
}

// Reset clears any pending plan and returns the session to idle.
func (s *Session) Reset() {
	s.State = StateIdle
	s.Pending = nil
	s.LastInput = ""
}
