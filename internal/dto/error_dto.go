package dto

import "fmt"

// ValidationError is a form-level error; no state transition happened.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// ChatUnavailableError means chat cannot be opened right now (closed hours,
// ineligible plan or member). Informational, never fatal.
type ChatUnavailableError struct {
	Reason string `json:"reason"`
}

func (e *ChatUnavailableError) Error() string {
	return "chat unavailable: " + e.Reason
}

// PlanLockedError rejects a plan switch while a chat session holds the lock.
type PlanLockedError struct{}

func (e *PlanLockedError) Error() string {
	return "plan switching is locked during an active chat session"
}

// UnknownPlanError rejects an operation against a plan id that is not in the
// member's available list.
type UnknownPlanError struct {
	PlanId string `json:"plan_id"`
}

func (e *UnknownPlanError) Error() string {
	return fmt.Sprintf("unknown plan id %q", e.PlanId)
}

// InvalidStateError rejects an operation the current widget state does not
// permit (e.g. sending a message with no active session).
type InvalidStateError struct {
	Operation string `json:"operation"`
	State     string `json:"state"`
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("operation %s not valid in state %s", e.Operation, e.State)
}

// SessionBackendError wraps a failed upstream chat-backend call. Recoverable:
// the controller stays in (or returns to) its nearest safe state.
type SessionBackendError struct {
	Op         string `json:"op"`
	StatusCode int    `json:"status_code,omitempty"`
	Err        error  `json:"-"`
}

func (e *SessionBackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("chat backend %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("chat backend %s failed with status %d", e.Op, e.StatusCode)
}

func (e *SessionBackendError) Unwrap() error { return e.Err }

// MemberContextMissingError means the shell has not loaded the member's
// eligibility snapshot yet.
type MemberContextMissingError struct{}

func (e *MemberContextMissingError) Error() string {
	return "member context not loaded"
}
