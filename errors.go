package pageant

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed request or an action that fails its
// structural checks before execution.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}

// ParseError reports a command string or LLM response that could not be
// turned into an Action.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse command: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a page or section target that could not be resolved
// against the workspace. The orchestrator surfaces this as a user-facing
// message, never as a returned error from Chat.
type NotFoundError struct {
	// Target is the name the user asked for.
	Target string

	// Scope is "page" or "section".
	Scope string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Scope, e.Target)
}

// APIError reports a failed workspace API call.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("workspace API error (%d %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("workspace API error (%d): %s", e.Status, e.Message)
}

// Transient reports whether the call is worth retrying: rate limits and
// server-side failures, per the workspace API's guidance.
func (e *APIError) Transient() bool {
	return e.Status == 429 || e.Status >= 500
}

// ConfirmationError reports a confirmation-state problem, such as confirming
// when no action is pending.
type ConfirmationError struct {
	Reason string
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("confirmation error: %s", e.Reason)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsTransient reports whether err wraps a transient APIError.
func IsTransient(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Transient()
}
