// Package domain defines the core domain models for the Plume client.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a client domain error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "PL-AUTH-4010")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support. Two DomainErrors match when their
// codes match, regardless of details or cause.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// UserMessage extracts the message a view should display for an error.
// For DomainErrors the details (server-provided message) win over the
// generic message; for anything else the raw error text is returned.
func UserMessage(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		if de.Details != "" {
			return de.Details
		}
		return de.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// ============================================================================
// Authentication Errors (AUTH)
// ============================================================================

var (
	// ErrAuthentication indicates the server rejected a login or
	// registration attempt. Details carry the server-provided message
	// when one was available.
	ErrAuthentication = NewDomainError("PL-AUTH-4010", "authentication failed")

	// ErrSessionExpired indicates the stored credential no longer
	// identifies a user. It is recovered locally by clearing the session
	// and is never shown to the user as an error.
	ErrSessionExpired = NewDomainError("PL-AUTH-4011", "session expired")

	// ErrForbidden indicates the current user lacks the role required
	// for an admin operation.
	ErrForbidden = NewDomainError("PL-AUTH-4030", "forbidden")

	// ErrTooManyAttempts indicates the client-side attempt limiter
	// refused a login or registration call.
	ErrTooManyAttempts = NewDomainError("PL-AUTH-4290", "too many attempts, slow down")

	// ErrSuperseded indicates an operation completed after a newer
	// attempt had already started, so its result was discarded.
	ErrSuperseded = NewDomainError("PL-AUTH-4090", "superseded by a newer attempt")
)

// ============================================================================
// Validation Errors (VALD)
// ============================================================================

var (
	// ErrValidation indicates client-side input validation failed before
	// any network call was made.
	ErrValidation = NewDomainError("PL-VALD-4000", "validation failed")
)

// ============================================================================
// Transport Errors (NET)
// ============================================================================

var (
	// ErrTransport indicates the remote API could not be reached or did
	// not produce a decodable response.
	ErrTransport = NewDomainError("PL-NET-5000", "remote api unreachable")

	// ErrRemote indicates the remote API answered with an error that is
	// neither an authentication rejection nor a transport failure.
	ErrRemote = NewDomainError("PL-NET-5001", "remote api error")
)
