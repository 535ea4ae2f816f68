package utils

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidPage     = errors.New("invalid page parameter")
	ErrInvalidPageSize = errors.New("invalid page size parameter")
	ErrDatabaseError   = errors.New("database error")

	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrOtpPending         = errors.New("otp verification pending")
	ErrInvalidOtp         = errors.New("invalid otp")
	ErrOtpExpired         = errors.New("otp expired")
	ErrAccountNotVerified = errors.New("account not verified")
	ErrMailDelivery       = errors.New("mail delivery failed")

	ErrTripNotFound    = errors.New("trip not found")
	ErrPlaceNotFound   = errors.New("place not found")
	ErrCommentNotFound = errors.New("comment target not found")

	// Recommendation failures. All three are shown to users the same way.
	ErrRemoteCall        = errors.New("remote call failed")
	ErrMalformedResponse = errors.New("malformed response")
	ErrSchemaViolation   = errors.New("schema violation")

	ErrInvalidTransition = errors.New("invalid wizard transition")
	ErrRateLimited       = errors.New("too many requests")
)

// ValidationError carries per-field messages for a rejected input.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message, Fields: map[string]string{}}
}

// Add records a field problem and returns the receiver for chaining.
func (e *ValidationError) Add(field, problem string) *ValidationError {
	e.Fields[field] = problem
	return e
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil returns nil when no field was flagged, so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}

// RecommendationError wraps one of the recommendation sentinels with the provider's message.
type RecommendationError struct {
	Kind error
	Err  error
}

func (e *RecommendationError) Error() string {
	msg := e.Kind.Error()
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return "Gemini API error: " + msg
}

func (e *RecommendationError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
