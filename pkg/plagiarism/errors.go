package plagiarism

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationUnavailable means the credential exchange failed or
	// returned no token. Checks recover from it with the fallback scorer.
	ErrAuthenticationUnavailable = errors.New("authentication unavailable")
	// ErrSubmissionFailed covers transport errors and non-2xx responses
	// when submitting a scan.
	ErrSubmissionFailed = errors.New("submission failed")
	// ErrPollingFailed covers transport, decode and upstream scan errors
	// while waiting for a scan.
	ErrPollingFailed = errors.New("polling failed")
	// ErrResultRetrievalFailed covers transport and decode errors while
	// fetching the final result.
	ErrResultRetrievalFailed = errors.New("result retrieval failed")
)

// APIError is a non-2xx response from the scoring API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// phaseError wraps cause under one of the taxonomy sentinels while keeping
// the upstream message readable for the author.
type phaseError struct {
	kind  error
	cause error
}

func (e *phaseError) Error() string {
	var apiErr *APIError
	if errors.As(e.cause, &apiErr) {
		return fmt.Sprintf("%s: %s", e.kind, apiErr.Message)
	}
	return fmt.Sprintf("%s: %v", e.kind, e.cause)
}

func (e *phaseError) Is(target error) bool {
	return target == e.kind
}

func (e *phaseError) Unwrap() error {
	return e.cause
}

func wrapPhase(kind, cause error) error {
	return &phaseError{kind: kind, cause: cause}
}
