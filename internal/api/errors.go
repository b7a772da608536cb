package api

import "fmt"

// AuthError indicates the service rejected the access code. Recovered
// locally: the login view stays up with a message.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("authentication failed: %s", e.Message)
	}
	return fmt.Sprintf("authentication failed (status %d)", e.StatusCode)
}

// FetchError indicates question retrieval failed after a successful
// authentication. Same remediation as AuthError: retry from login.
type FetchError struct {
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("question fetch failed: %v", e.Err)
	}
	return fmt.Sprintf("question fetch failed (status %d)", e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SubmitError indicates the server rejected a submission or the
// transport failed mid-submit. Message carries the server's optional
// human-readable error text when present.
type SubmitError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *SubmitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("submission rejected: %s", e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("submission failed: %v", e.Err)
	}
	return fmt.Sprintf("submission failed (status %d)", e.StatusCode)
}

func (e *SubmitError) Unwrap() error { return e.Err }
