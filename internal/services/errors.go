package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/marquee/internal/shared"
)

// FetchError is returned for any failed catalog request: transport, non-success status, or bad body.
type FetchError struct {
	Endpoint   string // Path requested, without credentials
	StatusCode int    // Zero when the request never got a response
	Message    string // TMDB status_message, when the body carried one
	Err        error  // Underlying transport or decode error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s %s: status %d: %s", shared.ErrAPIRequest, e.Endpoint, e.StatusCode, e.Message)
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s %s: status %d: %v", shared.ErrAPIRequest, e.Endpoint, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: status %d", shared.ErrAPIRequest, e.Endpoint, e.StatusCode)
	default:
		return fmt.Sprintf("%s %s: %v", shared.ErrAPIRequest, e.Endpoint, e.Err)
	}
}

// Unwrap exposes both [shared.ErrAPIRequest] and the underlying error to [errors.Is] and [errors.As].
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{shared.ErrAPIRequest}
	}
	return []error{shared.ErrAPIRequest, e.Err}
}

// IsUnauthorized checks if the error indicates a rejected credential
func (e *FetchError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsNotFound checks if the error indicates a not found response
func (e *FetchError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Transient reports whether the failure might succeed later (transport errors, rate limiting, server errors).
func (e *FetchError) Transient() bool {
	return e.StatusCode == 0 || e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Hint suggests a configuration fix for err, or returns "" when there is nothing to suggest.
func Hint(err error) string {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return ""
	}
	switch {
	case fe.IsUnauthorized():
		return fmt.Sprintf("check credentials.tmdb.api_key or credentials.tmdb.access_token (or set %s)", shared.EnvTMDBAPIKey)
	case fe.IsNotFound():
		return "check credentials.tmdb.base_url"
	default:
		return ""
	}
}

// Retryable reports whether repeating the request could change the outcome.
// Errors that did not come from the catalog are assumed retryable.
func Retryable(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Transient()
	}
	return err != nil
}
