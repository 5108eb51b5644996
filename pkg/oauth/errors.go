package oauth

import (
	"errors"
	"fmt"
)

var (
	// ErrScopeNotFound is returned when a scope key is not present in the configuration.
	ErrScopeNotFound = errors.New("oauth: scope not found")

	// ErrUnknownProvider is returned when a provider name has no registered descriptor.
	ErrUnknownProvider = errors.New("oauth: unknown provider")

	// ErrFetchFailed is returned when an HTTP round trip to the provider fails.
	ErrFetchFailed = errors.New("oauth: failed to fetch from provider")

	// ErrRequestFailed is returned when the provider answers with a non-2xx status.
	ErrRequestFailed = errors.New("oauth: request returned non-2xx status")

	// ErrDecodeFailed is returned when the provider response is not a JSON object.
	ErrDecodeFailed = errors.New("oauth: failed to decode response")

	// ErrMissingAccessToken is returned when a token response carries no access_token.
	ErrMissingAccessToken = errors.New("oauth: access token missing from response")
)

// ResponseError describes a non-2xx provider response.
// It is joined with ErrRequestFailed and can be extracted with errors.As.
type ResponseError struct {
	Body       string
	StatusCode int
}

func (e *ResponseError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status=%d", e.StatusCode)
	}
	return fmt.Sprintf("status=%d body=%s", e.StatusCode, e.Body)
}
