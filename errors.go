package thirdparty

import "errors"

var (
	// ErrNoProviders is returned by New when no provider is configured.
	ErrNoProviders = errors.New("thirdparty: no providers configured")

	// ErrProviderNotFound is returned for a provider name that is not configured.
	ErrProviderNotFound = errors.New("thirdparty: provider not found")

	// ErrStateMismatch is returned when the callback state is missing, unknown,
	// expired, already used or issued for another provider.
	ErrStateMismatch = errors.New("thirdparty: state mismatch")

	// ErrAuthorizationDenied is returned when the provider redirected back with an error.
	ErrAuthorizationDenied = errors.New("thirdparty: authorization denied")

	// ErrMissingCode is returned when the callback carries no authorization code.
	ErrMissingCode = errors.New("thirdparty: missing authorization code")

	// ErrProviderFailed is returned when the token exchange or the user fetch fails.
	ErrProviderFailed = errors.New("thirdparty: provider request failed")
)
