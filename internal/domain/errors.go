package domain

import "errors"

var (
	// ErrInvalidRequest signals a caller error, fixable by the caller.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrAuth signals a rejected vector store credential (fatal until rotated).
	ErrAuth = errors.New("vector store authentication failed")
	// ErrBadQuery signals a query the vector store could not parse.
	ErrBadQuery = errors.New("vector store rejected query")
	// ErrRateLimited signals a rate limit hit on the vector store.
	ErrRateLimited = errors.New("rate limited by vector store")
	// ErrUnavailable signals a transport failure or vector store outage.
	ErrUnavailable = errors.New("vector store unavailable")
	// ErrMalformedResponse signals a contract violation in the store response.
	ErrMalformedResponse = errors.New("malformed vector store response")
)

// kinds maps sentinel errors to the stable kind tags surfaced to relay callers.
var kinds = []struct {
	err  error
	kind string
}{
	{ErrInvalidRequest, "InvalidRequest"},
	{ErrAuth, "AuthError"},
	{ErrBadQuery, "BadQuery"},
	{ErrRateLimited, "RateLimited"},
	{ErrUnavailable, "Unavailable"},
	{ErrMalformedResponse, "MalformedResponse"},
}

// Kind returns the stable error kind tag for a domain error.
// Unknown errors report as InternalError.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "InternalError"
}
