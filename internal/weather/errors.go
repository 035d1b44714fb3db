package weather

import "errors"

var (
	// ErrInvalidCoordinates marks out-of-range latitude or longitude,
	// detected before any network I/O.
	ErrInvalidCoordinates = errors.New("latitude or longitude out of range")

	// ErrUpstreamUnavailable marks a transport failure that survived the
	// retry budget: network error, rate limiting, or a 5xx from the provider.
	ErrUpstreamUnavailable = errors.New("forecast provider unavailable")

	// ErrMalformedResponse marks an unexpected provider payload or status.
	ErrMalformedResponse = errors.New("unexpected forecast payload")
)
