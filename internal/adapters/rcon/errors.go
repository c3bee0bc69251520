package rcon

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrStatus marks a non-2xx response; transient, safe to retry next tick.
	ErrStatus = errors.New("unexpected status")

	// ErrMalformed marks a response body that does not match the expected
	// schema. The affected batch or cycle must be discarded, never partially
	// processed.
	ErrMalformed = errors.New("malformed response")
)
