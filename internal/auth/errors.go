package auth

import "errors"

var (
	// ErrForbidden is the single outward signal for every authentication
	// failure: bad credentials, missing, garbled, unknown or expired keys.
	// The individual causes are distinguished in logs only, never in the
	// response, so callers cannot probe which part was wrong.
	ErrForbidden = errors.New("auth: forbidden")

	ErrNotFound = errors.New("auth: not found")
)
