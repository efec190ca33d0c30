package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrSourceUnavailable = errors.New("remote source unavailable")
	ErrMalformedResponse = errors.New("malformed remote response")
	ErrLockHeld          = errors.New("lock already held")
)
