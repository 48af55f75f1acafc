package repository

import "errors"

// Sentinel kinds for event store errors.
var (
	ErrNoEvents = errors.New("no events for user")
)
