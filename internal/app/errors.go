package service

import "errors"

// Sentinel kinds for service-level errors.
var (
	ErrUnknownUser         = errors.New("unknown user")
	ErrUnknownGroup        = errors.New("unknown group")
	ErrUnknownPreset       = errors.New("unknown drink preset")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
