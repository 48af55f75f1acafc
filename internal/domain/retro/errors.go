package retro

import "errors"

// Sentinel kinds for retroactive plan errors.
var (
	ErrInvalidTimeSpan = errors.New("invalid time span")
)
