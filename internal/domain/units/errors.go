package units

import "errors"

// Sentinel kinds for drink specification errors.
var (
	ErrInvalidDrinkSpec = errors.New("invalid drink specification")
)
