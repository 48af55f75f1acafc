package alcomath

import "errors"

// Sentinel kinds for biometric profile errors.
var (
	ErrInvalidProfile = errors.New("invalid biometric profile")
)
