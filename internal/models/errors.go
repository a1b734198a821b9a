package models

import "errors"

// Sentinel errors the service layer returns; handlers map these to the
// precise REST status codes spec.md section 6 requires.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid state transition")
	ErrValidation         = errors.New("validation failed")
	ErrTargetMissing      = errors.New("target missing")
)
