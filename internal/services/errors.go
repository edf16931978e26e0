package services

import "errors"

// ErrValidation is returned when a request fails boundary validation.
// Handlers map it to 400.
var ErrValidation = errors.New("validation failed")
