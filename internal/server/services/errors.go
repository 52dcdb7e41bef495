package services

import "errors"

// ErrInvalidInput marks requests rejected before touching storage.
var ErrInvalidInput = errors.New("invalid input")
