package shared

import "errors"

var (
	// ErrNotFound indicates a referenced loan cycle, loan number, or client does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates a missing identifier, empty batch, or mismatched association.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMaintenance indicates writes are refused while maintenance mode is enabled.
	ErrMaintenance = errors.New("maintenance mode active")
)
