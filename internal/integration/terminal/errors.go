package terminal

import "errors"

// Sentinel errors for the terminal package.
var (
	// ErrNotTerminal is returned when the file descriptor is not a terminal.
	ErrNotTerminal = errors.New("not a terminal")

	// ErrAlreadyRestored is returned when Restore is called twice.
	ErrAlreadyRestored = errors.New("terminal state already restored")
)
