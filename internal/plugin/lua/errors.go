package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNoPromptFunc is returned when a script defines no prompt function.
	ErrNoPromptFunc = errors.New("script does not define a prompt function")

	// ErrBadReturn is returned when the prompt function does not return a string.
	ErrBadReturn = errors.New("prompt function must return a string")
)
