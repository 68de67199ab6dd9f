package engine

import (
	"errors"
	"fmt"
)

// Errors returned by engine operations.
var (
	// ErrBusy indicates another Run call is already in flight.
	ErrBusy = errors.New("engine busy: run already in progress")

	// ErrClosed indicates the engine was closed.
	ErrClosed = errors.New("engine closed")

	// ErrRead matches every *ReadError.
	ErrRead = errors.New("input read failed")

	// ErrWrite matches every *WriteError.
	ErrWrite = errors.New("output write failed")
)

// ReadError reports a failure of the input byte source, including the
// stream ending in the middle of an escape sequence.
type ReadError struct {
	Err error

	// Pending is the line being edited when input failed. It was never
	// submitted.
	Pending string
}

func (e *ReadError) Error() string {
	if e.Pending != "" {
		return fmt.Sprintf("read input: %v (unsubmitted line %q)", e.Err, e.Pending)
	}
	return fmt.Sprintf("read input: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Is matches ErrRead.
func (e *ReadError) Is(target error) bool {
	return target == ErrRead
}

// WriteError reports a failure to write a frame to the output.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("render output: %v", e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Is matches ErrWrite.
func (e *WriteError) Is(target error) bool {
	return target == ErrWrite
}

func writeErr(err error) error {
	if err == nil {
		return nil
	}
	return &WriteError{Err: err}
}
