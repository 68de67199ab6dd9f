package app

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAlreadyRunning is returned by Run while another Run is reading lines.
var ErrAlreadyRunning = errors.New("session already running")

// OperationError reports a session setup or output step that failed.
//
// Part names the piece of the session involved ("history", "prompt script",
// "config"), Op the step ("open", "load", "validate", "enable", "write") and
// Target what the step acted on: a file path, a setting path, or "line".
type OperationError struct {
	Part   string
	Op     string
	Target string
	Err    error
}

// NewOperationError creates an OperationError with no part.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

// In sets the part of the session the error belongs to.
func (e *OperationError) In(part string) *OperationError {
	e.Part = part
	return e
}

// Error formats as "part: op target: err", leaving out empty pieces.
func (e *OperationError) Error() string {
	var sb strings.Builder
	if e.Part != "" {
		sb.WriteString(e.Part)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Op)
	if e.Target != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Target)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// CloseError reports a session resource that failed to release.
type CloseError struct {
	Resource string // "watcher", "engine", "script", "terminal" or "logger"
	Err      error
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("close %s: %v", e.Resource, e.Err)
}

func (e *CloseError) Unwrap() error {
	return e.Err
}

// ErrorList gathers the errors of a shutdown that keeps going after a
// failure. It is not safe for concurrent use.
type ErrorList struct {
	errs []error
}

// NewErrorList creates an empty ErrorList.
func NewErrorList() *ErrorList {
	return &ErrorList{}
}

// Add records err. Nil is ignored.
func (l *ErrorList) Add(err error) {
	if err != nil {
		l.errs = append(l.errs, err)
	}
}

// Errors returns a copy of the recorded errors.
func (l *ErrorList) Errors() []error {
	if len(l.errs) == 0 {
		return nil
	}
	out := make([]error, len(l.errs))
	copy(out, l.errs)
	return out
}

// Error describes the first failure and how many there were.
func (l *ErrorList) Error() string {
	switch len(l.errs) {
	case 0:
		return ""
	case 1:
		return l.errs[0].Error()
	default:
		return fmt.Sprintf("%v (and %d more)", l.errs[0], len(l.errs)-1)
	}
}

// AsError returns nil when nothing was recorded.
func (l *ErrorList) AsError() error {
	if len(l.errs) == 0 {
		return nil
	}
	return l
}

// Unwrap lets errors.Is and errors.As search every recorded error.
func (l *ErrorList) Unwrap() []error {
	return l.Errors()
}
