package history

import (
	"errors"
	"fmt"
)

// Errors returned by history operations.
var (
	// ErrLogClosed indicates the backing log was already closed.
	ErrLogClosed = errors.New("history log closed")
)

// PersistError reports a failure to open, read or write the backing log.
type PersistError struct {
	Op   string // "open", "load", "append" or "sync"
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("history %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
