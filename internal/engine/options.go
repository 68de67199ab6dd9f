package engine

import (
	"github.com/dshills/keyline/internal/engine/history"
)

// Logger is the logging surface the engine uses.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// Option configures an Engine during creation.
type Option func(*Engine)

// WithHistoryFile backs the history with the log file at path.
// The file is opened and loaded by New and closed by Close.
func WithHistoryFile(path string) Option {
	return func(e *Engine) {
		e.historyPath = path
	}
}

// WithHistory uses an existing history store.
// The caller keeps ownership; Close does not close it.
func WithHistory(store *history.Store) Option {
	return func(e *Engine) {
		if store != nil {
			e.history = store
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
