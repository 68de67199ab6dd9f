package terminal

import (
	"fmt"
	"sync"

	"golang.org/x/term"
)

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// State holds the terminal settings saved by EnableRawMode.
type State struct {
	mu       sync.Mutex
	fd       int
	saved    *term.State
	restored bool
}

// EnableRawMode puts the terminal on fd into raw mode.
func EnableRawMode(fd int) (*State, error) {
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}

	saved, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("enable raw mode: %w", err)
	}
	return &State{fd: fd, saved: saved}, nil
}

// Fd returns the file descriptor the state belongs to.
func (s *State) Fd() int {
	return s.fd
}

// Restore puts the terminal back into the mode it had before
// EnableRawMode. Safe to call on a nil State.
func (s *State) Restore() error {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.restored {
		return ErrAlreadyRestored
	}
	if err := term.Restore(s.fd, s.saved); err != nil {
		return fmt.Errorf("disable raw mode: %w", err)
	}
	s.restored = true
	return nil
}
