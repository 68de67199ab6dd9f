package key

import "fmt"

// Event is a single decoded key press.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Char is the input byte for KeyChar events.
	Char byte
}

// NewCharEvent creates an event for a character byte.
func NewCharEvent(b byte) Event {
	return Event{Key: KeyChar, Char: b}
}

// NewSpecialEvent creates an event for a non-character key.
func NewSpecialEvent(k Key) Event {
	return Event{Key: k}
}

// IsChar returns true if this is a character event.
func (e Event) IsChar() bool {
	return e.Key == KeyChar
}

// String returns a canonical string representation.
func (e Event) String() string {
	if e.Key == KeyChar {
		return fmt.Sprintf("Char(%q)", e.Char)
	}
	return e.Key.String()
}
