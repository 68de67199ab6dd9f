package engine

import "fmt"

// EventKind identifies what ended a Run call.
type EventKind uint8

const (
	// EventNone is the zero value; Run never returns it without an error.
	EventNone EventKind = iota
	// EventLine is a submitted line.
	EventLine
	// EventInterrupt is Ctrl-C.
	EventInterrupt
)

// String returns the kind name.
func (k EventKind) String() string {
	switch k {
	case EventLine:
		return "line"
	case EventInterrupt:
		return "interrupt"
	default:
		return "none"
	}
}

// Event is the result of one Run call.
type Event struct {
	Kind EventKind

	// Line is the submitted text for EventLine. It may be empty.
	Line string
}

// LineEvent creates an event for a submitted line.
func LineEvent(line string) Event {
	return Event{Kind: EventLine, Line: line}
}

// InterruptEvent creates an interrupt event.
func InterruptEvent() Event {
	return Event{Kind: EventInterrupt}
}

// IsLine returns true for a submitted line.
func (e Event) IsLine() bool {
	return e.Kind == EventLine
}

// IsInterrupt returns true for Ctrl-C.
func (e Event) IsInterrupt() bool {
	return e.Kind == EventInterrupt
}

func (e Event) String() string {
	if e.Kind == EventLine {
		return fmt.Sprintf("line(%q)", e.Line)
	}
	return e.Kind.String()
}
