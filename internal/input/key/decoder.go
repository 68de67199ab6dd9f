package key

import (
	"errors"
	"io"
)

// State is the position of the decoder inside an escape sequence.
type State uint8

const (
	// StateIdle expects the first byte of a new key.
	StateIdle State = iota
	// StateEscStart has seen ESC and expects the introducer byte.
	StateEscStart
	// StateEscFinal expects the byte that selects the key.
	StateEscFinal
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateEscStart:
		return "EscStart"
	case StateEscFinal:
		return "EscFinal"
	default:
		return "Unknown"
	}
}

// Decoder turns a byte stream into key events.
// A Decoder is not safe for concurrent use.
type Decoder struct {
	state State
}

// NewDecoder creates a decoder in the idle state.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// State returns the current decoder state.
func (d *Decoder) State() State {
	return d.state
}

// Pending returns true while an escape sequence is incomplete.
func (d *Decoder) Pending() bool {
	return d.state != StateIdle
}

// Reset discards any partially decoded escape sequence.
func (d *Decoder) Reset() {
	d.state = StateIdle
}

// Feed advances the decoder by one byte.
// It returns ok=false while the byte only moved the decoder through an
// escape sequence; otherwise it returns the completed event.
func (d *Decoder) Feed(b byte) (ev Event, ok bool) {
	switch d.state {
	case StateEscStart:
		d.state = StateEscFinal
		return Event{}, false
	case StateEscFinal:
		d.state = StateIdle
		return NewSpecialEvent(arrowFor(b)), true
	}

	switch b {
	case ByteInterrupt:
		return NewSpecialEvent(KeyInterrupt), true
	case ByteEnter:
		return NewSpecialEvent(KeyEnter), true
	case ByteBackspace:
		return NewSpecialEvent(KeyBackspace), true
	case ByteDelete:
		return NewSpecialEvent(KeyDelete), true
	case ByteEscape:
		d.state = StateEscStart
		return Event{}, false
	default:
		return NewCharEvent(b), true
	}
}

// Read pulls bytes from r until one complete event is decoded.
//
// If r is exhausted before the first byte, Read returns io.EOF. If it is
// exhausted inside an escape sequence, Read returns io.ErrUnexpectedEOF and
// the decoder is reset; a truncated sequence never yields an event.
func (d *Decoder) Read(r io.ByteReader) (Event, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			if d.Pending() {
				d.Reset()
				if errors.Is(err, io.EOF) {
					return Event{}, io.ErrUnexpectedEOF
				}
			}
			return Event{}, err
		}

		if ev, ok := d.Feed(b); ok {
			return ev, nil
		}
	}
}

// Decode decodes a complete byte slice into events.
// A trailing incomplete escape sequence is reported as io.ErrUnexpectedEOF
// along with the events decoded before it.
func Decode(input []byte) ([]Event, error) {
	var d Decoder
	events := make([]Event, 0, len(input))
	for _, b := range input {
		if ev, ok := d.Feed(b); ok {
			events = append(events, ev)
		}
	}
	if d.Pending() {
		return events, io.ErrUnexpectedEOF
	}
	return events, nil
}
