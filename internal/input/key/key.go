package key

import "fmt"

// Key identifies a logical key produced by the decoder.
// For character input, use KeyChar and read the byte from Event.Char.
type Key uint8

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// KeyChar is an ordinary character byte.
	KeyChar

	// KeyInterrupt is Ctrl-C.
	KeyInterrupt
	KeyEnter
	KeyBackspace
	KeyDelete

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// KeyUnrecognized is an escape sequence the decoder does not map.
	KeyUnrecognized
)

// Raw input bytes with a fixed meaning.
const (
	ByteInterrupt byte = 3
	ByteEnter     byte = 13
	ByteEscape    byte = 27
	ByteDelete    byte = 126
	ByteBackspace byte = 127
)

// Final bytes of the arrow-key escape sequences.
const (
	FinalUp    byte = 'A'
	FinalDown  byte = 'B'
	FinalRight byte = 'C'
	FinalLeft  byte = 'D'
)

// String returns a human-readable name for the key.
func (k Key) String() string {
	switch k {
	case KeyNone:
		return "None"
	case KeyChar:
		return "Char"
	case KeyInterrupt:
		return "Interrupt"
	case KeyEnter:
		return "Enter"
	case KeyBackspace:
		return "Backspace"
	case KeyDelete:
		return "Delete"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyUnrecognized:
		return "Unrecognized"
	default:
		return fmt.Sprintf("Key(%d)", k)
	}
}

// IsArrowKey returns true if this is an arrow key.
func (k Key) IsArrowKey() bool {
	return k >= KeyUp && k <= KeyRight
}

// arrowFor maps the final byte of an escape sequence to an arrow key.
func arrowFor(b byte) Key {
	switch b {
	case FinalUp:
		return KeyUp
	case FinalDown:
		return KeyDown
	case FinalRight:
		return KeyRight
	case FinalLeft:
		return KeyLeft
	default:
		return KeyUnrecognized
	}
}
