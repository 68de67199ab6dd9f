// Package key decodes raw terminal input bytes into logical key events.
//
// The decoder understands the small, fixed vocabulary of a single-line
// editor:
//
//   - Char: any byte without a special meaning, inserted verbatim
//   - Interrupt: Ctrl-C (0x03)
//   - Enter: carriage return (0x0D)
//   - Backspace: DEL (0x7F)
//   - Delete: '~' (0x7E)
//   - Up, Down, Right, Left: ESC followed by two bytes, the second of
//     which is 'A', 'B', 'C' or 'D'
//   - Unrecognized: an escape sequence with any other final byte
//
// # Escape Sequences
//
// Decoding is an explicit three-state machine:
//
//	Idle --ESC--> EscStart --any--> EscFinal --any--> Idle
//
// The byte read in EscStart is consumed without being interpreted, so both
// "ESC [ A" and "ESC 0x01 A" decode as Up. Feed drives the machine one byte
// at a time without I/O; Read pulls bytes from an io.ByteReader until a
// complete event is available.
package key
