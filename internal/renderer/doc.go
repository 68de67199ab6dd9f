// Package renderer keeps the terminal line in step with the line buffer.
//
// The renderer writes to a plain io.Writer (normally stderr, so redirected
// stdout stays clean) using three ANSI sequences: erase entire line (EL 2),
// carriage return, and cursor horizontal absolute (CHA). It never reads the
// terminal back; the visible cursor column is always
//
//	len(prompt) + cursor + 1
//
// Two paths produce a frame:
//
//   - Append is the fast path for a character typed at the end of the line.
//     The terminal cursor already advances by itself, so only the character
//     is written.
//   - Redraw is the slow path for everything else: erase the line, return to
//     column 1, write prompt and content, then place the cursor.
//
// Every frame goes out in a single Write call.
package renderer
