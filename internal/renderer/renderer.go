package renderer

import (
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// BufferReader is the read-only view of the line buffer the renderer needs.
type BufferReader interface {
	// String returns the line content.
	String() string
	// Cursor returns the edit cursor index.
	Cursor() int
}

// Renderer draws the prompt line to a writer.
// A Renderer is used by the read loop only and is not safe for concurrent use.
type Renderer struct {
	w  io.Writer
	sb strings.Builder
}

// New creates a renderer that writes to w.
func New(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Column returns the 1-based terminal column of the cursor.
func Column(prompt string, cursor int) int {
	return len(prompt) + cursor + 1
}

// Refresh prints the prompt line from column 1 without erasing first.
// Used for the first frame of each line.
func (r *Renderer) Refresh(prompt string, buf BufferReader) error {
	r.sb.Reset()
	r.line(prompt, buf)
	return r.flush()
}

// Redraw erases the current line and prints it again with the cursor placed.
func (r *Renderer) Redraw(prompt string, buf BufferReader) error {
	r.sb.Reset()
	r.sb.WriteString(ansi.EraseEntireLine)
	r.line(prompt, buf)
	return r.flush()
}

// Append writes a single character typed at the end of the line.
func (r *Renderer) Append(ch byte) error {
	r.sb.Reset()
	r.sb.WriteByte(ch)
	return r.flush()
}

// Newline moves the terminal to the start of the next line.
func (r *Renderer) Newline() error {
	r.sb.Reset()
	r.sb.WriteString("\r\n")
	return r.flush()
}

func (r *Renderer) line(prompt string, buf BufferReader) {
	r.sb.WriteByte('\r')
	r.sb.WriteString(prompt)
	r.sb.WriteString(buf.String())
	r.sb.WriteString(ansi.CursorHorizontalAbsolute(Column(prompt, buf.Cursor())))
}

func (r *Renderer) flush() error {
	_, err := io.WriteString(r.w, r.sb.String())
	return err
}
