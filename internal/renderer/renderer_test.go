package renderer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/dshills/keyline/internal/engine/buffer"
)

func TestColumn(t *testing.T) {
	tests := []struct {
		prompt string
		cursor int
		want   int
	}{
		{"", 0, 1},
		{"> ", 0, 3},
		{"> ", 4, 7},
		{"arrows updown > ", 3, 20},
	}

	for _, tt := range tests {
		if got := Column(tt.prompt, tt.cursor); got != tt.want {
			t.Errorf("Column(%q, %d) = %d, want %d", tt.prompt, tt.cursor, got, tt.want)
		}
	}
}

func TestRefresh(t *testing.T) {
	var out bytes.Buffer
	r := New(&out)

	if err := r.Refresh("> ", buffer.New()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	want := "\r> " + ansi.CursorHorizontalAbsolute(3)
	if out.String() != want {
		t.Errorf("Refresh wrote %q, want %q", out.String(), want)
	}
}

func TestRedraw(t *testing.T) {
	var out bytes.Buffer
	r := New(&out)

	buf := buffer.NewFromString("ls -la")
	buf.MoveLeft()
	buf.MoveLeft()

	if err := r.Redraw("$ ", buf); err != nil {
		t.Fatalf("Redraw() error = %v", err)
	}

	want := ansi.EraseEntireLine + "\r$ ls -la" + ansi.CursorHorizontalAbsolute(7)
	if out.String() != want {
		t.Errorf("Redraw wrote %q, want %q", out.String(), want)
	}
}

func TestAppend(t *testing.T) {
	var out bytes.Buffer
	r := New(&out)

	for _, ch := range []byte("hi") {
		if err := r.Append(ch); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	if out.String() != "hi" {
		t.Errorf("Append wrote %q, want %q", out.String(), "hi")
	}
}

func TestNewline(t *testing.T) {
	var out bytes.Buffer
	if err := New(&out).Newline(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "\r\n" {
		t.Errorf("Newline wrote %q", out.String())
	}
}

type countingWriter struct {
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return len(p), nil
}

func TestFrameIsSingleWrite(t *testing.T) {
	w := &countingWriter{}
	r := New(w)

	_ = r.Redraw("prompt> ", buffer.NewFromString("some content"))
	_ = r.Refresh("prompt> ", buffer.New())

	if w.writes != 2 {
		t.Errorf("two frames took %d writes, want 2", w.writes)
	}
}

type errWriter struct{ err error }

func (w errWriter) Write([]byte) (int, error) { return 0, w.err }

func TestWriteError(t *testing.T) {
	boom := errors.New("closed")
	r := New(errWriter{boom})

	if err := r.Append('x'); !errors.Is(err, boom) {
		t.Errorf("Append() error = %v, want %v", err, boom)
	}
	if err := r.Redraw("", buffer.New()); !errors.Is(err, boom) {
		t.Errorf("Redraw() error = %v, want %v", err, boom)
	}
}
