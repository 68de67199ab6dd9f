package engine

import (
	"errors"
	"io"
	"sync"

	"github.com/dshills/keyline/internal/engine/buffer"
	"github.com/dshills/keyline/internal/engine/history"
	"github.com/dshills/keyline/internal/input/key"
	"github.com/dshills/keyline/internal/renderer"
)

// Engine is the read loop of an interactive line editor.
type Engine struct {
	promptMu sync.RWMutex
	prompt   string

	// runMu is held for the duration of Run. Everything below it is only
	// touched while it is held.
	runMu       sync.Mutex
	in          io.ByteReader
	decoder     *key.Decoder
	buf         *buffer.Buffer
	history     *history.Store
	render      *renderer.Renderer
	logger      Logger
	historyPath string
	ownsHistory bool
	closed      bool
}

// New creates an engine reading key bytes from r and drawing to w.
//
// When WithHistoryFile is given, the history file is opened and loaded
// here; failures are returned as *history.PersistError.
func New(r io.Reader, w io.Writer, prompt string, opts ...Option) (*Engine, error) {
	e := &Engine{
		prompt:  prompt,
		in:      newByteReader(r),
		decoder: key.NewDecoder(),
		buf:     buffer.New(),
		render:  renderer.New(w),
		logger:  nopLogger{},
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.history == nil {
		if e.historyPath != "" {
			store, err := history.Open(e.historyPath)
			if err != nil {
				return nil, err
			}
			e.history = store
			e.ownsHistory = true
			e.logger.Debug("loaded %d history entries from %s", store.Len(), e.historyPath)
		} else {
			e.history = history.New()
		}
	}

	return e, nil
}

// Prompt returns the current prompt.
func (e *Engine) Prompt() string {
	e.promptMu.RLock()
	defer e.promptMu.RUnlock()
	return e.prompt
}

// SetPrompt replaces the prompt. Safe to call while Run is blocked.
func (e *Engine) SetPrompt(prompt string) {
	e.promptMu.Lock()
	defer e.promptMu.Unlock()
	e.prompt = prompt
}

// History returns the history store.
// It must not be mutated while Run is in flight.
func (e *Engine) History() *history.Store {
	return e.history
}

// Run reads keys until a line is submitted or Ctrl-C is pressed.
//
// On Enter it returns an EventLine; if the newline could not be written or
// the history entry could not be persisted, that error is returned together
// with the event so the line is never lost. On Ctrl-C it returns an
// EventInterrupt and keeps the partially typed line for the next call.
// Input failures are returned as *ReadError carrying the unsubmitted line.
func (e *Engine) Run() (Event, error) {
	if !e.runMu.TryLock() {
		return Event{}, ErrBusy
	}
	defer e.runMu.Unlock()

	if e.closed {
		return Event{}, ErrClosed
	}

	if err := e.render.Refresh(e.Prompt(), e.buf); err != nil {
		return Event{}, writeErr(err)
	}

	for {
		ev, err := e.decoder.Read(e.in)
		if err != nil {
			return Event{}, &ReadError{Err: err, Pending: e.buf.String()}
		}

		switch ev.Key {
		case key.KeyInterrupt:
			e.logger.Debug("interrupt")
			return InterruptEvent(), nil
		case key.KeyEnter:
			return e.submit()
		case key.KeyChar:
			err = e.insert(ev.Char)
		default:
			if e.apply(ev.Key) {
				err = e.render.Redraw(e.Prompt(), e.buf)
			}
		}
		if err != nil {
			return Event{}, writeErr(err)
		}
	}
}

// Close releases the history file if the engine opened it.
// It returns ErrBusy while Run is in flight.
func (e *Engine) Close() error {
	if !e.runMu.TryLock() {
		return ErrBusy
	}
	defer e.runMu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	if e.ownsHistory {
		return e.history.Close()
	}
	return nil
}

// apply performs a non-character edit and reports whether the line changed.
func (e *Engine) apply(k key.Key) bool {
	switch k {
	case key.KeyBackspace:
		return e.buf.DeleteLeft()
	case key.KeyDelete:
		return e.buf.DeleteRight()
	case key.KeyLeft:
		return e.buf.MoveLeft()
	case key.KeyRight:
		return e.buf.MoveRight()
	case key.KeyUp:
		return e.recall(e.history.Up())
	case key.KeyDown:
		return e.recall(e.history.Down())
	default:
		return false
	}
}

func (e *Engine) recall(line string, ok bool) bool {
	if !ok {
		return false
	}
	e.buf.Replace(line)
	return true
}

func (e *Engine) insert(ch byte) error {
	e.buf.Insert(ch)
	if e.buf.AtEnd() {
		return e.render.Append(ch)
	}
	return e.render.Redraw(e.Prompt(), e.buf)
}

func (e *Engine) submit() (Event, error) {
	line := e.buf.TakeAndClear()
	werr := writeErr(e.render.Newline())

	perr := e.history.Push(line)
	if perr != nil {
		e.logger.Warn("history push failed: %v", perr)
	}

	return LineEvent(line), errors.Join(werr, perr)
}

// byteReader adapts an io.Reader to io.ByteReader without reading ahead,
// so no input is consumed beyond the bytes the decoder asks for.
type byteReader struct {
	r   io.Reader
	buf [1]byte
}

func newByteReader(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return &byteReader{r: r}
}

func (b *byteReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(b.r, b.buf[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = io.EOF
		}
		return 0, err
	}
	return b.buf[0], nil
}
