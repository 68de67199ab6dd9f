// Package engine provides the interactive line-editing engine for keyline.
//
// The engine turns a raw byte stream from a terminal into submitted lines.
// It combines the key decoder, the line buffer, the history store and the
// renderer behind a small API.
//
// # Architecture
//
// The engine is built on several packages:
//
//   - input/key: byte-level key decoding (Idle → EscStart → EscFinal)
//   - engine/buffer: the line being edited and its cursor
//   - engine/history: submitted lines, navigation, and the backing log
//   - renderer: terminal output for the prompt line
//
// # Basic Usage
//
//	e, err := engine.New(os.Stdin, os.Stderr, "> ",
//	    engine.WithHistoryFile("/home/me/.keyline_history"))
//	if err != nil {
//	    return err
//	}
//	defer e.Close()
//
//	for {
//	    ev, err := e.Run()
//	    if err != nil {
//	        return err
//	    }
//	    if ev.IsInterrupt() {
//	        return nil
//	    }
//	    fmt.Println(ev.Line)
//	}
//
// # Concurrency
//
// Run is the only mutator of the buffer, history and reader, and only one
// Run may be in flight at a time. The prompt sits behind its own
// read-write mutex that is never held across a read, so Prompt and
// SetPrompt may be called from other goroutines while Run is blocked
// waiting for input. A new prompt shows on the next frame Run draws.
package engine
