// Package buffer provides the line buffer edited by the read loop: the
// characters of the line being typed plus an edit cursor.
//
// The cursor is an index into the content and always satisfies
// 0 <= cursor <= Len(). Every operation keeps that invariant; movements and
// deletions that would cross a boundary are no-ops and report false so the
// caller can skip a redraw.
//
// Basic usage:
//
//	buf := buffer.New()
//	buf.Insert('l')
//	buf.Insert('s')
//	buf.MoveLeft()      // cursor 1
//	buf.DeleteRight()   // "l", cursor 1
//	line := buf.TakeAndClear()
//
// Characters are single bytes. A Buffer is owned by one goroutine and is not
// safe for concurrent use.
package buffer
