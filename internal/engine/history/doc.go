// Package history provides the submitted-line history for the line editor.
//
// A Store keeps every non-empty submitted line in order and a navigation
// position that is independent of the edit cursor:
//
//	store := history.New()
//	store.Push("make test")
//	store.Push("git status")
//
//	line, ok := store.Up()   // "git status", true
//	line, ok = store.Up()    // "make test", true
//	line, ok = store.Up()    // "", false (already at the oldest entry)
//	line, ok = store.Down()  // "git status", true
//	line, ok = store.Down()  // "", true (back on the live line)
//
// # Persistence
//
// Open attaches a Log, a plain text file holding one entry per line. The
// whole file is loaded once when the store is opened; every Push appends
// the entry and syncs the file before returning, so a store opened later on
// the same path sees it.
//
// A Store is owned by the read loop and is not safe for concurrent use.
package history
