package history

import (
	"io"
	"os"
	"strings"
)

// Terminator ends every entry in the backing log.
const Terminator = "\n"

// Log is the append-only file mirroring the history entries.
type Log struct {
	path string
	file *os.File
}

// OpenLog opens the log at path for reading and appending, creating it if
// needed. Existing content is never truncated.
func OpenLog(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, &PersistError{Op: "open", Path: path, Err: err}
	}
	return &Log{path: path, file: f}, nil
}

// Path returns the file path of the log.
func (l *Log) Path() string {
	return l.path
}

// ReadAll reads every entry in the log.
// Trailing carriage returns are stripped and blank lines are skipped.
func (l *Log) ReadAll() ([]string, error) {
	if l.file == nil {
		return nil, &PersistError{Op: "load", Path: l.path, Err: ErrLogClosed}
	}

	if _, err := l.file.Seek(0, io.SeekStart); err != nil {
		return nil, &PersistError{Op: "load", Path: l.path, Err: err}
	}
	data, err := io.ReadAll(l.file)
	if err != nil {
		return nil, &PersistError{Op: "load", Path: l.path, Err: err}
	}

	return splitEntries(string(data)), nil
}

// Append writes line followed by Terminator and syncs the file to stable
// storage. It returns only after the data is durable.
func (l *Log) Append(line string) error {
	if l.file == nil {
		return &PersistError{Op: "append", Path: l.path, Err: ErrLogClosed}
	}

	if _, err := l.file.WriteString(line + Terminator); err != nil {
		return &PersistError{Op: "append", Path: l.path, Err: err}
	}
	if err := l.file.Sync(); err != nil {
		return &PersistError{Op: "sync", Path: l.path, Err: err}
	}
	return nil
}

// Close releases the file handle. Closing twice is a no-op.
func (l *Log) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func splitEntries(data string) []string {
	lines := strings.Split(data, Terminator)
	entries := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	return entries
}
