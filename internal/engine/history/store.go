package history

// Store is the ordered log of submitted lines plus a navigation position.
//
// The position ranges over [0, Len()]; Len() means the live line that has
// not been submitted yet.
type Store struct {
	entries []string
	pos     int
	log     *Log
}

// New creates an in-memory store with no backing log.
func New() *Store {
	return &Store{}
}

// Open creates a store backed by the log file at path and loads it.
func Open(path string) (*Store, error) {
	l, err := OpenLog(path)
	if err != nil {
		return nil, err
	}

	s := &Store{log: l}
	if err := s.Load(); err != nil {
		_ = l.Close()
		return nil, err
	}
	return s, nil
}

// Load replaces the in-memory entries with the backing log content and
// resets navigation to the live line. Without a log it only resets
// navigation.
func (s *Store) Load() error {
	if s.log != nil {
		entries, err := s.log.ReadAll()
		if err != nil {
			return err
		}
		s.entries = entries
	}
	s.Reset()
	return nil
}

// Push records line and resets navigation. Empty lines are ignored.
//
// With a backing log, the entry is appended and synced before Push returns.
// If that fails the entry is still kept in memory and the error is returned.
func (s *Store) Push(line string) error {
	defer s.Reset()

	if line == "" {
		return nil
	}

	s.entries = append(s.entries, line)
	if s.log != nil {
		return s.log.Append(line)
	}
	return nil
}

// Up moves navigation one entry back and returns that entry.
// Returns false if navigation is already at the oldest entry.
func (s *Store) Up() (string, bool) {
	if s.pos == 0 {
		return "", false
	}
	s.pos--
	return s.entries[s.pos], true
}

// Down moves navigation one entry forward and returns that entry, or the
// empty string once it reaches the live line.
// Returns false if navigation is already on the live line.
func (s *Store) Down() (string, bool) {
	if s.pos >= len(s.entries) {
		return "", false
	}
	s.pos++
	if s.pos < len(s.entries) {
		return s.entries[s.pos], true
	}
	return "", true
}

// Reset moves navigation to the live line.
func (s *Store) Reset() {
	s.pos = len(s.entries)
}

// Position returns the navigation position.
func (s *Store) Position() int {
	return s.pos
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entries returns a copy of all entries, oldest first.
func (s *Store) Entries() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

// Persistent returns true if the store has a backing log.
func (s *Store) Persistent() bool {
	return s.log != nil
}

// Path returns the backing log path, or "" for an in-memory store.
func (s *Store) Path() string {
	if s.log == nil {
		return ""
	}
	return s.log.Path()
}

// Close releases the backing log.
func (s *Store) Close() error {
	if s.log == nil {
		return nil
	}
	return s.log.Close()
}
