package buffer

// Buffer holds the text currently being edited and its cursor.
type Buffer struct {
	content []byte
	cursor  int
}

// New creates an empty buffer with the cursor at 0.
func New() *Buffer {
	return &Buffer{}
}

// NewFromString creates a buffer holding text with the cursor at the end.
func NewFromString(text string) *Buffer {
	b := &Buffer{}
	b.Replace(text)
	return b
}

// String returns the buffer content.
func (b *Buffer) String() string {
	return string(b.content)
}

// Bytes returns a copy of the buffer content.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, len(b.content))
	copy(out, b.content)
	return out
}

// Len returns the number of characters in the buffer.
func (b *Buffer) Len() int {
	return len(b.content)
}

// IsEmpty returns true if the buffer holds no characters.
func (b *Buffer) IsEmpty() bool {
	return len(b.content) == 0
}

// Cursor returns the edit cursor index.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// AtEnd returns true if the cursor sits after the last character.
func (b *Buffer) AtEnd() bool {
	return b.cursor == len(b.content)
}

// Insert inserts ch at the cursor and advances the cursor past it.
func (b *Buffer) Insert(ch byte) {
	b.content = append(b.content, 0)
	copy(b.content[b.cursor+1:], b.content[b.cursor:])
	b.content[b.cursor] = ch
	b.cursor++
}

// DeleteLeft removes the character before the cursor (Backspace).
// Returns false if the cursor is at the start.
func (b *Buffer) DeleteLeft() bool {
	if b.cursor == 0 || len(b.content) == 0 {
		return false
	}

	b.cursor--
	b.content = append(b.content[:b.cursor], b.content[b.cursor+1:]...)
	return true
}

// DeleteRight removes the character under the cursor (Delete).
// The cursor does not move. Returns false if the cursor is at the end.
func (b *Buffer) DeleteRight() bool {
	if b.cursor == len(b.content) {
		return false
	}

	b.content = append(b.content[:b.cursor], b.content[b.cursor+1:]...)
	return true
}

// MoveLeft moves the cursor one character left.
// Returns false if it was already at the start.
func (b *Buffer) MoveLeft() bool {
	if b.cursor == 0 {
		return false
	}
	b.cursor--
	return true
}

// MoveRight moves the cursor one character right.
// Returns false if it was already at the end.
func (b *Buffer) MoveRight() bool {
	if b.cursor >= len(b.content) {
		return false
	}
	b.cursor++
	return true
}

// Replace sets the content to text and moves the cursor to its end.
func (b *Buffer) Replace(text string) {
	b.content = append(b.content[:0], text...)
	b.cursor = len(b.content)
}

// TakeAndClear returns the content and resets the buffer to empty.
func (b *Buffer) TakeAndClear() string {
	text := string(b.content)
	b.content = b.content[:0]
	b.cursor = 0
	return text
}
