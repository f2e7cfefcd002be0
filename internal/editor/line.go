package editor

import "github.com/DevOrc/mini/internal/keys"

// Line is a single-line text buffer with a cursor. The cursor is an offset in
// runes and always satisfies 0 <= cursor <= Len(); operations that would
// leave that range clamp instead of failing.
type Line struct {
	chars  []rune
	cursor int
}

// New returns an empty line.
func New() *Line {
	return &Line{chars: make([]rune, 0, 64)}
}

// Insert adds the character of a Char or Digit token at the cursor and
// advances the cursor. Other tokens are ignored.
func (l *Line) Insert(tok keys.Token) {
	r, ok := tok.Printable()
	if !ok {
		return
	}
	if l.cursor < 0 || l.cursor > len(l.chars) {
		return
	}

	l.chars = append(l.chars, 0)
	copy(l.chars[l.cursor+1:], l.chars[l.cursor:])
	l.chars[l.cursor] = r
	l.cursor++
}

// Backspace removes the character before the cursor. At the start of the
// line it does nothing.
func (l *Line) Backspace() {
	if l.cursor <= 0 || l.cursor-1 >= len(l.chars) {
		return
	}
	l.chars = append(l.chars[:l.cursor-1], l.chars[l.cursor:]...)
	l.cursor--
}

// MoveCursor shifts the cursor by delta and clamps it into [0, Len()].
func (l *Line) MoveCursor(delta int) {
	l.cursor += delta
	if l.cursor < 0 {
		l.cursor = 0
	}
	if l.cursor > len(l.chars) {
		l.cursor = len(l.chars)
	}
}

// Submit returns the current text and resets the line to empty.
func (l *Line) Submit() string {
	text := string(l.chars)
	l.chars = l.chars[:0]
	l.cursor = 0
	return text
}

// Apply performs the edit a token describes and reports whether the token
// was an editing key. Escape and Enter are not edits and are left to the
// caller.
func (l *Line) Apply(tok keys.Token) bool {
	switch tok.Kind {
	case keys.KindChar, keys.KindDigit:
		l.Insert(tok)
	case keys.KindBackspace:
		l.Backspace()
	case keys.KindArrowLeft:
		l.MoveCursor(-1)
	case keys.KindArrowRight:
		l.MoveCursor(1)
	default:
		return false
	}
	return true
}

// Text returns the current contents.
func (l *Line) Text() string {
	return string(l.chars)
}

// Runes returns the current contents without copying. Callers must not
// modify the result.
func (l *Line) Runes() []rune {
	return l.chars
}

// Cursor returns the cursor offset in runes.
func (l *Line) Cursor() int {
	return l.cursor
}

// Len returns the number of runes on the line.
func (l *Line) Len() int {
	return len(l.chars)
}
