package keys

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// RawKey is a single key record as delivered by the terminal: the key code,
// the rune for character keys, modifiers, and whether it is a key-down.
type RawKey struct {
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
	Down bool
}

// FromEvent converts a tcell key event. tcell only reports presses, so the
// result is always a key-down.
func FromEvent(ev *tcell.EventKey) RawKey {
	return RawKey{
		Key:  ev.Key(),
		Rune: ev.Rune(),
		Mod:  ev.Modifiers(),
		Down: true,
	}
}

// Translate maps a raw key to its semantic token. Key-ups and unmapped keys
// report false.
func Translate(k RawKey) (Token, bool) {
	if !k.Down {
		return Token{}, false
	}

	switch k.Key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		// Raw mode swallows SIGINT, so Ctrl+C quits like Escape
		return Escape, true
	case tcell.KeyEnter:
		return Enter, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return Backspace, true
	case tcell.KeyLeft:
		return ArrowLeft, true
	case tcell.KeyRight:
		return ArrowRight, true
	case tcell.KeyRune:
		return translateRune(k.Rune)
	}

	return Token{}, false
}

func translateRune(r rune) (Token, bool) {
	if r >= '0' && r <= '9' {
		return Digit(int(r - '0')), true
	}
	if unicode.IsPrint(r) {
		return Char(r), true
	}
	return Token{}, false
}
