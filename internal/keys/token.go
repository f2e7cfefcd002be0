package keys

import "fmt"

// Kind identifies which variant a Token holds.
type Kind int

const (
	KindEscape Kind = iota + 1
	KindEnter
	KindBackspace
	KindArrowLeft
	KindArrowRight
	KindChar
	KindDigit
)

func (k Kind) String() string {
	switch k {
	case KindEscape:
		return "Escape"
	case KindEnter:
		return "Enter"
	case KindBackspace:
		return "Backspace"
	case KindArrowLeft:
		return "ArrowLeft"
	case KindArrowRight:
		return "ArrowRight"
	case KindChar:
		return "Char"
	case KindDigit:
		return "Digit"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is a semantic key: one of Escape, Enter, Backspace, ArrowLeft,
// ArrowRight, Char(rune) or Digit(0..9). Rune is only meaningful for Char
// and Digit; a Digit stores its printable form '0'..'9'.
type Token struct {
	Kind Kind
	Rune rune
}

// Fixed tokens
var (
	Escape     = Token{Kind: KindEscape}
	Enter      = Token{Kind: KindEnter}
	Backspace  = Token{Kind: KindBackspace}
	ArrowLeft  = Token{Kind: KindArrowLeft}
	ArrowRight = Token{Kind: KindArrowRight}
)

// Char returns the token for a printable character.
func Char(r rune) Token {
	return Token{Kind: KindChar, Rune: r}
}

// Digit returns the token for the digit d. Values outside 0..9 are reduced
// modulo 10.
func Digit(d int) Token {
	d %= 10
	if d < 0 {
		d += 10
	}
	return Token{Kind: KindDigit, Rune: rune('0' + d)}
}

// Value returns the numeric value of a Digit token, or -1 for other kinds.
func (t Token) Value() int {
	if t.Kind != KindDigit {
		return -1
	}
	return int(t.Rune - '0')
}

// Printable returns the character a Char or Digit token inserts.
func (t Token) Printable() (rune, bool) {
	switch t.Kind {
	case KindChar, KindDigit:
		return t.Rune, true
	default:
		return 0, false
	}
}

func (t Token) String() string {
	switch t.Kind {
	case KindChar:
		return fmt.Sprintf("Char(%q)", t.Rune)
	case KindDigit:
		return fmt.Sprintf("Digit(%d)", t.Value())
	default:
		return t.Kind.String()
	}
}
