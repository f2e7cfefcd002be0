package keys

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		raw    RawKey
		want   Token
		wantOK bool
	}{
		{"escape", RawKey{Key: tcell.KeyEscape, Down: true}, Escape, true},
		{"ctrl+c quits", RawKey{Key: tcell.KeyCtrlC, Down: true}, Escape, true},
		{"enter", RawKey{Key: tcell.KeyEnter, Down: true}, Enter, true},
		{"backspace", RawKey{Key: tcell.KeyBackspace, Down: true}, Backspace, true},
		{"backspace2 (DEL)", RawKey{Key: tcell.KeyBackspace2, Down: true}, Backspace, true},
		{"left", RawKey{Key: tcell.KeyLeft, Down: true}, ArrowLeft, true},
		{"right", RawKey{Key: tcell.KeyRight, Down: true}, ArrowRight, true},
		{"letter", RawKey{Key: tcell.KeyRune, Rune: 'a', Down: true}, Char('a'), true},
		{"space", RawKey{Key: tcell.KeyRune, Rune: ' ', Down: true}, Char(' '), true},
		{"non-ascii letter", RawKey{Key: tcell.KeyRune, Rune: 'é', Down: true}, Char('é'), true},
		{"digit zero", RawKey{Key: tcell.KeyRune, Rune: '0', Down: true}, Digit(0), true},
		{"digit nine", RawKey{Key: tcell.KeyRune, Rune: '9', Down: true}, Digit(9), true},
		{"key-up ignored", RawKey{Key: tcell.KeyEnter, Down: false}, Token{}, false},
		{"key-up rune ignored", RawKey{Key: tcell.KeyRune, Rune: 'x', Down: false}, Token{}, false},
		{"unmapped key", RawKey{Key: tcell.KeyF5, Down: true}, Token{}, false},
		{"up arrow unmapped", RawKey{Key: tcell.KeyUp, Down: true}, Token{}, false},
		{"control rune unmapped", RawKey{Key: tcell.KeyRune, Rune: '\x07', Down: true}, Token{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Translate(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("Translate() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Translate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromEvent(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)
	raw := FromEvent(ev)

	if raw.Key != tcell.KeyRune || raw.Rune != 'q' || !raw.Down {
		t.Errorf("FromEvent() = %+v, want rune 'q' key-down", raw)
	}
}

func TestToken_DigitAndPrintable(t *testing.T) {
	tok := Digit(7)
	if tok.Value() != 7 {
		t.Errorf("Value() = %d, want 7", tok.Value())
	}
	if r, ok := tok.Printable(); !ok || r != '7' {
		t.Errorf("Printable() = %q, %v; want '7', true", r, ok)
	}

	if Digit(12).Value() != 2 || Digit(-3).Value() != 7 {
		t.Error("Digit() should reduce out-of-range values modulo 10")
	}

	if Char('x').Value() != -1 {
		t.Error("Value() on a Char should be -1")
	}
	if _, ok := Enter.Printable(); ok {
		t.Error("Enter should not be printable")
	}
}

func TestToken_String(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Escape, "Escape"},
		{ArrowRight, "ArrowRight"},
		{Char('a'), "Char('a')"},
		{Digit(3), "Digit(3)"},
		{Token{}, "Kind(0)"},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
