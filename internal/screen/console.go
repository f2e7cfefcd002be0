package screen

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Colors is a foreground/background pair applied to subsequent writes.
type Colors struct {
	Foreground tcell.Color
	Background tcell.Color
}

// Style converts the pair to a tcell style.
func (c Colors) Style() tcell.Style {
	return tcell.StyleDefault.Foreground(c.Foreground).Background(c.Background)
}

// Console is the minimal cell-drawing surface the renderer needs. Calls are
// synchronous and cheap; nothing reaches the physical terminal until Flush.
type Console interface {
	// Geometry polls the current terminal size.
	Geometry() Geometry
	// SetColors sets the colors used by later writes and clears.
	SetColors(c Colors)
	// WriteCell puts a single rune at (x, y). Out-of-range cells are ignored.
	WriteCell(x, y int, r rune)
	// WriteText writes s on row y starting at column x, clipped at the right edge.
	WriteText(x, y int, s string)
	// SetCursor moves the visible cursor.
	SetCursor(x, y int)
	// Clear blanks every cell using the current colors.
	Clear()
	// Flush pushes pending changes to the terminal.
	Flush()
}

// Terminal is the tcell-backed Console used by the chat client.
type Terminal struct {
	screen tcell.Screen
	style  tcell.Style
}

// Open creates and initializes a terminal screen.
func Open() (*Terminal, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	return NewTerminal(s), nil
}

// NewTerminal wraps an already initialized tcell screen. Tests pass a
// simulation screen here.
func NewTerminal(s tcell.Screen) *Terminal {
	return &Terminal{
		screen: s,
		style:  tcell.StyleDefault,
	}
}

// Screen exposes the underlying tcell screen.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

// PollEvent blocks for the next terminal event. It returns nil once the
// terminal has been closed, which is how the key poller learns to stop.
func (t *Terminal) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

func (t *Terminal) Geometry() Geometry {
	w, h := t.screen.Size()
	return Geometry{Width: w, Height: h}
}

func (t *Terminal) SetColors(c Colors) {
	t.style = c.Style()
}

func (t *Terminal) WriteCell(x, y int, r rune) {
	w, h := t.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	t.screen.SetContent(x, y, r, nil, t.style)
}

func (t *Terminal) WriteText(x, y int, s string) {
	w, _ := t.screen.Size()
	for _, r := range s {
		if x >= w {
			return
		}
		t.WriteCell(x, y, r)
		x++
	}
}

func (t *Terminal) SetCursor(x, y int) {
	t.screen.ShowCursor(x, y)
}

func (t *Terminal) Clear() {
	t.screen.Fill(' ', t.style)
}

func (t *Terminal) Flush() {
	t.screen.Show()
}

// Close restores the terminal. Pending PollEvent calls return nil afterwards.
func (t *Terminal) Close() {
	t.screen.Fini()
}
