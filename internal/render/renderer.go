package render

import (
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/DevOrc/mini/internal/editor"
	"github.com/DevOrc/mini/internal/logging"
	"github.com/DevOrc/mini/internal/screen"
	"github.com/DevOrc/mini/internal/scrollback"
)

// CursorPosition is where the physical cursor was last placed.
type CursorPosition struct {
	X int
	Y int
}

// Theme holds the colors of the three painted areas.
type Theme struct {
	Output    screen.Colors
	Separator screen.Colors
	Input     screen.Colors
}

// DefaultTheme is black on light gray with a dark blue separator strip.
func DefaultTheme() Theme {
	text := screen.Colors{Foreground: tcell.ColorBlack, Background: tcell.ColorSilver}
	return Theme{
		Output:    text,
		Separator: screen.Colors{Foreground: tcell.ColorNavy, Background: tcell.ColorNavy},
		Input:     text,
	}
}

// Renderer owns the terminal geometry and cursor placement. It reads the
// scrollback and input line but never modifies them, apart from telling the
// scrollback about geometry changes.
type Renderer struct {
	console screen.Console
	buffer  *scrollback.Buffer
	line    *editor.Line
	theme   Theme

	geom   screen.Geometry
	cursor CursorPosition
}

// New creates a renderer and takes the console's current size as the
// baseline geometry. Nothing is drawn until FullRedraw.
func New(console screen.Console, buffer *scrollback.Buffer, line *editor.Line) *Renderer {
	r := &Renderer{
		console: console,
		buffer:  buffer,
		line:    line,
		theme:   DefaultTheme(),
		geom:    console.Geometry(),
	}
	r.buffer.SetGeometry(r.geom)
	r.cursor = CursorPosition{X: 0, Y: r.geom.TextRow()}
	return r
}

// Geometry returns the last observed geometry.
func (r *Renderer) Geometry() screen.Geometry {
	return r.geom
}

// Cursor returns where the visible cursor was last placed.
func (r *Renderer) Cursor() CursorPosition {
	return r.cursor
}

// CheckResize polls the console size and, if it differs from the last
// observed geometry, stores it as the new baseline and performs one full
// redraw. It reports whether a redraw happened.
func (r *Renderer) CheckResize() bool {
	geom := r.console.Geometry()
	if geom == r.geom {
		return false
	}

	logging.Debug("Terminal resized",
		zap.Stringer("from", r.geom),
		zap.Stringer("to", geom),
	)

	r.geom = geom
	r.buffer.SetGeometry(geom)
	r.FullRedraw()
	return true
}

// FullRedraw clears the screen and repaints both regions.
func (r *Renderer) FullRedraw() {
	r.console.SetColors(r.theme.Output)
	r.console.Clear()
	r.drawOutput(false)
	r.drawInputBar()
	r.console.Flush()
}

// RedrawOutput repaints the scrollback. With forceBackground the whole
// output region is blanked first; otherwise only the cells under text are
// written. The visible cursor is put back on the input line afterwards.
func (r *Renderer) RedrawOutput(forceBackground bool) {
	r.drawOutput(forceBackground)
	r.console.SetCursor(r.cursor.X, r.cursor.Y)
	r.console.Flush()
}

// RedrawInputBar repaints the separator strip and the input line and moves
// the visible cursor to the edit cursor.
func (r *Renderer) RedrawInputBar() {
	r.drawInputBar()
	r.console.Flush()
}

func (r *Renderer) drawOutput(forceBackground bool) {
	height := r.geom.OutputHeight()
	r.console.SetColors(r.theme.Output)

	if forceBackground {
		r.fillRows(0, height)
	}

	row := 0
	for _, line := range r.buffer.Snapshot() {
		r.writeWrapped(row, height, line.Text)
		row += line.Rows
	}
}

// writeWrapped writes text from column 0 of row, continuing on the next row
// every width runes, and stops at limit.
func (r *Renderer) writeWrapped(row, limit int, text string) {
	width := r.geom.Width
	if width <= 0 {
		return
	}

	i := 0
	for _, ch := range text {
		y := row + i/width
		if y >= limit {
			return
		}
		r.console.WriteCell(i%width, y, ch)
		i++
	}
}

func (r *Renderer) drawInputBar() {
	sepRow := r.geom.SeparatorRow()
	textRow := r.geom.TextRow()

	r.console.SetColors(r.theme.Separator)
	r.fillRows(sepRow, sepRow+1)

	r.console.SetColors(r.theme.Input)
	r.fillRows(textRow, r.geom.Height)

	text := r.line.Runes()
	cursor := r.line.Cursor()
	width := r.geom.Width

	// Scroll horizontally so the cursor cell stays on screen
	offset := 0
	if width > 0 && cursor >= width {
		offset = cursor - width + 1
	}
	for i := offset; i < len(text) && i-offset < width; i++ {
		r.console.WriteCell(i-offset, textRow, text[i])
	}

	r.cursor = CursorPosition{X: cursor - offset, Y: textRow}
	r.console.SetCursor(r.cursor.X, r.cursor.Y)
}

// fillRows blanks rows [from, to) clipped to the screen.
func (r *Renderer) fillRows(from, to int) {
	if from < 0 {
		from = 0
	}
	if to > r.geom.Height {
		to = r.geom.Height
	}
	for y := from; y < to; y++ {
		for x := 0; x < r.geom.Width; x++ {
			r.console.WriteCell(x, y, ' ')
		}
	}
}
