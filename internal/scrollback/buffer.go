package scrollback

import (
	"unicode/utf8"

	"github.com/DevOrc/mini/internal/screen"
)

// Line is one logical output line and the number of rows it wraps to at the
// buffer's current width.
type Line struct {
	Text string
	Rows int
}

// RowsFor returns the number of wrapped rows text occupies at width:
// 1 + runes/width. Wrapping counts codepoints, not display cells. A
// non-positive width counts every line as a single row.
func RowsFor(text string, width int) int {
	if width <= 0 {
		return 1
	}
	return 1 + utf8.RuneCountInString(text)/width
}

// Buffer holds output lines oldest first. The sum of row counts never
// exceeds the output region height once an Append or Snapshot returns;
// lines are only ever removed from the front.
type Buffer struct {
	lines []Line
	rows  int
	geom  screen.Geometry

	// set by SetGeometry, consumed lazily by reconcile
	widthChanged  bool
	heightChanged bool
}

// New creates an empty buffer for the given geometry.
func New(geom screen.Geometry) *Buffer {
	return &Buffer{geom: geom}
}

// SetGeometry records a new terminal size. Row counts are recomputed on the
// next Append or Snapshot, so a burst of resizes costs one recompute.
func (b *Buffer) SetGeometry(geom screen.Geometry) {
	if geom.Width != b.geom.Width {
		b.widthChanged = true
	}
	if geom.Height != b.geom.Height {
		b.heightChanged = true
	}
	b.geom = geom
}

// Geometry returns the geometry the buffer currently wraps against.
func (b *Buffer) Geometry() screen.Geometry {
	return b.geom
}

// Append adds text as the newest line and evicts from the front until the
// buffer fits the output region. A line too tall for the region on its own
// is evicted as well.
func (b *Buffer) Append(text string) {
	b.reconcile()

	line := Line{Text: text, Rows: RowsFor(text, b.geom.Width)}
	b.lines = append(b.lines, line)
	b.rows += line.Rows

	b.evict()
}

// Snapshot returns the retained lines, oldest first. The slice is a view
// into the buffer and must not be modified; it stays valid until the next
// Append or Snapshot.
func (b *Buffer) Snapshot() []Line {
	b.reconcile()
	return b.lines[:len(b.lines):len(b.lines)]
}

// Len returns the number of retained lines.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Rows returns the total wrapped rows of the retained lines as of the last
// Append or Snapshot.
func (b *Buffer) Rows() int {
	return b.rows
}

func (b *Buffer) reconcile() {
	if b.widthChanged {
		b.rows = 0
		for i := range b.lines {
			b.lines[i].Rows = RowsFor(b.lines[i].Text, b.geom.Width)
			b.rows += b.lines[i].Rows
		}
		b.widthChanged = false
	}
	if b.heightChanged || b.rows > b.capacity() {
		b.evict()
		b.heightChanged = false
	}
}

func (b *Buffer) evict() {
	limit := b.capacity()
	n := 0
	for b.rows > limit && n < len(b.lines) {
		b.rows -= b.lines[n].Rows
		b.lines[n] = Line{}
		n++
	}
	if n > 0 {
		b.lines = b.lines[n:]
	}
}

func (b *Buffer) capacity() int {
	limit := b.geom.OutputHeight()
	if limit < 0 {
		return 0
	}
	return limit
}
