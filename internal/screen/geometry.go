package screen

import "fmt"

// InputBarHeight is the number of bottom rows reserved for the input bar,
// separator strip included.
const InputBarHeight = 4

// Geometry is a snapshot of the terminal size, taken once per tick.
type Geometry struct {
	Width  int
	Height int
}

// OutputHeight returns the number of rows available to the output region.
// It may be zero or negative on a very short terminal; callers draw nothing
// in that case.
func (g Geometry) OutputHeight() int {
	return g.Height - InputBarHeight
}

// SeparatorRow is the row of the strip between output and input.
func (g Geometry) SeparatorRow() int {
	return g.Height - InputBarHeight
}

// TextRow is the row the input text is written on.
func (g Geometry) TextRow() int {
	return g.Height - InputBarHeight + 1
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d", g.Width, g.Height)
}
