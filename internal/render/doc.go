// Package render draws the scrollback and the input line onto a console and
// keeps the visible cursor on the edit cursor.
//
// The screen is split into the output region, rows [0, height-4), and the
// four-row input bar below it: a separator strip, the text row and two
// background rows. Every redraw repaints its region from the buffers; there
// is no diffing.
package render
