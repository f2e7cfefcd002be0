// Package screen defines the terminal geometry and the cell-level console the
// renderer draws through, plus the tcell implementation used at runtime.
//
// The screen is split into an output region on top and a fixed input bar of
// InputBarHeight rows at the bottom:
//
//	row 0                 ┐
//	...                   │ output region (Height - InputBarHeight rows)
//	row H-5               ┘
//	row H-4   separator strip
//	row H-3   input text
//	row H-2   input background
//	row H-1   input background
package screen
