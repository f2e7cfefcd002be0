// Package scrollback keeps the history of output lines, bounded by how many
// wrapped rows fit in the output region rather than by message count.
//
// A line of n runes at width w occupies 1 + n/w rows. After every Append
// or Snapshot the rows of the retained lines sum to at most the output
// height, with lines dropped oldest first. A terminal resize is recorded
// with SetGeometry and applied lazily.
package scrollback
