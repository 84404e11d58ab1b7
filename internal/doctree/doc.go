// Package doctree implements the structural document tree the editing core
// operates on: typed block nodes with inline text and marks, immutable
// per-version documents, selections, and transactions.
//
// Position model: the document reads as a single rune sequence, blocks joined
// by a newline boundary. Atomic blocks (horizontal rules, images, tables)
// contribute a single object-replacement rune. All ranges are rune offsets
// into that sequence.
package doctree
