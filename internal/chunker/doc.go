// Package chunker splits source documents into bounded-size text
// chunks with configurable overlap.
//
// Chunks are cut at a fixed character budget, backing up to the
// nearest newline or whitespace boundary when one falls inside the
// tail of the window. Consecutive chunks overlap so that context is
// not lost at cut points. Chunk indices are sequential across the
// whole document set, giving every chunk a stable (file, index)
// identity.
package chunker
