package chunker

import (
	"strings"
	"unicode"

	"github.com/dshills/codelore/pkg/types"
)

const (
	// DefaultChunkSize is the default number of characters per chunk.
	DefaultChunkSize = 2000

	// DefaultOverlap is the default number of overlapping characters
	// between consecutive chunks.
	DefaultOverlap = 100

	// boundaryWindow is how far back from a hard cut the chunker will
	// search for a newline or whitespace boundary.
	boundaryWindow = 200
)

// Document is one source file's content with its identity.
type Document struct {
	FileID  string // Path relative to the source root
	Content string
}

// Chunker splits document content into fixed-size overlapping chunks.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a Chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave forward progress on every step.
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}
	return c
}

// Split chunks a set of documents in order. Chunk indices are
// sequential across the whole set, matching the numbering used for
// attribution in the aggregate. Empty documents yield no chunks.
func (c *Chunker) Split(docs []Document) []types.Chunk {
	chunks := make([]types.Chunk, 0, len(docs))
	index := 0
	for _, doc := range docs {
		for _, text := range c.splitContent(doc.Content) {
			chunks = append(chunks, types.Chunk{
				FileID: doc.FileID,
				Index:  index,
				Text:   text,
			})
			index++
		}
	}
	return chunks
}

// SplitDocument chunks a single document, with indices starting at 0.
func (c *Chunker) SplitDocument(doc Document) []types.Chunk {
	return c.Split([]Document{doc})
}

// splitContent cuts content into overlapping windows of at most
// chunkSize characters, preferring to end a window at a newline or
// whitespace boundary near the cut point.
func (c *Chunker) splitContent(content string) []string {
	if content == "" {
		return nil
	}
	if len(content) <= c.chunkSize {
		return []string{content}
	}

	step := c.chunkSize - c.overlap
	parts := make([]string, 0, len(content)/step+1)

	start := 0
	for start < len(content) {
		end := start + c.chunkSize
		if end >= len(content) {
			parts = append(parts, content[start:])
			break
		}

		cut := boundaryBefore(content, end)
		if cut <= start {
			cut = end
		}
		parts = append(parts, content[start:cut])

		next := cut - c.overlap
		if next <= start {
			next = start + step
		}
		start = next
	}

	return parts
}

// boundaryBefore returns the best cut position at or before end,
// searching back at most boundaryWindow characters for a newline,
// then for any whitespace. Returns end when no boundary is found.
func boundaryBefore(content string, end int) int {
	low := end - boundaryWindow
	if low < 0 {
		low = 0
	}
	window := content[low:end]

	if i := strings.LastIndexByte(window, '\n'); i >= 0 {
		return low + i + 1
	}
	for i := len(window) - 1; i >= 0; i-- {
		if unicode.IsSpace(rune(window[i])) {
			return low + i + 1
		}
	}
	return end
}
