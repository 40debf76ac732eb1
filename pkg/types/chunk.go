package types

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// Chunk represents a bounded-size slice of source text. It is immutable
// once created; (FileID, Index) is the stable identity used for
// attribution in all downstream records.
type Chunk struct {
	FileID string // Path relative to the source root
	Index  int    // Position in the global chunk sequence, 0-based
	Text   string
}

// ID returns the chunk's stable identity as a single string.
func (c Chunk) ID() string {
	return fmt.Sprintf("%s:%d", c.FileID, c.Index)
}

// Hash returns the SHA-256 hex digest of the chunk text, used as a
// cache key for oracle responses.
func (c Chunk) Hash() string {
	h := sha256.Sum256([]byte(c.Text))
	return hex.EncodeToString(h[:])
}

// Validate checks that the chunk is well formed.
func (c Chunk) Validate() error {
	if c.FileID == "" {
		return errors.New("chunk file ID is required")
	}
	if c.Index < 0 {
		return errors.New("chunk index must be >= 0")
	}
	if c.Text == "" {
		return errors.New("chunk text cannot be empty")
	}
	return nil
}
