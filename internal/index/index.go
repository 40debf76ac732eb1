// Package index provides the similarity-index collaborator used to
// look up chunks related to a query. The analysis pipeline does not
// depend on it; it backs the knowledge-query surface.
package index

import (
	"crypto/sha256"
	"math"
	"sort"
	"strings"

	"github.com/dshills/codelore/pkg/types"
)

// vectorDim is the dimension of the deterministic local embedding.
const vectorDim = 384

// ChunkRef is one ranked query hit.
type ChunkRef struct {
	FileID string
	Index  int
	Score  float64 // cosine similarity in [-1, 1], higher is better
	Text   string
}

// Index ranks chunks by similarity to a query text.
type Index interface {
	// Add inserts chunks into the index.
	Add(chunks []types.Chunk)

	// Query returns up to k chunk references ranked by similarity.
	Query(text string, k int) []ChunkRef
}

// CosineIndex is an in-process Index using deterministic
// hash-projection vectors and cosine ranking. It needs no external
// embedding service, which keeps the query surface available even
// when no oracle provider is configured.
type CosineIndex struct {
	chunks  []types.Chunk
	vectors [][]float32
}

// NewCosineIndex creates an empty CosineIndex.
func NewCosineIndex() *CosineIndex {
	return &CosineIndex{}
}

// Add inserts chunks into the index. Not safe for concurrent use with
// Query; build the index fully before querying.
func (x *CosineIndex) Add(chunks []types.Chunk) {
	for _, c := range chunks {
		x.chunks = append(x.chunks, c)
		x.vectors = append(x.vectors, embed(c.Text))
	}
}

// Query ranks indexed chunks against the query text.
func (x *CosineIndex) Query(text string, k int) []ChunkRef {
	if len(x.chunks) == 0 || k <= 0 || text == "" {
		return nil
	}

	qv := embed(text)
	refs := make([]ChunkRef, 0, len(x.chunks))
	for i, c := range x.chunks {
		refs = append(refs, ChunkRef{
			FileID: c.FileID,
			Index:  c.Index,
			Score:  cosineSimilarity(qv, x.vectors[i]),
			Text:   c.Text,
		})
	}

	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Score > refs[j].Score
	})
	if k < len(refs) {
		refs = refs[:k]
	}
	return refs
}

// Len returns the number of indexed chunks.
func (x *CosineIndex) Len() int {
	return len(x.chunks)
}

// embed produces a deterministic unit vector from text by hashing its
// tokens into fixed dimensions. Shared tokens produce shared vector
// components, so token overlap drives similarity.
func embed(text string) []float32 {
	v := make([]float32, vectorDim)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := sha256.Sum256([]byte(token))
		dim := (int(h[0])<<8 | int(h[1])) % vectorDim
		v[dim]++
	}
	return normalize(v)
}

// normalize scales a vector to unit length for cosine similarity.
func normalize(v []float32) []float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val * val)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	for i, val := range v {
		v[i] = val / norm
	}
	return v
}

// cosineSimilarity computes the dot product of two unit vectors.
func cosineSimilarity(a, b []float32) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i] * b[i])
	}
	return dot
}
