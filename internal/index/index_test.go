package index

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dshills/codelore/pkg/types"
)

func TestCosineIndexQuery(t *testing.T) {
	idx := NewCosineIndex()
	idx.Add([]types.Chunk{
		{FileID: "http.go", Index: 0, Text: "func serveHTTP handles http requests and routing"},
		{FileID: "db.go", Index: 1, Text: "func openDatabase connects to the sqlite database"},
		{FileID: "math.go", Index: 2, Text: "func add returns the sum of two integers"},
	})

	refs := idx.Query("http requests routing", 2)
	require.Len(t, refs, 2)
	require.Equal(t, "http.go", refs[0].FileID, "most similar chunk should rank first")
	require.GreaterOrEqual(t, refs[0].Score, refs[1].Score)
}

func TestCosineIndexEmpty(t *testing.T) {
	idx := NewCosineIndex()
	require.Nil(t, idx.Query("anything", 5))
	require.Equal(t, 0, idx.Len())
}

func TestCosineIndexLimits(t *testing.T) {
	idx := NewCosineIndex()
	idx.Add([]types.Chunk{
		{FileID: "a", Index: 0, Text: "alpha"},
		{FileID: "b", Index: 1, Text: "beta"},
	})

	require.Len(t, idx.Query("alpha", 10), 2, "k beyond size returns all")
	require.Nil(t, idx.Query("alpha", 0))
	require.Nil(t, idx.Query("", 5))
}

func TestEmbedDeterministic(t *testing.T) {
	a := embed("some source text")
	b := embed("some source text")
	require.Equal(t, a, b)

	// Unit length
	var sum float64
	for _, v := range a {
		sum += float64(v) * float64(v)
	}
	require.InDelta(t, 1.0, sum, 1e-5)
}

func TestCosineSimilarityIdentical(t *testing.T) {
	v := embed("identical text")
	require.InDelta(t, 1.0, cosineSimilarity(v, v), 1e-5)
}

func TestNormalizeZeroVector(t *testing.T) {
	v := make([]float32, 4)
	out := normalize(v)
	for _, val := range out {
		if math.IsNaN(float64(val)) {
			t.Fatal("normalize of zero vector must not produce NaN")
		}
	}
}
