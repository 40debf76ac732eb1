package aggregator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dshills/codelore/pkg/types"
)

func strptr(s string) *string { return &s }

func outcomes(list ...types.Outcome) <-chan types.Outcome {
	ch := make(chan types.Outcome, len(list))
	for _, o := range list {
		ch <- o
	}
	close(ch)
	return ch
}

func TestFoldSuccess(t *testing.T) {
	chunk := types.Chunk{FileID: "a.go", Index: 0, Text: "x"}
	agg := New(nil).Fold(outcomes(types.Outcome{
		Chunk: chunk,
		Result: types.AnalysisResult{
			Overview:   strptr("does things"),
			Complexity: strptr("low"),
			Notes:      strptr("uses generics"),
			Methods: []types.MethodFact{
				{Name: "F", Signature: "func F()", Description: "f"},
			},
		},
	}))

	require.Len(t, agg.Overview, 1)
	require.Equal(t, "a.go", agg.Overview[0].FileID)
	require.Equal(t, 0, agg.Overview[0].Index)
	require.Equal(t, "does things", agg.Overview[0].Overview)
	require.Len(t, agg.Complexity, 1)
	require.Equal(t, "low", agg.Complexity[0].Complexity)
	require.Len(t, agg.Notes, 1)
	require.Equal(t, "uses generics", agg.Notes[0].Notes)
	require.Len(t, agg.Methods, 1)
	require.Nil(t, agg.ProjectInfo)
}

func TestFoldAbsentFieldsSkipped(t *testing.T) {
	chunk := types.Chunk{FileID: "a.go", Index: 0, Text: "x"}
	agg := New(nil).Fold(outcomes(types.Outcome{
		Chunk:  chunk,
		Result: types.AnalysisResult{Overview: strptr("only overview")},
	}))

	require.Len(t, agg.Overview, 1)
	require.Empty(t, agg.Complexity)
	require.Empty(t, agg.Notes)
}

func TestFoldPresentButEmptyFieldKept(t *testing.T) {
	chunk := types.Chunk{FileID: "a.go", Index: 2, Text: "x"}
	agg := New(nil).Fold(outcomes(types.Outcome{
		Chunk:  chunk,
		Result: types.AnalysisResult{Notes: strptr("")},
	}))

	// An explicitly-present empty notes value is still a contribution.
	require.Len(t, agg.Notes, 1)
	require.Equal(t, "", agg.Notes[0].Notes)
}

func TestFoldMethodDedup(t *testing.T) {
	fact := types.MethodFact{Name: "Get", Signature: "func Get(k string) string", Description: "lookup"}
	similar := types.MethodFact{Name: "Get", Signature: "func Get(k string) string", Description: "different text"}

	agg := New(nil).Fold(outcomes(
		types.Outcome{
			Chunk:  types.Chunk{FileID: "a.go", Index: 0, Text: "x"},
			Result: types.AnalysisResult{Methods: []types.MethodFact{fact, fact}},
		},
		types.Outcome{
			Chunk:  types.Chunk{FileID: "b.go", Index: 1, Text: "y"},
			Result: types.AnalysisResult{Methods: []types.MethodFact{fact, similar}},
		},
	))

	// Structural duplicates collapse; a fact differing in any field stays.
	require.Len(t, agg.Methods, 2)

	keys := make(map[string]bool)
	for _, m := range agg.Methods {
		require.False(t, keys[m.Key()], "duplicate fact %v", m)
		keys[m.Key()] = true
	}
}

func TestFoldFailureBecomesNote(t *testing.T) {
	chunk := types.Chunk{FileID: "bad.go", Index: 7, Text: "x"}
	agg := New(nil).Fold(outcomes(types.Outcome{
		Chunk:  chunk,
		Result: types.Failure(types.KindRateLimitExceeded, "rate limit exceeded after 5 retries"),
	}))

	require.Len(t, agg.Notes, 1)
	require.Equal(t, "bad.go", agg.Notes[0].FileID)
	require.Equal(t, 7, agg.Notes[0].Index)
	require.Equal(t, "RateLimitExceeded: rate limit exceeded after 5 retries", agg.Notes[0].Notes)
}

func TestFoldUnrecognizedSuccessStillContributes(t *testing.T) {
	chunk := types.Chunk{FileID: "a.go", Index: 0, Text: "x"}
	agg := New(nil).Fold(outcomes(types.Outcome{
		Chunk:  chunk,
		Result: types.AnalysisResult{Raw: `{"unexpected":"shape"}`},
	}))

	require.Len(t, agg.Notes, 1)
	require.Equal(t, `{"unexpected":"shape"}`, agg.Notes[0].Notes)
}

func TestFoldEmptyStream(t *testing.T) {
	agg := New(nil).Fold(outcomes())

	require.Nil(t, agg.ProjectInfo)
	require.Empty(t, agg.Overview)
	require.Empty(t, agg.Methods)
	require.Empty(t, agg.Complexity)
	require.Empty(t, agg.Notes)
}

func TestFoldEveryChunkContributes(t *testing.T) {
	// Mixed outcomes: each input chunk must land somewhere.
	list := []types.Outcome{
		{Chunk: types.Chunk{FileID: "a", Index: 0, Text: "x"}, Result: types.AnalysisResult{Overview: strptr("o")}},
		{Chunk: types.Chunk{FileID: "a", Index: 1, Text: "x"}, Result: types.Failure(types.KindParseError, "bad json")},
		{Chunk: types.Chunk{FileID: "b", Index: 2, Text: "x"}, Result: types.AnalysisResult{Raw: "{}"}},
		{Chunk: types.Chunk{FileID: "b", Index: 3, Text: "x"}, Result: types.Failure(types.KindOracleError, "boom")},
	}
	agg := New(nil).Fold(outcomes(list...))

	contributors := make(map[int]bool)
	for _, e := range agg.Overview {
		contributors[e.Index] = true
	}
	for _, e := range agg.Complexity {
		contributors[e.Index] = true
	}
	for _, e := range agg.Notes {
		contributors[e.Index] = true
	}
	require.Len(t, contributors, len(list), "every chunk must contribute to the aggregate")
	require.GreaterOrEqual(t, agg.Contributions(), len(list))
}

func TestSetProjectInfo(t *testing.T) {
	a := New(nil)
	a.SetProjectInfo(map[string]any{"readme_summary": "s"})
	require.Equal(t, "s", a.Aggregate().ProjectInfo["readme_summary"])
}
