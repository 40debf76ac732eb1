package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkID(t *testing.T) {
	c := Chunk{FileID: "src/main.go", Index: 3, Text: "x"}
	require.Equal(t, "src/main.go:3", c.ID())
}

func TestChunkHashStable(t *testing.T) {
	a := Chunk{FileID: "a.go", Index: 0, Text: "same text"}
	b := Chunk{FileID: "b.go", Index: 9, Text: "same text"}

	// Hash depends only on the text, so cached oracle answers are
	// shared across identical chunks.
	require.Equal(t, a.Hash(), b.Hash())
	require.NotEqual(t, a.Hash(), Chunk{Text: "other"}.Hash())
	require.Len(t, a.Hash(), 64)
}

func TestChunkValidate(t *testing.T) {
	require.NoError(t, Chunk{FileID: "a.go", Index: 0, Text: "x"}.Validate())
	require.Error(t, Chunk{Index: 0, Text: "x"}.Validate())
	require.Error(t, Chunk{FileID: "a.go", Index: -1, Text: "x"}.Validate())
	require.Error(t, Chunk{FileID: "a.go", Index: 0}.Validate())
}

func TestMethodFactKey(t *testing.T) {
	a := MethodFact{Name: "Get", Signature: "func Get()", Description: "lookup"}
	b := MethodFact{Name: "Get", Signature: "func Get()", Description: "lookup"}
	c := MethodFact{Name: "Get", Signature: "func Get()", Description: "different"}

	require.Equal(t, a.Key(), b.Key())
	require.NotEqual(t, a.Key(), c.Key())
}

func TestAnalysisResultVariants(t *testing.T) {
	require.True(t, AnalysisResult{}.OK())

	failed := Failure(KindOracleError, "call failed: %d", 500)
	require.False(t, failed.OK())
	require.Equal(t, "OracleError: call failed: 500", failed.FailureNote())
}

func TestAggregateJSONShape(t *testing.T) {
	agg := NewAggregate()
	agg.Overview = append(agg.Overview, OverviewEntry{FileID: "a.go", Index: 2, Overview: "o"})
	agg.Complexity = append(agg.Complexity, ComplexityEntry{FileID: "a.go", Index: 2, Complexity: "low"})
	agg.Notes = append(agg.Notes, NoteEntry{FileID: "a.go", Index: 2, Notes: "n"})

	data, err := json.Marshal(agg)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	entry := raw["overview"].([]any)[0].(map[string]any)
	require.Equal(t, "a.go", entry["file"])
	require.Equal(t, 2.0, entry["chunk_index"])
	require.Equal(t, "o", entry["overview"])

	require.Contains(t, raw["complexity"].([]any)[0].(map[string]any), "complexity")
	require.Contains(t, raw["notes"].([]any)[0].(map[string]any), "notes")
}

func TestNewAggregateEmptySections(t *testing.T) {
	data, err := json.Marshal(NewAggregate())
	require.NoError(t, err)
	require.JSONEq(t,
		`{"project_info":null,"overview":[],"methods":[],"complexity":[],"notes":[]}`,
		string(data))
}
