package types

// OverviewEntry is one attributed contribution to the overview
// section. The text field's JSON name varies by section to match the
// persisted report format.
type OverviewEntry struct {
	FileID   string `json:"file"`
	Index    int    `json:"chunk_index"`
	Overview string `json:"overview"`
}

// ComplexityEntry is one attributed contribution to the complexity
// section.
type ComplexityEntry struct {
	FileID     string `json:"file"`
	Index      int    `json:"chunk_index"`
	Complexity string `json:"complexity"`
}

// NoteEntry is one attributed contribution to the notes section.
// Failed chunks are recorded here as "<errorKind>: <message>".
type NoteEntry struct {
	FileID string `json:"file"`
	Index  int    `json:"chunk_index"`
	Notes  string `json:"notes"`
}

// Aggregate is the merged knowledge report produced from all chunk
// outcomes. It is mutated only by the aggregator, which owns exclusive
// write access; all merges are serialized through a single consumer.
// JSON field names are fixed for downstream compatibility.
type Aggregate struct {
	ProjectInfo map[string]any    `json:"project_info"`
	Overview    []OverviewEntry   `json:"overview"`
	Methods     []MethodFact      `json:"methods"`
	Complexity  []ComplexityEntry `json:"complexity"`
	Notes       []NoteEntry       `json:"notes"`
}

// NewAggregate returns an empty aggregate with all sections allocated,
// so the serialized form contains empty arrays rather than nulls.
func NewAggregate() *Aggregate {
	return &Aggregate{
		Overview:   make([]OverviewEntry, 0),
		Methods:    make([]MethodFact, 0),
		Complexity: make([]ComplexityEntry, 0),
		Notes:      make([]NoteEntry, 0),
	}
}

// Contributions returns the total number of per-chunk contributions
// across all sections. For auditing: with one contribution guaranteed
// per chunk outcome, this is bounded below by the input chunk count.
func (a *Aggregate) Contributions() int {
	return len(a.Overview) + len(a.Complexity) + len(a.Notes)
}
