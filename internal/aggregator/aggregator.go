// Package aggregator folds per-chunk analysis outcomes into the
// single merged knowledge aggregate.
//
// Fold is a single-threaded consumer even when the dispatcher runs
// concurrently: all mutations of the aggregate are serialized through
// one loop, so the merge needs no locks. Delivery order is irrelevant;
// every outcome carries its originating chunk identity.
package aggregator

import (
	"go.uber.org/zap"

	"github.com/dshills/codelore/pkg/types"
)

// Aggregator accumulates chunk outcomes into an Aggregate.
type Aggregator struct {
	agg    *types.Aggregate
	seen   map[string]bool // structural MethodFact keys already merged
	logger *zap.Logger
}

// New creates an Aggregator around an empty aggregate.
func New(logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		agg:    types.NewAggregate(),
		seen:   make(map[string]bool),
		logger: logger,
	}
}

// Fold consumes the outcome stream to exhaustion and returns the
// frozen aggregate. Every chunk contributes exactly once: successes
// append their present fields, failures append a note, and a success
// carrying no recognized fields still appends its raw response as a
// note so no chunk's outcome is lost.
func (a *Aggregator) Fold(outcomes <-chan types.Outcome) *types.Aggregate {
	for outcome := range outcomes {
		a.Add(outcome)
	}
	return a.agg
}

// Add merges a single outcome. It must only be called from one
// goroutine; the aggregate is exclusively owned here.
func (a *Aggregator) Add(outcome types.Outcome) {
	chunk, result := outcome.Chunk, outcome.Result

	if !result.OK() {
		a.logger.Debug("chunk failed",
			zap.String("chunk", chunk.ID()),
			zap.String("kind", string(result.ErrorKind)),
		)
		a.agg.Notes = append(a.agg.Notes, types.NoteEntry{
			FileID: chunk.FileID,
			Index:  chunk.Index,
			Notes:  result.FailureNote(),
		})
		return
	}

	contributed := false

	if result.Overview != nil {
		a.agg.Overview = append(a.agg.Overview, types.OverviewEntry{
			FileID:   chunk.FileID,
			Index:    chunk.Index,
			Overview: *result.Overview,
		})
		contributed = true
	}

	for _, fact := range result.Methods {
		contributed = true
		key := fact.Key()
		if a.seen[key] {
			continue
		}
		a.seen[key] = true
		a.agg.Methods = append(a.agg.Methods, fact)
	}

	if result.Complexity != nil {
		a.agg.Complexity = append(a.agg.Complexity, types.ComplexityEntry{
			FileID:     chunk.FileID,
			Index:      chunk.Index,
			Complexity: *result.Complexity,
		})
		contributed = true
	}

	if result.Notes != nil {
		a.agg.Notes = append(a.agg.Notes, types.NoteEntry{
			FileID: chunk.FileID,
			Index:  chunk.Index,
			Notes:  *result.Notes,
		})
		contributed = true
	}

	if !contributed {
		// Response parsed but carried none of the requested keys.
		text := result.Raw
		if text == "" {
			text = "unrecognized oracle response"
		}
		a.agg.Notes = append(a.agg.Notes, types.NoteEntry{
			FileID: chunk.FileID,
			Index:  chunk.Index,
			Notes:  text,
		})
	}
}

// SetProjectInfo attaches the project-summary result to the
// aggregate's header. A nil info leaves ProjectInfo null.
func (a *Aggregator) SetProjectInfo(info map[string]any) {
	a.agg.ProjectInfo = info
}

// Aggregate returns the aggregate built so far.
func (a *Aggregator) Aggregate() *types.Aggregate {
	return a.agg
}
