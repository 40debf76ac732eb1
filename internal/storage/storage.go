// Package storage persists analysis runs and their per-chunk outcomes
// in SQLite. The database is the durable record of what was analyzed;
// the JSON report stays the canonical output format.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/codelore/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// RunState is the lifecycle state of an analysis run.
type RunState string

const (
	RunRunning   RunState = "running"
	RunCompleted RunState = "completed"
	RunFailed    RunState = "failed"
)

// Run is one analysis of a source tree.
type Run struct {
	ID         string // UUID
	Source     string // repo URL or local path
	Model      string
	State      RunState
	ChunkCount int
	ReportPath string
	CreatedAt  time.Time
	FinishedAt time.Time // zero until the run finishes
}

// ChunkRecord is the persisted identity of one chunk fed to the oracle.
type ChunkRecord struct {
	ID          int64
	RunID       string
	FileID      string
	ChunkIndex  int
	ContentHash string // sha256 hex of the chunk text
	SizeChars   int
	CreatedAt   time.Time
}

// OutcomeRecord is the persisted outcome for one chunk.
type OutcomeRecord struct {
	ID         int64
	RunID      string
	FileID     string
	ChunkIndex int
	OK         bool
	ErrorKind  string // empty on success
	Message    string // failure message, empty on success
	CreatedAt  time.Time
}

// RunStatus summarizes a run and its stored outcomes.
type RunStatus struct {
	Run           *Run
	ChunksStored  int
	OutcomesOK    int
	OutcomesError int
	DBSizeMB      float64
}

// Storage is the persistence surface used by the pipeline and the
// status tooling.
type Storage interface {
	CreateRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	FinishRun(ctx context.Context, runID string, state RunState, reportPath string) error

	InsertChunks(ctx context.Context, runID string, chunks []types.Chunk) error
	InsertOutcome(ctx context.Context, runID string, outcome types.Outcome) error
	ListOutcomes(ctx context.Context, runID string) ([]*OutcomeRecord, error)

	Status(ctx context.Context, runID string) (*RunStatus, error)
	Close() error
}
