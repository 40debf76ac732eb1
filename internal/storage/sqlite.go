package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dshills/codelore/pkg/types"
)

// SQLiteStore implements Storage on SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStore opens (or creates) the database at dbPath and applies
// pending migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Run operations

func (s *SQLiteStore) CreateRun(ctx context.Context, run *Run) error {
	query := `
		INSERT INTO runs (id, source, model, state, chunk_count, report_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.Source, run.Model, string(run.State),
		run.ChunkCount, run.ReportPath, now)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	run.CreatedAt = now
	return nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	query := `
		SELECT id, source, model, state, chunk_count, report_path, created_at, finished_at
		FROM runs
		WHERE id = ?
	`
	return scanRun(s.db.QueryRowContext(ctx, query, runID))
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, source, model, state, chunk_count, report_path, created_at, finished_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	runs := make([]*Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FinishRun marks a run finished. The chunk count is taken from the
// chunks already stored for the run.
func (s *SQLiteStore) FinishRun(ctx context.Context, runID string, state RunState, reportPath string) error {
	query := `
		UPDATE runs
		SET state = ?,
		    report_path = ?,
		    chunk_count = (SELECT COUNT(*) FROM chunks WHERE run_id = runs.id),
		    finished_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query, string(state), reportPath, time.Now(), runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Chunk operations

// InsertChunks records the identity of every chunk in one transaction,
// so a run's chunk set is stored all-or-nothing.
func (s *SQLiteStore) InsertChunks(ctx context.Context, runID string, chunks []types.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO chunks (run_id, file_id, chunk_index, content_hash, size_chars, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	for _, chunk := range chunks {
		if _, err := tx.ExecContext(ctx, query,
			runID, chunk.FileID, chunk.Index, chunk.Hash(), len(chunk.Text), now); err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", chunk.ID(), err)
		}
	}
	return tx.Commit()
}

// Outcome operations

func (s *SQLiteStore) InsertOutcome(ctx context.Context, runID string, outcome types.Outcome) error {
	query := `
		INSERT INTO outcomes (run_id, file_id, chunk_index, ok, error_kind, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, file_id, chunk_index) DO UPDATE SET
			ok = excluded.ok,
			error_kind = excluded.error_kind,
			message = excluded.message
	`
	result := outcome.Result
	_, err := s.db.ExecContext(ctx, query,
		runID, outcome.Chunk.FileID, outcome.Chunk.Index,
		result.OK(), string(result.ErrorKind), result.Message, time.Now())
	if err != nil {
		return fmt.Errorf("failed to insert outcome: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListOutcomes(ctx context.Context, runID string) ([]*OutcomeRecord, error) {
	query := `
		SELECT id, run_id, file_id, chunk_index, ok, error_kind, message, created_at
		FROM outcomes
		WHERE run_id = ?
		ORDER BY chunk_index
	`
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	records := make([]*OutcomeRecord, 0)
	for rows.Next() {
		var rec OutcomeRecord
		var kind, message sql.NullString
		err := rows.Scan(
			&rec.ID, &rec.RunID, &rec.FileID, &rec.ChunkIndex,
			&rec.OK, &kind, &message, &rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		rec.ErrorKind = kind.String
		rec.Message = message.String
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Status operations

func (s *SQLiteStore) Status(ctx context.Context, runID string) (*RunStatus, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	status := &RunStatus{Run: run}

	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE run_id = ?", runID).Scan(&status.ChunksStored)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM outcomes WHERE run_id = ? AND ok", runID).Scan(&status.OutcomesOK)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM outcomes WHERE run_id = ? AND NOT ok", runID).Scan(&status.OutcomesError)
	if err != nil {
		return nil, err
	}

	var pageCount, pageSize int
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		_ = s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		status.DBSizeMB = float64(pageCount*pageSize) / (1024 * 1024)
	}

	return status, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var state string
	var model, reportPath sql.NullString
	var finishedAt sql.NullTime
	err := row.Scan(
		&run.ID, &run.Source, &model, &state,
		&run.ChunkCount, &reportPath, &run.CreatedAt, &finishedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	run.Model = model.String
	run.ReportPath = reportPath.String
	run.State = RunState(state)
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}
	return &run, nil
}
