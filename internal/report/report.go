// Package report writes and reads the merged analysis report. The
// report is plain JSON on disk; it is the pipeline's canonical output
// and the input to the knowledge-query surface.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/codelore/pkg/types"
)

// DefaultPath is where the analyze command writes the report unless
// told otherwise.
const DefaultPath = "codebase_knowledge.json"

// Write serializes the aggregate to path as indented JSON, creating
// parent directories as needed. The write goes through a temp file and
// rename so a crash never leaves a truncated report behind.
func Write(path string, agg *types.Aggregate) error {
	if agg == nil {
		return fmt.Errorf("nil aggregate")
	}

	data, err := json.MarshalIndent(agg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp report: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close report: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to move report into place: %w", err)
	}
	return nil
}

// Load reads a previously written report.
func Load(path string) (*types.Aggregate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var agg types.Aggregate
	if err := json.Unmarshal(data, &agg); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	return &agg, nil
}
