// Package pipeline orchestrates one full analysis: resolve the source
// tree, chunk it, drive every chunk through the oracle, and fold the
// outcomes into the merged report.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/codelore/internal/aggregator"
	"github.com/dshills/codelore/internal/chunker"
	"github.com/dshills/codelore/internal/config"
	"github.com/dshills/codelore/internal/dispatcher"
	"github.com/dshills/codelore/internal/report"
	"github.com/dshills/codelore/internal/source"
	"github.com/dshills/codelore/internal/storage"
	"github.com/dshills/codelore/pkg/types"
)

// Oracle is the analysis surface the pipeline needs. *oracle.Client
// satisfies it.
type Oracle interface {
	Analyze(ctx context.Context, chunk types.Chunk) types.AnalysisResult
	Summarize(ctx context.Context, document string) map[string]any
}

// Pipeline runs analyses end to end.
type Pipeline struct {
	cfg    config.Config
	oracle Oracle
	store  storage.Storage // nil disables persistence
	logger *zap.Logger
}

// Result is what one completed analysis produced.
type Result struct {
	RunID      string
	Aggregate  *types.Aggregate
	ReportPath string
	ChunkCount int
}

// New creates a Pipeline. store may be nil, in which case nothing is
// persisted beyond the JSON report.
func New(cfg config.Config, oracle Oracle, store storage.Storage, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, oracle: oracle, store: store, logger: logger}
}

// Run analyzes target, which is either a local directory or a remote
// git URL, and writes the merged report to outputPath (the configured
// default when empty). An empty source tree is valid: it yields an
// empty report, not an error.
func (p *Pipeline) Run(ctx context.Context, target, outputPath string) (*Result, error) {
	if outputPath == "" {
		outputPath = p.cfg.OutputPath
	}
	if outputPath == "" {
		outputPath = report.DefaultPath
	}

	root, err := p.resolveSource(ctx, target)
	if err != nil {
		return nil, err
	}

	walker := source.NewWalker(root, p.logger)
	docs, err := walker.Read()
	if err != nil {
		return nil, err
	}

	chunks := chunker.New(
		chunker.WithChunkSize(p.cfg.ChunkSizeChars),
		chunker.WithOverlap(p.cfg.ChunkOverlapChars),
	).Split(docs)

	p.logger.Info("source chunked",
		zap.String("target", target),
		zap.Int("files", len(docs)),
		zap.Int("chunks", len(chunks)),
	)

	run := &storage.Run{
		ID:     uuid.NewString(),
		Source: target,
		Model:  p.cfg.Model,
		State:  storage.RunRunning,
	}
	if p.store != nil {
		if err := p.store.CreateRun(ctx, run); err != nil {
			return nil, fmt.Errorf("record run: %w", err)
		}
		if err := p.store.InsertChunks(ctx, run.ID, chunks); err != nil {
			return nil, fmt.Errorf("record chunks: %w", err)
		}
	}

	agg := p.analyze(ctx, run.ID, chunks)

	// The project summary is best effort: its failures land inside
	// project_info, never in the pipeline's error return.
	if readme := walker.ReadReadme(); readme != "" {
		agg.SetProjectInfo(p.oracle.Summarize(ctx, readme))
	}

	aggregate := agg.Aggregate()
	if err := report.Write(outputPath, aggregate); err != nil {
		p.finishRun(run.ID, storage.RunFailed, "")
		return nil, err
	}
	p.finishRun(run.ID, storage.RunCompleted, outputPath)

	return &Result{
		RunID:      run.ID,
		Aggregate:  aggregate,
		ReportPath: outputPath,
		ChunkCount: len(chunks),
	}, nil
}

// analyze fans the chunks out through the dispatcher and folds the
// outcomes as they complete. Outcome persistence happens here on the
// single consuming goroutine, so the store sees each chunk once.
func (p *Pipeline) analyze(ctx context.Context, runID string, chunks []types.Chunk) *aggregator.Aggregator {
	agg := aggregator.New(p.logger)

	d := dispatcher.New(
		dispatcher.AnalyzerFunc(p.oracle.Analyze),
		p.cfg.Concurrency,
		p.logger,
	)
	for outcome := range d.Run(ctx, chunks) {
		agg.Add(outcome)
		if p.store != nil {
			if err := p.store.InsertOutcome(ctx, runID, outcome); err != nil {
				p.logger.Warn("failed to persist outcome",
					zap.String("chunk", outcome.Chunk.ID()), zap.Error(err))
			}
		}
	}
	return agg
}

// resolveSource returns the local root to analyze, cloning first when
// target is a git URL.
func (p *Pipeline) resolveSource(ctx context.Context, target string) (string, error) {
	if !source.IsRemote(target) {
		info, err := os.Stat(target)
		if err != nil {
			return "", fmt.Errorf("source %s: %w", target, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("source %s is not a directory", target)
		}
		return target, nil
	}

	cloner := &source.Cloner{
		RepoURL:   target,
		TargetDir: filepath.Join(os.TempDir(), "codelore", cloneDirName(target)),
	}
	p.logger.Info("cloning repository", zap.String("url", target), zap.String("dir", cloner.TargetDir))
	return cloner.Clone(ctx)
}

func (p *Pipeline) finishRun(runID string, state storage.RunState, reportPath string) {
	if p.store == nil {
		return
	}
	// Run bookkeeping must survive caller cancellation.
	if err := p.store.FinishRun(context.Background(), runID, state, reportPath); err != nil {
		p.logger.Warn("failed to finish run", zap.String("run", runID), zap.Error(err))
	}
}

func cloneDirName(url string) string {
	base := filepath.Base(url)
	if ext := filepath.Ext(base); ext == ".git" {
		base = base[:len(base)-len(ext)]
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "repo"
	}
	return base
}
