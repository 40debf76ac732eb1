// Package dispatcher runs oracle analyses over a set of chunks under
// a bounded concurrency cap, delivering one outcome per chunk in
// completion order.
package dispatcher

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/codelore/pkg/types"
)

// Analyzer is the per-chunk oracle invocation the dispatcher drives.
// Implementations must capture all failures in the result; Analyze
// does not return an error.
type Analyzer interface {
	Analyze(ctx context.Context, chunk types.Chunk) types.AnalysisResult
}

// AnalyzerFunc adapts a function to the Analyzer interface.
type AnalyzerFunc func(ctx context.Context, chunk types.Chunk) types.AnalysisResult

// Analyze calls f.
func (f AnalyzerFunc) Analyze(ctx context.Context, chunk types.Chunk) types.AnalysisResult {
	return f(ctx, chunk)
}

// Dispatcher fans chunk analyses out over a worker pool.
type Dispatcher struct {
	analyzer    Analyzer
	concurrency int
	logger      *zap.Logger
}

// New creates a Dispatcher. Concurrency below 1 is raised to 1.
func New(analyzer Analyzer, concurrency int, logger *zap.Logger) *Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		analyzer:    analyzer,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run dispatches every chunk through the analyzer with at most
// `concurrency` invocations in flight. Outcomes are delivered on the
// returned channel in completion order: a chunk that needed fewer
// retries never waits behind a slower one. The channel carries exactly
// one outcome per input chunk and is closed when all chunks have
// reported; no chunk is silently dropped.
//
// Cancellation is best-effort: when ctx is canceled, in-flight calls
// finish or fail on their own, and chunks that have not started are
// reported as failures so accounting still holds.
func (d *Dispatcher) Run(ctx context.Context, chunks []types.Chunk) <-chan types.Outcome {
	// Buffered to len(chunks) so workers never block on a slow
	// consumer and the channel drains even if the caller walks away.
	out := make(chan types.Outcome, len(chunks))

	go func() {
		defer close(out)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(d.concurrency)

		for _, chunk := range chunks {
			if ctx.Err() != nil {
				// Not-yet-started chunks still report an outcome.
				out <- types.Outcome{
					Chunk:  chunk,
					Result: types.Failure(types.KindOracleError, "%v", ctx.Err()),
				}
				continue
			}

			g.Go(func() error {
				out <- types.Outcome{
					Chunk:  chunk,
					Result: d.analyzeSafe(gctx, chunk),
				}
				return nil
			})
		}

		_ = g.Wait()
	}()

	return out
}

// analyzeSafe invokes the analyzer and converts a worker panic into a
// failure outcome, so a faulting chunk cannot take down the pipeline
// or lose its accounting.
func (d *Dispatcher) analyzeSafe(ctx context.Context, chunk types.Chunk) (result types.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("analysis panicked",
				zap.String("chunk", chunk.ID()),
				zap.Any("panic", r),
			)
			result = types.Failure(types.ErrorKind(fmt.Sprintf("%T", r)), "%v", r)
		}
	}()

	d.logger.Debug("analyzing chunk", zap.String("chunk", chunk.ID()))
	return d.analyzer.Analyze(ctx, chunk)
}
