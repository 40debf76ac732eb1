package oracle

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dshills/codelore/pkg/types"
)

// DefaultCacheSize is the default number of cached chunk analyses.
const DefaultCacheSize = 10000

// ClientConfig configures an oracle Client.
type ClientConfig struct {
	Retry     RetryConfig
	CacheSize int         // 0 disables the response cache
	RateLimit rate.Limit  // requests/sec; 0 disables proactive throttling
	Logger    *zap.Logger // nil for no logging
}

// Client drives chunk analyses through a Transport. It holds no
// per-call mutable state; invocations are independent and safe to run
// concurrently. Backoff sleeps suspend only the invoking goroutine.
type Client struct {
	transport Transport
	retry     RetryConfig
	cache     *lru.Cache[string, types.AnalysisResult]
	limiter   *rate.Limiter
	logger    *zap.Logger
	sleep     sleepFunc
}

// NewClient creates a Client over the given transport.
func NewClient(transport Transport, cfg ClientConfig) *Client {
	if cfg.Retry.MaxRetries <= 0 {
		cfg.Retry = DefaultRetryConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	c := &Client{
		transport: transport,
		retry:     cfg.Retry,
		logger:    cfg.Logger,
		sleep:     sleepContext,
	}
	if cfg.CacheSize > 0 {
		// lru.New only fails for non-positive sizes.
		c.cache, _ = lru.New[string, types.AnalysisResult](cfg.CacheSize)
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(cfg.RateLimit, 1)
	}
	return c
}

// Analyze runs one chunk through the oracle. It never returns an
// error: all failures are captured as the failure variant of
// AnalysisResult. Transient rate-limit errors are retried with
// exponential backoff (BaseDelay × 2^attempt) up to MaxRetries
// attempts; parse and other transport errors are terminal.
func (c *Client) Analyze(ctx context.Context, chunk types.Chunk) types.AnalysisResult {
	hash := chunk.Hash()
	if c.cache != nil {
		if cached, ok := c.cache.Get(hash); ok {
			return cached
		}
	}

	prompt := BuildChunkPrompt(chunk.Text)

	for attempt := 0; attempt < c.retry.MaxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return types.Failure(types.KindOracleError, "%v", err)
			}
		}

		raw, err := c.transport.Call(ctx, prompt)
		if err != nil {
			if !IsRateLimited(err) {
				return types.Failure(types.KindOracleError, "%v", err)
			}

			c.logger.Warn("rate limit hit",
				zap.String("chunk", chunk.ID()),
				zap.Int("attempt", attempt+1),
				zap.Int("max_retries", c.retry.MaxRetries),
				zap.Duration("delay", c.retry.Delay(attempt)),
			)
			if attempt == c.retry.MaxRetries-1 {
				break
			}
			if err := c.sleep(ctx, c.retry.Delay(attempt)); err != nil {
				return types.Failure(types.KindOracleError, "%v", err)
			}
			continue
		}

		payload, perr := parseAnalysis(raw)
		if perr != nil {
			// Malformed output is not transient; do not retry.
			return types.Failure(types.KindParseError, "%v", perr)
		}

		result := payloadToResult(payload, raw)
		if c.cache != nil {
			c.cache.Add(hash, result)
		}
		return result
	}

	return types.Failure(types.KindRateLimitExceeded,
		"rate limit exceeded after %d retries", c.retry.MaxRetries)
}

// Summarize issues the single best-effort project-summary call. A nil
// document returns nil immediately; any failure is reported inline as
// {"readme_error": message} and never as an error.
func (c *Client) Summarize(ctx context.Context, document string) map[string]any {
	if document == "" {
		return nil
	}

	raw, err := c.transport.Call(ctx, BuildReadmePrompt(document))
	if err != nil {
		c.logger.Warn("project summary failed", zap.Error(err))
		return map[string]any{"readme_error": err.Error()}
	}

	obj, err := parseObject(raw)
	if err != nil {
		c.logger.Warn("project summary unparsable", zap.Error(err))
		return map[string]any{"readme_error": err.Error()}
	}
	return obj
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.transport.Close()
}

func payloadToResult(p *analysisPayload, raw string) types.AnalysisResult {
	result := types.AnalysisResult{
		Overview:   p.Overview,
		Complexity: p.Complexity,
		Notes:      p.Notes,
		Raw:        CleanJSON(raw),
	}
	for _, m := range p.Methods {
		result.Methods = append(result.Methods, types.MethodFact{
			Name:        m.Name,
			Signature:   m.Signature,
			Description: m.Description,
		})
	}
	return result
}
