package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/codelore/internal/config"
	"github.com/dshills/codelore/internal/logging"
	"github.com/dshills/codelore/internal/oracle"
	"github.com/dshills/codelore/internal/pipeline"
	"github.com/dshills/codelore/internal/storage"
)

func newAnalyzeCmd(root *rootFlags) *cobra.Command {
	var (
		output       string
		concurrency  int
		maxRetries   int
		baseDelay    float64
		chunkSize    int
		chunkOverlap int
		dbPath       string
		provider     string
		model        string
	)

	cmd := &cobra.Command{
		Use:   "analyze <source>",
		Short: "Analyze a codebase and write the knowledge report",
		Long: `Analyze chunks the source tree, runs every chunk through the oracle,
and writes the merged knowledge report as JSON. Source is a local
directory or a git URL (cloned shallowly first).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}

			// Flags beat config file and environment.
			if cmd.Flags().Changed("concurrency") {
				cfg.Concurrency = concurrency
			}
			if cmd.Flags().Changed("max-retries") {
				cfg.MaxRetries = maxRetries
			}
			if cmd.Flags().Changed("base-delay") {
				cfg.BaseDelaySeconds = baseDelay
			}
			if cmd.Flags().Changed("chunk-size") {
				cfg.ChunkSizeChars = chunkSize
			}
			if cmd.Flags().Changed("chunk-overlap") {
				cfg.ChunkOverlapChars = chunkOverlap
			}
			if cmd.Flags().Changed("db") {
				cfg.DBPath = dbPath
			}
			if cmd.Flags().Changed("provider") {
				cfg.Provider = provider
			}
			if cmd.Flags().Changed("model") {
				cfg.Model = model
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := logging.New(root.verbose)
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			transport, err := newTransport(ctx, cfg)
			if err != nil {
				return err
			}
			client := oracle.NewClient(transport, oracle.ClientConfig{
				Retry: oracle.RetryConfig{
					MaxRetries: cfg.MaxRetries,
					BaseDelay:  cfg.BaseDelay(),
				},
				CacheSize: oracle.DefaultCacheSize,
				Logger:    logger,
			})
			defer func() { _ = client.Close() }()

			var store storage.Storage
			if cfg.DBPath != "" {
				s, err := storage.NewSQLiteStore(cfg.DBPath)
				if err != nil {
					return err
				}
				defer func() { _ = s.Close() }()
				store = s
			}

			result, err := pipeline.New(cfg, client, store, logger).Run(ctx, args[0], output)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Analyzed %d chunks\n", result.ChunkCount)
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", result.ReportPath)
			if store != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Run recorded as %s\n", result.RunID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "report output path")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", config.DefaultConcurrency, "number of concurrent chunk analyses")
	cmd.Flags().IntVar(&maxRetries, "max-retries", config.DefaultMaxRetries, "retry attempts per chunk on rate limits")
	cmd.Flags().Float64Var(&baseDelay, "base-delay", config.DefaultBaseDelaySeconds, "base backoff delay in seconds")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", config.DefaultChunkSizeChars, "chunk size in characters")
	cmd.Flags().IntVar(&chunkOverlap, "chunk-overlap", config.DefaultChunkOverlapChars, "chunk overlap in characters")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database for run history (disabled when empty)")
	cmd.Flags().StringVar(&provider, "provider", "", "oracle provider (openai, gemini)")
	cmd.Flags().StringVar(&model, "model", "", "oracle model name")

	return cmd
}

// newTransport builds the oracle transport from config, falling back
// to environment auto-detection when no provider is configured.
func newTransport(ctx context.Context, cfg config.Config) (oracle.Transport, error) {
	if cfg.Provider == "" {
		return oracle.NewTransportFromEnv(ctx)
	}
	return oracle.NewTransport(ctx, oracle.TransportConfig{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		BaseURL:  cfg.BaseURL,
	})
}
