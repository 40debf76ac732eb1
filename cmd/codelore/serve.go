package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/codelore/internal/config"
	"github.com/dshills/codelore/internal/logging"
	"github.com/dshills/codelore/internal/mcp"
)

func newServeCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Serve exposes analyze_codebase, query_knowledge, and get_status as MCP
tools over stdio. Log output goes to stderr; stdout carries the
protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}

			logger := logging.New(root.verbose)
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server, err := mcp.NewServer(ctx, cfg, logger)
			if err != nil {
				return err
			}

			logger.Info("MCP server ready, listening on stdio",
				zap.String("version", version))
			return server.Serve(ctx)
		},
	}
}
