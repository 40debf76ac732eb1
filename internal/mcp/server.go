// Package mcp exposes the analysis pipeline and its reports over the
// Model Context Protocol, so coding assistants can trigger analyses
// and query the extracted knowledge.
package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/dshills/codelore/internal/config"
	"github.com/dshills/codelore/internal/oracle"
	"github.com/dshills/codelore/internal/pipeline"
	"github.com/dshills/codelore/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "codelore"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp    *server.MCPServer
	cfg    config.Config
	store  storage.Storage
	pipe   *pipeline.Pipeline
	logger *zap.Logger
}

// NewServer wires a server from configuration: storage at the
// configured path and an oracle transport from the environment.
func NewServer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Server, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".codelore", "codelore.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	transport, err := oracle.NewTransportFromEnv(ctx)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize oracle: %w", err)
	}
	client := oracle.NewClient(transport, oracle.ClientConfig{
		Retry: oracle.RetryConfig{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  cfg.BaseDelay(),
		},
		CacheSize: oracle.DefaultCacheSize,
		Logger:    logger,
	})

	return newServer(cfg, store, client, logger), nil
}

// newServer assembles the server around explicit dependencies.
func newServer(cfg config.Config, store storage.Storage, orc pipeline.Oracle, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		mcp:    server.NewMCPServer(ServerName, ServerVersion),
		cfg:    cfg,
		store:  store,
		pipe:   pipeline.New(cfg, orc, store, logger),
		logger: logger,
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.store.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(analyzeCodebaseTool(), s.handleAnalyzeCodebase)
	s.mcp.AddTool(queryKnowledgeTool(), s.handleQueryKnowledge)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}
