package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/dshills/codelore/internal/config"
	"github.com/dshills/codelore/internal/storage"
	"github.com/dshills/codelore/pkg/types"
)

type stubOracle struct{}

func (stubOracle) Analyze(_ context.Context, chunk types.Chunk) types.AnalysisResult {
	overview := "handles " + chunk.FileID
	return types.AnalysisResult{Overview: &overview}
}

func (stubOracle) Summarize(_ context.Context, _ string) map[string]any {
	return map[string]any{"readme_summary": "a test project"}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "codelore.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := config.Default()
	cfg.OutputPath = filepath.Join(t.TempDir(), "report.json")
	return newServer(cfg, store, stubOracle{}, nil)
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "tool results are text content")

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	return payload
}

func writeSourceTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"),
		[]byte("package main\n\nfunc main() {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "parser.go"),
		[]byte("package main\n\nfunc parse(input string) error { return nil }\n"), 0o644))
	return root
}

func TestAnalyzeCodebaseTool(t *testing.T) {
	s := newTestServer(t)
	root := writeSourceTree(t)

	result, err := s.handleAnalyzeCodebase(context.Background(), toolRequest(map[string]interface{}{
		"source": root,
	}))
	require.NoError(t, err)

	payload := resultJSON(t, result)
	require.NotEmpty(t, payload["run_id"])
	require.Equal(t, s.cfg.OutputPath, payload["report_path"])
	require.Greater(t, payload["chunks"].(float64), 0.0)
	require.Equal(t, payload["chunks"], payload["overview"])
}

func TestAnalyzeCodebaseInvalidSource(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleAnalyzeCodebase(context.Background(), toolRequest(map[string]interface{}{
		"source": filepath.Join(t.TempDir(), "missing"),
	}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	require.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestAnalyzeCodebaseMissingParam(t *testing.T) {
	s := newTestServer(t)
	_, err := s.handleAnalyzeCodebase(context.Background(), toolRequest(map[string]interface{}{}))
	require.Error(t, err)
}

func TestQueryKnowledgeTool(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)
	root := writeSourceTree(t)

	_, err := s.handleAnalyzeCodebase(ctx, toolRequest(map[string]interface{}{"source": root}))
	require.NoError(t, err)

	result, err := s.handleQueryKnowledge(ctx, toolRequest(map[string]interface{}{
		"query": "handles parser.go",
		"limit": float64(3),
	}))
	require.NoError(t, err)

	payload := resultJSON(t, result)
	hits := payload["results"].([]interface{})
	require.NotEmpty(t, hits)

	top := hits[0].(map[string]interface{})
	require.Equal(t, "parser.go", top["file"])
}

func TestQueryKnowledgeEmptyQuery(t *testing.T) {
	s := newTestServer(t)
	_, err := s.handleQueryKnowledge(context.Background(), toolRequest(map[string]interface{}{
		"query": "",
	}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	require.Equal(t, ErrorCodeEmptyQuery, mcpErr.Code)
}

func TestQueryKnowledgeMissingReport(t *testing.T) {
	s := newTestServer(t)
	_, err := s.handleQueryKnowledge(context.Background(), toolRequest(map[string]interface{}{
		"query": "anything",
	}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	require.Equal(t, ErrorCodeReportNotFound, mcpErr.Code)
}

func TestGetStatusTool(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)
	root := writeSourceTree(t)

	analyzed, err := s.handleAnalyzeCodebase(ctx, toolRequest(map[string]interface{}{"source": root}))
	require.NoError(t, err)
	runID := resultJSON(t, analyzed)["run_id"].(string)

	// Explicit run ID and latest-run default both resolve.
	for _, args := range []map[string]interface{}{
		{"run_id": runID},
		{},
	} {
		result, err := s.handleGetStatus(ctx, toolRequest(args))
		require.NoError(t, err)

		payload := resultJSON(t, result)
		require.Equal(t, true, payload["analyzed"])

		run := payload["run"].(map[string]interface{})
		require.Equal(t, runID, run["id"])
		require.Equal(t, "completed", run["state"])

		stats := payload["statistics"].(map[string]interface{})
		require.Greater(t, stats["chunks_stored"].(float64), 0.0)
		require.Equal(t, 0.0, stats["outcomes_error"].(float64))
	}
}

func TestGetStatusNoRuns(t *testing.T) {
	s := newTestServer(t)
	result, err := s.handleGetStatus(context.Background(), toolRequest(map[string]interface{}{}))
	require.NoError(t, err)

	payload := resultJSON(t, result)
	require.Equal(t, false, payload["analyzed"])
}

func TestGetStatusUnknownRun(t *testing.T) {
	s := newTestServer(t)
	_, err := s.handleGetStatus(context.Background(), toolRequest(map[string]interface{}{
		"run_id": "does-not-exist",
	}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	require.Equal(t, ErrorCodeRunNotFound, mcpErr.Code)
}
