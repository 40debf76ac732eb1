package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/codelore/internal/index"
	"github.com/dshills/codelore/internal/report"
	"github.com/dshills/codelore/internal/source"
	"github.com/dshills/codelore/internal/storage"
	"github.com/dshills/codelore/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams  = -32602 // Invalid method parameters
	ErrorCodeInternalError  = -32603 // Internal JSON-RPC error
	ErrorCodeRunNotFound    = -32001 // No run with the given ID
	ErrorCodeReportNotFound = -32002 // Report file missing or unreadable
	ErrorCodeEmptyQuery     = -32003 // Query parameter is empty
)

// handleAnalyzeCodebase handles the analyze_codebase tool invocation
func (s *Server) handleAnalyzeCodebase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	target, ok := args["source"].(string)
	if !ok || target == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "source parameter is required", map[string]interface{}{
			"param":  "source",
			"reason": "missing or empty",
		})
	}
	if !source.IsRemote(target) {
		if err := validateDir(target); err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid source", map[string]interface{}{
				"param":  "source",
				"reason": err.Error(),
			})
		}
	}

	output := getStringDefault(args, "output", "")

	result, err := s.pipe.Run(ctx, target, output)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "analysis failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	failures := 0
	for _, n := range result.Aggregate.Notes {
		if n.Notes != "" {
			failures++
		}
	}

	response := map[string]interface{}{
		"run_id":      result.RunID,
		"report_path": result.ReportPath,
		"chunks":      result.ChunkCount,
		"overview":    len(result.Aggregate.Overview),
		"methods":     len(result.Aggregate.Methods),
		"complexity":  len(result.Aggregate.Complexity),
		"notes":       len(result.Aggregate.Notes),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleQueryKnowledge handles the query_knowledge tool invocation
func (s *Server) handleQueryKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	reportPath := getStringDefault(args, "report", s.cfg.OutputPath)
	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	agg, err := report.Load(reportPath)
	if err != nil {
		return nil, newMCPError(ErrorCodeReportNotFound, "report not available", map[string]interface{}{
			"report": reportPath,
			"error":  err.Error(),
		})
	}

	hits := queryAggregate(agg, query, limit)
	response := map[string]interface{}{
		"query":   query,
		"report":  reportPath,
		"results": hits,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// queryAggregate ranks the report's per-chunk findings against the
// query using the cosine index.
func queryAggregate(agg *types.Aggregate, query string, limit int) []map[string]interface{} {
	idx := index.NewCosineIndex()

	var entries []types.Chunk
	for _, e := range agg.Overview {
		entries = append(entries, types.Chunk{FileID: e.FileID, Index: e.Index, Text: e.Overview})
	}
	for _, e := range agg.Notes {
		entries = append(entries, types.Chunk{FileID: e.FileID, Index: e.Index, Text: e.Notes})
	}
	for i, m := range agg.Methods {
		entries = append(entries, types.Chunk{
			FileID: "method:" + m.Name,
			Index:  i,
			Text:   m.Signature + " " + m.Description,
		})
	}
	idx.Add(entries)

	refs := idx.Query(query, limit)
	hits := make([]map[string]interface{}, 0, len(refs))
	for _, ref := range refs {
		hits = append(hits, map[string]interface{}{
			"file":        ref.FileID,
			"chunk_index": ref.Index,
			"score":       fmt.Sprintf("%.4f", ref.Score),
			"text":        ref.Text,
		})
	}
	return hits
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	runID := getStringDefault(args, "run_id", "")
	if runID == "" {
		runs, err := s.store.ListRuns(ctx, 1)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to list runs", map[string]interface{}{
				"error": err.Error(),
			})
		}
		if len(runs) == 0 {
			response := map[string]interface{}{
				"analyzed": false,
				"message":  "No analysis runs recorded. Use analyze_codebase to start one.",
			}
			return mcp.NewToolResultText(formatJSON(response)), nil
		}
		runID = runs[0].ID
	}

	status, err := s.store.Status(ctx, runID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeRunNotFound, "run not found", map[string]interface{}{
			"run_id": runID,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	run := status.Run
	response := map[string]interface{}{
		"analyzed": true,
		"run": map[string]interface{}{
			"id":          run.ID,
			"source":      run.Source,
			"model":       run.Model,
			"state":       string(run.State),
			"report_path": run.ReportPath,
			"created_at":  run.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		},
		"statistics": map[string]interface{}{
			"chunks_stored":  status.ChunksStored,
			"outcomes_ok":    status.OutcomesOK,
			"outcomes_error": status.OutcomesError,
			"db_size_mb":     fmt.Sprintf("%.2f", status.DBSizeMB),
		},
	}
	if !run.FinishedAt.IsZero() {
		response["run"].(map[string]interface{})["finished_at"] = run.FinishedAt.Format("2006-01-02T15:04:05Z07:00")
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validateDir checks that a local source path is a readable directory
func validateDir(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}
	if !info.IsDir() {
		return ErrNotDirectory
	}
	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()
	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotDirectory    = errors.New("path is not a directory")
)
