package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// analyzeCodebaseTool returns the tool definition for analyze_codebase
func analyzeCodebaseTool() mcp.Tool {
	return mcp.Tool{
		Name:        "analyze_codebase",
		Description: "Analyze a codebase with the configured language-model oracle and produce a knowledge report",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Local directory or git URL of the codebase to analyze",
				},
				"output": map[string]interface{}{
					"type":        "string",
					"description": "Path for the JSON knowledge report (configured default when omitted)",
				},
			},
			Required: []string{"source"},
		},
	}
}

// queryKnowledgeTool returns the tool definition for query_knowledge
func queryKnowledgeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "query_knowledge",
		Description: "Search a previously generated knowledge report with a natural language query",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (natural language or keywords)",
				},
				"report": map[string]interface{}{
					"type":        "string",
					"description": "Path to the knowledge report (configured default when omitted)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"query"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query the state and statistics of an analysis run (the most recent one when run_id is omitted)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"run_id": map[string]interface{}{
					"type":        "string",
					"description": "Run identifier returned by analyze_codebase",
				},
			},
		},
	}
}
