// Package types provides shared type definitions for codelore.
//
// This package defines the domain types that flow through the analysis
// pipeline: source chunks, per-chunk oracle results, and the merged
// knowledge aggregate.
//
// # Core Types
//
// Chunk is a bounded-size slice of source text with a stable identity:
//
//	chunk := types.Chunk{
//	    FileID: "internal/server/server.go",
//	    Index:  3,
//	    Text:   sourceSlice,
//	}
//
// AnalysisResult is the outcome of analyzing one chunk. It is a tagged
// variant: either a successful extraction or a classified failure.
// Exactly one variant holds per completed chunk:
//
//	if result.OK() {
//	    // use result.Overview, result.Methods, ...
//	} else {
//	    // use result.ErrorKind, result.Message
//	}
//
// Aggregate is the final report merged from all chunk outcomes. Its
// JSON field names (project_info, overview, methods, complexity,
// notes) are fixed for downstream compatibility.
package types
