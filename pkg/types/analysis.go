package types

import "fmt"

// ErrorKind classifies a failed chunk analysis.
type ErrorKind string

const (
	// KindParseError marks oracle output that could not be parsed as
	// JSON. Malformed output is not transient and is never retried.
	KindParseError ErrorKind = "ParseError"

	// KindRateLimitExceeded marks a chunk whose retries were exhausted
	// against a rate-limiting oracle.
	KindRateLimitExceeded ErrorKind = "RateLimitExceeded"

	// KindOracleError marks any other transport or invocation fault.
	KindOracleError ErrorKind = "OracleError"

	// KindReadmeSummaryError marks a failed project-summary call. It is
	// recorded inline in project_info and is never fatal.
	KindReadmeSummaryError ErrorKind = "ReadmeSummaryError"
)

// MethodFact is one extracted method or function description. Equality
// is structural: two facts are duplicates iff all three fields match.
type MethodFact struct {
	Name        string `json:"name"`
	Signature   string `json:"signature"`
	Description string `json:"description"`
}

// Key returns the structural identity used for deduplication.
func (m MethodFact) Key() string {
	return m.Name + "\x00" + m.Signature + "\x00" + m.Description
}

// AnalysisResult is the oracle output for one chunk: either a
// successful extraction or a classified failure. ErrorKind is empty
// exactly when the result is a success.
//
// Overview, Complexity, and Notes are optional: a nil pointer means
// the oracle omitted the key, which is distinct from an empty string.
// The aggregator folds a field only when it is present.
type AnalysisResult struct {
	// Success fields
	Overview   *string
	Methods    []MethodFact
	Complexity *string
	Notes      *string

	// Raw holds the normalized response text, kept so that a success
	// with no recognized keys can still contribute a note.
	Raw string

	// Failure fields
	ErrorKind ErrorKind
	Message   string
}

// OK reports whether the result is the success variant.
func (r AnalysisResult) OK() bool {
	return r.ErrorKind == ""
}

// Failure constructs the failure variant of AnalysisResult.
func Failure(kind ErrorKind, format string, args ...any) AnalysisResult {
	return AnalysisResult{
		ErrorKind: kind,
		Message:   fmt.Sprintf(format, args...),
	}
}

// FailureNote renders the failure as the human-readable form recorded
// in the aggregate's notes: "<errorKind>: <message>".
func (r AnalysisResult) FailureNote() string {
	return fmt.Sprintf("%s: %s", r.ErrorKind, r.Message)
}

// Outcome pairs a chunk with its analysis result. The dispatcher emits
// exactly one Outcome per input chunk, in completion order.
type Outcome struct {
	Chunk  Chunk
	Result AnalysisResult
}
