// Package oracle wraps calls to the external text-analysis oracle (an
// LLM chat-completion endpoint) behind a transport abstraction, and
// owns the retry, backoff, and response-normalization policy.
//
// The Client never returns an error from Analyze: every failure is
// captured and classified into the failure variant of
// types.AnalysisResult, so one slow or broken chunk can never abort
// the pipeline.
//
// Providers implement the Transport interface. OpenAI-compatible HTTP
// endpoints and the Gemini API are supported; selection follows
// explicit configuration or environment detection.
package oracle
