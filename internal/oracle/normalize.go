package oracle

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var trailingCommaRE = regexp.MustCompile(`,\s*([}\]])`)

// CleanJSON normalizes a raw oracle response so that it parses as a
// JSON object: everything before the first '{' and after the last '}'
// is dropped, and trailing commas before a closing brace or bracket
// are removed.
func CleanJSON(raw string) string {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return ""
	}
	s := raw[start : end+1]
	s = trailingCommaRE.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}

// analysisPayload is the JSON shape the chunk prompt requests. Fields
// are tolerant of absence; methods entries missing any field still
// decode with empty strings.
type analysisPayload struct {
	Overview   *string `json:"overview"`
	Complexity *string `json:"complexity"`
	Notes      *string `json:"notes"`
	Methods    []struct {
		Name        string `json:"name"`
		Signature   string `json:"signature"`
		Description string `json:"description"`
	} `json:"methods"`
}

// parseAnalysis cleans and decodes a raw oracle response.
func parseAnalysis(raw string) (*analysisPayload, error) {
	cleaned := CleanJSON(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("no JSON object in oracle response")
	}
	var payload analysisPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("decode oracle response: %w", err)
	}
	return &payload, nil
}

// parseObject cleans and decodes a raw response into a generic map,
// used by the project-summary step.
func parseObject(raw string) (map[string]any, error) {
	cleaned := CleanJSON(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("no JSON object in oracle response")
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		return nil, fmt.Errorf("decode oracle response: %w", err)
	}
	return obj, nil
}
