// Command codelore analyzes a codebase with a language-model oracle
// and writes the extracted knowledge to a JSON report. It can also run
// as an MCP server so coding assistants can trigger analyses directly.
package main

import (
	"os"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
