// Command contentd runs the content engine: a CLI and MCP server over
// the router's browse/fetch/search/publish/delete/dump operations.
package main

import "os"

// Exit codes: 0 on success, 1 on any tool or startup error. Error
// bodies are printed by printError before RunE returns, so main only
// needs to choose the exit code.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
