// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Command tinymcp-demo is a minimal stdio MCP server exercising the
// tinymcp library: it registers a couple of example tools and serves
// JSON-RPC requests over stdin/stdout until the process receives
// SIGINT/SIGTERM.
package main

import "os"

func main() {
	if err := buildRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
