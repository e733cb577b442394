// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package logger provides tinymcp's ambient logging surface: a CLILogger
// for human-facing command output and an MCPLogger for the server's own
// diagnostics, which is silent by default so it never writes a stray
// line into the stdio transport's JSON-RPC stream.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Logger is the common surface both the CLI and the MCP server log
// through, so a caller can hold one Logger value without caring which
// mode it's running in.
type Logger interface {
	// Printf formats and logs a message.
	Printf(format string, v ...any)
	// Println logs a message with its arguments space-separated.
	Println(v ...any)
	// SetOutput redirects where log output goes.
	SetOutput(w io.Writer)
}

// CLILogger implements Logger with plain, timestamp-free output,
// suitable for a human watching a terminal.
type CLILogger struct{ logger *log.Logger }

// NewCLILogger returns a CLILogger writing to os.Stdout.
func NewCLILogger() *CLILogger {
	return &CLILogger{logger: log.New(os.Stdout, "", 0)}
}

// Printf formats and prints a log message.
func (c *CLILogger) Printf(format string, v ...any) { c.logger.Printf(format, v...) }

// Println prints a log message with a trailing newline.
func (c *CLILogger) Println(v ...any) { c.logger.Println(v...) }

// SetOutput sets the CLI logger's output destination.
func (c *CLILogger) SetOutput(w io.Writer) { c.logger.SetOutput(w) }

// MCPLogger implements Logger for use inside an MCP server. Its output
// shares nothing with stdout by default: an MCP client reads stdout as a
// strict stream of JSON-RPC lines, so a stray diagnostic there would be
// a protocol violation, not just noise. Enable it explicitly with a
// writer that is not the transport's own stdout (e.g. a debug file or
// stderr).
//
// MCPLogger is safe for concurrent use.
type MCPLogger struct {
	mu     sync.Mutex
	writer io.Writer
	silent bool
}

// NewMCPLogger returns an MCPLogger. If silent is true, Printf/Println
// are no-ops regardless of writer.
func NewMCPLogger(writer io.Writer, silent bool) *MCPLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &MCPLogger{writer: writer, silent: silent}
}

// Printf formats v into a single structured JSON log line.
func (m *MCPLogger) Printf(format string, v ...any) {
	m.emit(fmt.Sprintf(format, v...))
}

// Println joins v into a single structured JSON log line.
func (m *MCPLogger) Println(v ...any) {
	m.emit(fmt.Sprint(v...))
}

func (m *MCPLogger) emit(msg string) {
	if m.silent {
		return
	}

	entry := map[string]any{"level": "info", "message": msg}
	data, _ := json.Marshal(entry)

	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Fprintln(m.writer, string(data))
}

// SetOutput redirects the MCP logger's output; a nil w discards output.
func (m *MCPLogger) SetOutput(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w == nil {
		m.writer = io.Discard
	} else {
		m.writer = w
	}
}
