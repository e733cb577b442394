// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tinymcp/tinymcp"
	"github.com/tinymcp/tinymcp/logger"
)

// echoParams mirrors the echo tool from the reference transport scenarios:
// a required message and a repeat count that defaults to 1 when the
// caller omits it.
type echoParams struct {
	Message string `json:"message"`
	Count   int    `json:"count" default:"1"`
}

type echoResult struct {
	Text string `json:"text"`
}

// traceParams asks for nothing; the tool mints a fresh correlation id per
// call so a client can see that invocations aren't memoized across calls.
type traceParams struct {
	Label string `json:"label,omitempty" default:"\"\""`
}

type traceResult struct {
	CorrelationID string `json:"correlationId"`
	Label         string `json:"label,omitempty"`
}

// registerDemoTools wires the demo binary's example tools into s. log
// receives one line per call for operational visibility; it is the same
// logger.Logger the server itself uses internally.
func registerDemoTools(s *tinymcp.Server, log logger.Logger) error {
	if err := tinymcp.AddTool(s, "echo", "Echoes the given message back, optionally repeated", func(_ context.Context, p echoParams) (echoResult, error) {
		if p.Count < 1 {
			return echoResult{}, fmt.Errorf("count must be >= 1, got %d", p.Count)
		}
		parts := make([]string, p.Count)
		for i := range parts {
			parts[i] = p.Message
		}
		return echoResult{Text: strings.Join(parts, " ")}, nil
	}); err != nil {
		return fmt.Errorf("registering echo: %w", err)
	}

	if err := tinymcp.AddTool(s, "trace", "Mints a correlation id for this call", func(_ context.Context, p traceParams) (traceResult, error) {
		id := uuid.New().String()
		log.Printf("trace call id=%s label=%q", id, p.Label)
		return traceResult{CorrelationID: id, Label: p.Label}, nil
	}); err != nil {
		return fmt.Errorf("registering trace: %w", err)
	}

	return nil
}
