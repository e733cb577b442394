// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPLoggerSilentByDefaultDropsEverything(t *testing.T) {
	var buf bytes.Buffer
	l := NewMCPLogger(&buf, true)

	l.Println("should not appear")
	l.Printf("nor %s", "this")

	assert.Empty(t, buf.String())
}

func TestMCPLoggerEmitsStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewMCPLogger(&buf, false)

	l.Printf("hello %s", "world")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello world", entry["message"])
	assert.Equal(t, "info", entry["level"])
}

func TestMCPLoggerSetOutputNilDiscards(t *testing.T) {
	var buf bytes.Buffer
	l := NewMCPLogger(&buf, false)
	l.SetOutput(nil)

	l.Println("gone")

	assert.Empty(t, buf.String())
}

func TestCLILoggerWritesPlainText(t *testing.T) {
	var buf bytes.Buffer
	l := NewCLILogger()
	l.SetOutput(&buf)

	l.Println("plain message")

	assert.Equal(t, "plain message\n", buf.String())
}
