// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dispatch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinymcp/tinymcp/internal/registry"
	"github.com/tinymcp/tinymcp/internal/transport"
	"github.com/tinymcp/tinymcp/internal/wire"
	"github.com/tinymcp/tinymcp/logger"
	"github.com/tinymcp/tinymcp/value"
)

func newTestDispatcher() (*Dispatcher, *registry.Registry) {
	reg := registry.New()
	return New("test", "0.0.1", reg, logger.NewMCPLogger(nil, true)), reg
}

func handleAndDecode(t *testing.T, d *Dispatcher, raw string) map[string]any {
	t.Helper()

	lines := handleAndDecodeAll(t, d, raw)
	require.NotEmpty(t, lines)
	return lines[0]
}

// handleAndDecodeAll drives one Handle call and returns every line it
// wrote (a "tools/call" with a progress token writes a notification
// before and after its response).
func handleAndDecodeAll(t *testing.T, d *Dispatcher, raw string) []map[string]any {
	t.Helper()

	var buf bytes.Buffer
	out := transport.NewWriter(&buf)
	err := d.Handle(context.Background(), []byte(raw), out)
	require.NoError(t, err)

	var lines []map[string]any
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		lines = append(lines, m)
	}
	return lines
}

func TestInitializeTwiceIsRejected(t *testing.T) {
	d, _ := newTestDispatcher()

	first := handleAndDecode(t, d, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	assert.NotNil(t, first["result"])

	second := handleAndDecode(t, d, `{"jsonrpc":"2.0","id":2,"method":"initialize","params":{}}`)
	errObj := second["error"].(map[string]any)
	assert.Equal(t, float64(wire.CodeAlreadyInitialized), errObj["code"])
}

func TestUnknownMethodAfterInit(t *testing.T) {
	d, _ := newTestDispatcher()
	handleAndDecode(t, d, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)

	resp := handleAndDecode(t, d, `{"jsonrpc":"2.0","id":2,"method":"nope"}`)
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(wire.CodeMethodNotFound), errObj["code"])
}

func TestSetLevelRejectsUnknownLevel(t *testing.T) {
	d, _ := newTestDispatcher()
	handleAndDecode(t, d, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)

	resp := handleAndDecode(t, d, `{"jsonrpc":"2.0","id":2,"method":"logging/setLevel","params":{"level":"loud"}}`)
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(wire.CodeInvalidParams), errObj["code"])
}

func TestToolsCallUsesTopLevelProgressToken(t *testing.T) {
	d, reg := newTestDispatcher()
	require.NoError(t, reg.Add(registry.ToolDescriptor{
		Name:   "noop",
		Schema: value.FromObject(value.NewObject()),
		Invoke: func(_ context.Context, _ value.Value) registry.Outcome {
			return registry.Outcome{Value: value.String("done")}
		},
	}))
	handleAndDecode(t, d, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)

	lines := handleAndDecodeAll(t, d,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"noop","arguments":{},"progressToken":"tok-1"}}`)
	require.Len(t, lines, 3)

	before := lines[0]
	assert.Equal(t, "$/progress", before["method"])
	beforeParams := before["params"].(map[string]any)
	assert.Equal(t, "tok-1", beforeParams["progressToken"])
	assert.Equal(t, float64(0), beforeParams["progress"])
	assert.Contains(t, beforeParams, "total")
	assert.Nil(t, beforeParams["total"])

	after := lines[1]
	assert.Equal(t, "$/progress", after["method"])
	afterParams := after["params"].(map[string]any)
	assert.Equal(t, float64(100), afterParams["progress"])
	assert.Equal(t, float64(100), afterParams["total"])

	result := lines[2]["result"].(map[string]any)
	assert.Equal(t, false, result["isError"])
}

// TestProgressTokenUnderMetaIsIgnored pins down that progressToken is a
// top-level tools/call params field, not nested under "_meta" — a client
// still using the older nested shape simply gets no progress stream.
func TestProgressTokenUnderMetaIsIgnored(t *testing.T) {
	d, reg := newTestDispatcher()
	require.NoError(t, reg.Add(registry.ToolDescriptor{
		Name:   "noop",
		Schema: value.FromObject(value.NewObject()),
		Invoke: func(_ context.Context, _ value.Value) registry.Outcome {
			return registry.Outcome{Value: value.String("done")}
		},
	}))
	handleAndDecode(t, d, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)

	lines := handleAndDecodeAll(t, d,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"noop","arguments":{},"_meta":{"progressToken":"tok-1"}}}`)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "result")
}

func TestShouldLogRespectsThreshold(t *testing.T) {
	d, _ := newTestDispatcher()
	d.minLogLevel = "warning"

	assert.False(t, d.shouldLog("debug"))
	assert.True(t, d.shouldLog("error"))
}
