// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package dispatch implements the MCP Dispatcher: the strictly
// sequential read/dispatch/write loop, its New->Ready lifecycle state
// machine, and the wire-level behavior of "initialize", "tools/list",
// "tools/call", and "logging/setLevel".
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tinymcp/tinymcp/internal/registry"
	"github.com/tinymcp/tinymcp/internal/transport"
	"github.com/tinymcp/tinymcp/internal/wire"
	"github.com/tinymcp/tinymcp/logger"
	"github.com/tinymcp/tinymcp/value"
)

// lifecycle is the dispatcher's New->Ready state machine.
type lifecycle int

const (
	lifecycleNew lifecycle = iota
	lifecycleReady
)

// ProtocolVersion is the MCP protocol version string tinymcp reports
// from "initialize".
const ProtocolVersion = "2025-06-18"

var logLevelRank = map[string]int{
	"debug":     0,
	"info":      1,
	"notice":    2,
	"warning":   3,
	"error":     4,
	"critical":  5,
	"alert":     6,
	"emergency": 7,
}

// Dispatcher owns one server's lifecycle state and tool registry, and
// drives one request at a time to completion before the next is read.
type Dispatcher struct {
	name, version string
	reg           *registry.Registry
	log           logger.Logger
	state         lifecycle
	minLogLevel   string
}

// New returns a Dispatcher in the New lifecycle state.
func New(name, version string, reg *registry.Registry, log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.NewMCPLogger(nil, true)
	}
	return &Dispatcher{name: name, version: version, reg: reg, log: log, minLogLevel: "info"}
}

// Handle decodes one line of input, runs it to completion (including any
// "$/progress" notifications a tool call emits), and writes the result
// to out. A malformed line produces a -32700 parse error response with a
// null id, and a notification produces no response bytes; neither is
// itself an error from Handle's point of view — both are valid outcomes
// of strict JSON-RPC handling.
func (d *Dispatcher) Handle(ctx context.Context, raw []byte, out *transport.Writer) error {
	var req wire.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return d.writeResponse(out, wire.NewError(nil, wire.CodeParseError, "parse error: "+err.Error()))
	}

	id := wire.RawID(req.ID)
	isNotification := !req.HasID()

	if req.JSONRPC != wire.Version || req.Method == "" {
		if isNotification {
			return nil
		}
		return d.writeResponse(out, wire.NewError(id, wire.CodeInvalidRequest, "invalid request"))
	}

	if d.state != lifecycleReady && req.Method != "initialize" {
		if isNotification {
			return nil
		}
		return d.writeResponse(out, wire.NewError(id, wire.CodeNotInitialized, "server not initialized"))
	}

	switch req.Method {
	case "initialize":
		return d.handleInitialize(id, isNotification, out)
	case "notifications/initialized", "initialized":
		return nil
	case "tools/list":
		if isNotification {
			return nil
		}
		return d.handleToolsList(id, out)
	case "tools/call":
		if isNotification {
			return nil
		}
		return d.handleToolsCall(ctx, id, req, out)
	case "logging/setLevel":
		if isNotification {
			return nil
		}
		return d.handleSetLevel(id, req, out)
	default:
		if isNotification {
			return nil
		}
		return d.writeResponse(out, wire.NewError(id, wire.CodeMethodNotFound, "method not found: "+req.Method))
	}
}

func (d *Dispatcher) handleInitialize(id any, isNotification bool, out *transport.Writer) error {
	if d.state == lifecycleReady {
		if isNotification {
			return nil
		}
		return d.writeResponse(out, wire.NewError(id, wire.CodeAlreadyInitialized, "already initialized"))
	}
	d.state = lifecycleReady

	if isNotification {
		return nil
	}

	serverInfo := value.NewObject()
	serverInfo.Set("name", value.String(d.name))
	serverInfo.Set("version", value.String(d.version))

	toolsCap := value.NewObject()
	capabilities := value.NewObject()
	capabilities.Set("tools", value.FromObject(toolsCap))

	result := value.NewObject()
	result.Set("protocolVersion", value.String(ProtocolVersion))
	result.Set("serverInfo", value.FromObject(serverInfo))
	result.Set("capabilities", value.FromObject(capabilities))

	return d.writeResponse(out, wire.NewResult(id, value.FromObject(result)))
}

func (d *Dispatcher) handleToolsList(id any, out *transport.Writer) error {
	tools := make([]value.Value, 0, d.reg.Len())
	for _, td := range d.reg.List() {
		entry := value.NewObject()
		entry.Set("name", value.String(td.Name))
		entry.Set("description", value.String(td.Description))
		entry.Set("inputSchema", td.Schema)
		tools = append(tools, value.FromObject(entry))
	}

	result := value.NewObject()
	result.Set("tools", value.Array(tools...))

	return d.writeResponse(out, wire.NewResult(id, value.FromObject(result)))
}

func (d *Dispatcher) handleToolsCall(ctx context.Context, id any, req wire.Request, out *transport.Writer) error {
	params, err := parseParams(req.Params)
	if err != nil {
		return d.writeResponse(out, wire.NewError(id, wire.CodeInvalidParams, "invalid params: "+err.Error()))
	}

	nameVal, _ := params.Get("name")
	name, ok := nameVal.AsString()
	if !ok || name == "" {
		return d.writeResponse(out, wire.NewError(id, wire.CodeInvalidParams, "missing tool name"))
	}

	tool, ok := d.reg.Get(name)
	if !ok {
		return d.writeResponse(out, wire.NewError(id, wire.CodeInvalidParams, "unknown tool: "+name))
	}

	arguments, hasArgs := params.Get("arguments")
	if !hasArgs {
		arguments = value.FromObject(value.NewObject())
	}

	progressToken, hasToken := progressTokenOf(params)
	if hasToken {
		if err := d.sendProgress(out, progressToken, 0, nil); err != nil {
			return err
		}
	}

	outcome := tool.Invoke(ctx, arguments)

	if hasToken {
		total := int64(100)
		if err := d.sendProgress(out, progressToken, 100, &total); err != nil {
			return err
		}
	}

	result := value.NewObject()
	result.Set("content", value.Array(textContentOf(outcome.Value)))
	result.Set("isError", value.Bool(outcome.IsError))

	return d.writeResponse(out, wire.NewResult(id, value.FromObject(result)))
}

func (d *Dispatcher) handleSetLevel(id any, req wire.Request, out *transport.Writer) error {
	params, err := parseParams(req.Params)
	if err != nil {
		return d.writeResponse(out, wire.NewError(id, wire.CodeInvalidParams, "invalid params: "+err.Error()))
	}

	levelVal, _ := params.Get("level")
	level, ok := levelVal.AsString()
	if !ok {
		return d.writeResponse(out, wire.NewError(id, wire.CodeInvalidParams, "missing level"))
	}
	if _, known := logLevelRank[level]; !known {
		return d.writeResponse(out, wire.NewError(id, wire.CodeInvalidParams, "unknown log level: "+level))
	}

	d.minLogLevel = level
	return d.writeResponse(out, wire.NewResult(id, value.FromObject(value.NewObject())))
}

// shouldLog reports whether a message at level clears the current
// "logging/setLevel" threshold.
func (d *Dispatcher) shouldLog(level string) bool {
	want, ok := logLevelRank[level]
	if !ok {
		return true
	}
	have, ok := logLevelRank[d.minLogLevel]
	if !ok {
		return true
	}
	return want >= have
}

// sendProgress emits one "$/progress" notification. total is serialized
// even when nil, as JSON null, unlike a Response's omitted-when-absent
// fields: a client watching a progress stream needs to see the "total"
// key on every message to tell "not yet known" apart from a dropped
// field.
func (d *Dispatcher) sendProgress(out *transport.Writer, token value.Value, progress int64, total *int64) error {
	params := value.NewObject()
	params.Set("progressToken", token)
	params.Set("progress", value.Int(progress))
	if total != nil {
		params.Set("total", value.Int(*total))
	} else {
		params.Set("total", value.Null())
	}
	return d.writeNotification(out, wire.NewNotification("$/progress", value.FromObject(params)))
}

func (d *Dispatcher) writeResponse(out *transport.Writer, resp wire.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("dispatch: marshal response: %w", err)
	}
	return out.WriteMessage(data)
}

func (d *Dispatcher) writeNotification(out *transport.Writer, note wire.Notification) error {
	data, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("dispatch: marshal notification: %w", err)
	}
	return out.WriteMessage(data)
}

func parseParams(raw json.RawMessage) (value.Value, error) {
	if len(raw) == 0 {
		return value.FromObject(value.NewObject()), nil
	}
	return value.Parse(raw)
}

func progressTokenOf(params value.Value) (value.Value, bool) {
	return params.Get("progressToken")
}

func textContentOf(v value.Value) value.Value {
	block := value.NewObject()
	block.Set("type", value.String("text"))

	if text, ok := v.AsString(); ok {
		block.Set("text", value.String(text))
	} else {
		block.Set("text", value.String(v.String()))
	}

	return value.FromObject(block)
}
