// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package registry holds the set of tools a Server exposes: an
// insertion-ordered, name-indexed table of ToolDescriptors, built once at
// startup and read by the dispatcher on every "tools/list" and
// "tools/call" request.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/tinymcp/tinymcp/value"
)

// Outcome is what a built tool's Invoke returns: the encoded result (or
// error text) and whether the call failed. Invoke never returns a Go
// error — a failing tool call is a successful JSON-RPC response whose
// payload happens to describe a failure, matching the MCP convention
// that protocol errors and tool errors are distinct channels.
type Outcome struct {
	Value   value.Value
	IsError bool
}

// ToolDescriptor is the adapter's external shape for one registered
// tool: enough to answer "tools/list" (Name, Description, Schema) and to
// service "tools/call" (Invoke).
type ToolDescriptor struct {
	Name        string
	Description string
	Schema      value.Value
	Invoke      func(ctx context.Context, args value.Value) Outcome
}

// Registry is a name-indexed, insertion-ordered table of tools. It is
// populated once before the dispatcher loop starts; tinymcp has no
// "tools/unregister" or dynamic re-registration method, so a Registry is
// effectively append-only for the life of a Server.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]ToolDescriptor
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{byName: make(map[string]ToolDescriptor)}
}

// Add registers d. It rejects a duplicate tool name with an error
// instead of silently overwriting the earlier registration — the
// redesigned behavior this spec recommends over last-write-wins.
func (r *Registry) Add(d ToolDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[d.Name]; exists {
		return fmt.Errorf("registry: tool %q already registered", d.Name)
	}

	r.byName[d.Name] = d
	r.order = append(r.order, d.Name)
	return nil
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (ToolDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byName[name]
	return d, ok
}

// List returns every registered tool in registration order.
func (r *Registry) List() []ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ToolDescriptor, len(r.order))
	for i, name := range r.order {
		out[i] = r.byName[name]
	}
	return out
}

// Len reports how many tools are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
