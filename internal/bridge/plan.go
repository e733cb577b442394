// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package bridge implements the Type Bridge: build-time derivation of a
// JSON Schema from a Go struct type, and decode/encode between that type
// and a [value.Value]. Reflection over a given struct type runs at most
// once, the first time that type is bridged; the resulting Plan is cached
// and reused by every subsequent call, so a registered tool's hot path
// never re-walks struct tags.
package bridge

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/tinymcp/tinymcp/value"
)

// fieldInfo describes one struct field as seen by the bridge: its wire
// name, its position for reflect.Value.Field, whether it is optional (a
// pointer field, which widens its schema to ["null", T] and may be absent
// from the wire object), and whether it carries a compile-time default
// substituted in when the wire object omits the key. optional and
// hasDefault are independent: a field may be neither, either, or (in
// principle) both, though a defaulted pointer field has no practical use
// since absence already decodes to nil.
type fieldInfo struct {
	index        int
	name         string
	optional     bool
	hasDefault   bool
	defaultValue value.Value
}

// Plan is the cached, per-type description of how to decode, encode, and
// derive a schema for one struct type.
type Plan struct {
	typ    reflect.Type
	fields []fieldInfo
	schema value.Value
}

var planCache sync.Map // reflect.Type -> *Plan

// scratchFieldName is the conventional name for a field that is not wire
// data; it is excluded from the schema, from decode, and from encode.
// Nothing populates it: decode leaves it at its zero value, and the
// per-call scratch buffer from internal/scratch is not assigned to it.
const scratchFieldName = "Allocator"

// planFor returns the cached Plan for t, building and caching it on first
// use. t must be a struct type.
func planFor(t reflect.Type) (*Plan, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("bridge: %s is not a struct", t)
	}

	if cached, ok := planCache.Load(t); ok {
		return cached.(*Plan), nil
	}

	fields, err := buildFields(t)
	if err != nil {
		return nil, err
	}

	schema, err := deriveSchema(t, fields)
	if err != nil {
		return nil, err
	}

	plan := &Plan{typ: t, fields: fields, schema: schema}

	actual, _ := planCache.LoadOrStore(t, plan)
	return actual.(*Plan), nil
}

func buildFields(t reflect.Type) ([]fieldInfo, error) {
	fields := make([]fieldInfo, 0, t.NumField())

	for i := range t.NumField() {
		sf := t.Field(i)

		if sf.PkgPath != "" { // unexported
			continue
		}
		if sf.Name == scratchFieldName {
			continue
		}

		name, skip := wireName(sf)
		if skip {
			continue
		}

		defaultValue, hasDefault, err := defaultOf(sf)
		if err != nil {
			return nil, fmt.Errorf("bridge: %s.%s: %w", t, sf.Name, err)
		}

		fields = append(fields, fieldInfo{
			index:        i,
			name:         name,
			optional:     sf.Type.Kind() == reflect.Ptr,
			hasDefault:   hasDefault,
			defaultValue: defaultValue,
		})
	}

	return fields, nil
}

// defaultOf parses sf's `default:"..."` tag, if present, as a single JSON
// value per the field grammar's `default= V` clause. The tag's content is
// JSON, not a bare Go literal, so a string default is written
// `default:"\"idle\""` and a numeric one `default:"1"`.
func defaultOf(sf reflect.StructField) (value.Value, bool, error) {
	raw, ok := sf.Tag.Lookup("default")
	if !ok {
		return value.Null(), false, nil
	}

	v, err := value.Parse([]byte(raw))
	if err != nil {
		return value.Null(), false, fmt.Errorf("invalid default tag %q: %w", raw, err)
	}
	return v, true, nil
}

// wireName resolves a struct field's wire name from its json tag,
// defaulting to the field name, and reports whether the field is marked
// to be skipped entirely (`json:"-"`).
func wireName(sf reflect.StructField) (name string, skip bool) {
	tag := sf.Tag.Get("json")
	if tag == "" {
		return sf.Name, false
	}

	parts := strings.Split(tag, ",")
	if parts[0] == "-" {
		return "", true
	}
	if parts[0] == "" {
		return sf.Name, false
	}
	return parts[0], false
}
