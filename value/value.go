// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package value implements the protocol-neutral data model tinymcp uses to
// move arguments and results between the wire and Go types. A Value is a
// tagged union over the JSON data model: null, bool, int, float, string,
// array, and object. Objects preserve insertion order and resolve duplicate
// keys last-wins, backed by [orderedmap.OrderedMap].
package value

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies which alternative of the Value union is populated.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

// String renders the Kind's name, mainly for error messages and test output.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Object is the ordered-map representation backing Value's object variant.
// Set on an existing key overwrites the value in place, keeping the key's
// original position; this is the "last-wins" duplicate-key behavior.
type Object = orderedmap.OrderedMap[string, Value]

// NewObject returns an empty, ready-to-use Object.
func NewObject() *Object {
	return orderedmap.New[string, Value]()
}

// Value is an immutable-by-convention tagged union over the JSON data
// model. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	obj  *Object
}

// Null returns the Null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a bool.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps an int64.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a float64.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps a slice of Values. The slice is used directly, not copied.
func Array(items ...Value) Value { return Value{kind: KindArray, arr: items} }

// FromObject wraps an already-built Object.
func FromObject(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// Kind reports which alternative is populated.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the Null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns v's bool payload and whether v is a Bool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsInt returns v's int payload and whether v is an Int.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// AsFloat returns v's numeric payload as a float64, widening Int if needed,
// and whether v is numeric at all.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsString returns v's string payload and whether v is a String.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsArray returns v's element slice and whether v is an Array.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

// AsObject returns v's Object and whether v is an Object.
func (v Value) AsObject() (*Object, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// Get is a fail-soft accessor: if v is an Object and key is present, it
// returns the value and true; otherwise it returns Null and false.
func (v Value) Get(key string) (Value, bool) {
	obj, ok := v.AsObject()
	if !ok {
		return Null(), false
	}
	return obj.Load(key)
}

// String renders v as compact JSON, falling back to a placeholder if
// encoding somehow fails (it cannot, for a well-formed Value).
func (v Value) String() string {
	data, err := Marshal(v)
	if err != nil {
		return fmt.Sprintf("<invalid value: %v>", err)
	}
	return string(data)
}
