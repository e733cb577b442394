// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package bridge

import (
	"fmt"
	"reflect"

	"github.com/tinymcp/tinymcp/value"
)

// Encoder encodes a Go struct of type R into a value.Value, using a Plan
// computed once for R and reused across calls.
type Encoder[R any] struct {
	plan *Plan
}

// NewEncoder builds (or reuses the cached) Plan for R.
func NewEncoder[R any]() (*Encoder[R], error) {
	t := reflect.TypeFor[R]()
	plan, err := planFor(t)
	if err != nil {
		return nil, err
	}
	return &Encoder[R]{plan: plan}, nil
}

// Encode converts r into a Value. A nil optional (pointer) field is
// omitted from the resulting object entirely, rather than encoded as
// an explicit null.
func (e *Encoder[R]) Encode(r R) (value.Value, error) {
	rv := reflect.ValueOf(r)
	return encodeStruct(e.plan, rv)
}

func encodeStruct(plan *Plan, rv reflect.Value) (value.Value, error) {
	obj := value.NewObject()

	for _, f := range plan.fields {
		fv := rv.Field(f.index)

		if f.optional && fv.IsNil() {
			continue
		}

		ev, err := encodeValue(fv, f.name)
		if err != nil {
			return value.Null(), err
		}
		obj.Set(f.name, ev)
	}

	return value.FromObject(obj), nil
}

func encodeValue(rv reflect.Value, path string) (value.Value, error) {
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return value.Null(), nil
		}
		return encodeValue(rv.Elem(), path)

	case reflect.Bool:
		return value.Bool(rv.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Int(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return value.Int(int64(rv.Uint())), nil

	case reflect.Float32, reflect.Float64:
		return value.Float(rv.Float()), nil

	case reflect.String:
		return value.String(rv.String()), nil

	case reflect.Slice, reflect.Array:
		n := rv.Len()
		items := make([]value.Value, n)
		for i := range n {
			ev, err := encodeValue(rv.Index(i), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return value.Null(), err
			}
			items[i] = ev
		}
		return value.Array(items...), nil

	case reflect.Struct:
		nested, err := planFor(rv.Type())
		if err != nil {
			return value.Null(), err
		}
		return encodeStruct(nested, rv)

	default:
		return value.Null(), &DecodeError{Kind: UnsupportedType, Path: path, Want: rv.Type().String()}
	}
}
