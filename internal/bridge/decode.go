// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package bridge

import (
	"fmt"
	"math"
	"reflect"

	"github.com/tinymcp/tinymcp/value"
)

// Decoder decodes a value.Value into a Go struct of type P, using a Plan
// computed once for P and reused across calls.
type Decoder[P any] struct {
	plan *Plan
}

// NewDecoder builds (or reuses the cached) Plan for P. P must be a struct
// type; anything else is a build-time error returned here rather than a
// panic, so a malformed tool registration fails the server's startup
// with a diagnosable error.
func NewDecoder[P any]() (*Decoder[P], error) {
	t := reflect.TypeFor[P]()
	plan, err := planFor(t)
	if err != nil {
		return nil, err
	}
	return &Decoder[P]{plan: plan}, nil
}

// Schema returns the derived JSON Schema for P.
func (d *Decoder[P]) Schema() value.Value { return d.plan.schema }

// Decode converts v into a P, or returns a *DecodeError describing the
// first field that did not conform.
func (d *Decoder[P]) Decode(v value.Value) (P, error) {
	var out P

	rv, err := decodeStruct(d.plan, v, "")
	if err != nil {
		return out, err
	}

	out = rv.Interface().(P)
	return out, nil
}

func decodeStruct(plan *Plan, v value.Value, path string) (reflect.Value, error) {
	obj, ok := v.AsObject()
	if !ok {
		return reflect.Value{}, &DecodeError{Kind: TypeMismatch, Path: path, Want: "object", Got: v.Kind().String()}
	}

	instance := reflect.New(plan.typ).Elem()

	for _, f := range plan.fields {
		fieldPath := prefixPath(path, f.name)
		fv, present := obj.Load(f.name)

		if !present {
			if f.optional {
				continue
			}
			if f.hasDefault {
				if err := decodeValue(f.defaultValue, instance.Field(f.index), fieldPath); err != nil {
					return reflect.Value{}, err
				}
				continue
			}
			return reflect.Value{}, &DecodeError{Kind: MissingField, Path: fieldPath}
		}

		target := instance.Field(f.index)
		if err := decodeValue(fv, target, fieldPath); err != nil {
			return reflect.Value{}, err
		}
	}

	return instance, nil
}

func decodeValue(v value.Value, target reflect.Value, path string) error {
	switch target.Kind() {
	case reflect.Ptr:
		if v.IsNull() {
			return nil
		}
		elem := reflect.New(target.Type().Elem())
		if err := decodeValue(v, elem.Elem(), path); err != nil {
			return err
		}
		target.Set(elem)
		return nil

	case reflect.Bool:
		b, ok := v.AsBool()
		if !ok {
			return &DecodeError{Kind: TypeMismatch, Path: path, Want: "bool", Got: v.Kind().String()}
		}
		target.SetBool(b)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, kind, ok := integralOf(v)
		if !ok {
			if kind == InvalidValue {
				return &DecodeError{Kind: InvalidValue, Path: path, Want: "int", Got: v.String()}
			}
			return &DecodeError{Kind: TypeMismatch, Path: path, Want: "int", Got: v.Kind().String()}
		}
		if target.OverflowInt(i) {
			return &DecodeError{Kind: InvalidValue, Path: path, Want: "int", Got: fmt.Sprintf("%d", i)}
		}
		target.SetInt(i)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, kind, ok := integralOf(v)
		if !ok {
			if kind == InvalidValue {
				return &DecodeError{Kind: InvalidValue, Path: path, Want: "uint", Got: v.String()}
			}
			return &DecodeError{Kind: TypeMismatch, Path: path, Want: "uint", Got: v.Kind().String()}
		}
		if i < 0 || target.OverflowUint(uint64(i)) {
			return &DecodeError{Kind: InvalidValue, Path: path, Want: "uint", Got: fmt.Sprintf("%d", i)}
		}
		target.SetUint(uint64(i))
		return nil

	case reflect.Float32, reflect.Float64:
		f, ok := v.AsFloat()
		if !ok {
			return &DecodeError{Kind: TypeMismatch, Path: path, Want: "float", Got: v.Kind().String()}
		}
		target.SetFloat(f)
		return nil

	case reflect.String:
		s, ok := v.AsString()
		if !ok {
			return &DecodeError{Kind: TypeMismatch, Path: path, Want: "string", Got: v.Kind().String()}
		}
		target.SetString(s)
		return nil

	case reflect.Slice:
		arr, ok := v.AsArray()
		if !ok {
			return &DecodeError{Kind: TypeMismatch, Path: path, Want: "array", Got: v.Kind().String()}
		}
		slice := reflect.MakeSlice(target.Type(), len(arr), len(arr))
		for i, el := range arr {
			if err := decodeValue(el, slice.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		target.Set(slice)
		return nil

	case reflect.Array:
		arr, ok := v.AsArray()
		if !ok {
			return &DecodeError{Kind: TypeMismatch, Path: path, Want: "array", Got: v.Kind().String()}
		}
		if len(arr) != target.Len() {
			return &DecodeError{Kind: ArrayLengthMismatch, Path: path,
				Want: fmt.Sprintf("%d", target.Len()), Got: fmt.Sprintf("%d", len(arr))}
		}
		for i, el := range arr {
			if err := decodeValue(el, target.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Struct:
		nested, err := planFor(target.Type())
		if err != nil {
			return err
		}
		rv, err := decodeStruct(nested, v, path)
		if err != nil {
			return err
		}
		target.Set(rv)
		return nil

	default:
		return &DecodeError{Kind: UnsupportedType, Path: path, Want: target.Type().String()}
	}
}

// integralOf extracts an integral int64 from v: directly from an Int, or
// from a Float iff it has no fractional part and fits in an int64. kind is
// only meaningful when ok is false, distinguishing "wrong Kind entirely"
// (TypeMismatch) from "numeric but not representable as an integer"
// (InvalidValue), per the decode rule that a Float is acceptable wherever
// an integer field expects one as long as it rounds-trips exactly.
func integralOf(v value.Value) (i int64, kind DecodeErrorKind, ok bool) {
	switch v.Kind() {
	case value.KindInt:
		n, _ := v.AsInt()
		return n, 0, true
	case value.KindFloat:
		f, _ := v.AsFloat()
		if math.Floor(f) != f || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, InvalidValue, false
		}
		return int64(f), 0, true
	default:
		return 0, TypeMismatch, false
	}
}
