// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package bridge

import "fmt"

// DecodeErrorKind classifies why decode<T> rejected a Value.
type DecodeErrorKind int

const (
	// MissingField means a required (non-pointer, undefaulted) field had
	// no matching key in the wire object.
	MissingField DecodeErrorKind = iota
	// TypeMismatch means a field's wire Value was the wrong Kind.
	TypeMismatch
	// ArrayLengthMismatch means a fixed-length Go array field received
	// an Array of the wrong length.
	ArrayLengthMismatch
	// UnsupportedType means the Type Bridge has no rule for a Go type
	// reachable from the parameter struct.
	UnsupportedType
	// InvalidValue means a wire Value was numeric and in the right family
	// (e.g. a Float presented to an int field) but could not be
	// represented exactly: a fractional float offered to an integer
	// field, or a value outside the target field's range.
	InvalidValue
)

func (k DecodeErrorKind) String() string {
	switch k {
	case MissingField:
		return "missing_field"
	case TypeMismatch:
		return "type_mismatch"
	case ArrayLengthMismatch:
		return "array_length_mismatch"
	case UnsupportedType:
		return "unsupported_type"
	case InvalidValue:
		return "invalid_value"
	default:
		return "unknown"
	}
}

// DecodeError is returned by Decode when a wire Value does not conform
// to the Go type being decoded into. Path is a dotted/bracketed field
// path, e.g. "address.line2" or "tags[2]", rooted at the decoded struct.
type DecodeError struct {
	Kind DecodeErrorKind
	Path string
	Want string
	Got  string
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("decode: missing required field %q", e.Path)
	case ArrayLengthMismatch:
		return fmt.Sprintf("decode: field %q: array length mismatch: want %s, got %s", e.Path, e.Want, e.Got)
	case UnsupportedType:
		return fmt.Sprintf("decode: field %q: unsupported type %s", e.Path, e.Want)
	default:
		return fmt.Sprintf("decode: field %q: expected %s, got %s", e.Path, e.Want, e.Got)
	}
}

func prefixPath(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + "." + field
}
