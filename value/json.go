// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse decodes exactly one JSON value from data, preserving object key
// order and distinguishing integral from fractional numerals (a numeral
// with no '.', 'e', or 'E' that fits in an int64 decodes as Int; any
// other numeral decodes as Float). Trailing bytes after the value are an
// error.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return Value{}, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("value: trailing data after JSON value")
	}

	return v, nil
}

func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return tokenToValue(dec, tok)
}

func tokenToValue(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("value: expected object key, got %v", keyTok)
				}
				val, err := parseValue(dec)
				if err != nil {
					return Value{}, err
				}
				// Set on an existing key overwrites in place: last-wins,
				// original insertion position retained.
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return FromObject(obj), nil
		case '[':
			var arr []Value
			for dec.More() {
				val, err := parseValue(dec)
				if err != nil {
					return Value{}, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return Array(arr...), nil
		default:
			return Value{}, fmt.Errorf("value: unexpected delimiter %v", t)
		}
	case json.Number:
		s := t.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := t.Int64(); err == nil {
				return Int(i), nil
			}
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("value: unexpected token %v (%T)", tok, tok)
	}
}

// Marshal encodes v as compact JSON, preserving object key insertion order.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		buf.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindString:
		data, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(data)
	case KindArray:
		buf.WriteByte('[')
		for i, el := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, el); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		i := 0
		if v.obj != nil {
			for pair := v.obj.Oldest(); pair != nil; pair = pair.Next() {
				if i > 0 {
					buf.WriteByte(',')
				}
				keyData, err := json.Marshal(pair.Key)
				if err != nil {
					return err
				}
				buf.Write(keyData)
				buf.WriteByte(':')
				if err := writeValue(buf, pair.Value); err != nil {
					return err
				}
				i++
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("value: unknown kind %v", v.kind)
	}
	return nil
}

// MarshalJSON implements json.Marshaler so a Value nests cleanly inside
// ordinary Go structs that go through encoding/json.
func (v Value) MarshalJSON() ([]byte, error) { return Marshal(v) }

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
