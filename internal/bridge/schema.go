// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package bridge

import (
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/tinymcp/tinymcp/value"
)

// reflector is shared across all schema derivations. DoNotReference
// inlines every nested struct instead of emitting "$defs"/"$ref" pairs,
// because the wire schema handed to an MCP client is expected to be a
// single self-contained object, not a bundle that needs a resolver.
var reflector = &jsonschema.Reflector{
	DoNotReference:            true,
	ExpandedStruct:            true,
	AllowAdditionalProperties: false,
}

// deriveSchema reflects t once, via invopop/jsonschema, into the Value
// representation of a JSON Schema object, per the grammar in §4.2.2.
// invopop has no notion of a compile-time default, so its own "required"
// list only ever excludes pointer fields; overrideRequired replaces it
// with the bridge's own rule, which also excludes defaulted fields, at
// every struct level the schema reaches.
func deriveSchema(t reflect.Type, fields []fieldInfo) (value.Value, error) {
	raw := reflector.ReflectFromType(t)
	schema := schemaToValue(raw)
	return overrideRequired(schema, t, fields), nil
}

// overrideRequired replaces schemaVal's "required" array with the fields
// of t that are non-optional and lack a default, and recurses into any
// nested struct fields' own "properties" entries so the same rule holds
// at every depth, not just the top level. It also widens each optional
// field's "type" to ["null", T] and drops the scratch field's property.
func overrideRequired(schemaVal value.Value, t reflect.Type, fields []fieldInfo) value.Value {
	obj, ok := schemaVal.AsObject()
	if !ok {
		return schemaVal
	}

	required := make([]value.Value, 0, len(fields))
	for _, f := range fields {
		if !f.optional && !f.hasDefault {
			required = append(required, value.String(f.name))
		}
	}
	obj.Set("required", value.Array(required...))

	propsVal, hasProps := obj.Load("properties")
	if !hasProps {
		return schemaVal
	}
	props, ok := propsVal.AsObject()
	if !ok {
		return schemaVal
	}

	for _, f := range fields {
		ft := t.Field(f.index).Type
		for ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() != reflect.Struct {
			continue
		}
		nestedVal, ok := props.Load(f.name)
		if !ok {
			continue
		}
		nestedFields, err := buildFields(ft)
		if err != nil {
			continue
		}
		props.Set(f.name, overrideRequired(nestedVal, ft, nestedFields))
	}

	for _, f := range fields {
		prop, ok := props.Load(f.name)
		if !f.optional || !ok {
			continue
		}
		if typ, ok := prop.Get("type"); ok {
			if s, ok := typ.AsString(); ok {
				propObj, _ := prop.AsObject()
				propObj.Set("type", value.Array(value.String("null"), value.String(s)))
			}
		}
	}

	if sf, ok := t.FieldByName(scratchFieldName); ok {
		if name, skip := wireName(sf); !skip {
			props.Delete(name)
		}
	}

	return schemaVal
}

// schemaToValue folds a subset of *jsonschema.Schema into a value.Value,
// keeping exactly the vocabulary tinymcp's Type Bridge defines: type,
// description, properties, required, items, enum, minItems, maxItems,
// plus "additionalProperties": false on every object schema.
// Constraints invopop derives from validation tags this bridge doesn't
// read (numeric ranges, string patterns) are intentionally not carried
// over, since nothing in the Go struct produced them.
func schemaToValue(s *jsonschema.Schema) value.Value {
	obj := value.NewObject()

	if s.Type != "" {
		obj.Set("type", value.String(s.Type))
	}
	if s.Description != "" {
		obj.Set("description", value.String(s.Description))
	}

	if s.Properties != nil && s.Properties.Len() > 0 {
		props := value.NewObject()
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			props.Set(pair.Key, schemaToValue(pair.Value))
		}
		obj.Set("properties", value.FromObject(props))
	}

	if len(s.Required) > 0 {
		req := make([]value.Value, len(s.Required))
		for i, r := range s.Required {
			req[i] = value.String(r)
		}
		obj.Set("required", value.Array(req...))
	}

	if s.Items != nil {
		obj.Set("items", schemaToValue(s.Items))
	}

	if s.MinItems != nil {
		obj.Set("minItems", value.Int(int64(*s.MinItems)))
	}
	if s.MaxItems != nil {
		obj.Set("maxItems", value.Int(int64(*s.MaxItems)))
	}

	if len(s.Enum) > 0 {
		enum := make([]value.Value, len(s.Enum))
		for i, e := range s.Enum {
			enum[i] = goValueToValue(e)
		}
		obj.Set("enum", value.Array(enum...))
	}

	if s.Type == "object" {
		obj.Set("additionalProperties", value.Bool(false))
	}

	return value.FromObject(obj)
}

// goValueToValue converts an already-decoded Go literal (as produced by
// invopop for an "enum" tag) into a Value.
func goValueToValue(v any) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Null()
	case bool:
		return value.Bool(t)
	case string:
		return value.String(t)
	case int:
		return value.Int(int64(t))
	case int64:
		return value.Int(t)
	case float64:
		return value.Float(t)
	default:
		return value.String(fmt.Sprint(t))
	}
}
