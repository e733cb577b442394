// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package tinymcp

import (
	"fmt"
	"strings"

	"github.com/tinymcp/tinymcp/value"
	"github.com/xeipuuv/gojsonschema"
)

// validateAgainstSchema is the opt-in second line of defense behind
// WithSchemaValidation: it checks the raw wire arguments against the
// tool's own derived schema before decode runs, so schema/decode drift
// (a bug in the Type Bridge, not in the caller's request) surfaces as a
// clear validation error rather than a confusing decode failure.
func validateAgainstSchema(schema, args value.Value) error {
	schemaBytes, err := value.Marshal(schema)
	if err != nil {
		return fmt.Errorf("schema validation: encode schema: %w", err)
	}
	argsBytes, err := value.Marshal(args)
	if err != nil {
		return fmt.Errorf("schema validation: encode arguments: %w", err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaBytes)
	docLoader := gojsonschema.NewBytesLoader(argsBytes)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}
