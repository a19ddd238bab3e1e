package profile

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed profile.schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// SchemaJSON returns the embedded profile JSON schema document.
func SchemaJSON() string {
	return schemaJSON
}

// validateShape checks the decoded document against the embedded JSON
// schema. This catches structural mistakes (wrong types, missing ids)
// with positional error messages before normalization sees the document.
func validateShape(v any) error {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("profile.schema.json", schemaJSON)
	})
	if schemaErr != nil {
		return fmt.Errorf("failed to compile embedded profile schema: %w", schemaErr)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("profile does not match schema: %w", err)
	}
	return nil
}
