package validation

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// CompileSchema compiles a JSON schema held in a string. name is only used as the resource URL.
func CompileSchema(name, schemaJSON string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	sch, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to compile JSON schema %s: %w", name, err)
	}
	return sch, nil
}

// Validate checks an already decoded JSON value (maps, slices, strings, float64, bool)
// against the schema.
func Validate(sch *jsonschema.Schema, data interface{}) error {
	if sch == nil {
		return nil
	}
	if err := sch.Validate(data); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			return fmt.Errorf("document failed validation against schema: %v", validationErr)
		}
		return fmt.Errorf("document failed validation (unexpected error type): %w", err)
	}
	return nil
}
