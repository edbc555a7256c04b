// Package schemas provides JSON Schema validation for fixture files.
package schemas

import (
	"fmt"
	"os"
	"strings"

	rootschemas "github.com/jonathan/ojt-matcher/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// shared holds the schemas other schemas reference by $id.
var shared = []string{"common.schema.json", rootschemas.Internship}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or compiling the schema itself
type SchemaLoadError struct {
	Name    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Name, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Load compiles one of the embedded schemas with its shared definitions.
func Load(name string) (*gojsonschema.Schema, error) {
	main, err := rootschemas.FS.ReadFile(name)
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Message: "not embedded", Cause: err}
	}

	sl := gojsonschema.NewSchemaLoader()
	for _, dep := range shared {
		if dep == name {
			continue
		}
		data, err := rootschemas.FS.ReadFile(dep)
		if err != nil {
			return nil, &SchemaLoadError{Name: dep, Message: "not embedded", Cause: err}
		}
		if err := sl.AddSchemas(gojsonschema.NewBytesLoader(data)); err != nil {
			return nil, &SchemaLoadError{Name: dep, Message: "invalid shared schema", Cause: err}
		}
	}

	schema, err := sl.Compile(gojsonschema.NewBytesLoader(main))
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Message: "compile failed", Cause: err}
	}
	return schema, nil
}

// Validate checks a JSON document against the named embedded schema.
func Validate(name string, document []byte) error {
	schema, err := Load(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

// ValidateFile reads a JSON file and validates it against the named schema.
func ValidateFile(name, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := Validate(name, data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}
