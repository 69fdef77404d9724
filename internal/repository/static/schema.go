package static

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var tasksSchemaJSON string

const tasksSchemaURL = "https://fastodo.local/tasks.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func tasksSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(tasksSchemaURL, strings.NewReader(tasksSchemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile(tasksSchemaURL)
	})
	return schema, schemaErr
}

// SchemaError lists every violation found in a document.
type SchemaError struct {
	Violations []Violation
}

// Violation is one failed schema rule at a location in the document.
type Violation struct {
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if v.Path == "" {
			parts = append(parts, v.Message)
			continue
		}
		parts = append(parts, v.Path+": "+v.Message)
	}
	return fmt.Sprintf("document does not match the task list schema: %s", strings.Join(parts, "; "))
}

// validateDocument checks a decoded JSON or YAML document against the task list schema.
func validateDocument(doc interface{}) error {
	s, err := tasksSchema()
	if err != nil {
		return fmt.Errorf("compile task list schema: %w", err)
	}

	err = s.Validate(doc)
	if err == nil {
		return nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	schemaErr := &SchemaError{}
	collectViolations(schemaErr, ve)
	return schemaErr
}

func collectViolations(result *SchemaError, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Violations = append(result.Violations, Violation{
			Path:    pointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectViolations(result, cause)
	}
}

// pointerToPath turns "/1/name" into "[1].name".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		if part != "" && strings.Trim(part, "0123456789") == "" {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteString(".")
		}
		b.WriteString(part)
	}
	return b.String()
}
