package jsonschema

import (
	"fmt"
	"strings"
)

// UnsupportedVersionError is returned when a document declares a $schema
// version other than draft-4.
type UnsupportedVersionError struct {
	Version string
}

// Error implements error.
func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported $schema version %q", e.Version)
}

// InvalidSchemaError is returned when a document fails validation against the
// draft-4 meta-schema, or when a reference cannot be resolved.
type InvalidSchemaError struct {
	// Ref is the scoped reference string, set for unresolved references.
	Ref string
	// Errors is the meta-schema validator's error list, set for documents
	// failing meta-validation.
	Errors []error
}

// Error implements error.
func (e *InvalidSchemaError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("invalid schema: reference %q could not be resolved", e.Ref)
	}
	var sb strings.Builder
	sb.WriteString("invalid schema")
	for _, err := range e.Errors {
		sb.WriteString(": ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}
