// Package schemas provides access to embedded JSON schemas.
package schemas

import (
	_ "embed"
)

// Embed the descriptor JSON Schema into the binary for validation and
// tooling. The schema defines the structure of operation descriptor sets
// and enables IDE autocompletion, early validation, and schema-based tools.
//
//go:embed descriptor.schema.json
var descriptorSchema []byte

// GetDescriptorSchema returns the embedded descriptor JSON Schema as raw
// bytes. This schema can be used for validation, IDE integration, or
// schema export.
func GetDescriptorSchema() []byte {
	return descriptorSchema
}

// GetDescriptorSchemaString returns the embedded descriptor JSON Schema as
// a string. This is a convenience method for use cases that need the
// schema as a string.
func GetDescriptorSchemaString() string {
	return string(descriptorSchema)
}
