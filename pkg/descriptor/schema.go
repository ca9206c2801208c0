package descriptor

import (
	"github.com/tombee/courier/schemas"
)

// Schema returns the embedded JSON Schema for descriptor documents.
// The schema can be used for validation, IDE integration, or schema export.
//
// The schema is embedded via the schemas package at the module root level,
// since go:embed directives cannot reference parent directories.
func Schema() []byte {
	return schemas.GetDescriptorSchema()
}

// SchemaString returns the embedded descriptor JSON Schema as a string.
// This is a convenience method for use cases that need the schema as a string.
func SchemaString() string {
	return schemas.GetDescriptorSchemaString()
}
