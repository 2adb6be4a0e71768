// Package export writes the task collection as JSON or YAML and validates
// exports against an embedded JSON Schema.
package export
