package config

import "fmt"

// ParseError indicates the YAML file could not be parsed.
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) ConfigError() {}

// SchemaError indicates the config structure doesn't match the schema.
// For example, wrong type for a field or unknown field.
type SchemaError struct {
	Filename string
	Field    string
	Message  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error in %s at %q: %s", e.Filename, e.Field, e.Message)
}

func (e *SchemaError) ConfigError() {}
