// Package parsererror defines the typed errors shared by the converters and
// the batch report parser.
package parsererror

import "fmt"

// ParseError represents a failure to interpret a single field value.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure for an input file.
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// ConversionError represents a failed conversion job. It covers I/O level
// failures only; individual bad rows are collected into the error sidecar
// instead.
type ConversionError struct {
	FilePath string
	Err      error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed for %s: %v", e.FilePath, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// SectionError represents a structural problem inside one section of a
// Batch Status Report. It is logged and the run continues with the next
// section.
type SectionError struct {
	Section string
	Reason  string
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("section %q: %s", e.Section, e.Reason)
}
