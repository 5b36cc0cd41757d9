// Package parsererror defines the typed errors raised while reading audit sources
// and rule configuration.
package parsererror

import (
	"errors"
	"fmt"
)

// ErrEmptyKeywords reports a rule or keyword group with nothing to match.
var ErrEmptyKeywords = errors.New("keyword list is empty")

// ParseError represents a field value that could not be parsed.
// Loaders log it and substitute a neutral value; it is never returned to callers.
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

// ValidationError represents an invalid rule or configuration entry.
type ValidationError struct {
	Source string
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s (%s): %s", e.Source, e.Field, e.Reason)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Source, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// SourceError wraps an I/O failure on an audit source that exists but cannot be read.
type SourceError struct {
	Kind string
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("cannot read %s source '%s': %v", e.Kind, e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
