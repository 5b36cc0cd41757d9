// Package parser provides the base loader functionality shared by the
// transaction and correspondence record loaders.
package parser

import (
	"io"
)

// Parser reads one kind of audit record from a stream.
type Parser[T any] interface {
	// Parse reads data from the provided io.Reader and returns the records in
	// source order. Data-quality problems in individual fields degrade to
	// empty or zero values; only stream-level failures are returned.
	Parse(r io.Reader) ([]T, error)
}
