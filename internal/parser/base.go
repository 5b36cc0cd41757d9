package parser

import (
	"errors"
	"io/fs"
	"os"

	"fjacquet/ledger-audit/internal/logging"
	"fjacquet/ledger-audit/internal/parsererror"
)

// BaseParser provides common functionality for all loader implementations.
//
// Loaders should embed BaseParser to inherit the logger plumbing:
//
//	type MyParser struct {
//		parser.BaseParser
//		// loader-specific fields
//	}
type BaseParser struct {
	logger logging.Logger
}

// NewBaseParser creates a new BaseParser instance with the provided logger.
// If logger is nil, a default logger will be used.
func NewBaseParser(logger logging.Logger) BaseParser {
	return BaseParser{
		logger: logging.OrDefault(logger),
	}
}

// SetLogger replaces the logger; nil is ignored.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// ParseFile opens path and hands it to p. A path that does not exist yields
// an empty result and no error; any other open failure is returned as a
// *parsererror.SourceError tagged with kind.
func ParseFile[T any](p Parser[T], kind, path string, logger logging.Logger) ([]T, error) {
	logger = logging.OrDefault(logger)

	file, err := os.Open(path) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Source does not exist, returning no records",
				logging.F(logging.FieldSource, kind),
				logging.F(logging.FieldFile, path))
			return nil, nil
		}
		return nil, &parsererror.SourceError{Kind: kind, Path: path, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			logger.Warn("Failed to close file",
				logging.F(logging.FieldFile, path),
				logging.F(logging.FieldError, cerr.Error()))
		}
	}()

	records, err := p.Parse(file)
	if err != nil {
		return nil, &parsererror.SourceError{Kind: kind, Path: path, Err: err}
	}

	logger.Debug("Loaded records",
		logging.F(logging.FieldSource, kind),
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(records)))
	return records, nil
}
