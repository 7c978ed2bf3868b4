package db

import (
	"errors"
	"fmt"
)

// StorageError is returned for every failure reported by the storage engine:
// malformed statements, constraint violations, I/O errors. It keeps the
// original diagnostic of the engine.
type StorageError struct {
	Op    string // gateway operation, e.g. "exec", "query", "commit"
	Query string // statement being executed, if any
	Err   error  // diagnostic reported by the engine
}

func (e *StorageError) Error() string {
	if e.Query == "" {
		return fmt.Sprintf("storage: %s failed: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("storage: %s failed: %v, query: %s", e.Op, e.Err, e.Query)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps an engine error, nil stays nil and already wrapped errors are kept as is
func NewStorageError(op string, query string, err error) error {
	if err == nil {
		return nil
	}

	var se *StorageError
	if errors.As(err, &se) {
		return err
	}

	return &StorageError{Op: op, Query: query, Err: err}
}

// IsStorageError reports whether err carries a StorageError
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// ErrInvalidIdentifier is returned for table, column and index names rejected by ValidateIdentifier
var ErrInvalidIdentifier = errors.New("invalid identifier")
