package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a key or container does not exist.
	// It is structural and never retried.
	ErrNotFound = errors.New("not found")

	// ErrTypeMismatch is returned when a stored scalar has a different kind
	// than the one requested.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidName is returned for empty names or names containing '/'.
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidBackup is returned when a file is not a compiled store.
	ErrInvalidBackup = errors.New("invalid backup")
)

// IOError wraps a failure of the underlying database or filesystem.
// It is the only error class the store retries.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("store %s %q: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}

// classify leaves structural errors untouched and wraps everything else.
func classify(op, path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrTypeMismatch) ||
		errors.Is(err, ErrInvalidName) || errors.Is(err, ErrInvalidBackup) {
		return err
	}
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return err
	}
	return &IOError{Op: op, Path: path, Err: err}
}
