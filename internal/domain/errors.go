package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// DatabaseError wraps a persistence failure with the operation that caused it.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// StorageError wraps an object-store failure with the operation and key that
// caused it.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ImageProcessingError wraps a decode, resize or encode failure.
type ImageProcessingError struct {
	Stage string
	Err   error
}

func (e *ImageProcessingError) Error() string {
	return fmt.Sprintf("image processing %s: %v", e.Stage, e.Err)
}

func (e *ImageProcessingError) Unwrap() error { return e.Err }
