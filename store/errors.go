package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData is returned by Load when nothing has been persisted yet.
	ErrNoData = errors.New("no persisted data")
	// ErrPersistence matches every *PersistenceError via errors.Is.
	ErrPersistence = errors.New("persistence failure")
)

// PersistenceError reports a failed read or write of the durable store.
type PersistenceError struct {
	Op   string // "load", "save", "lock", "backup"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrPersistence) match any PersistenceError.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func persistErr(op, path string, err error) error {
	return &PersistenceError{Op: op, Path: path, Err: err}
}
