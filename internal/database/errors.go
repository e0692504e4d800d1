package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned by by-id or by-name lookups that match nothing.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when a guarded insert finds a conflicting row.
	ErrAlreadyExists = errors.New("record already exists")
)

// StorageError reports a statement rejected by the storage engine.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PartialBatchError reports a multi-row operation that stopped part way.
// Rows processed before the failure stay committed.
type PartialBatchError struct {
	Op        string
	Completed int
	Total     int
	Err       error
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("%s: stopped after %d of %d rows: %v", e.Op, e.Completed, e.Total, e.Err)
}

func (e *PartialBatchError) Unwrap() error { return e.Err }

// Fail logs a storage error and converts it into the typed error returned to
// callers. gorm.ErrRecordNotFound becomes ErrNotFound without logging.
func Fail(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	log.Printf("Error %s: %v", op, err)
	return &StorageError{Op: op, Err: err}
}

// FailBatch logs a stopped batch and wraps the cause in a PartialBatchError.
func FailBatch(op string, completed, total int, err error) error {
	log.Printf("Error %s: stopped after %d of %d rows: %v", op, completed, total, err)
	return &PartialBatchError{Op: op, Completed: completed, Total: total, Err: err}
}

// IsPartial reports whether err is a PartialBatchError.
func IsPartial(err error) bool {
	var partial *PartialBatchError
	return errors.As(err, &partial)
}
