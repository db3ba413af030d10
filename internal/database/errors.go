package database

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrPoolTimeout  = errors.New("timed out waiting for a pooled connection")
	ErrQuery        = errors.New("query failed")
	ErrDecode       = errors.New("failed to decode row")
	ErrMultipleRows = errors.New("expected at most one row")
)

// PoolTimeoutError is returned when no pooled connection became free within
// the acquire timeout.
type PoolTimeoutError struct {
	Timeout time.Duration
	Stats   Stats
}

func (e *PoolTimeoutError) Error() string {
	return fmt.Sprintf("%v after %s (%d/%d connections in use)", ErrPoolTimeout, e.Timeout, e.Stats.Acquired, e.Stats.Max)
}

func (e *PoolTimeoutError) Is(target error) bool { return target == ErrPoolTimeout }

// QueryError carries the driver error of a failed statement. Use
// sqlerr.Classify on it to inspect constraint violations.
type QueryError struct {
	SQL string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%v: %v", ErrQuery, e.Err)
}

func (e *QueryError) Unwrap() error        { return e.Err }
func (e *QueryError) Is(target error) bool { return target == ErrQuery }

// DecodeError means a row could not be mapped onto the entity. It points at
// a mismatch between a descriptor and the table it describes.
type DecodeError struct {
	Table string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v from %s: %v", ErrDecode, e.Table, e.Err)
}

func (e *DecodeError) Unwrap() error        { return e.Err }
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// MultipleRowsError is returned by ExecuteOne when the statement matched
// more than one row.
type MultipleRowsError struct {
	Table string
	Count int
}

func (e *MultipleRowsError) Error() string {
	return fmt.Sprintf("%v from %s, got %d", ErrMultipleRows, e.Table, e.Count)
}

func (e *MultipleRowsError) Is(target error) bool { return target == ErrMultipleRows }
