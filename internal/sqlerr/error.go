// Package sqlerr classifies database driver errors and turns data-access
// failures into API errors.
//
// Every supported driver (pgx, lib/pq, MySQL and SQLite) reports constraint
// violations in its own shape; Classify folds them into one Error.
package sqlerr

import (
	"errors"
	"fmt"
)

// Code is the driver-independent category of a database error.
type Code string

const (
	Other               Code = "other"
	UniqueViolation     Code = "unique_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	NotNullViolation    Code = "not_null_violation"
	CheckViolation      Code = "check_violation"
)

// Error is a classified driver error. Fields the driver does not report
// are left empty.
type Error struct {
	Code           Code
	DatabaseCode   string
	Message        string
	TableName      string
	ColumnName     string
	ConstraintName string

	driverErr error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s): %s", e.Code, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// ErrCode reports the Code of the first classifiable error in err's chain.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	if sqlErr, ok := Classify(err); ok {
		return sqlErr.Code
	}
	return Other
}
