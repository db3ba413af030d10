package sqlerr

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
)

// SQLSTATE class 23 codes shared by pgx and lib/pq.
var sqlStateCodes = map[string]Code{
	"23505": UniqueViolation,
	"23503": ForeignKeyViolation,
	"23502": NotNullViolation,
	"23514": CheckViolation,
}

var mysqlCodes = map[uint16]Code{
	1062: UniqueViolation,
	1451: ForeignKeyViolation,
	1452: ForeignKeyViolation,
	1048: NotNullViolation,
	3819: CheckViolation,
}

// SQLite extended result codes.
var sqliteCodes = map[int]Code{
	2067: UniqueViolation,
	1555: UniqueViolation,
	787:  ForeignKeyViolation,
	1299: NotNullViolation,
	275:  CheckViolation,
}

const sqliteConstraint = 19

var (
	mysqlKeyRe    = regexp.MustCompile(`for key '([^']+)'`)
	mysqlColumnRe = regexp.MustCompile(`Column '([^']+)'`)
	sqliteColRe   = regexp.MustCompile(`constraint failed: ([A-Za-z0-9_]+)\.([A-Za-z0-9_]+)`)
	sqliteCheckRe = regexp.MustCompile(`CHECK constraint failed: ([A-Za-z0-9_]+)`)
)

// MapCode maps a SQLSTATE onto a Code.
func MapCode(sqlState string) Code {
	if code, ok := sqlStateCodes[sqlState]; ok {
		return code
	}
	return Other
}

// Classify finds a driver error in err's chain and converts it. It returns
// false when the chain holds no error of a supported driver.
func Classify(err error) (*Error, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ConvertPgError(pgErr), true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return convertPqError(pqErr), true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return convertMySQLError(myErr), true
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return convertSQLiteError(liteErr), true
	}

	return nil, false
}

func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

func convertPqError(src *pq.Error) *Error {
	return &Error{
		Code:           MapCode(string(src.Code)),
		DatabaseCode:   string(src.Code),
		Message:        src.Message,
		TableName:      src.Table,
		ColumnName:     src.Column,
		ConstraintName: src.Constraint,
		driverErr:      src,
	}
}

func convertMySQLError(src *mysql.MySQLError) *Error {
	out := &Error{
		Code:         Other,
		DatabaseCode: strconv.Itoa(int(src.Number)),
		Message:      src.Message,
		driverErr:    src,
	}
	if code, ok := mysqlCodes[src.Number]; ok {
		out.Code = code
	}

	if m := mysqlKeyRe.FindStringSubmatch(src.Message); m != nil {
		// MySQL 8 qualifies the key with its table: 'users.user_name'.
		table, key, found := strings.Cut(m[1], ".")
		if found {
			out.TableName = table
			out.ConstraintName = key
		} else {
			out.ConstraintName = m[1]
		}
	}
	if m := mysqlColumnRe.FindStringSubmatch(src.Message); m != nil {
		out.ColumnName = m[1]
	}
	return out
}

func convertSQLiteError(src *sqlite.Error) *Error {
	msg := src.Error()
	out := &Error{
		Code:         Other,
		DatabaseCode: strconv.Itoa(src.Code()),
		Message:      msg,
		driverErr:    src,
	}

	if code, ok := sqliteCodes[src.Code()]; ok {
		out.Code = code
	} else if src.Code()&0xff == sqliteConstraint {
		switch {
		case strings.Contains(msg, "UNIQUE constraint failed"):
			out.Code = UniqueViolation
		case strings.Contains(msg, "FOREIGN KEY constraint failed"):
			out.Code = ForeignKeyViolation
		case strings.Contains(msg, "NOT NULL constraint failed"):
			out.Code = NotNullViolation
		case strings.Contains(msg, "CHECK constraint failed"):
			out.Code = CheckViolation
		}
	}

	if m := sqliteColRe.FindStringSubmatch(msg); m != nil {
		out.TableName = m[1]
		out.ColumnName = m[2]
	} else if m := sqliteCheckRe.FindStringSubmatch(msg); m != nil {
		out.ConstraintName = m[1]
	}
	return out
}
