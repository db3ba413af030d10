package sqlerr

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/miarma/api/internal/database"
	"github.com/miarma/api/internal/errs"
	"github.com/miarma/api/internal/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestClassify_Postgres(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		Message:        "duplicate key value violates unique constraint",
		TableName:      "users",
		ConstraintName: "users_email_key",
	}
	err := &database.QueryError{SQL: "INSERT ...", Err: pgErr}

	got, ok := Classify(err)
	require.True(t, ok)
	assert.Equal(t, UniqueViolation, got.Code)
	assert.Equal(t, "users", got.TableName)
	assert.ErrorIs(t, got, pgErr)

	pqErr := &pq.Error{Code: "23503", Message: "violates foreign key", Table: "huertos_user_metadata", Column: "user_id"}
	got, ok = Classify(fmt.Errorf("insert: %w", pqErr))
	require.True(t, ok)
	assert.Equal(t, ForeignKeyViolation, got.Code)
	assert.Equal(t, "user_id", got.ColumnName)
}

func TestClassify_MySQL(t *testing.T) {
	tests := []struct {
		err        *mysql.MySQLError
		code       Code
		table      string
		constraint string
		column     string
	}{
		{
			err:        &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'jei.jar' for key 'miarmacraft_mods.filename'"},
			code:       UniqueViolation,
			table:      "miarmacraft_mods",
			constraint: "filename",
		},
		{
			err:    &mysql.MySQLError{Number: 1048, Message: "Column 'title' cannot be null"},
			code:   NotNullViolation,
			column: "title",
		},
		{err: &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}, code: ForeignKeyViolation},
		{err: &mysql.MySQLError{Number: 3819, Message: "Check constraint 'vote_range' is violated."}, code: CheckViolation},
		{err: &mysql.MySQLError{Number: 1064, Message: "You have an error in your SQL syntax"}, code: Other},
	}

	for _, tt := range tests {
		t.Run(tt.err.Message, func(t *testing.T) {
			got, ok := Classify(tt.err)
			require.True(t, ok)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.table, got.TableName)
			assert.Equal(t, tt.constraint, got.ConstraintName)
			assert.Equal(t, tt.column, got.ColumnName)
		})
	}
}

func TestClassify_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = db.ExecContext(ctx, `CREATE TABLE cine_votes (
		movie_id TEXT NOT NULL,
		user_id  INTEGER NOT NULL,
		vote     INTEGER NOT NULL CHECK (vote BETWEEN 1 AND 5),
		PRIMARY KEY (movie_id, user_id)
	)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO cine_votes VALUES ('m1', 1, 5)`)
	require.NoError(t, err)

	tests := []struct {
		stmt string
		code Code
	}{
		{`INSERT INTO cine_votes VALUES ('m1', 1, 4)`, UniqueViolation},
		{`INSERT INTO cine_votes VALUES (NULL, 2, 4)`, NotNullViolation},
		{`INSERT INTO cine_votes VALUES ('m2', 2, 9)`, CheckViolation},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			_, err := db.ExecContext(ctx, tt.stmt)
			require.Error(t, err)
			assert.Equal(t, tt.code, ErrCode(err))
		})
	}

	_, err = db.ExecContext(ctx, `INSERT INTO cine_votes VALUES (NULL, 2, 4)`)
	got, ok := Classify(err)
	require.True(t, ok)
	assert.Equal(t, "cine_votes", got.TableName)
	assert.Equal(t, "movie_id", got.ColumnName)
}

func TestClassify_Unknown(t *testing.T) {
	_, ok := Classify(fmt.Errorf("plain"))
	assert.False(t, ok)
	assert.Equal(t, Other, ErrCode(fmt.Errorf("plain")))
}

func TestHandleError(t *testing.T) {
	already := errs.NewNotFoundError("mod not found", true, nil)
	assert.Same(t, already, HandleError(already))

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "invalid filter",
			err:    &filter.InvalidFilterError{Key: "foo", Reason: "unknown column"},
			status: http.StatusBadRequest,
			code:   "INVALID_FILTER",
		},
		{
			name:   "pool timeout",
			err:    &database.PoolTimeoutError{Timeout: time.Second},
			status: http.StatusServiceUnavailable,
			code:   "SERVICE_UNAVAILABLE",
		},
		{
			name: "unique violation",
			err: &database.QueryError{Err: &pgconn.PgError{
				Code: "23505", TableName: "miarmacraft_mods", ConstraintName: "miarmacraft_mods_filename_key",
			}},
			status: http.StatusBadRequest,
			code:   "MIARMACRAFT_MOD_ALREADY_EXISTS",
		},
		{
			name:   "not null",
			err:    &database.QueryError{Err: &pgconn.PgError{Code: "23502", TableName: "users", ColumnName: "display_name"}},
			status: http.StatusBadRequest,
			code:   "USER_REQUIRED",
		},
		{
			name:   "decode",
			err:    &database.DecodeError{Table: "users", Err: fmt.Errorf("bad")},
			status: http.StatusInternalServerError,
			code:   "INTERNAL_SERVER_ERROR",
		},
		{
			name:   "syntax",
			err:    &database.QueryError{Err: &pgconn.PgError{Code: "42601"}},
			status: http.StatusInternalServerError,
			code:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var he *errs.HTTPError
			require.ErrorAs(t, HandleError(tt.err), &he)
			assert.Equal(t, tt.status, he.Status)
			assert.Equal(t, tt.code, he.Code)
		})
	}
}

func TestHandleError_UniqueMessage(t *testing.T) {
	err := &database.QueryError{Err: &pgconn.PgError{
		Code: "23505", TableName: "miarmacraft_mods", ConstraintName: "miarmacraft_mods_filename_key",
	}}

	var he *errs.HTTPError
	require.ErrorAs(t, HandleError(err), &he)
	assert.Equal(t, "A Mod with this Filename already exists", he.Message)

	var fe *errs.HTTPError
	require.ErrorAs(t, HandleError(&filter.InvalidFilterError{Key: "_limit", Reason: "out of range"}), &fe)
	require.Len(t, fe.Errors, 1)
	assert.Equal(t, "_limit", fe.Errors[0].Field)
}
