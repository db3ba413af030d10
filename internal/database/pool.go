package database

import (
	"context"
)

// Pool is a bounded set of database connections shared by every repository.
//
// Two implementations exist: one over pgxpool for the pgx driver, one over
// database/sql for lib/pq, MySQL and SQLite.
type Pool interface {
	// Acquire checks a connection out of the pool, waiting until one is
	// free or ctx is done.
	Acquire(ctx context.Context) (Conn, error)
	Ping(ctx context.Context) error
	Stat() Stats
	Close()
}

// Conn is a checked-out connection. Release returns it to the pool and
// must be called exactly once.
type Conn interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (Result, error)
	Release()
}

// Rows is a forward-only result cursor.
type Rows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Result describes a statement that returned no rows.
type Result struct {
	RowsAffected int64
	// LastInsertID is set only when the driver reports one (MySQL, SQLite).
	LastInsertID    int64
	HasLastInsertID bool
}

// Stats is a point-in-time snapshot of pool usage.
type Stats struct {
	Acquired int `json:"acquired"`
	Idle     int `json:"idle"`
	Total    int `json:"total"`
	Max      int `json:"max"`
}
