package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/miarma/api/internal/config"
	_ "modernc.org/sqlite"
)

// sqlDriverNames maps configured drivers onto registered database/sql names.
var sqlDriverNames = map[string]string{
	"postgres": "postgres",
	"mysql":    "mysql",
	"sqlite":   "sqlite",
}

// sqliteDefaultPragmas are applied when the configured path carries no
// query string of its own.
const sqliteDefaultPragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"

func sqlDSN(cfg config.DatabaseConfig) (string, error) {
	switch cfg.DriverName() {
	case "postgres":
		return postgresDSN(cfg), nil
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
		mc.DBName = cfg.Name
		mc.ParseTime = true
		mc.Loc = time.UTC
		return mc.FormatDSN(), nil
	case "sqlite":
		if strings.Contains(cfg.Name, "?") {
			return cfg.Name, nil
		}
		return "file:" + cfg.Name + "?" + sqliteDefaultPragmas, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", cfg.DriverName())
}

func newSQLPool(cfg config.DatabaseConfig) (*SQLPool, error) {
	dsn, err := sqlDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(sqlDriverNames[cfg.DriverName()], dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.DriverName(), err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Second)

	return NewSQLPool(db), nil
}

// SQLPool adapts *sql.DB to Pool. Acquire pins a single *sql.Conn for the
// duration of one statement.
type SQLPool struct {
	db *sql.DB
}

// NewSQLPool wraps an already opened database. The pool takes ownership of db.
func NewSQLPool(db *sql.DB) *SQLPool {
	return &SQLPool{db: db}
}

func (p *SQLPool) Acquire(ctx context.Context) (Conn, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &sqlConn{conn: conn}, nil
}

func (p *SQLPool) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func (p *SQLPool) Stat() Stats {
	s := p.db.Stats()
	return Stats{
		Acquired: s.InUse,
		Idle:     s.Idle,
		Total:    s.OpenConnections,
		Max:      s.MaxOpenConnections,
	}
}

func (p *SQLPool) Close() { _ = p.db.Close() }

type sqlConn struct {
	conn *sql.Conn
}

func (c *sqlConn) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := c.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &sqlRows{rows: rows}, nil
}

func (c *sqlConn) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	res, err := c.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return Result{}, err
	}

	var out Result
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
		out.HasLastInsertID = true
	}
	return out, nil
}

func (c *sqlConn) Release() { _ = c.conn.Close() }

type sqlRows struct {
	rows *sql.Rows
}

func (r *sqlRows) Columns() ([]string, error) { return r.rows.Columns() }
func (r *sqlRows) Next() bool                 { return r.rows.Next() }
func (r *sqlRows) Scan(dest ...any) error     { return r.rows.Scan(dest...) }
func (r *sqlRows) Err() error                 { return r.rows.Err() }
func (r *sqlRows) Close()                     { _ = r.rows.Close() }
