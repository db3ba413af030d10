package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/miarma/api/internal/async"
	"github.com/miarma/api/internal/entity"
	"github.com/miarma/api/internal/query"
	"github.com/rs/zerolog"
)

// Options tunes a Manager.
type Options struct {
	// AcquireTimeout bounds the wait for a free connection. Zero waits as
	// long as the caller's context allows.
	AcquireTimeout time.Duration
	// SlowQueryThreshold logs statements that run longer. Zero disables it.
	SlowQueryThreshold time.Duration
}

// Manager executes statements on the shared pool. One Manager is created
// at startup and handed to every repository.
//
// Each statement runs on a connection checked out for that statement only
// and released on every path before the call returns. Concurrent calls
// may run on different connections in parallel; no ordering between them
// is promised.
type Manager struct {
	pool    Pool
	dialect query.Dialect
	log     *zerolog.Logger
	opts    Options
}

func NewManager(pool Pool, dialect query.Dialect, logger *zerolog.Logger, opts Options) *Manager {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Manager{pool: pool, dialect: dialect, log: logger, opts: opts}
}

func (m *Manager) Dialect() query.Dialect { return m.dialect }

// Stats reports current pool usage.
func (m *Manager) Stats() Stats { return m.pool.Stat() }

func (m *Manager) Ping(ctx context.Context) error { return m.pool.Ping(ctx) }

// Close closes the pool. In-flight statements finish first on pgx; the
// database/sql pool closes idle connections immediately.
func (m *Manager) Close() error {
	m.log.Info().Msg("closing database connection pool")
	m.pool.Close()
	return nil
}

// acquire checks out a connection, translating an exhausted pool into
// PoolTimeoutError. A context cancelled by the caller is returned as is.
func (m *Manager) acquire(ctx context.Context) (Conn, error) {
	acquireCtx := ctx
	if m.opts.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, m.opts.AcquireTimeout)
		defer cancel()
	}

	conn, err := m.pool.Acquire(acquireCtx)
	if err == nil {
		return conn, nil
	}
	if ctx.Err() == nil && errors.Is(acquireCtx.Err(), context.DeadlineExceeded) {
		stats := m.pool.Stat()
		m.log.Warn().
			Dur("timeout", m.opts.AcquireTimeout).
			Int("acquired", stats.Acquired).
			Int("max", stats.Max).
			Msg("connection pool exhausted")
		return nil, &PoolTimeoutError{Timeout: m.opts.AcquireTimeout, Stats: stats}
	}
	return nil, fmt.Errorf("failed to acquire connection: %w", err)
}

// withConn runs fn on a checked-out connection and always releases it.
func (m *Manager) withConn(ctx context.Context, fn func(Conn) error) error {
	conn, err := m.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()
	return fn(conn)
}

func (m *Manager) observe(stmt query.Statement, start time.Time, err error) {
	elapsed := time.Since(start)
	if err != nil {
		m.log.Error().
			Err(err).
			Str("sql", stmt.SQL).
			Dur("duration", elapsed).
			Msg("statement failed")
		return
	}
	if m.opts.SlowQueryThreshold > 0 && elapsed > m.opts.SlowQueryThreshold {
		m.log.Warn().
			Str("sql", stmt.SQL).
			Dur("duration", elapsed).
			Dur("threshold", m.opts.SlowQueryThreshold).
			Msg("slow statement")
	}
}

// Exec runs a statement that returns no rows, such as INSERT or UPDATE on
// dialects without RETURNING.
func (m *Manager) Exec(ctx context.Context, stmt query.Statement) (Result, error) {
	if err := stmt.Validate(); err != nil {
		return Result{}, &QueryError{SQL: stmt.SQL, Err: err}
	}

	var res Result
	err := m.withConn(ctx, func(conn Conn) error {
		start := time.Now()
		var err error
		res, err = conn.Exec(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			err = &QueryError{SQL: stmt.SQL, Err: err}
		}
		m.observe(stmt, start, err)
		return err
	})
	return res, err
}

// Execute runs stmt and decodes every returned row into a new T.
func Execute[T any](ctx context.Context, m *Manager, stmt query.Statement, desc *entity.Descriptor[T]) ([]*T, error) {
	if err := stmt.Validate(); err != nil {
		return nil, &QueryError{SQL: stmt.SQL, Err: err}
	}

	var out []*T
	err := m.withConn(ctx, func(conn Conn) error {
		start := time.Now()
		rows, err := conn.Query(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			err = &QueryError{SQL: stmt.SQL, Err: err}
			m.observe(stmt, start, err)
			return err
		}
		defer rows.Close()

		out, err = decodeAll(rows, desc)
		if err != nil {
			var de *DecodeError
			if errors.As(err, &de) {
				m.log.Error().
					Err(err).
					Str("table", desc.Table()).
					Str("entity", desc.TypeName()).
					Str("sql", stmt.SQL).
					Msg("row does not match entity descriptor")
				return err
			}
			err = &QueryError{SQL: stmt.SQL, Err: err}
		}
		m.observe(stmt, start, err)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExecuteOne runs stmt and returns its only row, or nil when it matched
// none. More than one row is a MultipleRowsError.
func ExecuteOne[T any](ctx context.Context, m *Manager, stmt query.Statement, desc *entity.Descriptor[T]) (*T, error) {
	rows, err := Execute(ctx, m, stmt, desc)
	if err != nil {
		return nil, err
	}

	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return rows[0], nil
	}

	err = &MultipleRowsError{Table: desc.Table(), Count: len(rows)}
	m.log.Error().
		Err(err).
		Str("entity", desc.TypeName()).
		Str("sql", stmt.SQL).
		Msg("single-row statement matched several rows")
	return nil, err
}

// ExecuteAsync is Execute on its own goroutine.
func ExecuteAsync[T any](ctx context.Context, m *Manager, stmt query.Statement, desc *entity.Descriptor[T]) *async.Future[[]*T] {
	return async.Go(ctx, func(ctx context.Context) ([]*T, error) {
		return Execute(ctx, m, stmt, desc)
	})
}

// ExecuteOneAsync is ExecuteOne on its own goroutine.
func ExecuteOneAsync[T any](ctx context.Context, m *Manager, stmt query.Statement, desc *entity.Descriptor[T]) *async.Future[*T] {
	return async.Go(ctx, func(ctx context.Context) (*T, error) {
		return ExecuteOne(ctx, m, stmt, desc)
	})
}
