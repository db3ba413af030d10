// Package database owns the shared connection pool and executes built
// statements against it, mapping result rows back onto entities.
//
// It handles:
//   - opening the pool for the configured driver (pgxpool or database/sql)
//   - wiring statement tracing for pgx (tracelog in local, New Relic via nrpgx5)
//   - scoped connection checkout with an acquire timeout
//   - decoding rows by column name through an entity descriptor
//   - schema migrations for PostgreSQL (tern)
package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/miarma/api/internal/config"
	loggerConfig "github.com/miarma/api/internal/logger"
	"github.com/miarma/api/internal/query"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
)

// DatabasePingTimeout bounds the startup connectivity check, in seconds.
const DatabasePingTimeout = 10

// New opens the pool for cfg.Database.Driver, pings it and returns a
// Manager over it.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Manager, error) {
	dialect, err := query.DialectFor(cfg.Database.DriverName())
	if err != nil {
		return nil, err
	}

	var pool Pool
	if cfg.Database.DriverName() == "pgx" {
		pool, err = newPgxPool(cfg, logger, loggerService)
	} else {
		pool, err = newSQLPool(cfg.Database)
	}
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("driver", cfg.Database.DriverName()).
		Int("max_conns", pool.Stat().Max).
		Msg("connected to the database")

	opts := Options{AcquireTimeout: cfg.Database.AcquireTimeoutDuration()}
	if cfg.Observability != nil {
		opts.SlowQueryThreshold = cfg.Observability.Logging.SlowQueryThreshold
	}
	return NewManager(pool, dialect, logger, opts), nil
}

// postgresDSN builds a postgres:// URL, escaping the credentials.
func postgresDSN(cfg config.DatabaseConfig) string {
	hostPort := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		url.QueryEscape(cfg.User),
		url.QueryEscape(cfg.Password),
		hostPort,
		cfg.Name,
		sslMode,
	)
}

// multiTracer fans pgx query tracing out to several tracers, since
// ConnConfig has a single Tracer slot.
type multiTracer struct {
	tracers []pgx.QueryTracer
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, t := range mt.tracers {
		ctx = t.TraceQueryStart(ctx, conn, data)
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, t := range mt.tracers {
		t.TraceQueryEnd(ctx, conn, data)
	}
}

func newPgxPool(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*pgxPool, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(postgresDSN(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	pgxPoolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	if cfg.Database.MaxIdleConns > 0 {
		pgxPoolConfig.MinConns = int32(min(cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns))
	}
	if cfg.Database.ConnMaxLifetime > 0 {
		pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	}
	if cfg.Database.ConnMaxIdleTime > 0 {
		pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second
	}

	var tracers []pgx.QueryTracer
	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}
	// Statement logging is noisy, so only the local environment gets it.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		})
	}
	switch len(tracers) {
	case 0:
	case 1:
		pgxPoolConfig.ConnConfig.Tracer = tracers[0]
	default:
		pgxPoolConfig.ConnConfig.Tracer = &multiTracer{tracers: tracers}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	return &pgxPool{pool: pool}, nil
}

// pgxPool adapts *pgxpool.Pool to Pool.
type pgxPool struct {
	pool *pgxpool.Pool
}

func (p *pgxPool) Acquire(ctx context.Context) (Conn, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxConn{conn: conn}, nil
}

func (p *pgxPool) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

func (p *pgxPool) Stat() Stats {
	s := p.pool.Stat()
	return Stats{
		Acquired: int(s.AcquiredConns()),
		Idle:     int(s.IdleConns()),
		Total:    int(s.TotalConns()),
		Max:      int(s.MaxConns()),
	}
}

func (p *pgxPool) Close() { p.pool.Close() }

type pgxConn struct {
	conn *pgxpool.Conn
}

func (c *pgxConn) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rows, err := c.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return &pgxRows{rows: rows}, nil
}

func (c *pgxConn) Exec(ctx context.Context, sql string, args ...any) (Result, error) {
	tag, err := c.conn.Exec(ctx, sql, args...)
	if err != nil {
		return Result{}, err
	}
	return Result{RowsAffected: tag.RowsAffected()}, nil
}

func (c *pgxConn) Release() { c.conn.Release() }

type pgxRows struct {
	rows pgx.Rows
}

func (r *pgxRows) Columns() ([]string, error) {
	fields := r.rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names, nil
}

func (r *pgxRows) Next() bool             { return r.rows.Next() }
func (r *pgxRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *pgxRows) Err() error             { return r.rows.Err() }
func (r *pgxRows) Close()                 { r.rows.Close() }
