package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/miarma/api/internal/config"
	"github.com/miarma/api/internal/query"
	"github.com/rs/zerolog"
)

// PostgreSQL DDL for every domain table, carried inside the binary.
//
//go:embed migrations/*.sql
var migrations embed.FS

// SQLite DDL for the same tables. Every statement is idempotent.
//
//go:embed schema/sqlite.sql
var sqliteSchema string

// versionTable records the applied migration version.
const versionTable = "schema_version"

// Migrate brings a PostgreSQL schema up to date with tern over a dedicated
// connection. Other drivers manage their schema out of band and are skipped.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	switch cfg.Database.DriverName() {
	case "pgx", "postgres":
	default:
		logger.Info().
			Str("driver", cfg.Database.DriverName()).
			Msg("skipping migrations for non-postgres driver")
		return nil
	}

	conn, err := pgx.Connect(ctx, postgresDSN(cfg.Database))
	if err != nil {
		return fmt.Errorf("connecting for migrations: %w", err)
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, versionTable)
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}
	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return fmt.Errorf("applying database migrations: %w", err)
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}

// MigrateSQLite creates any missing table or view on an SQLite database
// served by m.
func MigrateSQLite(ctx context.Context, m *Manager) error {
	if m.Dialect() != query.SQLite {
		return fmt.Errorf("sqlite schema cannot be applied to %s", m.Dialect())
	}
	for _, ddl := range strings.Split(sqliteSchema, ";") {
		ddl = strings.TrimSpace(ddl)
		if ddl == "" {
			continue
		}
		if _, err := m.Exec(ctx, query.Statement{SQL: ddl, Dialect: query.SQLite}); err != nil {
			return fmt.Errorf("applying sqlite schema: %w", err)
		}
	}
	m.log.Info().Msg("sqlite schema up to date")
	return nil
}
