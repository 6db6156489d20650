package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
)

// migrationsDir is the directory inside the migrations filesystem that
// holds the numbered .up.sql and .down.sql files.
const migrationsDir = "migrations"

const (
	maxConns          = 8
	maxConnIdleTime   = 5 * time.Minute
	healthCheckPeriod = time.Minute
)

// DB wraps the connection pool shared by the coach's stores.
type DB struct {
	Pool *pgxpool.Pool
}

// New opens a pool against dsn and checks the database is reachable.
func New(ctx context.Context, dsn string) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	poolConfig.MaxConns = maxConns
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// migrationSource reads the schema migrations out of fsys.
func migrationSource(fsys fs.FS) (source.Driver, error) {
	src, err := iofs.New(fsys, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations: %w", err)
	}
	return src, nil
}

// RunMigrations applies every pending migration found in fsys. Running it
// against an up-to-date schema is a no-op.
func RunMigrations(dsn string, fsys fs.FS) error {
	src, err := migrationSource(fsys)
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
