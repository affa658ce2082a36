package config

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

const defaultHealthCheckPeriod = time.Minute

// ErrConnectingFailed is returned when a Postgres connection cannot be opened or does not answer a ping.
var ErrConnectingFailed = errors.New("connecting to postgres failed")

// PGXPoolConfig creates a pgxpool.Config from the DSN and the pool settings.
func (c Config) PGXPoolConfig() (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(c.PostgresDSN)
	if err != nil {
		return nil, errors.Join(ErrConnectingFailed, err)
	}

	dbConfig.MaxConns = int32(c.MaxOpenConns) //nolint:gosec
	dbConfig.MinConns = int32(c.MinConns)     //nolint:gosec
	dbConfig.MaxConnLifetime = c.ConnMaxLifetime
	dbConfig.MaxConnIdleTime = c.ConnMaxIdleTime
	dbConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = c.ConnectTimeout

	return dbConfig, nil
}

// OpenPGXPool opens and pings a pgx connection pool.
func (c Config) OpenPGXPool(ctx context.Context) (*pgxpool.Pool, error) {
	dbConfig, err := c.PGXPoolConfig()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, errors.Join(ErrConnectingFailed, err)
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, errors.Join(ErrConnectingFailed, pingErr)
	}

	return pool, nil
}

// OpenSQLDB opens and pings a database/sql connection pool using the lib/pq driver.
func (c Config) OpenSQLDB(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("postgres", c.PostgresDSN)
	if err != nil {
		return nil, errors.Join(ErrConnectingFailed, err)
	}

	c.configurePool(db)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectingFailed, pingErr)
	}

	return db, nil
}

// OpenSQLXDB opens and pings a sqlx connection pool using the lib/pq driver.
func (c Config) OpenSQLXDB(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", c.PostgresDSN)
	if err != nil {
		return nil, errors.Join(ErrConnectingFailed, err)
	}

	c.configurePool(db.DB)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectingFailed, pingErr)
	}

	return db, nil
}

func (c Config) configurePool(db *sql.DB) {
	db.SetMaxOpenConns(c.MaxOpenConns)
	db.SetMaxIdleConns(c.MinConns)
	db.SetConnMaxLifetime(c.ConnMaxLifetime)
	db.SetConnMaxIdleTime(c.ConnMaxIdleTime)
}
