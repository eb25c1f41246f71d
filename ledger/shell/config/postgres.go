package config

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

// ErrConnectingToDatabaseFailed is returned when a connection cannot be opened or pinged.
var ErrConnectingToDatabaseFailed = errors.New("connecting to the database failed")

// PGXPoolConfig turns the store settings for dsn into a pgxpool.Config.
func PGXPoolConfig(cfg StoreConfig, dsn string) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Join(ErrConnectingToDatabaseFailed, err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	return poolConfig, nil
}

// NewPGXPool opens and pings a pool for dsn.
func NewPGXPool(ctx context.Context, cfg StoreConfig, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := PGXPoolConfig(cfg, dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Join(ErrConnectingToDatabaseFailed, err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Join(ErrConnectingToDatabaseFailed, err)
	}

	return pool, nil
}

// NewSQLDB opens and pings a database/sql handle using lib/pq.
func NewSQLDB(ctx context.Context, cfg StoreConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, errors.Join(ErrConnectingToDatabaseFailed, err)
	}

	configurePool(db, cfg)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectingToDatabaseFailed, err)
	}

	return db, nil
}

// NewSQLX opens and pings a sqlx handle using lib/pq.
func NewSQLX(ctx context.Context, cfg StoreConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, errors.Join(ErrConnectingToDatabaseFailed, err)
	}

	configurePool(db.DB, cfg)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectingToDatabaseFailed, err)
	}

	return db, nil
}

func configurePool(db *sql.DB, cfg StoreConfig) {
	db.SetMaxOpenConns(int(cfg.MaxConns))
	db.SetMaxIdleConns(int(cfg.MinConns))
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)
}
