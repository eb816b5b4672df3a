package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const (
	minPoolConns    = 2
	floorMaxConns   = 8
	maxConnIdleTime = 5 * time.Minute
)

// poolConfig parses the DSN and raises the pool limits to the gateway's
// floor. Explicit pool_max_conns/pool_min_conns settings above the floor
// are kept as-is.
func poolConfig(dsn string) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns < floorMaxConns {
		cfg.MaxConns = floorMaxConns
	}
	if cfg.MinConns < minPoolConns {
		cfg.MinConns = minPoolConns
	}
	cfg.MaxConnIdleTime = maxConnIdleTime
	return cfg, nil
}

// MustOpen connects to postgres and fails fast when the gateway database is
// unreachable.
func MustOpen(ctx context.Context, dsn string) *pgxpool.Pool {
	cfg, err := poolConfig(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("db config fail")
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect fail")
	}
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("db ping fail")
	}
	log.Info().Int32("max_conns", cfg.MaxConns).Msg("database pool ready")
	return pool
}
