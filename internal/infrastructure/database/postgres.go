package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect builds a pgx connection pool from the DSN and verifies it with a
// ping. SQLAlchemy-style driver suffixes ("postgresql+asyncpg://") left over
// in .env files from the previous backend are normalized away.
func Connect(ctx context.Context, dsn string, opts ...func(*pgxpool.Config)) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(normalizeDSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	if cfg.MaxConns == 0 {
		cfg.MaxConns = int32(envInt("DB_MAX_CONNS", 8))
	}
	if cfg.MaxConnIdleTime == 0 {
		cfg.MaxConnIdleTime = 5 * time.Minute
	}
	if cfg.MaxConnLifetime == 0 {
		cfg.MaxConnLifetime = time.Hour
	}
	if cfg.HealthCheckPeriod == 0 {
		cfg.HealthCheckPeriod = time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: new pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return pool, nil
}

// NewPoolFromEnv reads the DSN from DB_URL and connects.
func NewPoolFromEnv(ctx context.Context, opts ...func(*pgxpool.Config)) (*pgxpool.Pool, error) {
	dsn := strings.TrimSpace(os.Getenv("DB_URL"))
	if dsn == "" {
		return nil, errors.New("postgres: DB_URL environment variable is not set")
	}
	return Connect(ctx, dsn, opts...)
}

func normalizeDSN(dsn string) string {
	s := strings.TrimSpace(dsn)
	for _, suffix := range []string{"+asyncpg", "+pgx"} {
		s = strings.Replace(s, "postgresql"+suffix+"://", "postgresql://", 1)
		s = strings.Replace(s, "postgres"+suffix+"://", "postgres://", 1)
	}
	return s
}

func envInt(name string, def int) int {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return def
}
