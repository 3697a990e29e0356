package db

import (
	"context"
	"fmt"
	"fxdeals/internal/config"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	applicationName   = "fxdeals"
	healthCheckPeriod = 30 * time.Second
)

// CreatePoolAndPing opens the pool and fails fast when the database is unreachable.
// Sessions run in UTC so timestamptz values come back normalized.
func CreatePoolAndPing(ctx context.Context, cfg config.DbServer) (*pgxpool.Pool, error) {
	poolCfg, err := newPoolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create db pool: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping db %s:%s: %w", cfg.Host, cfg.Port, err)
	}
	return pool, nil
}

func newPoolConfig(cfg config.DbServer) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.GetConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to parse db config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.HealthCheckPeriod = healthCheckPeriod
	poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	poolCfg.ConnConfig.RuntimeParams["timezone"] = "UTC"
	return poolCfg, nil
}
