package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

type DB struct {
	Pool *pgxpool.Pool
}

// ConnectOptions tune pool sizing and the startup ping.
type ConnectOptions struct {
	// Retries is how many extra pings are attempted before giving up.
	Retries     int
	BaseBackoff time.Duration
	Logger      *slog.Logger
}

// Connect opens a pool and pings it with exponential backoff, so the server
// can start alongside a database that is still booting.
func Connect(ctx context.Context, databaseURL string, opts ConnectOptions) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pingWithRetry(ctx, pool, opts); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return &DB{Pool: pool}, nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

func pingWithRetry(ctx context.Context, db pinger, opts ConnectOptions) error {
	base := opts.BaseBackoff
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}
	backoff := retry.WithMaxRetries(uint64(retries), retry.WithCappedDuration(10*time.Second, retry.NewExponential(base)))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.Ping(pingCtx); err != nil {
			if opts.Logger != nil {
				opts.Logger.Warn("database not ready", "attempt", attempt, "error", err)
			}
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (d *DB) Close() {
	if d != nil && d.Pool != nil {
		d.Pool.Close()
	}
}
