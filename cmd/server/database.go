package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/phrazzld/fintrack-api/internal/config"
	"github.com/phrazzld/fintrack-api/internal/redact"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

const connMaxLifetime = 5 * time.Minute

// pinger is the part of *sql.DB needed to check connectivity.
type pinger interface {
	PingContext(ctx context.Context) error
}

// openDatabase opens the connection pool and waits until PostgreSQL answers,
// retrying with exponential backoff for up to ConnectTimeoutSec.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = time.Duration(cfg.ConnectTimeoutSec) * time.Second

	if err := pingWithRetry(ctx, db, policy, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("database connection established",
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns))
	return db, nil
}

// pingWithRetry pings db until it succeeds, policy gives up or ctx is done.
func pingWithRetry(ctx context.Context, db pinger, policy backoff.BackOff, logger *slog.Logger) error {
	attempt := 0
	operation := func() error {
		attempt++
		return db.PingContext(ctx)
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("database not ready, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("retry_in", wait),
			slog.String("error", redact.Error(err)))
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(policy, ctx), notify); err != nil {
		return fmt.Errorf("failed to ping database after %d attempts: %w", attempt, err)
	}
	return nil
}
