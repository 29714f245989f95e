// Package main implements the entry point for the fintrack API server, which
// stores users' transactions and budgets and serves spending analytics over them.
package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alecthomas/kong"
	"github.com/phrazzld/fintrack-api/internal/config"
	"github.com/phrazzld/fintrack-api/internal/platform/logger"

	_ "time/tzdata" // timezone database for minimal container images
)

// runContext is passed to every command's Run method.
type runContext struct {
	ctx context.Context
}

// cliArgs lists the commands and flags available.
type cliArgs struct {
	Serve   serveCmd   `cmd:"" default:"withargs" help:"Run the HTTP API (default)."`
	Migrate migrateCmd `cmd:"" help:"Apply or inspect database migrations."`
}

type serveCmd struct {
	Migrate bool `help:"Apply pending migrations before serving."`
}

type migrateCmd struct {
	Command string `arg:"" optional:"" enum:"up,down,status,version" default:"up" help:"One of: up, down, status, version."`
}

func main() {
	var cli cliArgs
	ctx := kong.Parse(&cli,
		kong.Name("fintrack-api"),
		kong.Description("Personal finance tracking and budget analytics API."),
	)
	err := ctx.Run(&runContext{ctx: context.Background()})
	ctx.FatalIfErrorf(err)
}

// bootstrap loads configuration and sets up structured logging.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("timezone", cfg.Server.Timezone))
	return cfg, l, nil
}

// Run starts the API server.
func (c *serveCmd) Run(rc *runContext) error {
	cfg, l, err := bootstrap()
	if err != nil {
		return err
	}

	db, err := openDatabase(rc.ctx, cfg.Database, l)
	if err != nil {
		return err
	}

	if c.Migrate {
		if err := runMigrations(rc.ctx, db, migrateUp, l); err != nil {
			_ = db.Close()
			return err
		}
	}

	app, err := newApplication(cfg, l, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.startHTTPServer(rc.ctx, app.setupRouter())
}

// Run executes a goose command against the configured database.
func (c *migrateCmd) Run(rc *runContext) error {
	cfg, l, err := bootstrap()
	if err != nil {
		return err
	}

	db, err := openDatabase(rc.ctx, cfg.Database, l)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return runMigrations(rc.ctx, db, c.Command, l)
}
