package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"bookcatalog/internal/postgres"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	loadEnvFiles()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(context.Background(), logger, *command, *name); err != nil {
		logger.Error("migration failed", "command", *command, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, command, name string) error {
	dir := migrationsDir()
	if command == "create" {
		if name == "" {
			return errNameRequired
		}
		if err := goose.Create(nil, dir, name, "sql"); err != nil {
			return err
		}
		logger.Info("migration created", "name", name, "dir", dir)
		return nil
	}

	pool, err := postgres.Open(ctx, postgres.PoolConfig{DSN: databaseURL()})
	if err != nil {
		return err
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		if err := goose.UpContext(ctx, db, dir); err != nil {
			return err
		}
		logger.Info("migrations applied", "dir", dir)
	case "down":
		if err := goose.DownContext(ctx, db, dir); err != nil {
			return err
		}
		logger.Info("migrations rolled back", "dir", dir)
	case "status":
		return goose.StatusContext(ctx, db, dir)
	default:
		return unknownCommandError(command)
	}
	return nil
}
