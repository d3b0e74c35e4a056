package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"

	"bookcrud/internal/config"
	"bookcrud/internal/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.LogLevel, "console")

	if err := validateCommand(*command, *name); err != nil {
		log.Fatal().Err(err).Msg("bad arguments")
	}

	// create only writes a file and needs no database.
	if *command == "create" {
		if err := goose.Create(nil, cfg.MigrationsDir, *name, "sql"); err != nil {
			log.Fatal().Err(err).Msg("failed to create migration")
		}
		log.Info().Str("name", *name).Msg("migration created")
		return
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", cfg.RedactedDSN()).Msg("failed to connect to database")
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := run(db, *command, cfg.MigrationsDir); err != nil {
		log.Fatal().Err(err).Str("command", *command).Msg("migration failed")
	}
	log.Info().Str("command", *command).Msg("migration finished")
}

func validateCommand(command, name string) error {
	switch command {
	case "up", "down", "status":
		return nil
	case "create":
		if name == "" {
			return fmt.Errorf("name is required for 'create' command")
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q, use: up, down, status, create", command)
	}
}

func run(db *sql.DB, command, dir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		return goose.Up(db, dir)
	case "down":
		return goose.Down(db, dir)
	case "status":
		return goose.Status(db, dir)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
