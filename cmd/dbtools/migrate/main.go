// cmd/dbtools/migrate/main.go
package main

import (
	"database/sql"
	"errors"
	"flag"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/footy/internal/config"
	"github.com/codr1/footy/internal/db"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config.yaml (used when -db is empty)")
		dbPath     = flag.String("db", "", "Path to SQLite database")
		command    = flag.String("command", "up", "Command to run (up, down, steps, version, force)")
		arg        = flag.String("n", "", "Step count for steps, version for force")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *dbPath == "" && *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("config", *configPath).Msg("Failed to load configuration")
		}
		*dbPath = cfg.Database.Filename
	}
	if *dbPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	sqlDB, err := sql.Open("sqlite3", *dbPath+"?_fk=1")
	if err != nil {
		log.Fatal().Err(err).Str("db", *dbPath).Msg("Failed to open database")
	}
	defer sqlDB.Close()

	m, err := db.NewMigrate(sqlDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Migration init failed")
	}

	logger := log.With().Str("db", *dbPath).Str("command", *command).Logger()

	switch *command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		n, convErr := strconv.Atoi(*arg)
		if convErr != nil {
			logger.Fatal().Err(convErr).Msg("-n must be an integer")
		}
		err = m.Steps(n)
	case "force":
		v, convErr := strconv.Atoi(*arg)
		if convErr != nil {
			logger.Fatal().Err(convErr).Msg("-n must be a migration version")
		}
		err = m.Force(v)
	case "version":
		version, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			logger.Fatal().Err(verr).Msg("Get version failed")
		}
		logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("Migration version")
		return
	default:
		logger.Fatal().Msg("Unknown command")
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal().Err(err).Msg("Migration failed")
	}
	logger.Info().Msg("Migration complete")
}
