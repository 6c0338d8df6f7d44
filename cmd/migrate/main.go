package main

import (
	"fmt"
	"os"

	"github.com/Rrens/chatrooms/internal/config"
	"github.com/Rrens/chatrooms/internal/logger"
	"github.com/Rrens/chatrooms/internal/repository/migrations"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logFile, err := logger.Setup(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	var dialect, url string
	switch cfg.Storage.Driver {
	case "sqlite":
		dialect, url = "sqlite", "sqlite://"+cfg.Storage.SQLite.Path
	case "postgres":
		dialect, url = "postgres", cfg.Storage.Postgres.DSN()
	case "mysql":
		dialect, url = "mysql", "mysql://"+cfg.Storage.MySQL.MySQLDSN()
	default:
		log.Info().Str("driver", cfg.Storage.Driver).Msg("Storage driver has no schema, nothing to migrate")
		return
	}

	log.Info().Str("dialect", dialect).Msg("Applying migrations")
	if err := migrations.Run(dialect, url); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
