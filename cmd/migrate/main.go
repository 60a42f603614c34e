package main

import (
	"database/sql"
	"flag"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"server/internal/infra"
	"server/migrations"
)

func main() {
	_ = godotenv.Load()

	command := flag.String("command", "up", "goose command: up, down, status")
	flag.Parse()

	logger := infra.NewLogger(os.Getenv("APP_ENV"))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal().Msg("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		logger.Fatal().Err(err).Msg("failed to set goose dialect")
	}

	switch *command {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	default:
		logger.Fatal().Msgf("unknown command %q", *command)
	}
	if err != nil {
		logger.Fatal().Err(err).Msgf("migration %s failed", *command)
	}

	logger.Info().Msgf("migration %s complete", *command)
}
