package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/config"
	"fuel-route-service/internal/platform/db"
	"fuel-route-service/internal/platform/logging"
	"time"

	"github.com/sirupsen/logrus"
)

// dbtool creates the Postgres schema and loads station seed data.
func main() {
	cfg := config.Load()
	logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	seedPath := flag.String("seed", cfg.SeedPath, "path to the station seed JSON file")
	skipSeed := flag.Bool("schema-only", false, "create the schema without seeding")
	flag.Parse()

	if cfg.DatabaseURL == "" {
		logrus.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("open database")
	}
	defer sqlDB.Close()

	if err := initAndSeed(ctx, sqlDB, *seedPath, !*skipSeed); err != nil {
		logrus.WithError(err).Fatal("dbtool failed")
	}
}

func initAndSeed(ctx context.Context, sqlDB *sql.DB, seedPath string, seed bool) error {
	logrus.Info("Initializing database schema...")
	if err := repositories.InitSchema(ctx, sqlDB); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	logrus.Info("Schema ready.")

	if !seed {
		return nil
	}

	logrus.WithField("path", seedPath).Info("Seeding database...")
	if err := repositories.SeedFromJSON(ctx, sqlDB, seedPath); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	logrus.Info("Seeding complete.")

	return nil
}
