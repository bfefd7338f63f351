package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"field-workflow-service/internal/adapters/catalog"
	"field-workflow-service/internal/config"
	"field-workflow-service/internal/platform/db"
	"field-workflow-service/internal/platform/logger"

	"github.com/joho/godotenv"
)

// dbtool creates the catalog schema in Postgres and seeds it from the JSON
// catalog file.
func main() {
	log := logger.New(logger.Options{
		ServiceName: "dbtool",
		Level:       logger.ParseLevel(config.Get("FIELDFLOW_LOG_LEVEL", "info")),
		Format:      "console",
	})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Info(ctx, "no .env file found (using environment variables)")
	}

	databaseURL := config.Get("FIELDFLOW_DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Error(ctx, "FIELDFLOW_DATABASE_URL is required", nil)
		os.Exit(1)
	}

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Error(ctx, "open database", err)
		os.Exit(1)
	}
	defer conn.Close()

	seedPath := config.Get("FIELDFLOW_CATALOG_PATH", "data/seeds/catalog.json")
	if err := initAndSeed(ctx, log, conn, seedPath); err != nil {
		log.Error(ctx, "dbtool failed", err)
		conn.Close()
		os.Exit(1)
	}
}

func initAndSeed(ctx context.Context, log *logger.Logger, conn *sql.DB, seedPath string) error {
	log.Info(ctx, "applying migrations...")
	if err := db.Migrate(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	log.Info(ctx, "schema ready")

	seed, err := catalog.ReadSeed(seedPath)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	log.Info(log.WithField(ctx, "path", seedPath), "seeding catalog...")
	if err := catalog.SeedPostgres(ctx, conn, seed); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	log.Info(log.WithFields(ctx, map[string]any{
		"customers": len(seed.Customers),
		"products":  len(seed.Products),
	}), "seeding complete")
	return nil
}
