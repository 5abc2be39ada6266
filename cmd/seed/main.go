// Command seed applies the schema and loads the sample catalog into the configured database.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"kart-engine/internal/config"
	"kart-engine/internal/database"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer pool.Close()

	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		return fmt.Errorf("failed to query current database: %w", err)
	}
	logger.Info().Str("database", dbName).Msg("connected")

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return err
	}
	if err := database.Seed(ctx, pool, logger); err != nil {
		return err
	}

	var products int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&products); err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	logger.Info().Int("products", products).Msg("seed completed")
	return nil
}
