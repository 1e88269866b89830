package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kapu/collabhub-go/internal/dashboard"
	"github.com/kapu/collabhub-go/internal/service/database"
	"github.com/kapu/collabhub-go/internal/util"
	"go.uber.org/zap"
)

// CLI flags
var (
	dryRun  = flag.Bool("dry-run", false, "Parse the mock data without touching the database")
	dbHost  = flag.String("db-host", envOr("POSTGRES_HOST", "localhost"), "PostgreSQL host")
	dbPort  = flag.Int("db-port", 5432, "PostgreSQL port")
	dbUser  = flag.String("db-user", envOr("POSTGRES_USER", "collabhub"), "PostgreSQL user")
	dbPass  = flag.String("db-pass", os.Getenv("POSTGRES_PASSWORD"), "PostgreSQL password")
	dbName  = flag.String("db-name", envOr("POSTGRES_DB", "collabhub"), "PostgreSQL database")
	dbSSL   = flag.String("db-sslmode", envOr("POSTGRES_SSLMODE", "disable"), "PostgreSQL sslmode")
	verbose = flag.Bool("verbose", false, "Verbose output")
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	logger, err := util.NewLogger(level, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Error("Catalog seed failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	mock, err := dashboard.NewMock()
	if err != nil {
		return fmt.Errorf("load mock dashboards: %w", err)
	}
	influencer, err := mock.Influencer(ctx)
	if err != nil {
		return err
	}
	brand, err := mock.Brand(ctx)
	if err != nil {
		return err
	}
	logger.Info("Mock catalog loaded",
		zap.Int("opportunities", len(influencer.Opportunities)),
		zap.Int("influencers", len(brand.Discovery)))

	for _, inf := range brand.Discovery {
		logger.Debug("Influencer listing",
			zap.Int("id", inf.ID),
			zap.String("name", inf.Name),
			zap.Strings("niches", inf.Niches))
	}

	if *dryRun {
		logger.Info("Dry run, database left untouched")
		return nil
	}

	postgres, err := database.NewPostgresService(database.PostgresConfig{
		Host:     *dbHost,
		Port:     *dbPort,
		User:     *dbUser,
		Password: *dbPass,
		Database: *dbName,
		SSLMode:  *dbSSL,
	}, logger)
	if err != nil {
		return err
	}
	defer postgres.Close()

	catalog := database.NewCatalogRepository(postgres, logger)
	if err := catalog.EnsureSchema(ctx); err != nil {
		return err
	}
	return catalog.Seed(ctx, influencer.Opportunities, brand.Discovery)
}
