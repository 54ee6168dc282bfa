package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AlexTLDR/venue-selector/internal/catalog"
	"github.com/AlexTLDR/venue-selector/internal/config"
	"github.com/AlexTLDR/venue-selector/internal/database"
	"github.com/AlexTLDR/venue-selector/internal/server"
	"github.com/AlexTLDR/venue-selector/internal/store"
)

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown LOG_LEVEL, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		return catalog.LoadDefault()
	}
	return catalog.Load(cfg.CatalogPath)
}

func main() {
	// Load .env file (ignore error if a file doesn't exist)
	// Use Overload to force to overwrite any existing environment variables
	envErr := godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	setupLogger(cfg)

	if envErr != nil {
		log.Debug().Err(envErr).Msg("No .env file loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The catalog ships with the binary; without it there is nothing to show.
	cat, err := loadCatalog(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("Failed to load venue catalog")
	}
	log.Info().Int("venues", cat.Len()).Msg("Venue catalog loaded")

	if err := run(ctx, cfg, cat); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, cat *catalog.Catalog) error {
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func(db *database.DB) {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}(db)

	if err := db.Migrate(); err != nil {
		return err
	}

	st, err := store.Load(ctx, db)
	if err != nil {
		return err
	}

	srv := server.New(cfg, cat, st)

	log.Info().Str("port", cfg.Port).Msg("Starting server")
	return srv.Start(ctx, ":"+cfg.Port)
}
