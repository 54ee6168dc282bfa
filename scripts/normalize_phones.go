package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/AlexTLDR/venue-selector/internal/config"
	"github.com/AlexTLDR/venue-selector/internal/database"
	"github.com/AlexTLDR/venue-selector/internal/store"
	"github.com/AlexTLDR/venue-selector/internal/utils"
)

// Rewrites persisted registration phones to E.164 for PHONE_REGION so that
// enabling a region does not leave old entries in their typed form. Nothing
// is written if two registrations would end up with the same number.
func main() {
	ctx := context.Background()

	_ = godotenv.Overload()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if cfg.PhoneRegion == "" {
		log.Fatal().Msg("PHONE_REGION must be set")
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	st, err := store.Load(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load registrations")
	}

	fmt.Printf("Found %d registrations to process\n", st.Len())

	failed := 0
	updated, err := st.RewritePhones(ctx, func(i int, phone string) string {
		normalized, err := utils.NormalizePhoneNumber(phone, cfg.PhoneRegion)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Str("phone", phone).Msg("Failed to normalize phone")
			failed++
			return phone
		}
		if normalized != phone {
			fmt.Printf("Updated #%d: %q -> %q\n", i, phone, normalized)
		}
		return normalized
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to rewrite phones, nothing written")
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total: %d\n", st.Len())
	fmt.Printf("  Updated: %d\n", updated)
	fmt.Printf("  Failed: %d\n", failed)
	fmt.Printf("  Unchanged: %d\n", st.Len()-updated-failed)
}
