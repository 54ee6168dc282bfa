package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
)

// DefaultPhonePattern accepts local numbers such as 555-0100 and 212-555-0100.
const DefaultPhonePattern = `^(\d{3}-)?\d{3}-\d{4}$`

type Config struct {
	// Storage
	DatabaseURL string

	// Catalog
	CatalogPath    string
	ImageBaseURL   string
	ImageExtension string
	RevealDelay    time.Duration

	// Phone policy
	PhonePattern *regexp.Regexp
	PhoneRegion  string

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	AdminEmails        []string

	// Session
	SessionSecret string

	// Logging
	LogLevel  string
	LogFormat string

	// App
	BaseURL   string
	Port      string
	StaticDir string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", "file:venues.db?_busy_timeout=5000"),
		CatalogPath:        getEnv("CATALOG_PATH", ""),
		ImageBaseURL:       getEnv("IMAGE_BASE_URL", "https://raw.githubusercontent.com/venue-selector/banners/main/"),
		ImageExtension:     getEnv("IMAGE_EXTENSION", ".png"),
		PhoneRegion:        strings.ToUpper(getEnv("PHONE_REGION", "")),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		SessionSecret:      getEnv("SESSION_SECRET", "change-me-in-production"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		Port:               getEnv("PORT", "8080"),
		StaticDir:          getEnv("STATIC_DIR", "./static"),
	}

	// Parse admin emails
	adminEmailsStr := getEnv("ADMIN_EMAILS", "")
	if adminEmailsStr != "" {
		for _, email := range strings.Split(adminEmailsStr, ",") {
			if email = strings.TrimSpace(email); email != "" {
				cfg.AdminEmails = append(cfg.AdminEmails, email)
			}
		}
	}

	pattern, err := regexp.Compile(getEnv("PHONE_PATTERN", DefaultPhonePattern))
	if err != nil {
		return nil, fmt.Errorf("invalid PHONE_PATTERN: %w", err)
	}
	cfg.PhonePattern = pattern

	if cfg.PhoneRegion != "" && phonenumbers.GetCountryCodeForRegion(cfg.PhoneRegion) == 0 {
		return nil, fmt.Errorf("invalid PHONE_REGION %q: unknown region", cfg.PhoneRegion)
	}

	delay, err := time.ParseDuration(getEnv("REVEAL_DELAY", "100ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid REVEAL_DELAY format: %w", err)
	}
	if delay < 0 {
		return nil, fmt.Errorf("invalid REVEAL_DELAY: must not be negative")
	}
	cfg.RevealDelay = delay

	return cfg, nil
}

// OAuthEnabled reports whether the admin area can authenticate anyone.
func (c *Config) OAuthEnabled() bool {
	return c.GoogleClientID != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
