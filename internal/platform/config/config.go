// Package config reads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/janisto/legalhelp-api/internal/platform/firebase"
	"github.com/janisto/legalhelp-api/internal/tracker"
)

// Store backends.
const (
	StoreFirestore = "firestore"
	StoreMemory    = "memory"
)

// Config is the resolved service configuration.
type Config struct {
	Port        string
	Env         string
	CORSOrigins []string
	Store       string

	ProjectID       string
	CredentialsFile string

	CollectorURL  string
	BatchSize     int
	FlushInterval time.Duration
	MaxRetries    int
}

// Development reports whether APP_ENV is "development".
func (c Config) Development() bool {
	return strings.EqualFold(c.Env, "development")
}

// Tracker returns the error tracker settings. ERROR_MAX_RETRIES=0 disables
// delivery retries.
func (c Config) Tracker() tracker.Config {
	retries := c.MaxRetries
	if retries == 0 {
		retries = -1
	}
	return tracker.Config{
		Endpoint:      c.CollectorURL,
		BatchSize:     c.BatchSize,
		FlushInterval: c.FlushInterval,
		MaxRetries:    retries,
		Development:   c.Development(),
	}
}

// Firebase returns the Firebase client settings.
func (c Config) Firebase() firebase.Config {
	return firebase.Config{ProjectID: c.ProjectID, CredentialsFile: c.CredentialsFile}
}

// Load reads the listed .env files (missing files are skipped; existing
// variables win) and then the process environment.
func Load(files ...string) (Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, applying defaults and validating
// numeric values.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Config{
		Port:            get("PORT", "8080"),
		Env:             get("APP_ENV", "production"),
		CORSOrigins:     splitList(get("CORS_ALLOWED_ORIGINS", "")),
		Store:           strings.ToLower(get("STORE_BACKEND", StoreMemory)),
		ProjectID:       get("FIREBASE_PROJECT_ID", get("GOOGLE_CLOUD_PROJECT", "")),
		CredentialsFile: get("GOOGLE_APPLICATION_CREDENTIALS", ""),
		CollectorURL:    get("ERROR_COLLECTOR_URL", ""),
	}

	var errs []error
	var err error
	if cfg.BatchSize, err = atoi(get("ERROR_BATCH_SIZE", "10")); err != nil {
		errs = append(errs, fmt.Errorf("ERROR_BATCH_SIZE: %w", err))
	}
	if cfg.MaxRetries, err = atoi(get("ERROR_MAX_RETRIES", "3")); err != nil {
		errs = append(errs, fmt.Errorf("ERROR_MAX_RETRIES: %w", err))
	}
	if cfg.FlushInterval, err = time.ParseDuration(get("ERROR_FLUSH_INTERVAL", "5s")); err != nil || cfg.FlushInterval <= 0 {
		errs = append(errs, fmt.Errorf("ERROR_FLUSH_INTERVAL: invalid duration %q", get("ERROR_FLUSH_INTERVAL", "")))
	}
	switch cfg.Store {
	case StoreMemory:
	case StoreFirestore:
		if cfg.ProjectID == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required for the firestore backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND: unknown backend %q", cfg.Store))
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func atoi(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid non-negative integer %q", s)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
