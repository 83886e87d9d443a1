package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Store != StoreMemory || cfg.Development() {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	tc := cfg.Tracker()
	if tc.BatchSize != 10 || tc.FlushInterval != 5*time.Second || tc.MaxRetries != 3 || tc.Endpoint != "" {
		t.Fatalf("unexpected tracker config %+v", tc)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Fatalf("expected no origins, got %v", cfg.CORSOrigins)
	}
}

func TestOverrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"PORT":                 "9090",
		"APP_ENV":              "Development",
		"ERROR_COLLECTOR_URL":  "https://collector.example.sg/v1/errors",
		"ERROR_BATCH_SIZE":     "25",
		"ERROR_FLUSH_INTERVAL": "750ms",
		"ERROR_MAX_RETRIES":    "0",
		"STORE_BACKEND":        "Firestore",
		"FIREBASE_PROJECT_ID":  "legalhelp-sg",
		"CORS_ALLOWED_ORIGINS": " https://app.legalhelp.sg, ,https://admin.legalhelp.sg ",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Development() || cfg.Store != StoreFirestore || cfg.Firebase().ProjectID != "legalhelp-sg" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	tc := cfg.Tracker()
	if tc.BatchSize != 25 || tc.FlushInterval != 750*time.Millisecond || tc.MaxRetries != -1 || !tc.Development {
		t.Fatalf("unexpected tracker config %+v", tc)
	}
	if strings.Join(cfg.CORSOrigins, "|") != "https://app.legalhelp.sg|https://admin.legalhelp.sg" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestInvalidValuesAreJoined(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{
		"ERROR_BATCH_SIZE":     "ten",
		"ERROR_FLUSH_INTERVAL": "-1s",
		"STORE_BACKEND":        "postgres",
	}))
	if err == nil {
		t.Fatal("expected error")
	}
	for _, key := range []string{"ERROR_BATCH_SIZE", "ERROR_FLUSH_INTERVAL", "STORE_BACKEND"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("expected %s in %q", key, err)
		}
	}
}

func TestFirestoreNeedsProject(t *testing.T) {
	if _, err := FromLookup(lookupFrom(map[string]string{"STORE_BACKEND": "firestore"})); err == nil {
		t.Fatal("expected error without project")
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("LEGALHELP_TEST_BATCH=1\nERROR_MAX_RETRIES=5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ERROR_MAX_RETRIES", "2")
	t.Cleanup(func() { _ = os.Unsetenv("LEGALHELP_TEST_BATCH") })

	cfg, err := Load(path, filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if os.Getenv("LEGALHELP_TEST_BATCH") != "1" {
		t.Fatal("expected .env variable to be loaded")
	}
	if cfg.MaxRetries != 2 {
		t.Fatalf("process environment should win, got %d", cfg.MaxRetries)
	}
}
