package config

import (
	"testing"
	"time"

	"peerprep/interview/internal/store"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("STORE_DRIVER", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Provider != "gemini" {
		t.Fatalf("expected provider gemini, got %s", cfg.Provider)
	}
	if cfg.StoreDriver != store.DriverSQLite {
		t.Fatalf("expected sqlite store, got %s", cfg.StoreDriver)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.TimerPollInterval != 500*time.Millisecond {
		t.Fatalf("expected 500ms poll interval, got %s", cfg.TimerPollInterval)
	}
	if cfg.SnapshotSchedule != "@every 5s" {
		t.Fatalf("unexpected snapshot schedule %q", cfg.SnapshotSchedule)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("AI_PROVIDER", "None")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("TIMER_POLL_INTERVAL", "250ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("POSTGRES_HOST", "db")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Provider != ProviderNone || cfg.StoreDriver != store.DriverSQLite {
		t.Fatalf("unexpected provider/driver %s/%s", cfg.Provider, cfg.StoreDriver)
	}
	if cfg.TimerPollInterval != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %s", cfg.TimerPollInterval)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
	if got := cfg.StoreOptions().Postgres.Host; got != "db" {
		t.Fatalf("expected postgres host db, got %s", got)
	}
}

func TestLoadConfig_UnsupportedProvider(t *testing.T) {
	t.Setenv("AI_PROVIDER", "unknown")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestLoadConfig_UnsupportedStore(t *testing.T) {
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("STORE_DRIVER", "cassandra")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unsupported store driver")
	}
}

func TestValidateConfig_MongoNeedsURI(t *testing.T) {
	cfg := &Config{Provider: "gemini", StoreDriver: store.DriverMongo, TimerPollInterval: time.Second, MaxUploadBytes: 1}
	if err := validateConfig(cfg); err == nil {
		t.Fatal("expected error without MONGO_URI")
	}
	cfg.MongoURI = "mongodb://localhost:27017"
	if err := validateConfig(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateConfig_PollInterval(t *testing.T) {
	cfg := &Config{Provider: "gemini", StoreDriver: store.DriverMemory, MaxUploadBytes: 1}
	if err := validateConfig(cfg); err == nil {
		t.Fatal("expected error for zero poll interval")
	}
}
