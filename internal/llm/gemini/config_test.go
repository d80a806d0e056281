package gemini

import (
	"testing"
	"time"
)

func TestNewConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("GEMINI_MODEL", "custom")
	t.Setenv("GEMINI_TIMEOUT", "5s")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}

	if cfg.APIKey != "key" || cfg.Model != "custom" || cfg.Timeout != 5*time.Second {
		t.Fatalf("unexpected config values: %+v", cfg)
	}
}

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("GEMINI_TIMEOUT", "")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if cfg.Model != "gemini-2.5-flash" || cfg.Timeout != 20*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestNewConfigMissingKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := NewConfig(); err == nil {
		t.Fatal("expected error when API key missing")
	}
}

func TestNewConfigBadTimeout(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("GEMINI_TIMEOUT", "soon")
	if _, err := NewConfig(); err == nil {
		t.Fatal("expected error for malformed timeout")
	}
}
