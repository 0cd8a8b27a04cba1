package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BANKROLL_DATA_DIR", dir)
	t.Setenv("BANKROLL_BACKEND", "")
	t.Setenv("BANKROLL_CURRENCY", "")
	t.Setenv("BANKROLL_SHARED_STORE", "")
	t.Setenv("BANKROLL_WIDGET", "")
	t.Setenv("BANKROLL_PREMIUM", "")
	t.Setenv("BANKROLL_LOG_LEVEL", "")

	cfg := Load()

	if cfg.DataDir != dir {
		t.Fatalf("expected data dir %s, got %s", dir, cfg.DataDir)
	}
	if cfg.Backend != BackendJSON {
		t.Fatalf("expected json backend, got %s", cfg.Backend)
	}
	if cfg.Currency != "USD" {
		t.Fatalf("expected USD, got %s", cfg.Currency)
	}
	if cfg.SharedStorePath != filepath.Join(dir, "shared.db") {
		t.Fatalf("unexpected shared store path %s", cfg.SharedStorePath)
	}
	if !cfg.WidgetEnabled || cfg.Premium {
		t.Fatalf("unexpected flags: widget=%v premium=%v", cfg.WidgetEnabled, cfg.Premium)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BANKROLL_DATA_DIR", t.TempDir())
	t.Setenv("BANKROLL_BACKEND", "SQLite")
	t.Setenv("BANKROLL_CURRENCY", "eur")
	t.Setenv("BANKROLL_WIDGET", "false")
	t.Setenv("BANKROLL_PREMIUM", "true")

	cfg := Load()
	if cfg.Backend != BackendSQLite || cfg.Currency != "EUR" {
		t.Fatalf("unexpected backend/currency: %s/%s", cfg.Backend, cfg.Currency)
	}
	if cfg.WidgetEnabled || !cfg.Premium {
		t.Fatalf("unexpected flags: widget=%v premium=%v", cfg.WidgetEnabled, cfg.Premium)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := &Config{
		DataDir:       "",
		Backend:       "postgres",
		Currency:      "DOLLARS",
		WidgetEnabled: true,
		LogLevel:      "loud",
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"data directory", "invalid backend", "invalid currency", "shared store path", "invalid log level"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}
