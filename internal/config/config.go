package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

type Config struct {
	// Storage
	DataDir string
	Backend string

	// Widget shared store
	SharedStorePath string
	WidgetEnabled   bool

	// Display
	Currency string

	// Entitlement gate, set by whoever manages the subscription
	Premium bool

	LogLevel string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real env vars win over it.
func Load() *Config {
	_ = godotenv.Load()

	dataDir := getEnv("BANKROLL_DATA_DIR", defaultDataDir())
	return &Config{
		DataDir:         dataDir,
		Backend:         strings.ToLower(getEnv("BANKROLL_BACKEND", BackendJSON)),
		SharedStorePath: getEnv("BANKROLL_SHARED_STORE", filepath.Join(dataDir, "shared.db")),
		WidgetEnabled:   getEnvBool("BANKROLL_WIDGET", true),
		Currency:        strings.ToUpper(getEnv("BANKROLL_CURRENCY", "USD")),
		Premium:         getEnvBool("BANKROLL_PREMIUM", false),
		LogLevel:        getEnv("BANKROLL_LOG_LEVEL", "warn"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.DataDir) == "" {
		errors = append(errors, "data directory cannot be empty")
	}

	validBackends := []string{BackendJSON, BackendSQLite}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.Backend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid backend '%s': must be one of %v", c.Backend, validBackends))
	}

	if len(c.Currency) != 3 {
		errors = append(errors, fmt.Sprintf("invalid currency '%s': must be a 3-letter ISO code", c.Currency))
	}

	if c.WidgetEnabled && strings.TrimSpace(c.SharedStorePath) == "" {
		errors = append(errors, "shared store path cannot be empty when the widget is enabled")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// EnsureDataDir creates the data directory if it does not exist yet
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// SQLitePath is the database file used by the sqlite backend
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "bankroll.db")
}

// LiveSessionPath is where an in-progress session is kept
func (c *Config) LiveSessionPath() string {
	return filepath.Join(c.DataDir, "live.json")
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".bankroll"
	}
	return filepath.Join(homeDir, ".bankroll")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
