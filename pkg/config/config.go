// Package config loads process configuration from the environment and the
// economy policy from an optional YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	BackendDynamoDB = "dynamodb"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config is the environment-derived configuration shared by the binaries.
type Config struct {
	Port           string
	StorageBackend string

	WalletsTable     string
	LedgerTable      string
	RedeemCodesTable string
	WithdrawalsTable string
	InboxTable       string

	DatabaseURL string

	NotificationQueueURL string
	ReviewQueueURL       string

	JWTSecret string

	LogLevel slog.Level
	LogFile  string

	Policy Policy
}

// Load reads .env if present, then the environment, then the policy file
// named by ECONOMY_POLICY_FILE.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, reading configuration from environment")
	}

	cfg := &Config{
		Port:                 getenv("PORT", "8080"),
		StorageBackend:       strings.ToLower(getenv("STORAGE_BACKEND", BackendDynamoDB)),
		WalletsTable:         os.Getenv("WALLETS_TABLE_NAME"),
		LedgerTable:          os.Getenv("LEDGER_TABLE_NAME"),
		RedeemCodesTable:     os.Getenv("REDEEM_CODES_TABLE_NAME"),
		WithdrawalsTable:     os.Getenv("WITHDRAWALS_TABLE_NAME"),
		InboxTable:           os.Getenv("INBOX_TABLE_NAME"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		NotificationQueueURL: os.Getenv("NOTIFICATION_QUEUE_URL"),
		ReviewQueueURL:       os.Getenv("REVIEW_QUEUE_URL"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		LogFile:              os.Getenv("LOG_FILE"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getenv("LOG_LEVEL", "INFO"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	policy, err := LoadPolicy(os.Getenv("ECONOMY_POLICY_FILE"))
	if err != nil {
		return nil, err
	}
	if raw := os.Getenv("STALE_WITHDRAWAL_AGE"); raw != "" {
		age, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("STALE_WITHDRAWAL_AGE: %w", err)
		}
		policy.StaleWithdrawalAge = age
	}
	cfg.Policy = policy

	return cfg, nil
}

// Validate checks that the settings the selected backend needs are present.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendDynamoDB:
		if c.WalletsTable == "" || c.LedgerTable == "" || c.RedeemCodesTable == "" ||
			c.WithdrawalsTable == "" || c.InboxTable == "" {
			return fmt.Errorf("all *_TABLE_NAME environment variables must be set for the dynamodb backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set for the postgres backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
