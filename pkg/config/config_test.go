package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePolicy(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadPolicy(t *testing.T) {
	t.Run("Defaults Without File", func(t *testing.T) {
		policy, err := LoadPolicy("")

		assert.NoError(t, err)
		assert.Equal(t, DefaultPolicy(), policy)
	})

	t.Run("Overrides", func(t *testing.T) {
		path := writePolicy(t, `
bonus:
  min: 10
  max: 20
  cooldown: 12h
withdrawal:
  min: 100
  stale_age: 24h
rate_limit:
  per_minute: 5
`)
		policy, err := LoadPolicy(path)

		require.NoError(t, err)
		assert.Equal(t, int64(10), policy.BonusMin)
		assert.Equal(t, int64(20), policy.BonusMax)
		assert.Equal(t, 12*time.Hour, policy.BonusCooldown)
		assert.Equal(t, int64(100), policy.MinWithdrawal)
		assert.Equal(t, 24*time.Hour, policy.StaleWithdrawalAge)
		assert.Equal(t, 5.0, policy.RatePerMinute)
		assert.Equal(t, 10, policy.RateBurst)
	})

	t.Run("Invalid Range", func(t *testing.T) {
		path := writePolicy(t, "bonus:\n  min: 9\n  max: 4\n")

		_, err := LoadPolicy(path)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "bonus range")
	})

	t.Run("Bad Duration", func(t *testing.T) {
		path := writePolicy(t, "bonus:\n  cooldown: tomorrow\n")

		_, err := LoadPolicy(path)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "bonus.cooldown")
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := LoadPolicy(filepath.Join(t.TempDir(), "nope.yaml"))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "open policy")
	})
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, (&Config{StorageBackend: BackendMemory}).Validate())
	assert.Error(t, (&Config{StorageBackend: BackendPostgres}).Validate())
	assert.Error(t, (&Config{StorageBackend: BackendDynamoDB, WalletsTable: "wallets"}).Validate())
	assert.Error(t, (&Config{StorageBackend: "redis"}).Validate())
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_BACKEND", "Memory")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STALE_WITHDRAWAL_AGE", "6h")
	t.Setenv("ECONOMY_POLICY_FILE", "")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 6*time.Hour, cfg.Policy.StaleWithdrawalAge)
	assert.NoError(t, cfg.Validate())
}
