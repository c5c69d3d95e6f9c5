package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 25, cfg.DBMaxOpenConnections)
	assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "aes-gcm", cfg.EncryptionAlgorithm)
	assert.True(t, cfg.RateLimitEnabled)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, 8081, cfg.MetricsPort)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ENCRYPTION_KEY", "super-secret-key")
	t.Setenv("ENCRYPTION_ALGORITHM", "chacha20-poly1305")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "super-secret-key", cfg.EncryptionKey)
	assert.Equal(t, "chacha20-poly1305", cfg.EncryptionAlgorithm)
	assert.False(t, cfg.RateLimitEnabled)
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{EncryptionKey: "key-material", EncryptionAlgorithm: "aes-gcm"}
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_MissingEncryptionKey(t *testing.T) {
	cfg := &Config{EncryptionAlgorithm: "aes-gcm"}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ENCRYPTION_KEY")
}

func TestConfig_Validate_UnknownAlgorithm(t *testing.T) {
	cfg := &Config{EncryptionKey: "key-material", EncryptionAlgorithm: "des"}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ENCRYPTION_ALGORITHM")
}

func TestConfig_GetGinMode(t *testing.T) {
	debug := &Config{LogLevel: "debug"}
	assert.Equal(t, "debug", debug.GetGinMode())

	info := &Config{LogLevel: "info"}
	assert.Equal(t, "release", info.GetGinMode())
}
