package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequired sets the minimum environment needed for Load to succeed.
func setRequired(t *testing.T) {
	t.Setenv("WC_URL", "https://default.com")
	t.Setenv("WC_CONSUMER_KEY", "ck_default")
	t.Setenv("WC_CONSUMER_SECRET", "cs_default")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("CALLBACK_ENABLED", "")
	t.Setenv("CALLBACK_STATUS_FROM", "")
	t.Setenv("CALLBACK_STATUS_TO", "")
	t.Setenv("STATUS_CATALOG", "")
	t.Setenv("PUBLIC_URL", "")
	setRequired(t)

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 10, cfg.WooCommerce.TimeoutSeconds)
	assert.Equal(t, "woo_superfaktura_callback/v1", cfg.Callback.Namespace)
	assert.False(t, cfg.Callback.Enabled)
	assert.Equal(t, "on-hold", cfg.Callback.StatusFrom)
	assert.Equal(t, "processing", cfg.Callback.StatusTo)
	assert.Equal(t, "default", cfg.Callback.StatusCatalog)
	assert.Equal(t, "http://localhost:8080", cfg.Callback.PublicURL)
	assert.False(t, cfg.Proxy.Enabled)
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("WC_URL", "https://example.com")
	t.Setenv("WC_CONSUMER_KEY", "ck_123")
	t.Setenv("CALLBACK_ENABLED", "true")
	t.Setenv("CALLBACK_STATUS_FROM", "pending")
	t.Setenv("CALLBACK_STATUS_TO", "completed")
	t.Setenv("STATUS_CATALOG", "woocommerce")
	t.Setenv("PROXY_ENABLED", "true")
	t.Setenv("PROXY_HOST", "proxy.local")
	t.Setenv("PROXY_PORT", "3128")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "https://example.com", cfg.WooCommerce.URL)
	assert.Equal(t, "ck_123", cfg.WooCommerce.ConsumerKey)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.True(t, cfg.Callback.Enabled)
	assert.Equal(t, "pending", cfg.Callback.StatusFrom)
	assert.Equal(t, "completed", cfg.Callback.StatusTo)
	assert.Equal(t, "woocommerce", cfg.Callback.StatusCatalog)
	assert.True(t, cfg.Proxy.Enabled)
	assert.Equal(t, "proxy.local", cfg.Proxy.Hostname)
	assert.Equal(t, 3128, cfg.Proxy.Port)
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("WC_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("CALLBACK_STATUS_TO", "")

	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
WC_URL=https://staging.example.com
WC_CONSUMER_KEY=ck_staging
WC_CONSUMER_SECRET=cs_staging
REDIS_URL=redis://cache:6379/1
CALLBACK_STATUS_TO=completed
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	assert.Equal(t, "completed", cfg.Callback.StatusTo)
}

// TestLoad_ValidationFailure verifies that missing required fields return an error.
func TestLoad_ValidationFailure(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_URL", "")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration: REDIS_URL")
}
