package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := load(viper.New(), path, false)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, StorageLevelDB, cfg.Storage.Driver)
	assert.Equal(t, "/login", cfg.Routes.Login)
	assert.Equal(t, "/", cfg.Routes.Landing)
	assert.False(t, cfg.Cart.MergeOnAdd)
	assert.False(t, cfg.BrokerEnabled())
	assert.False(t, cfg.TLSEnabled())
}

func TestLoadMissingExplicit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	_, err := load(viper.New(), path, true)
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
http_server_addr: ":9090"
api:
  base_url: "https://shop.example.com/api"
  timeout: 3s
storage:
  driver: memory
cart:
  merge_on_add: true
routes:
  login: /signin
broker:
  seed_brokers: ["kafka-1:9092", "kafka-2:9092"]
  schema_registry_urls: ["http://sr:8081"]
  topics:
    checkouts: shop-checkouts
`)

	cfg, err := load(viper.New(), path, true)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.HTTPServerAddr)
	assert.Equal(t, "https://shop.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.True(t, cfg.Cart.MergeOnAdd)
	assert.Equal(t, "/signin", cfg.Routes.Login)
	assert.Equal(t, "/", cfg.Routes.Landing)
	assert.True(t, cfg.BrokerEnabled())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Broker.SeedBrokers)
	assert.Equal(t, "shop-checkouts", cfg.Broker.Topics.Checkouts)
	assert.Equal(t, "feedback", cfg.Broker.Topics.Feedback)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "storage:\n  driver: memory\n")
	t.Setenv("STOREFRONT_API_BASE_URL", "https://env.example.com")
	t.Setenv("STOREFRONT_LOG_LEVEL", "warn")

	cfg, err := load(viper.New(), path, true)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"UnknownKey", "unknown_key: 1\n"},
		{"UnknownDriver", "storage:\n  driver: redis\n"},
		{"SQLWithoutDSN", "storage:\n  driver: sql\n"},
		{"BrokerWithoutRegistry", "broker:\n  seed_brokers: [\"k:9092\"]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(viper.New(), writeConfig(t, tt.content), true)
			require.Error(t, err)
		})
	}
}
