package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http", cfg.Public.Scheme)
	assert.Equal(t, 8080, cfg.Public.Port)
	assert.Equal(t, RepositoryMemory, cfg.Repository.Type)
	assert.Equal(t, StorageLocal, cfg.Storage.Type)
	assert.Equal(t, PublisherNone, cfg.Events.Publisher)
	assert.Equal(t, "X-User", cfg.Auth.UserHeader)
	assert.Equal(t, "en", cfg.I18n.Locale)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("VIDEO_REPOSITORY", "SQLite")
	t.Setenv("PUBLIC_PORT", "80")
	t.Setenv("ETCD_ENDPOINTS", "a:2379, b:2379,")
	t.Setenv("RUN_AUTO_MIGRATION", "true")
	t.Setenv("WORKER_COUNT", "not-a-number")
	t.Setenv("LOCALE", "TR")

	cfg := LoadConfig()
	assert.Equal(t, RepositorySQLite, cfg.Repository.Type)
	assert.Equal(t, 80, cfg.Public.Port)
	assert.Equal(t, []string{"a:2379", "b:2379"}, cfg.Etcd.Endpoints)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 4, cfg.Worker.Count)
	assert.Equal(t, "tr", cfg.I18n.Locale)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"repository":  func(c *Config) { c.Repository.Type = "mongo" },
		"storage":     func(c *Config) { c.Storage.Type = "ftp" },
		"publisher":   func(c *Config) { c.Events.Publisher = "kafka" },
		"public port": func(c *Config) { c.Public.Port = 0 },
		"server port": func(c *Config) { c.Server.Port = "http" },
		"public host": func(c *Config) { c.Public.Host = "" },
		"workers":     func(c *Config) { c.Worker.Count = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := LoadConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
