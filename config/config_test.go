package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg := LoadConfigFrom(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 20, cfg.Feed.PageSize)
	assert.Equal(t, "access_token", cfg.JWT.CookieName)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 10, cfg.Password.BcryptCost)
}

func TestLoadConfigFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "database:\n  driver: sqlite\n  path: /tmp/x.db\nfeed:\n  pageSize: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := LoadConfigFrom(path)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.Database.Path)
	assert.Equal(t, 5, cfg.Feed.PageSize)
	assert.Equal(t, 30*time.Second, cfg.Feed.CacheTTL)
	assert.Equal(t, "sns-system", cfg.JWT.Issuer)
}

func TestLoadConfigFrom_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("FEED_CACHE_TTL", "2m")
	t.Setenv("PASSWORD_BCRYPT_COST", "12")

	cfg := LoadConfigFrom(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "sk-test", cfg.Chat.APIKey)
	assert.Equal(t, 2*time.Minute, cfg.Feed.CacheTTL)
	assert.Equal(t, 12, cfg.Password.BcryptCost)
}

func TestLoadConfigFrom_InvalidYAMLFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o600))

	cfg := LoadConfigFrom(path)
	assert.Equal(t, "8080", cfg.Server.Port)
}
