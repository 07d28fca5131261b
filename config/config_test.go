// ABOUTME: Tests for configuration loading
// ABOUTME: Covers defaults, YAML files, env overrides, and validation
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, TierFile, cfg.Storage.Tier)
	assert.Equal(t, "data", cfg.Storage.DataDir)
	assert.Equal(t, AuthNone, cfg.Auth.Mode)
	assert.Equal(t, "local-user", cfg.Auth.DefaultUserID)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "cloud.charm.sh", cfg.Storage.KVHost)
	assert.True(t, cfg.Storage.KVAutoSync)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "custom.yaml")
	content := []byte(`
environment: production
storage:
  tier: kv
  kv_path: /tmp/fomo-kv
auth:
  mode: mock-cookie
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, content, 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, TierKV, cfg.Storage.Tier)
	assert.Equal(t, "/tmp/fomo-kv", cfg.Storage.KVPath)
	assert.Equal(t, AuthMockCookie, cfg.Auth.Mode)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.IsProduction())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FOMO_STORAGE_TIER", "redis")
	t.Setenv("FOMO_STORAGE_REDIS_ADDR", "cache:6379")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, TierRedis, cfg.Storage.Tier)
	assert.Equal(t, "cache:6379", cfg.Storage.RedisAddr)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FOMO_AUTH_DEFAULT_USER_ID=dotenv-user\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("FOMO_AUTH_DEFAULT_USER_ID") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv-user", cfg.Auth.DefaultUserID)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Storage: StorageConfig{Tier: TierFile},
		Auth:    AuthConfig{Mode: AuthNone, DefaultUserID: "u"},
	}
	require.NoError(t, cfg.Validate())

	cfg.Storage.Tier = "floppy"
	assert.Error(t, cfg.Validate())

	cfg.Storage.Tier = TierFile
	cfg.Auth.Mode = AuthSupabase
	assert.Error(t, cfg.Validate(), "supabase without secret")

	cfg.Auth.JWTSecret = "secret"
	assert.NoError(t, cfg.Validate())

	cfg.Auth.DefaultUserID = "  "
	assert.Error(t, cfg.Validate())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}
