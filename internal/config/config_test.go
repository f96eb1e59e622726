package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load([]string{"-jwt-key", "k"})
	require.NoError(t, err)
	require.Equal(t, ":8443", cfg.Addr)
	require.Equal(t, 20, cfg.DefaultPageSize)
	require.True(t, cfg.SeedDefaultLists)
}

func TestLoad_FileThenFlags(t *testing.T) {
	path := writeYAML(t, `
addr: ":7000"
jwt_key: from-file
access_ttl: 1h
max_page_size: 50
redis_url: redis://localhost:6379/0
seed_default_lists: false
`)
	cfg, err := Load([]string{"-config", path, "-addr", ":7001"})
	require.NoError(t, err)
	require.Equal(t, ":7001", cfg.Addr, "explicit flag wins over file")
	require.Equal(t, "from-file", cfg.JWTKey)
	require.Equal(t, time.Hour, cfg.AccessTTL)
	require.Equal(t, 50, cfg.MaxPageSize)
	require.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	require.False(t, cfg.SeedDefaultLists)

	cfg, err = Load([]string{"--config=" + path})
	require.NoError(t, err)
	require.Equal(t, ":7000", cfg.Addr)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(nil)
	require.ErrorContains(t, err, "jwt")

	_, err = Load([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")})
	require.ErrorContains(t, err, "read config")

	_, err = Load([]string{"-config", writeYAML(t, "unknown_key: 1\n")})
	require.ErrorContains(t, err, "parse config")

	_, err = Load([]string{"-jwt-key", "k", "-tls-cert", "c.pem"})
	require.ErrorContains(t, err, "together")

	_, err = Load([]string{"-jwt-key", "k", "-default-page-size", "500"})
	require.ErrorContains(t, err, "page sizes")
}

func TestConfigPath(t *testing.T) {
	require.Equal(t, "a.yaml", configPath([]string{"-dev", "-config", "a.yaml"}))
	require.Equal(t, "b.yaml", configPath([]string{"--config=b.yaml"}))
	require.Equal(t, "", configPath([]string{"-dev", "--", "-config", "c.yaml"}))
	require.Equal(t, "", configPath([]string{"config", "x"}))
}
